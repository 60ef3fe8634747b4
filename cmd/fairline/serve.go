package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yourusername/fairline/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		appLog.WithField("version", Version).Info("Starting fairline API")

		server := api.NewServer(api.Config{
			ServiceName: cfg.App.Name,
			Version:     Version,
			Commit:      GitCommit,
			Settings:    cfg,
			Logger:      appLog,
		})
		if err := server.Run(ctx); err != nil {
			return err
		}

		if ctx.Err() == context.Canceled {
			appLog.Info("Shutdown signal received, server stopped")
		}
		return nil
	},
}
