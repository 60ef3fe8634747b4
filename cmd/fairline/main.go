package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/fairline/internal/config"
	"github.com/yourusername/fairline/internal/logger"
	"github.com/yourusername/fairline/internal/metrics"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	appLog     *logrus.Logger
	cfg        *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultPath, "Path to configuration file")
	rootCmd.AddCommand(evaluateCmd, convertCmd, marginCmd, serveCmd, versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "fairline",
	Short: "Devig parlay legs and size wagers",
	Long: `Removes the bookmaker margin from each leg of a parlay with four devig methods,
prices the combined fair odds against the offered odds and sizes a Kelly stake.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		setupDependencies()
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "fairline %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

func setupDependencies() {
	appLog = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment, os.Stderr)
	metrics.InitRegistry()
}
