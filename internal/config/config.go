// Package config provides configuration management for the fairline service and CLI.
package config

import (
	"fmt"

	"github.com/yourusername/fairline/internal/odds"
)

// Config represents the complete application configuration
type Config struct {
	App     AppConfig     `mapstructure:"app" validate:"required"`
	Solver  SolverConfig  `mapstructure:"solver" validate:"required"`
	Kelly   KellyConfig   `mapstructure:"kelly" validate:"required"`
	API     APIConfig     `mapstructure:"api" validate:"required"`
	Metrics MetricsConfig `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// SolverConfig bounds the power and Shin root-finds
type SolverConfig struct {
	Tolerance     float64 `mapstructure:"tolerance" validate:"required,gt=0,lt=0.001"`
	MaxIterations int     `mapstructure:"max_iterations" validate:"required,gt=0,lte=10000"`
}

// KellyConfig holds stake sizing defaults. Zero defaults mean no stake is
// computed unless the caller supplies bankroll and multiplier.
type KellyConfig struct {
	DefaultBankroll   float64 `mapstructure:"default_bankroll" validate:"gte=0"`
	DefaultMultiplier float64 `mapstructure:"default_multiplier" validate:"gte=0"`
	MaxMultiplier     float64 `mapstructure:"max_multiplier" validate:"required,gt=0"`
}

// APIConfig represents the JSON API server configuration
type APIConfig struct {
	Port                  int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	RateLimitRPS          float64  `mapstructure:"rate_limit_rps" validate:"required,gt=0"`
	RateLimitBurst        int      `mapstructure:"rate_limit_burst" validate:"required,gt=0"`
	CacheTTLSeconds       int      `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
	RequestTimeoutSeconds int      `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
	MaxLegs               int      `mapstructure:"max_legs" validate:"required,gt=0,lte=100"`
	AllowedOrigins        []string `mapstructure:"allowed_origins" validate:"dive,required"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required,startswith=/"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// SolverSettings returns the root-finding bounds for the devig engine
func (c *Config) SolverSettings() odds.Solver {
	return odds.Solver{
		Tolerance:     c.Solver.Tolerance,
		MaxIterations: c.Solver.MaxIterations,
	}
}

// DefaultStakeInputs returns the configured bankroll and multiplier, or nils
// when no stake default is configured.
func (c *Config) DefaultStakeInputs() (bankroll, multiplier *float64) {
	if c.Kelly.DefaultBankroll == 0 && c.Kelly.DefaultMultiplier == 0 {
		return nil, nil
	}
	b := c.Kelly.DefaultBankroll
	m := c.Kelly.DefaultMultiplier
	return &b, &m
}

// APIAddress returns the listen address for the API server
func (c *Config) APIAddress() string {
	return fmt.Sprintf(":%d", c.API.Port)
}
