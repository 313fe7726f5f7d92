// Package config defines the top-level configuration for the roulette bot
// and provides validation helpers.
package config

import (
	"fmt"
	"strings"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by ROULETTE_* environment
// variables.
type Config struct {
	Postgres   PostgresConfig   `toml:"postgres"`
	Redis      RedisConfig      `toml:"redis"`
	S3         S3Config         `toml:"s3"`
	Server     ServerConfig     `toml:"server"`
	Archive    ArchiveConfig    `toml:"archive"`
	Simulation SimulationConfig `toml:"simulation"`
	Mode       string           `toml:"mode"`
	LogLevel   string           `toml:"log_level"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// S3Config holds S3-compatible object storage parameters for the session
// archive.
type S3Config struct {
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// ServerConfig holds the HTTP API parameters.
type ServerConfig struct {
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`

	// APIKey enables the authentication stub when non-empty.
	APIKey string `toml:"api_key"`

	// RateLimitPerMinute throttles mutating requests per client key.
	// Zero disables rate limiting.
	RateLimitPerMinute int `toml:"rate_limit_per_minute"`
}

// ArchiveConfig controls the cold-storage export of terminal sessions.
type ArchiveConfig struct {
	Enabled       bool `toml:"enabled"`
	RetentionDays int  `toml:"retention_days"`
	IntervalHours int  `toml:"interval_hours"`
}

// SimulationConfig seeds the offline simulate mode. Params carries the
// method-specific parameters verbatim.
type SimulationConfig struct {
	Method     string         `toml:"method"`
	BaseAmount int64          `toml:"base_amount"`
	Bankroll   int64          `toml:"bankroll"`
	StopLoss   int64          `toml:"stop_loss"`
	StopWin    int64          `toml:"stop_win"`
	MaxBets    int            `toml:"max_bets"`
	Sessions   int            `toml:"sessions"`
	Seed       int64          `toml:"seed"`
	Params     map[string]any `toml:"params"`
}

// Defaults returns the built-in configuration that Load merges the TOML file
// on top of.
func Defaults() Config {
	return Config{
		Mode:     "serve",
		LogLevel: "info",
		Postgres: PostgresConfig{
			Host:          "localhost",
			Port:          5432,
			Database:      "roulettebot",
			SSLMode:       "disable",
			PoolMaxConns:  8,
			PoolMinConns:  2,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			PoolSize: 16,
		},
		S3: S3Config{
			Region: "us-east-1",
		},
		Server: ServerConfig{
			Port:               8080,
			RateLimitPerMinute: 120,
		},
		Archive: ArchiveConfig{
			RetentionDays: 30,
			IntervalHours: 24,
		},
		Simulation: SimulationConfig{
			Method:     "fibonacci",
			BaseAmount: 100,
			Bankroll:   10_000,
			StopLoss:   5_000,
			Sessions:   100,
			Seed:       1,
		},
	}
}

// Validate checks the configuration for the selected mode.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Mode) {
	case "serve", "simulate", "archive":
	default:
		return fmt.Errorf("config: unsupported mode %q (serve, simulate, archive)", c.Mode)
	}

	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unsupported log_level %q", c.LogLevel)
	}

	mode := strings.ToLower(c.Mode)

	if mode == "serve" {
		if c.Server.Port < 1 || c.Server.Port > 65535 {
			return fmt.Errorf("config: server.port %d out of range", c.Server.Port)
		}
		if err := c.validatePostgres(); err != nil {
			return err
		}
		if c.Redis.Addr == "" {
			return fmt.Errorf("config: redis.addr is required in serve mode")
		}
	}

	if mode == "archive" || (mode == "serve" && c.Archive.Enabled) {
		if c.S3.Bucket == "" {
			return fmt.Errorf("config: s3.bucket is required for archiving")
		}
		if c.Archive.RetentionDays < 1 {
			return fmt.Errorf("config: archive.retention_days must be positive, got %d", c.Archive.RetentionDays)
		}
	}
	if mode == "archive" {
		if err := c.validatePostgres(); err != nil {
			return err
		}
	}

	if mode == "simulate" {
		if c.Simulation.Method == "" {
			return fmt.Errorf("config: simulation.method is required in simulate mode")
		}
		if c.Simulation.Sessions < 1 {
			return fmt.Errorf("config: simulation.sessions must be positive, got %d", c.Simulation.Sessions)
		}
	}

	return nil
}

func (c *Config) validatePostgres() error {
	if c.Postgres.DSN == "" && (c.Postgres.Host == "" || c.Postgres.Database == "" || c.Postgres.User == "") {
		return fmt.Errorf("config: postgres needs a dsn or host/database/user")
	}
	return nil
}
