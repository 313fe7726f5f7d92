package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies ROULETTE_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known ROULETTE_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	// ── Postgres ──
	setStr(&cfg.Postgres.DSN, "ROULETTE_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "ROULETTE_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "ROULETTE_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "ROULETTE_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "ROULETTE_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "ROULETTE_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "ROULETTE_POSTGRES_SSLMODE")
	setInt(&cfg.Postgres.PoolMaxConns, "ROULETTE_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "ROULETTE_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "ROULETTE_POSTGRES_RUN_MIGRATIONS")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "ROULETTE_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "ROULETTE_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "ROULETTE_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "ROULETTE_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "ROULETTE_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "ROULETTE_REDIS_TLS_ENABLED")

	// ── S3 ──
	setStr(&cfg.S3.Endpoint, "ROULETTE_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "ROULETTE_S3_REGION")
	setStr(&cfg.S3.Bucket, "ROULETTE_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "ROULETTE_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "ROULETTE_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "ROULETTE_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "ROULETTE_S3_FORCE_PATH_STYLE")

	// ── Server ──
	setInt(&cfg.Server.Port, "ROULETTE_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "ROULETTE_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "ROULETTE_SERVER_API_KEY")
	setInt(&cfg.Server.RateLimitPerMinute, "ROULETTE_SERVER_RATE_LIMIT_PER_MINUTE")

	// ── Archive ──
	setBool(&cfg.Archive.Enabled, "ROULETTE_ARCHIVE_ENABLED")
	setInt(&cfg.Archive.RetentionDays, "ROULETTE_ARCHIVE_RETENTION_DAYS")
	setInt(&cfg.Archive.IntervalHours, "ROULETTE_ARCHIVE_INTERVAL_HOURS")

	// ── Simulation ──
	setStr(&cfg.Simulation.Method, "ROULETTE_SIMULATION_METHOD")
	setInt64(&cfg.Simulation.BaseAmount, "ROULETTE_SIMULATION_BASE_AMOUNT")
	setInt64(&cfg.Simulation.Bankroll, "ROULETTE_SIMULATION_BANKROLL")
	setInt64(&cfg.Simulation.StopLoss, "ROULETTE_SIMULATION_STOP_LOSS")
	setInt64(&cfg.Simulation.StopWin, "ROULETTE_SIMULATION_STOP_WIN")
	setInt(&cfg.Simulation.MaxBets, "ROULETTE_SIMULATION_MAX_BETS")
	setInt(&cfg.Simulation.Sessions, "ROULETTE_SIMULATION_SESSIONS")
	setInt64(&cfg.Simulation.Seed, "ROULETTE_SIMULATION_SEED")

	// ── Top-level ──
	setStr(&cfg.Mode, "ROULETTE_MODE")
	setStr(&cfg.LogLevel, "ROULETTE_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
