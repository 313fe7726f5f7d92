package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	s3blob "github.com/spindeck/roulettebot/internal/blob/s3"
	"github.com/spindeck/roulettebot/internal/cache/redis"
	"github.com/spindeck/roulettebot/internal/config"
	"github.com/spindeck/roulettebot/internal/domain"
	"github.com/spindeck/roulettebot/internal/store/postgres"
)

// Dependencies bundles every domain-level dependency the application modes
// need. Wire constructs it and returns a cleanup function that tears it down.
type Dependencies struct {
	// Stores
	SessionStore domain.SessionStore
	AuditStore   domain.AuditStore

	// Caches
	SummaryCache domain.SummaryCache
	RateLimiter  domain.RateLimiter
	LockManager  domain.LockManager
	EventBus     domain.EventBus

	// Blob storage
	BlobWriter domain.BlobWriter
	BlobReader domain.BlobReader
	Archiver   domain.Archiver
}

// needsPostgres reports whether the mode requires a database connection.
func needsPostgres(mode string) bool {
	switch mode {
	case "serve", "archive":
		return true
	default:
		return false
	}
}

// needsRedis reports whether the mode requires the cache layer.
func needsRedis(mode string) bool {
	return mode == "serve"
}

// needsS3 reports whether the mode requires object storage.
func needsS3(mode string, cfg *config.Config) bool {
	return mode == "archive" || (mode == "serve" && cfg.Archive.Enabled)
}

// Wire constructs the concrete dependency implementations for the configured
// mode and returns them together with a cleanup function.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	mode := strings.ToLower(cfg.Mode)

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// ── PostgreSQL ──
	if needsPostgres(mode) {
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Postgres.DSN,
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Database: cfg.Postgres.Database,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			SSLMode:  cfg.Postgres.SSLMode,
			MaxConns: cfg.Postgres.PoolMaxConns,
			MinConns: cfg.Postgres.PoolMinConns,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres: %w", err)
		}
		closers = append(closers, pgClient.Close)

		if cfg.Postgres.RunMigrations {
			if err := pgClient.RunMigrations(ctx); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
			}
		}

		pool := pgClient.Pool()
		deps.SessionStore = postgres.NewSessionStore(pool)
		deps.AuditStore = postgres.NewAuditStore(pool)
	}

	// ── Redis ──
	if needsRedis(mode) {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		deps.SummaryCache = redis.NewSummaryCache(redisClient)
		deps.RateLimiter = redis.NewRateLimiter(redisClient)
		deps.LockManager = redis.NewLockManager(redisClient)
		deps.EventBus = redis.NewEventBus(redisClient)
	}

	// ── S3 blob storage ──
	if needsS3(mode, cfg) {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		closers = append(closers, func() { _ = s3Client.Close() })

		deps.BlobWriter = s3blob.NewWriter(s3Client)
		deps.BlobReader = s3blob.NewReader(s3Client)
		if deps.SessionStore != nil && deps.AuditStore != nil {
			deps.Archiver = s3blob.NewArchiver(deps.BlobWriter, deps.SessionStore, deps.AuditStore, logger)
		}
	}

	return deps, cleanup, nil
}
