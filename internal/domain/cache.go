package domain

import (
	"context"
	"time"
)

// SummaryCache provides fast access to rendered session summaries.
type SummaryCache interface {
	Set(ctx context.Context, summary SessionSummary) error
	Get(ctx context.Context, sessionID string) (SessionSummary, error)
	Invalidate(ctx context.Context, sessionID string) error
}

// LockManager serializes writers. The engine assumes at-most-one-writer-per-
// session; the service layer enforces it with a per-session lock.
type LockManager interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (unlock func(), err error)
}

// EventBus provides pub/sub fan-out of session events to live consumers such
// as the WebSocket hub.
type EventBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}

// RateLimiter provides distributed rate limiting for the API surface.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
