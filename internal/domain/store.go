package domain

import (
	"context"
	"time"
)

// ListOpts provides pagination and filtering for list queries.
type ListOpts struct {
	Limit  int
	Offset int
	Since  *time.Time
	Until  *time.Time
}

// SessionStore persists sessions and their bet history. The core never
// imports a concrete storage technology; implementations live outside it.
type SessionStore interface {
	Save(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, error)
	FindActiveByUser(ctx context.Context, userID string) ([]Session, error)
	ListByUser(ctx context.Context, userID string, opts ListOpts) ([]Session, error)

	// ListEndedBefore returns terminal sessions whose EndedAt is strictly
	// before the cutoff, for archival.
	ListEndedBefore(ctx context.Context, before time.Time, limit int) ([]Session, error)
	Delete(ctx context.Context, id string) error
}

// AuditEntry is a single audit log row.
type AuditEntry struct {
	ID        int64          `json:"id"`
	Event     string         `json:"event"`
	Detail    map[string]any `json:"detail,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// AuditStore persists an append-only audit log of session lifecycle events.
type AuditStore interface {
	Log(ctx context.Context, event string, detail map[string]any) error
	List(ctx context.Context, opts ListOpts) ([]AuditEntry, error)
}
