package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spindeck/roulettebot/internal/domain"
)

// summaryTTL bounds staleness for summaries of sessions whose writer died
// without invalidating.
const summaryTTL = 10 * time.Minute

// SummaryCache implements domain.SummaryCache with JSON values in Redis.
type SummaryCache struct {
	rdb *redis.Client
}

var _ domain.SummaryCache = (*SummaryCache)(nil)

// NewSummaryCache creates a SummaryCache backed by the given Client.
func NewSummaryCache(c *Client) *SummaryCache {
	return &SummaryCache{rdb: c.Underlying()}
}

func summaryKey(sessionID string) string {
	return "summary:" + sessionID
}

// Set stores the summary under its session ID.
func (sc *SummaryCache) Set(ctx context.Context, summary domain.SessionSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("redis: marshal summary %s: %w", summary.SessionID, err)
	}
	if err := sc.rdb.Set(ctx, summaryKey(summary.SessionID), data, summaryTTL).Err(); err != nil {
		return fmt.Errorf("redis: set summary %s: %w", summary.SessionID, err)
	}
	return nil
}

// Get returns the cached summary or domain.ErrNotFound on a miss.
func (sc *SummaryCache) Get(ctx context.Context, sessionID string) (domain.SessionSummary, error) {
	data, err := sc.rdb.Get(ctx, summaryKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.SessionSummary{}, domain.ErrNotFound
		}
		return domain.SessionSummary{}, fmt.Errorf("redis: get summary %s: %w", sessionID, err)
	}

	var summary domain.SessionSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return domain.SessionSummary{}, fmt.Errorf("redis: unmarshal summary %s: %w", sessionID, err)
	}
	return summary, nil
}

// Invalidate removes the cached summary. Missing keys are not an error.
func (sc *SummaryCache) Invalidate(ctx context.Context, sessionID string) error {
	if err := sc.rdb.Del(ctx, summaryKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis: invalidate summary %s: %w", sessionID, err)
	}
	return nil
}
