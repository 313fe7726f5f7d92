package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/spindeck/roulettebot/internal/domain"
)

// archiveBatchSize caps how many sessions one ArchiveSessions call pulls from
// the store.
const archiveBatchSize = 500

// Archiver implements domain.Archiver by exporting terminal sessions to
// object storage as JSONL and deleting the archived rows afterwards. Each
// session line carries the full bet history, so the upload is the durable
// record.
type Archiver struct {
	writer   domain.BlobWriter
	sessions domain.SessionStore
	audit    domain.AuditStore
	logger   *slog.Logger
}

var _ domain.Archiver = (*Archiver)(nil)

// NewArchiver creates an Archiver.
func NewArchiver(writer domain.BlobWriter, sessions domain.SessionStore, audit domain.AuditStore, logger *slog.Logger) *Archiver {
	return &Archiver{
		writer:   writer,
		sessions: sessions,
		audit:    audit,
		logger:   logger.With(slog.String("component", "archiver")),
	}
}

// ArchiveSessions exports terminal sessions that ended strictly before the
// cutoff and removes them from the primary store. It returns the number of
// sessions archived. A session is only deleted after its batch has been
// uploaded, so a failed upload leaves the store untouched.
func (a *Archiver) ArchiveSessions(ctx context.Context, before time.Time) (int64, error) {
	var total int64

	for {
		batch, err := a.sessions.ListEndedBefore(ctx, before, archiveBatchSize)
		if err != nil {
			return total, fmt.Errorf("s3blob: archive sessions query: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		buf, err := marshalJSONL(batch)
		if err != nil {
			return total, fmt.Errorf("s3blob: archive sessions marshal: %w", err)
		}

		path := archivePath(before, batch[0].ID)
		if err := a.writer.Put(ctx, path, bytes.NewReader(buf), "application/x-ndjson"); err != nil {
			return total, fmt.Errorf("s3blob: archive sessions upload: %w", err)
		}

		for _, sess := range batch {
			if err := a.sessions.Delete(ctx, sess.ID); err != nil {
				return total, fmt.Errorf("s3blob: archive delete session %s: %w", sess.ID, err)
			}
			total++
		}

		if err := a.audit.Log(ctx, "archive.sessions", map[string]any{
			"path":   path,
			"count":  len(batch),
			"before": before.Format(time.RFC3339),
		}); err != nil {
			a.logger.WarnContext(ctx, "audit log failed", slog.String("error", err.Error()))
		}

		if len(batch) < archiveBatchSize {
			break
		}
	}

	return total, nil
}

// archivePath builds the object key, partitioned by the cutoff's year-month
// and disambiguated by the first session ID in the batch.
//
//	archive/sessions/2026-08/<session-id>.jsonl
func archivePath(before time.Time, firstID string) string {
	return fmt.Sprintf("archive/sessions/%s/%s.jsonl", before.Format("2006-01"), firstID)
}

// marshalJSONL serialises records as newline-delimited JSON.
func marshalJSONL[T any](records []T) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return nil, fmt.Errorf("jsonl encode record %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}
