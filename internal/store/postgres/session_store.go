package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spindeck/roulettebot/internal/domain"
)

// SessionStore implements domain.SessionStore using PostgreSQL. Session rows
// carry the aggregate counters; bets live in their own append-only table keyed
// by (session_id, seq).
type SessionStore struct {
	pool *pgxpool.Pool
}

var _ domain.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a SessionStore backed by the given connection pool.
func NewSessionStore(pool *pgxpool.Pool) *SessionStore {
	return &SessionStore{pool: pool}
}

const sessionCols = `id, user_id, method, config, status, end_reason,
	started_at, ended_at, total_bets, total_wins, total_losses,
	profit_loss, high_watermark, low_watermark, progression`

// Save upserts the session row and inserts any bets not yet persisted. Bets
// are immutable once written, so re-saving a session only appends.
func (s *SessionStore) Save(ctx context.Context, sess domain.Session) error {
	cfgJSON, err := json.Marshal(sess.Config)
	if err != nil {
		return fmt.Errorf("postgres: marshal session config: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin save session: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const upsert = `
		INSERT INTO sessions (
			id, user_id, method, config, status, end_reason,
			started_at, ended_at, total_bets, total_wins, total_losses,
			profit_loss, high_watermark, low_watermark, progression, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,NOW())
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			end_reason = EXCLUDED.end_reason,
			ended_at = EXCLUDED.ended_at,
			total_bets = EXCLUDED.total_bets,
			total_wins = EXCLUDED.total_wins,
			total_losses = EXCLUDED.total_losses,
			profit_loss = EXCLUDED.profit_loss,
			high_watermark = EXCLUDED.high_watermark,
			low_watermark = EXCLUDED.low_watermark,
			progression = EXCLUDED.progression,
			updated_at = NOW()`
	_, err = tx.Exec(ctx, upsert,
		sess.ID, sess.UserID, sess.Config.Method, cfgJSON,
		string(sess.Status), nullableReason(sess.EndReason),
		sess.StartedAt, sess.EndedAt,
		sess.TotalBets, sess.TotalWins, sess.TotalLosses,
		sess.ProfitLoss, sess.HighWatermark, sess.LowWatermark,
		progressionArray(sess.Progression),
	)
	if err != nil {
		return fmt.Errorf("postgres: upsert session %s: %w", sess.ID, err)
	}

	for i, bet := range sess.Bets {
		specJSON, err := json.Marshal(bet.Spec)
		if err != nil {
			return fmt.Errorf("postgres: marshal bet spec: %w", err)
		}
		outJSON, err := json.Marshal(bet.Outcome)
		if err != nil {
			return fmt.Errorf("postgres: marshal bet outcome: %w", err)
		}
		gameJSON, err := json.Marshal(bet.Game)
		if err != nil {
			return fmt.Errorf("postgres: marshal game outcome: %w", err)
		}

		const insertBet = `
			INSERT INTO bets (id, session_id, seq, spec, outcome, game, progression, placed_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
			ON CONFLICT (id) DO NOTHING`
		_, err = tx.Exec(ctx, insertBet,
			bet.ID, sess.ID, i, specJSON, outJSON, gameJSON,
			progressionArray(bet.Progression), bet.PlacedAt,
		)
		if err != nil {
			return fmt.Errorf("postgres: insert bet %s: %w", bet.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit save session %s: %w", sess.ID, err)
	}
	return nil
}

// Get loads a session with its full bet history in placement order.
func (s *SessionStore) Get(ctx context.Context, id string) (domain.Session, error) {
	query := `SELECT ` + sessionCols + ` FROM sessions WHERE id = $1`
	sess, err := scanSession(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Session{}, domain.ErrNotFound
		}
		return domain.Session{}, fmt.Errorf("postgres: get session %s: %w", id, err)
	}

	bets, err := s.loadBets(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}
	sess.Bets = bets
	return sess, nil
}

// FindActiveByUser returns the user's non-terminal sessions (active or
// paused), newest first, without bet histories.
func (s *SessionStore) FindActiveByUser(ctx context.Context, userID string) ([]domain.Session, error) {
	query := `SELECT ` + sessionCols + ` FROM sessions
		WHERE user_id = $1 AND status IN ('active', 'paused')
		ORDER BY started_at DESC`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres: find active sessions for %s: %w", userID, err)
	}
	defer rows.Close()
	return scanSessions(rows)
}

// ListByUser returns the user's sessions with pagination and optional time
// filtering on started_at. Bet histories are not loaded.
func (s *SessionStore) ListByUser(ctx context.Context, userID string, opts domain.ListOpts) ([]domain.Session, error) {
	query := `SELECT ` + sessionCols + ` FROM sessions WHERE user_id = $1`
	args := []any{userID}
	argIdx := 2

	if opts.Since != nil {
		query += fmt.Sprintf(" AND started_at >= $%d", argIdx)
		args = append(args, *opts.Since)
		argIdx++
	}
	if opts.Until != nil {
		query += fmt.Sprintf(" AND started_at <= $%d", argIdx)
		args = append(args, *opts.Until)
		argIdx++
	}

	query += " ORDER BY started_at DESC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, opts.Limit)
		argIdx++
	}
	if opts.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, opts.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list sessions for %s: %w", userID, err)
	}
	defer rows.Close()
	return scanSessions(rows)
}

// ListEndedBefore returns terminal sessions that ended strictly before the
// cutoff, oldest first, with full bet histories. Used by the archiver.
func (s *SessionStore) ListEndedBefore(ctx context.Context, before time.Time, limit int) ([]domain.Session, error) {
	query := `SELECT ` + sessionCols + ` FROM sessions
		WHERE status IN ('ended', 'canceled') AND ended_at < $1
		ORDER BY ended_at ASC`
	args := []any{before}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list ended sessions: %w", err)
	}
	defer rows.Close()

	sessions, err := scanSessions(rows)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		bets, err := s.loadBets(ctx, sessions[i].ID)
		if err != nil {
			return nil, err
		}
		sessions[i].Bets = bets
	}
	return sessions, nil
}

// Delete removes a session and, via cascade, its bets.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: delete session %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *SessionStore) loadBets(ctx context.Context, sessionID string) ([]domain.Bet, error) {
	const query = `SELECT id, spec, outcome, game, progression, placed_at
		FROM bets WHERE session_id = $1 ORDER BY seq ASC`
	rows, err := s.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("postgres: load bets for %s: %w", sessionID, err)
	}
	defer rows.Close()

	var bets []domain.Bet
	for rows.Next() {
		var (
			b        domain.Bet
			specJSON []byte
			outJSON  []byte
			gameJSON []byte
			prog     []int64
		)
		if err := rows.Scan(&b.ID, &specJSON, &outJSON, &gameJSON, &prog, &b.PlacedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan bet: %w", err)
		}
		if err := json.Unmarshal(specJSON, &b.Spec); err != nil {
			return nil, fmt.Errorf("postgres: unmarshal bet spec: %w", err)
		}
		if err := json.Unmarshal(outJSON, &b.Outcome); err != nil {
			return nil, fmt.Errorf("postgres: unmarshal bet outcome: %w", err)
		}
		if err := json.Unmarshal(gameJSON, &b.Game); err != nil {
			return nil, fmt.Errorf("postgres: unmarshal game outcome: %w", err)
		}
		b.Progression = fromProgressionArray(prog)
		bets = append(bets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: load bets rows: %w", err)
	}
	return bets, nil
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (domain.Session, error) {
	var (
		sess      domain.Session
		method    string
		cfgJSON   []byte
		status    string
		endReason *string
		prog      []int64
	)
	err := row.Scan(
		&sess.ID, &sess.UserID, &method, &cfgJSON, &status, &endReason,
		&sess.StartedAt, &sess.EndedAt,
		&sess.TotalBets, &sess.TotalWins, &sess.TotalLosses,
		&sess.ProfitLoss, &sess.HighWatermark, &sess.LowWatermark,
		&prog,
	)
	if err != nil {
		return domain.Session{}, err
	}
	if err := json.Unmarshal(cfgJSON, &sess.Config); err != nil {
		return domain.Session{}, fmt.Errorf("unmarshal session config: %w", err)
	}
	sess.Status = domain.SessionStatus(status)
	if endReason != nil {
		sess.EndReason = domain.EndReason(*endReason)
	}
	sess.Progression = fromProgressionArray(prog)
	return sess, nil
}

func scanSessions(rows pgx.Rows) ([]domain.Session, error) {
	var sessions []domain.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: session rows: %w", err)
	}
	return sessions, nil
}

func nullableReason(r domain.EndReason) *string {
	if r == "" {
		return nil
	}
	s := string(r)
	return &s
}

func progressionArray(p domain.Progression) []int64 {
	out := make([]int64, len(p))
	for i, v := range p {
		out[i] = int64(v)
	}
	return out
}

func fromProgressionArray(a []int64) domain.Progression {
	out := make(domain.Progression, len(a))
	for i, v := range a {
		out[i] = int(v)
	}
	return out
}
