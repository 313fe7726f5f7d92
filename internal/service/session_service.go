package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/spindeck/roulettebot/internal/domain"
	"github.com/spindeck/roulettebot/internal/method"
	"github.com/spindeck/roulettebot/internal/session"
)

// sessionLockTTL bounds how long one placeBet/decide pair may hold the
// per-session writer lock.
const sessionLockTTL = 10 * time.Second

// SessionChannel is the event bus channel carrying session lifecycle and bet
// events for live consumers.
const SessionChannel = "ch:session"

// SessionEvent is the payload published on SessionChannel.
type SessionEvent struct {
	Type      string                 `json:"type"`
	SessionID string                 `json:"session_id"`
	UserID    string                 `json:"user_id,omitempty"`
	Summary   *domain.SessionSummary `json:"summary,omitempty"`
	Bet       *domain.Bet            `json:"bet,omitempty"`
}

// PlacedBet is the result of one play round: the decision that produced it,
// the settled bet (nil when the method declined to bet), the updated session,
// and the stop condition the caller should act on, if any.
type PlacedBet struct {
	Decision domain.Decision `json:"decision"`
	Bet      *domain.Bet     `json:"bet,omitempty"`
	Session  domain.Session  `json:"session"`

	// AutoEnd is set when a stop condition holds after this round;
	// the caller decides whether to end the session.
	AutoEnd domain.EndReason `json:"auto_end,omitempty"`
}

// SessionService orchestrates one playing session: it serializes writers with
// a per-session lock, asks the active method for a decision, settles the bet
// via the outcome evaluator inside the state machine, and persists the
// resulting session value.
type SessionService struct {
	sessions  domain.SessionStore
	audit     domain.AuditStore
	summaries domain.SummaryCache
	locks     domain.LockManager
	bus       domain.EventBus
	registry  *method.Registry
	machine   *session.Machine
	logger    *slog.Logger
}

// NewSessionService creates a SessionService with all required dependencies.
func NewSessionService(
	sessions domain.SessionStore,
	audit domain.AuditStore,
	summaries domain.SummaryCache,
	locks domain.LockManager,
	bus domain.EventBus,
	registry *method.Registry,
	machine *session.Machine,
	logger *slog.Logger,
) *SessionService {
	return &SessionService{
		sessions:  sessions,
		audit:     audit,
		summaries: summaries,
		locks:     locks,
		bus:       bus,
		registry:  registry,
		machine:   machine,
		logger:    logger.With(slog.String("component", "session_service")),
	}
}

// lock acquires the per-session writer lock, enforcing the
// at-most-one-writer-per-session invariant across processes.
func (s *SessionService) lock(ctx context.Context, sessionID string) (func(), error) {
	unlock, err := s.locks.Acquire(ctx, "session:"+sessionID, sessionLockTTL)
	if err != nil {
		return nil, fmt.Errorf("session_service: lock session %s: %w", sessionID, err)
	}
	return unlock, nil
}

// Create validates the configuration against the chosen method, initializes
// the progression, and persists a fresh active session.
func (s *SessionService) Create(ctx context.Context, userID string, cfg domain.SessionConfig) (domain.Session, error) {
	m, err := s.registry.Get(cfg.Method)
	if err != nil {
		return domain.Session{}, domain.NewValidationError("unknown method %q", cfg.Method)
	}
	if err := m.ValidateConfig(cfg); err != nil {
		return domain.Session{}, err
	}
	prog, err := m.Init(cfg)
	if err != nil {
		return domain.Session{}, err
	}

	sess := s.machine.New(userID, cfg, prog)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return domain.Session{}, fmt.Errorf("session_service: save session: %w", err)
	}

	s.auditLog(ctx, "session_created", map[string]any{
		"session_id": sess.ID,
		"user_id":    userID,
		"method":     cfg.Method,
	})
	s.publish(ctx, SessionEvent{Type: "session_created", SessionID: sess.ID, UserID: userID})

	s.logger.InfoContext(ctx, "session created",
		slog.String("session_id", sess.ID),
		slog.String("user_id", userID),
		slog.String("method", cfg.Method),
	)
	return sess, nil
}

// Get loads a session with its full bet history.
func (s *SessionService) Get(ctx context.Context, id string) (domain.Session, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return domain.Session{}, fmt.Errorf("session_service: get session %s: %w", id, err)
	}
	return sess, nil
}

// List returns a user's sessions with pagination.
func (s *SessionService) List(ctx context.Context, userID string, opts domain.ListOpts) ([]domain.Session, error) {
	out, err := s.sessions.ListByUser(ctx, userID, opts)
	if err != nil {
		return nil, fmt.Errorf("session_service: list sessions: %w", err)
	}
	return out, nil
}

// Active returns a user's currently active sessions.
func (s *SessionService) Active(ctx context.Context, userID string) ([]domain.Session, error) {
	out, err := s.sessions.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("session_service: find active sessions: %w", err)
	}
	return out, nil
}

// NextBet asks the active method for its recommendation without settling
// anything. The advanced progression is persisted so the recommendation is
// authoritative for the round that follows.
func (s *SessionService) NextBet(ctx context.Context, id string, manualAmount int64) (domain.Decision, error) {
	unlock, err := s.lock(ctx, id)
	if err != nil {
		return domain.Decision{}, err
	}
	defer unlock()

	sess, err := s.Get(ctx, id)
	if err != nil {
		return domain.Decision{}, err
	}
	d, _, err := s.decide(ctx, &sess, manualAmount)
	return d, err
}

// decide runs the session-level stop checks and the method decision, and
// persists the advanced progression in sess.
func (s *SessionService) decide(ctx context.Context, sess *domain.Session, manualAmount int64) (domain.Decision, method.Method, error) {
	if sess.Status != domain.SessionActive {
		return domain.Decision{}, nil, domain.NewIllegalTransitionError("cannot bet on a %s session", sess.Status)
	}

	// Session-level limits the methods cannot see (max-bets, max-duration)
	// surface as a synthetic stop decision.
	if reason, hit := s.machine.ShouldAutoEnd(*sess); hit {
		return domain.Decision{
			ShouldBet:       false,
			NextProgression: sess.Progression.Clone(),
			StopSession:     true,
			EndReason:       reason,
			Reason:          fmt.Sprintf("stop condition %s holds for session %s", reason, sess.ID),
		}, nil, nil
	}

	m, err := s.registry.Get(sess.Config.Method)
	if err != nil {
		return domain.Decision{}, nil, domain.NewValidationError("unknown method %q", sess.Config.Method)
	}
	d, err := m.Decide(method.Input{
		Config:       sess.Config,
		History:      sess.Bets,
		Progression:  sess.Progression,
		Balance:      sess.Balance(),
		ManualAmount: manualAmount,
	})
	if err != nil {
		return domain.Decision{}, nil, err
	}

	if !d.NextProgression.Equal(sess.Progression) {
		next := sess.Clone()
		next.Progression = d.NextProgression.Clone()
		if err := s.sessions.Save(ctx, next); err != nil {
			return domain.Decision{}, nil, fmt.Errorf("session_service: save progression: %w", err)
		}
		*sess = next
	}
	return d, m, nil
}

// PlaceBet runs one full round: decide, settle the wager against the drawn
// number, fold the aggregates, persist, and report any stop condition that
// now holds. The override spec, when non-nil, replaces the recommended wager
// (it is still validated and settled by the evaluator).
func (s *SessionService) PlaceBet(ctx context.Context, id string, number int, manualAmount int64, override *domain.BetSpec) (PlacedBet, error) {
	unlock, err := s.lock(ctx, id)
	if err != nil {
		return PlacedBet{}, err
	}
	defer unlock()

	sess, err := s.Get(ctx, id)
	if err != nil {
		return PlacedBet{}, err
	}

	d, _, err := s.decide(ctx, &sess, manualAmount)
	if err != nil {
		return PlacedBet{}, err
	}
	if !d.ShouldBet {
		return PlacedBet{Decision: d, Session: sess, AutoEnd: d.EndReason}, nil
	}

	spec := *d.Bet
	if override != nil {
		spec = *override
	}

	next, bet, err := s.machine.PlaceBet(sess, spec, number)
	if err != nil {
		return PlacedBet{}, err
	}
	if err := s.sessions.Save(ctx, next); err != nil {
		return PlacedBet{}, fmt.Errorf("session_service: save session %s: %w", id, err)
	}
	s.refreshSummary(ctx, next)

	s.auditLog(ctx, "bet_placed", map[string]any{
		"session_id": next.ID,
		"bet_id":     bet.ID,
		"category":   string(bet.Spec.Category),
		"amount":     bet.Spec.TotalAmount(),
		"number":     bet.Game.Number,
		"net_gain":   bet.Outcome.NetGain,
	})
	s.publish(ctx, SessionEvent{Type: "bet_placed", SessionID: next.ID, UserID: next.UserID, Bet: &bet})

	out := PlacedBet{Decision: d, Bet: &bet, Session: next}
	if reason, hit := s.machine.ShouldAutoEnd(next); hit {
		out.AutoEnd = reason
	}
	return out, nil
}

// Pause suspends an active session.
func (s *SessionService) Pause(ctx context.Context, id string) (domain.Session, error) {
	return s.transition(ctx, id, "session_paused", func(sess domain.Session) (domain.Session, error) {
		return s.machine.Pause(sess)
	})
}

// Resume reactivates a paused session.
func (s *SessionService) Resume(ctx context.Context, id string) (domain.Session, error) {
	return s.transition(ctx, id, "session_resumed", func(sess domain.Session) (domain.Session, error) {
		return s.machine.Resume(sess)
	})
}

// End terminates a session with the given reason.
func (s *SessionService) End(ctx context.Context, id string, reason domain.EndReason) (domain.Session, error) {
	if reason == "" {
		reason = domain.EndUserRequest
	}
	return s.transition(ctx, id, "session_ended", func(sess domain.Session) (domain.Session, error) {
		return s.machine.End(sess, reason)
	})
}

// Cancel administratively terminates an active session.
func (s *SessionService) Cancel(ctx context.Context, id string) (domain.Session, error) {
	return s.transition(ctx, id, "session_canceled", func(sess domain.Session) (domain.Session, error) {
		return s.machine.Cancel(sess)
	})
}

// transition locks, loads, applies fn, persists, and emits the audit and bus
// events shared by every lifecycle change.
func (s *SessionService) transition(ctx context.Context, id, event string, fn func(domain.Session) (domain.Session, error)) (domain.Session, error) {
	unlock, err := s.lock(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}
	defer unlock()

	sess, err := s.Get(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}
	next, err := fn(sess)
	if err != nil {
		return domain.Session{}, err
	}
	if err := s.sessions.Save(ctx, next); err != nil {
		return domain.Session{}, fmt.Errorf("session_service: save session %s: %w", id, err)
	}
	// A terminal transition drops the cached summary; the next read recomputes
	// it from the final session state. Non-terminal transitions refresh it.
	if next.Terminal() {
		s.dropSummary(ctx, next.ID)
	} else {
		s.refreshSummary(ctx, next)
	}

	s.auditLog(ctx, event, map[string]any{
		"session_id": next.ID,
		"status":     string(next.Status),
		"end_reason": string(next.EndReason),
	})
	summary := s.machine.Summarize(next)
	s.publish(ctx, SessionEvent{Type: event, SessionID: next.ID, UserID: next.UserID, Summary: &summary})
	return next, nil
}

// Summary returns the rendering view of a session, served from cache when
// fresh.
func (s *SessionService) Summary(ctx context.Context, id string) (domain.SessionSummary, error) {
	if summary, err := s.summaries.Get(ctx, id); err == nil {
		return summary, nil
	}
	sess, err := s.Get(ctx, id)
	if err != nil {
		return domain.SessionSummary{}, err
	}
	summary := s.machine.Summarize(sess)
	if err := s.summaries.Set(ctx, summary); err != nil {
		s.logger.WarnContext(ctx, "summary cache set failed",
			slog.String("session_id", id),
			slog.String("error", err.Error()),
		)
	}
	return summary, nil
}

// AuditTrail returns the recorded audit log entries, newest filtering applied
// by the store via opts.
func (s *SessionService) AuditTrail(ctx context.Context, opts domain.ListOpts) ([]domain.AuditEntry, error) {
	if s.audit == nil {
		return []domain.AuditEntry{}, nil
	}
	entries, err := s.audit.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("session_service: list audit entries: %w", err)
	}
	return entries, nil
}

// refreshSummary best-effort updates the cached summary.
func (s *SessionService) refreshSummary(ctx context.Context, sess domain.Session) {
	if err := s.summaries.Set(ctx, s.machine.Summarize(sess)); err != nil {
		s.logger.WarnContext(ctx, "summary cache refresh failed",
			slog.String("session_id", sess.ID),
			slog.String("error", err.Error()),
		)
	}
}

// dropSummary best-effort invalidates the cached summary.
func (s *SessionService) dropSummary(ctx context.Context, id string) {
	if err := s.summaries.Invalidate(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "summary cache invalidate failed",
			slog.String("session_id", id),
			slog.String("error", err.Error()),
		)
	}
}

// auditLog best-effort appends to the audit trail.
func (s *SessionService) auditLog(ctx context.Context, event string, detail map[string]any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Log(ctx, event, detail); err != nil {
		s.logger.WarnContext(ctx, "audit log failed",
			slog.String("event", event),
			slog.String("error", err.Error()),
		)
	}
}

// publish best-effort emits a session event on the bus.
func (s *SessionService) publish(ctx context.Context, ev SessionEvent) {
	if s.bus == nil {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if err := s.bus.Publish(ctx, SessionChannel, payload); err != nil {
		s.logger.WarnContext(ctx, "event publish failed",
			slog.String("type", ev.Type),
			slog.String("error", err.Error()),
		)
	}
}
