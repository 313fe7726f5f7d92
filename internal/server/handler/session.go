package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/spindeck/roulettebot/internal/domain"
	"github.com/spindeck/roulettebot/internal/service"
)

// SessionService defines the methods the session handler requires from the
// service layer.
type SessionService interface {
	Create(ctx context.Context, userID string, cfg domain.SessionConfig) (domain.Session, error)
	Get(ctx context.Context, id string) (domain.Session, error)
	List(ctx context.Context, userID string, opts domain.ListOpts) ([]domain.Session, error)
	Active(ctx context.Context, userID string) ([]domain.Session, error)
	NextBet(ctx context.Context, id string, manualAmount int64) (domain.Decision, error)
	PlaceBet(ctx context.Context, id string, number int, manualAmount int64, override *domain.BetSpec) (service.PlacedBet, error)
	Pause(ctx context.Context, id string) (domain.Session, error)
	Resume(ctx context.Context, id string) (domain.Session, error)
	End(ctx context.Context, id string, reason domain.EndReason) (domain.Session, error)
	Cancel(ctx context.Context, id string) (domain.Session, error)
	Summary(ctx context.Context, id string) (domain.SessionSummary, error)
	AuditTrail(ctx context.Context, opts domain.ListOpts) ([]domain.AuditEntry, error)
}

// SessionHandler serves session lifecycle and play endpoints.
type SessionHandler struct {
	sessions SessionService
	logger   *slog.Logger
}

// NewSessionHandler creates a SessionHandler with the given service and logger.
func NewSessionHandler(sessions SessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// createSessionRequest is the JSON body for session creation.
type createSessionRequest struct {
	UserID string               `json:"user_id"`
	Config domain.SessionConfig `json:"config"`
}

// CreateSession starts a new session for a user.
// POST /api/sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	sess, err := h.sessions.Create(r.Context(), req.UserID, req.Config)
	if err != nil {
		if domain.CodeOf(err) == "" {
			h.logger.ErrorContext(r.Context(), "handler: create session failed",
				slog.String("error", err.Error()),
			)
		}
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sess)
}

// listSessionsResponse wraps list responses.
type listSessionsResponse struct {
	Sessions []domain.Session `json:"sessions"`
}

// ListSessions returns a user's sessions with pagination.
// GET /api/sessions?user_id=...&limit=50&offset=0
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id query parameter required")
		return
	}

	sessions, err := h.sessions.List(r.Context(), userID, parseListOpts(r))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list sessions failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}
	if sessions == nil {
		sessions = []domain.Session{}
	}

	writeJSON(w, http.StatusOK, listSessionsResponse{Sessions: sessions})
}

// ListActiveSessions returns a user's non-terminal sessions.
// GET /api/sessions/active?user_id=...
func (h *SessionHandler) ListActiveSessions(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id query parameter required")
		return
	}

	sessions, err := h.sessions.Active(r.Context(), userID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list active sessions failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list active sessions")
		return
	}
	if sessions == nil {
		sessions = []domain.Session{}
	}

	writeJSON(w, http.StatusOK, listSessionsResponse{Sessions: sessions})
}

// GetSession returns one session with its full bet history.
// GET /api/sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing session id")
		return
	}

	sess, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sess)
}

// ListBets returns the bet history of one session.
// GET /api/sessions/{id}/bets
func (h *SessionHandler) ListBets(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing session id")
		return
	}

	sess, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	bets := sess.Bets
	if bets == nil {
		bets = []domain.Bet{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"bets": bets})
}

// GetSummary returns the rendering view of a session.
// GET /api/sessions/{id}/summary
func (h *SessionHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing session id")
		return
	}

	summary, err := h.sessions.Summary(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// ListAuditEntries returns the recorded audit trail with pagination.
// GET /api/audit?limit=50&offset=0
func (h *SessionHandler) ListAuditEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.sessions.AuditTrail(r.Context(), parseListOpts(r))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list audit entries failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list audit entries")
		return
	}
	if entries == nil {
		entries = []domain.AuditEntry{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"audit": entries})
}

// nextBetRequest is the JSON body for a next-bet recommendation.
type nextBetRequest struct {
	ManualAmount int64 `json:"manual_amount,omitempty"`
}

// NextBet asks the method for its next recommendation without settling.
// POST /api/sessions/{id}/next-bet
func (h *SessionHandler) NextBet(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing session id")
		return
	}

	var req nextBetRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
	}

	d, err := h.sessions.NextBet(r.Context(), id, req.ManualAmount)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, d)
}

// placeBetRequest is the JSON body for one play round. Number is the drawn
// wheel number; Override replaces the recommended wager when set.
type placeBetRequest struct {
	Number       int             `json:"number"`
	ManualAmount int64           `json:"manual_amount,omitempty"`
	Override     *domain.BetSpec `json:"override,omitempty"`
}

// PlaceBet runs one full round against the drawn number.
// POST /api/sessions/{id}/bets
func (h *SessionHandler) PlaceBet(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing session id")
		return
	}

	var req placeBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.sessions.PlaceBet(r.Context(), id, req.Number, req.ManualAmount, req.Override)
	if err != nil {
		if domain.CodeOf(err) == "" {
			h.logger.ErrorContext(r.Context(), "handler: place bet failed",
				slog.String("session_id", id),
				slog.String("error", err.Error()),
			)
		}
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// endSessionRequest optionally carries the end reason.
type endSessionRequest struct {
	Reason domain.EndReason `json:"reason,omitempty"`
}

// PauseSession suspends an active session.
// POST /api/sessions/{id}/pause
func (h *SessionHandler) PauseSession(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(ctx context.Context, id string) (domain.Session, error) {
		return h.sessions.Pause(ctx, id)
	})
}

// ResumeSession reactivates a paused session.
// POST /api/sessions/{id}/resume
func (h *SessionHandler) ResumeSession(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(ctx context.Context, id string) (domain.Session, error) {
		return h.sessions.Resume(ctx, id)
	})
}

// EndSession terminates a session.
// POST /api/sessions/{id}/end
func (h *SessionHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	var req endSessionRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
	}
	h.transition(w, r, func(ctx context.Context, id string) (domain.Session, error) {
		return h.sessions.End(ctx, id, req.Reason)
	})
}

// CancelSession administratively terminates a session.
// POST /api/sessions/{id}/cancel
func (h *SessionHandler) CancelSession(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(ctx context.Context, id string) (domain.Session, error) {
		return h.sessions.Cancel(ctx, id)
	})
}

// transition shares the id-extraction and error mapping of the lifecycle
// endpoints.
func (h *SessionHandler) transition(w http.ResponseWriter, r *http.Request, fn func(context.Context, string) (domain.Session, error)) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing session id")
		return
	}

	sess, err := fn(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sess)
}
