package domain

import (
	"maps"
	"time"
)

// SessionStatus is the lifecycle state of a playing session.
type SessionStatus string

const (
	SessionActive   SessionStatus = "active"
	SessionPaused   SessionStatus = "paused"
	SessionEnded    SessionStatus = "ended"
	SessionCanceled SessionStatus = "canceled"
)

// EndReason tags why a session reached a terminal state.
type EndReason string

const (
	EndUserRequest         EndReason = "user_request"
	EndStopLoss            EndReason = "stop_loss"
	EndStopWin             EndReason = "stop_win"
	EndMaxBets             EndReason = "max_bets"
	EndMaxDuration         EndReason = "max_duration"
	EndSequenceComplete    EndReason = "sequence_complete"
	EndMethodLimit         EndReason = "method_limit"
	EndInsufficientBalance EndReason = "insufficient_balance"
	EndAdmin               EndReason = "admin"
	EndSystem              EndReason = "system"
)

// SessionConfig holds the risk limits and method parameters for one session.
// All monetary fields are integer minor units. StopLoss is the maximum
// cumulative loss; StopWin, MaxBets and MaxDuration are optional (zero
// disables them). Params carries method-specific parameters such as the
// target bet side, unit size, or initial cancellation sequence.
type SessionConfig struct {
	Method      string         `json:"method"`
	BaseAmount  int64          `json:"base_amount"`
	Bankroll    int64          `json:"bankroll"`
	StopLoss    int64          `json:"stop_loss"`
	StopWin     int64          `json:"stop_win,omitempty"`
	MaxBets     int            `json:"max_bets,omitempty"`
	MaxDuration time.Duration  `json:"max_duration,omitempty"`
	Params      map[string]any `json:"params,omitempty"`
}

// Session is the aggregate root for one playing session. Transitions return
// new values; the session package owns the state machine and callers persist
// the latest value.
type Session struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user_id"`
	Config      SessionConfig `json:"config"`
	Status      SessionStatus `json:"status"`
	EndReason   EndReason     `json:"end_reason,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	EndedAt     *time.Time    `json:"ended_at,omitempty"`
	TotalBets   int           `json:"total_bets"`
	TotalWins   int           `json:"total_wins"`
	TotalLosses int           `json:"total_losses"`

	// ProfitLoss is the signed cumulative net gain in minor units.
	// High/LowWatermark track its extrema over the session's lifetime.
	ProfitLoss    int64 `json:"profit_loss"`
	HighWatermark int64 `json:"high_watermark"`
	LowWatermark  int64 `json:"low_watermark"`

	Progression Progression `json:"progression"`
	Bets        []Bet       `json:"bets"`
}

// Balance returns the bankroll currently available to the session.
func (s Session) Balance() int64 {
	return s.Config.Bankroll + s.ProfitLoss
}

// Terminal reports whether the session has reached a terminal state.
func (s Session) Terminal() bool {
	return s.Status == SessionEnded || s.Status == SessionCanceled
}

// LastBet returns the most recently placed bet, or false when none exists.
func (s Session) LastBet() (Bet, bool) {
	if len(s.Bets) == 0 {
		return Bet{}, false
	}
	return s.Bets[len(s.Bets)-1], true
}

// Clone returns a deep copy so that transitions never alias the slices or
// maps of the previous value.
func (s Session) Clone() Session {
	out := s
	out.Progression = s.Progression.Clone()
	if s.Bets != nil {
		out.Bets = make([]Bet, len(s.Bets))
		copy(out.Bets, s.Bets)
	}
	if s.Config.Params != nil {
		out.Config.Params = maps.Clone(s.Config.Params)
	}
	if s.EndedAt != nil {
		t := *s.EndedAt
		out.EndedAt = &t
	}
	return out
}

// SessionSummary is the plain-data rendering view of a session: no
// formatting, localization, or currency logic.
type SessionSummary struct {
	SessionID     string        `json:"session_id"`
	Method        string        `json:"method"`
	Status        SessionStatus `json:"status"`
	EndReason     EndReason     `json:"end_reason,omitempty"`
	Duration      time.Duration `json:"duration"`
	TotalBets     int           `json:"total_bets"`
	TotalWins     int           `json:"total_wins"`
	TotalLosses   int           `json:"total_losses"`
	WinRate       float64       `json:"win_rate"`
	ProfitLoss    int64         `json:"profit_loss"`
	HighWatermark int64         `json:"high_watermark"`
	LowWatermark  int64         `json:"low_watermark"`
	Balance       int64         `json:"balance"`
}
