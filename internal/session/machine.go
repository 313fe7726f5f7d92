// Package session implements the session state machine: lifecycle
// transitions, bet booking, profit/loss watermarks, and stop-condition
// evaluation. Every transition is an immutable value update — it returns a
// new Session and callers persist the latest value.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/spindeck/roulettebot/internal/domain"
	"github.com/spindeck/roulettebot/internal/roulette"
)

// Machine applies session transitions. The clock is injectable so that
// max-duration behaviour is testable; there are no running timers — wall
// clock comparison happens at call time.
type Machine struct {
	now func() time.Time
}

// NewMachine creates a Machine using the real clock.
func NewMachine() *Machine {
	return &Machine{now: time.Now}
}

// NewMachineWithClock creates a Machine with a caller-supplied clock.
func NewMachineWithClock(now func() time.Time) *Machine {
	return &Machine{now: now}
}

// New creates an active session with the given starting progression.
func (m *Machine) New(userID string, cfg domain.SessionConfig, prog domain.Progression) domain.Session {
	return domain.Session{
		ID:          uuid.New().String(),
		UserID:      userID,
		Config:      cfg,
		Status:      domain.SessionActive,
		StartedAt:   m.now().UTC(),
		Progression: prog.Clone(),
	}
}

// PlaceBet settles one wager inside the session and returns the updated
// session plus the immutable bet record.
//
// It rejects when the session is not active, when any stop condition already
// holds (it only reports — the caller must end the session first), or when
// the stake exceeds the available balance. The progression is deliberately
// not advanced here; only the next Decide call advances it, reading the
// freshly appended history.
func (m *Machine) PlaceBet(s domain.Session, spec domain.BetSpec, number int) (domain.Session, domain.Bet, error) {
	if s.Status != domain.SessionActive {
		return s, domain.Bet{}, domain.NewIllegalTransitionError("cannot place a bet on a %s session", s.Status)
	}
	if reason, hit := m.ShouldAutoEnd(s); hit {
		return s, domain.Bet{}, domain.NewStopConditionError("session must end first: %s", reason)
	}

	game, err := roulette.Classify(number)
	if err != nil {
		return s, domain.Bet{}, err
	}
	if err := roulette.ValidateSpec(spec); err != nil {
		return s, domain.Bet{}, err
	}
	if stake := spec.TotalAmount(); stake > s.Balance() {
		return s, domain.Bet{}, domain.NewInsufficientBalanceError("stake %d exceeds balance %d", stake, s.Balance())
	}

	outcome, err := roulette.Score(spec, game)
	if err != nil {
		return s, domain.Bet{}, err
	}

	bet := domain.Bet{
		ID:          uuid.New().String(),
		Spec:        spec,
		Outcome:     outcome,
		Game:        game,
		Progression: s.Progression.Clone(),
		PlacedAt:    m.now().UTC(),
	}

	next := s.Clone()
	next.TotalBets++
	if outcome.Won {
		next.TotalWins++
	} else {
		next.TotalLosses++
	}
	next.ProfitLoss += outcome.NetGain
	if next.ProfitLoss > next.HighWatermark {
		next.HighWatermark = next.ProfitLoss
	}
	if next.ProfitLoss < next.LowWatermark {
		next.LowWatermark = next.ProfitLoss
	}
	next.Bets = append(next.Bets, bet)
	return next, bet, nil
}

// Pause suspends an active session. The transition is reversible.
func (m *Machine) Pause(s domain.Session) (domain.Session, error) {
	if s.Status != domain.SessionActive {
		return s, domain.NewIllegalTransitionError("cannot pause a %s session", s.Status)
	}
	next := s.Clone()
	next.Status = domain.SessionPaused
	return next, nil
}

// Resume reactivates a paused session.
func (m *Machine) Resume(s domain.Session) (domain.Session, error) {
	if s.Status != domain.SessionPaused {
		return s, domain.NewIllegalTransitionError("cannot resume a %s session", s.Status)
	}
	next := s.Clone()
	next.Status = domain.SessionActive
	return next, nil
}

// End moves an active or paused session to the terminal ended state, tagged
// with the reason. Ending an already-terminal session is a contract
// violation, reported rather than silently ignored.
func (m *Machine) End(s domain.Session, reason domain.EndReason) (domain.Session, error) {
	if s.Terminal() {
		return s, domain.NewIllegalTransitionError("session already %s", s.Status)
	}
	next := s.Clone()
	next.Status = domain.SessionEnded
	next.EndReason = reason
	t := m.now().UTC()
	next.EndedAt = &t
	return next, nil
}

// Cancel administratively terminates an active session.
func (m *Machine) Cancel(s domain.Session) (domain.Session, error) {
	if s.Status != domain.SessionActive {
		return s, domain.NewIllegalTransitionError("cannot cancel a %s session", s.Status)
	}
	next := s.Clone()
	next.Status = domain.SessionCanceled
	next.EndReason = domain.EndAdmin
	t := m.now().UTC()
	next.EndedAt = &t
	return next, nil
}

// ShouldAutoEnd re-evaluates the stop conditions against the current
// aggregates and reports the end reason the caller should use. Checking and
// acting are separate so callers can surface a warning before terminating.
func (m *Machine) ShouldAutoEnd(s domain.Session) (domain.EndReason, bool) {
	cfg := s.Config
	if s.ProfitLoss <= -cfg.StopLoss {
		return domain.EndStopLoss, true
	}
	if cfg.StopWin > 0 && s.ProfitLoss >= cfg.StopWin {
		return domain.EndStopWin, true
	}
	if cfg.MaxBets > 0 && s.TotalBets >= cfg.MaxBets {
		return domain.EndMaxBets, true
	}
	if cfg.MaxDuration > 0 && m.now().UTC().Sub(s.StartedAt) >= cfg.MaxDuration {
		return domain.EndMaxDuration, true
	}
	return "", false
}
