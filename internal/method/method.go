// Package method implements the betting progression methods. Every method is
// a pure function of (configuration, session history, progression state,
// balance) behind a single contract, so the session layer stays
// strategy-agnostic and new methods only touch the registry wiring.
package method

import (
	"github.com/spindeck/roulettebot/internal/domain"
)

// Input is everything a method may consult to produce a decision. Methods
// never retain any of it between calls.
type Input struct {
	Config  domain.SessionConfig
	History []domain.Bet
	// Progression is the session's current state; the decision returns the
	// next state, advanced from the outcome of the most recent settled bet.
	Progression domain.Progression
	Balance     int64

	// ManualAmount optionally overrides the computed stake for methods that
	// support a manual mode. Zero means "not supplied".
	ManualAmount int64
}

// Method is the contract every betting progression implements.
type Method interface {
	// Name returns the registry identifier.
	Name() string

	// ValidateConfig checks the session configuration, including
	// method-specific parameters. Unknown or out-of-range parameters are
	// rejected before any Decide call.
	ValidateConfig(cfg domain.SessionConfig) error

	// Init returns the progression state a fresh session starts with.
	Init(cfg domain.SessionConfig) (domain.Progression, error)

	// Decide recommends the next wager. It returns a typed domain error only
	// for caller mistakes (validation); expected terminals such as stop-loss
	// or sequence completion come back as a no-bet Decision with StopSession
	// set and a stable reason string.
	Decide(in Input) (domain.Decision, error)
}
