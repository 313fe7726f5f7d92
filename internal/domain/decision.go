package domain

// Decision is a betting method's recommendation for the next round. It is
// plain data: the outer system renders it, the session service acts on it.
//
// When ShouldBet is false, Bet is nil and Reason explains why. StopSession
// signals that the caller should end the session with EndReason; a sequence
// completion is a success terminal and arrives here, not as an error.
type Decision struct {
	ShouldBet bool     `json:"should_bet"`
	Bet       *BetSpec `json:"bet,omitempty"`

	// SuggestedAmount is the stake the method computed, even when the caller
	// overrides it in manual mode.
	SuggestedAmount int64 `json:"suggested_amount"`

	NextProgression Progression `json:"next_progression"`
	StopSession     bool        `json:"stop_session"`
	EndReason       EndReason   `json:"end_reason,omitempty"`
	Reason          string      `json:"reason"`
}
