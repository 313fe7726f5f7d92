package domain

import "time"

// BetCategory identifies a roulette wager type.
type BetCategory string

const (
	BetStraight BetCategory = "straight"
	BetSplit    BetCategory = "split"
	BetStreet   BetCategory = "street"
	BetCorner   BetCategory = "corner"
	BetLine     BetCategory = "line"
	BetRed      BetCategory = "red"
	BetBlack    BetCategory = "black"
	BetEven     BetCategory = "even"
	BetOdd      BetCategory = "odd"
	BetLow      BetCategory = "low"
	BetHigh     BetCategory = "high"
	BetDozen1   BetCategory = "dozen-1"
	BetDozen2   BetCategory = "dozen-2"
	BetDozen3   BetCategory = "dozen-3"
	BetColumn1  BetCategory = "column-1"
	BetColumn2  BetCategory = "column-2"
	BetColumn3  BetCategory = "column-3"

	// BetMultiple is a composite wager: several simultaneous legs scored as a
	// set against one outcome. Used by fixed-coverage systems.
	BetMultiple BetCategory = "multiple"
)

// BetLeg is one leg of a composite (BetMultiple) wager.
type BetLeg struct {
	Category BetCategory `json:"category"`
	Numbers  []int       `json:"numbers,omitempty"`
	Amount   int64       `json:"amount"`
}

// BetSpec is a wager intent. Amount is in currency-agnostic integer minor
// units. Numbers is only set for inside bets (straight/split/street/corner/
// line); Legs is only set for BetMultiple.
type BetSpec struct {
	Category BetCategory `json:"category"`
	Numbers  []int       `json:"numbers,omitempty"`
	Amount   int64       `json:"amount"`
	Legs     []BetLeg    `json:"legs,omitempty"`
}

// TotalAmount returns the full stake of the wager: the sum of the legs for a
// composite bet, the plain amount otherwise.
func (s BetSpec) TotalAmount() int64 {
	if s.Category != BetMultiple {
		return s.Amount
	}
	var total int64
	for _, leg := range s.Legs {
		total += leg.Amount
	}
	return total
}

// BetOutcome is the result of scoring a BetSpec against a GameOutcome.
// NetGain is GrossReturn minus the total stake; it equals -stake on a loss.
// Multiplier is stake-inclusive (return per unit staked) and is zero for
// composite bets, where the legs carry their own multipliers.
type BetOutcome struct {
	Won         bool  `json:"won"`
	Multiplier  int64 `json:"multiplier"`
	GrossReturn int64 `json:"gross_return"`
	NetGain     int64 `json:"net_gain"`
}

// Bet is one placed and settled wager inside a session. Once recorded it is
// immutable; only the owning Session accumulates new Bets.
type Bet struct {
	ID          string      `json:"id"`
	Spec        BetSpec     `json:"spec"`
	Outcome     BetOutcome  `json:"outcome"`
	Game        GameOutcome `json:"game"`
	Progression Progression `json:"progression"` // snapshot taken before this bet advanced it
	PlacedAt    time.Time   `json:"placed_at"`
}
