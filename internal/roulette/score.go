package roulette

import (
	"github.com/spindeck/roulettebot/internal/domain"
)

// Stake-inclusive payout multipliers: the gross return per unit staked on a
// winning bet, so net gain is amount*(multiplier-1).
const (
	MultiplierStraight  int64 = 36
	MultiplierSplit     int64 = 18
	MultiplierStreet    int64 = 12
	MultiplierCorner    int64 = 9
	MultiplierLine      int64 = 6
	MultiplierDozen     int64 = 3
	MultiplierColumn    int64 = 3
	MultiplierEvenMoney int64 = 2
)

// insideBetSizes maps each inside category to its required Numbers
// cardinality. Cardinality is enforced at bet construction, not at scoring.
var insideBetSizes = map[domain.BetCategory]int{
	domain.BetStraight: 1,
	domain.BetSplit:    2,
	domain.BetStreet:   3,
	domain.BetCorner:   4,
	domain.BetLine:     6,
}

// Multiplier returns the stake-inclusive payout multiplier for a category.
// BetMultiple has no single multiplier; its legs carry their own.
func Multiplier(cat domain.BetCategory) (int64, error) {
	switch cat {
	case domain.BetStraight:
		return MultiplierStraight, nil
	case domain.BetSplit:
		return MultiplierSplit, nil
	case domain.BetStreet:
		return MultiplierStreet, nil
	case domain.BetCorner:
		return MultiplierCorner, nil
	case domain.BetLine:
		return MultiplierLine, nil
	case domain.BetDozen1, domain.BetDozen2, domain.BetDozen3:
		return MultiplierDozen, nil
	case domain.BetColumn1, domain.BetColumn2, domain.BetColumn3:
		return MultiplierColumn, nil
	case domain.BetRed, domain.BetBlack, domain.BetEven, domain.BetOdd, domain.BetLow, domain.BetHigh:
		return MultiplierEvenMoney, nil
	default:
		return 0, domain.NewValidationError("unknown bet category %q", cat)
	}
}

// ValidateSpec checks a wager intent at construction time: positive amount,
// inside-bet cardinality and number range, and well-formed composite legs.
func ValidateSpec(spec domain.BetSpec) error {
	if spec.Category == domain.BetMultiple {
		if spec.Amount != 0 {
			return domain.NewValidationError("composite bet carries amounts on its legs, not on the spec")
		}
		if len(spec.Legs) == 0 {
			return domain.NewValidationError("composite bet requires at least one leg")
		}
		for i, leg := range spec.Legs {
			if leg.Category == domain.BetMultiple {
				return domain.NewValidationError("composite bet legs cannot nest")
			}
			legSpec := domain.BetSpec{Category: leg.Category, Numbers: leg.Numbers, Amount: leg.Amount}
			if err := ValidateSpec(legSpec); err != nil {
				return domain.NewValidationError("leg %d: %v", i, err)
			}
		}
		return nil
	}

	if spec.Amount <= 0 {
		return domain.NewValidationError("bet amount must be positive, got %d", spec.Amount)
	}
	if _, err := Multiplier(spec.Category); err != nil {
		return err
	}

	want, inside := insideBetSizes[spec.Category]
	if !inside {
		if len(spec.Numbers) != 0 {
			return domain.NewValidationError("%s bet does not take explicit numbers", spec.Category)
		}
		return nil
	}
	if len(spec.Numbers) != want {
		return domain.NewValidationError("%s bet requires exactly %d numbers, got %d", spec.Category, want, len(spec.Numbers))
	}
	seen := make(map[int]bool, want)
	for _, n := range spec.Numbers {
		if n < 0 || n > 36 {
			return domain.NewValidationError("number %d outside European wheel range 0..36", n)
		}
		if seen[n] {
			return domain.NewValidationError("duplicate number %d in %s bet", n, spec.Category)
		}
		seen[n] = true
	}
	return nil
}

// wins decides whether a single (non-composite) bet covers the outcome.
func wins(cat domain.BetCategory, numbers []int, out domain.GameOutcome) bool {
	switch cat {
	case domain.BetStraight, domain.BetSplit, domain.BetStreet, domain.BetCorner, domain.BetLine:
		for _, n := range numbers {
			if n == out.Number {
				return true
			}
		}
		return false
	case domain.BetRed:
		return out.Color == domain.ColorRed
	case domain.BetBlack:
		return out.Color == domain.ColorBlack
	case domain.BetEven:
		return out.Number > 0 && out.Number%2 == 0
	case domain.BetOdd:
		return out.Number > 0 && out.Number%2 == 1
	case domain.BetLow:
		return out.Number >= 1 && out.Number <= 18
	case domain.BetHigh:
		return out.Number >= 19 && out.Number <= 36
	case domain.BetDozen1:
		return out.Dozen == 1
	case domain.BetDozen2:
		return out.Dozen == 2
	case domain.BetDozen3:
		return out.Dozen == 3
	case domain.BetColumn1:
		return out.Column == 1
	case domain.BetColumn2:
		return out.Column == 2
	case domain.BetColumn3:
		return out.Column == 3
	default:
		return false
	}
}

// Score settles a wager against one spin. Composite bets score as a set of
// simultaneous legs against the same outcome and return the summed net gain;
// there is no partial cancellation between legs.
func Score(spec domain.BetSpec, out domain.GameOutcome) (domain.BetOutcome, error) {
	if err := ValidateSpec(spec); err != nil {
		return domain.BetOutcome{}, err
	}

	if spec.Category == domain.BetMultiple {
		var gross int64
		var anyWon bool
		for _, leg := range spec.Legs {
			if !wins(leg.Category, leg.Numbers, out) {
				continue
			}
			mult, err := Multiplier(leg.Category)
			if err != nil {
				return domain.BetOutcome{}, err
			}
			gross += leg.Amount * mult
			anyWon = true
		}
		total := spec.TotalAmount()
		return domain.BetOutcome{
			Won:         anyWon,
			GrossReturn: gross,
			NetGain:     gross - total,
		}, nil
	}

	mult, err := Multiplier(spec.Category)
	if err != nil {
		return domain.BetOutcome{}, err
	}
	if !wins(spec.Category, spec.Numbers, out) {
		return domain.BetOutcome{
			Won:         false,
			Multiplier:  mult,
			GrossReturn: 0,
			NetGain:     -spec.Amount,
		}, nil
	}
	return domain.BetOutcome{
		Won:         true,
		Multiplier:  mult,
		GrossReturn: spec.Amount * mult,
		NetGain:     spec.Amount * (mult - 1),
	}, nil
}
