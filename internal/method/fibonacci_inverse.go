package method

import (
	"fmt"

	"github.com/spindeck/roulettebot/internal/domain"
)

const defaultInverseTarget = "red"

// FibonacciInverse walks the same tabulated sequence as Fibonacci on an
// even-chance target. The loss rule is identical (one step forward); the win
// rule always subtracts exactly two, flooring at zero only when the position
// is below two — never a partial step.
//
// Parameters:
//   - "target": one of red/black/even/odd/low/high. Defaults to red.
//   - "max_steps" (1..15): cap on the tabulated sequence length.
type FibonacciInverse struct{}

// NewFibonacciInverse creates the method.
func NewFibonacciInverse() *FibonacciInverse { return &FibonacciInverse{} }

// Name returns the registry identifier.
func (f *FibonacciInverse) Name() string { return "fibonacci-inverse" }

// ValidateConfig checks the common preconditions and the target/max_steps
// parameters.
func (f *FibonacciInverse) ValidateConfig(cfg domain.SessionConfig) error {
	if err := validateBaseConfig(cfg); err != nil {
		return err
	}
	if err := checkParams(cfg.Params, "target", "max_steps"); err != nil {
		return err
	}
	if _, _, err := inverseParams(cfg); err != nil {
		return err
	}
	return nil
}

// Init starts at the first sequence position.
func (f *FibonacciInverse) Init(cfg domain.SessionConfig) (domain.Progression, error) {
	if err := f.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return domain.Progression{0}, nil
}

// Decide recommends the next even-chance wager.
func (f *FibonacciInverse) Decide(in Input) (domain.Decision, error) {
	if err := f.ValidateConfig(in.Config); err != nil {
		return domain.Decision{}, err
	}
	if err := validateInput(in); err != nil {
		return domain.Decision{}, err
	}
	target, maxSteps, err := inverseParams(in.Config)
	if err != nil {
		return domain.Decision{}, err
	}

	pos, err := counterState(in.Progression, f.Name())
	if err != nil {
		return domain.Decision{}, err
	}
	if last, pending := pendingBet(in); pending {
		if last.Outcome.Won {
			if pos >= 2 {
				pos -= 2
			} else {
				pos = 0
			}
		} else {
			pos++
			if pos > maxSteps-1 {
				pos = maxSteps - 1
			}
		}
	}
	next := domain.Progression{pos}

	stake := in.Config.BaseAmount * fibTable[pos]
	if d, stop := stopLossReached(in, next); stop {
		return d, nil
	}
	if d, stop := stakeExceedsBalance(in, stake, next); stop {
		return d, nil
	}

	return domain.Decision{
		ShouldBet:       true,
		Bet:             &domain.BetSpec{Category: target, Amount: stake},
		SuggestedAmount: stake,
		NextProgression: next,
		Reason:          fmt.Sprintf("fibonacci-inverse position %d: stake %d on %s", pos, stake, target),
	}, nil
}

// inverseParams reads and range-checks the method parameters.
func inverseParams(cfg domain.SessionConfig) (domain.BetCategory, int, error) {
	name, err := paramString(cfg.Params, "target", defaultInverseTarget)
	if err != nil {
		return "", 0, err
	}
	target, ok := evenMoneyCategories[name]
	if !ok {
		return "", 0, domain.NewValidationError("target must be an even-money side, got %q", name)
	}
	maxSteps, err := paramInt(cfg.Params, "max_steps", defaultFibMaxSteps)
	if err != nil {
		return "", 0, err
	}
	if maxSteps < 1 || maxSteps > len(fibTable) {
		return "", 0, domain.NewValidationError("max_steps must be 1..%d, got %d", len(fibTable), maxSteps)
	}
	return target, maxSteps, nil
}
