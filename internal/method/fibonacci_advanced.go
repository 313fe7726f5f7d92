package method

import (
	"fmt"

	"github.com/spindeck/roulettebot/internal/domain"
)

const (
	fibAdvancedModeAuto   = "auto"
	fibAdvancedModeManual = "manual"
)

// FibonacciAdvanced uses the Fibonacci position rules with a user-selectable
// 2:1 target (any column or dozen). In manual mode the caller supplies the
// stake while the decision still reports the suggested amount; win/loss is
// determined purely from the bet category against the outcome.
//
// Parameters:
//   - "target": column-1..3 or dozen-1..3. Defaults to column-1.
//   - "mode": "auto" or "manual". Defaults to auto.
//   - "max_steps" (1..15): cap on the tabulated sequence length.
type FibonacciAdvanced struct{}

// NewFibonacciAdvanced creates the method.
func NewFibonacciAdvanced() *FibonacciAdvanced { return &FibonacciAdvanced{} }

// Name returns the registry identifier.
func (f *FibonacciAdvanced) Name() string { return "fibonacci-advanced" }

// ValidateConfig checks the common preconditions and the target/mode/
// max_steps parameters.
func (f *FibonacciAdvanced) ValidateConfig(cfg domain.SessionConfig) error {
	if err := validateBaseConfig(cfg); err != nil {
		return err
	}
	if err := checkParams(cfg.Params, "target", "mode", "max_steps"); err != nil {
		return err
	}
	if _, _, _, err := fibAdvancedParams(cfg); err != nil {
		return err
	}
	return nil
}

// Init starts at the first sequence position.
func (f *FibonacciAdvanced) Init(cfg domain.SessionConfig) (domain.Progression, error) {
	if err := f.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return domain.Progression{0}, nil
}

// Decide recommends the next wager on the configured 2:1 target.
func (f *FibonacciAdvanced) Decide(in Input) (domain.Decision, error) {
	if err := f.ValidateConfig(in.Config); err != nil {
		return domain.Decision{}, err
	}
	if err := validateInput(in); err != nil {
		return domain.Decision{}, err
	}
	target, mode, maxSteps, err := fibAdvancedParams(in.Config)
	if err != nil {
		return domain.Decision{}, err
	}

	pos, err := counterState(in.Progression, f.Name())
	if err != nil {
		return domain.Decision{}, err
	}
	if last, pending := pendingBet(in); pending {
		pos = fibStep(pos, maxSteps, last.Outcome.Won)
	}
	next := domain.Progression{pos}

	suggested := in.Config.BaseAmount * fibTable[pos]
	stake := suggested
	if mode == fibAdvancedModeManual && in.ManualAmount > 0 {
		stake = in.ManualAmount
	}

	if d, stop := stopLossReached(in, next); stop {
		return d, nil
	}
	if d, stop := stakeExceedsBalance(in, stake, next); stop {
		return d, nil
	}

	return domain.Decision{
		ShouldBet:       true,
		Bet:             &domain.BetSpec{Category: target, Amount: stake},
		SuggestedAmount: suggested,
		NextProgression: next,
		Reason:          fmt.Sprintf("fibonacci-advanced position %d (%s): stake %d on %s, suggested %d", pos, mode, stake, target, suggested),
	}, nil
}

// fibAdvancedParams reads and range-checks the method parameters.
func fibAdvancedParams(cfg domain.SessionConfig) (domain.BetCategory, string, int, error) {
	name, err := paramString(cfg.Params, "target", "column-1")
	if err != nil {
		return "", "", 0, err
	}
	target, ok := groupCategories[name]
	if !ok {
		return "", "", 0, domain.NewValidationError("target must be a column or dozen, got %q", name)
	}
	mode, err := paramString(cfg.Params, "mode", fibAdvancedModeAuto)
	if err != nil {
		return "", "", 0, err
	}
	if mode != fibAdvancedModeAuto && mode != fibAdvancedModeManual {
		return "", "", 0, domain.NewValidationError("mode must be %q or %q, got %q", fibAdvancedModeAuto, fibAdvancedModeManual, mode)
	}
	maxSteps, err := paramInt(cfg.Params, "max_steps", defaultFibMaxSteps)
	if err != nil {
		return "", "", 0, err
	}
	if maxSteps < 1 || maxSteps > len(fibTable) {
		return "", "", 0, domain.NewValidationError("max_steps must be 1..%d, got %d", len(fibTable), maxSteps)
	}
	return target, mode, maxSteps, nil
}
