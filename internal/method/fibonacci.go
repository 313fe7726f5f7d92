package method

import (
	"fmt"

	"github.com/spindeck/roulettebot/internal/domain"
)

// fibTable is the tabulated stake multiplier sequence. The position is
// clamped to the table; it is never extrapolated beyond it.
var fibTable = []int64{1, 1, 2, 3, 5, 8, 13, 21, 34, 55, 89, 144, 233, 377, 610}

// defaultFibMaxSteps spans the full table.
var defaultFibMaxSteps = len(fibTable)

const defaultFibColumn = 1

// Fibonacci bets a fixed column and walks the Fibonacci sequence: one step
// forward on a loss, two steps back on a win, clamped to [0, maxSteps-1].
//
// Parameters:
//   - "column" (1..3): the column to bet. Defaults to 1.
//   - "max_steps" (1..15): cap on the tabulated sequence length.
type Fibonacci struct{}

// NewFibonacci creates the method.
func NewFibonacci() *Fibonacci { return &Fibonacci{} }

// Name returns the registry identifier.
func (f *Fibonacci) Name() string { return "fibonacci" }

// ValidateConfig checks the common preconditions and the column/max_steps
// parameters.
func (f *Fibonacci) ValidateConfig(cfg domain.SessionConfig) error {
	if err := validateBaseConfig(cfg); err != nil {
		return err
	}
	if err := checkParams(cfg.Params, "column", "max_steps"); err != nil {
		return err
	}
	if _, _, err := fibParams(cfg); err != nil {
		return err
	}
	return nil
}

// Init starts at the first sequence position.
func (f *Fibonacci) Init(cfg domain.SessionConfig) (domain.Progression, error) {
	if err := f.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return domain.Progression{0}, nil
}

// Decide recommends the next column wager.
func (f *Fibonacci) Decide(in Input) (domain.Decision, error) {
	if err := f.ValidateConfig(in.Config); err != nil {
		return domain.Decision{}, err
	}
	if err := validateInput(in); err != nil {
		return domain.Decision{}, err
	}
	column, maxSteps, err := fibParams(in.Config)
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

	stake := in.Config.BaseAmount * fibTable[pos]
	if d, stop := stopLossReached(in, next); stop {
		return d, nil
	}
	if d, stop := stakeExceedsBalance(in, stake, next); stop {
		return d, nil
	}

	cat := columnCategories[column]
	return domain.Decision{
		ShouldBet:       true,
		Bet:             &domain.BetSpec{Category: cat, Amount: stake},
		SuggestedAmount: stake,
		NextProgression: next,
		Reason:          fmt.Sprintf("fibonacci position %d: stake %d on %s", pos, stake, cat),
	}, nil
}

// fibStep advances the position from the last settled outcome: forward one on
// a loss, back two on a win, clamped to the tabulated range.
func fibStep(pos, maxSteps int, won bool) int {
	if won {
		pos -= 2
		if pos < 0 {
			pos = 0
		}
		return pos
	}
	pos++
	if pos > maxSteps-1 {
		pos = maxSteps - 1
	}
	return pos
}

// fibParams reads and range-checks the shared Fibonacci parameters.
func fibParams(cfg domain.SessionConfig) (column, maxSteps int, err error) {
	column, err = paramInt(cfg.Params, "column", defaultFibColumn)
	if err != nil {
		return 0, 0, err
	}
	if _, ok := columnCategories[column]; !ok {
		return 0, 0, domain.NewValidationError("column must be 1..3, got %d", column)
	}
	maxSteps, err = paramInt(cfg.Params, "max_steps", defaultFibMaxSteps)
	if err != nil {
		return 0, 0, err
	}
	if maxSteps < 1 || maxSteps > len(fibTable) {
		return 0, 0, domain.NewValidationError("max_steps must be 1..%d, got %d", len(fibTable), maxSteps)
	}
	return column, maxSteps, nil
}
