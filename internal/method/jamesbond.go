package method

import (
	"fmt"

	"github.com/spindeck/roulettebot/internal/domain"
)

// Fixed-coverage unit split: 140 on high, 50 on the 13-18 six-line, 10 on
// zero straight, per spin.
const (
	jamesBondHighUnits    = 140
	jamesBondLineUnits    = 50
	jamesBondZeroUnits    = 10
	jamesBondTotalUnits   = jamesBondHighUnits + jamesBondLineUnits + jamesBondZeroUnits
	defaultJamesBondSpins = 50
	maxJamesBondSpins     = 10_000
)

var jamesBondLineNumbers = []int{13, 14, 15, 16, 17, 18}

// JamesBond is the non-progressive fixed-coverage system: every round stakes
// the same 140/50/10 unit split across high, the 13-18 six-line, and zero,
// covering 25 of 37 pockets. The progression state is only a spin counter
// bounded by max_spins.
//
// Parameters:
//   - "unit_size": minor units per unit. Defaults to the base amount.
//   - "max_spins" (1..10000): rounds before the session completes.
type JamesBond struct{}

// NewJamesBond creates the method.
func NewJamesBond() *JamesBond { return &JamesBond{} }

// Name returns the registry identifier.
func (j *JamesBond) Name() string { return "james-bond" }

// ValidateConfig checks the common preconditions and the unit_size/max_spins
// parameters.
func (j *JamesBond) ValidateConfig(cfg domain.SessionConfig) error {
	if err := validateBaseConfig(cfg); err != nil {
		return err
	}
	if err := checkParams(cfg.Params, "unit_size", "max_spins"); err != nil {
		return err
	}
	if _, _, err := jamesBondParams(cfg); err != nil {
		return err
	}
	return nil
}

// Init starts with a zero spin counter.
func (j *JamesBond) Init(cfg domain.SessionConfig) (domain.Progression, error) {
	if err := j.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return domain.Progression{0}, nil
}

// Decide recommends the fixed three-leg composite wager.
func (j *JamesBond) Decide(in Input) (domain.Decision, error) {
	if err := j.ValidateConfig(in.Config); err != nil {
		return domain.Decision{}, err
	}
	if err := validateInput(in); err != nil {
		return domain.Decision{}, err
	}
	unitSize, maxSpins, err := jamesBondParams(in.Config)
	if err != nil {
		return domain.Decision{}, err
	}

	spins, err := counterState(in.Progression, j.Name())
	if err != nil {
		return domain.Decision{}, err
	}
	if _, pending := pendingBet(in); pending {
		spins++
	}
	next := domain.Progression{spins}

	stake := int64(jamesBondTotalUnits) * unitSize
	if d, stop := stopLossReached(in, next); stop {
		return d, nil
	}
	if d, stop := stakeExceedsBalance(in, stake, next); stop {
		return d, nil
	}
	if spins >= maxSpins {
		return stopDecision(next, domain.EndSequenceComplete,
			"james bond completed the planned %d spins", maxSpins), nil
	}

	bet := &domain.BetSpec{
		Category: domain.BetMultiple,
		Legs: []domain.BetLeg{
			{Category: domain.BetHigh, Amount: int64(jamesBondHighUnits) * unitSize},
			{Category: domain.BetLine, Numbers: append([]int(nil), jamesBondLineNumbers...), Amount: int64(jamesBondLineUnits) * unitSize},
			{Category: domain.BetStraight, Numbers: []int{0}, Amount: int64(jamesBondZeroUnits) * unitSize},
		},
	}
	return domain.Decision{
		ShouldBet:       true,
		Bet:             bet,
		SuggestedAmount: stake,
		NextProgression: next,
		Reason:          fmt.Sprintf("james bond spin %d of %d: %d across high/six-line/zero", spins+1, maxSpins, stake),
	}, nil
}

// jamesBondParams reads and range-checks the method parameters.
func jamesBondParams(cfg domain.SessionConfig) (unitSize int64, maxSpins int, err error) {
	unitSize, err = paramInt64(cfg.Params, "unit_size", cfg.BaseAmount)
	if err != nil {
		return 0, 0, err
	}
	if unitSize <= 0 {
		return 0, 0, domain.NewValidationError("unit_size must be positive, got %d", unitSize)
	}
	maxSpins, err = paramInt(cfg.Params, "max_spins", defaultJamesBondSpins)
	if err != nil {
		return 0, 0, err
	}
	if maxSpins < 1 || maxSpins > maxJamesBondSpins {
		return 0, 0, domain.NewValidationError("max_spins must be 1..%d, got %d", maxJamesBondSpins, maxSpins)
	}
	return unitSize, maxSpins, nil
}
