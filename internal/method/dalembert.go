package method

import (
	"fmt"

	"github.com/spindeck/roulettebot/internal/domain"
)

const (
	defaultDAlembertTarget   = "black"
	defaultDAlembertMaxUnits = 10
	maxDAlembertUnits        = 100
)

// DAlembert raises the stake by one unit after a loss and lowers it by one
// unit after a win. The progression state is the current unit count, floored
// at one and capped at max_units.
//
// Parameters:
//   - "target": one of red/black/even/odd/low/high. Defaults to black.
//   - "unit_size": minor units added per step. Defaults to the base amount.
//   - "max_units" (1..100): ceiling on the unit count.
type DAlembert struct{}

// NewDAlembert creates the method.
func NewDAlembert() *DAlembert { return &DAlembert{} }

// Name returns the registry identifier.
func (d *DAlembert) Name() string { return "dalembert" }

// ValidateConfig checks the common preconditions and the target/unit_size/
// max_units parameters.
func (d *DAlembert) ValidateConfig(cfg domain.SessionConfig) error {
	if err := validateBaseConfig(cfg); err != nil {
		return err
	}
	if err := checkParams(cfg.Params, "target", "unit_size", "max_units"); err != nil {
		return err
	}
	if _, _, _, err := dalembertParams(cfg); err != nil {
		return err
	}
	return nil
}

// Init starts at one unit.
func (d *DAlembert) Init(cfg domain.SessionConfig) (domain.Progression, error) {
	if err := d.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return domain.Progression{1}, nil
}

// Decide recommends the next even-chance wager.
func (d *DAlembert) Decide(in Input) (domain.Decision, error) {
	if err := d.ValidateConfig(in.Config); err != nil {
		return domain.Decision{}, err
	}
	if err := validateInput(in); err != nil {
		return domain.Decision{}, err
	}
	target, unitSize, maxUnits, err := dalembertParams(in.Config)
	if err != nil {
		return domain.Decision{}, err
	}

	units, err := counterState(in.Progression, d.Name())
	if err != nil {
		return domain.Decision{}, err
	}
	if units < 1 {
		units = 1
	}
	if last, pending := pendingBet(in); pending {
		if last.Outcome.Won {
			units--
			if units < 1 {
				units = 1
			}
		} else {
			units++
			if units > maxUnits {
				units = maxUnits
			}
		}
	}
	next := domain.Progression{units}

	stake := in.Config.BaseAmount + int64(units-1)*unitSize
	if dec, stop := stopLossReached(in, next); stop {
		return dec, nil
	}
	if dec, stop := stakeExceedsBalance(in, stake, next); stop {
		return dec, nil
	}

	return domain.Decision{
		ShouldBet:       true,
		Bet:             &domain.BetSpec{Category: target, Amount: stake},
		SuggestedAmount: stake,
		NextProgression: next,
		Reason:          fmt.Sprintf("d'alembert at %d units: stake %d on %s", units, stake, target),
	}, nil
}

// dalembertParams reads and range-checks the method parameters.
func dalembertParams(cfg domain.SessionConfig) (domain.BetCategory, int64, int, error) {
	name, err := paramString(cfg.Params, "target", defaultDAlembertTarget)
	if err != nil {
		return "", 0, 0, err
	}
	target, ok := evenMoneyCategories[name]
	if !ok {
		return "", 0, 0, domain.NewValidationError("target must be an even-money side, got %q", name)
	}
	unitSize, err := paramInt64(cfg.Params, "unit_size", cfg.BaseAmount)
	if err != nil {
		return "", 0, 0, err
	}
	if unitSize <= 0 {
		return "", 0, 0, domain.NewValidationError("unit_size must be positive, got %d", unitSize)
	}
	maxUnits, err := paramInt(cfg.Params, "max_units", defaultDAlembertMaxUnits)
	if err != nil {
		return "", 0, 0, err
	}
	if maxUnits < 1 || maxUnits > maxDAlembertUnits {
		return "", 0, 0, domain.NewValidationError("max_units must be 1..%d, got %d", maxDAlembertUnits, maxUnits)
	}
	return target, unitSize, maxUnits, nil
}
