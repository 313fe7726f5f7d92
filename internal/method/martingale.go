package method

import (
	"fmt"

	"github.com/spindeck/roulettebot/internal/domain"
)

const (
	defaultMartingaleTarget    = "red"
	defaultMartingaleDoublings = 10
	maxMartingaleDoublings     = 20
)

// Martingale doubles the stake after every loss and resets to the base
// amount on a win. The progression state is the consecutive-loss counter.
// Exceeding the configured maximum number of doublings stops the session; it
// is never silently truncated.
//
// Parameters:
//   - "target": one of red/black/even/odd/low/high. Defaults to red.
//   - "max_doublings" (1..20): losses allowed before the session stops.
type Martingale struct{}

// NewMartingale creates the method.
func NewMartingale() *Martingale { return &Martingale{} }

// Name returns the registry identifier.
func (m *Martingale) Name() string { return "martingale" }

// ValidateConfig checks the common preconditions and the target/max_doublings
// parameters.
func (m *Martingale) ValidateConfig(cfg domain.SessionConfig) error {
	if err := validateBaseConfig(cfg); err != nil {
		return err
	}
	if err := checkParams(cfg.Params, "target", "max_doublings"); err != nil {
		return err
	}
	if _, _, err := martingaleParams(cfg); err != nil {
		return err
	}
	return nil
}

// Init starts with zero consecutive losses.
func (m *Martingale) Init(cfg domain.SessionConfig) (domain.Progression, error) {
	if err := m.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return domain.Progression{0}, nil
}

// Decide recommends the next even-chance wager.
func (m *Martingale) Decide(in Input) (domain.Decision, error) {
	if err := m.ValidateConfig(in.Config); err != nil {
		return domain.Decision{}, err
	}
	if err := validateInput(in); err != nil {
		return domain.Decision{}, err
	}
	target, maxDoublings, err := martingaleParams(in.Config)
	if err != nil {
		return domain.Decision{}, err
	}

	losses, err := counterState(in.Progression, m.Name())
	if err != nil {
		return domain.Decision{}, err
	}
	if last, pending := pendingBet(in); pending {
		if last.Outcome.Won {
			losses = 0
		} else {
			losses++
		}
	}
	next := domain.Progression{losses}

	if d, stop := stopLossReached(in, next); stop {
		return d, nil
	}

	// Guard the shift; the doubling cap is validated to at most 20.
	shift := losses
	if shift > maxMartingaleDoublings {
		shift = maxMartingaleDoublings
	}
	stake := in.Config.BaseAmount << shift

	if d, stop := stakeExceedsBalance(in, stake, next); stop {
		return d, nil
	}
	if losses > maxDoublings {
		return stopDecision(next, domain.EndMethodLimit,
			"martingale exceeded %d doublings after %d consecutive losses", maxDoublings, losses), nil
	}

	return domain.Decision{
		ShouldBet:       true,
		Bet:             &domain.BetSpec{Category: target, Amount: stake},
		SuggestedAmount: stake,
		NextProgression: next,
		Reason:          fmt.Sprintf("martingale after %d consecutive losses: stake %d on %s", losses, stake, target),
	}, nil
}

// martingaleParams reads and range-checks the method parameters.
func martingaleParams(cfg domain.SessionConfig) (domain.BetCategory, int, error) {
	name, err := paramString(cfg.Params, "target", defaultMartingaleTarget)
	if err != nil {
		return "", 0, err
	}
	target, ok := evenMoneyCategories[name]
	if !ok {
		return "", 0, domain.NewValidationError("target must be an even-money side, got %q", name)
	}
	maxDoublings, err := paramInt(cfg.Params, "max_doublings", defaultMartingaleDoublings)
	if err != nil {
		return "", 0, err
	}
	if maxDoublings < 1 || maxDoublings > maxMartingaleDoublings {
		return "", 0, domain.NewValidationError("max_doublings must be 1..%d, got %d", maxMartingaleDoublings, maxDoublings)
	}
	return target, maxDoublings, nil
}
