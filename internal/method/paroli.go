package method

import (
	"fmt"

	"github.com/spindeck/roulettebot/internal/domain"
)

const (
	defaultParoliTarget     = "red"
	defaultParoliTargetWins = 3
	maxParoliTargetWins     = 10
)

// Paroli is a positive progression: the stake doubles after each win until a
// configured winning streak is reached, then resets to the base amount. Any
// loss resets to the base amount. The progression state is the win-streak
// counter.
//
// Parameters:
//   - "target": one of red/black/even/odd/low/high. Defaults to red.
//   - "target_wins" (1..10): streak length that completes a cycle.
type Paroli struct{}

// NewParoli creates the method.
func NewParoli() *Paroli { return &Paroli{} }

// Name returns the registry identifier.
func (p *Paroli) Name() string { return "paroli" }

// ValidateConfig checks the common preconditions and the target/target_wins
// parameters.
func (p *Paroli) ValidateConfig(cfg domain.SessionConfig) error {
	if err := validateBaseConfig(cfg); err != nil {
		return err
	}
	if err := checkParams(cfg.Params, "target", "target_wins"); err != nil {
		return err
	}
	if _, _, err := paroliParams(cfg); err != nil {
		return err
	}
	return nil
}

// Init starts with an empty winning streak.
func (p *Paroli) Init(cfg domain.SessionConfig) (domain.Progression, error) {
	if err := p.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return domain.Progression{0}, nil
}

// Decide recommends the next even-chance wager.
func (p *Paroli) Decide(in Input) (domain.Decision, error) {
	if err := p.ValidateConfig(in.Config); err != nil {
		return domain.Decision{}, err
	}
	if err := validateInput(in); err != nil {
		return domain.Decision{}, err
	}
	target, targetWins, err := paroliParams(in.Config)
	if err != nil {
		return domain.Decision{}, err
	}

	streak, err := counterState(in.Progression, p.Name())
	if err != nil {
		return domain.Decision{}, err
	}
	if last, pending := pendingBet(in); pending {
		switch {
		case !last.Outcome.Won:
			streak = 0
		case streak+1 >= targetWins:
			// Cycle complete: bank the run and restart from base.
			streak = 0
		default:
			streak++
		}
	}
	next := domain.Progression{streak}

	stake := in.Config.BaseAmount << streak
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
		Reason:          fmt.Sprintf("paroli streak %d of %d: stake %d on %s", streak, targetWins, stake, target),
	}, nil
}

// paroliParams reads and range-checks the method parameters.
func paroliParams(cfg domain.SessionConfig) (domain.BetCategory, int, error) {
	name, err := paramString(cfg.Params, "target", defaultParoliTarget)
	if err != nil {
		return "", 0, err
	}
	target, ok := evenMoneyCategories[name]
	if !ok {
		return "", 0, domain.NewValidationError("target must be an even-money side, got %q", name)
	}
	targetWins, err := paramInt(cfg.Params, "target_wins", defaultParoliTargetWins)
	if err != nil {
		return "", 0, err
	}
	if targetWins < 1 || targetWins > maxParoliTargetWins {
		return "", 0, domain.NewValidationError("target_wins must be 1..%d, got %d", maxParoliTargetWins, targetWins)
	}
	return target, targetWins, nil
}
