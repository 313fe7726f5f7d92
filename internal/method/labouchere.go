package method

import (
	"fmt"

	"github.com/spindeck/roulettebot/internal/domain"
)

const (
	defaultLabouchereTarget = "red"
	defaultLabouchereMaxLen = 12
	maxLabouchereLen        = 64
)

var defaultLabouchereSequence = []int{1, 2, 3, 4}

// Labouchere is a cancellation system. The progression is an explicit list of
// unit counts: the stake is (first+last) units, or the single remaining
// element. A win cancels the first and last entries; clearing the list
// completes the session as a success. A loss appends the just-lost unit
// count to the end of the list. The appended count is taken from the staked
// units themselves, so it is integer-exact — no derived division that could
// silently round. A configured maximum sequence length is a hard circuit
// breaker: the session stops, the list is never truncated.
//
// Parameters:
//   - "target": one of red/black/even/odd/low/high. Defaults to red.
//   - "sequence": initial cancellation list. Defaults to [1,2,3,4].
//   - "unit_size": minor units per list unit. Defaults to the base amount.
//   - "max_sequence_length": circuit breaker on list growth.
type Labouchere struct{}

// NewLabouchere creates the method.
func NewLabouchere() *Labouchere { return &Labouchere{} }

// Name returns the registry identifier.
func (l *Labouchere) Name() string { return "labouchere" }

// ValidateConfig checks the common preconditions and the method parameters.
func (l *Labouchere) ValidateConfig(cfg domain.SessionConfig) error {
	if err := validateBaseConfig(cfg); err != nil {
		return err
	}
	if err := checkParams(cfg.Params, "target", "sequence", "unit_size", "max_sequence_length"); err != nil {
		return err
	}
	if _, err := labouchereParams(cfg); err != nil {
		return err
	}
	return nil
}

// Init starts with a copy of the configured cancellation sequence.
func (l *Labouchere) Init(cfg domain.SessionConfig) (domain.Progression, error) {
	if err := l.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	p, err := labouchereParams(cfg)
	if err != nil {
		return nil, err
	}
	prog := make(domain.Progression, len(p.sequence))
	for i, u := range p.sequence {
		prog[i] = u
	}
	return prog, nil
}

// Decide recommends the next even-chance wager from the cancellation list.
func (l *Labouchere) Decide(in Input) (domain.Decision, error) {
	if err := l.ValidateConfig(in.Config); err != nil {
		return domain.Decision{}, err
	}
	if err := validateInput(in); err != nil {
		return domain.Decision{}, err
	}
	p, err := labouchereParams(in.Config)
	if err != nil {
		return domain.Decision{}, err
	}
	for _, u := range in.Progression {
		if u < 1 {
			return domain.Decision{}, domain.NewValidationError("labouchere: cancellation list entries must be positive, got %d", u)
		}
	}

	list := in.Progression.Clone()
	if last, pending := pendingBet(in); pending {
		list = labouchereStep(list, last.Outcome.Won)
	}

	if d, stop := stopLossReached(in, list); stop {
		return d, nil
	}
	if len(list) == 0 {
		return stopDecision(list, domain.EndSequenceComplete,
			"labouchere sequence complete: every entry cancelled"), nil
	}

	units := labouchereStakeUnits(list)
	stake := int64(units) * p.unitSize
	if d, stop := stakeExceedsBalance(in, stake, list); stop {
		return d, nil
	}
	if len(list) > p.maxLen {
		return stopDecision(list, domain.EndMethodLimit,
			"labouchere sequence grew to %d entries, over the %d limit", len(list), p.maxLen), nil
	}

	return domain.Decision{
		ShouldBet:       true,
		Bet:             &domain.BetSpec{Category: p.target, Amount: stake},
		SuggestedAmount: stake,
		NextProgression: list,
		Reason:          fmt.Sprintf("labouchere list %v: stake %d units (%d) on %s", []int(list), units, stake, p.target),
	}, nil
}

// labouchereStakeUnits is first+last, or the single remaining entry.
func labouchereStakeUnits(list domain.Progression) int {
	if len(list) == 1 {
		return list[0]
	}
	return list[0] + list[len(list)-1]
}

// labouchereStep applies one settled outcome to the cancellation list. The
// unit count appended on a loss is the stake of that round in units, read
// from the list itself.
func labouchereStep(list domain.Progression, won bool) domain.Progression {
	if len(list) == 0 {
		return list
	}
	if won {
		if len(list) <= 2 {
			return domain.Progression{}
		}
		return list[1 : len(list)-1].Clone()
	}
	lost := labouchereStakeUnits(list)
	return append(list.Clone(), lost)
}

type labouchereConfig struct {
	target   domain.BetCategory
	sequence []int
	unitSize int64
	maxLen   int
}

// labouchereParams reads and range-checks the method parameters.
func labouchereParams(cfg domain.SessionConfig) (labouchereConfig, error) {
	var p labouchereConfig

	name, err := paramString(cfg.Params, "target", defaultLabouchereTarget)
	if err != nil {
		return p, err
	}
	target, ok := evenMoneyCategories[name]
	if !ok {
		return p, domain.NewValidationError("target must be an even-money side, got %q", name)
	}
	p.target = target

	p.sequence, err = paramIntSlice(cfg.Params, "sequence", defaultLabouchereSequence)
	if err != nil {
		return p, err
	}
	if len(p.sequence) == 0 {
		return p, domain.NewValidationError("sequence cannot be empty")
	}
	for _, u := range p.sequence {
		if u < 1 {
			return p, domain.NewValidationError("sequence entries must be positive, got %d", u)
		}
	}

	p.unitSize, err = paramInt64(cfg.Params, "unit_size", cfg.BaseAmount)
	if err != nil {
		return p, err
	}
	if p.unitSize <= 0 {
		return p, domain.NewValidationError("unit_size must be positive, got %d", p.unitSize)
	}

	p.maxLen, err = paramInt(cfg.Params, "max_sequence_length", defaultLabouchereMaxLen)
	if err != nil {
		return p, err
	}
	if p.maxLen < len(p.sequence) || p.maxLen > maxLabouchereLen {
		return p, domain.NewValidationError("max_sequence_length must be between the initial sequence length %d and %d, got %d", len(p.sequence), maxLabouchereLen, p.maxLen)
	}
	return p, nil
}
