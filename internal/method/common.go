package method

import (
	"fmt"

	"github.com/spindeck/roulettebot/internal/domain"
)

// evenMoneyCategories are the 1:1 targets accepted by the even-chance methods.
var evenMoneyCategories = map[string]domain.BetCategory{
	"red":   domain.BetRed,
	"black": domain.BetBlack,
	"even":  domain.BetEven,
	"odd":   domain.BetOdd,
	"low":   domain.BetLow,
	"high":  domain.BetHigh,
}

// columnCategories maps a column index to its bet category.
var columnCategories = map[int]domain.BetCategory{
	1: domain.BetColumn1,
	2: domain.BetColumn2,
	3: domain.BetColumn3,
}

// groupCategories are the 2:1 targets (columns and dozens) accepted by the
// advanced Fibonacci method.
var groupCategories = map[string]domain.BetCategory{
	"column-1": domain.BetColumn1,
	"column-2": domain.BetColumn2,
	"column-3": domain.BetColumn3,
	"dozen-1":  domain.BetDozen1,
	"dozen-2":  domain.BetDozen2,
	"dozen-3":  domain.BetDozen3,
}

// validateBaseConfig enforces the static preconditions shared by every
// method: positive base amount and bankroll, and a stop-loss strictly below
// the bankroll.
func validateBaseConfig(cfg domain.SessionConfig) error {
	if cfg.BaseAmount <= 0 {
		return domain.NewValidationError("base amount must be positive, got %d", cfg.BaseAmount)
	}
	if cfg.Bankroll <= 0 {
		return domain.NewValidationError("bankroll must be positive, got %d", cfg.Bankroll)
	}
	if cfg.StopLoss <= 0 {
		return domain.NewValidationError("stop loss must be positive, got %d", cfg.StopLoss)
	}
	if cfg.StopLoss >= cfg.Bankroll {
		return domain.NewValidationError("stop loss %d must be below bankroll %d", cfg.StopLoss, cfg.Bankroll)
	}
	if cfg.StopWin < 0 {
		return domain.NewValidationError("stop win cannot be negative, got %d", cfg.StopWin)
	}
	if cfg.MaxBets < 0 {
		return domain.NewValidationError("max bets cannot be negative, got %d", cfg.MaxBets)
	}
	if cfg.MaxDuration < 0 {
		return domain.NewValidationError("max duration cannot be negative, got %v", cfg.MaxDuration)
	}
	return nil
}

// validateInput runs the dynamic preconditions every Decide starts with.
func validateInput(in Input) error {
	if err := validateBaseConfig(in.Config); err != nil {
		return err
	}
	if in.Balance <= 0 {
		return domain.NewValidationError("balance must be positive, got %d", in.Balance)
	}
	return nil
}

// checkParams rejects parameter keys outside the allowed set, so typos and
// out-of-contract values fail loudly at ValidateConfig time.
func checkParams(params map[string]any, allowed ...string) error {
	for key := range params {
		ok := false
		for _, a := range allowed {
			if key == a {
				ok = true
				break
			}
		}
		if !ok {
			return domain.NewValidationError("unknown parameter %q", key)
		}
	}
	return nil
}

// paramInt reads an integer parameter, tolerating the numeric types TOML and
// JSON decoding produce.
func paramInt(params map[string]any, key string, def int) (int, error) {
	v, ok := params[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != float64(int64(n)) {
			return 0, domain.NewValidationError("parameter %q must be an integer, got %v", key, v)
		}
		return int(n), nil
	default:
		return 0, domain.NewValidationError("parameter %q must be an integer, got %T", key, v)
	}
}

// paramInt64 reads an int64 parameter (monetary minor units).
func paramInt64(params map[string]any, key string, def int64) (int64, error) {
	n, err := paramInt(params, key, int(def))
	if err != nil {
		return 0, err
	}
	return int64(n), nil
}

// paramString reads a string parameter.
func paramString(params map[string]any, key, def string) (string, error) {
	v, ok := params[key]
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", domain.NewValidationError("parameter %q must be a string, got %T", key, v)
	}
	return s, nil
}

// paramIntSlice reads a list-of-integers parameter.
func paramIntSlice(params map[string]any, key string, def []int) ([]int, error) {
	v, ok := params[key]
	if !ok {
		out := make([]int, len(def))
		copy(out, def)
		return out, nil
	}
	switch list := v.(type) {
	case []int:
		out := make([]int, len(list))
		copy(out, list)
		return out, nil
	case []any:
		out := make([]int, 0, len(list))
		for _, item := range list {
			n, err := paramInt(map[string]any{key: item}, key, 0)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}
		return out, nil
	default:
		return nil, domain.NewValidationError("parameter %q must be a list of integers, got %T", key, v)
	}
}

// profitLoss folds the signed cumulative net gain out of the bet history.
func profitLoss(hist []domain.Bet) int64 {
	var pl int64
	for _, b := range hist {
		pl += b.Outcome.NetGain
	}
	return pl
}

// pendingBet returns the most recent bet when the progression has not yet
// been advanced for it, i.e. the bet's snapshot still equals the current
// state. This keeps Decide idempotent: re-invoking it after the state was
// already advanced does not apply the same outcome twice.
func pendingBet(in Input) (domain.Bet, bool) {
	if len(in.History) == 0 {
		return domain.Bet{}, false
	}
	last := in.History[len(in.History)-1]
	if !last.Progression.Equal(in.Progression) {
		return domain.Bet{}, false
	}
	return last, true
}

// stopDecision builds a terminal no-bet decision.
func stopDecision(prog domain.Progression, end domain.EndReason, format string, args ...any) domain.Decision {
	return domain.Decision{
		ShouldBet:       false,
		NextProgression: prog,
		StopSession:     true,
		EndReason:       end,
		Reason:          fmt.Sprintf(format, args...),
	}
}

// stopLossReached is the first of the ordered common no-bet checks.
func stopLossReached(in Input, prog domain.Progression) (domain.Decision, bool) {
	pl := profitLoss(in.History)
	if pl > -in.Config.StopLoss {
		return domain.Decision{}, false
	}
	return stopDecision(prog, domain.EndStopLoss,
		"stop-loss reached: profit/loss %d breaches limit %d", pl, in.Config.StopLoss), true
}

// stakeExceedsBalance is the second common no-bet check.
func stakeExceedsBalance(in Input, stake int64, prog domain.Progression) (domain.Decision, bool) {
	if stake <= in.Balance {
		return domain.Decision{}, false
	}
	return stopDecision(prog, domain.EndInsufficientBalance,
		"stake %d exceeds available balance %d", stake, in.Balance), true
}

// counterState extracts the single counter a position-based method keeps in
// its progression, rejecting corrupted state.
func counterState(prog domain.Progression, methodName string) (int, error) {
	if len(prog) != 1 {
		return 0, domain.NewValidationError("%s: progression must hold exactly one counter, got %d values", methodName, len(prog))
	}
	if prog[0] < 0 {
		return 0, domain.NewValidationError("%s: progression counter cannot be negative, got %d", methodName, prog[0])
	}
	return prog[0], nil
}
