package method

import (
	"testing"
	"time"

	"github.com/spindeck/roulettebot/internal/domain"
)

// testConfig returns a config roomy enough that balance and stop-loss checks
// stay out of the way unless a test tightens them.
func testConfig(name string, params map[string]any) domain.SessionConfig {
	return domain.SessionConfig{
		Method:     name,
		BaseAmount: 100,
		Bankroll:   1_000_000,
		StopLoss:   500_000,
		Params:     params,
	}
}

// settledBet fabricates a history entry: a bet that was placed while the
// progression held snapshot, with the given result.
func settledBet(won bool, netGain int64, snapshot domain.Progression) domain.Bet {
	return domain.Bet{
		ID: "bet",
		Outcome: domain.BetOutcome{
			Won:     won,
			NetGain: netGain,
		},
		Progression: snapshot.Clone(),
		PlacedAt:    time.Unix(0, 0),
	}
}

func decide(t *testing.T, m Method, in Input) domain.Decision {
	t.Helper()
	d, err := m.Decide(in)
	if err != nil {
		t.Fatalf("Decide: unexpected error: %v", err)
	}
	return d
}

func wantBet(t *testing.T, d domain.Decision, cat domain.BetCategory, stake int64, next domain.Progression) {
	t.Helper()
	if !d.ShouldBet {
		t.Fatalf("expected a bet, got stop: %s", d.Reason)
	}
	if d.Bet == nil {
		t.Fatal("ShouldBet set but Bet is nil")
	}
	if d.Bet.Category != cat {
		t.Errorf("category = %s, want %s", d.Bet.Category, cat)
	}
	if d.Bet.TotalAmount() != stake {
		t.Errorf("stake = %d, want %d", d.Bet.TotalAmount(), stake)
	}
	if !d.NextProgression.Equal(next) {
		t.Errorf("next progression = %v, want %v", d.NextProgression, next)
	}
}

func wantStop(t *testing.T, d domain.Decision, reason domain.EndReason) {
	t.Helper()
	if d.ShouldBet {
		t.Fatalf("expected a stop, got a bet: %s", d.Reason)
	}
	if !d.StopSession {
		t.Error("StopSession not set on a no-bet decision")
	}
	if d.EndReason != reason {
		t.Errorf("end reason = %s, want %s", d.EndReason, reason)
	}
}
