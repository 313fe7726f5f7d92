package method

import (
	"testing"

	"github.com/spindeck/roulettebot/internal/domain"
)

func TestParoliValidateConfig(t *testing.T) {
	p := NewParoli()
	tests := []struct {
		name    string
		params  map[string]any
		wantErr bool
	}{
		{"defaults", nil, false},
		{"high target", map[string]any{"target": "high"}, false},
		{"target wins at cap", map[string]any{"target_wins": 10}, false},
		{"target wins over cap", map[string]any{"target_wins": 11}, true},
		{"target wins zero", map[string]any{"target_wins": 0}, true},
		{"bad target", map[string]any{"target": "straight"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.ValidateConfig(testConfig("paroli", tt.params))
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

// TestParoliCycle rides a three-win streak: double, double, then bank the run
// and restart from the base amount.
func TestParoliCycle(t *testing.T) {
	p := NewParoli()
	cfg := testConfig("paroli", map[string]any{"target_wins": 3})

	in := Input{Config: cfg, Progression: domain.Progression{0}, Balance: 1_000_000}
	d := decide(t, p, in)
	wantBet(t, d, domain.BetRed, 100, domain.Progression{0})

	hist := []domain.Bet{settledBet(true, 100, domain.Progression{0})}
	in = Input{Config: cfg, History: hist, Progression: domain.Progression{0}, Balance: 1_000_000}
	d = decide(t, p, in)
	wantBet(t, d, domain.BetRed, 200, domain.Progression{1})

	hist = append(hist, settledBet(true, 200, domain.Progression{1}))
	in = Input{Config: cfg, History: hist, Progression: domain.Progression{1}, Balance: 1_000_000}
	d = decide(t, p, in)
	wantBet(t, d, domain.BetRed, 400, domain.Progression{2})

	// Third straight win completes the cycle: back to one base unit.
	hist = append(hist, settledBet(true, 400, domain.Progression{2}))
	in = Input{Config: cfg, History: hist, Progression: domain.Progression{2}, Balance: 1_000_000}
	d = decide(t, p, in)
	wantBet(t, d, domain.BetRed, 100, domain.Progression{0})
}

func TestParoliLossResets(t *testing.T) {
	p := NewParoli()
	cfg := testConfig("paroli", nil)

	hist := []domain.Bet{settledBet(false, -400, domain.Progression{2})}
	in := Input{Config: cfg, History: hist, Progression: domain.Progression{2}, Balance: 1_000_000}
	d := decide(t, p, in)
	wantBet(t, d, domain.BetRed, 100, domain.Progression{0})
}

func TestParoliIdempotent(t *testing.T) {
	p := NewParoli()
	cfg := testConfig("paroli", nil)

	// Progression already advanced: the streak is not re-applied.
	hist := []domain.Bet{settledBet(true, 100, domain.Progression{0})}
	in := Input{Config: cfg, History: hist, Progression: domain.Progression{1}, Balance: 1_000_000}
	d := decide(t, p, in)
	wantBet(t, d, domain.BetRed, 200, domain.Progression{1})
}
