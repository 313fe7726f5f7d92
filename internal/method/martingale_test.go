package method

import (
	"testing"

	"github.com/spindeck/roulettebot/internal/domain"
)

func TestMartingaleInit(t *testing.T) {
	m := NewMartingale()
	prog, err := m.Init(testConfig("martingale", nil))
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !prog.Equal(domain.Progression{0}) {
		t.Errorf("initial progression = %v, want [0]", prog)
	}
}

func TestMartingaleValidateConfig(t *testing.T) {
	m := NewMartingale()
	tests := []struct {
		name    string
		params  map[string]any
		wantErr bool
	}{
		{"defaults", nil, false},
		{"black target", map[string]any{"target": "black"}, false},
		{"odd target", map[string]any{"target": "odd"}, false},
		{"column target rejected", map[string]any{"target": "column-1"}, true},
		{"max doublings at cap", map[string]any{"max_doublings": 20}, false},
		{"max doublings over cap", map[string]any{"max_doublings": 21}, true},
		{"max doublings zero", map[string]any{"max_doublings": 0}, true},
		{"unknown parameter", map[string]any{"doublings": 5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.ValidateConfig(testConfig("martingale", tt.params))
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

// TestMartingaleDoubling walks the loss ladder: each loss doubles the stake,
// a win snaps back to the base amount.
func TestMartingaleDoubling(t *testing.T) {
	m := NewMartingale()
	cfg := testConfig("martingale", map[string]any{"target": "black"})

	in := Input{Config: cfg, Progression: domain.Progression{0}, Balance: 1_000_000}
	d := decide(t, m, in)
	wantBet(t, d, domain.BetBlack, 100, domain.Progression{0})

	hist := []domain.Bet{settledBet(false, -100, domain.Progression{0})}
	in = Input{Config: cfg, History: hist, Progression: domain.Progression{0}, Balance: 1_000_000}
	d = decide(t, m, in)
	wantBet(t, d, domain.BetBlack, 200, domain.Progression{1})

	hist = append(hist, settledBet(false, -200, domain.Progression{1}))
	in = Input{Config: cfg, History: hist, Progression: domain.Progression{1}, Balance: 1_000_000}
	d = decide(t, m, in)
	wantBet(t, d, domain.BetBlack, 400, domain.Progression{2})

	// Win clears the ladder.
	hist = append(hist, settledBet(true, 400, domain.Progression{2}))
	in = Input{Config: cfg, History: hist, Progression: domain.Progression{2}, Balance: 1_000_000}
	d = decide(t, m, in)
	wantBet(t, d, domain.BetBlack, 100, domain.Progression{0})
}

// TestMartingaleMethodLimit verifies that blowing through the doubling cap
// stops the session rather than silently truncating the stake.
func TestMartingaleMethodLimit(t *testing.T) {
	m := NewMartingale()
	cfg := testConfig("martingale", map[string]any{"max_doublings": 2})

	// Third consecutive loss pushes the counter past the cap of 2.
	hist := []domain.Bet{settledBet(false, -400, domain.Progression{2})}
	in := Input{Config: cfg, History: hist, Progression: domain.Progression{2}, Balance: 1_000_000}
	d := decide(t, m, in)
	wantStop(t, d, domain.EndMethodLimit)
	if !d.NextProgression.Equal(domain.Progression{3}) {
		t.Errorf("next progression = %v, want [3]", d.NextProgression)
	}
}

// TestMartingaleBalanceBeforeLimit: when the doubled stake no longer fits the
// balance, the insufficient-balance stop wins over the method limit.
func TestMartingaleBalanceBeforeLimit(t *testing.T) {
	m := NewMartingale()
	cfg := domain.SessionConfig{
		Method:     "martingale",
		BaseAmount: 100,
		Bankroll:   2_000,
		StopLoss:   1_900,
		Params:     map[string]any{"max_doublings": 2},
	}

	// Counter lands on 3 (> cap) but the stake of 800 also exceeds the
	// remaining 500; the balance check runs first.
	hist := []domain.Bet{
		settledBet(false, -100, domain.Progression{0}),
		settledBet(false, -200, domain.Progression{1}),
		settledBet(false, -400, domain.Progression{2}),
	}
	in := Input{Config: cfg, History: hist, Progression: domain.Progression{2}, Balance: 500}
	d := decide(t, m, in)
	wantStop(t, d, domain.EndInsufficientBalance)
}

func TestMartingaleIdempotent(t *testing.T) {
	m := NewMartingale()
	cfg := testConfig("martingale", nil)

	// Progression already advanced past the last settled bet: no re-apply.
	hist := []domain.Bet{settledBet(false, -100, domain.Progression{0})}
	in := Input{Config: cfg, History: hist, Progression: domain.Progression{1}, Balance: 1_000_000}
	d := decide(t, m, in)
	wantBet(t, d, domain.BetRed, 200, domain.Progression{1})
}
