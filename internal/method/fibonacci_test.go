package method

import (
	"testing"

	"github.com/spindeck/roulettebot/internal/domain"
)

func TestFibonacciInit(t *testing.T) {
	f := NewFibonacci()
	prog, err := f.Init(testConfig("fibonacci", nil))
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !prog.Equal(domain.Progression{0}) {
		t.Errorf("initial progression = %v, want [0]", prog)
	}
}

func TestFibonacciValidateConfig(t *testing.T) {
	f := NewFibonacci()
	tests := []struct {
		name    string
		cfg     domain.SessionConfig
		wantErr bool
	}{
		{"defaults", testConfig("fibonacci", nil), false},
		{"explicit column", testConfig("fibonacci", map[string]any{"column": 3}), false},
		{"column out of range", testConfig("fibonacci", map[string]any{"column": 4}), true},
		{"max_steps too large", testConfig("fibonacci", map[string]any{"max_steps": 16}), true},
		{"max_steps zero", testConfig("fibonacci", map[string]any{"max_steps": 0}), true},
		{"unknown parameter", testConfig("fibonacci", map[string]any{"colour": 1}), true},
		{"float parameter accepted", testConfig("fibonacci", map[string]any{"column": float64(2)}), false},
		{"fractional parameter rejected", testConfig("fibonacci", map[string]any{"column": 1.5}), true},
		{
			"stop loss at bankroll",
			domain.SessionConfig{Method: "fibonacci", BaseAmount: 100, Bankroll: 1000, StopLoss: 1000},
			true,
		},
		{
			"zero base amount",
			domain.SessionConfig{Method: "fibonacci", BaseAmount: 0, Bankroll: 1000, StopLoss: 500},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.ValidateConfig(tt.cfg)
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

// TestFibonacciWalk follows the canonical loss-loss-win walk: stakes climb
// the sequence one step per loss and fall back two on the win.
func TestFibonacciWalk(t *testing.T) {
	f := NewFibonacci()
	cfg := testConfig("fibonacci", map[string]any{"column": 2})

	// Fresh session: position 0, one base unit.
	in := Input{Config: cfg, Progression: domain.Progression{0}, Balance: 1_000_000}
	d := decide(t, f, in)
	wantBet(t, d, domain.BetColumn2, 100, domain.Progression{0})

	// First loss settles at snapshot {0}: advance to position 1, still one unit.
	hist := []domain.Bet{settledBet(false, -100, domain.Progression{0})}
	in = Input{Config: cfg, History: hist, Progression: domain.Progression{0}, Balance: 1_000_000}
	d = decide(t, f, in)
	wantBet(t, d, domain.BetColumn2, 100, domain.Progression{1})

	// Second loss at snapshot {1}: position 2, two units.
	hist = append(hist, settledBet(false, -100, domain.Progression{1}))
	in = Input{Config: cfg, History: hist, Progression: domain.Progression{1}, Balance: 1_000_000}
	d = decide(t, f, in)
	wantBet(t, d, domain.BetColumn2, 200, domain.Progression{2})

	// Win at snapshot {2}: back two to position 0.
	hist = append(hist, settledBet(true, 400, domain.Progression{2}))
	in = Input{Config: cfg, History: hist, Progression: domain.Progression{2}, Balance: 1_000_000}
	d = decide(t, f, in)
	wantBet(t, d, domain.BetColumn2, 100, domain.Progression{0})
}

// TestFibonacciIdempotent verifies that once the progression was advanced for
// the last settled bet, re-deciding does not apply the outcome again.
func TestFibonacciIdempotent(t *testing.T) {
	f := NewFibonacci()
	cfg := testConfig("fibonacci", nil)

	hist := []domain.Bet{settledBet(false, -100, domain.Progression{0})}
	in := Input{Config: cfg, History: hist, Progression: domain.Progression{1}, Balance: 1_000_000}

	d := decide(t, f, in)
	wantBet(t, d, domain.BetColumn1, 100, domain.Progression{1})
}

func TestFibonacciMaxStepsClamp(t *testing.T) {
	f := NewFibonacci()
	cfg := testConfig("fibonacci", map[string]any{"max_steps": 4})

	// Already at the cap (position 3); another loss must stay there.
	hist := []domain.Bet{settledBet(false, -300, domain.Progression{3})}
	in := Input{Config: cfg, History: hist, Progression: domain.Progression{3}, Balance: 1_000_000}
	d := decide(t, f, in)
	wantBet(t, d, domain.BetColumn1, 300, domain.Progression{3})
}

// TestFibonacciDefaultMaxSteps: without an explicit max_steps the cap is the
// full tabulated sequence, and a loss at the final position stays clamped.
func TestFibonacciDefaultMaxSteps(t *testing.T) {
	if defaultFibMaxSteps != len(fibTable) {
		t.Fatalf("defaultFibMaxSteps = %d, want %d", defaultFibMaxSteps, len(fibTable))
	}

	f := NewFibonacci()
	cfg := testConfig("fibonacci", nil)
	last := len(fibTable) - 1

	hist := []domain.Bet{settledBet(false, -100, domain.Progression{last})}
	in := Input{Config: cfg, History: hist, Progression: domain.Progression{last}, Balance: 1_000_000}
	d := decide(t, f, in)
	wantBet(t, d, domain.BetColumn1, 100*fibTable[last], domain.Progression{last})
}

func TestFibonacciWinNearStart(t *testing.T) {
	f := NewFibonacci()
	cfg := testConfig("fibonacci", nil)

	// Win at position 1 floors at 0 rather than going negative.
	hist := []domain.Bet{settledBet(true, 200, domain.Progression{1})}
	in := Input{Config: cfg, History: hist, Progression: domain.Progression{1}, Balance: 1_000_000}
	d := decide(t, f, in)
	wantBet(t, d, domain.BetColumn1, 100, domain.Progression{0})
}

func TestFibonacciStopLossBeforeBalance(t *testing.T) {
	f := NewFibonacci()
	cfg := domain.SessionConfig{
		Method:     "fibonacci",
		BaseAmount: 100,
		Bankroll:   1_000,
		StopLoss:   500,
	}

	// Cumulative loss hits the stop-loss exactly; the balance could still
	// cover the stake, so the ordering is observable.
	hist := []domain.Bet{
		settledBet(false, -300, domain.Progression{0}),
		settledBet(false, -200, domain.Progression{1}),
	}
	in := Input{Config: cfg, History: hist, Progression: domain.Progression{1}, Balance: 500}
	d := decide(t, f, in)
	wantStop(t, d, domain.EndStopLoss)
}

func TestFibonacciInsufficientBalance(t *testing.T) {
	f := NewFibonacci()
	cfg := domain.SessionConfig{
		Method:     "fibonacci",
		BaseAmount: 100,
		Bankroll:   1_000,
		StopLoss:   900,
	}

	// Position 2 wants 200 but only 150 is left; loss so far stays above the
	// stop-loss line.
	hist := []domain.Bet{settledBet(false, -100, domain.Progression{1})}
	in := Input{Config: cfg, History: hist, Progression: domain.Progression{1}, Balance: 150}
	d := decide(t, f, in)
	wantStop(t, d, domain.EndInsufficientBalance)
}

func TestFibonacciCorruptProgression(t *testing.T) {
	f := NewFibonacci()
	cfg := testConfig("fibonacci", nil)

	for _, prog := range []domain.Progression{{}, {1, 2}, {-1}} {
		_, err := f.Decide(Input{Config: cfg, Progression: prog, Balance: 1_000_000})
		if err == nil {
			t.Errorf("progression %v: expected error, got nil", prog)
		}
	}
}

func TestFibStep(t *testing.T) {
	tests := []struct {
		pos, maxSteps int
		won           bool
		want          int
	}{
		{0, 15, false, 1},
		{5, 15, false, 6},
		{14, 15, false, 14},
		{5, 6, false, 5},
		{0, 15, true, 0},
		{1, 15, true, 0},
		{2, 15, true, 0},
		{7, 15, true, 5},
	}
	for _, tt := range tests {
		if got := fibStep(tt.pos, tt.maxSteps, tt.won); got != tt.want {
			t.Errorf("fibStep(%d, %d, %v) = %d, want %d", tt.pos, tt.maxSteps, tt.won, got, tt.want)
		}
	}
}
