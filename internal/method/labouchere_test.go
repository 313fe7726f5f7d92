package method

import (
	"testing"

	"github.com/spindeck/roulettebot/internal/domain"
)

func TestLabouchereInit(t *testing.T) {
	l := NewLabouchere()

	prog, err := l.Init(testConfig("labouchere", nil))
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !prog.Equal(domain.Progression{1, 2, 3, 4}) {
		t.Errorf("default progression = %v, want [1 2 3 4]", prog)
	}

	prog, err = l.Init(testConfig("labouchere", map[string]any{"sequence": []any{2, 5}}))
	if err != nil {
		t.Fatalf("Init with sequence: %v", err)
	}
	if !prog.Equal(domain.Progression{2, 5}) {
		t.Errorf("custom progression = %v, want [2 5]", prog)
	}
}

func TestLabouchereValidateConfig(t *testing.T) {
	l := NewLabouchere()
	tests := []struct {
		name    string
		params  map[string]any
		wantErr bool
	}{
		{"defaults", nil, false},
		{"custom sequence", map[string]any{"sequence": []any{1, 1, 2}}, false},
		{"empty sequence", map[string]any{"sequence": []any{}}, true},
		{"non-positive entry", map[string]any{"sequence": []any{1, 0, 2}}, true},
		{"unit size", map[string]any{"unit_size": 50}, false},
		{"zero unit size", map[string]any{"unit_size": 0}, true},
		{"max length below sequence", map[string]any{"sequence": []any{1, 2, 3}, "max_sequence_length": 2}, true},
		{"max length over hard cap", map[string]any{"max_sequence_length": 65}, true},
		{"bad target", map[string]any{"target": "dozen-1"}, true},
		{"unknown parameter", map[string]any{"seq": []any{1}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := l.ValidateConfig(testConfig("labouchere", tt.params))
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

// TestLabouchereCancellation plays the [1,2,3] list to completion through two
// wins: stake first+last, then the single survivor, then done.
func TestLabouchereCancellation(t *testing.T) {
	l := NewLabouchere()
	cfg := testConfig("labouchere", map[string]any{"sequence": []any{1, 2, 3}})

	// Fresh list: stake (1+3) units of 100.
	in := Input{Config: cfg, Progression: domain.Progression{1, 2, 3}, Balance: 1_000_000}
	d := decide(t, l, in)
	wantBet(t, d, domain.BetRed, 400, domain.Progression{1, 2, 3})

	// Win cancels first and last: [2] remains, stake 2 units.
	hist := []domain.Bet{settledBet(true, 400, domain.Progression{1, 2, 3})}
	in = Input{Config: cfg, History: hist, Progression: domain.Progression{1, 2, 3}, Balance: 1_000_000}
	d = decide(t, l, in)
	wantBet(t, d, domain.BetRed, 200, domain.Progression{2})

	// Winning the last entry clears the list: sequence complete.
	hist = append(hist, settledBet(true, 200, domain.Progression{2}))
	in = Input{Config: cfg, History: hist, Progression: domain.Progression{2}, Balance: 1_000_000}
	d = decide(t, l, in)
	wantStop(t, d, domain.EndSequenceComplete)
	if len(d.NextProgression) != 0 {
		t.Errorf("next progression = %v, want empty", d.NextProgression)
	}
}

// TestLabouchereLossAppends: a loss appends exactly the units just staked.
func TestLabouchereLossAppends(t *testing.T) {
	l := NewLabouchere()
	cfg := testConfig("labouchere", map[string]any{"sequence": []any{1, 2, 3}})

	hist := []domain.Bet{settledBet(false, -400, domain.Progression{1, 2, 3})}
	in := Input{Config: cfg, History: hist, Progression: domain.Progression{1, 2, 3}, Balance: 1_000_000}
	d := decide(t, l, in)
	// List grew to [1,2,3,4]; next stake is (1+4) units.
	wantBet(t, d, domain.BetRed, 500, domain.Progression{1, 2, 3, 4})
}

// TestLabouchereMethodLimit: growing past max_sequence_length trips the
// circuit breaker instead of truncating the list.
func TestLabouchereMethodLimit(t *testing.T) {
	l := NewLabouchere()
	cfg := testConfig("labouchere", map[string]any{
		"sequence":            []any{1, 2, 3},
		"max_sequence_length": 4,
	})

	// The list is already at the cap; one more loss pushes it to five entries.
	hist := []domain.Bet{settledBet(false, -500, domain.Progression{1, 2, 3, 4})}
	in := Input{Config: cfg, History: hist, Progression: domain.Progression{1, 2, 3, 4}, Balance: 1_000_000}
	d := decide(t, l, in)
	wantStop(t, d, domain.EndMethodLimit)
	if !d.NextProgression.Equal(domain.Progression{1, 2, 3, 4, 5}) {
		t.Errorf("next progression = %v, want [1 2 3 4 5]", d.NextProgression)
	}
}

// TestLabouchereBalanceBeforeLimit: when the grown list both overdraws the
// balance and exceeds max_sequence_length, the balance check fires first.
func TestLabouchereBalanceBeforeLimit(t *testing.T) {
	l := NewLabouchere()
	cfg := testConfig("labouchere", map[string]any{
		"sequence":            []any{1, 2, 3},
		"max_sequence_length": 4,
	})

	// Stake would be (1+5) units of 100 = 600 against a balance of 500.
	in := Input{Config: cfg, Progression: domain.Progression{1, 2, 3, 4, 5}, Balance: 500}
	d := decide(t, l, in)
	wantStop(t, d, domain.EndInsufficientBalance)
}

func TestLabouchereSingleEntryStake(t *testing.T) {
	l := NewLabouchere()
	cfg := testConfig("labouchere", map[string]any{"unit_size": 50})

	in := Input{Config: cfg, Progression: domain.Progression{7}, Balance: 1_000_000}
	d := decide(t, l, in)
	wantBet(t, d, domain.BetRed, 350, domain.Progression{7})
}

func TestLabouchereRejectsCorruptList(t *testing.T) {
	l := NewLabouchere()
	cfg := testConfig("labouchere", nil)

	_, err := l.Decide(Input{Config: cfg, Progression: domain.Progression{1, -2, 3}, Balance: 1_000_000})
	if err == nil {
		t.Fatal("expected error for non-positive list entry")
	}
}

func TestLabouchereStep(t *testing.T) {
	tests := []struct {
		name string
		list domain.Progression
		won  bool
		want domain.Progression
	}{
		{"win drops first and last", domain.Progression{1, 2, 3, 4}, true, domain.Progression{2, 3}},
		{"win on pair clears", domain.Progression{2, 5}, true, domain.Progression{}},
		{"win on single clears", domain.Progression{4}, true, domain.Progression{}},
		{"loss appends first+last", domain.Progression{1, 2, 3}, false, domain.Progression{1, 2, 3, 4}},
		{"loss on single appends it", domain.Progression{4}, false, domain.Progression{4, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := labouchereStep(tt.list.Clone(), tt.won)
			if !got.Equal(tt.want) {
				t.Errorf("labouchereStep(%v, %v) = %v, want %v", tt.list, tt.won, got, tt.want)
			}
		})
	}
}
