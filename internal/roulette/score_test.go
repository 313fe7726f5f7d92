package roulette_test

import (
	"testing"

	"github.com/spindeck/roulettebot/internal/domain"
	"github.com/spindeck/roulettebot/internal/roulette"
)

func mustClassify(t *testing.T, number int) domain.GameOutcome {
	t.Helper()
	out, err := roulette.Classify(number)
	if err != nil {
		t.Fatalf("Classify(%d): %v", number, err)
	}
	return out
}

func TestMultiplier(t *testing.T) {
	tests := []struct {
		cat  domain.BetCategory
		want int64
	}{
		{domain.BetStraight, 36},
		{domain.BetSplit, 18},
		{domain.BetStreet, 12},
		{domain.BetCorner, 9},
		{domain.BetLine, 6},
		{domain.BetDozen2, 3},
		{domain.BetColumn3, 3},
		{domain.BetRed, 2},
		{domain.BetBlack, 2},
		{domain.BetEven, 2},
		{domain.BetOdd, 2},
		{domain.BetLow, 2},
		{domain.BetHigh, 2},
	}
	for _, tt := range tests {
		got, err := roulette.Multiplier(tt.cat)
		if err != nil {
			t.Fatalf("Multiplier(%s): %v", tt.cat, err)
		}
		if got != tt.want {
			t.Errorf("Multiplier(%s) = %d, want %d", tt.cat, got, tt.want)
		}
	}

	if _, err := roulette.Multiplier(domain.BetCategory("bogus")); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestValidateSpec(t *testing.T) {
	tests := []struct {
		name    string
		spec    domain.BetSpec
		wantErr bool
	}{
		{"valid straight", domain.BetSpec{Category: domain.BetStraight, Numbers: []int{17}, Amount: 100}, false},
		{"valid split", domain.BetSpec{Category: domain.BetSplit, Numbers: []int{17, 20}, Amount: 100}, false},
		{"valid line", domain.BetSpec{Category: domain.BetLine, Numbers: []int{13, 14, 15, 16, 17, 18}, Amount: 100}, false},
		{"valid red", domain.BetSpec{Category: domain.BetRed, Amount: 100}, false},
		{"valid dozen", domain.BetSpec{Category: domain.BetDozen1, Amount: 100}, false},
		{"zero amount", domain.BetSpec{Category: domain.BetRed, Amount: 0}, true},
		{"negative amount", domain.BetSpec{Category: domain.BetRed, Amount: -50}, true},
		{"unknown category", domain.BetSpec{Category: "bogus", Amount: 100}, true},
		{"straight wrong cardinality", domain.BetSpec{Category: domain.BetStraight, Numbers: []int{1, 2}, Amount: 100}, true},
		{"split wrong cardinality", domain.BetSpec{Category: domain.BetSplit, Numbers: []int{5}, Amount: 100}, true},
		{"straight out of range", domain.BetSpec{Category: domain.BetStraight, Numbers: []int{37}, Amount: 100}, true},
		{"split duplicate number", domain.BetSpec{Category: domain.BetSplit, Numbers: []int{4, 4}, Amount: 100}, true},
		{"outside bet with numbers", domain.BetSpec{Category: domain.BetRed, Numbers: []int{1}, Amount: 100}, true},
		{
			"valid composite",
			domain.BetSpec{Category: domain.BetMultiple, Legs: []domain.BetLeg{
				{Category: domain.BetHigh, Amount: 140},
				{Category: domain.BetStraight, Numbers: []int{0}, Amount: 10},
			}},
			false,
		},
		{"composite without legs", domain.BetSpec{Category: domain.BetMultiple}, true},
		{
			"composite with spec amount",
			domain.BetSpec{Category: domain.BetMultiple, Amount: 100, Legs: []domain.BetLeg{
				{Category: domain.BetHigh, Amount: 100},
			}},
			true,
		},
		{
			"nested composite",
			domain.BetSpec{Category: domain.BetMultiple, Legs: []domain.BetLeg{
				{Category: domain.BetMultiple, Amount: 100},
			}},
			true,
		},
		{
			"composite with bad leg",
			domain.BetSpec{Category: domain.BetMultiple, Legs: []domain.BetLeg{
				{Category: domain.BetStraight, Numbers: []int{40}, Amount: 100},
			}},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := roulette.ValidateSpec(tt.spec)
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr && domain.CodeOf(err) != domain.CodeValidation {
				t.Errorf("code = %s, want validation", domain.CodeOf(err))
			}
		})
	}
}

func TestScoreSingleBets(t *testing.T) {
	tests := []struct {
		name     string
		spec     domain.BetSpec
		number   int
		wantWon  bool
		wantGain int64
	}{
		{"straight hit", domain.BetSpec{Category: domain.BetStraight, Numbers: []int{17}, Amount: 100}, 17, true, 3500},
		{"straight miss", domain.BetSpec{Category: domain.BetStraight, Numbers: []int{17}, Amount: 100}, 18, false, -100},
		{"split hit", domain.BetSpec{Category: domain.BetSplit, Numbers: []int{8, 11}, Amount: 100}, 11, true, 1700},
		{"street hit", domain.BetSpec{Category: domain.BetStreet, Numbers: []int{4, 5, 6}, Amount: 100}, 5, true, 1100},
		{"corner hit", domain.BetSpec{Category: domain.BetCorner, Numbers: []int{1, 2, 4, 5}, Amount: 100}, 4, true, 800},
		{"line hit", domain.BetSpec{Category: domain.BetLine, Numbers: []int{13, 14, 15, 16, 17, 18}, Amount: 100}, 16, true, 500},
		{"red win", domain.BetSpec{Category: domain.BetRed, Amount: 100}, 1, true, 100},
		{"red loss on black", domain.BetSpec{Category: domain.BetRed, Amount: 100}, 2, false, -100},
		{"red loss on zero", domain.BetSpec{Category: domain.BetRed, Amount: 100}, 0, false, -100},
		{"even loss on zero", domain.BetSpec{Category: domain.BetEven, Amount: 100}, 0, false, -100},
		{"low loss on zero", domain.BetSpec{Category: domain.BetLow, Amount: 100}, 0, false, -100},
		{"odd win", domain.BetSpec{Category: domain.BetOdd, Amount: 100}, 33, true, 100},
		{"high win", domain.BetSpec{Category: domain.BetHigh, Amount: 100}, 36, true, 100},
		{"dozen win", domain.BetSpec{Category: domain.BetDozen2, Amount: 100}, 13, true, 200},
		{"dozen loss", domain.BetSpec{Category: domain.BetDozen2, Amount: 100}, 25, false, -100},
		{"column win", domain.BetSpec{Category: domain.BetColumn1, Amount: 100}, 19, true, 200},
		{"column loss on zero", domain.BetSpec{Category: domain.BetColumn1, Amount: 100}, 0, false, -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := roulette.Score(tt.spec, mustClassify(t, tt.number))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Won != tt.wantWon {
				t.Errorf("Won = %v, want %v", out.Won, tt.wantWon)
			}
			if out.NetGain != tt.wantGain {
				t.Errorf("NetGain = %d, want %d", out.NetGain, tt.wantGain)
			}
			wantGross := tt.wantGain
			if tt.wantWon {
				wantGross += tt.spec.Amount
			} else {
				wantGross = 0
			}
			if out.GrossReturn != wantGross {
				t.Errorf("GrossReturn = %d, want %d", out.GrossReturn, wantGross)
			}
		})
	}
}

func TestScoreComposite(t *testing.T) {
	// The fixed-coverage split: 140 high, 50 on the 13-18 six-line, 10 on zero.
	spec := domain.BetSpec{
		Category: domain.BetMultiple,
		Legs: []domain.BetLeg{
			{Category: domain.BetHigh, Amount: 1400},
			{Category: domain.BetLine, Numbers: []int{13, 14, 15, 16, 17, 18}, Amount: 500},
			{Category: domain.BetStraight, Numbers: []int{0}, Amount: 100},
		},
	}
	if got := spec.TotalAmount(); got != 2000 {
		t.Fatalf("TotalAmount = %d, want 2000", got)
	}

	tests := []struct {
		name     string
		number   int
		wantWon  bool
		wantGain int64
	}{
		{"high pocket", 25, true, 1400*2 - 2000},
		{"six-line pocket", 15, true, 500*6 - 2000},
		{"zero pocket", 0, true, 100*36 - 2000},
		{"uncovered pocket", 7, false, -2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := roulette.Score(spec, mustClassify(t, tt.number))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Won != tt.wantWon {
				t.Errorf("Won = %v, want %v", out.Won, tt.wantWon)
			}
			if out.NetGain != tt.wantGain {
				t.Errorf("NetGain = %d, want %d", out.NetGain, tt.wantGain)
			}
			if out.Multiplier != 0 {
				t.Errorf("composite Multiplier = %d, want 0", out.Multiplier)
			}
		})
	}
}

func TestScoreRejectsInvalidSpec(t *testing.T) {
	_, err := roulette.Score(domain.BetSpec{Category: domain.BetRed, Amount: 0}, mustClassify(t, 5))
	if err == nil {
		t.Fatal("expected validation error")
	}
}
