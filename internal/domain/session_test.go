package domain

import (
	"testing"
	"time"
)

func TestSessionClone(t *testing.T) {
	now := time.Now()
	s := Session{
		ID:     "s1",
		Status: SessionActive,
		Config: SessionConfig{
			Method:     "martingale",
			BaseAmount: 100,
			Bankroll:   10_000,
			StopLoss:   5_000,
			Params:     map[string]any{"target": "red"},
		},
		Progression: Progression{1, 2},
		Bets:        []Bet{{ID: "b1"}},
		EndedAt:     &now,
	}

	c := s.Clone()
	c.Progression[0] = 99
	c.Bets[0].ID = "mutated"
	c.Config.Params["target"] = "black"
	*c.EndedAt = now.Add(time.Hour)

	if s.Progression[0] != 1 {
		t.Error("clone aliases the progression")
	}
	if s.Bets[0].ID != "b1" {
		t.Error("clone aliases the bets slice")
	}
	if s.Config.Params["target"] != "red" {
		t.Error("clone aliases the params map")
	}
	if !s.EndedAt.Equal(now) {
		t.Error("clone aliases EndedAt")
	}
}

func TestSessionBalance(t *testing.T) {
	s := Session{Config: SessionConfig{Bankroll: 10_000}, ProfitLoss: -1_500}
	if got := s.Balance(); got != 8_500 {
		t.Errorf("Balance = %d, want 8500", got)
	}
}

func TestSessionTerminal(t *testing.T) {
	tests := []struct {
		status SessionStatus
		want   bool
	}{
		{SessionActive, false},
		{SessionPaused, false},
		{SessionEnded, true},
		{SessionCanceled, true},
	}
	for _, tt := range tests {
		s := Session{Status: tt.status}
		if got := s.Terminal(); got != tt.want {
			t.Errorf("Terminal(%s) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestProgressionEqual(t *testing.T) {
	tests := []struct {
		a, b Progression
		want bool
	}{
		{Progression{1, 2}, Progression{1, 2}, true},
		{Progression{1, 2}, Progression{2, 1}, false},
		{Progression{1}, Progression{1, 2}, false},
		{Progression{}, Progression{}, true},
		{nil, Progression{}, true},
	}
	for _, tt := range tests {
		if got := tt.a.Equal(tt.b); got != tt.want {
			t.Errorf("%v.Equal(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestProgressionCloneNil(t *testing.T) {
	var p Progression
	if p.Clone() != nil {
		t.Error("Clone of nil progression must stay nil")
	}
}

func TestBetSpecTotalAmount(t *testing.T) {
	single := BetSpec{Category: BetRed, Amount: 250}
	if single.TotalAmount() != 250 {
		t.Errorf("single TotalAmount = %d, want 250", single.TotalAmount())
	}

	composite := BetSpec{
		Category: BetMultiple,
		Legs: []BetLeg{
			{Category: BetHigh, Amount: 140},
			{Category: BetLine, Amount: 50},
			{Category: BetStraight, Amount: 10},
		},
	}
	if composite.TotalAmount() != 200 {
		t.Errorf("composite TotalAmount = %d, want 200", composite.TotalAmount())
	}
}

func TestErrorCodeOf(t *testing.T) {
	err := NewInsufficientBalanceError("stake %d too high", 500)
	if CodeOf(err) != CodeInsufficientBalance {
		t.Errorf("CodeOf = %s, want insufficient_balance", CodeOf(err))
	}
	if CodeOf(ErrNotFound) != "" {
		t.Errorf("sentinel errors carry no code, got %s", CodeOf(ErrNotFound))
	}
}
