package session

import (
	"testing"
	"time"

	"github.com/spindeck/roulettebot/internal/domain"
)

func testMachine(at time.Time) *Machine {
	return NewMachineWithClock(func() time.Time { return at })
}

func testSessionConfig() domain.SessionConfig {
	return domain.SessionConfig{
		Method:     "martingale",
		BaseAmount: 100,
		Bankroll:   10_000,
		StopLoss:   5_000,
	}
}

func redBet(amount int64) domain.BetSpec {
	return domain.BetSpec{Category: domain.BetRed, Amount: amount}
}

func TestNewSession(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := testMachine(now)

	prog := domain.Progression{0}
	s := m.New("user-1", testSessionConfig(), prog)

	if s.ID == "" {
		t.Error("session ID not assigned")
	}
	if s.Status != domain.SessionActive {
		t.Errorf("status = %s, want active", s.Status)
	}
	if !s.StartedAt.Equal(now) {
		t.Errorf("started at = %v, want %v", s.StartedAt, now)
	}
	if s.Balance() != 10_000 {
		t.Errorf("balance = %d, want the full bankroll", s.Balance())
	}

	// The machine must have cloned the progression, not aliased it.
	prog[0] = 99
	if s.Progression[0] == 99 {
		t.Error("session progression aliases the caller's slice")
	}
}

func TestPlaceBetWin(t *testing.T) {
	m := testMachine(time.Now())
	s := m.New("user-1", testSessionConfig(), domain.Progression{0})

	// 7 is red: an even-money red bet wins one stake.
	next, bet, err := m.PlaceBet(s, redBet(100), 7)
	if err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}

	if !bet.Outcome.Won || bet.Outcome.NetGain != 100 {
		t.Errorf("outcome = %+v, want win of 100", bet.Outcome)
	}
	if bet.Game.Number != 7 || bet.Game.Color != domain.ColorRed {
		t.Errorf("game = %+v, want red 7", bet.Game)
	}
	if !bet.Progression.Equal(domain.Progression{0}) {
		t.Errorf("bet snapshot = %v, want the pre-bet progression", bet.Progression)
	}

	if next.TotalBets != 1 || next.TotalWins != 1 || next.TotalLosses != 0 {
		t.Errorf("aggregates = %d/%d/%d, want 1/1/0", next.TotalBets, next.TotalWins, next.TotalLosses)
	}
	if next.ProfitLoss != 100 || next.HighWatermark != 100 || next.LowWatermark != 0 {
		t.Errorf("P/L = %d high = %d low = %d, want 100/100/0", next.ProfitLoss, next.HighWatermark, next.LowWatermark)
	}
	if next.Balance() != 10_100 {
		t.Errorf("balance = %d, want 10100", next.Balance())
	}

	// The input session is untouched.
	if s.TotalBets != 0 || len(s.Bets) != 0 {
		t.Error("PlaceBet mutated its input session")
	}
}

func TestPlaceBetLossWatermarks(t *testing.T) {
	m := testMachine(time.Now())
	s := m.New("user-1", testSessionConfig(), domain.Progression{0})

	// 8 is black: the red bet loses.
	next, bet, err := m.PlaceBet(s, redBet(300), 8)
	if err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}
	if bet.Outcome.Won || bet.Outcome.NetGain != -300 {
		t.Errorf("outcome = %+v, want loss of 300", bet.Outcome)
	}
	if next.ProfitLoss != -300 || next.LowWatermark != -300 || next.HighWatermark != 0 {
		t.Errorf("P/L = %d high = %d low = %d, want -300/0/-300", next.ProfitLoss, next.HighWatermark, next.LowWatermark)
	}
	if next.TotalLosses != 1 {
		t.Errorf("losses = %d, want 1", next.TotalLosses)
	}
}

func TestPlaceBetRejectsNonActive(t *testing.T) {
	m := testMachine(time.Now())
	s := m.New("user-1", testSessionConfig(), domain.Progression{0})

	paused, err := m.Pause(s)
	if err != nil {
		t.Fatalf("Pause: %v", err)
	}
	_, _, err = m.PlaceBet(paused, redBet(100), 7)
	if domain.CodeOf(err) != domain.CodeIllegalTransition {
		t.Errorf("code = %s, want illegal_transition", domain.CodeOf(err))
	}
}

func TestPlaceBetRejectsWhenStopConditionHolds(t *testing.T) {
	m := testMachine(time.Now())
	s := m.New("user-1", testSessionConfig(), domain.Progression{0})
	s.ProfitLoss = -5_000 // exactly the stop-loss

	_, _, err := m.PlaceBet(s, redBet(100), 7)
	if domain.CodeOf(err) != domain.CodeStopCondition {
		t.Errorf("code = %s, want stop_condition", domain.CodeOf(err))
	}
	// Reporting never auto-ends; the session value is still active.
	if s.Status != domain.SessionActive {
		t.Errorf("status = %s, want active", s.Status)
	}
}

func TestPlaceBetRejectsOverdraft(t *testing.T) {
	m := testMachine(time.Now())
	s := m.New("user-1", testSessionConfig(), domain.Progression{0})
	s.ProfitLoss = -4_000 // 6000 left, above the stop-loss line

	_, _, err := m.PlaceBet(s, redBet(7_000), 7)
	if domain.CodeOf(err) != domain.CodeInsufficientBalance {
		t.Errorf("code = %s, want insufficient_balance", domain.CodeOf(err))
	}
}

func TestPlaceBetRejectsBadInputs(t *testing.T) {
	m := testMachine(time.Now())
	s := m.New("user-1", testSessionConfig(), domain.Progression{0})

	if _, _, err := m.PlaceBet(s, redBet(100), 37); domain.CodeOf(err) != domain.CodeValidation {
		t.Errorf("out-of-range number: code = %s, want validation", domain.CodeOf(err))
	}
	if _, _, err := m.PlaceBet(s, redBet(0), 7); domain.CodeOf(err) != domain.CodeValidation {
		t.Errorf("zero stake: code = %s, want validation", domain.CodeOf(err))
	}
}

func TestLifecycleTransitions(t *testing.T) {
	m := testMachine(time.Now())

	t.Run("pause and resume", func(t *testing.T) {
		s := m.New("u", testSessionConfig(), domain.Progression{0})
		paused, err := m.Pause(s)
		if err != nil {
			t.Fatalf("Pause: %v", err)
		}
		if paused.Status != domain.SessionPaused {
			t.Errorf("status = %s, want paused", paused.Status)
		}
		if _, err := m.Pause(paused); err == nil {
			t.Error("pausing a paused session must fail")
		}
		resumed, err := m.Resume(paused)
		if err != nil {
			t.Fatalf("Resume: %v", err)
		}
		if resumed.Status != domain.SessionActive {
			t.Errorf("status = %s, want active", resumed.Status)
		}
		if _, err := m.Resume(resumed); err == nil {
			t.Error("resuming an active session must fail")
		}
	})

	t.Run("end from active and paused", func(t *testing.T) {
		s := m.New("u", testSessionConfig(), domain.Progression{0})
		ended, err := m.End(s, domain.EndUserRequest)
		if err != nil {
			t.Fatalf("End: %v", err)
		}
		if ended.Status != domain.SessionEnded || ended.EndReason != domain.EndUserRequest {
			t.Errorf("got %s/%s, want ended/user_request", ended.Status, ended.EndReason)
		}
		if ended.EndedAt == nil {
			t.Error("EndedAt not set")
		}
		if _, err := m.End(ended, domain.EndUserRequest); domain.CodeOf(err) != domain.CodeIllegalTransition {
			t.Errorf("double end: code = %s, want illegal_transition", domain.CodeOf(err))
		}

		paused, _ := m.Pause(m.New("u", testSessionConfig(), domain.Progression{0}))
		if _, err := m.End(paused, domain.EndStopLoss); err != nil {
			t.Errorf("ending a paused session must work: %v", err)
		}
	})

	t.Run("cancel", func(t *testing.T) {
		s := m.New("u", testSessionConfig(), domain.Progression{0})
		canceled, err := m.Cancel(s)
		if err != nil {
			t.Fatalf("Cancel: %v", err)
		}
		if canceled.Status != domain.SessionCanceled || canceled.EndReason != domain.EndAdmin {
			t.Errorf("got %s/%s, want canceled/admin", canceled.Status, canceled.EndReason)
		}
		if !canceled.Terminal() {
			t.Error("canceled session must be terminal")
		}
		paused, _ := m.Pause(m.New("u", testSessionConfig(), domain.Progression{0}))
		if _, err := m.Cancel(paused); err == nil {
			t.Error("canceling a paused session must fail")
		}
	})
}

func TestShouldAutoEnd(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		mutate func(*domain.Session)
		at     time.Time
		want   domain.EndReason
		hit    bool
	}{
		{"fresh session", func(s *domain.Session) {}, start, "", false},
		{
			"stop loss exactly",
			func(s *domain.Session) { s.ProfitLoss = -5_000 },
			start, domain.EndStopLoss, true,
		},
		{
			"one short of stop loss",
			func(s *domain.Session) { s.ProfitLoss = -4_999 },
			start, "", false,
		},
		{
			"stop win",
			func(s *domain.Session) { s.Config.StopWin = 2_000; s.ProfitLoss = 2_000 },
			start, domain.EndStopWin, true,
		},
		{
			"stop win disabled at zero",
			func(s *domain.Session) { s.ProfitLoss = 9_999 },
			start, "", false,
		},
		{
			"max bets",
			func(s *domain.Session) { s.Config.MaxBets = 3; s.TotalBets = 3 },
			start, domain.EndMaxBets, true,
		},
		{
			"max duration",
			func(s *domain.Session) { s.Config.MaxDuration = time.Hour },
			start.Add(time.Hour), domain.EndMaxDuration, true,
		},
		{
			"below max duration",
			func(s *domain.Session) { s.Config.MaxDuration = time.Hour },
			start.Add(59 * time.Minute), "", false,
		},
		{
			"stop loss outranks stop win",
			func(s *domain.Session) {
				s.Config.StopWin = 1
				s.ProfitLoss = -5_000
			},
			start, domain.EndStopLoss, true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testMachine(start)
			s := m.New("u", testSessionConfig(), domain.Progression{0})
			tt.mutate(&s)

			reason, hit := testMachine(tt.at).ShouldAutoEnd(s)
			if hit != tt.hit || reason != tt.want {
				t.Errorf("ShouldAutoEnd = %s/%v, want %s/%v", reason, hit, tt.want, tt.hit)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := testMachine(start)
	s := m.New("u", testSessionConfig(), domain.Progression{0})

	var err error
	s, _, err = m.PlaceBet(s, redBet(100), 7) // win
	if err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}
	s, _, err = m.PlaceBet(s, redBet(100), 8) // loss
	if err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}

	later := testMachine(start.Add(30 * time.Minute))
	sum := later.Summarize(s)

	if sum.TotalBets != 2 || sum.TotalWins != 1 || sum.TotalLosses != 1 {
		t.Errorf("counts = %d/%d/%d, want 2/1/1", sum.TotalBets, sum.TotalWins, sum.TotalLosses)
	}
	if sum.WinRate != 0.5 {
		t.Errorf("win rate = %f, want 0.5", sum.WinRate)
	}
	if sum.ProfitLoss != 0 || sum.Balance != 10_000 {
		t.Errorf("P/L = %d balance = %d, want 0/10000", sum.ProfitLoss, sum.Balance)
	}
	if sum.HighWatermark != 100 || sum.LowWatermark != 0 {
		t.Errorf("watermarks = %d/%d, want 100/0", sum.HighWatermark, sum.LowWatermark)
	}
	if sum.Duration != 30*time.Minute {
		t.Errorf("duration = %v, want 30m", sum.Duration)
	}

	// Terminal sessions measure to EndedAt, not the clock.
	ended, err := later.End(s, domain.EndUserRequest)
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	sum = testMachine(start.Add(5 * time.Hour)).Summarize(ended)
	if sum.Duration != 30*time.Minute {
		t.Errorf("terminal duration = %v, want 30m", sum.Duration)
	}
}
