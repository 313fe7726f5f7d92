package session

import (
	"github.com/spindeck/roulettebot/internal/domain"
)

// Summarize builds the plain-data rendering view of a session. Duration is
// measured to EndedAt for terminal sessions and to the machine clock
// otherwise.
func (m *Machine) Summarize(s domain.Session) domain.SessionSummary {
	end := m.now().UTC()
	if s.EndedAt != nil {
		end = *s.EndedAt
	}

	var winRate float64
	if s.TotalBets > 0 {
		winRate = float64(s.TotalWins) / float64(s.TotalBets)
	}

	return domain.SessionSummary{
		SessionID:     s.ID,
		Method:        s.Config.Method,
		Status:        s.Status,
		EndReason:     s.EndReason,
		Duration:      end.Sub(s.StartedAt),
		TotalBets:     s.TotalBets,
		TotalWins:     s.TotalWins,
		TotalLosses:   s.TotalLosses,
		WinRate:       winRate,
		ProfitLoss:    s.ProfitLoss,
		HighWatermark: s.HighWatermark,
		LowWatermark:  s.LowWatermark,
		Balance:       s.Balance(),
	}
}
