package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/spindeck/roulettebot/internal/domain"
	"github.com/spindeck/roulettebot/internal/method"
	"github.com/spindeck/roulettebot/internal/session"
)

const maxSimulationSessions = 10_000

// SimulationRequest describes an offline batch run of one method
// configuration over a seeded wheel.
type SimulationRequest struct {
	Config   domain.SessionConfig `json:"config"`
	Sessions int                  `json:"sessions"`
	Seed     int64                `json:"seed"`
}

// SimulationResult aggregates the outcome of a batch run. Monetary fields
// are minor units, like everywhere else.
type SimulationResult struct {
	Sessions        int                      `json:"sessions"`
	TotalBets       int                      `json:"total_bets"`
	TotalWins       int                      `json:"total_wins"`
	TotalLosses     int                      `json:"total_losses"`
	EndReasons      map[domain.EndReason]int `json:"end_reasons"`
	NetProfitLoss   int64                    `json:"net_profit_loss"`
	MeanProfitLoss  float64                  `json:"mean_profit_loss"`
	BestProfitLoss  int64                    `json:"best_profit_loss"`
	WorstProfitLoss int64                    `json:"worst_profit_loss"`
}

// SimulationService plays whole sessions offline against a seeded
// non-cryptographic wheel. It exercises the same method, evaluator, and
// state machine code paths as live play, and doubles as the seeding surface
// for demo data.
type SimulationService struct {
	registry *method.Registry
	logger   *slog.Logger
}

// NewSimulationService creates a SimulationService.
func NewSimulationService(registry *method.Registry, logger *slog.Logger) *SimulationService {
	return &SimulationService{
		registry: registry,
		logger:   logger.With(slog.String("component", "simulation_service")),
	}
}

// Run executes the batch. Each session plays until a stop condition or the
// method itself halts it. The wheel is math/rand seeded from the request;
// statistical realism, not unpredictability, is the goal here.
func (s *SimulationService) Run(ctx context.Context, req SimulationRequest) (SimulationResult, error) {
	if req.Sessions < 1 || req.Sessions > maxSimulationSessions {
		return SimulationResult{}, domain.NewValidationError("sessions must be 1..%d, got %d", maxSimulationSessions, req.Sessions)
	}
	m, err := s.registry.Get(req.Config.Method)
	if err != nil {
		return SimulationResult{}, domain.NewValidationError("unknown method %q", req.Config.Method)
	}
	if err := m.ValidateConfig(req.Config); err != nil {
		return SimulationResult{}, err
	}

	rng := rand.New(rand.NewSource(req.Seed))
	machine := session.NewMachine()

	result := SimulationResult{
		Sessions:        req.Sessions,
		EndReasons:      make(map[domain.EndReason]int),
		BestProfitLoss:  0,
		WorstProfitLoss: 0,
	}

	for i := 0; i < req.Sessions; i++ {
		if err := ctx.Err(); err != nil {
			return SimulationResult{}, fmt.Errorf("simulation_service: %w", err)
		}

		sess, reason, err := s.playSession(machine, m, req.Config, rng)
		if err != nil {
			return SimulationResult{}, err
		}

		result.TotalBets += sess.TotalBets
		result.TotalWins += sess.TotalWins
		result.TotalLosses += sess.TotalLosses
		result.NetProfitLoss += sess.ProfitLoss
		result.EndReasons[reason]++
		if sess.ProfitLoss > result.BestProfitLoss {
			result.BestProfitLoss = sess.ProfitLoss
		}
		if sess.ProfitLoss < result.WorstProfitLoss {
			result.WorstProfitLoss = sess.ProfitLoss
		}
	}
	result.MeanProfitLoss = float64(result.NetProfitLoss) / float64(req.Sessions)

	s.logger.InfoContext(ctx, "simulation complete",
		slog.String("method", req.Config.Method),
		slog.Int("sessions", req.Sessions),
		slog.Int64("net_profit_loss", result.NetProfitLoss),
	)
	return result, nil
}

// playSession runs one session to its terminal state and returns the final
// value plus the end reason.
func (s *SimulationService) playSession(
	machine *session.Machine,
	m method.Method,
	cfg domain.SessionConfig,
	rng *rand.Rand,
) (domain.Session, domain.EndReason, error) {
	prog, err := m.Init(cfg)
	if err != nil {
		return domain.Session{}, "", err
	}
	sess := machine.New("simulator", cfg, prog)

	for {
		if reason, hit := machine.ShouldAutoEnd(sess); hit {
			ended, err := machine.End(sess, reason)
			if err != nil {
				return domain.Session{}, "", err
			}
			return ended, reason, nil
		}

		d, err := m.Decide(method.Input{
			Config:      cfg,
			History:     sess.Bets,
			Progression: sess.Progression,
			Balance:     sess.Balance(),
		})
		if err != nil {
			return domain.Session{}, "", err
		}
		sess.Progression = d.NextProgression.Clone()
		if !d.ShouldBet {
			reason := d.EndReason
			if reason == "" {
				reason = domain.EndSystem
			}
			ended, err := machine.End(sess, reason)
			if err != nil {
				return domain.Session{}, "", err
			}
			return ended, reason, nil
		}

		sess, _, err = machine.PlaceBet(sess, *d.Bet, rng.Intn(37))
		if err != nil {
			return domain.Session{}, "", err
		}
	}
}
