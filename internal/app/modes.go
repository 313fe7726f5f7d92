package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/spindeck/roulettebot/internal/domain"
	"github.com/spindeck/roulettebot/internal/method"
	"github.com/spindeck/roulettebot/internal/server"
	"github.com/spindeck/roulettebot/internal/server/handler"
	"github.com/spindeck/roulettebot/internal/server/ws"
	"github.com/spindeck/roulettebot/internal/service"
	"github.com/spindeck/roulettebot/internal/session"
)

// shutdownGrace is how long in-flight HTTP requests get on shutdown.
const shutdownGrace = 10 * time.Second

// ServeMode runs the HTTP + WebSocket API backed by Postgres and Redis, plus
// the periodic archive loop when enabled.
func (a *App) ServeMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting serve mode")

	g, ctx := errgroup.WithContext(ctx)

	registry := method.DefaultRegistry()
	machine := session.NewMachine()

	sessionSvc := service.NewSessionService(
		deps.SessionStore,
		deps.AuditStore,
		deps.SummaryCache,
		deps.LockManager,
		deps.EventBus,
		registry,
		machine,
		a.logger,
	)
	simulationSvc := service.NewSimulationService(registry, a.logger)

	hub := ws.NewHub(deps.EventBus, a.logger)
	g.Go(func() error {
		return hub.Run(ctx)
	})

	handlers := server.Handlers{
		Health:      handler.NewHealthHandler(a.logger),
		Methods:     handler.NewMethodHandler(registry, a.logger),
		Sessions:    handler.NewSessionHandler(sessionSvc, a.logger),
		Simulations: handler.NewSimulationHandler(simulationSvc, a.logger),
	}

	srv := server.NewServer(server.Config{
		Port:               a.cfg.Server.Port,
		CORSOrigins:        a.cfg.Server.CORSOrigins,
		APIKey:             a.cfg.Server.APIKey,
		RateLimitPerMinute: a.cfg.Server.RateLimitPerMinute,
	}, handlers, hub, deps.RateLimiter, a.logger)

	g.Go(srv.Start)
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if a.cfg.Archive.Enabled && deps.Archiver != nil {
		g.Go(func() error {
			return a.archiveLoop(ctx, deps.Archiver)
		})
	}

	return g.Wait()
}

// SimulateMode plays the configured batch offline and logs the aggregate
// result.
func (a *App) SimulateMode(ctx context.Context, _ *Dependencies) error {
	a.logger.InfoContext(ctx, "starting simulate mode")

	registry := method.DefaultRegistry()
	simulationSvc := service.NewSimulationService(registry, a.logger)

	sim := a.cfg.Simulation
	result, err := simulationSvc.Run(ctx, service.SimulationRequest{
		Config: domain.SessionConfig{
			Method:     sim.Method,
			BaseAmount: sim.BaseAmount,
			Bankroll:   sim.Bankroll,
			StopLoss:   sim.StopLoss,
			StopWin:    sim.StopWin,
			MaxBets:    sim.MaxBets,
			Params:     sim.Params,
		},
		Sessions: sim.Sessions,
		Seed:     sim.Seed,
	})
	if err != nil {
		return fmt.Errorf("simulate mode: %w", err)
	}

	a.logger.InfoContext(ctx, "simulation result",
		slog.String("method", sim.Method),
		slog.Int("sessions", result.Sessions),
		slog.Int("total_bets", result.TotalBets),
		slog.Int64("net_profit_loss", result.NetProfitLoss),
		slog.Float64("mean_profit_loss", result.MeanProfitLoss),
		slog.Int64("best_profit_loss", result.BestProfitLoss),
		slog.Int64("worst_profit_loss", result.WorstProfitLoss),
	)
	return nil
}

// ArchiveMode runs one archival pass and exits.
func (a *App) ArchiveMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting archive mode")

	if deps.Archiver == nil {
		return fmt.Errorf("archive mode: archiver not wired")
	}

	count, err := a.runArchive(ctx, deps.Archiver)
	if err != nil {
		return fmt.Errorf("archive mode: %w", err)
	}
	a.logger.InfoContext(ctx, "archive pass complete", slog.Int64("sessions_archived", count))
	return nil
}

// archiveLoop periodically archives terminal sessions older than the
// retention window.
func (a *App) archiveLoop(ctx context.Context, archiver domain.Archiver) error {
	interval := time.Duration(a.cfg.Archive.IntervalHours) * time.Hour
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			count, err := a.runArchive(ctx, archiver)
			if err != nil {
				a.logger.WarnContext(ctx, "archive pass failed",
					slog.String("error", err.Error()),
				)
				continue
			}
			if count > 0 {
				a.logger.InfoContext(ctx, "archive pass complete",
					slog.Int64("sessions_archived", count),
				)
			}
		}
	}
}

func (a *App) runArchive(ctx context.Context, archiver domain.Archiver) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -a.cfg.Archive.RetentionDays)
	return archiver.ArchiveSessions(ctx, cutoff)
}
