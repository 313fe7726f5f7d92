package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/spindeck/roulettebot/internal/domain"
	"github.com/spindeck/roulettebot/internal/service"
)

// SimulationService defines what the simulation handler requires from the
// service layer.
type SimulationService interface {
	Run(ctx context.Context, req service.SimulationRequest) (service.SimulationResult, error)
}

// SimulationHandler serves the offline batch simulation endpoint.
type SimulationHandler struct {
	simulations SimulationService
	logger      *slog.Logger
}

// NewSimulationHandler creates a SimulationHandler.
func NewSimulationHandler(simulations SimulationService, logger *slog.Logger) *SimulationHandler {
	return &SimulationHandler{
		simulations: simulations,
		logger:      logger,
	}
}

// RunSimulation plays a batch of sessions offline against a seeded wheel.
// POST /api/simulations
func (h *SimulationHandler) RunSimulation(w http.ResponseWriter, r *http.Request) {
	var req service.SimulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.simulations.Run(r.Context(), req)
	if err != nil {
		if domain.CodeOf(err) == "" {
			h.logger.ErrorContext(r.Context(), "handler: simulation failed",
				slog.String("error", err.Error()),
			)
		}
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
