package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/spindeck/roulettebot/internal/domain"
	"github.com/spindeck/roulettebot/internal/method"
)

// MethodHandler serves the betting-method catalogue endpoints.
type MethodHandler struct {
	registry *method.Registry
	logger   *slog.Logger
}

// NewMethodHandler creates a MethodHandler over the given registry.
func NewMethodHandler(registry *method.Registry, logger *slog.Logger) *MethodHandler {
	return &MethodHandler{
		registry: registry,
		logger:   logger,
	}
}

// listMethodsResponse wraps the method list response.
type listMethodsResponse struct {
	Methods []string `json:"methods"`
}

// ListMethods returns the names of all registered betting methods.
// GET /api/methods
func (h *MethodHandler) ListMethods(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, listMethodsResponse{Methods: h.registry.List()})
}

// ValidateConfig checks a session configuration against a method without
// creating a session.
// POST /api/methods/{name}/validate
func (h *MethodHandler) ValidateConfig(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing method name")
		return
	}

	m, err := h.registry.Get(name)
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown method "+name)
		return
	}

	var cfg domain.SessionConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	cfg.Method = name

	if err := m.ValidateConfig(cfg); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"method": name,
		"valid":  true,
	})
}
