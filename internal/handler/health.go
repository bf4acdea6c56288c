package handler

import (
	"net/http"

	"grimoires/internal/httputil"
	"grimoires/internal/rules"
)

// Health answers liveness checks
// GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RulesHandler exposes the active rule set so clients label fields and
// weapon categories the same way the server derives them.
type RulesHandler struct {
	registry *rules.Registry
}

// NewRulesHandler creates a new rules handler
func NewRulesHandler(registry *rules.Registry) *RulesHandler {
	return &RulesHandler{registry: registry}
}

// GetRules
// GET /api/rules
func (h *RulesHandler) GetRules(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.registry.Rules())
}
