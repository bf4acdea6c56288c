package handler

import (
	"log/slog"
	"net/http"

	grimoireSvc "grimoires/internal/domain/services/grimoire"
	"grimoires/internal/httputil"
)

// ReferenceHandler serves the profile, race and equipment tables
type ReferenceHandler struct {
	referenceService grimoireSvc.ReferenceService
	logger           *slog.Logger
}

// NewReferenceHandler creates a new reference handler
func NewReferenceHandler(referenceService grimoireSvc.ReferenceService, logger *slog.Logger) *ReferenceHandler {
	return &ReferenceHandler{
		referenceService: referenceService,
		logger:           logger,
	}
}

// ListProfiles
// GET /api/games/{id}/profiles
func (h *ReferenceHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	gameID, ok := requirePath(w, r, "id")
	if !ok {
		return
	}

	profiles, err := h.referenceService.ListProfiles(r.Context(), userID, gameID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, profiles)
}

// ListRaces
// GET /api/games/{id}/races
func (h *ReferenceHandler) ListRaces(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	gameID, ok := requirePath(w, r, "id")
	if !ok {
		return
	}

	races, err := h.referenceService.ListRaces(r.Context(), userID, gameID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, races)
}

// ListItems
// GET /api/games/{id}/equipment
func (h *ReferenceHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	gameID, ok := requirePath(w, r, "id")
	if !ok {
		return
	}

	items, err := h.referenceService.ListItems(r.Context(), userID, gameID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, items)
}

// GetCapacities returns a profile's capacities grouped by path
// GET /api/games/{id}/profiles/{name}/capacities
func (h *ReferenceHandler) GetCapacities(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	gameID, ok := requirePath(w, r, "id")
	if !ok {
		return
	}
	name, ok := requirePath(w, r, "name")
	if !ok {
		return
	}

	capacities, err := h.referenceService.GetCapacities(r.Context(), userID, gameID, name)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, capacities)
}
