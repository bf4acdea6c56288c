package handler

import (
	"log/slog"
	"net/http"

	"grimoires/internal/domain/models/grimoire"
	grimoireSvc "grimoires/internal/domain/services/grimoire"
	"grimoires/internal/httputil"
)

// CharacterHandler handles character sheet HTTP requests
type CharacterHandler struct {
	characterService grimoireSvc.CharacterService
	imageService     grimoireSvc.ImageService
	logger           *slog.Logger
}

// NewCharacterHandler creates a new character handler
func NewCharacterHandler(
	characterService grimoireSvc.CharacterService,
	imageService grimoireSvc.ImageService,
	logger *slog.Logger,
) *CharacterHandler {
	return &CharacterHandler{
		characterService: characterService,
		imageService:     imageService,
		logger:           logger,
	}
}

type rollTraitBody struct {
	Trait string `json:"trait"`
}

type imageURLResponse struct {
	URL string `json:"url"`
}

// GetSheet returns the stored inputs with freshly derived values
// GET /api/games/{id}/characters/{nodeId}
func (h *CharacterHandler) GetSheet(w http.ResponseWriter, r *http.Request) {
	userID, gameID, nodeID, ok := characterPath(w, r)
	if !ok {
		return
	}

	sheet, err := h.characterService.GetSheet(r.Context(), userID, gameID, nodeID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, sheet)
}

// SaveSheet stores the inputs of a character
// PUT /api/games/{id}/characters/{nodeId}
func (h *CharacterHandler) SaveSheet(w http.ResponseWriter, r *http.Request) {
	userID, gameID, nodeID, ok := characterPath(w, r)
	if !ok {
		return
	}

	var inputs grimoire.CharacterInputs
	if !parseBody(w, r, &inputs) {
		return
	}

	sheet, err := h.characterService.SaveSheet(r.Context(), userID, gameID, nodeID, &inputs)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, sheet)
}

// PreviewSheet derives values for unsaved inputs
// POST /api/games/{id}/characters/preview
func (h *CharacterHandler) PreviewSheet(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	gameID, ok := requirePath(w, r, "id")
	if !ok {
		return
	}

	var inputs grimoire.CharacterInputs
	if !parseBody(w, r, &inputs) {
		return
	}

	sheet, err := h.characterService.PreviewSheet(r.Context(), userID, gameID, &inputs)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, sheet)
}

// RollTrait posts a trait check to the game chat
// POST /api/games/{id}/characters/{nodeId}/rolls
func (h *CharacterHandler) RollTrait(w http.ResponseWriter, r *http.Request) {
	userID, gameID, nodeID, ok := characterPath(w, r)
	if !ok {
		return
	}

	var body rollTraitBody
	if !parseBody(w, r, &body) {
		return
	}

	msg, err := h.characterService.RollTrait(r.Context(), userID, gameID, nodeID, body.Trait)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, msg)
}

// Attack posts the attack roll and, when a weapon is equipped, its damage
// POST /api/games/{id}/characters/{nodeId}/attack
func (h *CharacterHandler) Attack(w http.ResponseWriter, r *http.Request) {
	userID, gameID, nodeID, ok := characterPath(w, r)
	if !ok {
		return
	}

	msgs, err := h.characterService.Attack(r.Context(), userID, gameID, nodeID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, msgs)
}

// GetImage resolves the portrait URL of a character
// GET /api/games/{id}/characters/{nodeId}/image
func (h *CharacterHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	userID, gameID, nodeID, ok := characterPath(w, r)
	if !ok {
		return
	}

	url, err := h.imageService.ImageURL(r.Context(), userID, gameID, nodeID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, imageURLResponse{URL: url})
}

func characterPath(w http.ResponseWriter, r *http.Request) (userID, gameID, nodeID string, ok bool) {
	if userID, ok = requireUserID(w, r); !ok {
		return
	}
	if gameID, ok = requirePath(w, r, "id"); !ok {
		return
	}
	nodeID, ok = requirePath(w, r, "nodeId")
	return
}
