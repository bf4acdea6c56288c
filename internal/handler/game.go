package handler

import (
	"log/slog"
	"net/http"

	grimoireSvc "grimoires/internal/domain/services/grimoire"
	"grimoires/internal/httputil"
)

// GameHandler handles game HTTP requests
type GameHandler struct {
	gameService grimoireSvc.GameService
	logger      *slog.Logger
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameService grimoireSvc.GameService, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		gameService: gameService,
		logger:      logger,
	}
}

// updateGameBody distinguishes an absent description from an explicit null
type updateGameBody struct {
	Name        *string                   `json:"name"`
	Description httputil.Optional[string] `json:"description"`
}

// ListGames lists the caller's games
// GET /api/games
func (h *GameHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	games, err := h.gameService.ListGames(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, games)
}

// CreateGame creates a game owned by the caller
// POST /api/games
func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req grimoireSvc.CreateGameRequest
	if !parseBody(w, r, &req) {
		return
	}
	req.UserID = userID

	game, err := h.gameService.CreateGame(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, game)
}

// GetGame retrieves a game by ID
// GET /api/games/{id}
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := requirePath(w, r, "id")
	if !ok {
		return
	}

	game, err := h.gameService.GetGame(r.Context(), id, userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, game)
}

// UpdateGame renames a game or changes its description
// PATCH /api/games/{id}
func (h *GameHandler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := requirePath(w, r, "id")
	if !ok {
		return
	}

	var body updateGameBody
	if !parseBody(w, r, &body) {
		return
	}

	game, err := h.gameService.UpdateGame(r.Context(), id, userID, &grimoireSvc.UpdateGameRequest{
		Name: body.Name,
		Description: grimoireSvc.OptionalDescription{
			Present: body.Description.Present,
			Value:   body.Description.Value,
		},
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, game)
}

// DeleteGame deletes a game with all its content and returns it
// DELETE /api/games/{id}
func (h *GameHandler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := requirePath(w, r, "id")
	if !ok {
		return
	}

	game, err := h.gameService.DeleteGame(r.Context(), id, userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, game)
}
