package handler

import (
	"log/slog"
	"net/http"

	grimoireSvc "grimoires/internal/domain/services/grimoire"
	"grimoires/internal/httputil"
)

// NoteHandler handles note HTTP requests
type NoteHandler struct {
	noteService grimoireSvc.NoteService
	logger      *slog.Logger
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(noteService grimoireSvc.NoteService, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
		logger:      logger,
	}
}

// ListNotes lists a game's notes, optionally filtered by file type
// GET /api/games/{id}/notes?file_type=
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	gameID, ok := requirePath(w, r, "id")
	if !ok {
		return
	}

	notes, err := h.noteService.ListNotes(r.Context(), userID, gameID, httputil.QueryList(r, "file_type"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, notes)
}

// GetNote returns the note attached to a node
// GET /api/games/{id}/notes/{nodeId}
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	gameID, ok := requirePath(w, r, "id")
	if !ok {
		return
	}
	nodeID, ok := requirePath(w, r, "nodeId")
	if !ok {
		return
	}

	note, err := h.noteService.GetNote(r.Context(), userID, gameID, nodeID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, note)
}

// PutNote creates or replaces the note attached to a node
// PUT /api/games/{id}/notes/{nodeId}
func (h *NoteHandler) PutNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	gameID, ok := requirePath(w, r, "id")
	if !ok {
		return
	}
	nodeID, ok := requirePath(w, r, "nodeId")
	if !ok {
		return
	}

	var req grimoireSvc.PutNoteRequest
	if !parseBody(w, r, &req) {
		return
	}

	note, err := h.noteService.PutNote(r.Context(), userID, gameID, nodeID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, note)
}

// DeleteNote removes a note
// DELETE /api/games/{id}/notes/{nodeId}
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	gameID, ok := requirePath(w, r, "id")
	if !ok {
		return
	}
	nodeID, ok := requirePath(w, r, "nodeId")
	if !ok {
		return
	}

	if err := h.noteService.DeleteNote(r.Context(), userID, gameID, nodeID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
