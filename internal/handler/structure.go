package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"grimoires/internal/domain/models/grimoire"
	grimoireSvc "grimoires/internal/domain/services/grimoire"
	"grimoires/internal/httputil"
)

// StructureHandler handles structure tree HTTP requests. Every route takes
// the structure type from ?type=, a save may also carry it in the body.
type StructureHandler struct {
	structureService grimoireSvc.StructureService
	logger           *slog.Logger
}

// NewStructureHandler creates a new structure handler
func NewStructureHandler(structureService grimoireSvc.StructureService, logger *slog.Logger) *StructureHandler {
	return &StructureHandler{
		structureService: structureService,
		logger:           logger,
	}
}

type saveStructureBody struct {
	Type      string           `json:"type"`
	Structure []*grimoire.Node `json:"structure"`
}

type renameNodeBody struct {
	Name string `json:"name"`
}

type createNodeResponse struct {
	Structure *grimoire.Structure `json:"structure"`
	Node      *grimoire.Node      `json:"node"`
}

// GetStructure returns the whole tree, empty when never saved
// GET /api/games/{id}/structure?type=
func (h *StructureHandler) GetStructure(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	gameID, ok := requirePath(w, r, "id")
	if !ok {
		return
	}

	structure, err := h.structureService.GetStructure(r.Context(), userID, gameID, structureType(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, structure)
}

// SaveStructure replaces the whole tree
// POST|PUT /api/games/{id}/structure
func (h *StructureHandler) SaveStructure(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	gameID, ok := requirePath(w, r, "id")
	if !ok {
		return
	}

	var body saveStructureBody
	if !parseBody(w, r, &body) {
		return
	}
	typ := strings.TrimSpace(body.Type)
	if typ == "" {
		typ = structureType(r)
	}

	structure, err := h.structureService.SaveStructure(r.Context(), userID, gameID, typ, body.Structure)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, structure)
}

// CreateNode adds a folder or file
// POST /api/games/{id}/structure/nodes?type=
func (h *StructureHandler) CreateNode(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	gameID, ok := requirePath(w, r, "id")
	if !ok {
		return
	}

	var req grimoireSvc.CreateNodeRequest
	if !parseBody(w, r, &req) {
		return
	}

	structure, node, err := h.structureService.CreateNode(r.Context(), userID, gameID, structureType(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, createNodeResponse{Structure: structure, Node: node})
}

// RenameNode changes a node's name
// PATCH /api/games/{id}/structure/nodes/{nodeId}?type=
func (h *StructureHandler) RenameNode(w http.ResponseWriter, r *http.Request) {
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

	var body renameNodeBody
	if !parseBody(w, r, &body) {
		return
	}

	structure, err := h.structureService.RenameNode(r.Context(), userID, gameID, structureType(r), grimoire.NodeID(nodeID), body.Name)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, structure)
}

// MoveNode reorders a node or moves it under another folder
// POST /api/games/{id}/structure/nodes/{nodeId}/move?type=
func (h *StructureHandler) MoveNode(w http.ResponseWriter, r *http.Request) {
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

	var req grimoireSvc.MoveNodeRequest
	if !parseBody(w, r, &req) {
		return
	}

	structure, err := h.structureService.MoveNode(r.Context(), userID, gameID, structureType(r), grimoire.NodeID(nodeID), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, structure)
}

// DeleteNode removes a file (and its note) or an empty folder
// DELETE /api/games/{id}/structure/nodes/{nodeId}?type=
func (h *StructureHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
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

	structure, err := h.structureService.DeleteNode(r.Context(), userID, gameID, structureType(r), grimoire.NodeID(nodeID))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, structure)
}
