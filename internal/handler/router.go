package handler

import "net/http"

// Handlers groups every HTTP handler mounted by RegisterRoutes
type Handlers struct {
	Game      *GameHandler
	Structure *StructureHandler
	Note      *NoteHandler
	Reference *ReferenceHandler
	Character *CharacterHandler
	Image     *ImageHandler
	Chat      *ChatHandler
	Rules     *RulesHandler
}

// RegisterRoutes mounts the API on mux
func RegisterRoutes(mux *http.ServeMux, h *Handlers) {
	mux.HandleFunc("GET /health", Health)
	mux.HandleFunc("GET /api/rules", h.Rules.GetRules)

	// Games
	mux.HandleFunc("GET /api/games", h.Game.ListGames)
	mux.HandleFunc("POST /api/games", h.Game.CreateGame)
	mux.HandleFunc("GET /api/games/{id}", h.Game.GetGame)
	mux.HandleFunc("PATCH /api/games/{id}", h.Game.UpdateGame)
	mux.HandleFunc("DELETE /api/games/{id}", h.Game.DeleteGame)

	// Structure trees
	mux.HandleFunc("GET /api/games/{id}/structure", h.Structure.GetStructure)
	mux.HandleFunc("POST /api/games/{id}/structure", h.Structure.SaveStructure)
	mux.HandleFunc("PUT /api/games/{id}/structure", h.Structure.SaveStructure)
	mux.HandleFunc("POST /api/games/{id}/structure/nodes", h.Structure.CreateNode)
	mux.HandleFunc("PATCH /api/games/{id}/structure/nodes/{nodeId}", h.Structure.RenameNode)
	mux.HandleFunc("POST /api/games/{id}/structure/nodes/{nodeId}/move", h.Structure.MoveNode)
	mux.HandleFunc("DELETE /api/games/{id}/structure/nodes/{nodeId}", h.Structure.DeleteNode)

	// Notes
	mux.HandleFunc("GET /api/games/{id}/notes", h.Note.ListNotes)
	mux.HandleFunc("GET /api/games/{id}/notes/{nodeId}", h.Note.GetNote)
	mux.HandleFunc("PUT /api/games/{id}/notes/{nodeId}", h.Note.PutNote)
	mux.HandleFunc("DELETE /api/games/{id}/notes/{nodeId}", h.Note.DeleteNote)

	// Reference tables
	mux.HandleFunc("GET /api/games/{id}/profiles", h.Reference.ListProfiles)
	mux.HandleFunc("GET /api/games/{id}/profiles/{name}/capacities", h.Reference.GetCapacities)
	mux.HandleFunc("GET /api/games/{id}/races", h.Reference.ListRaces)
	mux.HandleFunc("GET /api/games/{id}/equipment", h.Reference.ListItems)

	// Characters
	mux.HandleFunc("POST /api/games/{id}/characters/preview", h.Character.PreviewSheet)
	mux.HandleFunc("GET /api/games/{id}/characters/{nodeId}", h.Character.GetSheet)
	mux.HandleFunc("PUT /api/games/{id}/characters/{nodeId}", h.Character.SaveSheet)
	mux.HandleFunc("POST /api/games/{id}/characters/{nodeId}/rolls", h.Character.RollTrait)
	mux.HandleFunc("POST /api/games/{id}/characters/{nodeId}/attack", h.Character.Attack)
	mux.HandleFunc("GET /api/games/{id}/characters/{nodeId}/image", h.Character.GetImage)

	// Images
	mux.HandleFunc("POST /api/games/{id}/images", h.Image.UploadImage)

	// Chat
	mux.HandleFunc("GET /api/games/{id}/chat", h.Chat.ListMessages)
	mux.HandleFunc("POST /api/games/{id}/chat", h.Chat.PostMessage)
	mux.HandleFunc("GET /api/games/{id}/chat/stream", h.Chat.Stream)
}
