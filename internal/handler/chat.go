package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"grimoires/internal/config"
	"grimoires/internal/domain/models/chat"
	chatSvc "grimoires/internal/domain/services/chat"
	"grimoires/internal/handler/sse"
	"grimoires/internal/httputil"
)

// ChatHandler handles game chat HTTP requests and the live stream
type ChatHandler struct {
	chatService chatSvc.ChatService
	sseConfig   *sse.Config
	logger      *slog.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService chatSvc.ChatService, sseConfig *sse.Config, logger *slog.Logger) *ChatHandler {
	if sseConfig == nil {
		sseConfig = sse.DefaultConfig()
	}
	return &ChatHandler{
		chatService: chatService,
		sseConfig:   sseConfig,
		logger:      logger,
	}
}

// ListMessages pages through history, newest first
// GET /api/games/{id}/chat?limit=&before=&before_id=
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	gameID, ok := requirePath(w, r, "id")
	if !ok {
		return
	}

	limit, err := httputil.QueryInt(r, "limit", config.DefaultChatPageSize)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	beforeAt, err := httputil.QueryTime(r, "before")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	beforeID := strings.TrimSpace(r.URL.Query().Get("before_id"))
	var before *chat.Cursor
	switch {
	case beforeAt != nil:
		before = &chat.Cursor{CreatedAt: *beforeAt, ID: beforeID}
	case beforeID != "":
		httputil.RespondError(w, http.StatusBadRequest, "before_id requires before")
		return
	}

	messages, err := h.chatService.ListMessages(r.Context(), userID, gameID, limit, before)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, messages)
}

// PostMessage posts a message; "/r <expr>" content is rolled server-side
// POST /api/games/{id}/chat
func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	gameID, ok := requirePath(w, r, "id")
	if !ok {
		return
	}

	var req chatSvc.PostMessageRequest
	if !parseBody(w, r, &req) {
		return
	}
	req.GameID = gameID
	req.UserID = userID
	if strings.TrimSpace(req.Author) == "" {
		req.Author = httputil.DisplayName(r)
	}

	msg, err := h.chatService.PostMessage(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, msg)
}

// Stream pushes every new message of the game as a "message" event
// GET /api/games/{id}/chat/stream
func (h *ChatHandler) Stream(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	gameID, ok := requirePath(w, r, "id")
	if !ok {
		return
	}

	stream, err := sse.NewWriter(w)
	if err != nil {
		httputil.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	messages, unsubscribe, err := h.chatService.Subscribe(r.Context(), userID, gameID)
	if err != nil {
		handleError(w, err)
		return
	}
	defer unsubscribe()

	clientID := uuid.New().String()
	if err := stream.Open(h.sseConfig.Retry); err != nil {
		h.logger.Debug("initial flush failed, connection already closed",
			"game_id", gameID,
			"client_id", clientID,
			"error", err,
		)
		return
	}

	h.logger.Debug("chat stream opened",
		"game_id", gameID,
		"client_id", clientID,
		"user_id", userID,
	)

	keepAlive := sse.NewTickerKeepAlive(h.sseConfig.KeepAliveInterval)
	stopped := keepAlive.Start(stream, h.logger)
	defer func() {
		keepAlive.Stop()
		<-stopped
		h.logger.Debug("chat stream closed",
			"game_id", gameID,
			"client_id", clientID,
		)
	}()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-stopped:
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			if err := stream.WriteEvent("message", msg.ID, msg); err != nil {
				h.logger.Debug("client disconnected during event write",
					"game_id", gameID,
					"client_id", clientID,
					"error", err,
				)
				return
			}
		}
	}
}
