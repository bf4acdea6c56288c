package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"grimoires/internal/config"
	grimoireSvc "grimoires/internal/domain/services/grimoire"
	"grimoires/internal/httputil"
)

// multipart overhead allowed on top of the image itself
const uploadEnvelopeBytes = 64 << 10

// ImageHandler handles picture uploads
type ImageHandler struct {
	imageService grimoireSvc.ImageService
	maxBytes     int64
	logger       *slog.Logger
}

// NewImageHandler creates a new image handler
func NewImageHandler(imageService grimoireSvc.ImageService, logger *slog.Logger) *ImageHandler {
	return &ImageHandler{
		imageService: imageService,
		maxBytes:     config.MaxImageBytes,
		logger:       logger,
	}
}

// UploadImage stores a picture for a node. Multipart fields: image (file),
// type (image folder) and id (node ID).
// POST /api/games/{id}/images
func (h *ImageHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	gameID, ok := requirePath(w, r, "id")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+uploadEnvelopeBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.RespondError(w, http.StatusRequestEntityTooLarge, "image too large")
			return
		}
		httputil.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	url, err := h.imageService.UploadImage(r.Context(), userID, gameID, &grimoireSvc.UploadImageRequest{
		NodeID:      r.FormValue("id"),
		FileType:    r.FormValue("type"),
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	h.logger.Debug("image upload handled",
		"game_id", gameID,
		"size", header.Size,
	)

	httputil.RespondJSON(w, http.StatusCreated, imageURLResponse{URL: url})
}
