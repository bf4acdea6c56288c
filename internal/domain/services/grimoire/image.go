package grimoire

import (
	"context"
	"io"
)

// UploadImageRequest carries an uploaded picture for a node
type UploadImageRequest struct {
	NodeID      string
	FileType    string // image folder, e.g. "caracteres"
	ContentType string
	Body        io.Reader
}

// ImageService stores node pictures and resolves their public URLs
type ImageService interface {
	// UploadImage stores the picture, records it on the node's note and
	// returns its URL
	UploadImage(ctx context.Context, userID, gameID string, req *UploadImageRequest) (string, error)

	// ImageURL returns the node picture URL, or the default picture
	ImageURL(ctx context.Context, userID, gameID, nodeID string) (string, error)
}
