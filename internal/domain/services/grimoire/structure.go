package grimoire

import (
	"context"

	"grimoires/internal/domain/models/grimoire"
)

// CreateNodeRequest adds a node to a structure. A nil ParentID means the
// root level. ID is optional; a UUID is generated when empty.
type CreateNodeRequest struct {
	ID       grimoire.NodeID   `json:"id"`
	ParentID *grimoire.NodeID  `json:"parentId"`
	Type     grimoire.NodeType `json:"type"`
	Name     string            `json:"name"`
	FileType string            `json:"fileType"`
}

// MoveNodeRequest relocates a node. ToIndex is the position among the new
// parent's children once the node has been detached.
type MoveNodeRequest struct {
	ToIndex     int              `json:"toIndex"`
	NewParentID *grimoire.NodeID `json:"newParentId"`
}

// StructureService manages the folder/file tree documents of a game
type StructureService interface {
	// GetStructure returns the tree, empty when never saved
	GetStructure(ctx context.Context, userID, gameID, structureType string) (*grimoire.Structure, error)

	// SaveStructure replaces the whole tree
	SaveStructure(ctx context.Context, userID, gameID, structureType string, nodes []*grimoire.Node) (*grimoire.Structure, error)

	// CreateNode appends a node and returns the saved structure and the new node
	CreateNode(ctx context.Context, userID, gameID, structureType string, req *CreateNodeRequest) (*grimoire.Structure, *grimoire.Node, error)

	MoveNode(ctx context.Context, userID, gameID, structureType string, nodeID grimoire.NodeID, req *MoveNodeRequest) (*grimoire.Structure, error)

	RenameNode(ctx context.Context, userID, gameID, structureType string, nodeID grimoire.NodeID, name string) (*grimoire.Structure, error)

	// DeleteNode removes a file or an empty folder; a file's note goes with it
	DeleteNode(ctx context.Context, userID, gameID, structureType string, nodeID grimoire.NodeID) (*grimoire.Structure, error)
}
