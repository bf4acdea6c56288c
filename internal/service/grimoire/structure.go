package grimoire

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"grimoires/internal/config"
	"grimoires/internal/domain"
	models "grimoires/internal/domain/models/grimoire"
	"grimoires/internal/domain/repositories"
	grimoireRepo "grimoires/internal/domain/repositories/grimoire"
	"grimoires/internal/domain/services"
	grimoireSvc "grimoires/internal/domain/services/grimoire"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// structureLimits are the shape checks applied to every saved tree
var structureLimits = models.TreeLimits{
	MaxDepth:      config.MaxStructureDepth,
	MaxNodes:      config.MaxStructureNodes,
	MaxNameLength: config.MaxNodeNameLength,
}

// structureService implements the StructureService interface
type structureService struct {
	structureRepo grimoireRepo.StructureRepository
	noteRepo      grimoireRepo.NoteRepository
	txManager     repositories.TransactionManager
	authorizer    services.GameAuthorizer
	logger        *slog.Logger
}

// NewStructureService creates a new structure service
func NewStructureService(
	structureRepo grimoireRepo.StructureRepository,
	noteRepo grimoireRepo.NoteRepository,
	txManager repositories.TransactionManager,
	authorizer services.GameAuthorizer,
	logger *slog.Logger,
) grimoireSvc.StructureService {
	return &structureService{
		structureRepo: structureRepo,
		noteRepo:      noteRepo,
		txManager:     txManager,
		authorizer:    authorizer,
		logger:        logger,
	}
}

// GetStructure returns the stored tree or an empty one
func (s *structureService) GetStructure(ctx context.Context, userID, gameID, structureType string) (*models.Structure, error) {
	if err := s.checkAccess(ctx, userID, gameID, structureType); err != nil {
		return nil, err
	}

	structure, err := s.structureRepo.Get(ctx, gameID, structureType)
	if errors.Is(err, domain.ErrNotFound) {
		return emptyStructure(gameID, structureType), nil
	}
	if err != nil {
		return nil, err
	}
	if structure.Nodes == nil {
		structure.Nodes = []*models.Node{}
	}
	return structure, nil
}

// SaveStructure replaces the whole tree
func (s *structureService) SaveStructure(ctx context.Context, userID, gameID, structureType string, nodes []*models.Node) (*models.Structure, error) {
	if err := s.checkAccess(ctx, userID, gameID, structureType); err != nil {
		return nil, err
	}

	if nodes == nil {
		nodes = []*models.Node{}
	}
	models.Normalize(nodes)
	if err := models.Validate(nodes, structureLimits); err != nil {
		return nil, err
	}

	structure := &models.Structure{GameID: gameID, Type: structureType, Nodes: nodes}
	if err := s.structureRepo.Upsert(ctx, structure); err != nil {
		return nil, err
	}

	s.logger.Info("structure saved",
		"game_id", gameID,
		"type", structureType,
		"nodes", models.Count(nodes),
		"user_id", userID,
	)

	return structure, nil
}

// CreateNode appends a new node to the root or to a folder
func (s *structureService) CreateNode(ctx context.Context, userID, gameID, structureType string, req *grimoireSvc.CreateNodeRequest) (*models.Structure, *models.Node, error) {
	if err := s.validateCreateNodeRequest(req); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := s.checkAccess(ctx, userID, gameID, structureType); err != nil {
		return nil, nil, err
	}

	node := &models.Node{
		ID:       req.ID,
		Type:     req.Type,
		Name:     req.Name,
		FileType: req.FileType,
	}
	if node.ID == "" {
		node.ID = models.NodeID(uuid.New().String())
	}
	if node.IsFolder() {
		node.Children = []*models.Node{}
	}

	structure, err := s.mutate(ctx, gameID, structureType, func(_ context.Context, nodes []*models.Node) ([]*models.Node, error) {
		if _, exists := models.Find(nodes, node.ID); exists {
			return nil, &domain.ConflictError{
				Message:      fmt.Sprintf("node %s already exists", node.ID),
				ResourceType: "node",
				ResourceID:   string(node.ID),
			}
		}
		return models.Append(nodes, req.ParentID, node)
	})
	if err != nil {
		return nil, nil, err
	}

	created, _ := models.Find(structure.Nodes, node.ID)

	s.logger.Info("node created",
		"game_id", gameID,
		"type", structureType,
		"node_id", node.ID,
		"node_type", node.Type,
		"user_id", userID,
	)

	return structure, created.Node, nil
}

// MoveNode relocates a node
func (s *structureService) MoveNode(ctx context.Context, userID, gameID, structureType string, nodeID models.NodeID, req *grimoireSvc.MoveNodeRequest) (*models.Structure, error) {
	if err := s.checkAccess(ctx, userID, gameID, structureType); err != nil {
		return nil, err
	}

	structure, err := s.mutate(ctx, gameID, structureType, func(_ context.Context, nodes []*models.Node) ([]*models.Node, error) {
		return models.Move(nodes, nodeID, req.ToIndex, req.NewParentID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("node moved",
		"game_id", gameID,
		"type", structureType,
		"node_id", nodeID,
		"to_index", req.ToIndex,
		"user_id", userID,
	)

	return structure, nil
}

// RenameNode renames a node
func (s *structureService) RenameNode(ctx context.Context, userID, gameID, structureType string, nodeID models.NodeID, name string) (*models.Structure, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name: cannot be blank", domain.ErrValidation)
	}
	if err := s.checkAccess(ctx, userID, gameID, structureType); err != nil {
		return nil, err
	}

	structure, err := s.mutate(ctx, gameID, structureType, func(_ context.Context, nodes []*models.Node) ([]*models.Node, error) {
		return models.Rename(nodes, nodeID, name)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("node renamed",
		"game_id", gameID,
		"type", structureType,
		"node_id", nodeID,
		"user_id", userID,
	)

	return structure, nil
}

// DeleteNode removes a file or an empty folder. The note behind a file is
// deleted in the same transaction.
func (s *structureService) DeleteNode(ctx context.Context, userID, gameID, structureType string, nodeID models.NodeID) (*models.Structure, error) {
	if err := s.checkAccess(ctx, userID, gameID, structureType); err != nil {
		return nil, err
	}

	var removed *models.Node
	structure, err := s.mutate(ctx, gameID, structureType, func(txCtx context.Context, nodes []*models.Node) ([]*models.Node, error) {
		out, node, err := models.Remove(nodes, nodeID)
		if err != nil {
			return nil, err
		}
		if node.IsFolder() && len(node.Children) > 0 {
			return nil, fmt.Errorf("%w: folder %s is not empty", domain.ErrValidation, nodeID)
		}
		if !node.IsFolder() {
			if err := s.noteRepo.Delete(txCtx, gameID, string(nodeID)); err != nil {
				return nil, err
			}
		}
		removed = node
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("node deleted",
		"game_id", gameID,
		"type", structureType,
		"node_id", nodeID,
		"node_type", removed.Type,
		"user_id", userID,
	)

	return structure, nil
}

// mutate runs fn against the locked tree and saves the result whole
func (s *structureService) mutate(ctx context.Context, gameID, structureType string, fn func(context.Context, []*models.Node) ([]*models.Node, error)) (*models.Structure, error) {
	var saved *models.Structure

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		current, err := s.structureRepo.GetForUpdate(txCtx, gameID, structureType)
		if errors.Is(err, domain.ErrNotFound) {
			current = emptyStructure(gameID, structureType)
		} else if err != nil {
			return err
		}

		nodes, err := fn(txCtx, current.Nodes)
		if err != nil {
			return err
		}
		models.Normalize(nodes)
		if err := models.Validate(nodes, structureLimits); err != nil {
			return err
		}

		saved = &models.Structure{GameID: gameID, Type: structureType, Nodes: nodes}
		return s.structureRepo.Upsert(txCtx, saved)
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *structureService) checkAccess(ctx context.Context, userID, gameID, structureType string) error {
	if !models.ValidStructureType(structureType) {
		return fmt.Errorf("%w: invalid structure type %q", domain.ErrValidation, structureType)
	}
	return s.authorizer.CanAccessGame(ctx, userID, gameID)
}

// validateCreateNodeRequest validates a create node request
func (s *structureService) validateCreateNodeRequest(req *grimoireSvc.CreateNodeRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Type,
			validation.Required,
			validation.In(models.NodeTypeFolder, models.NodeTypeFile),
		),
		validation.Field(&req.Name,
			validation.Required,
			validation.RuneLength(1, config.MaxNodeNameLength),
			validation.By(notBlank),
		),
		validation.Field(&req.FileType,
			validation.When(req.Type == models.NodeTypeFile, validation.Required, validation.By(notBlank)),
		),
	)
}

func emptyStructure(gameID, structureType string) *models.Structure {
	return &models.Structure{GameID: gameID, Type: structureType, Nodes: []*models.Node{}}
}
