package grimoire

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"time"

	"grimoires/internal/domain"
	chatModels "grimoires/internal/domain/models/chat"
	models "grimoires/internal/domain/models/grimoire"
	"grimoires/internal/domain/repositories"
	chatSvc "grimoires/internal/domain/services/chat"
	"grimoires/internal/rules"
	"grimoires/internal/service/auth"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRules() *rules.Registry {
	r, err := rules.NewRegistry()
	if err != nil {
		panic(err)
	}
	return r
}

// fakeGameRepo is an in-memory GameRepository
type fakeGameRepo struct {
	mu    sync.Mutex
	games map[string]*models.Game
	seq   int
}

func newFakeGameRepo() *fakeGameRepo {
	return &fakeGameRepo{games: make(map[string]*models.Game)}
}

func (r *fakeGameRepo) Create(_ context.Context, g *models.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	g.ID = fmt.Sprintf("game-%d", r.seq)
	cp := *g
	r.games[g.ID] = &cp
	return nil
}

func (r *fakeGameRepo) GetByID(_ context.Context, id string) (*models.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[id]
	if !ok || g.DeletedAt != nil {
		return nil, fmt.Errorf("game %s: %w", id, domain.ErrNotFound)
	}
	cp := *g
	return &cp, nil
}

func (r *fakeGameRepo) List(_ context.Context, userID string) ([]models.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Game
	for _, g := range r.games {
		if g.UserID == userID && g.DeletedAt == nil {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeGameRepo) Update(_ context.Context, g *models.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.games[g.ID]
	if !ok || cur.DeletedAt != nil || cur.UserID != g.UserID {
		return fmt.Errorf("game %s: %w", g.ID, domain.ErrNotFound)
	}
	cp := *g
	r.games[g.ID] = &cp
	return nil
}

func (r *fakeGameRepo) Delete(_ context.Context, id, userID string) (*models.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[id]
	if !ok || g.DeletedAt != nil || g.UserID != userID {
		return nil, fmt.Errorf("game %s: %w", id, domain.ErrNotFound)
	}
	now := time.Now()
	g.DeletedAt = &now
	cp := *g
	return &cp, nil
}

// fakeStructureRepo is an in-memory StructureRepository
type fakeStructureRepo struct {
	mu         sync.Mutex
	structures map[string]*models.Structure
	locked     int
}

func newFakeStructureRepo() *fakeStructureRepo {
	return &fakeStructureRepo{structures: make(map[string]*models.Structure)}
}

func (r *fakeStructureRepo) Get(_ context.Context, gameID, structureType string) (*models.Structure, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.structures[gameID+"/"+structureType]
	if !ok {
		return nil, fmt.Errorf("structure %s/%s: %w", gameID, structureType, domain.ErrNotFound)
	}
	return &models.Structure{GameID: s.GameID, Type: s.Type, Nodes: models.Clone(s.Nodes), UpdatedAt: s.UpdatedAt}, nil
}

func (r *fakeStructureRepo) GetForUpdate(ctx context.Context, gameID, structureType string) (*models.Structure, error) {
	r.mu.Lock()
	r.locked++
	r.mu.Unlock()
	return r.Get(ctx, gameID, structureType)
}

func (r *fakeStructureRepo) Upsert(_ context.Context, s *models.Structure) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.UpdatedAt = time.Now()
	r.structures[s.GameID+"/"+s.Type] = &models.Structure{GameID: s.GameID, Type: s.Type, Nodes: models.Clone(s.Nodes), UpdatedAt: s.UpdatedAt}
	return nil
}

// fakeNoteRepo is an in-memory NoteRepository
type fakeNoteRepo struct {
	mu    sync.Mutex
	notes map[string]*models.Note
	seq   int64
}

func newFakeNoteRepo() *fakeNoteRepo {
	return &fakeNoteRepo{notes: make(map[string]*models.Note)}
}

func (r *fakeNoteRepo) Upsert(_ context.Context, n *models.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := n.GameID + "/" + n.NodeID
	now := time.Now()
	if cur, ok := r.notes[key]; ok {
		n.ID = cur.ID
		n.CreatedAt = cur.CreatedAt
	} else {
		r.seq++
		n.ID = r.seq
		n.CreatedAt = now
	}
	n.UpdatedAt = now
	cp := *n
	r.notes[key] = &cp
	return nil
}

func (r *fakeNoteRepo) Get(_ context.Context, gameID, nodeID string) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notes[gameID+"/"+nodeID]
	if !ok {
		return nil, fmt.Errorf("note %s: %w", nodeID, domain.ErrNotFound)
	}
	cp := *n
	return &cp, nil
}

func (r *fakeNoteRepo) List(_ context.Context, gameID string, filter models.NoteFilter) ([]models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Note
	for _, n := range r.notes {
		if n.GameID != gameID {
			continue
		}
		if len(filter.FileTypes) > 0 && !slices.Contains(filter.FileTypes, n.FileType) {
			continue
		}
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeNoteRepo) UpdateImg(_ context.Context, gameID, nodeID, img string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notes[gameID+"/"+nodeID]
	if !ok {
		return fmt.Errorf("note %s: %w", nodeID, domain.ErrNotFound)
	}
	n.Img = img
	return nil
}

func (r *fakeNoteRepo) Delete(_ context.Context, gameID, nodeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.notes, gameID+"/"+nodeID)
	return nil
}

// put stores a note directly
func (r *fakeNoteRepo) put(gameID, nodeID, fileType, data string) {
	_ = r.Upsert(context.Background(), &models.Note{GameID: gameID, NodeID: nodeID, FileType: fileType, Data: data})
}

// fakeTxManager runs the function inline
type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	m.calls++
	return fn(ctx)
}

// fakeChat records posted messages
type fakeChat struct {
	posted []chatSvc.PostMessageRequest
}

func (c *fakeChat) PostMessage(_ context.Context, req *chatSvc.PostMessageRequest) (*chatModels.Message, error) {
	c.posted = append(c.posted, *req)
	return &chatModels.Message{
		ID:      fmt.Sprintf("msg-%d", len(c.posted)),
		GameID:  req.GameID,
		UserID:  req.UserID,
		Author:  req.Author,
		Label:   req.Label,
		Content: req.Content,
	}, nil
}

func (c *fakeChat) ListMessages(context.Context, string, string, int, *chatModels.Cursor) ([]chatModels.Message, error) {
	return nil, nil
}

func (c *fakeChat) Subscribe(context.Context, string, string) (<-chan chatModels.Message, func(), error) {
	return nil, func() {}, nil
}

// fakeImages builds URLs without a store
type fakeImages struct{}

func (fakeImages) URL(fileType, img string) string {
	if img == "" {
		return "/images/" + fileType + "/default.webp"
	}
	return "/images/" + fileType + "/" + img
}

// fixture wires the services over shared fakes
type fixture struct {
	games      *fakeGameRepo
	structures *fakeStructureRepo
	notes      *fakeNoteRepo
	tx         *fakeTxManager
	chat       *fakeChat
	authorizer *auth.OwnerBasedAuthorizer
	rules      *rules.Registry
	gameID     string
}

const (
	ownerID = "user-owner"
	guestID = "user-guest"
)

func newFixture() *fixture {
	f := &fixture{
		games:      newFakeGameRepo(),
		structures: newFakeStructureRepo(),
		notes:      newFakeNoteRepo(),
		tx:         &fakeTxManager{},
		chat:       &fakeChat{},
		rules:      testRules(),
	}
	f.authorizer = auth.NewOwnerBasedAuthorizer(f.games)

	g := &models.Game{UserID: ownerID, Name: "Campagne"}
	_ = f.games.Create(context.Background(), g)
	f.gameID = g.ID
	return f
}
