package store

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/project-ledger/internal/model"
)

// MemoryStore implements Store with a slice guarded by a mutex.
type MemoryStore struct {
	mu       sync.RWMutex
	projects []model.Project
	newID    func() string
	now      func() time.Time
	logger   *slog.Logger
	notifier notifier
}

// MemoryOption customizes a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithIDGenerator replaces the UUID generator, mainly for tests.
func WithIDGenerator(gen func() string) MemoryOption {
	return func(s *MemoryStore) { s.newID = gen }
}

// NewMemoryStore creates an empty store. A nil logger discards output.
func NewMemoryStore(logger *slog.Logger, opts ...MemoryOption) *MemoryStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &MemoryStore{
		newID:  uuid.NewString,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add appends a new project.
func (s *MemoryStore) Add(ctx context.Context, f model.Fields) (model.Project, error) {
	if err := validate(f); err != nil {
		return model.Project{}, err
	}

	s.mu.Lock()
	id := s.newID()
	if s.indexOf(id) >= 0 {
		s.mu.Unlock()
		return model.Project{}, fmt.Errorf("generated id %s already in use", id)
	}
	p := model.NewProject(id, f)
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt
	s.projects = append(s.projects, p)
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "project added", "id", id, "client", f.ClientName)
	s.notifier.publish(Change{Kind: ChangeAdded, ID: id})
	return p, nil
}

// Update replaces the editable fields of id.
func (s *MemoryStore) Update(ctx context.Context, id string, f model.Fields) (model.Project, error) {
	if err := validate(f); err != nil {
		return model.Project{}, err
	}

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return model.Project{}, fmt.Errorf("updating project %s: %w", id, ErrNotFound)
	}
	p := s.projects[i]
	p.Apply(f)
	p.UpdatedAt = s.now()
	s.projects[i] = p
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "project updated", "id", id)
	s.notifier.publish(Change{Kind: ChangeUpdated, ID: id})
	return p, nil
}

// Remove deletes id.
func (s *MemoryStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("removing project %s: %w", id, ErrNotFound)
	}
	s.projects = slices.Delete(s.projects, i, i+1)
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "project removed", "id", id)
	s.notifier.publish(Change{Kind: ChangeRemoved, ID: id})
	return nil
}

// Get returns a copy of id.
func (s *MemoryStore) Get(_ context.Context, id string) (model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Project{}, fmt.Errorf("getting project %s: %w", id, ErrNotFound)
	}
	return s.projects[i], nil
}

// List returns a copy of all projects in insertion order.
func (s *MemoryStore) List(_ context.Context) ([]model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.projects), nil
}

// Subscribe registers a change listener.
func (s *MemoryStore) Subscribe() (<-chan Change, func()) {
	return s.notifier.subscribe()
}

// Close ends all subscriptions.
func (s *MemoryStore) Close() error {
	s.notifier.close()
	return nil
}

// indexOf must be called with s.mu held.
func (s *MemoryStore) indexOf(id string) int {
	return slices.IndexFunc(s.projects, func(p model.Project) bool { return p.ID == id })
}
