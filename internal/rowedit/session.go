// Package rowedit holds the transient buffer of the single table row being
// edited. Edits never reach the store until Save.
package rowedit

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/project-ledger/internal/model"
	"github.com/nhle/project-ledger/internal/store"
)

// ErrNoActiveEdit is returned by Save when no row is being edited.
var ErrNoActiveEdit = errors.New("no row is being edited")

// Buffer is the mutable copy of one project.
type Buffer struct {
	ID    string
	Draft model.Draft

	original model.Project
}

// Original returns the project as it was when editing began.
func (b *Buffer) Original() model.Project {
	return b.original
}

// Preview parses the buffer and returns the totals Save would store.
func (b *Buffer) Preview() (total, remaining model.Money, err error) {
	f, err := model.ParseDraft(b.Draft)
	if err != nil {
		return model.Money{}, model.Money{}, err
	}
	total, remaining = model.Derive(f)
	return total, remaining, nil
}

// Session tracks at most one active Buffer over a store.
type Session struct {
	store  store.Store
	active *Buffer
}

// New creates an idle session.
func New(s store.Store) *Session {
	return &Session{store: s}
}

// Begin loads id into a fresh buffer. Any buffer already open is
// discarded, so only one row is in edit mode at a time.
func (s *Session) Begin(ctx context.Context, id string) (*Buffer, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("editing project %s: %w", id, err)
	}
	s.active = &Buffer{
		ID:       p.ID,
		Draft:    model.DraftOf(p.Fields()),
		original: p,
	}
	return s.active, nil
}

// Active returns the open buffer, if any.
func (s *Session) Active() (*Buffer, bool) {
	return s.active, s.active != nil
}

// Editing reports whether id is the row in edit mode.
func (s *Session) Editing(id string) bool {
	return s.active != nil && s.active.ID == id
}

// Save commits the buffer through Update. On success the session is idle
// again; on failure the buffer stays open for correction.
func (s *Session) Save(ctx context.Context) (model.Project, error) {
	if s.active == nil {
		return model.Project{}, ErrNoActiveEdit
	}
	f, err := model.ParseDraft(s.active.Draft)
	if err != nil {
		return model.Project{}, err
	}
	p, err := s.store.Update(ctx, s.active.ID, f)
	if err != nil {
		return model.Project{}, err
	}
	s.active = nil
	return p, nil
}

// Cancel discards the buffer without touching the store.
func (s *Session) Cancel() {
	s.active = nil
}
