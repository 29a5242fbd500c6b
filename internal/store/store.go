package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nhle/project-ledger/internal/model"
)

var (
	// ErrNotFound is returned by Get, Update and Remove for an unknown id.
	ErrNotFound = errors.New("project not found")
	// ErrInvalidInput is returned when fields violate the ledger invariants.
	ErrInvalidInput = errors.New("invalid project input")
)

// ChangeKind identifies the mutation that produced a Change.
type ChangeKind int

const (
	ChangeAdded ChangeKind = iota
	ChangeUpdated
	ChangeRemoved
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeUpdated:
		return "updated"
	case ChangeRemoved:
		return "removed"
	default:
		return fmt.Sprintf("ChangeKind(%d)", int(k))
	}
}

// Change is published to subscribers after every successful mutation.
type Change struct {
	Kind ChangeKind
	ID   string
}

// Store owns the ordered project collection.
type Store interface {
	// Add appends a new project with a fresh id and derived totals.
	Add(ctx context.Context, f model.Fields) (model.Project, error)
	// Update replaces the editable fields of id in place, keeping its
	// position, and recomputes derived totals.
	Update(ctx context.Context, id string, f model.Fields) (model.Project, error)
	// Remove deletes id permanently.
	Remove(ctx context.Context, id string) error
	// Get returns a copy of a single project.
	Get(ctx context.Context, id string) (model.Project, error)
	// List returns a copy of the collection in insertion order.
	List(ctx context.Context) ([]model.Project, error)
	// Subscribe returns a channel receiving a Change after each mutation
	// and a function that cancels the subscription.
	Subscribe() (<-chan Change, func())
	Close() error
}

// Options are shared by every backend.
type Options struct {
	Logger *slog.Logger
}

// Open creates the store selected by backend.
func Open(backend string, opts Options) (Store, error) {
	switch backend {
	case model.BackendMemory, "":
		return NewMemoryStore(opts.Logger), nil
	case model.BackendSQLite:
		s, err := NewSQLiteStore(opts.Logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

// validate enforces the non-negative inputs shared by every backend.
func validate(f model.Fields) error {
	switch {
	case f.TransactionAmount.IsNegative():
		return fmt.Errorf("transaction amount %s: %w", f.TransactionAmount, ErrInvalidInput)
	case f.VATPercent.IsNegative():
		return fmt.Errorf("VAT percent %s: %w", f.VATPercent, ErrInvalidInput)
	case f.ProjectReceipts.IsNegative():
		return fmt.Errorf("project receipts %s: %w", f.ProjectReceipts, ErrInvalidInput)
	}
	return nil
}

// subscriberBuffer bounds the number of undelivered changes per subscriber.
// Subscribers re-read the whole list, so dropping surplus changes is safe.
const subscriberBuffer = 16

// notifier fans changes out to subscribers without ever blocking a writer.
type notifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Change
	closed bool
}

func (n *notifier) subscribe() (<-chan Change, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(chan Change, subscriberBuffer)
	if n.closed {
		close(ch)
		return ch, func() {}
	}
	if n.subs == nil {
		n.subs = make(map[int]chan Change)
	}
	id := n.nextID
	n.nextID++
	n.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			if sub, ok := n.subs[id]; ok {
				delete(n.subs, id)
				close(sub)
			}
		})
	}
}

func (n *notifier) publish(c Change) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, ch := range n.subs {
		select {
		case ch <- c:
		default:
		}
	}
}

// close ends every subscription.
func (n *notifier) close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}
	n.closed = true
	for id, ch := range n.subs {
		delete(n.subs, id)
		close(ch)
	}
}
