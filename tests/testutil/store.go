package testutil

import (
	"context"
	"testing"

	"github.com/nhle/project-ledger/internal/model"
	"github.com/nhle/project-ledger/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(nil)
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// NewMemoryStore creates an empty MemoryStore closed at test end.
func NewMemoryStore(t *testing.T) *store.MemoryStore {
	t.Helper()

	s := store.NewMemoryStore(nil)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// Backends lists constructors for every Store implementation so contract
// tests can run against each of them.
func Backends() map[string]func(t *testing.T) store.Store {
	return map[string]func(t *testing.T) store.Store{
		model.BackendMemory: func(t *testing.T) store.Store { return NewMemoryStore(t) },
		model.BackendSQLite: func(t *testing.T) store.Store { return NewTestStore(t) },
	}
}

// MustAdd adds each of fields to s and returns the created projects.
func MustAdd(t *testing.T, s store.Store, fields ...model.Fields) []model.Project {
	t.Helper()

	projects := make([]model.Project, 0, len(fields))
	for _, f := range fields {
		p, err := s.Add(context.Background(), f)
		if err != nil {
			t.Fatalf("adding project %q: %v", f.ClientName, err)
		}
		projects = append(projects, p)
	}
	return projects
}

// Order builds fields for a project with the given amounts.
func Order(client, details string, amount, vat, receipts float64) model.Fields {
	return model.Fields{
		OrderDate:         "2024-01-15",
		ClientName:        client,
		OrderDetails:      details,
		TransactionAmount: model.M(amount),
		VATPercent:        model.P(vat),
		ProjectReceipts:   model.M(receipts),
	}
}
