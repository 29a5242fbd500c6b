package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/project-ledger/internal/model"
)

// inMemoryDSN keeps the database inside the process. Nothing is written to
// disk, so the collection lives exactly as long as the store.
const inMemoryDSN = ":memory:"

const projectColumns = `id, order_date, client_name, order_details,
	transaction_amount, vat_percent, total_payment,
	project_receipts, remaining_balance, project_notes,
	created_at, updated_at`

// SQLiteStore implements Store on an in-memory SQLite database.
type SQLiteStore struct {
	db       *sqlx.DB
	logger   *slog.Logger
	notifier notifier
}

// NewSQLiteStore opens a private in-memory database and runs the schema
// migrations. A nil logger discards output.
func NewSQLiteStore(logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	db, err := sqlx.Open("sqlite", inMemoryDSN)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	s := &SQLiteStore{db: db, logger: logger}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close ends all subscriptions and closes the database, discarding its
// contents.
func (s *SQLiteStore) Close() error {
	s.notifier.close()
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// Add inserts a new project at the end of the collection.
func (s *SQLiteStore) Add(ctx context.Context, f model.Fields) (model.Project, error) {
	if err := validate(f); err != nil {
		return model.Project{}, err
	}

	p := model.NewProject(uuid.NewString(), f)
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO projects (`+projectColumns+`)
		VALUES (:id, :order_date, :client_name, :order_details,
			:transaction_amount, :vat_percent, :total_payment,
			:project_receipts, :remaining_balance, :project_notes,
			:created_at, :updated_at)`, p)
	if err != nil {
		return model.Project{}, fmt.Errorf("creating project: %w", err)
	}

	s.logger.DebugContext(ctx, "project added", "id", p.ID, "client", f.ClientName, "backend", "sqlite")
	s.notifier.publish(Change{Kind: ChangeAdded, ID: p.ID})
	return p, nil
}

// Update rewrites the editable and derived columns of id. The seq column is
// untouched, which keeps the row's position.
func (s *SQLiteStore) Update(ctx context.Context, id string, f model.Fields) (model.Project, error) {
	if err := validate(f); err != nil {
		return model.Project{}, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Project{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	p, err := getProject(ctx, tx, id)
	if err != nil {
		return model.Project{}, fmt.Errorf("updating project %s: %w", id, err)
	}
	p.Apply(f)
	p.UpdatedAt = time.Now().UTC()

	_, err = tx.NamedExecContext(ctx, `
		UPDATE projects SET
			order_date = :order_date, client_name = :client_name,
			order_details = :order_details, transaction_amount = :transaction_amount,
			vat_percent = :vat_percent, total_payment = :total_payment,
			project_receipts = :project_receipts, remaining_balance = :remaining_balance,
			project_notes = :project_notes, updated_at = :updated_at
		WHERE id = :id`, p)
	if err != nil {
		return model.Project{}, fmt.Errorf("updating project %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return model.Project{}, fmt.Errorf("committing project %s: %w", id, err)
	}

	s.logger.DebugContext(ctx, "project updated", "id", id, "backend", "sqlite")
	s.notifier.publish(Change{Kind: ChangeUpdated, ID: id})
	return p, nil
}

// Remove deletes id.
func (s *SQLiteStore) Remove(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("removing project %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("removing project %s: %w", id, ErrNotFound)
	}

	s.logger.DebugContext(ctx, "project removed", "id", id, "backend", "sqlite")
	s.notifier.publish(Change{Kind: ChangeRemoved, ID: id})
	return nil
}

// Get retrieves a single project by id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (model.Project, error) {
	p, err := getProject(ctx, s.db, id)
	if err != nil {
		return model.Project{}, fmt.Errorf("getting project %s: %w", id, err)
	}
	return p, nil
}

// List retrieves every project in insertion order.
func (s *SQLiteStore) List(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	err := s.db.SelectContext(ctx, &projects,
		"SELECT "+projectColumns+" FROM projects ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}
	return projects, nil
}

// Subscribe registers a change listener.
func (s *SQLiteStore) Subscribe() (<-chan Change, func()) {
	return s.notifier.subscribe()
}

func getProject(ctx context.Context, q sqlx.QueryerContext, id string) (model.Project, error) {
	var p model.Project
	err := sqlx.GetContext(ctx, q, &p,
		"SELECT "+projectColumns+" FROM projects WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Project{}, ErrNotFound
	}
	if err != nil {
		return model.Project{}, err
	}
	return p, nil
}
