package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/notes/internal/notes/domain"
)

var ErrNotFound = errors.New("store: not found")

// Store is the root data access interface implemented by the drivers.
// Sub-repositories are exposed as methods so a Tx can hand out the same
// repositories bound to the transaction.
type Store interface {
	Notes() Notes

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller MUST call Commit or
	// Rollback on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Notes interface {
	// ListRecentNotes returns at most limit notes of userID, most recently
	// touched first.
	ListRecentNotes(ctx context.Context, userID string, limit int) ([]domain.Note, error)

	// GetNote returns the note only when it belongs to userID.
	GetNote(ctx context.Context, userID string, id int64) (domain.Note, error)

	// CreateNote inserts n and returns the assigned id.
	CreateNote(ctx context.Context, n domain.Note) (int64, error)

	// UpdateNote replaces the text and bumps updated_at. ErrNotFound when
	// the note does not exist or is owned by someone else.
	UpdateNote(ctx context.Context, userID string, id int64, note string, at time.Time) error

	// CountNotes counts every note. Readiness uses it to check the schema.
	CountNotes(ctx context.Context) (int64, error)
}
