package store

import (
	"errors"

	"github.com/staffdir/staffdir/pkg/model"
)

// ErrSyncRunNotFound is returned when a sync run doesn't exist
var ErrSyncRunNotFound = errors.New("sync run not found")

// SyncRunStore abstracts sync ledger storage operations
type SyncRunStore interface {
	// CreateSyncRun persists a new sync run record.
	CreateSyncRun(run *model.SyncRun) error

	// UpdateSyncRun replaces the mutable fields of a sync run.
	UpdateSyncRun(run *model.SyncRun) error

	// GetSyncRun retrieves a sync run by ID.
	// Returns ErrSyncRunNotFound if it doesn't exist.
	GetSyncRun(id string) (*model.SyncRun, error)

	// LatestSyncRun returns the most recently started run for a kind, or
	// ErrSyncRunNotFound if none exists.
	LatestSyncRun(kind model.SyncKind) (*model.SyncRun, error)

	// ListSyncRuns returns runs for a kind, newest first, up to limit.
	ListSyncRuns(kind model.SyncKind, limit int) ([]model.SyncRun, error)
}
