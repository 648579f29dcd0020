package directory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/staffdir/staffdir/pkg/model"
	"github.com/staffdir/staffdir/pkg/server/store"
)

// Ledger records sync runs and their per-record outcomes
type Ledger struct {
	runs        store.SyncRunStore
	detailLimit int
}

// NewLedger creates a ledger backed by a sync run store. detailLimit bounds
// the failure list kept per run; values below 1 fall back to
// model.MaxFailureDetails.
func NewLedger(runs store.SyncRunStore, detailLimit int) *Ledger {
	if detailLimit < 1 {
		detailLimit = model.MaxFailureDetails
	}
	return &Ledger{runs: runs, detailLimit: detailLimit}
}

// StartRun opens a new in-progress run for a kind
func (l *Ledger) StartRun(kind model.SyncKind) (*Run, error) {
	run := &model.SyncRun{
		ID:        uuid.NewString(),
		Kind:      kind,
		Status:    model.SyncStatusInProgress,
		StartedAt: time.Now().UTC(),
	}
	if err := l.runs.CreateSyncRun(run); err != nil {
		return nil, err
	}
	return &Run{ledger: l, run: run, detailLimit: l.detailLimit}, nil
}

// LastRun returns the most recently started run for a kind, or
// store.ErrSyncRunNotFound if the kind has never synced.
func (l *Ledger) LastRun(kind model.SyncKind) (*model.SyncRun, error) {
	return l.runs.LatestSyncRun(kind)
}

// Run is a handle on one in-progress sync run. Outcome recording is safe
// for concurrent use.
type Run struct {
	mu          sync.Mutex
	ledger      *Ledger
	run         *model.SyncRun
	detailLimit int
}

// ID returns the run identifier
func (r *Run) ID() string {
	return r.run.ID
}

// RecordSuccess counts one successfully synced record
func (r *Run) RecordSuccess() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.run.RecordsProcessed++
	r.run.RecordsSucceeded++
}

// RecordFailure counts one failed record. The failure list is bounded;
// failures past the cap are counted but not detailed.
func (r *Run) RecordFailure(itemRef, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.run.RecordsProcessed++
	r.run.RecordsFailed++
	if len(r.run.ErrorDetails) < r.detailLimit {
		r.run.ErrorDetails = append(r.run.ErrorDetails, model.SyncFailure{
			ItemRef: itemRef,
			Message: message,
		})
	}
}

// Finish moves the run to a terminal status and persists it. The returned
// snapshot is safe to hand to callers after the run is closed.
func (r *Run) Finish(status model.SyncStatus) (*model.SyncRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	r.run.Status = status
	r.run.CompletedAt = &now

	if err := r.ledger.runs.UpdateSyncRun(r.run); err != nil {
		return nil, err
	}

	snapshot := *r.run
	return &snapshot, nil
}

// Abort records a run-level failure message and finalizes the run as failed
func (r *Run) Abort(message string) (*model.SyncRun, error) {
	r.mu.Lock()
	if len(r.run.ErrorDetails) < r.detailLimit {
		r.run.ErrorDetails = append(r.run.ErrorDetails, model.SyncFailure{Message: message})
	}
	r.mu.Unlock()
	return r.Finish(model.SyncStatusFailed)
}
