package model

import "time"

// MaxFailureDetails bounds the per-run failure list kept for display.
const MaxFailureDetails = 50

// SyncRun is one execution of the push/pull reconciliation against an
// external directory. Mutated in place while running, immutable once it
// reaches a terminal status.
type SyncRun struct {
	ID               string      `gorm:"column:id;primaryKey"`
	Kind             SyncKind    `gorm:"column:kind"`
	Status           SyncStatus  `gorm:"column:status"`
	StartedAt        time.Time   `gorm:"column:started_at"`
	CompletedAt      *time.Time  `gorm:"column:completed_at"`
	RecordsProcessed int         `gorm:"column:records_processed"`
	RecordsSucceeded int         `gorm:"column:records_succeeded"`
	RecordsFailed    int         `gorm:"column:records_failed"`
	ErrorDetails     FailureList `gorm:"column:error_details;type:jsonb"`
	CreatedAt        time.Time   `gorm:"column:created_at"`
}

func (SyncRun) TableName() string {
	return "sync_runs"
}

// IsTerminal reports whether the run has reached a final status.
func (r *SyncRun) IsTerminal() bool {
	return r.Status == SyncStatusCompleted || r.Status == SyncStatusFailed
}
