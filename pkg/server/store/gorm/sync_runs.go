package gorm

import (
	"gorm.io/gorm"

	"github.com/staffdir/staffdir/pkg/model"
	"github.com/staffdir/staffdir/pkg/server/store"
)

// Ensure SyncRunStore implements store.SyncRunStore
var _ store.SyncRunStore = (*SyncRunStore)(nil)

// SyncRunStore implements store.SyncRunStore using GORM
type SyncRunStore struct {
	db *gorm.DB
}

// NewSyncRunStore creates a new SyncRunStore
func NewSyncRunStore(db *gorm.DB) *SyncRunStore {
	return &SyncRunStore{db: db}
}

// CreateSyncRun persists a new sync run record
func (s *SyncRunStore) CreateSyncRun(run *model.SyncRun) error {
	return s.db.Create(run).Error
}

// UpdateSyncRun replaces the mutable fields of a sync run
func (s *SyncRunStore) UpdateSyncRun(run *model.SyncRun) error {
	return s.db.Model(&model.SyncRun{}).Where("id = ?", run.ID).Updates(map[string]interface{}{
		"status":            run.Status,
		"completed_at":      run.CompletedAt,
		"records_processed": run.RecordsProcessed,
		"records_succeeded": run.RecordsSucceeded,
		"records_failed":    run.RecordsFailed,
		"error_details":     run.ErrorDetails,
	}).Error
}

// GetSyncRun retrieves a sync run by ID
func (s *SyncRunStore) GetSyncRun(id string) (*model.SyncRun, error) {
	var run model.SyncRun
	tx := s.db.Where("id = ?", id).First(&run)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, store.ErrSyncRunNotFound
		}
		return nil, tx.Error
	}
	return &run, nil
}

// LatestSyncRun returns the most recently started run for a kind
func (s *SyncRunStore) LatestSyncRun(kind model.SyncKind) (*model.SyncRun, error) {
	var run model.SyncRun
	tx := s.db.Where("kind = ?", kind).Order("started_at desc").First(&run)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, store.ErrSyncRunNotFound
		}
		return nil, tx.Error
	}
	return &run, nil
}

// ListSyncRuns returns runs for a kind, newest first, up to limit
func (s *SyncRunStore) ListSyncRuns(kind model.SyncKind, limit int) ([]model.SyncRun, error) {
	var runs []model.SyncRun
	tx := s.db.Where("kind = ?", kind).Order("started_at desc").Limit(limit).Find(&runs)
	return runs, tx.Error
}
