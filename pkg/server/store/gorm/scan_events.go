package gorm

import (
	"gorm.io/gorm"

	"github.com/staffdir/staffdir/pkg/model"
	"github.com/staffdir/staffdir/pkg/server/store"
)

// Ensure ScanEventStore implements store.ScanEventStore
var _ store.ScanEventStore = (*ScanEventStore)(nil)

// ScanEventStore implements store.ScanEventStore using GORM
type ScanEventStore struct {
	db *gorm.DB
}

// NewScanEventStore creates a new ScanEventStore
func NewScanEventStore(db *gorm.DB) *ScanEventStore {
	return &ScanEventStore{db: db}
}

// CreateScanEvent persists a scan event
func (s *ScanEventStore) CreateScanEvent(event *model.ScanEvent) error {
	return s.db.Create(event).Error
}
