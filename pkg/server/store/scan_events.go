package store

import (
	"github.com/staffdir/staffdir/pkg/model"
)

// ScanEventStore abstracts scan event storage operations
type ScanEventStore interface {
	// CreateScanEvent persists a scan event.
	CreateScanEvent(event *model.ScanEvent) error
}
