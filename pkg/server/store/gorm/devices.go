package gorm

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/staffdir/staffdir/pkg/model"
	"github.com/staffdir/staffdir/pkg/server/store"
)

// Ensure DeviceStore implements store.DeviceStore
var _ store.DeviceStore = (*DeviceStore)(nil)

// DeviceStore implements store.DeviceStore using GORM
type DeviceStore struct {
	db *gorm.DB
}

// NewDeviceStore creates a new DeviceStore
func NewDeviceStore(db *gorm.DB) *DeviceStore {
	return &DeviceStore{db: db}
}

// UpsertDevice creates or updates a device keyed by serial number
func (s *DeviceStore) UpsertDevice(device *model.Device) error {
	device.SerialNumber = strings.ToUpper(device.SerialNumber)
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "serial_number"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "model", "os_version", "mdm_device_id", "sync_status", "last_synced_at", "updated_at",
		}),
	}).Create(device).Error
}

// ListDevices returns all devices ordered by serial number
func (s *DeviceStore) ListDevices() ([]model.Device, error) {
	var devices []model.Device
	tx := s.db.Order("serial_number").Find(&devices)
	return devices, tx.Error
}
