package model

import "time"

// Device is an asset record pulled from the MDM directory.
type Device struct {
	ID           string     `gorm:"column:id;primaryKey"`
	Name         string     `gorm:"column:name"`
	SerialNumber string     `gorm:"column:serial_number;uniqueIndex"`
	Model        string     `gorm:"column:model"`
	OSVersion    string     `gorm:"column:os_version"`
	MDMDeviceID  string     `gorm:"column:mdm_device_id"`
	SyncStatus   string     `gorm:"column:sync_status"`
	LastSyncedAt *time.Time `gorm:"column:last_synced_at"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
}

func (Device) TableName() string {
	return "devices"
}
