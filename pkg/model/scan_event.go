package model

import "time"

// ScanEvent records one fetch of a shared contact, enriched in the
// background with coarse geolocation and client info.
type ScanEvent struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	ContactID  string    `gorm:"column:contact_id;index"`
	IP         string    `gorm:"column:ip"`
	Country    string    `gorm:"column:country"`
	Region     string    `gorm:"column:region"`
	City       string    `gorm:"column:city"`
	DeviceType string    `gorm:"column:device_type"`
	Browser    string    `gorm:"column:browser"`
	OS         string    `gorm:"column:os"`
	UserAgent  string    `gorm:"column:user_agent"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (ScanEvent) TableName() string {
	return "scan_events"
}
