package model

import (
	"strings"
	"time"
)

// Contact is a directory record synchronized to the CardDAV store.
type Contact struct {
	ID         string     `gorm:"column:id;primaryKey"`
	FirstName  string     `gorm:"column:first_name"`
	LastName   string     `gorm:"column:last_name"`
	Name       string     `gorm:"column:name"`
	Email      string     `gorm:"column:email"`
	Phone      string     `gorm:"column:phone"`
	Title      string     `gorm:"column:title"`
	Department string     `gorm:"column:department"`
	Company    string     `gorm:"column:company"`
	LinkedIn   string     `gorm:"column:linkedin"`
	Notes      string     `gorm:"column:notes"`
	SyncStatus string     `gorm:"column:sync_status"`
	SyncedAt   *time.Time `gorm:"column:synced_at"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at"`
}

func (Contact) TableName() string {
	return "contacts"
}

// FullName prefers the structured first/last name pair and falls back to the
// free-form name.
func (c *Contact) FullName() string {
	if c.FirstName != "" && c.LastName != "" {
		return strings.TrimSpace(c.FirstName + " " + c.LastName)
	}
	return c.Name
}
