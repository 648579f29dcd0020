package gorm

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/staffdir/staffdir/pkg/model"
	"github.com/staffdir/staffdir/pkg/server/store"
)

// Ensure SettingsStore implements store.SettingsStore
var _ store.SettingsStore = (*SettingsStore)(nil)

// SettingsStore implements store.SettingsStore using GORM
type SettingsStore struct {
	db *gorm.DB
}

// NewSettingsStore creates a new SettingsStore
func NewSettingsStore(db *gorm.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// GetSettings retrieves settings for an integration type
func (s *SettingsStore) GetSettings(integrationType string) (*model.IntegrationSetting, error) {
	var setting model.IntegrationSetting
	tx := s.db.Where("type = ?", integrationType).First(&setting)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, store.ErrSettingsNotFound
		}
		return nil, tx.Error
	}
	return &setting, nil
}

// UpsertSettings creates or replaces the settings row for an integration type
func (s *SettingsStore) UpsertSettings(setting *model.IntegrationSetting) error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "type"}},
		UpdateAll: true,
	}).Create(setting).Error
}
