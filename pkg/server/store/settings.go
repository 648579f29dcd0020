package store

import (
	"errors"

	"github.com/staffdir/staffdir/pkg/model"
)

// ErrSettingsNotFound is returned when no settings row exists for an
// integration type
var ErrSettingsNotFound = errors.New("integration settings not found")

// SettingsStore abstracts integration settings storage operations.
// Secret fields are encrypted before they reach this layer; the store only
// ever sees ciphertext in EncryptedFields.
type SettingsStore interface {
	// GetSettings retrieves settings for an integration type.
	// Returns ErrSettingsNotFound if no row exists.
	GetSettings(integrationType string) (*model.IntegrationSetting, error)

	// UpsertSettings creates or replaces the settings row for an integration
	// type.
	UpsertSettings(setting *model.IntegrationSetting) error
}
