package model

import "time"

// IntegrationSetting holds the configuration for one external directory
// system. Non-secret values live in Config; secret values are ciphertext
// blobs in EncryptedFields and never appear in Config or in logs.
type IntegrationSetting struct {
	Type            string    `gorm:"column:type;primaryKey"`
	Enabled         bool      `gorm:"column:enabled"`
	Config          JSONMap   `gorm:"column:config;type:jsonb"`
	EncryptedFields BlobMap   `gorm:"column:encrypted_fields;type:jsonb"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (IntegrationSetting) TableName() string {
	return "integration_settings"
}

// SecretFieldNames lists the fields routed through the vault per
// integration type.
func SecretFieldNames(integrationType string) []string {
	switch integrationType {
	case "carddav":
		return []string{"password"}
	case "mdm":
		return []string{"apiKey"}
	default:
		return nil
	}
}
