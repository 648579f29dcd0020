package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONMap is a string map persisted as a jsonb column.
type JSONMap map[string]string

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	return scanJSON(value, m)
}

// BlobMap maps field names to ciphertext blobs, persisted as jsonb with
// base64-encoded values.
type BlobMap map[string][]byte

func (m BlobMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *BlobMap) Scan(value interface{}) error {
	return scanJSON(value, m)
}

// SyncFailure is one per-item failure captured during a sync run.
type SyncFailure struct {
	ItemRef string `json:"itemRef"`
	Message string `json:"message"`
}

// FailureList is the bounded failure list of a sync run, persisted as jsonb.
type FailureList []SyncFailure

func (l FailureList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

func (l *FailureList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

func scanJSON(value, dest interface{}) error {
	if value == nil {
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported column type %T", value)
	}

	return json.Unmarshal(data, dest)
}
