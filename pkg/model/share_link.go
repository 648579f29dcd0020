package model

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"time"
)

// ShareLink grants unauthenticated, time/use-bounded access to one contact.
// Only the SHA-256 hash of the bearer secret is ever persisted.
type ShareLink struct {
	ID        int64      `gorm:"column:id;primaryKey;autoIncrement"`
	ContactID string     `gorm:"column:contact_id;index"`
	TokenHash string     `gorm:"column:token_hash;uniqueIndex"`
	CreatedBy string     `gorm:"column:created_by"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	ExpiresAt *time.Time `gorm:"column:expires_at"` // nil = never expires
	UsedAt    *time.Time `gorm:"column:used_at"`
	UsesCount int        `gorm:"column:uses_count"`
	MaxUses   *int       `gorm:"column:max_uses"` // nil = unlimited

	// Transient field for the plaintext token (not stored)
	PlainToken string `gorm:"-"`
}

func (ShareLink) TableName() string {
	return "share_links"
}

// GenerateShareToken creates a new random bearer token with 256 bits of
// entropy, base64url encoded.
func GenerateShareToken() (string, error) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(randomBytes), nil
}

// HashShareToken returns the SHA-256 hash of a token as hex.
func HashShareToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// IsExpired checks if the link has expired at the given instant.
func (l *ShareLink) IsExpired(now time.Time) bool {
	return l.ExpiresAt != nil && !l.ExpiresAt.After(now)
}

// IsExhausted checks if the link's use quota has been consumed.
func (l *ShareLink) IsExhausted() bool {
	return l.MaxUses != nil && l.UsesCount >= *l.MaxUses
}
