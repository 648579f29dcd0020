package gorm

import (
	"time"

	"gorm.io/gorm"

	"github.com/staffdir/staffdir/pkg/model"
	"github.com/staffdir/staffdir/pkg/server/store"
)

// Ensure ShareLinkStore implements store.ShareLinkStore
var _ store.ShareLinkStore = (*ShareLinkStore)(nil)

// ShareLinkStore implements store.ShareLinkStore using GORM
type ShareLinkStore struct {
	db *gorm.DB
}

// NewShareLinkStore creates a new ShareLinkStore
func NewShareLinkStore(db *gorm.DB) *ShareLinkStore {
	return &ShareLinkStore{db: db}
}

// CreateShareLink persists a new share link
func (s *ShareLinkStore) CreateShareLink(link *model.ShareLink) error {
	return s.db.Create(link).Error
}

// ConsumeShareLink atomically redeems a share link. The guard conditions and
// the use count increment happen in a single statement so that concurrent
// redemptions of a single-use link can never both succeed.
func (s *ShareLinkStore) ConsumeShareLink(contactID, tokenHash string) (*model.ShareLink, error) {
	var link model.ShareLink
	tx := s.db.Raw(`
		UPDATE share_links
		SET uses_count = uses_count + 1, used_at = NOW()
		WHERE contact_id = ?
		  AND token_hash = ?
		  AND (expires_at IS NULL OR expires_at > NOW())
		  AND (max_uses IS NULL OR uses_count < max_uses)
		RETURNING *
	`, contactID, tokenHash).Scan(&link)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, store.ErrShareLinkGone
	}
	return &link, nil
}

// ListShareLinks returns all share links for a contact, newest first
func (s *ShareLinkStore) ListShareLinks(contactID string) ([]model.ShareLink, error) {
	var links []model.ShareLink
	tx := s.db.Where("contact_id = ?", contactID).Order("created_at desc").Find(&links)
	return links, tx.Error
}

// RevokeShareLink deletes a share link by ID
func (s *ShareLinkStore) RevokeShareLink(contactID string, id int64) (int64, error) {
	tx := s.db.Where("contact_id = ?", contactID).Delete(&model.ShareLink{}, id)
	return tx.RowsAffected, tx.Error
}

// ReapExpired deletes share links that expired before the cutoff
func (s *ShareLinkStore) ReapExpired(cutoff time.Time) (int64, error) {
	tx := s.db.Where("expires_at IS NOT NULL AND expires_at < ?", cutoff).Delete(&model.ShareLink{})
	return tx.RowsAffected, tx.Error
}
