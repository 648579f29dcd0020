package gorm

import (
	"time"

	"gorm.io/gorm"

	"github.com/staffdir/staffdir/pkg/model"
	"github.com/staffdir/staffdir/pkg/server/store"
)

// Ensure ContactStore implements store.ContactStore
var _ store.ContactStore = (*ContactStore)(nil)

// ContactStore implements store.ContactStore using GORM
type ContactStore struct {
	db *gorm.DB
}

// NewContactStore creates a new ContactStore
func NewContactStore(db *gorm.DB) *ContactStore {
	return &ContactStore{db: db}
}

// GetContact retrieves a contact by ID
func (s *ContactStore) GetContact(id string) (*model.Contact, error) {
	var contact model.Contact
	tx := s.db.Where("id = ?", id).First(&contact)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, store.ErrContactNotFound
		}
		return nil, tx.Error
	}
	return &contact, nil
}

// ListContacts returns all contacts ordered by last name
func (s *ContactStore) ListContacts() ([]model.Contact, error) {
	var contacts []model.Contact
	tx := s.db.Order("last_name, first_name").Find(&contacts)
	return contacts, tx.Error
}

// MarkContactSynced records a successful sync of a contact
func (s *ContactStore) MarkContactSynced(id string) error {
	return s.db.Model(&model.Contact{}).Where("id = ?", id).Updates(map[string]interface{}{
		"sync_status": model.RecordSyncSynced,
		"synced_at":   time.Now().UTC(),
	}).Error
}

// MarkContactSyncFailed records a failed sync of a contact
func (s *ContactStore) MarkContactSyncFailed(id string) error {
	return s.db.Model(&model.Contact{}).Where("id = ?", id).
		Update("sync_status", model.RecordSyncFailed).Error
}
