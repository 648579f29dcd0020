package store

import (
	"errors"

	"github.com/staffdir/staffdir/pkg/model"
)

// ErrContactNotFound is returned when a contact doesn't exist
var ErrContactNotFound = errors.New("contact not found")

// ContactStore abstracts contact storage operations
type ContactStore interface {
	// GetContact retrieves a contact by ID.
	// Returns ErrContactNotFound if it doesn't exist.
	GetContact(id string) (*model.Contact, error)

	// ListContacts returns all contacts ordered by last name.
	ListContacts() ([]model.Contact, error)

	// MarkContactSynced records a successful sync of a contact.
	MarkContactSynced(id string) error

	// MarkContactSyncFailed records a failed sync of a contact.
	MarkContactSyncFailed(id string) error
}
