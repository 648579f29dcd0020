package store

import (
	"errors"
	"time"

	"github.com/staffdir/staffdir/pkg/model"
)

// ErrShareLinkGone is returned when a share token is unknown, expired, or
// exhausted. Callers must not distinguish between those cases.
var ErrShareLinkGone = errors.New("share link has expired or been used")

// ShareLinkStore abstracts share link storage operations
type ShareLinkStore interface {
	// CreateShareLink persists a new share link. The PlainToken field on the
	// model is not stored.
	CreateShareLink(link *model.ShareLink) error

	// ConsumeShareLink atomically redeems a share link for a contact by token
	// hash. A link is redeemable only while it is neither expired nor
	// exhausted; redeeming increments its use count. Returns ErrShareLinkGone
	// for every non-redeemable case.
	ConsumeShareLink(contactID, tokenHash string) (*model.ShareLink, error)

	// ListShareLinks returns all share links for a contact, newest first.
	ListShareLinks(contactID string) ([]model.ShareLink, error)

	// RevokeShareLink deletes a share link by ID. Returns the number of rows
	// removed.
	RevokeShareLink(contactID string, id int64) (int64, error)

	// ReapExpired deletes share links that expired before the cutoff.
	// Returns the number of rows removed.
	ReapExpired(cutoff time.Time) (int64, error)
}
