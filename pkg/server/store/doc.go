// Package store provides storage abstractions for the staffdir server.
//
// This package defines interfaces for database operations, allowing the
// server endpoints and sync engine to be decoupled from the specific
// database implementation. This enables easier testing with mocks and
// potential support for different storage backends.
//
// # Available Stores
//
//   - ShareLinkStore: Share link lifecycle (create, consume, revoke, reap)
//   - SettingsStore: Integration settings with encrypted credential fields
//   - SyncRunStore: Sync ledger operations
//   - ContactStore: Contact lookup and sync status tracking
//   - DeviceStore: Device records mirrored from the MDM provider
//   - ScanEventStore: Scan event persistence
//   - HealthStore: Database connectivity checks
//
// # Usage
//
//	links := gorm.NewShareLinkStore(db)
//	link, err := links.ConsumeShareLink(contactID, tokenHash)
//	if err != nil {
//	    if errors.Is(err, store.ErrShareLinkGone) {
//	        // Uniform rejection, regardless of cause
//	    }
//	}
package store
