// Package directory reconciles local records with external directory
// systems. Contacts are pushed to a CardDAV address book as vCards; devices
// are pulled from an MDM provider and mirrored locally. Every run is
// recorded in the sync ledger with per-record outcomes, and a failing record
// never aborts the rest of a batch.
package directory
