// Package model defines the database models for staffdir.
//
// This package contains GORM models that map to the staffdir PostgreSQL
// schema.
//
// # Core Models
//
//   - ShareLink: hashed bearer tokens granting bounded access to a contact
//   - IntegrationSetting: per-system directory configuration with
//     encrypted-at-rest secret fields
//   - SyncRun: one execution of a directory synchronization with per-item
//     accounting
//   - Contact: directory record pushed to the CardDAV store
//   - Device: asset record pulled from the MDM directory
//   - ScanEvent: background-enriched record of shared-contact fetches
//
// # Database Schema
//
// The database uses PostgreSQL with the following key tables:
//
//   - share_links: token hashes with expiry and use quotas
//   - integration_settings: config plus encrypted_fields jsonb maps
//   - sync_runs: run status, counters, and bounded failure details
//   - contacts, devices: synchronized directory records
//   - scan_events: share-link fetch telemetry
package model
