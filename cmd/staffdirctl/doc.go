// Package main implements staffdirctl, the CLI for the staff directory
// sharing and sync server.
//
// The server exposes share-link issuance and redemption, integration
// settings management, and directory sync over a REST API.
//
// # Architecture
//
// The server is organized into several packages:
//
//   - pkg/server: HTTP server and routing
//   - pkg/server/endpoints: REST API endpoint handlers
//   - pkg/directory: CardDAV and MDM sync engine
//   - pkg/vault: Field-level encryption for integration secrets
//   - pkg/scan: Share-link access event recording
//   - pkg/model: Database models
//   - pkg/db: Database connection utilities
//   - pkg/audit: Audit logging
//   - pkg/config: Configuration management
//
// # Quick Start
//
// The server is run via the staffdirctl CLI:
//
//	# Generate an encryption key for integration secrets
//	export STAFFDIR_ENCRYPTION_KEY="$(staffdirctl data-key generate)"
//
//	# Run database migrations
//	staffdirctl db migrate
//
//	# Start the server
//	staffdirctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - STAFFDIR_ENCRYPTION_KEY: Hex-encoded 256-bit key for secret encryption
//   - STAFFDIR_JWT_SECRET: HMAC secret for bearer token verification
//   - STAFFDIR_LOG_LEVEL: Log level (debug, info, warn, error)
//   - PORT: Server port (default: 8000)
package main
