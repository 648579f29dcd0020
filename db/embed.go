// Package db embeds the SQL migrations shipped with the server binary.
//
// Builds tagged with embed_migrations run migrations from this embedded
// filesystem; development builds read db/migrations from disk instead.
package db

import "embed"

//go:embed migrations
var Migrations embed.FS
