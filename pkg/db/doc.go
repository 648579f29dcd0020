// Package db provides the PostgreSQL connection used by the staffdir
// stores, plus the embedded schema migrations.
package db
