// Package db holds the schema migrations for the employee document store.
package db

import "embed"

// Migrations contains the golang-migrate SQL files, rooted at "migrations".
//
//go:embed migrations/*.sql
var Migrations embed.FS
