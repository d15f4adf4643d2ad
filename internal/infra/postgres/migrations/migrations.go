package migrations

import "github.com/uptrace/bun/migrate"

// Migrations is the registry the migrate subcommand and integration tests
// run against.
var Migrations = migrate.NewMigrations()
