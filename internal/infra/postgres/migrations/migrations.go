package migrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the Postgres schema, one registration per file named
// <version>_<name>.go.
var Migrations = migrate.NewMigrations()
