// Package journaldb holds all the migrations for the operation journal database
package journaldb

import (
	"github.com/uptrace/bun/migrate"
)

// Migrations is the collection of all migrations for the journal database
var Migrations = migrate.NewMigrations()
