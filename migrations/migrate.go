// Package migrations holds the catalog schema used to build local catalog
// databases for tests and fixtures. The live catalog is owned by the
// reference manager and is never migrated.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed catalog/*.sql
var embedMigrations embed.FS

// MigrateCatalog creates the catalog tables the sync reads (items, tags,
// attachments and item data) in an sqlite database.
func MigrateCatalog(db *sql.DB) error {
	if db == nil {
		return errors.New("migration error: db is nil")
	}

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, "catalog"); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
