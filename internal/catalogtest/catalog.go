// Package catalogtest builds throwaway catalog data directories for tests: an
// sqlite catalog with the tables the sync reads, plus the storage/ tree that
// holds attachment files.
package catalogtest

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/zotero-kb-sync/migrations"
)

// DBFile is the catalog file name created inside the data directory.
const DBFile = "zotero.sqlite"

// Item types used by fixtures.
const (
	ItemTypeAnnotation     = 1
	ItemTypeAttachment     = 2
	ItemTypeBook           = 7
	ItemTypeJournalArticle = 22
)

const fieldIDTitle = 1

// Catalog is a writable catalog fixture.
type Catalog struct {
	DataDir string
	DB      *sql.DB

	t testing.TB
}

// Attachment describes an attachment row. A nil Path stores SQL NULL, which
// is how linked URLs appear in the catalog.
type Attachment struct {
	Key         string
	ContentType string
	Path        *string
	Title       string
}

// New creates an empty catalog in a fresh temp data directory.
func New(t testing.TB) *Catalog {
	t.Helper()

	dir := t.TempDir()
	db, err := sql.Open("sqlite3", filepath.Join(dir, DBFile))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.MigrateCatalog(db))

	return &Catalog{DataDir: dir, DB: db, t: t}
}

// Path returns the catalog database path.
func (c *Catalog) Path() string {
	return filepath.Join(c.DataDir, DBFile)
}

// StoragePath returns a catalog "storage:" path for name.
func StoragePath(name string) *string {
	p := "storage:" + name
	return &p
}

// AddParent inserts a regular item with the given title and tags and returns
// its item id.
func (c *Catalog) AddParent(key string, itemTypeID int64, title string, tags ...string) int64 {
	c.t.Helper()

	id := c.insertItem(key, itemTypeID)
	if title != "" {
		c.SetTitle(id, title)
	}
	c.SetTags(id, tags...)
	return id
}

// AddAttachment inserts an attachment item under parentID.
func (c *Catalog) AddAttachment(parentID int64, a Attachment) int64 {
	c.t.Helper()

	id := c.insertItem(a.Key, ItemTypeAttachment)
	var path any
	if a.Path != nil {
		path = *a.Path
	}
	_, err := c.DB.Exec(
		`INSERT INTO itemAttachments (itemID, parentItemID, linkMode, contentType, path) VALUES (?, ?, 0, ?, ?)`,
		id, parentID, a.ContentType, path,
	)
	require.NoError(c.t, err)

	if a.Title != "" {
		c.SetTitle(id, a.Title)
	}
	return id
}

// SetTags replaces the tags of itemID.
func (c *Catalog) SetTags(itemID int64, tags ...string) {
	c.t.Helper()

	_, err := c.DB.Exec(`DELETE FROM itemTags WHERE itemID = ?`, itemID)
	require.NoError(c.t, err)

	for _, tag := range tags {
		_, err = c.DB.Exec(`INSERT OR IGNORE INTO tags (name) VALUES (?)`, tag)
		require.NoError(c.t, err)
		_, err = c.DB.Exec(`INSERT INTO itemTags (itemID, tagID) SELECT ?, tagID FROM tags WHERE name = ?`, itemID, tag)
		require.NoError(c.t, err)
	}
}

// RemoveItem deletes itemID together with its tags, data and attachment row.
func (c *Catalog) RemoveItem(itemID int64) {
	c.t.Helper()

	for _, stmt := range []string{
		`DELETE FROM itemTags WHERE itemID = ?`,
		`DELETE FROM itemData WHERE itemID = ?`,
		`DELETE FROM itemAttachments WHERE itemID = ?`,
		`DELETE FROM items WHERE itemID = ?`,
	} {
		_, err := c.DB.Exec(stmt, itemID)
		require.NoError(c.t, err)
	}
}

// WriteFile creates storage/<itemKey>/<name> in the data directory and returns
// its absolute path.
func (c *Catalog) WriteFile(itemKey, name, content string) string {
	c.t.Helper()

	dir := filepath.Join(c.DataDir, "storage", itemKey)
	require.NoError(c.t, os.MkdirAll(dir, 0o755))

	p := filepath.Join(dir, name)
	require.NoError(c.t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func (c *Catalog) insertItem(key string, itemTypeID int64) int64 {
	res, err := c.DB.Exec(`INSERT INTO items (itemTypeID, key) VALUES (?, ?)`, itemTypeID, key)
	require.NoError(c.t, err)

	id, err := res.LastInsertId()
	require.NoError(c.t, err)
	return id
}

// SetTitle sets or replaces the title of an item.
func (c *Catalog) SetTitle(itemID int64, title string) {
	_, err := c.DB.Exec(`INSERT OR IGNORE INTO itemDataValues (value) VALUES (?)`, title)
	require.NoError(c.t, err)

	_, err = c.DB.Exec(
		`INSERT OR REPLACE INTO itemData (itemID, fieldID, valueID) SELECT ?, ?, valueID FROM itemDataValues WHERE value = ?`,
		itemID, fieldIDTitle, title,
	)
	require.NoError(c.t, err)
}
