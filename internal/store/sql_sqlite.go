package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/zotero-kb-sync/internal/logger"
)

// snapshotFileName is the name of the private catalog copy inside its temp dir.
const snapshotFileName = "catalog.sqlite"

// DB wraps a catalog connection.
type DB struct {
	*sql.DB
	logger *logger.Logger
}

// NewConnectSQLite opens dbFile with case-sensitive LIKE and writes disabled.
func NewConnectSQLite(ctx context.Context, dbFile string, log *logger.Logger) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_cslike=true&_query_only=true", filepath.ToSlash(dbFile))

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database")
		return nil, fmt.Errorf("error opening connection to DB: %w", err)
	}

	// ping database
	err = conn.PingContext(ctx)
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database (ping)")
		conn.Close()
		return nil, err
	}
	log.Debug().Str("func", "NewConnectSQLite").Str("file", dbFile).Msg("connected to database successfully")

	return &DB{DB: conn, logger: log}, nil
}

// snapshotDatabase copies src into a fresh temp directory under tempRoot
// (os.TempDir when empty) and returns the copy's path together with a cleanup
// func that removes the directory, including any journal files sqlite leaves
// next to the copy.
func snapshotDatabase(src, tempRoot string) (string, func(), error) {
	in, err := os.Open(src)
	if err != nil {
		return "", nil, fmt.Errorf("open catalog database: %w", err)
	}
	defer in.Close()

	dir, err := os.MkdirTemp(tempRoot, "zotero-kb-sync-*")
	if err != nil {
		return "", nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	dst := filepath.Join(dir, snapshotFileName)
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600)
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("create snapshot file: %w", err)
	}

	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		cleanup()
		return "", nil, fmt.Errorf("copy catalog database: %w", err)
	}
	if err = out.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("close snapshot file: %w", err)
	}

	return dst, cleanup, nil
}
