package store

import "errors"

// Sentinel errors returned by the catalog reader and the archive store.
// Callers should use [errors.Is] to match against these values.
var (
	// ErrCatalogUnavailable is returned when the catalog database cannot be
	// copied or opened. No partial state is produced in that case.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrArchiveCorrupted is returned when the archive file exists but cannot
	// be decoded.
	ErrArchiveCorrupted = errors.New("archive corrupted")

	// ErrArchiveWrite is returned when the archive cannot be written.
	ErrArchiveWrite = errors.New("archive write failed")
)

// Low-level database operation errors. These are wrapped by the catalog
// reader when a SQL-level operation fails.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT against the
	// catalog fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrScanningRow is returned when scanning column values from a single
	// result row fails.
	ErrScanningRow = errors.New("failed to scan catalog row")

	// ErrScanningRows is returned when iterating a result set fails midway.
	ErrScanningRows = errors.New("failed to scan catalog rows")
)
