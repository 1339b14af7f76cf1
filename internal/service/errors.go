package service

import "errors"

// Fatal pass errors. Each aborts the pass before any remote mutation and
// leaves the archive untouched.
var (
	ErrCatalogRead       = errors.New("read catalog")
	ErrArchiveLoad       = errors.New("load archive")
	ErrDatasetUnresolved = errors.New("resolve dataset")
	ErrRemoteListing     = errors.New("list remote state")
	ErrMetadataSchema    = errors.New("ensure metadata fields")
)

// ErrArchiveSave is returned when the pass applied its plan but the new
// archive could not be written. The summary returned alongside it is valid.
var ErrArchiveSave = errors.New("save archive")

// Per-item skip reasons.
var (
	errNotDownloadable = errors.New("attachment has no local file")
	errFileMissing     = errors.New("local file not found")
	errNoRemoteDoc     = errors.New("no remote document for item key")
)
