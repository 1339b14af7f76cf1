package store

import (
	"context"

	"github.com/MKhiriev/zotero-kb-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// CatalogReader produces the current set of tagged attachments from the local
// reference catalog.
type CatalogReader interface {
	// ReadCurrent returns every attachment whose parent item carries a tag
	// matching tagPattern (an SQL LIKE prefix). A catalog that cannot be read
	// is an error; an empty result is not.
	ReadCurrent(ctx context.Context, tagPattern string) (models.SyncState, error)
}

// ArchiveStore persists the state recorded by the last successful sync.
type ArchiveStore interface {
	// Load returns the archived state. A missing archive is initialised empty.
	Load(ctx context.Context) (models.SyncState, error)

	// Save atomically replaces the archive with state.
	Save(ctx context.Context, state models.SyncState) error
}
