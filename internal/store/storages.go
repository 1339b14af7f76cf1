package store

import (
	"github.com/MKhiriev/zotero-kb-sync/internal/config"
	"github.com/MKhiriev/zotero-kb-sync/internal/logger"
)

// Storages groups the local state sources of a sync pass.
type Storages struct {
	Catalog CatalogReader
	Archive ArchiveStore
}

// NewStorages wires the sqlite catalog reader and the JSON archive store from cfg.
func NewStorages(cfg *config.StructuredConfig, log *logger.Logger) *Storages {
	return &Storages{
		Catalog: NewSQLiteCatalog(cfg.Catalog, log),
		Archive: NewArchiveFileStore(cfg.Archive.Path, log),
	}
}
