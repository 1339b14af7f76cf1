package service

import (
	"github.com/MKhiriev/zotero-kb-sync/internal/adapter"
	"github.com/MKhiriev/zotero-kb-sync/internal/config"
	"github.com/MKhiriev/zotero-kb-sync/internal/logger"
	"github.com/MKhiriev/zotero-kb-sync/internal/store"
)

type Services struct {
	Reconciler Reconciler
	Snapshots  RemoteSnapshotService
	Executor   Executor
	SyncPass   SyncPass
}

func NewServices(storages *store.Storages, kb adapter.KnowledgeStore, cfg *config.StructuredConfig, logger *logger.Logger) *Services {
	reconciler := NewReconciler()
	snapshots := NewRemoteSnapshotService(kb)
	executor := NewExecutor(kb, cfg.Catalog.DataDir)

	opts := SyncOptions{
		TagPattern:  cfg.Catalog.TagPattern,
		DatasetName: cfg.KnowledgeBase.DatasetName,
		DryRun:      cfg.Sync.DryRun,
	}

	return &Services{
		Reconciler: reconciler,
		Snapshots:  snapshots,
		Executor:   executor,
		SyncPass:   NewSyncPass(storages, snapshots, reconciler, executor, opts, logger),
	}
}
