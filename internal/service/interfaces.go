package service

import (
	"context"

	"github.com/MKhiriev/zotero-kb-sync/models"
)

// Reconciler computes what a pass must do and what the archive becomes
// afterwards. Both operations are pure.
type Reconciler interface {
	// Diff partitions item keys into upload, update and delete sets.
	Diff(current, archived models.SyncState) models.SyncPlan

	// NextArchive returns the state to persist after applying a plan:
	// successful uploads and updates plus every archived key that was not
	// successfully deleted.
	NextArchive(current, archived models.SyncState, summary models.SyncSummary) models.SyncState
}

// RemoteSnapshotService reads the remote identifiers a pass needs.
type RemoteSnapshotService interface {
	// Refresh resolves the dataset and fetches its metadata schema and
	// document index in one go.
	Refresh(ctx context.Context, datasetName string) (*models.RemoteSnapshot, error)

	// EnsureMetadataFields creates the fields of required (name → type)
	// missing from snap and records the new ids in snap.
	EnsureMetadataFields(ctx context.Context, snap *models.RemoteSnapshot, required map[string]string) error
}

// Executor applies a plan against the remote knowledge base.
type Executor interface {
	// Apply runs every action of plan and reports one result per item. It
	// never aborts on a single item failure.
	Apply(ctx context.Context, snap *models.RemoteSnapshot, plan models.SyncPlan) models.SyncSummary
}

// SyncPass runs one full catalog → knowledge base synchronisation.
type SyncPass interface {
	Run(ctx context.Context) (models.SyncSummary, error)
}
