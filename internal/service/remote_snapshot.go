package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/MKhiriev/zotero-kb-sync/internal/adapter"
	"github.com/MKhiriev/zotero-kb-sync/internal/logger"
	"github.com/MKhiriev/zotero-kb-sync/models"
)

type remoteSnapshotService struct {
	kb adapter.KnowledgeStore
}

// NewRemoteSnapshotService returns a RemoteSnapshotService reading from kb.
func NewRemoteSnapshotService(kb adapter.KnowledgeStore) RemoteSnapshotService {
	return &remoteSnapshotService{kb: kb}
}

// Refresh implements RemoteSnapshotService.
func (s *remoteSnapshotService) Refresh(ctx context.Context, datasetName string) (*models.RemoteSnapshot, error) {
	datasetID, err := s.kb.ResolveDatasetID(ctx, datasetName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatasetUnresolved, err)
	}

	fields, err := s.kb.ListMetadataFields(ctx, datasetID)
	if err != nil {
		return nil, fmt.Errorf("%w: list metadata fields: %w", ErrRemoteListing, err)
	}

	docs, err := s.kb.ListDocuments(ctx, datasetID)
	if err != nil {
		return nil, fmt.Errorf("%w: list documents: %w", ErrRemoteListing, err)
	}

	snap := models.NewRemoteSnapshot(datasetID, fields, docs)
	logger.FromContext(ctx).Debug().
		Str("dataset_id", datasetID).
		Int("fields", len(snap.Fields)).
		Int("documents", len(snap.Documents)).
		Int("untracked_documents", len(docs)-len(snap.Documents)).
		Msg("remote snapshot refreshed")

	return snap, nil
}

// EnsureMetadataFields implements RemoteSnapshotService. Fields are created
// in name order; the first failure stops the step.
func (s *remoteSnapshotService) EnsureMetadataFields(ctx context.Context, snap *models.RemoteSnapshot, required map[string]string) error {
	log := logger.FromContext(ctx)

	names := make([]string, 0, len(required))
	for name := range required {
		if _, ok := snap.Fields[name]; !ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	for _, name := range names {
		field, err := s.kb.CreateMetadataField(ctx, snap.DatasetID, name, required[name])
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrMetadataSchema, name, err)
		}
		if field.Name == "" {
			field.Name = name
		}
		snap.Fields[field.Name] = field
		log.Info().Str("field", field.Name).Str("field_id", field.ID).Msg("metadata field created")
	}

	return nil
}
