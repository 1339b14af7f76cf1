package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/MKhiriev/zotero-kb-sync/internal/logger"
	"github.com/MKhiriev/zotero-kb-sync/internal/store"
	"github.com/MKhiriev/zotero-kb-sync/internal/utils"
	"github.com/MKhiriev/zotero-kb-sync/models"
)

// SyncOptions selects what one pass synchronises.
type SyncOptions struct {
	// TagPattern is the LIKE prefix selecting tagged parent items.
	TagPattern string

	// DatasetName is the remote dataset documents are synced into.
	DatasetName string

	// DryRun stops after planning; nothing remote or archived is changed.
	DryRun bool
}

type idGenerator interface {
	Generate() string
}

type syncPass struct {
	storages   *store.Storages
	snapshots  RemoteSnapshotService
	reconciler Reconciler
	executor   Executor
	ids        idGenerator
	opts       SyncOptions

	logger *logger.Logger
}

// NewSyncPass wires one synchronisation pass over the given components.
func NewSyncPass(
	storages *store.Storages,
	snapshots RemoteSnapshotService,
	reconciler Reconciler,
	executor Executor,
	opts SyncOptions,
	log *logger.Logger,
) SyncPass {
	return &syncPass{
		storages:   storages,
		snapshots:  snapshots,
		reconciler: reconciler,
		executor:   executor,
		ids:        utils.NewUUIDGenerator(),
		opts:       opts,
		logger:     log,
	}
}

// Run implements SyncPass.
//
// Steps: read catalog, load archive, refresh the remote snapshot, diff,
// ensure metadata fields, apply, save the next archive. An empty plan skips
// the remote steps but still saves. Any error before the
// apply step returns without touching the remote side or the archive.
func (p *syncPass) Run(ctx context.Context) (models.SyncSummary, error) {
	passID := p.ids.Generate()
	passLog := p.logger.GetChildLogger()
	passLog.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("pass_id", passID).Str("dataset", p.opts.DatasetName)
	})
	ctx = passLog.WithContext(utils.WithPassID(ctx, passID))

	summary := models.SyncSummary{PassID: passID, DryRun: p.opts.DryRun}

	current, err := p.storages.Catalog.ReadCurrent(ctx, p.opts.TagPattern)
	if err != nil {
		passLog.Err(err).Str("func", "syncPass.Run").Msg("error reading catalog")
		return summary, fmt.Errorf("%w: %w", ErrCatalogRead, err)
	}

	archived, err := p.storages.Archive.Load(ctx)
	if err != nil {
		passLog.Err(err).Str("func", "syncPass.Run").Msg("error loading archive")
		return summary, fmt.Errorf("%w: %w", ErrArchiveLoad, err)
	}

	snap, err := p.snapshots.Refresh(ctx, p.opts.DatasetName)
	if err != nil {
		passLog.Err(err).Str("func", "syncPass.Run").Msg("error refreshing remote snapshot")
		return summary, err
	}

	plan := p.reconciler.Diff(current, archived)
	passLog.Info().
		Int("current", len(current)).
		Int("archived", len(archived)).
		Int("to_upload", len(plan.Upload)).
		Int("to_update", len(plan.Update)).
		Int("to_delete", len(plan.Delete)).
		Msg("sync plan computed")

	if p.opts.DryRun {
		addPlanned(&summary, plan)
		passLog.Info().Msg("dry run, nothing applied")
		return summary, nil
	}

	if plan.IsEmpty() {
		// the archive is still rewritten so title and path changes are recorded
		passLog.Info().Msg("nothing to synchronise")
	} else {
		if err = p.snapshots.EnsureMetadataFields(ctx, snap, models.DefaultMetadataFields()); err != nil {
			passLog.Err(err).Str("func", "syncPass.Run").Msg("error ensuring metadata fields")
			return summary, err
		}

		applied := p.executor.Apply(ctx, snap, plan)
		summary.Results = applied.Results
	}

	// what succeeded must be recorded even when the pass was cancelled midway
	next := p.reconciler.NextArchive(current, archived, summary)
	if err = p.storages.Archive.Save(context.WithoutCancel(ctx), next); err != nil {
		passLog.Err(err).Str("func", "syncPass.Run").Msg("error saving archive")
		return summary, fmt.Errorf("%w: %w", ErrArchiveSave, err)
	}

	counts := summary.Counts()
	passLog.Info().
		Int("uploaded", counts.Uploaded).
		Int("updated", counts.Updated).
		Int("deleted", counts.Deleted).
		Int("skipped", counts.Skipped).
		Int("failed", counts.Failed).
		Int("archived", len(next)).
		Msg("sync pass finished")

	return summary, nil
}

func addPlanned(summary *models.SyncSummary, plan models.SyncPlan) {
	for _, group := range []struct {
		action models.SyncAction
		items  []models.Attachment
	}{
		{models.ActionUpload, plan.Upload},
		{models.ActionUpdate, plan.Update},
		{models.ActionDelete, plan.Delete},
	} {
		for _, a := range group.items {
			summary.Add(models.ItemResult{Key: a.ItemKey, Action: group.action, Status: models.StatusPlanned})
		}
	}
}
