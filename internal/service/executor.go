package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/MKhiriev/zotero-kb-sync/internal/adapter"
	"github.com/MKhiriev/zotero-kb-sync/internal/logger"
	"github.com/MKhiriev/zotero-kb-sync/internal/utils"
	"github.com/MKhiriev/zotero-kb-sync/models"
)

type executor struct {
	kb      adapter.KnowledgeStore
	dataDir string
}

// NewExecutor returns an Executor that resolves attachment files under
// dataDir and sends them to kb.
func NewExecutor(kb adapter.KnowledgeStore, dataDir string) Executor {
	return &executor{kb: kb, dataDir: dataDir}
}

type itemFunc func(ctx context.Context, snap *models.RemoteSnapshot, a models.Attachment) models.ItemResult

// Apply implements Executor. Uploads run first, then updates, then deletes.
// The summary carries the pass id stored in ctx, if any.
// Once ctx is done every remaining item is reported failed with the context
// error.
func (e *executor) Apply(ctx context.Context, snap *models.RemoteSnapshot, plan models.SyncPlan) models.SyncSummary {
	passID, _ := utils.GetPassIDFromContext(ctx)
	summary := models.SyncSummary{PassID: passID}

	steps := []struct {
		action models.SyncAction
		items  []models.Attachment
		fn     itemFunc
	}{
		{models.ActionUpload, plan.Upload, e.upload},
		{models.ActionUpdate, plan.Update, e.update},
		{models.ActionDelete, plan.Delete, e.delete},
	}

	for _, step := range steps {
		for _, a := range step.items {
			var res models.ItemResult
			if err := ctx.Err(); err != nil {
				res = failed(a.ItemKey, step.action, "", err)
			} else {
				res = step.fn(ctx, snap, a)
			}
			logResult(ctx, res)
			summary.Add(res)
		}
	}

	return summary
}

func (e *executor) upload(ctx context.Context, snap *models.RemoteSnapshot, a models.Attachment) models.ItemResult {
	if docID, ok := snap.DocumentID(a.ItemKey); ok {
		// the document outlived its archive entry; take it over instead of
		// uploading a duplicate
		if err := e.pushMetadata(ctx, snap, docID, a); err != nil {
			return failed(a.ItemKey, models.ActionUpload, docID, err)
		}
		res := succeeded(a.ItemKey, models.ActionUpload, docID)
		res.Reason = "adopted existing remote document"
		return res
	}

	if !a.Downloadable() {
		return skipped(a.ItemKey, models.ActionUpload, errNotDownloadable)
	}

	path := a.AbsPath(e.dataDir)
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return skipped(a.ItemKey, models.ActionUpload, fmt.Errorf("%w: %s", errFileMissing, path))
	case err != nil:
		return failed(a.ItemKey, models.ActionUpload, "", fmt.Errorf("stat %s: %w", path, err))
	case info.IsDir():
		return skipped(a.ItemKey, models.ActionUpload, fmt.Errorf("%w: %s is a directory", errFileMissing, path))
	}

	doc, err := e.kb.UploadDocumentByFile(ctx, snap.DatasetID, path)
	if err != nil {
		return failed(a.ItemKey, models.ActionUpload, "", fmt.Errorf("upload document: %w", err))
	}

	if err = e.pushMetadata(ctx, snap, doc.ID, a); err != nil {
		// without metadata the document cannot be matched to its item key
		// again, so a later pass would upload a duplicate
		if delErr := e.kb.DeleteDocument(ctx, snap.DatasetID, doc.ID); delErr != nil {
			logger.FromContext(ctx).Err(delErr).
				Str("item_key", a.ItemKey).
				Str("document_id", doc.ID).
				Msg("error removing document left without metadata")
		}
		return failed(a.ItemKey, models.ActionUpload, doc.ID, err)
	}

	snap.Documents[a.ItemKey] = doc.ID
	return succeeded(a.ItemKey, models.ActionUpload, doc.ID)
}

func (e *executor) update(ctx context.Context, snap *models.RemoteSnapshot, a models.Attachment) models.ItemResult {
	docID, ok := snap.DocumentID(a.ItemKey)
	if !ok {
		return skipped(a.ItemKey, models.ActionUpdate, errNoRemoteDoc)
	}

	if err := e.pushMetadata(ctx, snap, docID, a); err != nil {
		return failed(a.ItemKey, models.ActionUpdate, docID, err)
	}
	return succeeded(a.ItemKey, models.ActionUpdate, docID)
}

func (e *executor) delete(ctx context.Context, snap *models.RemoteSnapshot, a models.Attachment) models.ItemResult {
	docID, ok := snap.DocumentID(a.ItemKey)
	if !ok {
		return skipped(a.ItemKey, models.ActionDelete, errNoRemoteDoc)
	}

	err := e.kb.DeleteDocument(ctx, snap.DatasetID, docID)
	if err != nil && !errors.Is(err, adapter.ErrNotFound) {
		return failed(a.ItemKey, models.ActionDelete, docID, fmt.Errorf("delete document: %w", err))
	}

	delete(snap.Documents, a.ItemKey)
	return succeeded(a.ItemKey, models.ActionDelete, docID)
}

func (e *executor) pushMetadata(ctx context.Context, snap *models.RemoteSnapshot, docID string, a models.Attachment) error {
	ops := []models.DocumentMetadata{{
		DocumentID:   docID,
		MetadataList: snap.MetadataList(a.MetadataValues()),
	}}
	if err := e.kb.UpdateDocumentMetadata(ctx, snap.DatasetID, ops); err != nil {
		return fmt.Errorf("update document metadata: %w", err)
	}
	return nil
}

func succeeded(key string, action models.SyncAction, docID string) models.ItemResult {
	return models.ItemResult{Key: key, Action: action, Status: models.StatusSucceeded, DocumentID: docID}
}

func skipped(key string, action models.SyncAction, reason error) models.ItemResult {
	return models.ItemResult{Key: key, Action: action, Status: models.StatusSkipped, Reason: reason.Error()}
}

func failed(key string, action models.SyncAction, docID string, err error) models.ItemResult {
	return models.ItemResult{Key: key, Action: action, Status: models.StatusFailed, DocumentID: docID, Err: err}
}

func logResult(ctx context.Context, res models.ItemResult) {
	log := logger.FromContext(ctx)

	event := log.Info()
	switch res.Status {
	case models.StatusSkipped:
		event = log.Warn().Str("reason", res.Reason)
	case models.StatusFailed:
		event = log.Error().Err(res.Err)
	case models.StatusSucceeded:
		if res.Reason != "" {
			event = event.Str("reason", res.Reason)
		}
	}

	event.
		Str("item_key", res.Key).
		Str("action", string(res.Action)).
		Str("status", string(res.Status)).
		Str("document_id", res.DocumentID).
		Msg("item processed")
}
