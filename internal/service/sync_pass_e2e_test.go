package service

import (
	"context"
	"net/http"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/zotero-kb-sync/internal/adapter"
	"github.com/MKhiriev/zotero-kb-sync/internal/catalogtest"
	"github.com/MKhiriev/zotero-kb-sync/internal/config"
	"github.com/MKhiriev/zotero-kb-sync/internal/kbtest"
	"github.com/MKhiriev/zotero-kb-sync/internal/logger"
	"github.com/MKhiriev/zotero-kb-sync/internal/store"
	"github.com/MKhiriev/zotero-kb-sync/models"
)

type e2eEnv struct {
	catalog   *catalogtest.Catalog
	server    *kbtest.Server
	datasetID string
	cfg       *config.StructuredConfig
	storages  *store.Storages
	services  *Services
}

func newE2EEnv(t *testing.T) *e2eEnv {
	t.Helper()

	fx := catalogtest.New(t)
	srv := kbtest.NewServer(t)
	datasetID := srv.AddDataset("Zotero")
	srv.AddDataset("Other")

	cfg := &config.StructuredConfig{
		Catalog: config.Catalog{DataDir: fx.DataDir, DBFile: catalogtest.DBFile, TagPattern: "#%/%"},
		Archive: config.Archive{Path: filepath.Join(t.TempDir(), "data", "archive.json")},
		KnowledgeBase: config.KnowledgeBase{
			BaseURL:        srv.BaseURL(),
			APIKey:         kbtest.DefaultAPIKey,
			DatasetName:    "Zotero",
			RequestTimeout: 5 * time.Second,
		},
	}

	kb, err := adapter.NewHTTPKnowledgeStore(cfg.KnowledgeBase, logger.Nop())
	require.NoError(t, err)

	storages := store.NewStorages(cfg, logger.Nop())
	return &e2eEnv{
		catalog:   fx,
		server:    srv,
		datasetID: datasetID,
		cfg:       cfg,
		storages:  storages,
		services:  NewServices(storages, kb, cfg, logger.Nop()),
	}
}

func (e *e2eEnv) run(t *testing.T) models.SyncSummary {
	t.Helper()

	summary, err := e.services.SyncPass.Run(context.Background())
	require.NoError(t, err)
	return summary
}

func (e *e2eEnv) archived(t *testing.T) models.SyncState {
	t.Helper()

	state, err := e.storages.Archive.Load(context.Background())
	require.NoError(t, err)
	return state
}

func metadataValue(doc kbtest.Document, name string) string {
	for _, m := range doc.Metadata {
		if m.Name == name {
			return m.Value
		}
	}
	return ""
}

func TestSyncPassE2E_Lifecycle(t *testing.T) {
	env := newE2EEnv(t)
	fx := env.catalog

	paper := fx.AddParent("PAPER001", catalogtest.ItemTypeJournalArticle, "Attention", "#ml/nlp")
	fx.AddAttachment(paper, catalogtest.Attachment{
		Key: "ATT00001", ContentType: "application/pdf", Path: catalogtest.StoragePath("attention.pdf"), Title: "PDF",
	})
	fx.WriteFile("ATT00001", "attention.pdf", "%PDF-1.7 attention")
	fx.AddAttachment(paper, catalogtest.Attachment{
		Key: "ATT00002", ContentType: "application/pdf", Path: catalogtest.StoragePath("missing.pdf"),
	})

	// pass 1: upload, the missing file is skipped
	summary := env.run(t)
	assert.Equal(t, []string{"ATT00001"}, summary.Uploaded())
	assert.Equal(t, []string{"ATT00002"}, summary.Skipped())

	docs := env.server.Documents(env.datasetID)
	require.Len(t, docs, 1)
	assert.Equal(t, "attention.pdf", docs[0].Name)
	assert.Equal(t, "%PDF-1.7 attention", string(docs[0].Content))
	assert.Equal(t, "ATT00001", metadataValue(docs[0], models.FieldItemKey))
	assert.Equal(t, "#ml/nlp", metadataValue(docs[0], models.FieldParentItemTags))
	assert.Equal(t, "PAPER001", metadataValue(docs[0], models.FieldParentItemKey))
	assert.Equal(t, "storage/ATT00001/attention.pdf", metadataValue(docs[0], models.FieldRelPath))
	assert.Len(t, env.server.Fields(env.datasetID), len(models.DefaultMetadataFields()))
	assert.Equal(t, []string{"ATT00001"}, env.archived(t).Keys())

	// pass 2: nothing changed, nothing is sent
	mutations := env.server.TotalMutations()
	summary = env.run(t)
	assert.Empty(t, summary.Uploaded())
	assert.Empty(t, summary.Updated())
	assert.Empty(t, summary.Deleted())
	assert.Equal(t, mutations, env.server.TotalMutations())

	// pass 3: retagging updates metadata in place
	fx.SetTags(paper, "#ml/nlp", "#ml/attention")
	summary = env.run(t)
	assert.Equal(t, []string{"ATT00001"}, summary.Updated())

	doc, ok := env.server.DocumentByItemKey(env.datasetID, "ATT00001")
	require.True(t, ok)
	assert.Equal(t, "#ml/attention, #ml/nlp", metadataValue(doc, models.FieldParentItemTags))
	assert.Len(t, env.server.Documents(env.datasetID), 1)
	assert.Equal(t, []string{"#ml/attention", "#ml/nlp"}, env.archived(t)["ATT00001"].Parent.Tags)

	// pass 4: leaving the selection deletes the document
	fx.SetTags(paper, "reading")
	summary = env.run(t)
	assert.Equal(t, []string{"ATT00001"}, summary.Deleted())
	assert.Empty(t, env.server.Documents(env.datasetID))
	assert.Empty(t, env.archived(t))
}

func TestSyncPassE2E_FailedUploadConverges(t *testing.T) {
	env := newE2EEnv(t)
	fx := env.catalog

	paper := fx.AddParent("PAPER001", catalogtest.ItemTypeJournalArticle, "T", "#a/b")
	fx.AddAttachment(paper, catalogtest.Attachment{Key: "ATT00001", Path: catalogtest.StoragePath("a.pdf")})
	fx.WriteFile("ATT00001", "a.pdf", "a")
	fx.AddAttachment(paper, catalogtest.Attachment{Key: "ATT00002", Path: catalogtest.StoragePath("b.pdf")})
	fx.WriteFile("ATT00002", "b.pdf", "b")

	var failing atomic.Bool
	failing.Store(true)
	env.server.FailWhen(func(op kbtest.Op, target string) int {
		if failing.Load() && op == kbtest.OpUpload && target == "a.pdf" {
			return http.StatusServiceUnavailable
		}
		return 0
	})

	summary := env.run(t)
	assert.Equal(t, []string{"ATT00002"}, summary.Uploaded())
	assert.Equal(t, []string{"ATT00001"}, summary.Failed())
	assert.Equal(t, []string{"ATT00002"}, env.archived(t).Keys())

	failing.Store(false)
	summary = env.run(t)
	assert.Equal(t, []string{"ATT00001"}, summary.Uploaded())
	assert.Empty(t, summary.Failed())
	assert.Equal(t, []string{"ATT00001", "ATT00002"}, env.archived(t).Keys())
	assert.Len(t, env.server.Documents(env.datasetID), 2, "no duplicate documents")
}

func TestSyncPassE2E_FailedDeleteIsRetried(t *testing.T) {
	env := newE2EEnv(t)
	fx := env.catalog

	paper := fx.AddParent("PAPER001", catalogtest.ItemTypeJournalArticle, "T", "#a/b")
	fx.AddAttachment(paper, catalogtest.Attachment{Key: "ATT00001", Path: catalogtest.StoragePath("a.pdf")})
	fx.WriteFile("ATT00001", "a.pdf", "a")

	env.run(t)
	require.Len(t, env.server.Documents(env.datasetID), 1)

	fx.RemoveItem(paper)

	var failing atomic.Bool
	failing.Store(true)
	env.server.FailWhen(func(op kbtest.Op, _ string) int {
		if failing.Load() && op == kbtest.OpDelete {
			return http.StatusInternalServerError
		}
		return 0
	})

	summary := env.run(t)
	assert.Equal(t, []string{"ATT00001"}, summary.Failed())
	assert.Equal(t, []string{"ATT00001"}, env.archived(t).Keys())

	failing.Store(false)
	summary = env.run(t)
	assert.Equal(t, []string{"ATT00001"}, summary.Deleted())
	assert.Empty(t, env.archived(t))
	assert.Empty(t, env.server.Documents(env.datasetID))
}

func TestSyncPassE2E_ExistingFieldsAreReused(t *testing.T) {
	env := newE2EEnv(t)
	fx := env.catalog

	existing := env.server.AddMetadataField(env.datasetID, models.FieldItemKey)

	paper := fx.AddParent("PAPER001", catalogtest.ItemTypeJournalArticle, "T", "#a/b")
	fx.AddAttachment(paper, catalogtest.Attachment{Key: "ATT00001", Path: catalogtest.StoragePath("a.pdf")})
	fx.WriteFile("ATT00001", "a.pdf", "a")

	env.run(t)

	assert.Equal(t, len(models.DefaultMetadataFields())-1, env.server.Calls(kbtest.OpCreateMetadata))

	var itemKeyFields int
	for _, f := range env.server.Fields(env.datasetID) {
		if f.Name == models.FieldItemKey {
			itemKeyFields++
			assert.Equal(t, existing.ID, f.ID)
		}
	}
	assert.Equal(t, 1, itemKeyFields)
}

func TestSyncPassE2E_DryRun(t *testing.T) {
	env := newE2EEnv(t)
	env.cfg.Sync.DryRun = true
	kb, err := adapter.NewHTTPKnowledgeStore(env.cfg.KnowledgeBase, logger.Nop())
	require.NoError(t, err)
	env.services = NewServices(env.storages, kb, env.cfg, logger.Nop())

	fx := env.catalog
	paper := fx.AddParent("PAPER001", catalogtest.ItemTypeJournalArticle, "T", "#a/b")
	fx.AddAttachment(paper, catalogtest.Attachment{Key: "ATT00001", Path: catalogtest.StoragePath("a.pdf")})
	fx.WriteFile("ATT00001", "a.pdf", "a")

	summary := env.run(t)
	assert.True(t, summary.DryRun)
	assert.Equal(t, []string{"ATT00001"}, summary.Planned())
	assert.Zero(t, env.server.TotalMutations())
	assert.Empty(t, env.archived(t))
}

func TestSyncPassE2E_UnknownDataset(t *testing.T) {
	env := newE2EEnv(t)
	env.cfg.KnowledgeBase.DatasetName = "Missing"
	kb, err := adapter.NewHTTPKnowledgeStore(env.cfg.KnowledgeBase, logger.Nop())
	require.NoError(t, err)
	env.services = NewServices(env.storages, kb, env.cfg, logger.Nop())

	_, err = env.services.SyncPass.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDatasetUnresolved)
	assert.ErrorIs(t, err, adapter.ErrDatasetNotFound)
	assert.Zero(t, env.server.TotalMutations())
}

func TestSyncPassE2E_ArchiveRefreshedWithoutRemoteChanges(t *testing.T) {
	env := newE2EEnv(t)
	fx := env.catalog

	paper := fx.AddParent("PAPER001", catalogtest.ItemTypeJournalArticle, "Draft title", "#a/b")
	att := fx.AddAttachment(paper, catalogtest.Attachment{Key: "ATT00001", Path: catalogtest.StoragePath("a.pdf"), Title: "Draft PDF"})
	fx.WriteFile("ATT00001", "a.pdf", "a")

	env.run(t)
	require.Equal(t, "Draft title", env.archived(t)["ATT00001"].Parent.Title)

	// titles are not tracked for the diff, so nothing is sent remotely
	fx.SetTitle(paper, "Final title")
	fx.SetTitle(att, "Final PDF")
	mutations := env.server.TotalMutations()

	summary := env.run(t)
	assert.Empty(t, summary.Results)
	assert.Equal(t, mutations, env.server.TotalMutations())

	archived := env.archived(t)
	assert.Equal(t, "Final title", archived["ATT00001"].Parent.Title)
	assert.Equal(t, "Final PDF", archived["ATT00001"].Title)
}
