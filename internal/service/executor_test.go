package service

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/zotero-kb-sync/internal/adapter"
	"github.com/MKhiriev/zotero-kb-sync/internal/mock"
	"github.com/MKhiriev/zotero-kb-sync/internal/utils"
	"github.com/MKhiriev/zotero-kb-sync/models"
)

// testSnapshot declares every default metadata field.
func testSnapshot(docs map[string]string) *models.RemoteSnapshot {
	var fields []models.MetadataField
	for name, typ := range models.DefaultMetadataFields() {
		fields = append(fields, models.MetadataField{ID: "f-" + name, Name: name, Type: typ})
	}
	snap := models.NewRemoteSnapshot("ds-1", fields, nil)
	for key, id := range docs {
		snap.Documents[key] = id
	}
	return snap
}

// writeAttachmentFile creates the storage file of a so it is uploadable.
func writeAttachmentFile(t *testing.T, dataDir string, a models.Attachment) string {
	t.Helper()

	p := a.AbsPath(dataDir)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte("%PDF-1.7"), 0o644))
	return p
}

func newTestExecutor(t *testing.T) (*executor, *mock.MockKnowledgeStore, string) {
	t.Helper()

	ctrl := gomock.NewController(t)
	kb := mock.NewMockKnowledgeStore(ctrl)
	dataDir := t.TempDir()
	return NewExecutor(kb, dataDir).(*executor), kb, dataDir
}

func metadataFor(snap *models.RemoteSnapshot, docID string, a models.Attachment) []models.DocumentMetadata {
	return []models.DocumentMetadata{{DocumentID: docID, MetadataList: snap.MetadataList(a.MetadataValues())}}
}

func TestExecutor_Upload(t *testing.T) {
	ex, kb, dataDir := newTestExecutor(t)
	ctx := context.Background()
	snap := testSnapshot(nil)

	a := attachment(t, "KEY1", "#ml/nlp", "#ml/cv")
	path := writeAttachmentFile(t, dataDir, a)

	gomock.InOrder(
		kb.EXPECT().UploadDocumentByFile(ctx, "ds-1", path).Return(models.RemoteDocument{ID: "doc-1", Name: "KEY1.pdf"}, nil),
		kb.EXPECT().UpdateDocumentMetadata(ctx, "ds-1", metadataFor(snap, "doc-1", a)).Return(nil),
	)

	summary := ex.Apply(ctx, snap, models.SyncPlan{Upload: []models.Attachment{a}})

	require.Len(t, summary.Results, 1)
	res := summary.Results[0]
	assert.Equal(t, models.StatusSucceeded, res.Status)
	assert.Equal(t, models.ActionUpload, res.Action)
	assert.Equal(t, "doc-1", res.DocumentID)
	assert.Equal(t, "doc-1", snap.Documents["KEY1"])

	// all seven fields are sent
	list := metadataFor(snap, "doc-1", a)[0].MetadataList
	assert.Len(t, list, len(models.DefaultMetadataFields()))
}

func TestExecutor_UploadSkipsWithoutLocalFile(t *testing.T) {
	ex, _, _ := newTestExecutor(t)
	snap := testSnapshot(nil)

	missing := attachment(t, "MISSING", "t1")

	urlOnly := attachment(t, "URLONLY", "t1")
	urlOnly.RelPath = nil

	linked := attachment(t, "LINKED", "t1")
	base := "attachments:papers/x.pdf"
	linked.RelPath = &base

	// no remote call is expected for any of them
	summary := ex.Apply(context.Background(), snap, models.SyncPlan{Upload: []models.Attachment{missing, urlOnly, linked}})

	require.Len(t, summary.Results, 3)
	for _, res := range summary.Results {
		assert.Equal(t, models.StatusSkipped, res.Status, res.Key)
		assert.NotEmpty(t, res.Reason, res.Key)
	}
	assert.Contains(t, summary.Results[0].Reason, "local file not found")
	assert.Empty(t, snap.Documents)
}

func TestExecutor_UploadFailure(t *testing.T) {
	ex, kb, dataDir := newTestExecutor(t)
	ctx := context.Background()
	snap := testSnapshot(nil)

	a := attachment(t, "KEY1", "t1")
	b := attachment(t, "KEY2", "t1")
	pathA := writeAttachmentFile(t, dataDir, a)
	pathB := writeAttachmentFile(t, dataDir, b)

	kb.EXPECT().UploadDocumentByFile(ctx, "ds-1", pathA).
		Return(models.RemoteDocument{}, &adapter.APIError{Op: "upload document", StatusCode: http.StatusInternalServerError})
	kb.EXPECT().UploadDocumentByFile(ctx, "ds-1", pathB).Return(models.RemoteDocument{ID: "doc-2"}, nil)
	kb.EXPECT().UpdateDocumentMetadata(ctx, "ds-1", gomock.Any()).Return(nil)

	summary := ex.Apply(ctx, snap, models.SyncPlan{Upload: []models.Attachment{a, b}})

	require.Len(t, summary.Results, 2)
	assert.Equal(t, models.StatusFailed, summary.Results[0].Status)
	assert.ErrorIs(t, summary.Results[0].Err, adapter.ErrServer)
	assert.Equal(t, models.StatusSucceeded, summary.Results[1].Status)
	assert.Equal(t, map[string]string{"KEY2": "doc-2"}, snap.Documents)
}

func TestExecutor_UploadMetadataFailureRemovesOrphan(t *testing.T) {
	ex, kb, dataDir := newTestExecutor(t)
	ctx := context.Background()
	snap := testSnapshot(nil)

	a := attachment(t, "KEY1", "t1")
	path := writeAttachmentFile(t, dataDir, a)
	boom := errors.New("metadata rejected")

	gomock.InOrder(
		kb.EXPECT().UploadDocumentByFile(ctx, "ds-1", path).Return(models.RemoteDocument{ID: "doc-1"}, nil),
		kb.EXPECT().UpdateDocumentMetadata(ctx, "ds-1", gomock.Any()).Return(boom),
		kb.EXPECT().DeleteDocument(ctx, "ds-1", "doc-1").Return(nil),
	)

	summary := ex.Apply(ctx, snap, models.SyncPlan{Upload: []models.Attachment{a}})

	require.Len(t, summary.Results, 1)
	assert.Equal(t, models.StatusFailed, summary.Results[0].Status)
	assert.ErrorIs(t, summary.Results[0].Err, boom)
	assert.Empty(t, snap.Documents)
}

func TestExecutor_UploadAdoptsExistingDocument(t *testing.T) {
	ex, kb, _ := newTestExecutor(t)
	ctx := context.Background()
	snap := testSnapshot(map[string]string{"KEY1": "doc-old"})

	// no local file needed: nothing is uploaded
	a := attachment(t, "KEY1", "t1")
	kb.EXPECT().UpdateDocumentMetadata(ctx, "ds-1", metadataFor(snap, "doc-old", a)).Return(nil)

	summary := ex.Apply(ctx, snap, models.SyncPlan{Upload: []models.Attachment{a}})

	require.Len(t, summary.Results, 1)
	assert.Equal(t, models.StatusSucceeded, summary.Results[0].Status)
	assert.Equal(t, "doc-old", summary.Results[0].DocumentID)
	assert.NotEmpty(t, summary.Results[0].Reason)
}

func TestExecutor_Update(t *testing.T) {
	ex, kb, _ := newTestExecutor(t)
	ctx := context.Background()
	snap := testSnapshot(map[string]string{"KEY1": "doc-1", "KEY2": "doc-2"})

	a := attachment(t, "KEY1", "#new/tag")
	b := attachment(t, "KEY2", "t1")
	c := attachment(t, "KEY3", "t1")

	kb.EXPECT().UpdateDocumentMetadata(ctx, "ds-1", metadataFor(snap, "doc-1", a)).Return(nil)
	kb.EXPECT().UpdateDocumentMetadata(ctx, "ds-1", metadataFor(snap, "doc-2", b)).
		Return(&adapter.APIError{Op: "update metadata", StatusCode: http.StatusBadRequest})

	summary := ex.Apply(ctx, snap, models.SyncPlan{Update: []models.Attachment{a, b, c}})

	require.Len(t, summary.Results, 3)
	assert.Equal(t, models.StatusSucceeded, summary.Results[0].Status)
	assert.Equal(t, models.StatusFailed, summary.Results[1].Status)
	assert.ErrorIs(t, summary.Results[1].Err, adapter.ErrBadRequest)
	assert.Equal(t, models.StatusSkipped, summary.Results[2].Status)
	assert.Equal(t, errNoRemoteDoc.Error(), summary.Results[2].Reason)

	tags := ""
	for _, m := range metadataFor(snap, "doc-1", a)[0].MetadataList {
		if m.Name == models.FieldParentItemTags {
			tags = m.Value
		}
	}
	assert.Equal(t, "#new/tag", tags)
}

func TestExecutor_Delete(t *testing.T) {
	ex, kb, _ := newTestExecutor(t)
	ctx := context.Background()
	snap := testSnapshot(map[string]string{"GONE": "doc-1", "VANISHED": "doc-2", "STUCK": "doc-3"})

	kb.EXPECT().DeleteDocument(ctx, "ds-1", "doc-1").Return(nil)
	kb.EXPECT().DeleteDocument(ctx, "ds-1", "doc-2").
		Return(&adapter.APIError{Op: "delete document", StatusCode: http.StatusNotFound})
	kb.EXPECT().DeleteDocument(ctx, "ds-1", "doc-3").
		Return(&adapter.APIError{Op: "delete document", StatusCode: http.StatusBadGateway})

	plan := models.SyncPlan{Delete: []models.Attachment{
		attachment(t, "GONE"), attachment(t, "VANISHED"), attachment(t, "STUCK"), attachment(t, "UNKNOWN"),
	}}
	summary := ex.Apply(ctx, snap, plan)

	assert.Equal(t, []string{"GONE", "VANISHED"}, summary.Deleted())
	assert.Equal(t, []string{"STUCK"}, summary.Failed())
	assert.Equal(t, []string{"UNKNOWN"}, summary.Skipped())
	assert.Equal(t, map[string]string{"STUCK": "doc-3"}, snap.Documents)
}

func TestExecutor_ActionOrder(t *testing.T) {
	ex, kb, dataDir := newTestExecutor(t)
	ctx := context.Background()
	snap := testSnapshot(map[string]string{"UPD": "doc-u", "DEL": "doc-d"})

	up := attachment(t, "UP", "t1")
	path := writeAttachmentFile(t, dataDir, up)

	gomock.InOrder(
		kb.EXPECT().UploadDocumentByFile(ctx, "ds-1", path).Return(models.RemoteDocument{ID: "doc-new"}, nil),
		kb.EXPECT().UpdateDocumentMetadata(ctx, "ds-1", gomock.Any()).Return(nil),
		kb.EXPECT().UpdateDocumentMetadata(ctx, "ds-1", gomock.Any()).Return(nil),
		kb.EXPECT().DeleteDocument(ctx, "ds-1", "doc-d").Return(nil),
	)

	summary := ex.Apply(ctx, snap, models.SyncPlan{
		Upload: []models.Attachment{up},
		Update: []models.Attachment{attachment(t, "UPD", "t2")},
		Delete: []models.Attachment{attachment(t, "DEL")},
	})

	assert.Equal(t, models.SyncCounts{Uploaded: 1, Updated: 1, Deleted: 1}, summary.Counts())
}

func TestExecutor_CanceledContext(t *testing.T) {
	ex, _, _ := newTestExecutor(t)
	snap := testSnapshot(map[string]string{"UPD": "doc-u"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary := ex.Apply(ctx, snap, models.SyncPlan{
		Upload: []models.Attachment{attachment(t, "UP")},
		Update: []models.Attachment{attachment(t, "UPD")},
	})

	require.Len(t, summary.Results, 2)
	for _, res := range summary.Results {
		assert.Equal(t, models.StatusFailed, res.Status)
		assert.ErrorIs(t, res.Err, context.Canceled)
	}
}

func TestExecutor_SummaryCarriesPassID(t *testing.T) {
	ex, kb, _ := newTestExecutor(t)
	ctx := utils.WithPassID(context.Background(), "pass-42")
	snap := testSnapshot(map[string]string{"DEL": "doc-d"})

	kb.EXPECT().DeleteDocument(ctx, "ds-1", "doc-d").Return(nil)

	summary := ex.Apply(ctx, snap, models.SyncPlan{Delete: []models.Attachment{attachment(t, "DEL")}})

	assert.Equal(t, "pass-42", summary.PassID)
	assert.Equal(t, []string{"DEL"}, summary.Deleted())

	summary = ex.Apply(context.Background(), snap, models.SyncPlan{})
	assert.Empty(t, summary.PassID)
}
