package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/MKhiriev/zotero-kb-sync/internal/config"
	"github.com/MKhiriev/zotero-kb-sync/internal/logger"
	"github.com/MKhiriev/zotero-kb-sync/internal/utils"
	"github.com/MKhiriev/zotero-kb-sync/models"
)

// pageLimit is the page size requested from list endpoints.
const pageLimit = 100

const (
	pathDatasets          = "/datasets"
	pathDocuments         = "/datasets/{datasetID}/documents"
	pathDocument          = "/datasets/{datasetID}/documents/{documentID}"
	pathCreateByFile      = "/datasets/{datasetID}/document/create-by-file"
	pathMetadata          = "/datasets/{datasetID}/metadata"
	pathDocumentsMetadata = "/datasets/{datasetID}/documents/metadata"
)

type httpKnowledgeStore struct {
	client   *utils.HTTPClient
	settings models.UploadSettings

	logger *logger.Logger
}

// NewHTTPKnowledgeStore constructs an HTTP/REST implementation of
// [KnowledgeStore]. It normalises and validates kbCfg.BaseURL, authenticates
// with kbCfg.APIKey as a bearer token and bounds every request by
// kbCfg.RequestTimeout. Embedding overrides from kbCfg replace the defaults of
// [models.DefaultUploadSettings].
//
// Returns an error if kbCfg.BaseURL is empty or cannot be parsed as a
// valid URL.
func NewHTTPKnowledgeStore(kbCfg config.KnowledgeBase, logger *logger.Logger) (KnowledgeStore, error) {
	baseURL, err := normalizeBaseURL(kbCfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid knowledge base url: %w", err)
	}

	settings := models.DefaultUploadSettings()
	if kbCfg.EmbeddingModel != "" {
		settings.EmbeddingModel = kbCfg.EmbeddingModel
	}
	if kbCfg.EmbeddingProvider != "" {
		settings.EmbeddingModelProvider = kbCfg.EmbeddingProvider
	}

	return &httpKnowledgeStore{
		client:   utils.NewHTTPClient(baseURL, strings.TrimSpace(kbCfg.APIKey), kbCfg.RequestTimeout),
		settings: settings,
		logger:   logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

type datasetEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type listPage[T any] struct {
	Data    []T  `json:"data"`
	HasMore bool `json:"has_more"`
}

// ListDatasets implements [KnowledgeStore]. It pages through
// GET /datasets until has_more is false.
func (h *httpKnowledgeStore) ListDatasets(ctx context.Context) (map[string]string, error) {
	entries, err := listAll[datasetEntry](ctx, h, "list datasets", pathDatasets, nil)
	if err != nil {
		return nil, err
	}

	datasets := make(map[string]string, len(entries))
	for _, d := range entries {
		if _, dup := datasets[d.Name]; dup {
			h.logger.Warn().Str("dataset", d.Name).Msg("duplicate dataset name, keeping the first one")
			continue
		}
		datasets[d.Name] = d.ID
	}
	return datasets, nil
}

// ResolveDatasetID implements [KnowledgeStore].
func (h *httpKnowledgeStore) ResolveDatasetID(ctx context.Context, name string) (string, error) {
	datasets, err := h.ListDatasets(ctx)
	if err != nil {
		return "", err
	}

	id, ok := datasets[name]
	if !ok || id == "" {
		return "", fmt.Errorf("%w: %q", ErrDatasetNotFound, name)
	}
	return id, nil
}

// ListDocuments implements [KnowledgeStore]. It pages through
// GET /datasets/{id}/documents until has_more is false.
func (h *httpKnowledgeStore) ListDocuments(ctx context.Context, datasetID string) ([]models.RemoteDocument, error) {
	return listAll[models.RemoteDocument](ctx, h, "list documents", pathDocuments,
		map[string]string{"datasetID": datasetID})
}

// ListMetadataFields implements [KnowledgeStore] via
// GET /datasets/{id}/metadata.
func (h *httpKnowledgeStore) ListMetadataFields(ctx context.Context, datasetID string) ([]models.MetadataField, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParam("datasetID", datasetID).
		Get(pathMetadata)
	if err != nil {
		return nil, fmt.Errorf("list metadata request: %w", err)
	}
	if err = mapHTTPError("list metadata", resp); err != nil {
		return nil, err
	}

	var body struct {
		DocMetadata []models.MetadataField `json:"doc_metadata"`
	}
	if err = json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("decode list metadata response: %w", err)
	}
	return body.DocMetadata, nil
}

// CreateMetadataField implements [KnowledgeStore] via
// POST /datasets/{id}/metadata.
func (h *httpKnowledgeStore) CreateMetadataField(ctx context.Context, datasetID, name, fieldType string) (models.MetadataField, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParam("datasetID", datasetID).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"name": name, "type": fieldType}).
		Post(pathMetadata)
	if err != nil {
		return models.MetadataField{}, fmt.Errorf("create metadata request: %w", err)
	}
	if err = mapHTTPError("create metadata", resp); err != nil {
		return models.MetadataField{}, err
	}

	var field models.MetadataField
	if err = json.Unmarshal(resp.Body(), &field); err != nil {
		return models.MetadataField{}, fmt.Errorf("decode create metadata response: %w", err)
	}
	if field.ID == "" {
		return models.MetadataField{}, fmt.Errorf("create metadata %q: %w", name, ErrEmptyResponse)
	}

	h.logger.Debug().Str("field", name).Str("field_id", field.ID).Msg("metadata field created")
	return field, nil
}

// UploadDocumentByFile implements [KnowledgeStore]. It sends a multipart
// POST /datasets/{id}/document/create-by-file with the file under "file" and
// the indexing settings as a JSON string under "data". The document is named
// after the file's base name.
func (h *httpKnowledgeStore) UploadDocumentByFile(ctx context.Context, datasetID, path string) (models.RemoteDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.RemoteDocument{}, fmt.Errorf("open upload file: %w", err)
	}
	defer f.Close()

	fileName := filepath.Base(path)
	settings := h.settings
	settings.Name = fileName

	data, err := json.Marshal(settings)
	if err != nil {
		return models.RemoteDocument{}, fmt.Errorf("encode upload settings: %w", err)
	}

	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParam("datasetID", datasetID).
		SetFileReader("file", fileName, f).
		SetMultipartFormData(map[string]string{"data": string(data)}).
		Post(pathCreateByFile)
	if err != nil {
		return models.RemoteDocument{}, fmt.Errorf("upload document request: %w", err)
	}
	if err = mapHTTPError("upload document", resp); err != nil {
		return models.RemoteDocument{}, err
	}

	var body struct {
		Document models.RemoteDocument `json:"document"`
	}
	if err = json.Unmarshal(resp.Body(), &body); err != nil {
		return models.RemoteDocument{}, fmt.Errorf("decode upload document response: %w", err)
	}
	if body.Document.ID == "" {
		return models.RemoteDocument{}, fmt.Errorf("upload document %q: %w", fileName, ErrEmptyResponse)
	}

	return body.Document, nil
}

// UpdateDocumentMetadata implements [KnowledgeStore] via
// POST /datasets/{id}/documents/metadata. An empty ops slice sends nothing.
func (h *httpKnowledgeStore) UpdateDocumentMetadata(ctx context.Context, datasetID string, ops []models.DocumentMetadata) error {
	if len(ops) == 0 {
		return nil
	}

	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParam("datasetID", datasetID).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{"operation_data": ops}).
		Post(pathDocumentsMetadata)
	if err != nil {
		return fmt.Errorf("update metadata request: %w", err)
	}

	return mapHTTPError("update metadata", resp)
}

// DeleteDocument implements [KnowledgeStore] via
// DELETE /datasets/{id}/documents/{documentID}.
func (h *httpKnowledgeStore) DeleteDocument(ctx context.Context, datasetID, documentID string) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"datasetID": datasetID, "documentID": documentID}).
		Delete(pathDocument)
	if err != nil {
		return fmt.Errorf("delete document request: %w", err)
	}

	return mapHTTPError("delete document", resp)
}

// listAll fetches every page of a paginated list endpoint.
func listAll[T any](ctx context.Context, h *httpKnowledgeStore, op, path string, pathParams map[string]string) ([]T, error) {
	var all []T
	for page := 1; ; page++ {
		resp, err := h.client.R().
			SetContext(ctx).
			SetPathParams(pathParams).
			SetQueryParams(map[string]string{
				"page":  strconv.Itoa(page),
				"limit": strconv.Itoa(pageLimit),
			}).
			Get(path)
		if err != nil {
			return nil, fmt.Errorf("%s request: %w", op, err)
		}
		if err = mapHTTPError(op, resp); err != nil {
			return nil, err
		}

		var p listPage[T]
		if err = json.Unmarshal(resp.Body(), &p); err != nil {
			return nil, fmt.Errorf("decode %s response: %w", op, err)
		}
		all = append(all, p.Data...)

		if !p.HasMore || len(p.Data) == 0 {
			h.logger.Debug().Str("op", op).Int("pages", page).Int("items", len(all)).Msg("list fetched")
			return all, nil
		}
	}
}
