// Package kbtest provides an in-memory knowledge-base server speaking the
// subset of the Dify datasets API used by the synchronizer. It is meant for
// tests: start it with [NewServer], seed datasets and documents, point the
// adapter at [Server.BaseURL] and inspect the resulting state.
package kbtest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/MKhiriev/zotero-kb-sync/internal/utils"
	"github.com/MKhiriev/zotero-kb-sync/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// DefaultAPIKey is the bearer token accepted by a server built with NewServer.
const DefaultAPIKey = "kbtest-key"

// defaultPageLimit mirrors the server-side default when no limit is sent.
const defaultPageLimit = 20

// Op names one API operation, used for call counting and failure injection.
type Op string

const (
	OpListDatasets   Op = "list_datasets"
	OpListDocuments  Op = "list_documents"
	OpListMetadata   Op = "list_metadata"
	OpCreateMetadata Op = "create_metadata"
	OpUpload         Op = "upload"
	OpUpdateMetadata Op = "update_metadata"
	OpDelete         Op = "delete"
)

// FailureFunc decides whether a request fails. target is the uploaded file
// name for OpUpload, the document id for OpDelete and OpUpdateMetadata, the
// field name for OpCreateMetadata and the dataset id otherwise. A non-zero
// return value is used as the response status.
type FailureFunc func(op Op, target string) int

// Document is a stored document.
type Document struct {
	ID       string
	Name     string
	Content  []byte
	Settings models.UploadSettings
	Metadata []models.MetadataValue
}

type dataset struct {
	id     string
	name   string
	fields []models.MetadataField
	docs   []*Document
}

// Server is an httptest.Server backed by an in-memory dataset store.
type Server struct {
	*httptest.Server

	apiKey string

	mu       sync.Mutex
	datasets []*dataset
	failures []FailureFunc
	calls    map[Op]int
}

// NewServer starts a server accepting DefaultAPIKey. It is closed when the
// test finishes.
func NewServer(t interface{ Cleanup(func()) }) *Server {
	s := &Server{
		apiKey: DefaultAPIKey,
		calls:  make(map[Op]int),
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the API root to configure the client with.
func (s *Server) BaseURL() string {
	return s.URL + "/v1"
}

func (s *Server) routes() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	router.Route("/v1", func(r chi.Router) {
		r.Use(s.auth)

		r.Get("/datasets", s.listDatasets)
		r.Route("/datasets/{datasetID}", func(r chi.Router) {
			r.Get("/documents", s.listDocuments)
			r.Delete("/documents/{documentID}", s.deleteDocument)
			r.Post("/documents/metadata", s.updateMetadata)
			r.Post("/document/create-by-file", s.createByFile)
			r.Get("/metadata", s.listMetadata)
			r.Post("/metadata", s.createMetadata)
		})
	})

	return router
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token != s.apiKey {
			utils.WriteError(w, http.StatusUnauthorized, "unauthorized", "Access token is invalid")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ── seeding and inspection ───────────────────────────────────────────────────

// AddDataset creates an empty dataset and returns its id.
func (s *Server) AddDataset(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds := &dataset{id: uuid.NewString(), name: name}
	s.datasets = append(s.datasets, ds)
	return ds.id
}

// AddMetadataField declares a string metadata field on a dataset.
func (s *Server) AddMetadataField(datasetID, name string) models.MetadataField {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds := s.dataset(datasetID)
	f := models.MetadataField{ID: uuid.NewString(), Name: name, Type: models.MetadataFieldTypeString}
	ds.fields = append(ds.fields, f)
	return f
}

// AddDocument stores a document with the given metadata values keyed by
// field name. Fields that do not exist yet are declared.
func (s *Server) AddDocument(datasetID, name string, values map[string]string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds := s.dataset(datasetID)
	doc := &Document{ID: uuid.NewString(), Name: name}

	names := make([]string, 0, len(values))
	for n := range values {
		names = append(names, n)
	}
	slices.Sort(names)

	for _, n := range names {
		f, ok := ds.field(n)
		if !ok {
			f = models.MetadataField{ID: uuid.NewString(), Name: n, Type: models.MetadataFieldTypeString}
			ds.fields = append(ds.fields, f)
		}
		doc.Metadata = append(doc.Metadata, models.MetadataValue{ID: f.ID, Name: n, Value: values[n]})
	}

	ds.docs = append(ds.docs, doc)
	return doc.ID
}

// Documents returns a copy of the documents of a dataset in creation order.
func (s *Server) Documents(datasetID string) []Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds := s.dataset(datasetID)
	out := make([]Document, 0, len(ds.docs))
	for _, d := range ds.docs {
		c := *d
		c.Metadata = slices.Clone(d.Metadata)
		out = append(out, c)
	}
	return out
}

// DocumentByItemKey returns the document whose itemKey metadata equals key.
func (s *Server) DocumentByItemKey(datasetID, key string) (Document, bool) {
	for _, d := range s.Documents(datasetID) {
		if (models.RemoteDocument{Metadata: d.Metadata}).ItemKey() == key {
			return d, true
		}
	}
	return Document{}, false
}

// Fields returns a copy of the metadata schema of a dataset.
func (s *Server) Fields(datasetID string) []models.MetadataField {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.dataset(datasetID).fields)
}

// FailWhen registers a failure rule. Rules are checked in order and the first
// non-zero status wins.
func (s *Server) FailWhen(f FailureFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failures = append(s.failures, f)
}

// FailOp makes every call of op fail with status.
func (s *Server) FailOp(op Op, status int) {
	s.FailWhen(func(got Op, _ string) int {
		if got == op {
			return status
		}
		return 0
	})
}

// Calls returns how many requests of op reached the server.
func (s *Server) Calls(op Op) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls[op]
}

// TotalMutations returns the number of create, update and delete calls.
func (s *Server) TotalMutations() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls[OpUpload] + s.calls[OpUpdateMetadata] + s.calls[OpDelete] + s.calls[OpCreateMetadata]
}

// ── handlers ─────────────────────────────────────────────────────────────────

// begin records the call and reports an injected failure. Callers must hold
// s.mu.
func (s *Server) begin(w http.ResponseWriter, op Op, target string) bool {
	s.calls[op]++
	for _, f := range s.failures {
		if status := f(op, target); status != 0 {
			utils.WriteError(w, status, "injected_failure", string(op)+" failed for "+target)
			return false
		}
	}
	return true
}

// lookup resolves the {datasetID} URL param. Callers must hold s.mu.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*dataset, bool) {
	ds := s.dataset(chi.URLParam(r, "datasetID"))
	if ds == nil {
		utils.WriteError(w, http.StatusNotFound, "dataset_not_found", "Dataset not found.")
		return nil, false
	}
	return ds, true
}

func (s *Server) listDatasets(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.begin(w, OpListDatasets, "") {
		return
	}

	items := make([]map[string]string, 0, len(s.datasets))
	for _, ds := range s.datasets {
		items = append(items, map[string]string{"id": ds.id, "name": ds.name})
	}
	writePage(w, r, items)
}

type docView struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	DocMetadata []models.MetadataValue `json:"doc_metadata"`
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, ok := s.lookup(w, r)
	if !ok || !s.begin(w, OpListDocuments, ds.id) {
		return
	}

	items := make([]docView, 0, len(ds.docs))
	for _, d := range ds.docs {
		items = append(items, docView{ID: d.ID, Name: d.Name, DocMetadata: slices.Clone(d.Metadata)})
	}
	writePage(w, r, items)
}

func (s *Server) listMetadata(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, ok := s.lookup(w, r)
	if !ok || !s.begin(w, OpListMetadata, ds.id) {
		return
	}

	_, _ = utils.WriteJSON(w, map[string]any{
		"doc_metadata":           slices.Clone(ds.fields),
		"built_in_field_enabled": false,
	}, http.StatusOK)
}

func (s *Server) createMetadata(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		s.calls[OpCreateMetadata]++
		utils.WriteError(w, http.StatusBadRequest, "invalid_param", "name is required")
		return
	}
	if !s.begin(w, OpCreateMetadata, req.Name) {
		return
	}
	if _, exists := ds.field(req.Name); exists {
		utils.WriteError(w, http.StatusBadRequest, "invalid_param", "metadata name already exists")
		return
	}

	f := models.MetadataField{ID: uuid.NewString(), Name: req.Name, Type: req.Type}
	ds.fields = append(ds.fields, f)
	_, _ = utils.WriteJSON(w, f, http.StatusCreated)
}

func (s *Server) createByFile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, ok := s.lookup(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.calls[OpUpload]++
		utils.WriteError(w, http.StatusBadRequest, "invalid_param", "multipart body expected")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.calls[OpUpload]++
		utils.WriteError(w, http.StatusBadRequest, "no_file_uploaded", "Please upload your file.")
		return
	}
	defer file.Close()

	if !s.begin(w, OpUpload, header.Filename) {
		return
	}

	var settings models.UploadSettings
	if err = json.Unmarshal([]byte(r.FormValue("data")), &settings); err != nil || settings.Name == "" {
		utils.WriteError(w, http.StatusBadRequest, "invalid_param", "data must be a JSON object with a name")
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	doc := &Document{ID: uuid.NewString(), Name: settings.Name, Content: content, Settings: settings}
	ds.docs = append(ds.docs, doc)

	_, _ = utils.WriteJSON(w, map[string]any{
		"document": docView{ID: doc.ID, Name: doc.Name, DocMetadata: []models.MetadataValue{}},
		"batch":    uuid.NewString(),
	}, http.StatusOK)
}

func (s *Server) updateMetadata(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var req struct {
		OperationData []models.DocumentMetadata `json:"operation_data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.calls[OpUpdateMetadata]++
		utils.WriteError(w, http.StatusBadRequest, "invalid_param", "operation_data is required")
		return
	}

	ids := make([]string, 0, len(req.OperationData))
	for _, op := range req.OperationData {
		ids = append(ids, op.DocumentID)
	}
	if !s.begin(w, OpUpdateMetadata, strings.Join(ids, ",")) {
		return
	}

	// validate everything before applying anything
	for _, op := range req.OperationData {
		if ds.doc(op.DocumentID) == nil {
			utils.WriteError(w, http.StatusNotFound, "document_not_found", "Document not found.")
			return
		}
		for _, m := range op.MetadataList {
			if f, ok := ds.field(m.Name); !ok || f.ID != m.ID {
				utils.WriteError(w, http.StatusBadRequest, "invalid_param", "unknown metadata field "+m.Name)
				return
			}
		}
	}
	for _, op := range req.OperationData {
		ds.doc(op.DocumentID).Metadata = slices.Clone(op.MetadataList)
	}

	_, _ = utils.WriteJSON(w, map[string]string{"result": "success"}, http.StatusOK)
}

func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, ok := s.lookup(w, r)
	if !ok {
		return
	}

	docID := chi.URLParam(r, "documentID")
	if !s.begin(w, OpDelete, docID) {
		return
	}

	idx := slices.IndexFunc(ds.docs, func(d *Document) bool { return d.ID == docID })
	if idx < 0 {
		utils.WriteError(w, http.StatusNotFound, "document_not_found", "Document not found.")
		return
	}
	ds.docs = slices.Delete(ds.docs, idx, idx+1)

	w.WriteHeader(http.StatusNoContent)
}

// ── helpers ──────────────────────────────────────────────────────────────────

func writePage[T any](w http.ResponseWriter, r *http.Request, items []T) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", defaultPageLimit)

	start := min((page-1)*limit, len(items))
	end := min(start+limit, len(items))

	_, _ = utils.WriteJSON(w, map[string]any{
		"data":     items[start:end],
		"has_more": end < len(items),
		"limit":    limit,
		"total":    len(items),
		"page":     page,
	}, http.StatusOK)
}

func queryInt(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 1 {
		return def
	}
	return v
}

func (s *Server) dataset(id string) *dataset {
	for _, ds := range s.datasets {
		if ds.id == id {
			return ds
		}
	}
	return nil
}

func (ds *dataset) field(name string) (models.MetadataField, bool) {
	for _, f := range ds.fields {
		if f.Name == name {
			return f, true
		}
	}
	return models.MetadataField{}, false
}

func (ds *dataset) doc(id string) *Document {
	for _, d := range ds.docs {
		if d.ID == id {
			return d
		}
	}
	return nil
}
