package models

import "slices"

// MetadataField is a metadata schema entry declared on a remote dataset.
type MetadataField struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// MetadataValue is one metadata entry attached to a remote document.
type MetadataValue struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// RemoteDocument is a document stored in a remote dataset.
type RemoteDocument struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Metadata []MetadataValue `json:"doc_metadata"`
}

// ItemKey returns the value of the document's itemKey metadata entry, or an
// empty string when the document was not created by the synchronizer.
func (d RemoteDocument) ItemKey() string {
	for _, m := range d.Metadata {
		if m.Name == FieldItemKey {
			return m.Value
		}
	}
	return ""
}

// DocumentMetadata is one entry of a metadata update request.
type DocumentMetadata struct {
	DocumentID   string          `json:"document_id"`
	MetadataList []MetadataValue `json:"metadata_list"`
}

// RemoteSnapshot captures the remote identifiers needed during one pass. It is
// built by a single explicit refresh and then threaded through the pass, so
// every step sees the same view of the remote side.
type RemoteSnapshot struct {
	DatasetID string

	// Fields maps metadata field name to its declaration.
	Fields map[string]MetadataField

	// Documents maps item key to remote document id.
	Documents map[string]string
}

// NewRemoteSnapshot indexes fields by name and documents by item key.
// Documents without an itemKey entry are ignored.
func NewRemoteSnapshot(datasetID string, fields []MetadataField, docs []RemoteDocument) *RemoteSnapshot {
	s := &RemoteSnapshot{
		DatasetID: datasetID,
		Fields:    make(map[string]MetadataField, len(fields)),
		Documents: make(map[string]string, len(docs)),
	}
	for _, f := range fields {
		s.Fields[f.Name] = f
	}
	for _, d := range docs {
		if key := d.ItemKey(); key != "" {
			s.Documents[key] = d.ID
		}
	}
	return s
}

// DocumentID returns the remote document id for an item key.
func (s *RemoteSnapshot) DocumentID(itemKey string) (string, bool) {
	id, ok := s.Documents[itemKey]
	return id, ok && id != ""
}

// MetadataList converts values keyed by field name into the remote metadata
// list, keeping only fields declared in the snapshot. The result is ordered by
// field name.
func (s *RemoteSnapshot) MetadataList(values map[string]string) []MetadataValue {
	names := make([]string, 0, len(values))
	for name := range values {
		if _, ok := s.Fields[name]; ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	out := make([]MetadataValue, 0, len(names))
	for _, name := range names {
		out = append(out, MetadataValue{ID: s.Fields[name].ID, Name: name, Value: values[name]})
	}
	return out
}
