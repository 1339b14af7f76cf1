// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the client for the remote knowledge base that
// synced documents are stored in.
//
// The primary abstraction is [KnowledgeStore], which decouples the sync
// services from the REST API. The package ships an HTTP implementation
// ([NewHTTPKnowledgeStore]) speaking the Dify datasets API.
//
// Non-2xx responses are returned as [*APIError]; its Unwrap maps the HTTP
// status to the sentinel values defined in errors.go so that callers can use
// [errors.Is] (e.g. [ErrNotFound] for 404, [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/MKhiriev/zotero-kb-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/knowledge_store_mock.go -package=mock

// KnowledgeStore defines the operations the synchronizer needs from the
// remote knowledge base. Implementations are responsible for serialisation,
// authentication, pagination and mapping transport-level errors to the
// sentinel values defined in this package.
type KnowledgeStore interface {
	// ListDatasets returns every dataset visible to the API key, keyed by
	// dataset name with the dataset id as value.
	ListDatasets(ctx context.Context) (map[string]string, error)

	// ResolveDatasetID returns the id of the dataset called name, or an error
	// wrapping [ErrDatasetNotFound].
	ResolveDatasetID(ctx context.Context, name string) (string, error)

	// ListDocuments returns all documents of a dataset together with their
	// metadata values.
	ListDocuments(ctx context.Context, datasetID string) ([]models.RemoteDocument, error)

	// ListMetadataFields returns the metadata schema declared on a dataset.
	ListMetadataFields(ctx context.Context, datasetID string) ([]models.MetadataField, error)

	// CreateMetadataField declares a new metadata field on a dataset and
	// returns it with its server-assigned id.
	CreateMetadataField(ctx context.Context, datasetID, name, fieldType string) (models.MetadataField, error)

	// UploadDocumentByFile uploads the local file at path as a new document
	// and returns the created document.
	UploadDocumentByFile(ctx context.Context, datasetID, path string) (models.RemoteDocument, error)

	// UpdateDocumentMetadata replaces the metadata of one or more documents.
	UpdateDocumentMetadata(ctx context.Context, datasetID string, ops []models.DocumentMetadata) error

	// DeleteDocument removes a document from a dataset.
	DeleteDocument(ctx context.Context, datasetID, documentID string) error
}
