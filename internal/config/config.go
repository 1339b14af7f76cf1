// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"path/filepath"
	"time"
)

// Default values applied when no source provides a setting.
const (
	DefaultLogLevel       = "debug"
	DefaultDBFile         = "zotero.sqlite"
	DefaultTagPattern     = "#%/%"
	DefaultArchivePath    = "data/zdb_attachments.json"
	DefaultDatasetName    = "Zotero"
	DefaultRequestTimeout = 30 * time.Second
)

// StructuredConfig is the top-level configuration container for the
// zotero-kb-sync command. It aggregates all sub-configurations and is
// populated by merging values from command-line flags, environment variables,
// an optional JSON file (with an optional named profile) and defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds process-level settings such as logging.
	App App `envPrefix:"APP_"`

	// Catalog locates the local Zotero data directory and selects which
	// tagged items take part in the sync.
	Catalog Catalog `envPrefix:"CATALOG_"`

	// Archive locates the JSON file that records the last synced state.
	Archive Archive `envPrefix:"ARCHIVE_"`

	// KnowledgeBase holds the remote Dify endpoint, credentials and the
	// target dataset.
	KnowledgeBase KnowledgeBase `envPrefix:"KB_"`

	// Sync holds per-pass options.
	Sync Sync `envPrefix:"SYNC_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds process-level configuration values.
type App struct {
	// LogLevel is a zerolog level name ("debug", "info", "warn", ...).
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`

	// LogFile, when set, receives a rotated copy of every log entry.
	// Env: APP_LOG_FILE
	LogFile string `env:"LOG_FILE"`
}

// Catalog holds the settings of the local reference catalog.
type Catalog struct {
	// DataDir is the Zotero data directory containing zotero.sqlite and the
	// storage/ tree.
	// Env: CATALOG_DATA_DIR
	DataDir string `env:"DATA_DIR"`

	// DBFile is the catalog database file name inside DataDir.
	// Env: CATALOG_DB_FILE
	DBFile string `env:"DB_FILE"`

	// TagPattern is the SQL LIKE prefix selecting tagged parent items
	// (e.g. "#%/%" matches "#topic/sub").
	// Env: CATALOG_TAG_PATTERN
	TagPattern string `env:"TAG_PATTERN"`
}

// DBPath returns the full path of the catalog database file.
func (c Catalog) DBPath() string {
	return filepath.Join(c.DataDir, c.DBFile)
}

// Archive holds the location of the sync archive.
type Archive struct {
	// Path is the archive JSON file path.
	// Env: ARCHIVE_PATH
	Path string `env:"PATH"`
}

// KnowledgeBase holds the remote knowledge-base settings.
type KnowledgeBase struct {
	// BaseURL is the API root, e.g. "http://localhost/v1".
	// Env: KB_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// APIKey is sent as a bearer token on every request.
	// Env: KB_API_KEY
	APIKey string `env:"API_KEY"`

	// DatasetName is the name of the dataset documents are synced into.
	// Env: KB_DATASET_NAME
	DatasetName string `env:"DATASET_NAME"`

	// RequestTimeout bounds every outbound request (e.g. "30s", "1m").
	// Env: KB_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// EmbeddingModel overrides the embedding model sent with uploads.
	// Env: KB_EMBEDDING_MODEL
	EmbeddingModel string `env:"EMBEDDING_MODEL"`

	// EmbeddingProvider overrides the embedding model provider sent with uploads.
	// Env: KB_EMBEDDING_PROVIDER
	EmbeddingProvider string `env:"EMBEDDING_PROVIDER"`
}

// Sync holds options of a single sync pass.
type Sync struct {
	// Profile names an entry of the JSON file's "profiles" section whose
	// values are applied on top of the file's top-level sections.
	// Env: SYNC_PROFILE
	Profile string `env:"PROFILE"`

	// DryRun computes and logs the plan without touching the remote
	// knowledge base or the archive.
	// Env: SYNC_DRY_RUN
	DryRun bool `env:"DRY_RUN"`
}

// Profile is a named set of overrides for one sync target.
type Profile struct {
	TagPattern  string `json:"tag_pattern"`
	DatasetName string `json:"dataset_name"`
	ArchivePath string `json:"archive_path"`
}

// GetStructuredConfig loads, merges, and validates the configuration from all
// available sources in the following priority order (the first source that
// sets a field wins):
//  1. Command-line flags (args)
//  2. Environment variables
//  3. JSON file with the selected profile applied (path and profile resolved
//     from sources 1 and 2)
//  4. Defaults
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withFlags(args).
		withEnv().
		withJSON().
		withDefaults().
		build()
}

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			LogLevel: DefaultLogLevel,
		},
		Catalog: Catalog{
			DBFile:     DefaultDBFile,
			TagPattern: DefaultTagPattern,
		},
		Archive: Archive{
			Path: DefaultArchivePath,
		},
		KnowledgeBase: KnowledgeBase{
			DatasetName:    DefaultDatasetName,
			RequestTimeout: DefaultRequestTimeout,
		},
	}
}
