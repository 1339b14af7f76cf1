// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	setEnvVars(t, map[string]string{
		"CONFIG": "/path/to/config.json",

		"APP_LOG_LEVEL": "info",
		"APP_LOG_FILE":  "/var/log/sync.log",

		"CATALOG_DATA_DIR":    "/home/me/Zotero",
		"CATALOG_DB_FILE":     "zotero.sqlite",
		"CATALOG_TAG_PATTERN": "#paper/%",

		"ARCHIVE_PATH": "/var/lib/sync/archive.json",

		"KB_BASE_URL":           "http://localhost/v1",
		"KB_API_KEY":            "dataset-key",
		"KB_DATASET_NAME":       "Papers",
		"KB_REQUEST_TIMEOUT":    "45s",
		"KB_EMBEDDING_MODEL":    "bge-m3",
		"KB_EMBEDDING_PROVIDER": "langgenius/ollama",

		"SYNC_PROFILE": "papers",
		"SYNC_DRY_RUN": "true",
	})

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, "/var/log/sync.log", cfg.App.LogFile)

	assert.Equal(t, "/home/me/Zotero", cfg.Catalog.DataDir)
	assert.Equal(t, "zotero.sqlite", cfg.Catalog.DBFile)
	assert.Equal(t, "#paper/%", cfg.Catalog.TagPattern)

	assert.Equal(t, "/var/lib/sync/archive.json", cfg.Archive.Path)

	assert.Equal(t, "http://localhost/v1", cfg.KnowledgeBase.BaseURL)
	assert.Equal(t, "dataset-key", cfg.KnowledgeBase.APIKey)
	assert.Equal(t, "Papers", cfg.KnowledgeBase.DatasetName)
	assert.Equal(t, 45*time.Second, cfg.KnowledgeBase.RequestTimeout)
	assert.Equal(t, "bge-m3", cfg.KnowledgeBase.EmbeddingModel)
	assert.Equal(t, "langgenius/ollama", cfg.KnowledgeBase.EmbeddingProvider)

	assert.Equal(t, "papers", cfg.Sync.Profile)
	assert.True(t, cfg.Sync.DryRun)
}

func TestParseEnv_PartialFields(t *testing.T) {
	setEnvVars(t, map[string]string{
		"CATALOG_DATA_DIR": "/data",
		"KB_API_KEY":       "k",
	})

	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, "/data", cfg.Catalog.DataDir)
	assert.Equal(t, "k", cfg.KnowledgeBase.APIKey)
	assert.Empty(t, cfg.Catalog.TagPattern)
	assert.Zero(t, cfg.KnowledgeBase.RequestTimeout)
	assert.False(t, cfg.Sync.DryRun)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	setEnvVars(t, map[string]string{
		"KB_REQUEST_TIMEOUT": "soon",
	})

	err := parseEnv(&StructuredConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error getting env configs")
}

func TestParseEnv_InvalidBool(t *testing.T) {
	setEnvVars(t, map[string]string{
		"SYNC_DRY_RUN": "maybe",
	})

	err := parseEnv(&StructuredConfig{})
	require.Error(t, err)
}

func TestParseEnvWith_ExplicitEnvironment(t *testing.T) {
	setEnvVars(t, map[string]string{"KB_DATASET_NAME": "FromProcess"})

	cfg := &StructuredConfig{}
	err := parseEnvWith(cfg, env.Options{Environment: map[string]string{
		"KB_DATASET_NAME":     "Papers",
		"CATALOG_TAG_PATTERN": "#ml/%",
	}})
	require.NoError(t, err)

	assert.Equal(t, "Papers", cfg.KnowledgeBase.DatasetName)
	assert.Equal(t, "#ml/%", cfg.Catalog.TagPattern)
}

// setEnvVars clears every variable the config reads and sets vars for the
// duration of the test.
func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	clearEnvVars(t)
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	keys := []string{
		"CONFIG",
		"APP_LOG_LEVEL",
		"APP_LOG_FILE",
		"CATALOG_DATA_DIR",
		"CATALOG_DB_FILE",
		"CATALOG_TAG_PATTERN",
		"ARCHIVE_PATH",
		"KB_BASE_URL",
		"KB_API_KEY",
		"KB_DATASET_NAME",
		"KB_REQUEST_TIMEOUT",
		"KB_EMBEDDING_MODEL",
		"KB_EMBEDDING_PROVIDER",
		"SYNC_PROFILE",
		"SYNC_DRY_RUN",
	}
	for _, k := range keys {
		// t.Setenv restores the previous value on cleanup; an empty value is
		// treated as unset by the parser.
		t.Setenv(k, "")
	}
}
