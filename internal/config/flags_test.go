package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags_Empty(t *testing.T) {
	cfg, err := ParseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestParseFlags_AllFlags(t *testing.T) {
	cfg, err := ParseFlags([]string{
		"-config", "/etc/sync.json",
		"-profile", "papers",
		"-dry-run",
		"-data-dir", "/home/me/Zotero",
		"-tag-pattern", "#paper/%",
		"-archive", "data/papers.json",
		"-kb-url", "http://localhost/v1",
		"-dataset", "Papers",
		"-request-timeout", "1m",
		"-log-level", "warn",
		"-log-file", "sync.log",
	})
	require.NoError(t, err)

	assert.Equal(t, "/etc/sync.json", cfg.JSONFilePath)
	assert.Equal(t, "papers", cfg.Sync.Profile)
	assert.True(t, cfg.Sync.DryRun)
	assert.Equal(t, "/home/me/Zotero", cfg.Catalog.DataDir)
	assert.Equal(t, "#paper/%", cfg.Catalog.TagPattern)
	assert.Equal(t, "data/papers.json", cfg.Archive.Path)
	assert.Equal(t, "http://localhost/v1", cfg.KnowledgeBase.BaseURL)
	assert.Equal(t, "Papers", cfg.KnowledgeBase.DatasetName)
	assert.Equal(t, time.Minute, cfg.KnowledgeBase.RequestTimeout)
	assert.Equal(t, "warn", cfg.App.LogLevel)
	assert.Equal(t, "sync.log", cfg.App.LogFile)
	assert.Empty(t, cfg.KnowledgeBase.APIKey)
}

func TestParseFlags_ShortAliases(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantConfig  string
		wantProfile string
	}{
		{name: "short", args: []string{"-c", "a.json", "-p", "x"}, wantConfig: "a.json", wantProfile: "x"},
		{name: "long", args: []string{"-config", "b.json", "-profile", "y"}, wantConfig: "b.json", wantProfile: "y"},
		{name: "mixed", args: []string{"-c", "c.json", "-profile", "z"}, wantConfig: "c.json", wantProfile: "z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseFlags(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.wantConfig, cfg.JSONFilePath)
			assert.Equal(t, tt.wantProfile, cfg.Sync.Profile)
		})
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown flag", args: []string{"-d", "postgres://"}},
		{name: "bad duration", args: []string{"-request-timeout", "later"}},
		{name: "missing value", args: []string{"-config"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseFlags(tt.args)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), "error parsing flags")
		})
	}
}
