package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors the layout of the JSON configuration file.
//
//	{
//	  "app": {"log_level": "info"},
//	  "catalog": {"data_dir": "/home/me/Zotero", "tag_pattern": "#%/%"},
//	  "archive": {"path": "data/zdb_attachments.json"},
//	  "knowledge_base": {"base_url": "http://localhost/v1", "api_key": "...", "dataset_name": "Zotero"},
//	  "sync": {"profile": "papers"},
//	  "profiles": {"papers": {"tag_pattern": "#paper/%", "dataset_name": "Papers", "archive_path": "data/papers.json"}}
//	}
type StructuredJSONConfig struct {
	App struct {
		LogLevel string `json:"log_level"`
		LogFile  string `json:"log_file"`
	} `json:"app,omitempty"`

	Catalog struct {
		DataDir    string `json:"data_dir"`
		DBFile     string `json:"db_file"`
		TagPattern string `json:"tag_pattern"`
	} `json:"catalog,omitempty"`

	Archive struct {
		Path string `json:"path"`
	} `json:"archive,omitempty"`

	KnowledgeBase struct {
		BaseURL           string   `json:"base_url"`
		APIKey            string   `json:"api_key"`
		DatasetName       string   `json:"dataset_name"`
		RequestTimeout    Duration `json:"request_timeout"`
		EmbeddingModel    string   `json:"embedding_model"`
		EmbeddingProvider string   `json:"embedding_provider"`
	} `json:"knowledge_base,omitempty"`

	Sync struct {
		Profile string `json:"profile"`
		DryRun  bool   `json:"dry_run"`
	} `json:"sync,omitempty"`

	Profiles map[string]Profile `json:"profiles,omitempty"`
}

// parseJSON reads the config file at jsonFilePath. When profile is empty the
// file's own "sync.profile" is used; a named profile that is not present in
// "profiles" yields ErrUnknownProfile. Non-empty profile values override the
// file's top-level sections.
func parseJSON(jsonFilePath, profile string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			LogLevel: jsonCfg.App.LogLevel,
			LogFile:  jsonCfg.App.LogFile,
		},
		Catalog: Catalog{
			DataDir:    jsonCfg.Catalog.DataDir,
			DBFile:     jsonCfg.Catalog.DBFile,
			TagPattern: jsonCfg.Catalog.TagPattern,
		},
		Archive: Archive{
			Path: jsonCfg.Archive.Path,
		},
		KnowledgeBase: KnowledgeBase{
			BaseURL:           jsonCfg.KnowledgeBase.BaseURL,
			APIKey:            jsonCfg.KnowledgeBase.APIKey,
			DatasetName:       jsonCfg.KnowledgeBase.DatasetName,
			RequestTimeout:    time.Duration(jsonCfg.KnowledgeBase.RequestTimeout),
			EmbeddingModel:    jsonCfg.KnowledgeBase.EmbeddingModel,
			EmbeddingProvider: jsonCfg.KnowledgeBase.EmbeddingProvider,
		},
		Sync: Sync{
			Profile: jsonCfg.Sync.Profile,
			DryRun:  jsonCfg.Sync.DryRun,
		},
	}

	if profile == "" {
		profile = jsonCfg.Sync.Profile
	}
	if profile == "" {
		return cfg, nil
	}

	p, ok := jsonCfg.Profiles[profile]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, profile)
	}
	cfg.applyProfile(profile, p)

	return cfg, nil
}

func (cfg *StructuredConfig) applyProfile(name string, p Profile) {
	cfg.Sync.Profile = name
	if p.TagPattern != "" {
		cfg.Catalog.TagPattern = p.TagPattern
	}
	if p.DatasetName != "" {
		cfg.KnowledgeBase.DatasetName = p.DatasetName
	}
	if p.ArchivePath != "" {
		cfg.Archive.Path = p.ArchivePath
	}
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
