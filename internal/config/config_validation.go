// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// validate checks that the final merged [StructuredConfig] is usable for a
// sync pass. Each failing group is reported with its sentinel error and a
// short reason.
func (cfg *StructuredConfig) validate() error {
	if strings.TrimSpace(cfg.Catalog.DataDir) == "" {
		return fmt.Errorf("%w: data directory is required", ErrInvalidCatalogConfigs)
	}
	if strings.TrimSpace(cfg.Catalog.DBFile) == "" {
		return fmt.Errorf("%w: database file name is required", ErrInvalidCatalogConfigs)
	}
	if strings.TrimSpace(cfg.Catalog.TagPattern) == "" {
		return fmt.Errorf("%w: tag pattern is required", ErrInvalidCatalogConfigs)
	}

	if strings.TrimSpace(cfg.Archive.Path) == "" {
		return fmt.Errorf("%w: archive path is required", ErrInvalidArchiveConfigs)
	}

	kb := cfg.KnowledgeBase
	u, err := url.Parse(kb.BaseURL)
	if kb.BaseURL == "" || err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: base url %q must be an absolute http(s) url", ErrInvalidKnowledgeBaseConfigs, kb.BaseURL)
	}
	if strings.TrimSpace(kb.APIKey) == "" {
		return fmt.Errorf("%w: api key is required", ErrInvalidKnowledgeBaseConfigs)
	}
	if strings.TrimSpace(kb.DatasetName) == "" {
		return fmt.Errorf("%w: dataset name is required", ErrInvalidKnowledgeBaseConfigs)
	}
	if kb.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout must be positive", ErrInvalidKnowledgeBaseConfigs)
	}

	return nil
}
