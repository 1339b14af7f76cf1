package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidCatalogConfigs indicates invalid catalog settings
	// (for example, missing data directory or empty tag pattern).
	ErrInvalidCatalogConfigs = errors.New("invalid catalog configuration")
	// ErrInvalidArchiveConfigs indicates a missing archive path.
	ErrInvalidArchiveConfigs = errors.New("invalid archive configuration")
	// ErrInvalidKnowledgeBaseConfigs indicates invalid remote settings
	// (for example, malformed base URL, missing API key or zero timeout).
	ErrInvalidKnowledgeBaseConfigs = errors.New("invalid knowledge base configuration")
	// ErrUnknownProfile indicates that the selected profile is not defined
	// in the JSON config file.
	ErrUnknownProfile = errors.New("unknown profile")
)
