package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
)

type configBuilder struct {
	configs []*StructuredConfig
	err     error

	// dryRun is set when -dry-run was given explicitly. mergo cannot let a
	// false value win over a true one from a later source, so it is applied
	// after the merge.
	dryRun *bool
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		configs: make([]*StructuredConfig, 0, 4),
	}
}

// build merges the collected configs in order. mergo only fills fields that
// are still zero, so configs added earlier take priority.
func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	config := new(StructuredConfig)
	for _, cfg := range b.configs {
		if err := mergo.Merge(config, cfg); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	if b.dryRun != nil {
		config.Sync.DryRun = *b.dryRun
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (b *configBuilder) withFlags(args []string) *configBuilder {
	flagsCfg, dryRun, err := parseFlags(args)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, flagsCfg)
	b.dryRun = dryRun
	return b
}

func (b *configBuilder) withEnv() *configBuilder {
	envCfg := &StructuredConfig{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, envCfg)
	return b
}

// withJSON loads the JSON file named by an earlier source and applies the
// profile selected by an earlier source. A profile selected without a JSON
// file is an error.
func (b *configBuilder) withJSON() *configBuilder {
	jsonPath := b.firstNonEmpty(func(c *StructuredConfig) string { return c.JSONFilePath })
	profile := b.firstNonEmpty(func(c *StructuredConfig) string { return c.Sync.Profile })

	if jsonPath == "" {
		if profile != "" {
			b.err = errors.Join(b.err, fmt.Errorf("%w: %q (no config file given)", ErrUnknownProfile, profile))
		}
		return b
	}

	jsonCfg, err := parseJSON(jsonPath, profile)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, jsonCfg)
	return b
}

func (b *configBuilder) withDefaults() *configBuilder {
	b.configs = append(b.configs, defaultConfig())
	return b
}

func (b *configBuilder) firstNonEmpty(get func(*StructuredConfig) string) string {
	for _, cfg := range b.configs {
		if v := get(cfg); v != "" {
			return v
		}
	}
	return ""
}
