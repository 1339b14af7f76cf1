// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv populates cfg from the process environment. Fields are mapped via
// the `env` and `envPrefix` tags of [StructuredConfig] and its nested types.
func parseEnv(cfg any) error {
	return parseEnvWith(cfg, env.Options{})
}

// parseEnvWith is parseEnv with explicit caarlos0/env options. Setting
// opts.Environment replaces the process environment as the source.
//
// Returns a wrapped error if a value cannot be converted to the field type
// (e.g. KB_REQUEST_TIMEOUT=soon).
func parseEnvWith(cfg any, opts env.Options) error {
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}

	return nil
}
