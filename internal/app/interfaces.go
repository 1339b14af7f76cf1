// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package app

import "context"

// Runner defines the minimal lifecycle contract of a one-shot command.
type Runner interface {
	// Run executes the command and blocks until it finishes or ctx is done.
	Run(ctx context.Context) error
}
