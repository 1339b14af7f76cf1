// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package app

import "errors"

// Process exit codes.
const (
	// ExitOK is returned when every planned item succeeded or was skipped.
	ExitOK = 0

	// ExitFatal is returned when the pass aborted before or while applying
	// the plan (catalog, archive or remote listing failure).
	ExitFatal = 1

	// ExitPartial is returned when the pass completed but at least one item
	// failed. Failed items are retried by the next pass.
	ExitPartial = 2
)

// Log messages shared by the runner and the entry point.
const (
	MsgSyncStarted    = "starting sync run"
	MsgSyncAborted    = "sync run aborted"
	MsgSyncFinished   = "sync run done"
	MsgSignalReceived = "pass interrupted"
)

// ErrItemsFailed is returned by [App.Run] when the pass completed with
// failed items.
var ErrItemsFailed = errors.New("some items failed to sync")

// ExitCode maps the error returned by [App.Run] to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrItemsFailed):
		return ExitPartial
	default:
		return ExitFatal
	}
}
