// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app runs one synchronization pass as a process lifecycle.
//
// It binds the sync pass to OS signals, prints the final report and maps the
// outcome to a process exit code.
package app
