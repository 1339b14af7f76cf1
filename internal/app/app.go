// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/zotero-kb-sync/internal/logger"
	"github.com/MKhiriev/zotero-kb-sync/internal/report"
	"github.com/MKhiriev/zotero-kb-sync/internal/service"
	"github.com/MKhiriev/zotero-kb-sync/models"
)

var errNilSyncPass = errors.New("sync pass is nil")

// App runs a single sync pass and reports its outcome.
type App struct {
	syncPass service.SyncPass
	info     models.AppBuildInfo
	out      io.Writer
	logger   *logger.Logger
}

// NewApp creates an [App]. The rendered report is written to out.
func NewApp(syncPass service.SyncPass, info models.AppBuildInfo, out io.Writer, log *logger.Logger) (*App, error) {
	if syncPass == nil {
		return nil, errNilSyncPass
	}
	if out == nil {
		out = io.Discard
	}

	return &App{
		syncPass: syncPass,
		info:     info,
		out:      out,
		logger:   log,
	}, nil
}

// Run executes one pass. SIGINT, SIGTERM and SIGQUIT cancel the pass
// context; items already applied are still recorded in the archive.
//
// Returns the fatal pass error, [ErrItemsFailed] when some items failed,
// or nil.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx,
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	a.logger.Info().Msg(MsgSyncStarted)
	summary, err := a.syncPass.Run(ctx)
	if ctx.Err() != nil {
		a.logger.Warn().Err(ctx.Err()).Msg(MsgSignalReceived)
	}

	if _, wErr := fmt.Fprintln(a.out, report.Render(a.info, summary, err)); wErr != nil {
		a.logger.Err(wErr).Msg("error writing report")
	}

	if err != nil {
		a.logger.Err(err).Msg(MsgSyncAborted)
		return err
	}

	a.logger.Info().Bool("failures", summary.HasFailures()).Msg(MsgSyncFinished)
	if summary.HasFailures() {
		return fmt.Errorf("%w: %d", ErrItemsFailed, summary.Counts().Failed)
	}
	return nil
}
