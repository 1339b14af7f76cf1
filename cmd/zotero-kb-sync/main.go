package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MKhiriev/zotero-kb-sync/internal/adapter"
	"github.com/MKhiriev/zotero-kb-sync/internal/app"
	"github.com/MKhiriev/zotero-kb-sync/internal/config"
	"github.com/MKhiriev/zotero-kb-sync/internal/logger"
	"github.com/MKhiriev/zotero-kb-sync/internal/service"
	"github.com/MKhiriev/zotero-kb-sync/internal/store"
	"github.com/MKhiriev/zotero-kb-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	info := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	fmt.Println(info)

	cfg, err := config.GetStructuredConfig(os.Args[1:])
	if err != nil {
		logger.NewLogger("zotero-kb-sync").Fatal().Err(err).Msg("error getting configs")
	}

	log, err := logger.NewSyncLogger("zotero-kb-sync", cfg.App.LogLevel, cfg.App.LogFile)
	if err != nil {
		logger.NewLogger("zotero-kb-sync").Fatal().Err(err).Msg("error creating logger")
	}

	kb, err := adapter.NewHTTPKnowledgeStore(cfg.KnowledgeBase, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create knowledge store adapter")
	}

	storages := store.NewStorages(cfg, log)
	services := service.NewServices(storages, kb, cfg, log)

	runner, err := app.NewApp(services.SyncPass, info, os.Stdout, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init app error")
	}

	os.Exit(app.ExitCode(runner.Run(context.Background())))
}
