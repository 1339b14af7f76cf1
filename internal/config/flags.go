package config

import (
	"flag"
	"fmt"
	"io"
	"os"
)

// ParseFlags parses command-line flags from args (without the program name).
//
// Flags:
//
//	-c/-config json file path with configs
//	-p/-profile profile name from the json file
//	-dry-run compute the plan without applying it
//	-data-dir zotero data directory
//	-tag-pattern tag LIKE prefix
//	-archive archive json file path
//	-kb-url knowledge base API root
//	-dataset knowledge base dataset name
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-log-level log level
//	-log-file rotated log file path
//
// The API key is intentionally not a flag so that it never shows up in the
// process list.
func ParseFlags(args []string) (*StructuredConfig, error) {
	cfg, _, err := parseFlags(args)
	return cfg, err
}

// parseFlags is ParseFlags that also reports the -dry-run value when the flag
// was given explicitly. The returned pointer is nil otherwise, so an explicit
// -dry-run=false can be told apart from an absent flag.
func parseFlags(args []string) (*StructuredConfig, *bool, error) {
	cfg := &StructuredConfig{}

	fs := flag.NewFlagSet(programName(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.JSONFilePath, "c", "", "JSON config file path")
	fs.StringVar(&cfg.JSONFilePath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&cfg.Sync.Profile, "p", "", "Profile name from the JSON config file")
	fs.StringVar(&cfg.Sync.Profile, "profile", "", "Profile name from the JSON config file (alias)")
	fs.BoolVar(&cfg.Sync.DryRun, "dry-run", false, "Compute and log the sync plan without applying it")
	fs.StringVar(&cfg.Catalog.DataDir, "data-dir", "", "Zotero data directory")
	fs.StringVar(&cfg.Catalog.TagPattern, "tag-pattern", "", "Tag LIKE prefix selecting parent items")
	fs.StringVar(&cfg.Archive.Path, "archive", "", "Archive JSON file path")
	fs.StringVar(&cfg.KnowledgeBase.BaseURL, "kb-url", "", "Knowledge base API root URL")
	fs.StringVar(&cfg.KnowledgeBase.DatasetName, "dataset", "", "Knowledge base dataset name")
	fs.DurationVar(&cfg.KnowledgeBase.RequestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.StringVar(&cfg.App.LogLevel, "log-level", "", "Log level")
	fs.StringVar(&cfg.App.LogFile, "log-file", "", "Rotated log file path")

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("error parsing flags: %w", err)
	}

	var dryRun *bool
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "dry-run" {
			v := cfg.Sync.DryRun
			dryRun = &v
		}
	})

	return cfg, dryRun, nil
}

func programName() string {
	if len(os.Args) > 0 {
		return os.Args[0]
	}
	return "zotero-kb-sync"
}
