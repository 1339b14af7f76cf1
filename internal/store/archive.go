package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/MKhiriev/zotero-kb-sync/internal/logger"
	"github.com/MKhiriev/zotero-kb-sync/models"
)

// archiveFileStore keeps the archived state as a JSON array of attachment
// records, sorted by item key.
type archiveFileStore struct {
	path   string
	logger *logger.Logger
}

// NewArchiveFileStore returns an [ArchiveStore] backed by the JSON file at path.
func NewArchiveFileStore(path string, log *logger.Logger) ArchiveStore {
	return &archiveFileStore{path: path, logger: log}
}

// Load implements [ArchiveStore]. A missing archive is created as an empty
// array so later passes find a well-formed file.
func (a *archiveFileStore) Load(ctx context.Context) (models.SyncState, error) {
	log := logger.FromContext(ctx)

	raw, err := os.ReadFile(a.path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info().Str("archive", a.path).Msg("archive not found, initialising empty archive")
		if err = a.Save(ctx, models.SyncState{}); err != nil {
			return nil, err
		}
		return models.SyncState{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrArchiveCorrupted, a.path, err)
	}

	var records []models.Attachment
	if len(bytes.TrimSpace(raw)) > 0 {
		if err = json.Unmarshal(raw, &records); err != nil {
			log.Err(err).Str("func", "archiveFileStore.Load").Str("archive", a.path).Msg("error decoding archive")
			return nil, fmt.Errorf("%w: %w", ErrArchiveCorrupted, err)
		}
	}

	state := make(models.SyncState, len(records))
	for _, r := range records {
		if r.ItemKey == "" {
			log.Warn().Int64("item_id", r.ItemID).Msg("archive record without item key ignored")
			continue
		}
		if state.Has(r.ItemKey) {
			log.Warn().Str("item_key", r.ItemKey).Msg("duplicate item key in archive, last record wins")
		}
		state[r.ItemKey] = r
	}

	log.Debug().Int("attachments", len(state)).Str("archive", a.path).Msg("archive loaded")
	return state, nil
}

// Save implements [ArchiveStore]. The new content is written to a temp file
// next to the archive and renamed over it, so readers see either the old or
// the new archive in full.
func (a *archiveFileStore) Save(ctx context.Context, state models.SyncState) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrArchiveWrite, err)
	}

	data, err := json.MarshalIndent(state.Attachments(), "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrArchiveWrite, err)
	}
	data = append(data, '\n')

	if err = writeFileAtomic(a.path, data); err != nil {
		a.logger.Err(err).Str("func", "archiveFileStore.Save").Str("archive", a.path).Msg("error writing archive")
		return fmt.Errorf("%w: %w", ErrArchiveWrite, err)
	}

	logger.FromContext(ctx).Debug().Int("attachments", len(state)).Str("archive", a.path).Msg("archive saved")
	return nil
}

const archiveFileMode os.FileMode = 0o644

func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	// CreateTemp uses 0600; keep the mode of the file being replaced
	mode := archiveFileMode
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}
	if err = tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
