package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/zotero-kb-sync/internal/config"
	"github.com/MKhiriev/zotero-kb-sync/internal/logger"
	"github.com/MKhiriev/zotero-kb-sync/models"
)

// queryer is the subset of *sql.DB the catalog queries need.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type sqliteCatalog struct {
	dbPath   string
	tempRoot string

	logger *logger.Logger
}

// NewSQLiteCatalog returns a [CatalogReader] over the catalog database
// described by cfg. Every read works on a private copy of the database so the
// live file is never opened by the driver.
func NewSQLiteCatalog(cfg config.Catalog, log *logger.Logger) CatalogReader {
	return &sqliteCatalog{dbPath: cfg.DBPath(), logger: log}
}

// ReadCurrent implements [CatalogReader].
func (c *sqliteCatalog) ReadCurrent(ctx context.Context, tagPattern string) (models.SyncState, error) {
	log := logger.FromContext(ctx)

	snapshot, cleanup, err := snapshotDatabase(c.dbPath, c.tempRoot)
	if err != nil {
		log.Err(err).Str("func", "sqliteCatalog.ReadCurrent").Str("db", c.dbPath).Msg("error copying catalog")
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	defer cleanup()

	db, err := NewConnectSQLite(ctx, snapshot, c.logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	defer db.Close()

	state, err := readCatalog(ctx, db.DB, tagPattern, log)
	if err != nil {
		return nil, err
	}

	log.Info().Int("attachments", len(state)).Str("tag_pattern", tagPattern).Msg("catalog read")
	return state, nil
}

type parentRow struct {
	key        string
	itemTypeID int64
	tags       []string
}

type attachmentRow struct {
	itemID      int64
	parentID    int64
	key         string
	contentType string
	path        *string
}

// readCatalog runs the catalog queries against q and assembles the current
// state. Any query failure aborts the read.
func readCatalog(ctx context.Context, q queryer, tagPattern string, log *logger.Logger) (models.SyncState, error) {
	parentIDs, parents, err := queryParentItems(ctx, q, tagPattern)
	if err != nil {
		return nil, err
	}
	if len(parentIDs) == 0 {
		return models.SyncState{}, nil
	}

	parentTitles, err := queryTitles(ctx, q, parentIDs)
	if err != nil {
		return nil, err
	}

	attachments, err := queryAttachments(ctx, q, parentIDs)
	if err != nil {
		return nil, err
	}

	attachmentIDs := make([]int64, 0, len(attachments))
	for _, a := range attachments {
		attachmentIDs = append(attachmentIDs, a.itemID)
	}
	attachmentTitles, err := queryTitles(ctx, q, attachmentIDs)
	if err != nil {
		return nil, err
	}

	state := make(models.SyncState, len(attachments))
	for _, row := range attachments {
		p := parents[row.parentID]
		parent, err := models.NewParentItem(row.parentID, p.key, p.tags, parentTitles[row.parentID], p.itemTypeID)
		if err != nil {
			log.Warn().Err(err).Int64("item_id", row.parentID).Msg("skipping parent item without key")
			continue
		}

		var relPath *string
		if row.path != nil {
			rp := models.StoragePath(row.key, *row.path)
			relPath = &rp
		}

		att, err := models.NewAttachment(row.itemID, row.key, row.contentType, relPath, attachmentTitles[row.itemID], parent)
		if err != nil {
			log.Warn().Err(err).Int64("item_id", row.itemID).Msg("skipping attachment without key")
			continue
		}

		if existing, dup := state[att.ItemKey]; dup {
			log.Warn().
				Str("item_key", att.ItemKey).
				Int64("kept_parent", existing.Parent.ItemID).
				Int64("dropped_parent", parent.ItemID).
				Msg("duplicate attachment key in catalog, keeping the first")
			continue
		}
		state[att.ItemKey] = att
	}

	return state, nil
}

func queryParentItems(ctx context.Context, q queryer, tagPattern string) ([]int64, map[int64]*parentRow, error) {
	query, args, err := parentItemsQuery(tagPattern)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: parent items: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var ids []int64
	parents := make(map[int64]*parentRow)
	for rows.Next() {
		var (
			itemID, itemTypeID int64
			tag                string
			key                sql.NullString
		)
		if err = rows.Scan(&itemID, &tag, &key, &itemTypeID); err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}

		p, ok := parents[itemID]
		if !ok {
			p = &parentRow{key: key.String, itemTypeID: itemTypeID}
			parents[itemID] = p
			ids = append(ids, itemID)
		}
		p.tags = append(p.tags, tag)
	}
	if err = rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return ids, parents, nil
}

// queryTitles returns the title of each item that has one.
func queryTitles(ctx context.Context, q queryer, itemIDs []int64) (map[int64]string, error) {
	titles := make(map[int64]string, len(itemIDs))

	for _, chunk := range chunkIDs(itemIDs, maxQueryParams) {
		query, args, err := itemTitlesQuery(chunk)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		if err = scanRows(ctx, q, query, args, func(rows *sql.Rows) error {
			var (
				itemID int64
				title  sql.NullString
			)
			if err := rows.Scan(&itemID, &title); err != nil {
				return err
			}
			if _, seen := titles[itemID]; !seen {
				titles[itemID] = title.String
			}
			return nil
		}); err != nil {
			return nil, fmt.Errorf("item titles: %w", err)
		}
	}

	return titles, nil
}

func queryAttachments(ctx context.Context, q queryer, parentIDs []int64) ([]attachmentRow, error) {
	var out []attachmentRow

	for _, chunk := range chunkIDs(parentIDs, maxQueryParams) {
		query, args, err := attachmentsQuery(chunk)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		if err = scanRows(ctx, q, query, args, func(rows *sql.Rows) error {
			var (
				row         attachmentRow
				key         sql.NullString
				contentType sql.NullString
				path        sql.NullString
			)
			if err := rows.Scan(&row.itemID, &row.parentID, &key, &contentType, &path); err != nil {
				return err
			}
			row.key = key.String
			row.contentType = contentType.String
			if path.Valid {
				p := path.String
				row.path = &p
			}
			out = append(out, row)
			return nil
		}); err != nil {
			return nil, fmt.Errorf("attachments: %w", err)
		}
	}

	return out, nil
}

// scanRows executes query and calls scan for every row. Errors are wrapped
// with the matching sentinel.
func scanRows(ctx context.Context, q queryer, query string, args []any, scan func(*sql.Rows) error) error {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err = scan(rows); err != nil {
			return fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
	}
	if err = rows.Err(); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrScanningRows, err)
	}
	return nil
}
