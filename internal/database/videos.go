package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"video-library/internal/logging"
	"video-library/internal/metrics"
)

// folderScope builds a predicate matching records whose folder column is the
// given folder or lies under it. Containment is path-segment based: "/a/foo"
// never captures "/a/foobar".
func folderScope(column, folder string) (string, []interface{}) {
	prefix := strings.TrimSuffix(folder, "/")
	return fmt.Sprintf("(%s = ? OR %s LIKE ?)", column, column),
		[]interface{}{folder, prefix + "/%"}
}

// UpsertVideo inserts the record, or, when the path already exists, updates
// filename, folder, size, duration, thumbnail, and updated_at in place while
// leaving id and created_at untouched. A path never gains a second record.
func (d *Database) UpsertVideo(ctx context.Context, video *Video) error {
	done := observeQuery("upsert_video")

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err := upsertVideoExec(ctx, d.db, video)
	done(err)
	return err
}

// execer abstracts *sql.DB and *sql.Tx for the shared upsert statement.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func upsertVideoExec(ctx context.Context, ex execer, video *Video) error {
	now := nowRFC3339()
	if video.CreatedAt == "" {
		video.CreatedAt = now
	}
	video.UpdatedAt = now

	_, err := ex.ExecContext(ctx, `
		INSERT INTO videos (id, path, filename, folder_path, size, duration, thumbnail_path, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			filename = excluded.filename,
			folder_path = excluded.folder_path,
			size = excluded.size,
			duration = excluded.duration,
			thumbnail_path = excluded.thumbnail_path,
			updated_at = excluded.updated_at`,
		video.ID, video.Path, video.Filename, video.FolderPath,
		video.Size, video.Duration, video.ThumbnailPath,
		video.CreatedAt, video.UpdatedAt,
	)
	return err
}

// ClearFolderVideos deletes every record whose folder is the given folder or
// lies under it.
func (d *Database) ClearFolderVideos(ctx context.Context, folderPath string) (int64, error) {
	done := observeQuery("clear_folder_videos")

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cond, args := folderScope("folder_path", folderPath)
	result, err := d.db.ExecContext(ctx, "DELETE FROM videos WHERE "+cond, args...)
	if err != nil {
		done(err)
		return 0, err
	}

	rows, err := result.RowsAffected()
	if err == nil && rows > 0 {
		metrics.DBRowsAffected.WithLabelValues("clear_folder_videos").Observe(float64(rows))
	}
	done(err)
	return rows, err
}

// CommitScan replaces every record under folderPath with the freshly
// discovered set, inside a single transaction held under the store lock.
// No caller can observe the folder cleared but not yet refilled. An upsert
// failure aborts the remaining upserts and rolls the commit back.
func (d *Database) CommitScan(ctx context.Context, folderPath string, videos []Video) error {
	done := observeQuery("commit_scan")

	d.mu.Lock()
	defer d.mu.Unlock()

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		done(err)
		return fmt.Errorf("failed to begin scan commit: %w", err)
	}

	cond, args := folderScope("folder_path", folderPath)
	if _, err := tx.ExecContext(ctx, "DELETE FROM videos WHERE "+cond, args...); err != nil {
		err = fmt.Errorf("failed to clear folder %s: %w", folderPath, err)
		done(err)
		return rollback(tx, err)
	}

	for i := range videos {
		if err := upsertVideoExec(ctx, tx, &videos[i]); err != nil {
			err = fmt.Errorf("failed to upsert %s: %w", videos[i].Path, err)
			done(err)
			return rollback(tx, err)
		}
	}

	err = tx.Commit()
	if err == nil {
		metrics.DBRowsAffected.WithLabelValues("commit_scan").Observe(float64(len(videos)))
	}
	done(err)
	return err
}

func rollback(tx *sql.Tx, err error) error {
	if rbErr := tx.Rollback(); rbErr != nil {
		return errors.Join(err, fmt.Errorf("rollback also failed: %w", rbErr))
	}
	return err
}

const videoColumns = "id, path, filename, folder_path, size, duration, thumbnail_path, created_at, updated_at"

// scanVideo scans one videos row, normalizing the nullable columns.
func scanVideo(row interface{ Scan(...interface{}) error }) (Video, error) {
	var v Video
	var duration sql.NullFloat64
	var thumbnail sql.NullString

	err := row.Scan(
		&v.ID, &v.Path, &v.Filename, &v.FolderPath, &v.Size,
		&duration, &thumbnail, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return v, err
	}

	if duration.Valid {
		v.Duration = &duration.Float64
	}
	if thumbnail.Valid {
		v.ThumbnailPath = &thumbnail.String
	}
	return v, nil
}

// GetVideoByPath retrieves a single record by its unique path.
func (d *Database) GetVideoByPath(ctx context.Context, path string) (*Video, error) {
	done := observeQuery("get_video_by_path")

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := d.db.QueryRowContext(ctx,
		"SELECT "+videoColumns+" FROM videos WHERE path = ?", path)

	v, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		done(nil)
		return nil, ErrNotFound
	}
	done(err)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// GetVideoByID retrieves a single record by id.
func (d *Database) GetVideoByID(ctx context.Context, id string) (*Video, error) {
	done := observeQuery("get_video_by_id")

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := d.db.QueryRowContext(ctx,
		"SELECT "+videoColumns+" FROM videos WHERE id = ?", id)

	v, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		done(nil)
		return nil, ErrNotFound
	}
	done(err)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// DeleteVideo removes a single record by id. Returns ErrNotFound if no
// record has that id.
func (d *Database) DeleteVideo(ctx context.Context, id string) error {
	done := observeQuery("delete_video")

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := d.db.ExecContext(ctx, "DELETE FROM videos WHERE id = ?", id)
	if err != nil {
		done(err)
		return err
	}

	rows, err := result.RowsAffected()
	done(err)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateVideoPath rewrites path, folder, and filename after a file move,
// refreshing updated_at. Returns ErrNotFound if oldPath is not cataloged.
func (d *Database) UpdateVideoPath(ctx context.Context, oldPath, newPath, newFolder, newFilename string) error {
	done := observeQuery("update_video_path")

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := d.db.ExecContext(ctx, `
		UPDATE videos SET path = ?, folder_path = ?, filename = ?, updated_at = ?
		WHERE path = ?`,
		newPath, newFolder, newFilename, nowRFC3339(), oldPath,
	)
	if err != nil {
		done(err)
		return err
	}

	rows, err := result.RowsAffected()
	done(err)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	logging.Debug("Catalog path updated: %s -> %s", oldPath, newPath)
	return nil
}
