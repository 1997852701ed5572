package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"video-library/internal/logging"
)

// DefaultScanDepth is used when scanning a folder that was never registered.
const DefaultScanDepth = 2

// AddRoot registers (or re-registers) a directory for scanning.
func (d *Database) AddRoot(ctx context.Context, path, name string, scanDepth int) (*MountedRoot, error) {
	done := observeQuery("add_root")

	if scanDepth < 0 {
		err := fmt.Errorf("scan depth must be non-negative, got %d", scanDepth)
		done(err)
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	root := &MountedRoot{
		ID:        uuid.NewString(),
		Path:      path,
		Name:      name,
		ScanDepth: scanDepth,
		CreatedAt: nowRFC3339(),
	}

	_, err := d.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO mounted_folders (id, path, name, scan_depth, created_at) VALUES (?, ?, ?, ?, ?)",
		root.ID, root.Path, root.Name, root.ScanDepth, root.CreatedAt,
	)
	done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to register root: %w", err)
	}

	logging.Info("Registered root %s (depth %d)", path, scanDepth)
	return root, nil
}

// ListRoots returns every registered root.
func (d *Database) ListRoots(ctx context.Context) ([]MountedRoot, error) {
	done := observeQuery("list_roots")

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := d.db.QueryContext(ctx,
		"SELECT id, path, name, scan_depth, created_at FROM mounted_folders ORDER BY name")
	if err != nil {
		done(err)
		return nil, err
	}
	defer rows.Close()

	roots := []MountedRoot{}
	for rows.Next() {
		var r MountedRoot
		if err := rows.Scan(&r.ID, &r.Path, &r.Name, &r.ScanDepth, &r.CreatedAt); err != nil {
			done(err)
			return nil, err
		}
		roots = append(roots, r)
	}
	err = rows.Err()
	done(err)
	if err != nil {
		return nil, err
	}
	return roots, nil
}

// GetRoot looks up a registered root by path. Returns ErrNotFound when the
// path was never registered.
func (d *Database) GetRoot(ctx context.Context, path string) (*MountedRoot, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var r MountedRoot
	err := d.db.QueryRowContext(ctx,
		"SELECT id, path, name, scan_depth, created_at FROM mounted_folders WHERE path = ?",
		path,
	).Scan(&r.ID, &r.Path, &r.Name, &r.ScanDepth, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// SetRootDepth updates the configured scan depth for a registered root.
func (d *Database) SetRootDepth(ctx context.Context, path string, scanDepth int) error {
	done := observeQuery("set_root_depth")

	if scanDepth < 0 {
		err := fmt.Errorf("scan depth must be non-negative, got %d", scanDepth)
		done(err)
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := d.db.ExecContext(ctx,
		"UPDATE mounted_folders SET scan_depth = ? WHERE path = ?", scanDepth, path)
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

// RemoveRoot unregisters a root and cascades to every catalog record whose
// folder lies under it.
func (d *Database) RemoveRoot(ctx context.Context, path string) error {
	done := observeQuery("remove_root")

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := d.db.ExecContext(ctx, "DELETE FROM mounted_folders WHERE path = ?", path); err != nil {
		done(err)
		return err
	}

	cond, args := folderScope("folder_path", path)
	_, err := d.db.ExecContext(ctx, "DELETE FROM videos WHERE "+cond, args...)
	done(err)
	if err != nil {
		return err
	}

	logging.Info("Removed root %s and its catalog entries", path)
	return nil
}
