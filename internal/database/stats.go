package database

import "context"

// LibraryStats is a summary of the catalog's contents.
type LibraryStats struct {
	TotalVideos       int   `json:"totalVideos"`
	TotalBytes        int64 `json:"totalBytes"`
	TotalRoots        int   `json:"totalRoots"`
	TotalTags         int   `json:"totalTags"`
	TotalParticipants int   `json:"totalParticipants"`
	TotalLanguages    int   `json:"totalLanguages"`
}

// GetStats counts the catalog's records. The counts come from separate
// queries inside one read lock, so they are mutually consistent with respect
// to writers.
func (d *Database) GetStats(ctx context.Context) (*LibraryStats, error) {
	done := observeQuery("get_stats")

	d.mu.RLock()
	defer d.mu.RUnlock()

	stats := &LibraryStats{}

	row := d.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(size), 0) FROM videos`)
	if err := row.Scan(&stats.TotalVideos, &stats.TotalBytes); err != nil {
		done(err)
		return nil, err
	}

	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM mounted_folders`, &stats.TotalRoots},
		{`SELECT COUNT(*) FROM tags`, &stats.TotalTags},
		{`SELECT COUNT(*) FROM participants`, &stats.TotalParticipants},
		{`SELECT COUNT(*) FROM languages`, &stats.TotalLanguages},
	}
	for _, c := range counts {
		if err := d.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			done(err)
			return nil, err
		}
	}

	done(nil)
	return stats, nil
}
