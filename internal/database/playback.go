package database

import (
	"context"
	"database/sql"
	"errors"
)

// SavePlaybackPosition records the last playback position for a video.
func (d *Database) SavePlaybackPosition(ctx context.Context, videoID string, position float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := d.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO playback_history (video_id, position, last_played) VALUES (?, ?, ?)",
		videoID, position, nowRFC3339(),
	)
	return err
}

// GetPlaybackPosition returns the saved playback position for a video, or
// ErrNotFound when the video was never played.
func (d *Database) GetPlaybackPosition(ctx context.Context, videoID string) (float64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var position float64
	err := d.db.QueryRowContext(ctx,
		"SELECT position FROM playback_history WHERE video_id = ?", videoID,
	).Scan(&position)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return position, err
}
