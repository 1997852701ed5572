package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"video-library/internal/logging"
	"video-library/internal/metrics"
)

// Default timeout for database operations
const defaultTimeout = 5 * time.Second

// Database is the persistent video catalog. It is a shared, mutually
// exclusive resource: every logical operation holds mu for its duration, and
// the scan commit (clear-then-upsert) holds it across both steps so no reader
// can observe a cleared-but-unfilled folder.
type Database struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// New opens (creating if necessary) the catalog at dbPath and initializes
// the schema. The parent directory must already exist and be writable.
func New(ctx context.Context, dbPath string) (*Database, error) {
	logging.Info("Catalog database path: %s", dbPath)

	// WAL mode with a busy timeout to avoid "database is locked" errors
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=on", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)

	d := &Database{
		db:     db,
		dbPath: dbPath,
	}

	if err := d.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after initialization failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	logging.Info("Catalog database initialized at %s", dbPath)
	return d, nil
}

func (d *Database) initialize(ctx context.Context) error {
	done := observeQuery("initialize_schema")

	schema := `
	-- Mounted roots registered for scanning
	CREATE TABLE IF NOT EXISTS mounted_folders (
		id TEXT PRIMARY KEY,
		path TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		scan_depth INTEGER NOT NULL DEFAULT 2,
		created_at TEXT NOT NULL
	);

	-- Video catalog
	CREATE TABLE IF NOT EXISTS videos (
		id TEXT PRIMARY KEY,
		path TEXT NOT NULL UNIQUE,
		filename TEXT NOT NULL,
		folder_path TEXT NOT NULL,
		size INTEGER NOT NULL DEFAULT 0,
		duration REAL,
		thumbnail_path TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_videos_folder ON videos(folder_path);
	CREATE INDEX IF NOT EXISTS idx_videos_filename ON videos(filename);

	-- Taxonomy tables
	CREATE TABLE IF NOT EXISTS tags (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		color TEXT NOT NULL DEFAULT '#6366f1'
	);

	CREATE TABLE IF NOT EXISTS participants (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS languages (
		id TEXT PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL
	);

	-- Symmetric many-to-many association tables
	CREATE TABLE IF NOT EXISTS video_tags (
		video_id TEXT NOT NULL,
		tag_id TEXT NOT NULL,
		PRIMARY KEY (video_id, tag_id),
		FOREIGN KEY (video_id) REFERENCES videos(id) ON DELETE CASCADE,
		FOREIGN KEY (tag_id) REFERENCES tags(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS video_participants (
		video_id TEXT NOT NULL,
		participant_id TEXT NOT NULL,
		PRIMARY KEY (video_id, participant_id),
		FOREIGN KEY (video_id) REFERENCES videos(id) ON DELETE CASCADE,
		FOREIGN KEY (participant_id) REFERENCES participants(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS video_languages (
		video_id TEXT NOT NULL,
		language_id TEXT NOT NULL,
		PRIMARY KEY (video_id, language_id),
		FOREIGN KEY (video_id) REFERENCES videos(id) ON DELETE CASCADE,
		FOREIGN KEY (language_id) REFERENCES languages(id) ON DELETE CASCADE
	);

	-- Playback history
	CREATE TABLE IF NOT EXISTS playback_history (
		video_id TEXT PRIMARY KEY,
		position REAL NOT NULL DEFAULT 0,
		last_played TEXT NOT NULL,
		FOREIGN KEY (video_id) REFERENCES videos(id) ON DELETE CASCADE
	);
	`

	_, err := d.db.ExecContext(ctx, schema)
	done(err)
	return err
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// Ping verifies the underlying connection is still usable.
func (d *Database) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return d.db.PingContext(pingCtx)
}

// UpdateDBMetrics updates database connection metrics.
func (d *Database) UpdateDBMetrics() {
	stats := d.db.Stats()
	metrics.DBConnectionsOpen.Set(float64(stats.OpenConnections))
}

// nowRFC3339 returns the current wall-clock time as the ISO-8601 string
// stored in every timestamp column.
func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// observeQuery starts a metrics observation for one database operation.
// The returned func must be called with the operation's final error.
func observeQuery(operation string) func(error) {
	start := time.Now()
	return func(err error) {
		status := "success"
		if err != nil {
			status = "error"
		}
		metrics.DBQueryTotal.WithLabelValues(operation, status).Inc()
		metrics.DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}
