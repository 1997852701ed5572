package library

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"video-library/internal/database"
	"video-library/internal/filesystem"
	"video-library/internal/logging"
	"video-library/internal/metrics"
	"video-library/internal/scanner"
)

// Library is the operation surface over the catalog: it coordinates walker
// output into store mutations and fronts lookups, listings, and root
// management. The store handle is injected; nothing here reaches ambient
// state.
type Library struct {
	db     *database.Database
	scanMu sync.Mutex
}

// New creates a Library around an opened catalog store.
func New(db *database.Database) *Library {
	return &Library{db: db}
}

// Scan walks folderPath at its configured depth and replaces the catalog's
// contents under that folder with the freshly discovered records. The walk
// runs to completion before any store mutation begins, so the store is
// unavailable only for the commit, not for disk-scan latency. One scan runs
// at a time.
func (l *Library) Scan(ctx context.Context, folderPath string) (*database.ScanResult, error) {
	l.scanMu.Lock()
	defer l.scanMu.Unlock()

	if _, err := os.Stat(folderPath); err != nil {
		return nil, fmt.Errorf("scan target unavailable: %w", err)
	}

	metrics.ScannerIsRunning.Set(1)
	defer metrics.ScannerIsRunning.Set(0)
	metrics.ScannerRunsTotal.Inc()

	start := time.Now()
	depth := l.resolveDepth(ctx, folderPath)
	logging.Info("Scanning %s (depth %d)", folderPath, depth)

	videos, counts := scanner.Walk(folderPath, depth)
	tree := scanner.BuildFolderTree(folderPath, counts)

	if err := l.db.CommitScan(ctx, folderPath, videos); err != nil {
		metrics.ScannerErrors.Inc()
		return nil, fmt.Errorf("scan commit failed: %w", err)
	}

	duration := time.Since(start)
	metrics.ScannerLastRunDuration.Set(duration.Seconds())
	metrics.ScannerVideosSeen.Add(float64(len(videos)))

	var totalBytes int64
	for i := range videos {
		totalBytes += videos[i].Size
	}
	logging.Info("Scan complete: %d videos (%s) under %s in %v",
		len(videos), humanize.Bytes(uint64(totalBytes)), folderPath, duration)

	return &database.ScanResult{
		TotalVideos: len(videos),
		NewVideos:   len(videos),
		FolderTree:  tree,
		Videos:      videos,
	}, nil
}

// FolderTree walks folderPath and returns its count-annotated tree without
// committing anything to the catalog.
func (l *Library) FolderTree(ctx context.Context, folderPath string) (*database.FolderNode, error) {
	if _, err := os.Stat(folderPath); err != nil {
		return nil, fmt.Errorf("folder unavailable: %w", err)
	}

	depth := l.resolveDepth(ctx, folderPath)
	_, counts := scanner.Walk(folderPath, depth)
	tree := scanner.BuildFolderTree(folderPath, counts)
	return &tree, nil
}

// resolveDepth returns the registered scan depth for folderPath, or the
// default when the folder was never registered as a root.
func (l *Library) resolveDepth(ctx context.Context, folderPath string) int {
	root, err := l.db.GetRoot(ctx, folderPath)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			logging.Warn("Failed to resolve scan depth for %s: %v", folderPath, err)
		}
		return database.DefaultScanDepth
	}
	return root.ScanDepth
}

// List answers a filtered, sorted, paginated catalog query.
func (l *Library) List(ctx context.Context, filter *database.FilterOptions) (*database.VideoPage, error) {
	return l.db.ListVideos(ctx, filter)
}

// Get retrieves one video by id.
func (l *Library) Get(ctx context.Context, id string) (*database.Video, error) {
	return l.db.GetVideoByID(ctx, id)
}

// GetByPath retrieves one video by its unique path.
func (l *Library) GetByPath(ctx context.Context, path string) (*database.Video, error) {
	return l.db.GetVideoByPath(ctx, path)
}

// GetWithMetadata retrieves a video together with its taxonomy associations.
func (l *Library) GetWithMetadata(ctx context.Context, id string) (*database.VideoMetadata, error) {
	video, err := l.db.GetVideoByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tags, err := l.db.GetVideoTags(ctx, id)
	if err != nil {
		return nil, err
	}
	participants, err := l.db.GetVideoParticipants(ctx, id)
	if err != nil {
		return nil, err
	}
	languages, err := l.db.GetVideoLanguages(ctx, id)
	if err != nil {
		return nil, err
	}

	return &database.VideoMetadata{
		Video:        *video,
		Tags:         tags,
		Participants: participants,
		Languages:    languages,
	}, nil
}

// Delete removes one video record by id.
func (l *Library) Delete(ctx context.Context, id string) error {
	return l.db.DeleteVideo(ctx, id)
}

// Move relocates the underlying file into newFolder, then rewrites the
// catalog record's path, folder, and filename. A failed file move leaves the
// catalog untouched.
func (l *Library) Move(ctx context.Context, oldPath, newFolder string) (*database.Video, error) {
	if _, err := l.db.GetVideoByPath(ctx, oldPath); err != nil {
		return nil, err
	}

	filename := filepath.Base(oldPath)
	newPath := filepath.Join(newFolder, filename)

	if err := filesystem.MoveFile(oldPath, newPath); err != nil {
		return nil, fmt.Errorf("failed to move file: %w", err)
	}

	if err := l.db.UpdateVideoPath(ctx, oldPath, newPath, newFolder, filename); err != nil {
		return nil, err
	}

	return l.db.GetVideoByPath(ctx, newPath)
}

// AddRoot registers a directory for scanning. The display name is the
// directory's base name.
func (l *Library) AddRoot(ctx context.Context, path string, scanDepth int) (*database.MountedRoot, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("root unavailable: %w", err)
	}

	name := filepath.Base(path)
	if name == "." || name == string(filepath.Separator) {
		name = path
	}
	return l.db.AddRoot(ctx, path, name, scanDepth)
}

// SetRootDepth updates a registered root's scan depth.
func (l *Library) SetRootDepth(ctx context.Context, path string, scanDepth int) error {
	return l.db.SetRootDepth(ctx, path, scanDepth)
}

// RemoveRoot unregisters a root and drops its catalog entries.
func (l *Library) RemoveRoot(ctx context.Context, path string) error {
	return l.db.RemoveRoot(ctx, path)
}

// Roots lists every registered root.
func (l *Library) Roots(ctx context.Context) ([]database.MountedRoot, error) {
	return l.db.ListRoots(ctx)
}
