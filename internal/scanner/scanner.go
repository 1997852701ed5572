package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"video-library/internal/database"
	"video-library/internal/logging"
	"video-library/internal/mediatypes"
)

// FolderCounts maps a folder path to the number of video files found
// directly inside it. It is rebuilt on every walk and never persisted;
// aggregation up the tree is the tree builder's concern.
type FolderCounts map[string]int

// Walk enumerates video files under root, descending at most maxDepth
// directory levels (root is depth 0, so a directory is expanded while its
// depth is strictly below maxDepth). Symlinked directories are never
// followed. Unreadable directories and unstatable files are skipped; the
// walk degrades gracefully rather than aborting. Discovery order follows
// filesystem enumeration and is not guaranteed stable.
func Walk(root string, maxDepth int) ([]database.Video, FolderCounts) {
	videos := []database.Video{}
	counts := FolderCounts{}
	walkDir(root, 0, maxDepth, &videos, counts)
	return videos, counts
}

func walkDir(dir string, depth, maxDepth int, videos *[]database.Video, counts FolderCounts) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logging.Debug("Skipping unreadable directory %s: %v", dir, err)
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if mediatypes.ShouldSkip(name) {
			continue
		}

		// DirEntry.IsDir is false for symlinks, so symlinked directories
		// are neither expanded here nor counted as files below.
		if entry.IsDir() {
			if depth < maxDepth {
				walkDir(filepath.Join(dir, name), depth+1, maxDepth, videos, counts)
			}
			continue
		}
		if entry.Type()&os.ModeSymlink != 0 {
			continue
		}

		if mediatypes.Classify(name) != mediatypes.KindVideo {
			continue
		}

		path := filepath.Join(dir, name)
		info, err := entry.Info()
		if err != nil {
			logging.Debug("Skipping unstatable file %s: %v", path, err)
			continue
		}

		video := newSeedRecord(path, name, info.Size())
		counts[video.FolderPath]++
		*videos = append(*videos, video)
	}
}

// newSeedRecord builds the catalog seed for one discovered video file.
// Duration stays unset; it is filled by later processing, not the scanner.
func newSeedRecord(path, filename string, size int64) database.Video {
	video := database.Video{
		ID:         uuid.NewString(),
		Path:       path,
		Filename:   filename,
		FolderPath: filepath.Dir(path),
		Size:       size,
	}
	if thumb, ok := FindThumbnail(path); ok {
		video.ThumbnailPath = &thumb
	}
	return video
}

// FindThumbnail probes for an image sharing the video's stem in the same
// directory, in the fixed extension preference order. First match wins;
// absence is not an error.
func FindThumbnail(videoPath string) (string, bool) {
	return findSibling(videoPath, mediatypes.ThumbnailExtensions)
}

// FindSubtitle probes for a subtitle file sharing the video's stem in the
// same directory.
func FindSubtitle(videoPath string) (string, bool) {
	return findSibling(videoPath, mediatypes.SubtitleExtensions)
}

func findSibling(videoPath string, extensions []string) (string, bool) {
	stem := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	dir := filepath.Dir(videoPath)

	for _, ext := range extensions {
		candidate := filepath.Join(dir, fmt.Sprintf("%s.%s", stem, ext))
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}
	return "", false
}
