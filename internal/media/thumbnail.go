package media

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"
	"sync"

	_ "image/gif"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"video-library/internal/logging"
	"video-library/internal/metrics"
)

// ThumbnailCache serves downscaled JPEG renditions of the co-located
// thumbnail images the scanner discovers next to videos. Renditions are
// cached on disk keyed by the md5 of the source path; cache hits bypass the
// generation lock entirely.
type ThumbnailCache struct {
	cacheDir string
	enabled  bool
	mu       sync.Mutex
}

// NewThumbnailCache creates the cache, materializing cacheDir when enabled.
func NewThumbnailCache(cacheDir string, enabled bool) *ThumbnailCache {
	if enabled {
		if err := os.MkdirAll(cacheDir, 0o755); err != nil {
			logging.Warn("Thumbnail cache: failed to create cache dir: %v", err)
		}
		logging.Debug("Thumbnail cache enabled, dir: %s", cacheDir)
	} else {
		logging.Debug("Thumbnail cache disabled")
	}
	return &ThumbnailCache{
		cacheDir: cacheDir,
		enabled:  enabled,
	}
}

// IsEnabled returns whether thumbnail serving is enabled.
func (t *ThumbnailCache) IsEnabled() bool {
	return t.enabled
}

// Get returns the cached rendition for sourcePath, generating it on first
// request.
func (t *ThumbnailCache) Get(sourcePath string) ([]byte, error) {
	if !t.enabled {
		return nil, fmt.Errorf("thumbnails disabled")
	}

	if _, err := os.Stat(sourcePath); err != nil {
		metrics.ThumbnailGenerationsTotal.WithLabelValues("error_not_found").Inc()
		return nil, fmt.Errorf("thumbnail source not accessible: %w", err)
	}

	hash := md5.Sum([]byte(sourcePath))
	cachePath := filepath.Join(t.cacheDir, fmt.Sprintf("%x.jpg", hash))

	if data, err := os.ReadFile(cachePath); err == nil {
		metrics.ThumbnailCacheHits.Inc()
		return data, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Another request may have generated it while we waited for the lock.
	if data, err := os.ReadFile(cachePath); err == nil {
		metrics.ThumbnailCacheHits.Inc()
		return data, nil
	}

	data, err := t.generate(sourcePath)
	if err != nil {
		metrics.ThumbnailGenerationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.ThumbnailGenerationsTotal.WithLabelValues("success").Inc()

	if err := os.WriteFile(cachePath, data, 0o644); err != nil {
		logging.Warn("Failed to cache thumbnail %s: %v", cachePath, err)
	}
	return data, nil
}

func (t *ThumbnailCache) generate(sourcePath string) ([]byte, error) {
	img, err := imaging.Open(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to decode thumbnail source: %w", err)
	}

	thumb := imaging.Fit(img, 200, 200, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 80}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
