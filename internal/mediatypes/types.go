package mediatypes

import (
	"path/filepath"
	"strings"
)

// EntryKind is the classification of a single directory entry name.
type EntryKind string

const (
	// KindSkip marks hidden entries and known system noise directories.
	KindSkip EntryKind = "skip"
	// KindVideo marks a file with a recognized video extension.
	KindVideo EntryKind = "video"
	// KindImage marks a file with a recognized image extension.
	KindImage EntryKind = "image"
	// KindOther marks anything the scanner has no interest in.
	KindOther EntryKind = "other"
)

// VideoExtensions maps lowercased extensions to whether they are
// recognized video formats.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".webm": true,
	".mov":  true,
	".wmv":  true,
	".flv":  true,
	".m4v":  true,
	".mpg":  true,
	".mpeg": true,
	".3gp":  true,
	".ts":   true,
}

// ImageExtensions maps lowercased extensions to whether they are
// recognized image formats.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// ThumbnailExtensions is the fixed preference order used when probing for a
// co-located thumbnail image sharing a video's stem. First match wins.
var ThumbnailExtensions = []string{"jpg", "jpeg", "png", "webp"}

// SubtitleExtensions is the fixed preference order used when probing for a
// co-located subtitle file sharing a video's stem.
var SubtitleExtensions = []string{"srt", "ass", "ssa", "sub", "vtt"}

// skipNames are directory names that never contain user media.
var skipNames = map[string]bool{
	"node_modules":              true,
	"Library":                   true,
	".Trash":                    true,
	"lost+found":                true,
	"$RECYCLE.BIN":              true,
	"System Volume Information": true,
}

// Classify decides what a directory entry name is to the scanner. It only
// inspects the name; the caller is responsible for distinguishing files from
// directories.
func Classify(name string) EntryKind {
	if ShouldSkip(name) {
		return KindSkip
	}
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case VideoExtensions[ext]:
		return KindVideo
	case ImageExtensions[ext]:
		return KindImage
	default:
		return KindOther
	}
}

// ShouldSkip reports whether an entry name is hidden or on the system-noise
// denylist.
func ShouldSkip(name string) bool {
	return strings.HasPrefix(name, ".") || skipNames[name]
}

// IsVideo reports whether the name carries a recognized video extension.
func IsVideo(name string) bool {
	return VideoExtensions[strings.ToLower(filepath.Ext(name))]
}

// IsImage reports whether the name carries a recognized image extension.
func IsImage(name string) bool {
	return ImageExtensions[strings.ToLower(filepath.Ext(name))]
}
