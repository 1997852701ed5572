package database

import "errors"

// ErrNotFound is returned by point lookups when no record matches. Callers
// must treat it as a distinct outcome, never as an empty list.
var ErrNotFound = errors.New("record not found")

// Video is one catalog record, keyed by its unique absolute path.
type Video struct {
	ID            string   `json:"id"`
	Path          string   `json:"path"`
	Filename      string   `json:"filename"`
	FolderPath    string   `json:"folderPath"`
	Size          int64    `json:"size"`
	Duration      *float64 `json:"duration,omitempty"`
	ThumbnailPath *string  `json:"thumbnailPath,omitempty"`
	CreatedAt     string   `json:"createdAt"`
	UpdatedAt     string   `json:"updatedAt"`
}

// MountedRoot is a user-registered directory eligible for scanning.
type MountedRoot struct {
	ID        string `json:"id"`
	Path      string `json:"path"`
	Name      string `json:"name"`
	ScanDepth int    `json:"scanDepth"`
	CreatedAt string `json:"createdAt"`
}

// Tag is a user-defined label attachable to videos.
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Participant is a person associated with videos.
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Language is a spoken/subtitle language associated with videos.
type Language struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// VideoMetadata is a video together with its taxonomy associations.
type VideoMetadata struct {
	Video        Video         `json:"video"`
	Tags         []Tag         `json:"tags"`
	Participants []Participant `json:"participants"`
	Languages    []Language    `json:"languages"`
}

// FolderNode is one node of the count-annotated browsing tree. VideoCount
// aggregates the node's direct count plus all descendants' counts.
type FolderNode struct {
	Path       string       `json:"path"`
	Name       string       `json:"name"`
	Children   []FolderNode `json:"children"`
	VideoCount int          `json:"videoCount"`
}

// ScanResult is the outcome of scanning one folder.
type ScanResult struct {
	TotalVideos int        `json:"totalVideos"`
	NewVideos   int        `json:"newVideos"`
	FolderTree  FolderNode `json:"folderTree"`
	Videos      []Video    `json:"videos"`
}

// FilterOptions describes one catalog query: optional folder scope, facet id
// sets (OR within a facet, AND across facets), filename substring search,
// sort key/direction, and a limit/offset page window.
type FilterOptions struct {
	FolderPath     string   `json:"folderPath,omitempty"`
	TagIDs         []string `json:"tagIds,omitempty"`
	ParticipantIDs []string `json:"participantIds,omitempty"`
	LanguageIDs    []string `json:"languageIds,omitempty"`
	Search         string   `json:"search,omitempty"`
	SortBy         string   `json:"sortBy,omitempty"`
	SortOrder      string   `json:"sortOrder,omitempty"`
	Limit          int      `json:"limit,omitempty"`
	Offset         int      `json:"offset,omitempty"`
}

// VideoPage is one page of a filtered listing. Total is computed by a
// separate count query with the identical predicate; if the catalog is
// mutated between the two queries, Total and Videos can disagree.
type VideoPage struct {
	Videos  []Video `json:"videos"`
	Total   int     `json:"total"`
	HasMore bool    `json:"hasMore"`
}
