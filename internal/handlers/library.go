package handlers

import (
	"net/http"
	"strconv"
	"time"

	"video-library/internal/database"
	"video-library/internal/logging"

	"github.com/gorilla/mux"
)

// ScanRequest asks for a full re-scan of one folder.
type ScanRequest struct {
	Path string `json:"path"`
}

// MoveRequest relocates a cataloged video into a different folder.
type MoveRequest struct {
	Path      string `json:"path"`
	NewFolder string `json:"newFolder"`
}

// TriggerScan runs a full scan of the requested folder and replaces its
// catalog slice with the findings.
func (h *Handlers) TriggerScan(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		writeJSONError(w, "Path is required", http.StatusBadRequest)
		return
	}

	start := time.Now()
	result, err := h.lib.Scan(r.Context(), req.Path)
	if err != nil {
		logging.Error("scan of %s failed: %v", req.Path, err)
		writeJSONError(w, "Scan failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	logging.Debug("scan handler completed in %v", time.Since(start))
	writeJSON(w, result)
}

// GetFolderTree returns the one-level folder tree for a folder without
// touching the catalog.
func (h *Handlers) GetFolderTree(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSONError(w, "Path is required", http.StatusBadRequest)
		return
	}

	tree, err := h.lib.FolderTree(r.Context(), path)
	if err != nil {
		logging.Error("folder tree for %s failed: %v", path, err)
		writeJSONError(w, "Failed to read folder", http.StatusInternalServerError)
		return
	}

	writeJSON(w, tree)
}

// ListVideos returns a filtered, sorted page of the catalog.
func (h *Handlers) ListVideos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := &database.FilterOptions{
		FolderPath:     q.Get("folder"),
		TagIDs:         splitIDs(q.Get("tags")),
		ParticipantIDs: splitIDs(q.Get("participants")),
		LanguageIDs:    splitIDs(q.Get("languages")),
		Search:         q.Get("search"),
		SortBy:         q.Get("sort"),
		SortOrder:      q.Get("order"),
	}

	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(q.Get("offset")); err == nil && offset >= 0 {
		filter.Offset = offset
	}

	page, err := h.lib.List(r.Context(), filter)
	if err != nil {
		logging.Error("list videos failed: %v", err)
		writeJSONError(w, "Failed to list videos", http.StatusInternalServerError)
		return
	}

	writeJSON(w, page)
}

// GetVideo returns a single video by id.
func (h *Handlers) GetVideo(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	video, err := h.lib.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "Video not found")
		return
	}

	writeJSON(w, video)
}

// GetVideoByPath returns a single video by its absolute path.
func (h *Handlers) GetVideoByPath(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSONError(w, "Path is required", http.StatusBadRequest)
		return
	}

	video, err := h.lib.GetByPath(r.Context(), path)
	if err != nil {
		writeStoreError(w, err, "Video not found")
		return
	}

	writeJSON(w, video)
}

// GetVideoWithMetadata returns a video together with its tags, participants,
// and languages.
func (h *Handlers) GetVideoWithMetadata(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	meta, err := h.lib.GetWithMetadata(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "Video not found")
		return
	}

	writeJSON(w, meta)
}

// DeleteVideo removes a video record from the catalog. The file on disk is
// left alone.
func (h *Handlers) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.lib.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err, "Video not found")
		return
	}

	writeJSONStatus(w, "deleted")
}

// MoveVideo moves the file on disk into a new folder and updates the record.
// A failed file move leaves the catalog untouched.
func (h *Handlers) MoveVideo(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Path == "" || req.NewFolder == "" {
		writeJSONError(w, "Path and newFolder are required", http.StatusBadRequest)
		return
	}

	video, err := h.lib.Move(r.Context(), req.Path, req.NewFolder)
	if err != nil {
		writeStoreError(w, err, "Video not found")
		return
	}

	writeJSON(w, video)
}
