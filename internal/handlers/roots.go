package handlers

import (
	"net/http"

	"video-library/internal/database"
	"video-library/internal/logging"
)

// RootRequest registers or updates a scan root.
type RootRequest struct {
	Path      string `json:"path"`
	ScanDepth *int   `json:"scanDepth,omitempty"`
}

// ListRoots returns every registered scan root.
func (h *Handlers) ListRoots(w http.ResponseWriter, r *http.Request) {
	roots, err := h.lib.Roots(r.Context())
	if err != nil {
		logging.Error("list roots failed: %v", err)
		writeJSONError(w, "Failed to list roots", http.StatusInternalServerError)
		return
	}

	if roots == nil {
		roots = []database.MountedRoot{}
	}
	writeJSON(w, roots)
}

// AddRoot registers a directory as a scan root, optionally with an explicit
// scan depth.
func (h *Handlers) AddRoot(w http.ResponseWriter, r *http.Request) {
	var req RootRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		writeJSONError(w, "Path is required", http.StatusBadRequest)
		return
	}

	depth := database.DefaultScanDepth
	if req.ScanDepth != nil {
		depth = *req.ScanDepth
	}

	root, err := h.lib.AddRoot(r.Context(), req.Path, depth)
	if err != nil {
		logging.Error("add root %s failed: %v", req.Path, err)
		writeJSONError(w, "Failed to add root: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, root)
}

// SetRootDepth updates the scan depth of a registered root.
func (h *Handlers) SetRootDepth(w http.ResponseWriter, r *http.Request) {
	var req RootRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Path == "" || req.ScanDepth == nil {
		writeJSONError(w, "Path and scanDepth are required", http.StatusBadRequest)
		return
	}

	if err := h.lib.SetRootDepth(r.Context(), req.Path, *req.ScanDepth); err != nil {
		writeStoreError(w, err, "Root not found")
		return
	}

	writeJSONStatus(w, "updated")
}

// RemoveRoot unregisters a root and drops every cataloged video under it.
func (h *Handlers) RemoveRoot(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSONError(w, "Path is required", http.StatusBadRequest)
		return
	}

	if err := h.lib.RemoveRoot(r.Context(), path); err != nil {
		writeStoreError(w, err, "Root not found")
		return
	}

	writeJSONStatus(w, "removed")
}
