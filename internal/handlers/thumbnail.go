package handlers

import (
	"net/http"
	"os"

	"video-library/internal/logging"

	"github.com/gorilla/mux"
)

// GetThumbnail serves a downscaled thumbnail for a cataloged video. The
// source is the co-located image discovered at scan time; videos without one
// get a 404 so the client can fall back to a default icon.
func (h *Handlers) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if !h.thumbs.IsEnabled() {
		writeJSONError(w, "Thumbnails are disabled", http.StatusNotFound)
		return
	}

	video, err := h.lib.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "Video not found")
		return
	}

	if video.ThumbnailPath == nil || *video.ThumbnailPath == "" {
		writeJSONError(w, "No thumbnail for this video", http.StatusNotFound)
		return
	}

	data, err := h.thumbs.Get(*video.ThumbnailPath)
	if err != nil {
		if os.IsNotExist(err) {
			writeJSONError(w, "Thumbnail source is missing on disk", http.StatusNotFound)
			return
		}
		logging.Error("thumbnail generation for %s failed: %v", video.Path, err)
		writeJSONError(w, "Failed to generate thumbnail", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := w.Write(data); err != nil {
		logging.Debug("thumbnail write: %v", err)
	}
}
