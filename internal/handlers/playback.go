package handlers

import (
	"errors"
	"net/http"

	"video-library/internal/database"
	"video-library/internal/logging"

	"github.com/gorilla/mux"
)

// PositionRequest saves a playback position in seconds.
type PositionRequest struct {
	Position float64 `json:"position"`
}

// PositionResponse is a saved playback position in seconds.
type PositionResponse struct {
	VideoID  string  `json:"videoId"`
	Position float64 `json:"position"`
}

// GetPlaybackPosition returns the last saved playback position for a video.
// An unknown video or one never played yields position zero.
func (h *Handlers) GetPlaybackPosition(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	position, err := h.db.GetPlaybackPosition(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeJSON(w, PositionResponse{VideoID: id, Position: 0})
			return
		}
		logging.Error("get playback position failed: %v", err)
		writeJSONError(w, "Failed to get playback position", http.StatusInternalServerError)
		return
	}

	writeJSON(w, PositionResponse{VideoID: id, Position: position})
}

// SavePlaybackPosition stores the playback position for a video.
func (h *Handlers) SavePlaybackPosition(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req PositionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Position < 0 {
		writeJSONError(w, "Position must be non-negative", http.StatusBadRequest)
		return
	}

	if err := h.db.SavePlaybackPosition(r.Context(), id, req.Position); err != nil {
		writeStoreError(w, err, "Video not found")
		return
	}

	writeJSONStatus(w, "saved")
}
