package handlers

import (
	"errors"
	"net/http"
	"os"

	"video-library/internal/database"
	"video-library/internal/logging"
)

// PlayRequest launches the external player for a cataloged video.
type PlayRequest struct {
	VideoID      string   `json:"videoId"`
	SubtitlePath string   `json:"subtitlePath,omitempty"`
	Position     *float64 `json:"position,omitempty"`
	Resume       bool     `json:"resume,omitempty"`
}

// PlayerStatusResponse reports the external player's state.
type PlayerStatusResponse struct {
	Installed bool `json:"installed"`
	Running   bool `json:"running"`
}

// PlayVideo starts the external player for a video. When Resume is set and
// no explicit position is given, playback restarts at the last saved
// position.
func (h *Handlers) PlayVideo(w http.ResponseWriter, r *http.Request) {
	var req PlayRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.VideoID == "" {
		writeJSONError(w, "videoId is required", http.StatusBadRequest)
		return
	}

	if !h.player.Installed() {
		writeJSONError(w, "Player binary not found in PATH", http.StatusServiceUnavailable)
		return
	}

	video, err := h.lib.Get(r.Context(), req.VideoID)
	if err != nil {
		writeStoreError(w, err, "Video not found")
		return
	}

	if _, err := os.Stat(video.Path); err != nil {
		writeJSONError(w, "Video file is missing on disk", http.StatusConflict)
		return
	}

	position := 0.0
	switch {
	case req.Position != nil:
		position = *req.Position
	case req.Resume:
		saved, err := h.db.GetPlaybackPosition(r.Context(), video.ID)
		if err != nil && !errors.Is(err, database.ErrNotFound) {
			logging.Warn("resume position lookup failed: %v", err)
		} else {
			position = saved
		}
	}

	if err := h.player.Play(video.Path, req.SubtitlePath, position); err != nil {
		logging.Error("player start failed: %v", err)
		writeJSONError(w, "Failed to start player", http.StatusInternalServerError)
		return
	}

	writeJSONStatus(w, "playing")
}

// StopPlayer kills the external player if one is running.
func (h *Handlers) StopPlayer(w http.ResponseWriter, _ *http.Request) {
	h.player.Stop()
	writeJSONStatus(w, "stopped")
}

// GetPlayerStatus reports whether the player binary is installed and whether
// a playback process is currently alive.
func (h *Handlers) GetPlayerStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, PlayerStatusResponse{
		Installed: h.player.Installed(),
		Running:   h.player.IsRunning(),
	})
}
