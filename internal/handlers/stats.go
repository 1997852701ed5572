package handlers

import (
	"net/http"

	"video-library/internal/database"
	"video-library/internal/logging"

	"github.com/dustin/go-humanize"
)

// StatsResponse is the catalog summary with a human-readable total size.
type StatsResponse struct {
	database.LibraryStats
	TotalSize string `json:"totalSize"`
}

// GetStats returns catalog record counts and the total cataloged size.
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.db.GetStats(r.Context())
	if err != nil {
		logging.Error("stats query failed: %v", err)
		writeJSONError(w, "Failed to compute stats", http.StatusInternalServerError)
		return
	}

	writeJSON(w, StatsResponse{
		LibraryStats: *stats,
		TotalSize:    humanize.Bytes(uint64(stats.TotalBytes)),
	})
}
