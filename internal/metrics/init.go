package metrics

// InitializeMetrics pre-populates expected label combinations so that every
// metric is exported from the first Prometheus scrape. Call once at startup.
func InitializeMetrics() {
	for _, op := range []string{
		"initialize_schema", "upsert_video", "clear_folder_videos",
		"get_video_by_path", "get_video_by_id", "delete_video", "update_video_path",
		"list_videos", "count_videos", "commit_scan",
		"add_root", "remove_root", "set_root_depth", "list_roots",
	} {
		DBQueryTotal.WithLabelValues(op, "success")
		DBQueryTotal.WithLabelValues(op, "error")
		DBQueryDuration.WithLabelValues(op)
	}

	for _, status := range []string{"success", "error", "error_not_found"} {
		ThumbnailGenerationsTotal.WithLabelValues(status)
	}

	for _, status := range []string{"success", "error"} {
		PlayerStartsTotal.WithLabelValues(status)
	}
}
