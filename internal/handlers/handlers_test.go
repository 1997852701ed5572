package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"video-library/internal/database"
	"video-library/internal/library"
	"video-library/internal/player"
	"video-library/internal/startup"

	"github.com/gorilla/mux"
)

// setupHandlers wires a Handlers over a real temp catalog. The player binary
// is deliberately bogus so no process is ever spawned.
func setupHandlers(t *testing.T) (*Handlers, *mux.Router) {
	t.Helper()

	tmp := t.TempDir()
	db, err := database.New(context.Background(), filepath.Join(tmp, "test.db"))
	if err != nil {
		t.Fatalf("failed to open catalog: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	config := &startup.Config{
		ThumbnailDir:      filepath.Join(tmp, "thumbs"),
		ThumbnailsEnabled: true,
	}

	h := New(library.New(db), db, player.New("no-such-player-binary"), config)

	r := mux.NewRouter()
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/scan", h.TriggerScan).Methods("POST")
	api.HandleFunc("/folder-tree", h.GetFolderTree).Methods("GET")
	api.HandleFunc("/stats", h.GetStats).Methods("GET")
	api.HandleFunc("/videos", h.ListVideos).Methods("GET")
	api.HandleFunc("/videos/by-path", h.GetVideoByPath).Methods("GET")
	api.HandleFunc("/videos/move", h.MoveVideo).Methods("POST")
	api.HandleFunc("/videos/{id}", h.GetVideo).Methods("GET")
	api.HandleFunc("/videos/{id}", h.DeleteVideo).Methods("DELETE")
	api.HandleFunc("/videos/{id}/metadata", h.GetVideoWithMetadata).Methods("GET")
	api.HandleFunc("/videos/{id}/tags", h.GetVideoTags).Methods("GET")
	api.HandleFunc("/videos/{id}/tags", h.SetVideoTags).Methods("PUT")
	api.HandleFunc("/videos/{id}/position", h.GetPlaybackPosition).Methods("GET")
	api.HandleFunc("/videos/{id}/position", h.SavePlaybackPosition).Methods("PUT")
	api.HandleFunc("/roots", h.ListRoots).Methods("GET")
	api.HandleFunc("/roots", h.AddRoot).Methods("POST")
	api.HandleFunc("/tags", h.ListTags).Methods("GET")
	api.HandleFunc("/tags", h.CreateTag).Methods("POST")
	api.HandleFunc("/player/status", h.GetPlayerStatus).Methods("GET")
	api.HandleFunc("/player/play", h.PlayVideo).Methods("POST")

	return h, r
}

func doJSON(t *testing.T, r *mux.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, rec.Body.String())
	}
}

func seedMedia(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return root
}

func TestHealthEndpoints(t *testing.T) {
	_, r := setupHandlers(t)

	rec := doJSON(t, r, "GET", "/health", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("/health = %d, want 200", rec.Code)
	}
	var health HealthResponse
	decodeBody(t, rec, &health)
	if health.Status != statusHealthy {
		t.Errorf("status = %s, want %s", health.Status, statusHealthy)
	}

	rec = doJSON(t, r, "GET", "/livez", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("/livez = %d, want 200", rec.Code)
	}

	rec = doJSON(t, r, "GET", "/readyz", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("/readyz = %d, want 200", rec.Code)
	}
}

func TestVersionEndpoint(t *testing.T) {
	_, r := setupHandlers(t)

	rec := doJSON(t, r, "GET", "/version", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("/version = %d, want 200", rec.Code)
	}
	var info startup.BuildInfo
	decodeBody(t, rec, &info)
	if info.GoVersion == "" {
		t.Error("build info missing Go version")
	}
}

func TestScanThenListFlow(t *testing.T) {
	_, r := setupHandlers(t)
	root := seedMedia(t, map[string]string{
		"a.mp4":     "0123456789",
		"sub/b.mkv": "x",
	})

	rec := doJSON(t, r, "POST", "/api/scan", ScanRequest{Path: root})
	if rec.Code != http.StatusOK {
		t.Fatalf("/api/scan = %d: %s", rec.Code, rec.Body.String())
	}
	var result database.ScanResult
	decodeBody(t, rec, &result)
	if result.TotalVideos != 2 {
		t.Errorf("TotalVideos = %d, want 2", result.TotalVideos)
	}

	rec = doJSON(t, r, "GET", "/api/videos?sort=filename&order=asc", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("/api/videos = %d", rec.Code)
	}
	var page database.VideoPage
	decodeBody(t, rec, &page)
	if page.Total != 2 || page.HasMore {
		t.Errorf("page = total %d hasMore %v, want 2/false", page.Total, page.HasMore)
	}

	// Point lookup round-trips through the by-path endpoint
	rec = doJSON(t, r, "GET", "/api/videos/by-path?path="+root+"/a.mp4", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("/api/videos/by-path = %d", rec.Code)
	}
	var video database.Video
	decodeBody(t, rec, &video)
	if video.Filename != "a.mp4" || video.Size != 10 {
		t.Errorf("video = %+v", video)
	}

	// And by id, including metadata
	rec = doJSON(t, r, "GET", "/api/videos/"+video.ID+"/metadata", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("metadata = %d", rec.Code)
	}
	var meta database.VideoMetadata
	decodeBody(t, rec, &meta)
	if meta.Video.ID != video.ID || len(meta.Tags) != 0 {
		t.Errorf("metadata = %+v", meta)
	}
}

func TestScanRequiresPath(t *testing.T) {
	_, r := setupHandlers(t)

	rec := doJSON(t, r, "POST", "/api/scan", ScanRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty scan path = %d, want 400", rec.Code)
	}

	rec = doJSON(t, r, "POST", "/api/scan", ScanRequest{Path: "/nonexistent"})
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("missing scan target = %d, want 500", rec.Code)
	}
}

func TestVideoNotFoundMapsTo404(t *testing.T) {
	_, r := setupHandlers(t)

	rec := doJSON(t, r, "GET", "/api/videos/no-such-id", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET unknown video = %d, want 404", rec.Code)
	}

	rec = doJSON(t, r, "DELETE", "/api/videos/no-such-id", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("DELETE unknown video = %d, want 404", rec.Code)
	}

	rec = doJSON(t, r, "GET", "/api/videos/by-path?path=/nope.mp4", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("by-path unknown = %d, want 404", rec.Code)
	}
}

func TestDeleteVideoEndpoint(t *testing.T) {
	_, r := setupHandlers(t)
	root := seedMedia(t, map[string]string{"a.mp4": "x"})

	doJSON(t, r, "POST", "/api/scan", ScanRequest{Path: root})

	var page database.VideoPage
	decodeBody(t, doJSON(t, r, "GET", "/api/videos", nil), &page)
	if len(page.Videos) != 1 {
		t.Fatalf("expected one video, got %d", len(page.Videos))
	}
	id := page.Videos[0].ID

	rec := doJSON(t, r, "DELETE", "/api/videos/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete = %d", rec.Code)
	}

	rec = doJSON(t, r, "GET", "/api/videos/"+id, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("video survives delete: %d", rec.Code)
	}
}

func TestTagEndpoints(t *testing.T) {
	_, r := setupHandlers(t)
	root := seedMedia(t, map[string]string{"a.mp4": "x"})
	doJSON(t, r, "POST", "/api/scan", ScanRequest{Path: root})

	rec := doJSON(t, r, "POST", "/api/tags", TagRequest{Name: "action"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create tag = %d", rec.Code)
	}
	var tag database.Tag
	decodeBody(t, rec, &tag)

	var page database.VideoPage
	decodeBody(t, doJSON(t, r, "GET", "/api/videos", nil), &page)
	id := page.Videos[0].ID

	rec = doJSON(t, r, "PUT", "/api/videos/"+id+"/tags", AssociationRequest{IDs: []string{tag.ID}})
	if rec.Code != http.StatusOK {
		t.Fatalf("set video tags = %d: %s", rec.Code, rec.Body.String())
	}

	var tags []database.Tag
	decodeBody(t, doJSON(t, r, "GET", "/api/videos/"+id+"/tags", nil), &tags)
	if len(tags) != 1 || tags[0].Name != "action" {
		t.Errorf("video tags = %+v", tags)
	}

	// Filtered listing by the new tag
	var filtered database.VideoPage
	decodeBody(t, doJSON(t, r, "GET", "/api/videos?tags="+tag.ID, nil), &filtered)
	if filtered.Total != 1 {
		t.Errorf("tag filter total = %d, want 1", filtered.Total)
	}
}

func TestPlaybackPositionEndpoints(t *testing.T) {
	_, r := setupHandlers(t)
	root := seedMedia(t, map[string]string{"a.mp4": "x"})
	doJSON(t, r, "POST", "/api/scan", ScanRequest{Path: root})

	var page database.VideoPage
	decodeBody(t, doJSON(t, r, "GET", "/api/videos", nil), &page)
	id := page.Videos[0].ID

	// Never played reads as zero, not as an error
	var pos PositionResponse
	decodeBody(t, doJSON(t, r, "GET", "/api/videos/"+id+"/position", nil), &pos)
	if pos.Position != 0 {
		t.Errorf("initial position = %f, want 0", pos.Position)
	}

	rec := doJSON(t, r, "PUT", "/api/videos/"+id+"/position", PositionRequest{Position: 33.5})
	if rec.Code != http.StatusOK {
		t.Fatalf("save position = %d", rec.Code)
	}

	decodeBody(t, doJSON(t, r, "GET", "/api/videos/"+id+"/position", nil), &pos)
	if pos.Position != 33.5 {
		t.Errorf("position = %f, want 33.5", pos.Position)
	}

	rec = doJSON(t, r, "PUT", "/api/videos/"+id+"/position", PositionRequest{Position: -1})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("negative position = %d, want 400", rec.Code)
	}
}

func TestRootEndpoints(t *testing.T) {
	_, r := setupHandlers(t)
	root := seedMedia(t, map[string]string{"a.mp4": "x"})

	depth := 1
	rec := doJSON(t, r, "POST", "/api/roots", RootRequest{Path: root, ScanDepth: &depth})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add root = %d: %s", rec.Code, rec.Body.String())
	}

	var roots []database.MountedRoot
	decodeBody(t, doJSON(t, r, "GET", "/api/roots", nil), &roots)
	if len(roots) != 1 || roots[0].ScanDepth != 1 {
		t.Errorf("roots = %+v", roots)
	}

	rec = doJSON(t, r, "POST", "/api/roots", RootRequest{Path: "/does/not/exist"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("add missing root = %d, want 400", rec.Code)
	}
}

func TestPlayerStatusAndPlayWithoutBinary(t *testing.T) {
	_, r := setupHandlers(t)

	var status PlayerStatusResponse
	decodeBody(t, doJSON(t, r, "GET", "/api/player/status", nil), &status)
	if status.Installed || status.Running {
		t.Errorf("bogus binary reported as available: %+v", status)
	}

	rec := doJSON(t, r, "POST", "/api/player/play", PlayRequest{VideoID: "whatever"})
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("play without binary = %d, want 503", rec.Code)
	}
}

func TestFolderTreeEndpoint(t *testing.T) {
	_, r := setupHandlers(t)
	root := seedMedia(t, map[string]string{
		"movies/a.mp4": "x",
		"movies/b.mp4": "x",
	})

	rec := doJSON(t, r, "GET", "/api/folder-tree?path="+root, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("folder-tree = %d", rec.Code)
	}
	var tree database.FolderNode
	decodeBody(t, rec, &tree)
	if tree.VideoCount != 2 || len(tree.Children) != 1 {
		t.Errorf("tree = %+v", tree)
	}

	rec = doJSON(t, r, "GET", "/api/folder-tree", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("folder-tree without path = %d, want 400", rec.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	_, r := setupHandlers(t)
	root := seedMedia(t, map[string]string{"a.mp4": "0123456789"})
	doJSON(t, r, "POST", "/api/scan", ScanRequest{Path: root})

	rec := doJSON(t, r, "GET", "/api/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats = %d", rec.Code)
	}
	var stats StatsResponse
	decodeBody(t, rec, &stats)
	if stats.TotalVideos != 1 || stats.TotalBytes != 10 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.TotalSize == "" {
		t.Error("human-readable size missing")
	}
}
