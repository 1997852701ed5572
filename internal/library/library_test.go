package library

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"video-library/internal/database"
)

// Integration tests exercising the scan -> catalog -> query pipeline end to
// end against a real filesystem and SQLite database.

func setupLibrary(t *testing.T) *Library {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "library.db")
	db, err := database.New(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("failed to open catalog: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return New(db)
}

func makeMedia(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", rel, err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return root
}

func TestScanCatalogsVideos(t *testing.T) {
	lib := setupLibrary(t)
	ctx := context.Background()

	root := makeMedia(t, map[string]string{
		"a.mp4":        "0123456789",
		"sub/b.mkv":    "x",
		"sub/note.txt": "x",
	})

	result, err := lib.Scan(ctx, root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if result.TotalVideos != 2 {
		t.Errorf("TotalVideos = %d, want 2", result.TotalVideos)
	}
	if result.FolderTree.VideoCount != 2 {
		t.Errorf("tree count = %d, want 2", result.FolderTree.VideoCount)
	}

	got, err := lib.GetByPath(ctx, filepath.Join(root, "a.mp4"))
	if err != nil {
		t.Fatalf("GetByPath after scan failed: %v", err)
	}
	if got.Size != 10 {
		t.Errorf("Size = %d, want 10", got.Size)
	}
}

func TestScanMissingTargetFails(t *testing.T) {
	lib := setupLibrary(t)

	if _, err := lib.Scan(context.Background(), "/nonexistent/media"); err == nil {
		t.Error("Scan of a missing folder should fail")
	}
}

func TestRescanDropsDeletedFiles(t *testing.T) {
	lib := setupLibrary(t)
	ctx := context.Background()

	root := makeMedia(t, map[string]string{
		"keep.mp4": "x",
		"gone.mp4": "x",
	})

	if _, err := lib.Scan(ctx, root); err != nil {
		t.Fatalf("first Scan failed: %v", err)
	}

	if err := os.Remove(filepath.Join(root, "gone.mp4")); err != nil {
		t.Fatalf("remove: %v", err)
	}

	result, err := lib.Scan(ctx, root)
	if err != nil {
		t.Fatalf("second Scan failed: %v", err)
	}
	if result.TotalVideos != 1 {
		t.Errorf("TotalVideos after rescan = %d, want 1", result.TotalVideos)
	}

	if _, err := lib.GetByPath(ctx, filepath.Join(root, "gone.mp4")); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("deleted file still cataloged: err = %v", err)
	}
}

func TestScanHonorsRegisteredDepth(t *testing.T) {
	lib := setupLibrary(t)
	ctx := context.Background()

	root := makeMedia(t, map[string]string{
		"top.mp4":          "x",
		"l1/mid.mp4":       "x",
		"l1/l2/deep.mp4":   "x",
		"l1/l2/l3/far.mp4": "x",
	})

	// Depth 1: top level plus one directory level
	if _, err := lib.AddRoot(ctx, root, 1); err != nil {
		t.Fatalf("AddRoot failed: %v", err)
	}

	result, err := lib.Scan(ctx, root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if result.TotalVideos != 2 {
		t.Errorf("depth 1 scan found %d videos, want 2", result.TotalVideos)
	}

	// Raising the depth and rescanning picks up the deeper levels
	if err := lib.SetRootDepth(ctx, root, 3); err != nil {
		t.Fatalf("SetRootDepth failed: %v", err)
	}
	result, err = lib.Scan(ctx, root)
	if err != nil {
		t.Fatalf("rescan failed: %v", err)
	}
	if result.TotalVideos != 4 {
		t.Errorf("depth 3 scan found %d videos, want 4", result.TotalVideos)
	}
}

func TestScanUnregisteredFolderUsesDefaultDepth(t *testing.T) {
	lib := setupLibrary(t)
	ctx := context.Background()

	root := makeMedia(t, map[string]string{
		"l1/l2/in.mp4":     "x",
		"l1/l2/l3/out.mp4": "x",
	})

	result, err := lib.Scan(ctx, root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	// Default depth is 2: l1/l2 is reached, l1/l2/l3 is not
	if result.TotalVideos != 1 {
		t.Errorf("default-depth scan found %d videos, want 1", result.TotalVideos)
	}
}

func TestScanPreservesSiblingFolders(t *testing.T) {
	lib := setupLibrary(t)
	ctx := context.Background()

	parent := makeMedia(t, map[string]string{
		"lib/a.mp4":  "x",
		"lib2/b.mp4": "x",
	})

	if _, err := lib.Scan(ctx, filepath.Join(parent, "lib2")); err != nil {
		t.Fatalf("Scan lib2 failed: %v", err)
	}
	if _, err := lib.Scan(ctx, filepath.Join(parent, "lib")); err != nil {
		t.Fatalf("Scan lib failed: %v", err)
	}

	// Scanning "lib" must not clear records of the textual-prefix sibling "lib2"
	if _, err := lib.GetByPath(ctx, filepath.Join(parent, "lib2", "b.mp4")); err != nil {
		t.Errorf("sibling folder record lost: %v", err)
	}
}

func TestFolderTreeDoesNotCommit(t *testing.T) {
	lib := setupLibrary(t)
	ctx := context.Background()

	root := makeMedia(t, map[string]string{
		"a.mp4": "x",
	})

	tree, err := lib.FolderTree(ctx, root)
	if err != nil {
		t.Fatalf("FolderTree failed: %v", err)
	}
	if tree.VideoCount != 1 {
		t.Errorf("tree count = %d, want 1", tree.VideoCount)
	}

	// Nothing was committed
	page, err := lib.List(ctx, &database.FilterOptions{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.Total != 0 {
		t.Errorf("FolderTree committed %d records", page.Total)
	}
}

func TestMoveUpdatesFileAndCatalog(t *testing.T) {
	lib := setupLibrary(t)
	ctx := context.Background()

	root := makeMedia(t, map[string]string{
		"src/movie.mp4": "content",
	})
	dest := filepath.Join(root, "dest")
	if err := os.MkdirAll(dest, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if _, err := lib.Scan(ctx, filepath.Join(root, "src")); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	oldPath := filepath.Join(root, "src", "movie.mp4")
	moved, err := lib.Move(ctx, oldPath, dest)
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	if moved.Path != filepath.Join(dest, "movie.mp4") {
		t.Errorf("moved path = %s", moved.Path)
	}
	if moved.FolderPath != dest {
		t.Errorf("moved folder = %s, want %s", moved.FolderPath, dest)
	}
	if _, err := os.Stat(moved.Path); err != nil {
		t.Errorf("file not at new location: %v", err)
	}
	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Errorf("file still at old location")
	}
	if _, err := lib.GetByPath(ctx, oldPath); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("old path still cataloged: err = %v", err)
	}
}

func TestMoveUncatalogedPathFails(t *testing.T) {
	lib := setupLibrary(t)

	_, err := lib.Move(context.Background(), "/not/cataloged.mp4", "/tmp")
	if !errors.Is(err, database.ErrNotFound) {
		t.Errorf("Move of uncataloged path: err = %v, want ErrNotFound", err)
	}
}

func TestMoveFailureLeavesCatalogUntouched(t *testing.T) {
	lib := setupLibrary(t)
	ctx := context.Background()

	root := makeMedia(t, map[string]string{
		"src/movie.mp4": "content",
	})

	if _, err := lib.Scan(ctx, filepath.Join(root, "src")); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	oldPath := filepath.Join(root, "src", "movie.mp4")
	if _, err := lib.Move(ctx, oldPath, filepath.Join(root, "missing-dest")); err == nil {
		t.Fatal("Move into a missing directory should fail")
	}

	// Record still points at the original location
	if _, err := lib.GetByPath(ctx, oldPath); err != nil {
		t.Errorf("catalog record lost after failed move: %v", err)
	}
}

func TestGetWithMetadata(t *testing.T) {
	lib := setupLibrary(t)
	ctx := context.Background()

	root := makeMedia(t, map[string]string{"a.mp4": "x"})
	if _, err := lib.Scan(ctx, root); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	video, err := lib.GetByPath(ctx, filepath.Join(root, "a.mp4"))
	if err != nil {
		t.Fatalf("GetByPath failed: %v", err)
	}

	tag, err := lib.db.CreateTag(ctx, "action", "")
	if err != nil {
		t.Fatalf("CreateTag failed: %v", err)
	}
	if err := lib.db.SetVideoTags(ctx, video.ID, []string{tag.ID}); err != nil {
		t.Fatalf("SetVideoTags failed: %v", err)
	}

	meta, err := lib.GetWithMetadata(ctx, video.ID)
	if err != nil {
		t.Fatalf("GetWithMetadata failed: %v", err)
	}
	if meta.Video.ID != video.ID {
		t.Errorf("metadata video id = %s, want %s", meta.Video.ID, video.ID)
	}
	if len(meta.Tags) != 1 || meta.Tags[0].Name != "action" {
		t.Errorf("metadata tags = %+v", meta.Tags)
	}
	if len(meta.Participants) != 0 || len(meta.Languages) != 0 {
		t.Errorf("unexpected associations: %+v", meta)
	}
}

func TestAddRootRequiresExistingDirectory(t *testing.T) {
	lib := setupLibrary(t)

	if _, err := lib.AddRoot(context.Background(), "/does/not/exist", 2); err == nil {
		t.Error("AddRoot should fail for a missing directory")
	}
}

func TestRemoveRootDropsCatalogEntries(t *testing.T) {
	lib := setupLibrary(t)
	ctx := context.Background()

	root := makeMedia(t, map[string]string{"a.mp4": "x"})
	if _, err := lib.AddRoot(ctx, root, 2); err != nil {
		t.Fatalf("AddRoot failed: %v", err)
	}
	if _, err := lib.Scan(ctx, root); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if err := lib.RemoveRoot(ctx, root); err != nil {
		t.Fatalf("RemoveRoot failed: %v", err)
	}

	page, err := lib.List(ctx, &database.FilterOptions{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.Total != 0 {
		t.Errorf("catalog entries survived root removal: %d", page.Total)
	}

	roots, err := lib.Roots(ctx)
	if err != nil {
		t.Fatalf("Roots failed: %v", err)
	}
	if len(roots) != 0 {
		t.Errorf("roots = %+v, want none", roots)
	}
}
