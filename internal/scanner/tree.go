package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"video-library/internal/database"
	"video-library/internal/mediatypes"
)

// BuildFolderTree produces exactly one explicit level of the browsing tree:
// the root plus its immediate subdirectories, each annotated with the sum of
// the count index over every folder it contains. Children with a zero
// aggregate are pruned; hidden and symlinked subdirectories are excluded
// regardless of count. Deeper levels are obtained by re-invoking the builder
// with a child as the new root, which keeps each call to one directory
// listing instead of materializing the whole subtree.
func BuildFolderTree(root string, counts FolderCounts) database.FolderNode {
	name := filepath.Base(root)
	if name == "." || name == string(filepath.Separator) {
		name = root
	}

	children := []database.FolderNode{}
	if entries, err := os.ReadDir(root); err == nil {
		for _, entry := range entries {
			if !entry.IsDir() || mediatypes.ShouldSkip(entry.Name()) {
				continue
			}

			childPath := filepath.Join(root, entry.Name())
			count := countVideosUnder(childPath, counts)
			if count == 0 {
				continue
			}

			children = append(children, database.FolderNode{
				Path:       childPath,
				Name:       entry.Name(),
				Children:   []database.FolderNode{},
				VideoCount: count,
			})
		}
	}

	sort.Slice(children, func(i, j int) bool {
		return strings.ToLower(children[i].Name) < strings.ToLower(children[j].Name)
	})

	total := counts[root]
	for _, child := range children {
		total += child.VideoCount
	}

	return database.FolderNode{
		Path:       root,
		Name:       name,
		Children:   children,
		VideoCount: total,
	}
}

// countVideosUnder sums the count index over the folder itself and every
// indexed folder it contains. Containment is decided per path segment, so a
// folder never absorbs a sibling whose name merely shares a prefix.
func countVideosUnder(folder string, counts FolderCounts) int {
	total := counts[folder]
	for path, count := range counts {
		if path != folder && pathContains(folder, path) {
			total += count
		}
	}
	return total
}

// pathContains reports whether child lies strictly under parent in the
// path hierarchy.
func pathContains(parent, child string) bool {
	prefix := strings.TrimSuffix(parent, string(filepath.Separator)) + string(filepath.Separator)
	return strings.HasPrefix(child, prefix)
}
