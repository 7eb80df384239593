package sources

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/dshills/cmdcon/internal/console/complete"
)

// maxFileCandidates bounds the directory walk so a huge tree cannot
// stall a completion query.
const maxFileCandidates = 2000

// maxFileResults bounds what is handed to the ranking stage.
const maxFileResults = 200

// FileSource completes relative file paths under a root directory.
// Candidates are pre-filtered with fuzzy matching before the engine's
// own scoring runs, so only plausible paths reach the ranking stage.
type FileSource struct {
	root       string
	skipHidden bool
}

// NewFileSource creates a source rooted at dir. Hidden entries and
// common vendor directories are skipped.
func NewFileSource(dir string) *FileSource {
	return &FileSource{root: dir, skipHidden: true}
}

// Name identifies the source in logs and items.
func (s *FileSource) Name() string { return "files" }

// Query walks the root collecting relative paths, then fuzzy-filters
// them against the query. An empty query returns the shallowest paths
// found first.
func (s *FileSource) Query(ctx context.Context, _ complete.Intent, query string) ([]complete.Item, error) {
	paths, err := s.collect(ctx)
	if err != nil {
		return nil, err
	}

	if query != "" {
		matches := fuzzy.Find(query, paths)
		filtered := make([]string, 0, len(matches))
		for _, m := range matches {
			filtered = append(filtered, m.Str)
		}
		paths = filtered
	}
	if len(paths) > maxFileResults {
		paths = paths[:maxFileResults]
	}

	items := make([]complete.Item, 0, len(paths))
	for _, p := range paths {
		items = append(items, complete.Item{
			Text:     p,
			Kind:     complete.KindFile,
			Priority: 70,
			Source:   s.Name(),
		})
	}
	return items, nil
}

var skippedDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"target":       true,
}

func (s *FileSource) collect(ctx context.Context) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		name := d.Name()
		if d.IsDir() {
			if path == s.root {
				return nil
			}
			if (s.skipHidden && strings.HasPrefix(name, ".")) || skippedDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}
		if s.skipHidden && strings.HasPrefix(name, ".") {
			return nil
		}
		rel, rerr := filepath.Rel(s.root, path)
		if rerr != nil {
			return nil
		}
		paths = append(paths, filepath.ToSlash(rel))
		if len(paths) >= maxFileCandidates {
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}
