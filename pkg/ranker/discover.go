package ranker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gammascope/pkg/logger"
)

var (
	ErrNoSeparator = errors.New("file name has no '_' separator")
	ErrEmptyID     = errors.New("file name has an empty template id")
)

// Source is one image to score
type Source struct {
	TemplateID string
	Path       string
}

// ParseTemplateID returns the text before the first '_' of a file name
func ParseTemplateID(name string) (string, error) {
	base := filepath.Base(name)
	id, _, ok := strings.Cut(base, "_")
	if !ok {
		return "", fmt.Errorf("%s: %w", base, ErrNoSeparator)
	}
	if id == "" {
		return "", fmt.Errorf("%s: %w", base, ErrEmptyID)
	}
	return id, nil
}

// Discover lists the marker images under root/<subdir> for each subdir.
// Missing subdirs are skipped. When two files share a template id the
// lexically first path is kept.
func Discover(root string, subdirs []string, marker string, log logger.Logger) ([]Source, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	var paths []string
	for _, sub := range subdirs {
		dir := filepath.Join(root, sub)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to list %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.Contains(e.Name(), marker) {
				continue
			}
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	seen := make(map[string]string, len(paths))
	sources := make([]Source, 0, len(paths))
	for _, path := range paths {
		id, err := ParseTemplateID(path)
		if err != nil {
			log.WithError(err).WarnWithFields("Skipping malformed image name", map[string]interface{}{
				"path": path,
			})
			continue
		}
		if first, dup := seen[id]; dup {
			log.WarnWithFields("Skipping duplicate template id", map[string]interface{}{
				"template_id": id,
				"path":        path,
				"kept":        first,
			})
			continue
		}
		seen[id] = path
		sources = append(sources, Source{TemplateID: id, Path: path})
	}

	return sources, nil
}
