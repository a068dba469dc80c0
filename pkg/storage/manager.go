package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gammascope/pkg/models"
)

// Key identifies one image in the tree
type Key struct {
	PaintSeed int
	Side      models.Side
}

// Index maps an image key to its file path
type Index map[Key]string

// ImagePath returns <root>/<id/100>/<id>_<side>.png
func ImagePath(root string, id int, side models.Side) string {
	return filepath.Join(root, strconv.Itoa(models.Bucket(id)), fmt.Sprintf("%d_%s.png", id, side))
}

// ParseImageName parses "<id>_<side>.png". Names without the playside
// marker count as backside.
func ParseImageName(name string) (Key, bool) {
	if filepath.Ext(name) != ".png" {
		return Key{}, false
	}
	idPart, _, ok := strings.Cut(name, "_")
	if !ok {
		return Key{}, false
	}
	id, err := strconv.Atoi(idPart)
	if err != nil || id < 0 {
		return Key{}, false
	}
	side := models.Backside
	if strings.Contains(name, string(models.Playside)) {
		side = models.Playside
	}
	return Key{PaintSeed: id, Side: side}, true
}

// LoadIndex walks root for image files. A missing root is an empty index.
func LoadIndex(root string) (Index, error) {
	idx := Index{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		key, ok := ParseImageName(d.Name())
		if !ok {
			return nil
		}
		if _, dup := idx[key]; !dup {
			idx[key] = path
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	return idx, nil
}

// Manager handles the image tree and duplicate detection
type Manager struct {
	root       string
	downloaded Index
	mu         sync.RWMutex
}

// NewManager creates a manager for root, creating it and indexing existing images
func NewManager(root string) (*Manager, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}

	idx, err := LoadIndex(root)
	if err != nil {
		return nil, fmt.Errorf("failed to scan existing files: %w", err)
	}

	return &Manager{root: root, downloaded: idx}, nil
}

// IsDownloaded checks whether the image for key is present
func (m *Manager) IsDownloaded(key Key) bool {
	m.mu.RLock()
	_, ok := m.downloaded[key]
	m.mu.RUnlock()
	if ok {
		return true
	}

	path := ImagePath(m.root, key.PaintSeed, key.Side)
	if _, err := os.Stat(path); err == nil {
		m.mu.Lock()
		m.downloaded[key] = path
		m.mu.Unlock()
		return true
	}
	return false
}

// SaveImage writes r to the image path for key via a temp file and rename
func (m *Manager) SaveImage(r io.Reader, key Key) error {
	path := ImagePath(m.root, key.PaintSeed, key.Side)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create bucket directory: %w", err)
	}

	tempFile := path + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	_, err = io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to save image data: %w", err)
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	m.mu.Lock()
	m.downloaded[key] = path
	m.mu.Unlock()

	return nil
}

// Root returns the image tree root
func (m *Manager) Root() string {
	return m.root
}

// GetDownloadedCount returns the number of indexed images
func (m *Manager) GetDownloadedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.downloaded)
}
