package store

import (
	"errors"
	"fmt"
	"sync"
)

// Favorites is an ordered set of ids persisted as a JSON array.
// Every mutation is written to disk before it returns.
type Favorites struct {
	mu   sync.Mutex
	path string
	ids  []int
	set  map[int]struct{}
}

// LoadFavorites reads path. The returned set is always usable: a missing
// file gives an empty set, and a malformed file gives an empty set together
// with the decode error.
func LoadFavorites(path string) (*Favorites, error) {
	f := &Favorites{path: path, set: make(map[int]struct{})}

	var ids []int
	if _, err := ReadJSON(path, &ids); err != nil {
		return f, err
	}
	for _, id := range ids {
		if _, dup := f.set[id]; dup {
			continue
		}
		f.set[id] = struct{}{}
		f.ids = append(f.ids, id)
	}
	return f, nil
}

// Contains reports membership
func (f *Favorites) Contains(id int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.set[id]
	return ok
}

// IDs returns the favorites in insertion order
func (f *Favorites) IDs() []int {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]int, len(f.ids))
	copy(out, f.ids)
	return out
}

// Len returns the number of favorites
func (f *Favorites) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.ids)
}

// Toggle adds id when absent and removes it when present, then persists.
// It reports whether id is a favorite afterwards. On a write error the
// in-memory set is rolled back.
func (f *Favorites) Toggle(id int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	prev := append([]int(nil), f.ids...)
	_, was := f.set[id]
	if was {
		delete(f.set, id)
		f.ids = removeID(f.ids, id)
	} else {
		f.set[id] = struct{}{}
		f.ids = append(f.ids, id)
	}

	if err := f.saveLocked(); err != nil {
		f.ids = prev
		if was {
			f.set[id] = struct{}{}
		} else {
			delete(f.set, id)
		}
		return was, fmt.Errorf("failed to save favorites: %w", err)
	}
	return !was, nil
}

func (f *Favorites) saveLocked() error {
	if f.path == "" {
		return errors.New("favorites path is empty")
	}
	ids := f.ids
	if ids == nil {
		ids = []int{}
	}
	return WriteJSON(f.path, ids)
}

func removeID(ids []int, id int) []int {
	out := ids[:0:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
