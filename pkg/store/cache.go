package store

import (
	"gammascope/pkg/logger"
	"gammascope/pkg/models"
)

// CacheStore persists the id to item map of successful lookups
type CacheStore struct {
	path   string
	logger logger.Logger
}

// NewCacheStore creates a store backed by path
func NewCacheStore(path string, log logger.Logger) *CacheStore {
	if log == nil {
		log = logger.GetLogger()
	}
	return &CacheStore{path: path, logger: log}
}

// Path returns the backing file
func (s *CacheStore) Path() string {
	return s.path
}

// Load reads the cache. A missing file is an empty cache; an unreadable
// or malformed one is an error.
func (s *CacheStore) Load() (models.Cache, error) {
	cache := models.Cache{}
	found, err := ReadJSON(s.path, &cache)
	if err != nil {
		return nil, err
	}
	if cache == nil {
		cache = models.Cache{}
	}

	s.logger.DebugWithFields("Cache loaded", map[string]interface{}{
		"path":  s.path,
		"found": found,
		"items": len(cache),
	})
	return cache, nil
}

// Save rewrites the whole cache atomically
func (s *CacheStore) Save(cache models.Cache) error {
	if err := WriteJSON(s.path, cache); err != nil {
		return err
	}
	s.logger.DebugWithFields("Cache saved", map[string]interface{}{
		"path":  s.path,
		"items": len(cache),
	})
	return nil
}

// FailedStore persists the ids that exhausted their retries, in attempt order
type FailedStore struct {
	path string
}

// NewFailedStore creates a store backed by path
func NewFailedStore(path string) *FailedStore {
	return &FailedStore{path: path}
}

// Load reads the failed id list; missing means empty
func (s *FailedStore) Load() ([]string, error) {
	var ids []string
	if _, err := ReadJSON(s.path, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// Save rewrites the failed id list. A nil list is written as [].
func (s *FailedStore) Save(ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	return WriteJSON(s.path, ids)
}
