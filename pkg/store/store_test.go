package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gammascope/pkg/logger"
	"gammascope/pkg/models"
)

func TestWriteJSONLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	require.NoError(t, WriteJSON(path, map[string]int{"a": 1}))
	require.NoError(t, WriteJSON(path, map[string]int{"a": 2}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.json", entries[0].Name())

	var got map[string]int
	found, err := ReadJSON(path, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 2, got["a"])
}

func TestReadJSONMissingAndMalformed(t *testing.T) {
	dir := t.TempDir()

	var v []int
	found, err := ReadJSON(filepath.Join(dir, "nope.json"), &v)
	assert.NoError(t, err)
	assert.False(t, found)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0644))
	found, err = ReadJSON(bad, &v)
	assert.Error(t, err)
	assert.True(t, found)
}

func TestCacheStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "success_cache.json")
	s := NewCacheStore(path, logger.NewNopLogger())

	empty, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, empty)

	cache := models.Cache{
		"305": {PaintSeed: 305, Float: 0.012345, Playside: "https://x/p?v=3", Backside: "https://x/b?v=3"},
	}
	require.NoError(t, s.Save(cache))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"paint_seed": 305`)
	assert.Contains(t, string(data), `"playside": "https://x/p?v=3"`)

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, cache, loaded)
}

func TestCacheStoreMalformedIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "success_cache.json")
	require.NoError(t, os.WriteFile(path, []byte(`["not","a","map"]`), 0644))

	_, err := NewCacheStore(path, logger.NewNopLogger()).Load()
	assert.Error(t, err)
}

func TestFailedStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failed_paint_seeds.json")
	s := NewFailedStore(path)

	require.NoError(t, s.Save(nil))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))

	require.NoError(t, s.Save([]string{"9", "3"}))
	ids, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"9", "3"}, ids)
}

func TestFavoritesToggleRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "favorites.json")

	favs, err := LoadFavorites(path)
	require.NoError(t, err)
	assert.Equal(t, 0, favs.Len())

	on, err := favs.Toggle(42)
	require.NoError(t, err)
	assert.True(t, on)
	_, err = favs.Toggle(7)
	require.NoError(t, err)

	reloaded, err := LoadFavorites(path)
	require.NoError(t, err)
	assert.Equal(t, []int{42, 7}, reloaded.IDs())
	assert.True(t, reloaded.Contains(42))

	off, err := reloaded.Toggle(42)
	require.NoError(t, err)
	assert.False(t, off)

	again, err := LoadFavorites(path)
	require.NoError(t, err)
	assert.Equal(t, []int{7}, again.IDs())
	assert.False(t, again.Contains(42))
}

func TestFavoritesMalformedStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "favorites.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"x":1}`), 0644))

	favs, err := LoadFavorites(path)
	assert.Error(t, err)
	require.NotNil(t, favs)
	assert.Equal(t, 0, favs.Len())

	_, err = favs.Toggle(1)
	require.NoError(t, err)
	reloaded, err := LoadFavorites(path)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, reloaded.IDs())
}

func TestFavoritesDeduplicatesOnLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "favorites.json")
	require.NoError(t, os.WriteFile(path, []byte(`[3,3,5]`), 0644))

	favs, err := LoadFavorites(path)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 5}, favs.IDs())
}
