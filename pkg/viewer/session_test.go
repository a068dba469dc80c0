package viewer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gammascope/pkg/config"
	"gammascope/pkg/logger"
	"gammascope/pkg/models"
	"gammascope/pkg/ranker"
	"gammascope/pkg/storage"
	"gammascope/pkg/store"
)

type memFavorites struct {
	set  map[int]bool
	fail error
}

func (m *memFavorites) Contains(id int) bool { return m.set[id] }
func (m *memFavorites) Len() int             { return len(m.set) }
func (m *memFavorites) Toggle(id int) (bool, error) {
	if m.fail != nil {
		return m.set[id], m.fail
	}
	if m.set[id] {
		delete(m.set, id)
		return false, nil
	}
	m.set[id] = true
	return true, nil
}

func fixture() ([]models.Item, map[string]ranker.Row) {
	items := []models.Item{
		{PaintSeed: 30, Float: 0.2},
		{PaintSeed: 10, Float: 0.5},
		{PaintSeed: 20, Float: 0.1},
		{PaintSeed: 10, Float: 0.3},
	}
	ranks := map[string]ranker.Row{
		"10": {TemplateID: "10", GreenRatio: 0.2, BlueRatio: 0.7, GreenRank: 2, BlueRank: 1},
		"20": {TemplateID: "20", GreenRatio: 0.6, BlueRatio: 0.1, GreenRank: 1, BlueRank: 2},
	}
	return items, ranks
}

func ids(s *Session) []int {
	var out []int
	for i := 0; i < s.Len(); i++ {
		e, _ := s.Current()
		out = append(out, e.Item.PaintSeed)
		s.Next()
	}
	return out
}

func TestSortModes(t *testing.T) {
	items, ranks := fixture()
	s := NewSession(items, ranks, &memFavorites{set: map[int]bool{}}, nil)

	assert.Equal(t, ModeDefault, s.Mode())
	assert.Equal(t, []int{10, 10, 20, 30}, ids(s))
	e, _ := s.Current()
	assert.Equal(t, 0.3, e.Item.Float)

	s.SetMode(ModeGreen)
	assert.Equal(t, []int{20, 10, 10, 30}, ids(s))

	s.SetMode(ModeBlue)
	assert.Equal(t, []int{10, 10, 20, 30}, ids(s))
}

func TestSetModeResetsPosition(t *testing.T) {
	items, ranks := fixture()
	s := NewSession(items, ranks, nil, nil)
	s.Next()
	s.Next()
	require.Equal(t, 2, s.Position())

	s.SetMode(ModeGreen)
	assert.Equal(t, 0, s.Position())
}

func TestNavigationWraps(t *testing.T) {
	items, _ := fixture()
	s := NewSession(items, nil, nil, nil)

	s.Prev()
	assert.Equal(t, 3, s.Position())
	s.Next()
	assert.Equal(t, 0, s.Position())
}

func TestEmptySession(t *testing.T) {
	s := NewSession(nil, nil, &memFavorites{set: map[int]bool{}}, nil)
	s.Next()
	s.Prev()
	assert.Equal(t, 0, s.Position())

	_, ok := s.Current()
	assert.False(t, ok)

	_, err := s.ToggleFavorite()
	assert.ErrorIs(t, err, ErrEmpty)
	assert.ErrorIs(t, s.JumpTo(1), ErrNotFound)
}

func TestJumpTo(t *testing.T) {
	items, ranks := fixture()
	s := NewSession(items, ranks, nil, nil)

	require.NoError(t, s.JumpTo(20))
	assert.Equal(t, 2, s.Position())

	err := s.JumpTo(99)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 2, s.Position())

	assert.Error(t, s.JumpToInput("abc"))
	assert.Equal(t, 2, s.Position())
	require.NoError(t, s.JumpToInput("30"))
	assert.Equal(t, 3, s.Position())
}

func TestCurrentEntry(t *testing.T) {
	items, ranks := fixture()
	images := storage.Index{
		{PaintSeed: 10, Side: models.Playside}: "images/0/10_playside.png",
		{PaintSeed: 30, Side: models.Backside}: "images/0/30_backside.png",
	}
	s := NewSession(items, ranks, &memFavorites{set: map[int]bool{10: true}}, images)

	e, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, 1, e.Position)
	assert.Equal(t, 4, e.Total)
	assert.True(t, e.HasRank)
	assert.Equal(t, 2, e.Rank.GreenRank)
	assert.True(t, e.Favorite)
	assert.Equal(t, "images/0/10_playside.png", e.ImagePath)

	require.NoError(t, s.JumpTo(30))
	e, _ = s.Current()
	assert.False(t, e.HasRank)
	assert.False(t, e.Favorite)
	assert.Empty(t, e.ImagePath)
}

func TestToggles(t *testing.T) {
	items, _ := fixture()
	favs := &memFavorites{set: map[int]bool{}}
	s := NewSession(items, nil, favs, nil)

	assert.True(t, s.ToggleImage())
	assert.False(t, s.ToggleImage())

	on, err := s.ToggleFavorite()
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, 1, s.FavoriteCount())

	favs.fail = errors.New("disk full")
	_, err = s.ToggleFavorite()
	assert.Error(t, err)
	assert.Equal(t, 1, s.FavoriteCount())
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("green")
	require.NoError(t, err)
	assert.Equal(t, ModeGreen, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeDefault, m)

	_, err = ParseMode("red")
	assert.Error(t, err)
}

func testConfig(dir string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Fetch.CacheFile = filepath.Join(dir, "success_cache.json")
	cfg.Rank.OutputFile = filepath.Join(dir, "ranking.csv")
	cfg.Viewer.FavoritesFile = filepath.Join(dir, "favorites.json")
	cfg.Download.ImageDir = filepath.Join(dir, "images")
	return cfg
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)

	require.NoError(t, store.WriteJSON(cfg.Fetch.CacheFile, models.Cache{
		"7":   {PaintSeed: 7, Float: 0.01},
		"150": {PaintSeed: 150, Float: 0.02},
	}))
	require.NoError(t, ranker.WriteCSV(cfg.Rank.OutputFile, []ranker.Row{
		{TemplateID: "150", GreenRatio: 0.5, GreenRank: 1, BlueRank: 1},
		{TemplateID: "7", GreenRatio: 0.1, GreenRank: 2, BlueRank: 2},
	}))
	require.NoError(t, os.WriteFile(cfg.Viewer.FavoritesFile, []byte("not json"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.Download.ImageDir, "1"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Download.ImageDir, "1", "150_playside.png"), []byte("x"), 0644))
	cfg.Viewer.StartMode = "green"

	log := logger.NewTestLogger()
	s, err := Load(cfg, log)
	require.NoError(t, err)

	assert.Equal(t, ModeGreen, s.Mode())
	assert.Equal(t, 0, s.FavoriteCount())
	assert.True(t, log.HasMessage("Ignoring unreadable favorites file"))

	e, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, 150, e.Item.PaintSeed)
	assert.NotEmpty(t, e.ImagePath)

	// favorites still persist after a malformed file
	on, err := s.ToggleFavorite()
	require.NoError(t, err)
	assert.True(t, on)
	reloaded, err := store.LoadFavorites(cfg.Viewer.FavoritesFile)
	require.NoError(t, err)
	assert.Equal(t, []int{150}, reloaded.IDs())
}

func TestLoadWithoutCacheFails(t *testing.T) {
	_, err := Load(testConfig(t.TempDir()), logger.NewNopLogger())
	assert.Error(t, err)
}

func TestLoadMalformedCacheFails(t *testing.T) {
	cfg := testConfig(t.TempDir())
	require.NoError(t, os.WriteFile(cfg.Fetch.CacheFile, []byte("{"), 0644))

	_, err := Load(cfg, logger.NewNopLogger())
	assert.Error(t, err)
}
