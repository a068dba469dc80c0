package gallery

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gammascope/pkg/config"
	"gammascope/pkg/logger"
	"gammascope/pkg/models"
)

func TestBuckets(t *testing.T) {
	items := []models.Item{
		{PaintSeed: 399, Float: 0.1},
		{PaintSeed: 305, Float: 0.2},
		{PaintSeed: 7},
		{PaintSeed: 300},
	}

	b := Buckets(items)
	require.Len(t, b, 2)
	assert.Len(t, b[0], 1)
	require.Len(t, b[3], 3)
	assert.Equal(t, []int{300, 305, 399}, []int{b[3][0].PaintSeed, b[3][1].PaintSeed, b[3][2].PaintSeed})
}

func TestRenderCards(t *testing.T) {
	data, err := Render(Page{
		Title: "Gallery",
		Items: []models.Item{
			{PaintSeed: 305, Float: 0.0123456789, Playside: "https://img/p.png?v=3", Backside: "https://img/b.png?v=3"},
		},
	})
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, "Gallery", doc.Find("h1").Text())
	card := doc.Find(".card")
	require.Equal(t, 1, card.Length())
	assert.Equal(t, "PaintSeed: 305Float: 0.012346", card.Find(".label").Text())

	imgs := card.Find("img")
	require.Equal(t, 2, imgs.Length())
	src, _ := imgs.Eq(0).Attr("src")
	assert.Equal(t, "https://img/p.png?v=3", src)
	alt, _ := imgs.Eq(1).Attr("alt")
	assert.Equal(t, "Backside", alt)
}

func TestWriteAll(t *testing.T) {
	cfg := config.DefaultConfig().Gallery
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")
	w := NewWriter(cfg, logger.NewNopLogger())

	paths, err := w.WriteAll([]models.Item{
		{PaintSeed: 1205}, {PaintSeed: 305}, {PaintSeed: 301}, {PaintSeed: 12},
	})
	require.NoError(t, err)

	require.Equal(t, []string{
		filepath.Join(cfg.OutputDir, "G3_gallery0.html"),
		filepath.Join(cfg.OutputDir, "G3_gallery3.html"),
		filepath.Join(cfg.OutputDir, "G3_gallery12.html"),
	}, paths)

	f, err := os.Open(paths[1])
	require.NoError(t, err)
	defer f.Close()
	doc, err := goquery.NewDocumentFromReader(f)
	require.NoError(t, err)

	var ids []string
	doc.Find(".card").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("data-paint-seed")
		ids = append(ids, id)
	})
	assert.Equal(t, []string{"301", "305"}, ids)
	assert.Equal(t, cfg.Title, doc.Find("title").Text())
}
