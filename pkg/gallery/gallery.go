package gallery

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"gammascope/pkg/config"
	"gammascope/pkg/logger"
	"gammascope/pkg/models"
)

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
.grid { display: flex; flex-wrap: wrap; }
.card { margin: 5px; border: 1px solid #ccc; padding: 3px; width: 150px; }
img { width: 100%; }
.label { text-align: center; font-size: 12px; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="grid">
{{- range .Items}}
<div class="card" data-paint-seed="{{.PaintSeed}}">
<div class="label">PaintSeed: {{.PaintSeed}}<br>Float: {{printf "%.6f" .Float}}</div>
<img src="{{.Playside}}" alt="Playside">
<img src="{{.Backside}}" alt="Backside">
</div>
{{- end}}
</div>
</body>
</html>
`

var page = template.Must(template.New("gallery").Parse(pageTemplate))

// Page is the data rendered into one gallery file
type Page struct {
	Title  string
	Bucket int
	Items  []models.Item
}

// Buckets groups items by id/100, each bucket sorted by id then float
func Buckets(items []models.Item) map[int][]models.Item {
	out := make(map[int][]models.Item)
	for _, it := range items {
		b := models.Bucket(it.PaintSeed)
		out[b] = append(out[b], it)
	}
	for _, list := range out {
		models.SortByID(list)
	}
	return out
}

// Render writes one page
func Render(p Page) ([]byte, error) {
	var buf bytes.Buffer
	if err := page.Execute(&buf, p); err != nil {
		return nil, fmt.Errorf("failed to render gallery %d: %w", p.Bucket, err)
	}
	return buf.Bytes(), nil
}

// Writer renders bucket pages into a directory
type Writer struct {
	dir    string
	prefix string
	title  string
	logger logger.Logger
}

// NewWriter creates a Writer from the gallery configuration
func NewWriter(cfg config.GalleryConfig, log logger.Logger) *Writer {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Writer{
		dir:    cfg.OutputDir,
		prefix: cfg.FilePrefix,
		title:  cfg.Title,
		logger: log.WithField("component", "gallery"),
	}
}

// PagePath returns the file a bucket is written to
func (w *Writer) PagePath(bucket int) string {
	return filepath.Join(w.dir, w.prefix+strconv.Itoa(bucket)+".html")
}

// WriteAll renders one page per bucket and returns the written paths in bucket order
func (w *Writer) WriteAll(items []models.Item) ([]string, error) {
	buckets := Buckets(items)
	keys := make([]int, 0, len(buckets))
	for b := range buckets {
		keys = append(keys, b)
	}
	sort.Ints(keys)

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create gallery directory: %w", err)
	}

	paths := make([]string, 0, len(keys))
	for _, b := range keys {
		data, err := Render(Page{Title: w.title, Bucket: b, Items: buckets[b]})
		if err != nil {
			return paths, err
		}

		path := w.PagePath(b)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)

		w.logger.DebugWithFields("Gallery page written", map[string]interface{}{
			"bucket": b,
			"items":  len(buckets[b]),
			"path":   path,
		})
	}

	w.logger.InfoWithFields("Gallery written", map[string]interface{}{
		"pages": len(paths),
		"items": len(items),
	})
	return paths, nil
}
