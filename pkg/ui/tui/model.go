package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"gammascope/pkg/viewer"
)

const defaultThumbnailWidth = 48

// Options tunes the viewer UI
type Options struct {
	ThumbnailWidth int
}

// Model is the bubbletea model of the viewer
type Model struct {
	session *viewer.Session

	search    textinput.Model
	searching bool

	status      string
	statusError bool

	thumbWidth int
	thumbs     map[string]thumbnail

	width  int
	height int
}

type thumbnail struct {
	text string
	err  error
}

// NewModel creates a viewer model over session
func NewModel(session *viewer.Session, opts Options) *Model {
	ti := textinput.New()
	ti.Prompt = "Template ID: "
	ti.Placeholder = "paint seed"
	ti.CharLimit = 10
	ti.Width = 12

	width := opts.ThumbnailWidth
	if width <= 0 {
		width = defaultThumbnailWidth
	}

	return &Model{
		session:    session,
		search:     ti,
		thumbWidth: width,
		thumbs:     make(map[string]thumbnail),
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Searching reports whether the search prompt is open
func (m *Model) Searching() bool {
	return m.searching
}

// Status returns the last status line
func (m *Model) Status() string {
	return m.status
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusError = isErr
}

func (m *Model) thumbnailFor(path string) thumbnail {
	if t, ok := m.thumbs[path]; ok {
		return t
	}
	text, err := LoadThumbnail(path, m.thumbWidth)
	t := thumbnail{text: text, err: err}
	m.thumbs[path] = t
	return t
}
