package viewer

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gammascope/pkg/models"
	"gammascope/pkg/ranker"
	"gammascope/pkg/storage"
)

// Mode selects the browsing order
type Mode string

const (
	ModeDefault Mode = "default"
	ModeGreen   Mode = "green"
	ModeBlue    Mode = "blue"
)

var (
	ErrNotFound = errors.New("paint seed not found")
	ErrEmpty    = errors.New("no items loaded")
)

// ParseMode accepts "default", "green" or "blue"
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeDefault, ModeGreen, ModeBlue:
		return m, nil
	case "":
		return ModeDefault, nil
	default:
		return "", fmt.Errorf("unknown sort mode %q", s)
	}
}

// FavoriteSet is the persistent favorites store
type FavoriteSet interface {
	Contains(id int) bool
	Toggle(id int) (bool, error)
	Len() int
}

// Entry is everything shown for the current position
type Entry struct {
	Item      models.Item
	Position  int
	Total     int
	Rank      ranker.Row
	HasRank   bool
	Favorite  bool
	ImagePath string
}

// Session is the browsing state of one viewer run
type Session struct {
	items     []models.Item
	ranks     map[string]ranker.Row
	favorites FavoriteSet
	images    storage.Index

	mode      Mode
	view      []models.Item
	pos       int
	showImage bool
}

// NewSession builds a session in default mode at position 0
func NewSession(items []models.Item, ranks map[string]ranker.Row, favorites FavoriteSet, images storage.Index) *Session {
	if ranks == nil {
		ranks = map[string]ranker.Row{}
	}
	if images == nil {
		images = storage.Index{}
	}
	s := &Session{
		items:     append([]models.Item(nil), items...),
		ranks:     ranks,
		favorites: favorites,
		images:    images,
	}
	s.SetMode(ModeDefault)
	return s
}

// Len returns the number of items
func (s *Session) Len() int { return len(s.view) }

// Position returns the zero-based position in the current order
func (s *Session) Position() int { return s.pos }

// Mode returns the current sort mode
func (s *Session) Mode() Mode { return s.mode }

// ShowImage reports whether the image panel is on
func (s *Session) ShowImage() bool { return s.showImage }

// FavoriteCount returns the number of favorites
func (s *Session) FavoriteCount() int {
	if s.favorites == nil {
		return 0
	}
	return s.favorites.Len()
}

// SetMode reorders the items and returns to the first one
func (s *Session) SetMode(m Mode) {
	view := append([]models.Item(nil), s.items...)
	switch m {
	case ModeGreen:
		s.sortByRatio(view, func(r ranker.Row) float64 { return r.GreenRatio })
	case ModeBlue:
		s.sortByRatio(view, func(r ranker.Row) float64 { return r.BlueRatio })
	default:
		m = ModeDefault
		models.SortByID(view)
	}
	s.mode = m
	s.view = view
	s.pos = 0
}

func (s *Session) sortByRatio(view []models.Item, ratio func(ranker.Row) float64) {
	value := func(it models.Item) float64 {
		return ratio(s.ranks[it.Key()])
	}
	sort.SliceStable(view, func(a, b int) bool {
		va, vb := value(view[a]), value(view[b])
		if va != vb {
			return va > vb
		}
		return view[a].PaintSeed < view[b].PaintSeed
	})
}

// Next moves forward, wrapping at the end
func (s *Session) Next() {
	if len(s.view) == 0 {
		return
	}
	s.pos = (s.pos + 1) % len(s.view)
}

// Prev moves back, wrapping at the start
func (s *Session) Prev() {
	if len(s.view) == 0 {
		return
	}
	s.pos = (s.pos - 1 + len(s.view)) % len(s.view)
}

// ToggleImage flips the image panel and returns its new state
func (s *Session) ToggleImage() bool {
	s.showImage = !s.showImage
	return s.showImage
}

// JumpTo moves to the first item with id in the current order. The position
// is unchanged when id is absent.
func (s *Session) JumpTo(id int) error {
	for i, it := range s.view {
		if it.PaintSeed == id {
			s.pos = i
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrNotFound, id)
}

// JumpToInput parses a typed id and jumps to it
func (s *Session) JumpToInput(text string) error {
	id, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return fmt.Errorf("please enter a valid number: %q", text)
	}
	return s.JumpTo(id)
}

// ToggleFavorite flips the current item's favorite flag and persists it
func (s *Session) ToggleFavorite() (bool, error) {
	if len(s.view) == 0 {
		return false, ErrEmpty
	}
	if s.favorites == nil {
		return false, errors.New("favorites are not available")
	}
	return s.favorites.Toggle(s.view[s.pos].PaintSeed)
}

// Current returns the entry at the current position
func (s *Session) Current() (Entry, bool) {
	if len(s.view) == 0 {
		return Entry{}, false
	}
	it := s.view[s.pos]
	rank, ok := s.ranks[it.Key()]

	e := Entry{
		Item:     it,
		Position: s.pos + 1,
		Total:    len(s.view),
		Rank:     rank,
		HasRank:  ok,
	}
	if s.favorites != nil {
		e.Favorite = s.favorites.Contains(it.PaintSeed)
	}
	e.ImagePath = s.images[storage.Key{PaintSeed: it.PaintSeed, Side: models.Playside}]
	return e, true
}
