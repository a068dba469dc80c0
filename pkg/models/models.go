package models

import (
	"sort"
	"strconv"
)

// Side names a rendered face of an item
type Side string

const (
	Playside Side = "playside"
	Backside Side = "backside"
)

// Sides lists both faces in display order
var Sides = []Side{Playside, Backside}

// Descriptor is one entry of an input file's results array
type Descriptor struct {
	PaintSeed         int     `json:"paint_seed"`
	ScreenshotSig     string  `json:"screenshot_sig"`
	SerializedInspect string  `json:"serialized_inspect"`
	FloatValue        float64 `json:"float_value"`
}

// InputFile is the shape of a numbered input file
type InputFile struct {
	Results []Descriptor `json:"results"`
}

// Item is a resolved descriptor with its two image URLs
type Item struct {
	PaintSeed int     `json:"paint_seed"`
	Float     float64 `json:"float"`
	Playside  string  `json:"playside"`
	Backside  string  `json:"backside"`
}

// Key is the item's cache key
func (i Item) Key() string {
	return strconv.Itoa(i.PaintSeed)
}

// URL returns the image URL for side
func (i Item) URL(side Side) string {
	if side == Backside {
		return i.Backside
	}
	return i.Playside
}

// Bucket groups ids by hundreds
func Bucket(id int) int {
	return id / 100
}

// Cache maps a decimal id string to its item
type Cache map[string]Item

// Items returns the cached items sorted by id, then float
func (c Cache) Items() []Item {
	items := make([]Item, 0, len(c))
	for _, it := range c {
		items = append(items, it)
	}
	SortByID(items)
	return items
}

// SortByID orders items by id ascending, float ascending on ties
func SortByID(items []Item) {
	sort.SliceStable(items, func(a, b int) bool {
		if items[a].PaintSeed != items[b].PaintSeed {
			return items[a].PaintSeed < items[b].PaintSeed
		}
		return items[a].Float < items[b].Float
	})
}
