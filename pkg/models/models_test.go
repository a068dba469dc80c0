package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBucket(t *testing.T) {
	assert.Equal(t, 0, Bucket(7))
	assert.Equal(t, 3, Bucket(305))
	assert.Equal(t, 10, Bucket(1000))
}

func TestCacheItemsSorted(t *testing.T) {
	c := Cache{
		"12": {PaintSeed: 12, Float: 0.2},
		"3":  {PaintSeed: 3, Float: 0.9},
		"7":  {PaintSeed: 7, Float: 0.1},
	}

	items := c.Items()
	assert.Equal(t, []int{3, 7, 12}, []int{items[0].PaintSeed, items[1].PaintSeed, items[2].PaintSeed})
}

func TestItemURL(t *testing.T) {
	it := Item{PaintSeed: 1, Playside: "p", Backside: "b"}
	assert.Equal(t, "p", it.URL(Playside))
	assert.Equal(t, "b", it.URL(Backside))
	assert.Equal(t, "1", it.Key())
}
