package rgeometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoxIncludes(t *testing.T) {
	b := NewBox(Pixel{0, 0}, Pixel{10, 5})
	assert.True(t, b.Includes(Pixel{0, 0}))
	assert.True(t, b.Includes(Pixel{9, 4}))
	assert.False(t, b.Includes(Pixel{10, 4}))
	assert.False(t, b.Includes(Pixel{9, 5}))
}

func TestBoxDistanceInsideIsZero(t *testing.T) {
	b := NewBox(Pixel{0, 0}, Pixel{10, 10})
	d, ok := b.Distance(Pixel{5, 5})
	assert.True(t, ok)
	assert.Equal(t, 0.0, d)
}

func TestBoxDistanceHonorsInactiveSide(t *testing.T) {
	b := Box{TopLeft: Pixel{0, 0}, BottomRight: Pixel{10, 10}, InactiveSides: NewSideSet(SideLeft)}
	_, ok := b.Distance(Pixel{-5, 5})
	assert.False(t, ok, "left side is inactive, so an approach from the left should not resolve")

	d, ok := b.Distance(Pixel{15, 5})
	assert.True(t, ok)
	assert.Equal(t, 6.0, d)
}

func TestGetIntervalDistance(t *testing.T) {
	assert.Equal(t, 0, GetIntervalDistance([2]int{0, 5}, [2]int{3, 8}))
	assert.Equal(t, 2, GetIntervalDistance([2]int{0, 5}, [2]int{7, 8}))
	assert.Equal(t, 2, GetIntervalDistance([2]int{7, 8}, [2]int{0, 5}))
}

func TestBoxWithMargin(t *testing.T) {
	b := NewBox(Pixel{5, 5}, Pixel{10, 10})
	m := b.WithMargin(2, 1)
	assert.Equal(t, Pixel{3, 4}, m.TopLeft)
	assert.Equal(t, Pixel{12, 11}, m.BottomRight)
}
