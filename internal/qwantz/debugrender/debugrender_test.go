package debugrender

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/janek37/parse-qwantz/internal/qwantz/rgeometry"
)

func TestBoundingBoxPadsByGivenMargin(t *testing.T) {
	pixels := []rgeometry.Pixel{{X: 5, Y: 5}, {X: 10, Y: 8}, {X: 3, Y: 12}}
	box := boundingBox(pixels, 3)
	assert.Equal(t, 0, box.Left())
	assert.Equal(t, 2, box.Top())
	assert.Equal(t, 13, box.Right())
	assert.Equal(t, 15, box.Bottom())
}

func TestBoundingBoxEmptyReturnsDummy(t *testing.T) {
	box := boundingBox(nil, 3)
	assert.Equal(t, rgeometry.DummyBox(), box)
}

func TestCenterIsMidpointOfBox(t *testing.T) {
	box := rgeometry.NewBox(rgeometry.Pixel{X: 0, Y: 0}, rgeometry.Pixel{X: 10, Y: 20})
	c := center(box)
	assert.Equal(t, rgeometry.Pixel{X: 5, Y: 10}, c)
}
