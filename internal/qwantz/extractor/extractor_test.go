package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/janek37/parse-qwantz/internal/qwantz/rgeometry"
	"github.com/janek37/parse-qwantz/internal/qwantz/sparseimage"
)

func TestRemoveAllDeletesGivenPixels(t *testing.T) {
	remaining := map[rgeometry.Pixel]bool{
		{X: 0, Y: 0}: true,
		{X: 1, Y: 0}: true,
		{X: 2, Y: 0}: true,
	}
	removeAll(remaining, []rgeometry.Pixel{{X: 0, Y: 0}, {X: 2, Y: 0}})
	assert.Len(t, remaining, 1)
	assert.True(t, remaining[rgeometry.Pixel{X: 1, Y: 0}])
}

func TestSortedKeysOrdersLexicographically(t *testing.T) {
	m := map[rgeometry.Pixel]bool{
		{X: 5, Y: 0}: true,
		{X: 1, Y: 9}: true,
		{X: 1, Y: 1}: true,
	}
	sorted := sortedKeys(m)
	assert.Equal(t, rgeometry.Pixel{X: 1, Y: 1}, sorted[0])
	assert.Equal(t, rgeometry.Pixel{X: 1, Y: 9}, sorted[1])
	assert.Equal(t, rgeometry.Pixel{X: 5, Y: 0}, sorted[2])
}

func buildBatmanShape(topLeft rgeometry.Pixel, earTips []rgeometry.Pixel) *sparseimage.Image {
	pixels := map[rgeometry.Pixel]rgeometry.Color{}
	for _, offset := range earTips {
		pixels[rgeometry.Pixel{X: topLeft.X + offset.X, Y: topLeft.Y + offset.Y}] = rgeometry.Black
	}
	// pad to the exact silhouette pixel count with contiguous filler ink
	// below the ear tips so the shape remains one connected component.
	x, y := topLeft.X, topLeft.Y+1
	for len(pixels) < batmanHeadPixelCount {
		pixels[rgeometry.Pixel{X: x, Y: y}] = rgeometry.Black
		x++
		if x > topLeft.X+11 {
			x = topLeft.X
			y++
		}
	}
	return &sparseimage.Image{Width: 100, Height: 100, Pixels: pixels}
}

func TestTryBatmanHeadMatchesRightFacingSignature(t *testing.T) {
	topLeft := rgeometry.Pixel{X: 10, Y: 10}
	img := buildBatmanShape(topLeft, batmanEarTipOffsetsRightFacing)
	seed := rgeometry.Pixel{X: topLeft.X + batmanEarTipOffsetsRightFacing[0].X, Y: topLeft.Y}
	extra, ok := tryBatmanHead(seed, img)
	assert.True(t, ok)
	assert.Equal(t, "right", extra.Direction)
	assert.Equal(t, "Floating Batman head", extra.Name)
}

func TestTryBatmanHeadRejectsWrongPixelCount(t *testing.T) {
	img := &sparseimage.Image{Width: 100, Height: 100, Pixels: map[rgeometry.Pixel]rgeometry.Color{
		{X: 10, Y: 10}: rgeometry.Black,
	}}
	_, ok := tryBatmanHead(rgeometry.Pixel{X: 10, Y: 10}, img)
	assert.False(t, ok)
}
