package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/janek37/parse-qwantz/internal/qwantz/rgeometry"
	"github.com/janek37/parse-qwantz/internal/qwantz/sparseimage"
)

func imageFromPixels(width, height int, black []rgeometry.Pixel) *sparseimage.Image {
	pixels := make(map[rgeometry.Pixel]rgeometry.Color, len(black))
	for _, p := range black {
		pixels[p] = rgeometry.Black
	}
	return &sparseimage.Image{Width: width, Height: height, Pixels: pixels}
}

func TestGetLineAcceptsBackslashDiagonal(t *testing.T) {
	var pixels []rgeometry.Pixel
	for i := 0; i < 6; i++ {
		pixels = append(pixels, rgeometry.Pixel{X: 10 + i, Y: 10 + i})
		pixels = append(pixels, rgeometry.Pixel{X: 11 + i, Y: 10 + i})
	}
	img := imageFromPixels(100, 100, pixels)
	line, ok := GetLine(rgeometry.Pixel{X: 10, Y: 10}, img)
	assert.True(t, ok)
	assert.Equal(t, rgeometry.Pixel{X: 10, Y: 10}, line.Line.End1)
}

func TestGetLineRejectsSolid3x3Square(t *testing.T) {
	var pixels []rgeometry.Pixel
	for x := 0; x < 3; x++ {
		for y := 0; y < 3; y++ {
			pixels = append(pixels, rgeometry.Pixel{X: x, Y: y})
		}
	}
	img := imageFromPixels(100, 100, pixels)
	_, ok := GetLine(rgeometry.Pixel{X: 0, Y: 0}, img)
	assert.False(t, ok)
}

func TestGetLineRejectsBothEndpointsOnEdge(t *testing.T) {
	var pixels []rgeometry.Pixel
	for i := 0; i < 10; i++ {
		pixels = append(pixels, rgeometry.Pixel{X: i, Y: i})
	}
	img := imageFromPixels(10, 10, pixels)
	_, ok := GetLine(rgeometry.Pixel{X: 0, Y: 0}, img)
	assert.False(t, ok)
}

func TestGetThoughtDetectsEnclosedOutline(t *testing.T) {
	var pixels []rgeometry.Pixel
	for x := 10; x <= 30; x++ {
		pixels = append(pixels, rgeometry.Pixel{X: x, Y: 10}, rgeometry.Pixel{X: x, Y: 30})
	}
	for y := 10; y <= 30; y++ {
		pixels = append(pixels, rgeometry.Pixel{X: 10, Y: y}, rgeometry.Pixel{X: 30, Y: y})
	}
	img := imageFromPixels(200, 200, pixels)
	box, shapePixels, ok := GetThought(rgeometry.Pixel{X: 10, Y: 10}, img)
	assert.True(t, ok)
	assert.NotEmpty(t, shapePixels)
	assert.Equal(t, rgeometry.Pixel{X: 10, Y: 10}, box.TopLeft)
}

func TestGetThoughtRejectsOpenShape(t *testing.T) {
	var pixels []rgeometry.Pixel
	for x := 10; x <= 30; x++ {
		pixels = append(pixels, rgeometry.Pixel{X: x, Y: 10})
	}
	img := imageFromPixels(200, 200, pixels)
	_, _, ok := GetThought(rgeometry.Pixel{X: 10, Y: 10}, img)
	assert.False(t, ok)
}
