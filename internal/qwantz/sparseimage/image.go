// Package sparseimage implements the panel-local pixel store described in
// spec §4.1: a dense raster bitmap is reduced to a map from integer
// coordinates to a small palette of quantized colors, with white pixels
// omitted entirely. It is built once per panel and never mutated after
// construction (spec §5 "Shared-resource policy").
package sparseimage

import (
	goimage "image"

	"github.com/janek37/parse-qwantz/common"
	"github.com/janek37/parse-qwantz/internal/qwantz/rgeometry"
)

// Image is a read-only sparse raster: width, height and a map of non-white
// pixels to their quantized color. Ported from simple_image.py's
// SimpleImage.
type Image struct {
	Width, Height int
	Pixels        map[rgeometry.Pixel]rgeometry.Color
}

// FromImage builds an Image from a decoded raster. When trimTop is set,
// pixels in the top-left corner (x<=240 and y<=46) are dropped before
// scanning — the "Ask Professor Science" banner area that panel 1 excludes
// from recognition once the banner has already been detected and recorded
// as a sign (simple_image.py's SimpleImage.from_image(trim_top=...)).
func FromImage(img goimage.Image, trimTop bool) *Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make(map[rgeometry.Pixel]rgeometry.Color, width*height/8)
	warnedUnknown := false
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			rgb := rgeometry.Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
			if rgb == rgeometry.White {
				continue
			}
			if trimTop && x <= 240 && y <= 46 {
				continue
			}
			color, ok := rgeometry.NearestPaletteColor(rgb)
			if !ok {
				if !warnedUnknown {
					warnedUnknown = true
					common.Log.Warning("Unknown color at (%d, %d): %v.", x, y, rgb)
				}
				color = rgb
			}
			if color == rgeometry.White {
				continue
			}
			pixels[rgeometry.Pixel{X: x, Y: y}] = color
		}
	}
	return &Image{Width: width, Height: height, Pixels: pixels}
}

// Get returns the color at pixel, defaulting to White when absent.
// Callers must not rely on bounds checking: a pixel outside [0,Width)x
// [0,Height) simply won't be present in the map, same as the Python
// "caution: no bounds checking!" comment on SimpleImage.get_pixel.
func (im *Image) Get(p rgeometry.Pixel) rgeometry.Color {
	if c, ok := im.Pixels[p]; ok {
		return c
	}
	return rgeometry.White
}

// Has reports whether p is a non-white (inked) pixel.
func (im *Image) Has(p rgeometry.Pixel) bool {
	_, ok := im.Pixels[p]
	return ok
}

// IsOnEdge reports whether p lies on the outer boundary of the image,
// denoting an "off-panel" speech-tail endpoint (spec glossary).
func (im *Image) IsOnEdge(p rgeometry.Pixel) bool {
	return p.X == 0 || p.X == im.Width-1 || p.Y == 0 || p.Y == im.Height-1
}

// DistanceToEdge returns the minimum distance from p to any of the four
// image edges.
func (im *Image) DistanceToEdge(p rgeometry.Pixel) int {
	return min4(p.X, p.Y, im.Width-p.X-1, im.Height-p.Y-1)
}

func min4(a, b, c, d int) int {
	m := a
	for _, v := range []int{b, c, d} {
		if v < m {
			m = v
		}
	}
	return m
}

// SortedPixels returns every inked pixel, sorted lexicographically on
// (X, Y) — the deterministic iteration order the element extractor walks
// (spec §4.5, §5 "Ordering guarantees").
func (im *Image) SortedPixels() []rgeometry.Pixel {
	pixels := make([]rgeometry.Pixel, 0, len(im.Pixels))
	for p := range im.Pixels {
		pixels = append(pixels, p)
	}
	rgeometry.SortPixels(pixels)
	return pixels
}

// Restrict returns a new Image containing only the pixels in keep, sharing
// the same dimensions. The element extractor calls this once per seed to
// build the "filtered view" of pixels still unmatched (spec §4.5 step 1).
func (im *Image) Restrict(keep map[rgeometry.Pixel]bool) *Image {
	pixels := make(map[rgeometry.Pixel]rgeometry.Color, len(keep))
	for p := range keep {
		if c, ok := im.Pixels[p]; ok {
			pixels[p] = c
		}
	}
	return &Image{Width: im.Width, Height: im.Height, Pixels: pixels}
}
