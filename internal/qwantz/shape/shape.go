// Package shape implements the flood-fill connected-component primitive
// shared by the speech-tail and thought-bubble detectors (spec §4.4), plus
// the detectors themselves. It is grounded on original_source/parse_qwantz's
// shape.py, lines.py and detect_thought.py, and on the teacher's
// internal/jbig2/bitmap seed-fill/connected-components pattern of walking
// an 8-connected neighborhood over a sparse pixel store.
package shape

import (
	"github.com/janek37/parse-qwantz/internal/qwantz/rgeometry"
	"github.com/janek37/parse-qwantz/internal/qwantz/sparseimage"
)

// AdjacentPixels returns the 4-connected neighbors of p (used by the
// thought-bubble BFS, which must not leak through a diagonal gap).
func AdjacentPixels(p rgeometry.Pixel) [4]rgeometry.Pixel {
	return [4]rgeometry.Pixel{
		{p.X - 1, p.Y},
		{p.X, p.Y - 1},
		{p.X, p.Y + 1},
		{p.X + 1, p.Y},
	}
}

// NeighborPixels returns the 8-connected neighbors of p.
func NeighborPixels(p rgeometry.Pixel) [8]rgeometry.Pixel {
	return [8]rgeometry.Pixel{
		{p.X - 1, p.Y - 1}, {p.X - 1, p.Y}, {p.X - 1, p.Y + 1},
		{p.X, p.Y - 1}, {p.X, p.Y + 1},
		{p.X + 1, p.Y - 1}, {p.X + 1, p.Y}, {p.X + 1, p.Y + 1},
	}
}

// GetShape flood-fills the 8-connected set of inked pixels containing
// seed, returning each pixel's color.
func GetShape(seed rgeometry.Pixel, image *sparseimage.Image) map[rgeometry.Pixel]rgeometry.Color {
	pixels := map[rgeometry.Pixel]rgeometry.Color{}
	stack := []rgeometry.Pixel{seed}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := pixels[p]; seen {
			continue
		}
		pixels[p] = image.Get(p)
		for _, n := range NeighborPixels(p) {
			if _, seen := pixels[n]; !seen && image.Has(n) {
				stack = append(stack, n)
			}
		}
	}
	return pixels
}

// BoundingBox returns the smallest Box containing every pixel in shape,
// expanded by padding on every side.
func BoundingBox(shape map[rgeometry.Pixel]rgeometry.Color, padding int) rgeometry.Box {
	first := true
	var minX, minY, maxX, maxY int
	for p := range shape {
		if first {
			minX, maxX = p.X, p.X
			minY, maxY = p.Y, p.Y
			first = false
			continue
		}
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return rgeometry.NewBox(
		rgeometry.Pixel{X: minX - padding, Y: minY - padding},
		rgeometry.Pixel{X: maxX + 1 + padding, Y: maxY + 1 + padding},
	)
}

// SortedKeys returns the pixels of shape in lexicographic order.
func SortedKeys(shape map[rgeometry.Pixel]rgeometry.Color) []rgeometry.Pixel {
	pixels := make([]rgeometry.Pixel, 0, len(shape))
	for p := range shape {
		pixels = append(pixels, p)
	}
	rgeometry.SortPixels(pixels)
	return pixels
}
