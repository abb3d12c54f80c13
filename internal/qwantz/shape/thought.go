package shape

import (
	"github.com/janek37/parse-qwantz/internal/qwantz/rgeometry"
	"github.com/janek37/parse-qwantz/internal/qwantz/sparseimage"
)

// GetThought flood-fills the shape at seed and, if it forms a closed
// scalloped outline (a thought bubble), returns its bounding box and
// sorted pixel list. Ported from detect_thought.py's get_thought/is_thought:
// a pixel is "enclosed" if a 4-connected BFS from it, constrained to the
// box interior, cannot reach the box's outer frame without crossing the
// shape itself. The shape is tested twice: once as-is, and once
// "tripled" horizontally (each pixel plus the two pixels to its right),
// which closes small scalloped gaps that a single flood-fill pass would
// otherwise leak through.
func GetThought(seed rgeometry.Pixel, image *sparseimage.Image) (rgeometry.Box, []rgeometry.Pixel, bool) {
	origPixels := GetShape(seed, image)
	box := BoundingBox(origPixels, 0)

	tripled := make(map[rgeometry.Pixel]bool, len(origPixels)*3)
	for p := range origPixels {
		tripled[p] = true
		tripled[rgeometry.Pixel{X: p.X + 1, Y: p.Y}] = true
		tripled[rgeometry.Pixel{X: p.X + 2, Y: p.Y}] = true
	}
	origSet := make(map[rgeometry.Pixel]bool, len(origPixels))
	for p := range origPixels {
		origSet[p] = true
	}

	if isThought(tripled, box, image) || isThought(origSet, box, image) {
		return box, SortedKeys(origPixels), true
	}
	if box.Width() == image.Width && distinctYValues(origPixels) > 2 {
		return box, SortedKeys(origPixels), true
	}
	return rgeometry.Box{}, nil, false
}

func distinctYValues(pixels map[rgeometry.Pixel]rgeometry.Color) int {
	ys := map[int]bool{}
	for p := range pixels {
		ys[p.Y] = true
	}
	return len(ys)
}

func isThought(pixels map[rgeometry.Pixel]bool, box rgeometry.Box, image *sparseimage.Image) bool {
	outside := map[rgeometry.Pixel]bool{}
	for y := box.Top() + 1; y < box.Bottom()-1; y++ {
		outside[rgeometry.Pixel{X: box.Left(), Y: y}] = true
		outside[rgeometry.Pixel{X: box.Right() - 1, Y: y}] = true
	}
	for x := box.Left() + 1; x < box.Right()-1; x++ {
		outside[rgeometry.Pixel{X: x, Y: box.Top()}] = true
		outside[rgeometry.Pixel{X: x, Y: box.Bottom() - 1}] = true
	}

	for y := box.Top() + 1; y < box.Bottom()-1; y++ {
		for x := box.Left() + 1; x < box.Right()-1; x++ {
			start := rgeometry.Pixel{X: x, Y: y}
			if pixels[start] {
				continue
			}
			visited := map[rgeometry.Pixel]bool{}
			queue := []rgeometry.Pixel{start}
			escaped := false
			for len(queue) > 0 {
				current := queue[0]
				queue = queue[1:]
				onImageBorder := current.X == 0 || current.X == image.Width-1 ||
					current.Y == 0 || current.Y == image.Height-1
				if visited[current] || pixels[current] || !box.Includes(current) || onImageBorder {
					continue
				}
				if outside[current] {
					escaped = true
					break
				}
				visited[current] = true
				for _, n := range AdjacentPixels(current) {
					queue = append(queue, n)
				}
			}
			if !escaped {
				return true
			}
		}
	}
	return false
}
