package shape

import (
	"sort"

	"github.com/janek37/parse-qwantz/internal/qwantz/rgeometry"
	"github.com/janek37/parse-qwantz/internal/qwantz/sparseimage"
)

// Line is a speech-tail segment: an ordered pair of endpoints whose shape
// is a monotone "\" or "/" diagonal (spec §4.4, glossary "Speech tail").
type Line struct {
	End1, End2 rgeometry.Pixel
}

// Width is the line's pixel thickness, derived from the densest 3x3
// neighbor count seen while scanning the shape (spec §4.4: "thickness 2"
// vs "thickness 1").
type DetectedLine struct {
	Line   Line
	Pixels []rgeometry.Pixel
	Width  int
}

// GetLine flood-fills the shape at seed and, if it is a valid speech-tail
// diagonal, returns its endpoints, sorted pixel list and thickness. It
// rejects: multi-colored shapes, shapes whose corners aren't both inside
// the shape (i.e. not a clean "\" or "/"), shapes with non-contiguous or
// non-monotone column slices, and shapes containing a solid 3x3 block
// (which would make it a glyph stroke, not a tail). Ported from lines.py's
// get_line.
func GetLine(seed rgeometry.Pixel, image *sparseimage.Image) (DetectedLine, bool) {
	pixels := GetShape(seed, image)
	if len(pixels) == 0 {
		return DetectedLine{}, false
	}
	firstColor := firstValue(pixels)
	for _, c := range pixels {
		if c != firstColor {
			return DetectedLine{}, false
		}
	}
	box := BoundingBox(pixels, 0)
	xMin, yMin := box.Left(), box.Top()
	xMax, yMax := box.Right()-1, box.Bottom()-1

	var end1, end2 rgeometry.Pixel
	forward := true
	_, hasTL := pixels[rgeometry.Pixel{X: xMin, Y: yMin}]
	_, hasBR := pixels[rgeometry.Pixel{X: xMax, Y: yMax}]
	_, hasBL := pixels[rgeometry.Pixel{X: xMin, Y: yMax}]
	_, hasTR := pixels[rgeometry.Pixel{X: xMax, Y: yMin}]
	switch {
	case hasTL && hasBR:
		end1, end2 = rgeometry.Pixel{X: xMin, Y: yMin}, rgeometry.Pixel{X: xMax, Y: yMax}
		forward = true
	case hasBL && hasTR:
		end1, end2 = rgeometry.Pixel{X: xMin, Y: yMax}, rgeometry.Pixel{X: xMax, Y: yMin}
		forward = false
	default:
		return DetectedLine{}, false
	}
	if end1 == end2 {
		return DetectedLine{}, false
	}
	dx := end1.X - end2.X
	dy := end1.Y - end2.Y
	if dx*dx+dy*dy < 10 {
		return DetectedLine{}, false
	}

	sortedPixels := SortedKeys(pixels)

	// group by column (x), collect y values per column
	slices := columnSlices(sortedPixels)
	for _, s := range slices {
		for i := 1; i < len(s); i++ {
			if s[i-1]+1 != s[i] {
				return DetectedLine{}, false
			}
		}
	}
	for i := 1; i < len(slices); i++ {
		s1, s2 := slices[i-1], slices[i]
		if forward {
			if s1[0] > s2[0] || s1[len(s1)-1] > s2[len(s2)-1] {
				return DetectedLine{}, false
			}
		} else {
			if s1[0] < s2[0] || s1[len(s1)-1] < s2[len(s2)-1] {
				return DetectedLine{}, false
			}
		}
	}

	maxNeighborCount := 0
	for p := range pixels {
		count := 0
		full3x3 := true
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				if _, ok := pixels[rgeometry.Pixel{X: p.X + i, Y: p.Y + j}]; ok {
					count++
				} else {
					full3x3 = false
				}
			}
		}
		if count > maxNeighborCount {
			maxNeighborCount = count
		}
		if full3x3 {
			return DetectedLine{}, false
		}
	}
	width := 2
	if maxNeighborCount == 3 {
		width = 1
	}

	if image.IsOnEdge(end1) && image.IsOnEdge(end2) {
		return DetectedLine{}, false
	}

	return DetectedLine{Line: Line{End1: end1, End2: end2}, Pixels: sortedPixels, Width: width}, true
}

func columnSlices(sortedPixels []rgeometry.Pixel) [][]int {
	var slices [][]int
	var current []int
	currentX := 0
	first := true
	for _, p := range sortedPixels {
		if first || p.X != currentX {
			if !first {
				slices = append(slices, current)
			}
			current = nil
			currentX = p.X
			first = false
		}
		current = append(current, p.Y)
	}
	if !first {
		slices = append(slices, current)
	}
	for _, s := range slices {
		sort.Ints(s)
	}
	return slices
}

func firstValue(m map[rgeometry.Pixel]rgeometry.Color) rgeometry.Color {
	for _, v := range m {
		return v
	}
	return rgeometry.Color{}
}
