// Package extractor implements the element extractor described in spec
// §4.5: it repeatedly seeds at the lexicographically smallest remaining
// pixel and tries, in order, text lines, speech-tail lines, a named
// template shape, thought bubbles, and finally records an unmatched shape.
// Grounded on original_source/parse_qwantz's elements.py (get_elements,
// remove_boxes, remove_italic, remove_subsequence), generalized from its
// list-merge pixel removal to map-based removal over the already map-backed
// sparseimage.Image this port uses throughout.
package extractor

import (
	"github.com/janek37/parse-qwantz/common"
	"github.com/janek37/parse-qwantz/internal/qwantz/font"
	"github.com/janek37/parse-qwantz/internal/qwantz/rgeometry"
	"github.com/janek37/parse-qwantz/internal/qwantz/shape"
	"github.com/janek37/parse-qwantz/internal/qwantz/sparseimage"
	"github.com/janek37/parse-qwantz/internal/qwantz/textline"
)

// maxUnmatchedShapes bounds how many unrecognized shapes a panel may
// accumulate before extraction gives up on it entirely (spec §4.5 step 6).
const maxUnmatchedShapes = 5

// Thought is a detected thought-bubble outline: its bounding box and the
// pixels of its enclosing scallop shape.
type Thought struct {
	Box    rgeometry.Box
	Pixels []rgeometry.Pixel
}

// ExtraCharacter is a named template match — currently only the "Floating
// Batman head" silhouette (spec §4.5 step 4) — carrying the box it
// occupies and a facing direction derived from which of the two signature
// pixel patterns matched.
type ExtraCharacter struct {
	Name      string
	Box       rgeometry.Box
	Direction string
}

// UnmatchedShape is a flood-filled blob the extractor could not attribute
// to any recognizer.
type UnmatchedShape struct {
	Pixels []rgeometry.Pixel
}

// Result collects everything Extract found in one panel.
type Result struct {
	Lines           []shape.DetectedLine
	Thoughts        []Thought
	TextLines       []textline.TextLine
	ExtraCharacters []ExtraCharacter
	UnmatchedShapes []UnmatchedShape
	Aborted         bool
}

// Extract runs the element extractor loop over image against fonts (tried
// in the fixed order given).
func Extract(image *sparseimage.Image, fonts []*font.Font) Result {
	remaining := make(map[rgeometry.Pixel]bool, len(image.Pixels))
	for p := range image.Pixels {
		remaining[p] = true
	}

	var result Result
	for len(remaining) > 0 {
		sorted := sortedKeys(remaining)
		seed := sorted[0]
		view := image.Restrict(remaining)

		if tl, ok := bestTextLine(seed, view, fonts); ok {
			result.TextLines = append(result.TextLines, tl)
			removeAll(remaining, tl.Pixels())
			continue
		}

		if line, ok := shape.GetLine(seed, view); ok {
			result.Lines = append(result.Lines, line)
			removeAll(remaining, line.Pixels)
			continue
		}

		if extra, ok := tryBatmanHead(seed, view); ok {
			result.ExtraCharacters = append(result.ExtraCharacters, extra)
			removeAll(remaining, shape.SortedKeys(shape.GetShape(seed, view)))
			continue
		}

		if box, pixels, ok := shape.GetThought(seed, view); ok {
			result.Thoughts = append(result.Thoughts, Thought{Box: box, Pixels: pixels})
			removeAll(remaining, pixels)
			continue
		}

		unmatchedPixels := shape.SortedKeys(shape.GetShape(seed, view))
		common.Log.Warning("No match found for shape at (%d, %d)", seed.X, seed.Y)
		result.UnmatchedShapes = append(result.UnmatchedShapes, UnmatchedShape{Pixels: unmatchedPixels})
		removeAll(remaining, unmatchedPixels)

		if len(result.UnmatchedShapes) >= maxUnmatchedShapes {
			result.Aborted = true
			break
		}
	}
	return result
}

func sortedKeys(m map[rgeometry.Pixel]bool) []rgeometry.Pixel {
	pixels := make([]rgeometry.Pixel, 0, len(m))
	for p := range m {
		pixels = append(pixels, p)
	}
	rgeometry.SortPixels(pixels)
	return pixels
}

func removeAll(remaining map[rgeometry.Pixel]bool, pixels []rgeometry.Pixel) {
	for _, p := range pixels {
		delete(remaining, p)
	}
}

// bestTextLine implements spec §4.5 step 2: try every font at seed, keep
// the candidates that succeeded, and pick the one whose line extends
// furthest to the right — except that a lone single "-" recognized only by
// Italic loses to any length-1 Regular candidate, since italic fonts are
// far likelier to mis-scan a speech-tail fragment as a hyphen.
func bestTextLine(seed rgeometry.Pixel, image *sparseimage.Image, fonts []*font.Font) (textline.TextLine, bool) {
	type candidate struct {
		line textline.TextLine
		font *font.Font
	}
	var candidates []candidate
	for _, f := range fonts {
		if tl, ok := tryTextLine(seed, image, f); ok {
			candidates = append(candidates, candidate{line: tl, font: f})
		}
	}
	if len(candidates) == 0 {
		return textline.TextLine{}, false
	}

	if len(candidates) == 1 {
		c := candidates[0]
		if c.font.Name == "Italic" && c.line.Text() == "-" {
			for _, f := range fonts {
				if f.Name == "Regular" {
					if tl, ok := tryTextLine(seed, image, f); ok && len(tl.Chars) == 1 {
						return tl, true
					}
				}
			}
		}
		return c.line, true
	}

	best := candidates[0]
	bestReach := best.line.Box().Right()
	for _, c := range candidates[1:] {
		reach := c.line.Box().Right()
		if reach > bestReach {
			best, bestReach = c, reach
		}
	}
	return best.line, true
}

// tryTextLine implements try_text_line (spec §4.3): probe a small
// neighborhood around start. Italic fonts additionally try x-offsets up to
// space_width-3 (glyphs there may sit shifted right of the nominal seed
// column); every font tries y-offsets up to height-1 upward (a seed pixel
// landing on a glyph's lower stroke still belongs to a line that starts
// above it).
func tryTextLine(start rgeometry.Pixel, image *sparseimage.Image, f *font.Font) (textline.TextLine, bool) {
	maxDx := 0
	if len(f.ItalicOffsets) > 0 {
		maxDx = f.SpaceWidth - 3
		if maxDx < 0 {
			maxDx = 0
		}
	}
	for dy := 0; dy < f.Height; dy++ {
		for dx := 0; dx <= maxDx; dx++ {
			probe := rgeometry.Pixel{X: start.X + dx, Y: start.Y - dy}
			if tl, ok := textline.GetTextLine(probe, image, f); ok {
				return tl, true
			}
		}
	}
	return textline.TextLine{}, false
}
