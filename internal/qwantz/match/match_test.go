package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janek37/parse-qwantz/internal/qwantz/block"
	"github.com/janek37/parse-qwantz/internal/qwantz/font"
	"github.com/janek37/parse-qwantz/internal/qwantz/rgeometry"
	"github.com/janek37/parse-qwantz/internal/qwantz/shape"
	"github.com/janek37/parse-qwantz/internal/qwantz/sparseimage"
	"github.com/janek37/parse-qwantz/internal/qwantz/textline"
)

func monoFont() *font.Font {
	return &font.Font{Name: "Regular", Group: "regular", Width: 7, Height: 13, Baseline: 10, SpaceWidth: 4, IsMono: true}
}

// charsOf lays out text as a monospace run of CharBoxes starting at
// (x, y), the way block_test.go's makeLine does for the block package.
func charsOf(text string, x, y int, f *font.Font) []font.CharBox {
	var chars []font.CharBox
	for _, r := range text {
		box := rgeometry.NewBox(rgeometry.Pixel{X: x, Y: y}, rgeometry.Pixel{X: x + f.Width, Y: y + f.Height})
		chars = append(chars, font.CharBox{Char: r, Box: box})
		x += f.Width
	}
	return chars
}

func TestMissAngleCosDirectHitIsOne(t *testing.T) {
	box := rgeometry.NewBox(rgeometry.Pixel{X: 10, Y: 10}, rgeometry.Pixel{X: 20, Y: 20})
	// Tail runs straight up from (15,30) to (15,25): the ray continues
	// straight into the box, so the tail crosses one of its sides.
	cos := missAngleCos(rgeometry.Pixel{X: 15, Y: 30}, rgeometry.Pixel{X: 15, Y: 25}, box)
	assert.Equal(t, 1.0, cos)
}

func TestMissAngleCosPerpendicularMissIsLow(t *testing.T) {
	box := rgeometry.NewBox(rgeometry.Pixel{X: 100, Y: 0}, rgeometry.Pixel{X: 110, Y: 10})
	// Tail runs straight down near the origin; the box sits far off to the
	// side, so the best corner cosine should fall well under the 0.5
	// acceptance threshold.
	cos := missAngleCos(rgeometry.Pixel{X: 0, Y: 0}, rgeometry.Pixel{X: 0, Y: 5}, box)
	assert.Less(t, cos, 0.5)
}

func TestSegmentsCrossDetectsIntersectingSegments(t *testing.T) {
	l := segment{rgeometry.Pixel{X: 0, Y: 0}, rgeometry.Pixel{X: 10, Y: 10}}
	crossing := segment{rgeometry.Pixel{X: 0, Y: 10}, rgeometry.Pixel{X: 10, Y: 0}}
	assert.True(t, segmentsCross(l, crossing))
}

func TestSegmentsCrossRejectsParallelSegments(t *testing.T) {
	l := segment{rgeometry.Pixel{X: 0, Y: 0}, rgeometry.Pixel{X: 10, Y: 10}}
	parallel := segment{rgeometry.Pixel{X: 0, Y: 5}, rgeometry.Pixel{X: 10, Y: 15}}
	assert.False(t, segmentsCross(l, parallel))
}

func TestCharacterClosestBoxHonorsInactiveSides(t *testing.T) {
	inactiveLeft := rgeometry.NewBox(rgeometry.Pixel{X: 50, Y: 0}, rgeometry.Pixel{X: 60, Y: 10})
	inactiveLeft.InactiveSides = rgeometry.NewSideSet(rgeometry.SideLeft)
	reachable := rgeometry.NewBox(rgeometry.Pixel{X: 0, Y: 0}, rgeometry.Pixel{X: 10, Y: 10})

	c := &Character{Name: "T-Rex", Boxes: []rgeometry.Box{inactiveLeft, reachable}}
	// A pixel directly to the left of inactiveLeft can't reach it (its
	// left side is inactive), so the only candidate is `reachable`.
	box, _, ok := c.ClosestBox(rgeometry.Pixel{X: 30, Y: 5})
	assert.True(t, ok)
	assert.Equal(t, reachable, box)
}

func TestTargetPredicates(t *testing.T) {
	offPanel := characterTarget(OffPanel)
	assert.True(t, offPanel.IsCharacter())
	assert.True(t, offPanel.IsOffPanel())
	assert.False(t, offPanel.IsTextLine())
}

// TestMatchLinesAttributesTailToCharacter covers spec §8's "tail points
// from a declared character straight at a single line" scenario: a
// one-row block and a speech tail whose far endpoint sits exactly on the
// character's box corner (forcing the character-side miss-angle cosine to
// 1, as spec §4.7 step 2 requires) must match the line to that character,
// not leave it unmatched or attribute it to some other target.
func TestMatchLinesAttributesTailToCharacter(t *testing.T) {
	f := monoFont()
	line := textline.TextLine{Chars: charsOf("ROAR", 10, 10, f), Font: f}
	row := block.Row{Lines: []textline.TextLine{line}}
	image := &sparseimage.Image{Width: 200, Height: 200, Pixels: map[rgeometry.Pixel]rgeometry.Color{}}
	blocks := block.BuildBlocks([]block.Row{row}, image)
	require.Len(t, blocks, 1)

	rex := &Character{Name: "T-Rex", Boxes: []rgeometry.Box{
		rgeometry.NewBox(rgeometry.Pixel{X: 100, Y: 10}, rgeometry.Pixel{X: 110, Y: 23}),
	}}

	// Row box right edge sits at x=10+4*7=38; the tail runs from just
	// outside it (38,16) to the character box's top-left corner (100,10).
	// Neither endpoint sits on the image's outer boundary, so this isn't
	// mistaken for an off-panel tail.
	detected := shape.DetectedLine{Line: shape.Line{
		End1: rgeometry.Pixel{X: 38, Y: 16},
		End2: rgeometry.Pixel{X: 100, Y: 10},
	}}

	matches, unmatched := MatchLines([]shape.DetectedLine{detected}, blocks, []*Character{rex}, image)
	require.Empty(t, unmatched)
	require.Len(t, matches, 1)

	m := matches[0]
	var lineTarget, charTarget Target
	if m.A.IsTextLine() {
		lineTarget, charTarget = m.A, m.B
	} else {
		lineTarget, charTarget = m.B, m.A
	}
	require.True(t, lineTarget.IsTextLine())
	require.True(t, charTarget.IsCharacter())
	assert.Equal(t, "ROAR", lineTarget.Line.Text())
	assert.Same(t, rex, charTarget.Char)
}
