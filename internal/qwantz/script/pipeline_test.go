package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janek37/parse-qwantz/internal/qwantz/block"
	"github.com/janek37/parse-qwantz/internal/qwantz/font"
	"github.com/janek37/parse-qwantz/internal/qwantz/match"
	"github.com/janek37/parse-qwantz/internal/qwantz/rgeometry"
	"github.com/janek37/parse-qwantz/internal/qwantz/shape"
	"github.com/janek37/parse-qwantz/internal/qwantz/sparseimage"
	"github.com/janek37/parse-qwantz/internal/qwantz/textline"
)

// positionedLine lays out text as a monospace run of CharBoxes starting at
// (x, y), mirroring block_test.go's makeLine helper in the block package.
func positionedLine(text string, x, y int, f *font.Font) textline.TextLine {
	var chars []font.CharBox
	for _, r := range text {
		box := rgeometry.NewBox(rgeometry.Pixel{X: x, Y: y}, rgeometry.Pixel{X: x + f.Width, Y: y + f.Height})
		chars = append(chars, font.CharBox{Char: r, Box: box})
		x += f.Width
	}
	return textline.TextLine{Chars: chars, Font: f}
}

// TestTwoSpeakerBlockSplitsOnAttribution drives spec §8's scenario 5 (two
// speakers sharing one visually-stacked block) through the real pipeline:
// block.BuildBlocks assembles a single two-row block, match.MatchLines
// attributes each row's speech tail to a different character, and
// match.MatchBlocks must split the block at the seam between the two rows
// before script.GetScriptLines renders two separate lines.
func TestTwoSpeakerBlockSplitsOnAttribution(t *testing.T) {
	f := monoFont(false, false)
	row1 := block.Row{Lines: []textline.TextLine{positionedLine("HELLO", 10, 10, f)}}
	row2 := block.Row{Lines: []textline.TextLine{positionedLine("WORLD", 10, 23, f)}}

	image := &sparseimage.Image{Width: 200, Height: 200, Pixels: map[rgeometry.Pixel]rgeometry.Color{}}
	blocks := block.BuildBlocks([]block.Row{row1, row2}, image)
	require.Len(t, blocks, 1, "same left edge and no vertical gap must stack into one block")
	require.Len(t, blocks[0].Rows, 2)

	rex := &match.Character{Name: "T-Rex", Boxes: []rgeometry.Box{
		rgeometry.NewBox(rgeometry.Pixel{X: 100, Y: 10}, rgeometry.Pixel{X: 110, Y: 23}),
	}}
	raptor := &match.Character{Name: "Utahraptor", Boxes: []rgeometry.Box{
		rgeometry.NewBox(rgeometry.Pixel{X: 100, Y: 23}, rgeometry.Pixel{X: 110, Y: 36}),
	}}

	// Row box right edges sit at x=10+5*7=45; each tail runs from just
	// outside its row to the speaking character's box corner.
	tailToRex := shape.DetectedLine{Line: shape.Line{
		End1: rgeometry.Pixel{X: 45, Y: 16},
		End2: rgeometry.Pixel{X: 100, Y: 10},
	}}
	tailToRaptor := shape.DetectedLine{Line: shape.Line{
		End1: rgeometry.Pixel{X: 45, Y: 29},
		End2: rgeometry.Pixel{X: 100, Y: 23},
	}}

	matches, unmatched := match.MatchLines([]shape.DetectedLine{tailToRex, tailToRaptor}, blocks, []*match.Character{rex, raptor}, image)
	require.Empty(t, unmatched)
	require.Len(t, matches, 2)

	blockMatches, unmatchedBlocks := match.MatchBlocks(matches, blocks)
	require.Empty(t, unmatchedBlocks)
	require.Len(t, blockMatches, 2, "the two different attributions must split the block in two")

	var attributions []Attribution
	for _, bm := range blockMatches {
		attributions = append(attributions, Attribution{Block: bm.Block, Characters: bm.Characters})
	}

	lines := GetScriptLines(attributions, false)
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"T-Rex: HELLO", "Utahraptor: WORLD"}, lines)
}
