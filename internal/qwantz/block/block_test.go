package block

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/janek37/parse-qwantz/internal/qwantz/font"
	"github.com/janek37/parse-qwantz/internal/qwantz/rgeometry"
	"github.com/janek37/parse-qwantz/internal/qwantz/sparseimage"
	"github.com/janek37/parse-qwantz/internal/qwantz/textline"
)

func testFont() *font.Font {
	return &font.Font{Name: "Regular", Group: "regular", Width: 7, Height: 13, Baseline: 10, SpaceWidth: 4, IsMono: true}
}

func boldFont() *font.Font {
	f := *testFont()
	f.Name = "Bold"
	f.IsBold = true
	return &f
}

// makeLine lays out text as a monospace run of CharBoxes starting at
// (x, y), advancing by f.Width per character, the way the real font
// recognizer would place them.
func makeLine(text string, x, y int, f *font.Font) textline.TextLine {
	var chars []font.CharBox
	for _, r := range text {
		box := rgeometry.NewBox(rgeometry.Pixel{X: x, Y: y}, rgeometry.Pixel{X: x + f.Width, Y: y + f.Height})
		chars = append(chars, font.CharBox{Char: r, Box: box, IsBold: f.IsBold})
		x += f.Width
	}
	return textline.TextLine{Chars: chars, Font: f}
}

func TestAlignmentStrengthFormula(t *testing.T) {
	assert.Equal(t, 15, Alignment{LeftAligned: true, NoGap: true}.Strength())
	assert.Equal(t, 13, Alignment{CharAligned: true, NoGap: true}.Strength())
	assert.Equal(t, 5, Alignment{LeftAligned: true}.Strength())
	assert.Equal(t, 0, Alignment{}.Strength())
	assert.Equal(t, 5, Alignment{LeftAligned: true, TooFar: true, NoGap: true}.Strength(), "TooFar subtracts the full 10 it would otherwise earn from NoGap")
}

func TestGroupRowsFoldsMidLineFontChange(t *testing.T) {
	reg := testFont()
	bold := boldFont()
	first := makeLine("I am", 0, 0, reg)
	second := makeLine("BOLD", first.Box().Right()+2, 0, bold)

	rows := GroupRows([]textline.TextLine{first, second})
	if assert.Len(t, rows, 1) {
		assert.Len(t, rows[0].Lines, 2)
	}
}

func TestGroupRowsKeepsDifferentFontGroupsSeparate(t *testing.T) {
	reg := testFont()
	other := *reg
	other.Group = "small"
	line1 := makeLine("hi", 0, 0, reg)
	line2 := makeLine("lo", line1.Box().Right()+2, 0, &other)

	rows := GroupRows([]textline.TextLine{line1, line2})
	assert.Len(t, rows, 2)
}

func TestBuildBlocksStacksLeftAlignedRows(t *testing.T) {
	reg := testFont()
	row1 := Row{Lines: []textline.TextLine{makeLine("hello", 10, 0, reg)}}
	row2 := Row{Lines: []textline.TextLine{makeLine("world", 10, 13, reg)}}

	img := &sparseimage.Image{Width: 100, Height: 100, Pixels: map[rgeometry.Pixel]rgeometry.Color{}}
	blocks := BuildBlocks([]Row{row1, row2}, img)
	if assert.Len(t, blocks, 1) {
		b := blocks[0]
		assert.Len(t, b.Rows, 2)
		if assert.Len(t, b.Alignments, 1) {
			assert.True(t, b.Alignments[0].LeftAligned)
		}
	}
}

func TestBuildBlocksSplitsNonOverlappingRows(t *testing.T) {
	reg := testFont()
	row1 := Row{Lines: []textline.TextLine{makeLine("left", 0, 0, reg)}}
	row2 := Row{Lines: []textline.TextLine{makeLine("right", 500, 13, reg)}}

	img := &sparseimage.Image{Width: 1000, Height: 100, Pixels: map[rgeometry.Pixel]rgeometry.Color{}}
	blocks := BuildBlocks([]Row{row1, row2}, img)
	assert.Len(t, blocks, 2, "rows whose horizontal intervals don't overlap can't join one block")
}

func TestSplitAtWeakestBoundary(t *testing.T) {
	reg := testFont()
	rows := []Row{
		{Lines: []textline.TextLine{makeLine("aaaa", 0, 0, reg)}},
		{Lines: []textline.TextLine{makeLine("bbbb", 0, 13, reg)}},
		{Lines: []textline.TextLine{makeLine("cccc", 20, 26, reg)}},
		{Lines: []textline.TextLine{makeLine("dddd", 20, 39, reg)}},
	}
	b := TextBlock{
		Rows: rows,
		Alignments: []Alignment{
			{LeftAligned: true, NoGap: true},
			{NoGap: true},
			{LeftAligned: true, NoGap: true},
		},
		Color: rgeometry.Black,
	}

	lineA := rows[0].Lines[0]
	lineB := rows[3].Lines[0]
	assert.True(t, b.CanSplit(lineA, lineB))

	first, second, weakest := b.Split(0, 3)
	assert.Equal(t, b.Alignments[1], weakest)
	assert.Len(t, first.Rows, 2)
	assert.Len(t, second.Rows, 2)
}

func TestCanSplitRejectsSameRow(t *testing.T) {
	reg := testFont()
	line := makeLine("same", 0, 0, reg)
	b := TextBlock{Rows: []Row{{Lines: []textline.TextLine{line}}}}
	assert.False(t, b.CanSplit(line, line))
}

func TestCompareOrderingVerticalDominance(t *testing.T) {
	reg := testFont()
	top := TextBlock{Rows: []Row{{Lines: []textline.TextLine{makeLine("top", 0, 0, reg)}}}}
	bottom := TextBlock{Rows: []Row{{Lines: []textline.TextLine{makeLine("bottom", 0, 100, reg)}}}}
	assert.Equal(t, -1, Compare(top, bottom))
	assert.Equal(t, 1, Compare(bottom, top))
}

func TestCompareOrderingLeftBeforeRightWhenOverlapping(t *testing.T) {
	reg := testFont()
	left := TextBlock{Rows: []Row{{Lines: []textline.TextLine{makeLine("left", 0, 0, reg)}}}}
	right := TextBlock{Rows: []Row{{Lines: []textline.TextLine{makeLine("right", 200, 0, reg)}}}}
	assert.Equal(t, -1, Compare(left, right))
}
