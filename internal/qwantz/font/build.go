package font

import (
	goimage "image"

	"github.com/janek37/parse-qwantz/internal/qwantz/rgeometry"
	"github.com/janek37/parse-qwantz/internal/qwantz/sparseimage"
)

// Glyph describes one cell of a glyph-strip image to be loaded into a
// Font's FSA: the character it represents, its padding, and (for
// proportional fonts) an explicit pixel width; monospace glyphs all share
// the font's Width. Ported from fonts.py's per-glyph metadata tuples.
type Glyph struct {
	Char      rune
	LeftPad   int
	RightPad  int
	Width     int // 0 => use the font's fixed Width (monospace)
	NoBold    bool
	NoCutTop  bool
	NoCutBot  bool
	Variant   string
	variantOf rune // when Variant != "", the base char this is an alternate of
}

// Spec is the build-time description of one Font: its metrics and the
// glyph strip to slice glyphs from. Grounded on fonts.py's ALL_FONTS table
// (FONT_SIZES, SHIFTED_VARIANTS) and char_variants.py's per-glyph overrides.
type Spec struct {
	Name          string
	Group         string
	Width         int // 0 for the proportional serif font
	Height        int
	Baseline      int
	SpaceWidth    int
	ItalicOffsets []int
	InitialPad    int
	Glyphs        []Glyph
	StripX        int // x offset of the first glyph cell in the strip image
	StripY        int
}

// Build decodes strip (a glyph-strip raster, one row of glyph cells laid
// out left to right at the spec's metrics) into a ready-to-use Font: it
// slices each glyph's column sequence, derives the bold variant by ORing
// each column with its right neighbor, and — for monospace fonts taller
// than 12px — additionally inserts cut-top-by-1 and cut-bottom-by-1
// variants for glyphs not flagged NoCutTop/NoCutBot. Ported from fonts.py's
// Font.from_file / get_bold_shapes / regular_shape_to_bold / get_bitmask.
func Build(spec Spec, strip goimage.Image) *Font {
	stripImage := sparseimage.FromImage(strip, false)
	f := &Font{
		Name:          spec.Name,
		Group:         spec.Group,
		Width:         spec.Width,
		Height:        spec.Height,
		Baseline:      spec.Baseline,
		SpaceWidth:    spec.SpaceWidth,
		ItalicOffsets: spec.ItalicOffsets,
		IsMono:        spec.Width > 0,
		InitialPad:    spec.InitialPad,
		fsa:           newFSA(),
	}

	x := spec.StripX
	for _, g := range spec.Glyphs {
		width := g.Width
		if width == 0 {
			width = spec.Width
		}
		cols := sliceColumns(stripImage, x, spec.StripY, width, spec.Height)
		info := CharInfo{Char: g.Char, LeftPad: g.LeftPad, RightPad: g.RightPad, Variant: g.Variant}
		f.fsa.insert(cols, info)

		if !g.NoBold {
			f.fsa.insert(boldShape(cols), info)
		}
		if f.IsMono && f.Height > 12 {
			if !g.NoCutBot {
				f.fsa.insert(cutBottom(cols), info)
			}
			if !g.NoCutTop {
				f.fsa.insert(cutTop(cols, spec.Height), info)
			}
		}
		x += width + 1 // one empty separator column between strip cells
	}
	return f
}

// sliceColumns reads width columns of height rows starting at (x, y) in
// image, returning the non-empty prefix/suffix as-is (fully empty leading
// or trailing columns are still significant to the FSA path, so none are
// trimmed here — trimming happens once, at registry build time, by the
// caller choosing accurate glyph cell widths).
func sliceColumns(image *sparseimage.Image, x, y, width, height int) []Column {
	cols := make([]Column, width)
	for col := 0; col < width; col++ {
		var c Column
		for row := 0; row < height; row++ {
			if image.Has(rgeometry.Pixel{X: x + col, Y: y + row}) {
				c |= 1 << uint(row)
			}
		}
		cols[col] = c
	}
	return cols
}

// boldShape ORs each column with its right neighbor, widening the glyph by
// one column (fonts.py's regular_shape_to_bold / get_bold_shapes).
func boldShape(cols []Column) []Column {
	bold := make([]Column, len(cols)+1)
	for i, c := range cols {
		bold[i] |= c
		bold[i+1] |= c
	}
	return bold
}

// cutBottom zeroes the lowest inked row across every column (the font's
// last row bit), used for glyphs whose baseline-hugging descender pixel is
// sometimes clipped by adjacent strokes.
func cutBottom(cols []Column) []Column {
	cut := make([]Column, len(cols))
	for i, c := range cols {
		cut[i] = c &^ (1 << uint(highestSetBit(c)))
	}
	return cut
}

// cutTop zeroes the topmost inked row across every column.
func cutTop(cols []Column, height int) []Column {
	cut := make([]Column, len(cols))
	for i, c := range cols {
		cut[i] = c &^ (1 << uint(lowestSetBit(c)))
	}
	return cut
}

func highestSetBit(c Column) int {
	bit := -1
	for i := 0; i < 64; i++ {
		if c&(1<<uint(i)) != 0 {
			bit = i
		}
	}
	if bit < 0 {
		return 0
	}
	return bit
}

func lowestSetBit(c Column) int {
	for i := 0; i < 64; i++ {
		if c&(1<<uint(i)) != 0 {
			return i
		}
	}
	return 0
}
