package font

import (
	"github.com/janek37/parse-qwantz/internal/qwantz/rgeometry"
	"github.com/janek37/parse-qwantz/internal/qwantz/sparseimage"
)

// Font is a process-global, immutable bitmap font: a deterministic FSA over
// column bitmasks plus the metrics needed to lay out recognized glyphs.
// Ported from fonts.py's Font dataclass; Width is 0 for the one proportional
// serif font (spec §4.2's "Polymorphic Font = Monospace | Proportional" is
// modeled here as a single struct with a zero Width flagging the
// proportional case, since both variants share identical column-iteration
// and FSA-walking logic and only differ in how glyph boundaries are found).
type Font struct {
	Name       string
	Group      string
	Width      int // 0 => proportional (glyph width varies, found via empty-column scan)
	Height     int
	Baseline   int
	SpaceWidth int
	// ItalicOffsets holds a per-row x-shear offset (e.g. {3,5,9,11} for
	// Italic13); empty for upright fonts.
	ItalicOffsets []int
	IsMono        bool
	IsBold        bool
	InitialPad    int // number of leading empty columns tolerated before a space is emitted

	fsa *fsa
}

// CharBox is a recognized glyph: its character, the Box it occupies in
// image coordinates, its style flags and the pixel set that produced it.
// Ported from fonts.py's CharBox-equivalent inline tuple return.
type CharBox struct {
	Char     rune
	Box      rgeometry.Box
	IsBold   bool
	IsItalic bool
	Pixels   []rgeometry.Pixel
	Variant  string
}

// columnAt extracts the bitmask of image's ink at column x, rows
// [y, y+height), applying the font's italic shear (if any) to row-dependent
// x offsets.
func (f *Font) columnAt(image *sparseimage.Image, x, y int) Column {
	var c Column
	for row := 0; row < f.Height; row++ {
		shift := 0
		if len(f.ItalicOffsets) > 0 {
			shift = italicShiftForRow(f.ItalicOffsets, row)
		}
		if image.Has(rgeometry.Pixel{X: x + shift, Y: y + row}) {
			c |= 1 << uint(row)
		}
	}
	return c
}

// italicShiftForRow returns how many columns row is sheared right by: each
// threshold in offsets (sorted ascending) marks a row at or above which the
// shear increases by one column, mirroring char_variants.py's per-row
// italic offset tables.
func italicShiftForRow(offsets []int, row int) int {
	shift := 0
	for _, threshold := range offsets {
		if row >= threshold {
			shift++
		}
	}
	return shift
}

func isEmptyColumn(c Column) bool { return c == 0 }

// GetChar recognizes one glyph (or a run of spaces) starting at pixel,
// against image. isFirst suppresses the "previous character's right
// padding" allowance the Python get_char applies between glyphs (the first
// glyph in a line has no predecessor to borrow padding from). complement
// carries residual ink bits left over from a proportional-font "combine"
// step at the previous call site (spec §4.2 step 3); pass 0 when none.
//
// It returns the recognized CharBox, the x position immediately following
// the glyph (for the caller to seed the next call), a complement to pass
// into the next call, and whether anything was recognized at all.
func (f *Font) GetChar(pixel rgeometry.Pixel, image *sparseimage.Image, isFirst bool, complement Column) (CharBox, int, Column, bool) {
	x := pixel.X
	maxInitial := f.InitialPad
	if isFirst {
		maxInitial = 0
	}
	firstCol := f.columnAt(image, x, pixel.Y) | complement
	if isEmptyColumn(firstCol) {
		probe := x
		for i := 0; i <= maxInitial; i++ {
			probe = x + i
			if !isEmptyColumn(f.columnAt(image, probe, pixel.Y)) {
				break
			}
			if i == maxInitial {
				return CharBox{}, probe + 1, 0, false
			}
		}
		width := probe - x
		if width <= 0 {
			width = 1
		}
		return CharBox{
			Char: ' ',
			Box:  rgeometry.NewBox(pixel, rgeometry.Pixel{X: x + width, Y: pixel.Y + f.Height}),
		}, x + width, 0, true
	}

	colIndex := 0
	next := func() (Column, bool) {
		var c Column
		if colIndex == 0 {
			c = firstCol
		} else {
			c = f.columnAt(image, x+colIndex, pixel.Y)
		}
		colIndex++
		return c, true
	}
	info, consumed, ok := f.fsa.walk(boundedNext(next, f.Width*2+4))
	if !ok {
		return CharBox{}, x, 0, false
	}

	leftoverComplement := Column(0)
	if f.Width == 0 {
		// Proportional combine step: peek whether the FSA's current state
		// (reached by `consumed` columns) has exactly one outgoing edge
		// that is a subset of the next observed column; if so, consume it
		// and carry the remainder as the complement seed for the next call.
		peekCol := f.columnAt(image, x+consumed, pixel.Y)
		if !isEmptyColumn(peekCol) {
			state := f.stateAfter(image, firstCol, x, pixel.Y, consumed)
			edges := f.subsetEdges(state, peekCol)
			if len(edges) == 1 {
				for edgeCol := range edges {
					leftoverComplement = peekCol &^ edgeCol
				}
			}
		}
	}

	pixels := collectPixels(image, pixel.Y, f.Height, x, consumed)
	box := rgeometry.NewBox(pixel, rgeometry.Pixel{X: x + consumed, Y: pixel.Y + f.Height})
	return CharBox{
		Char:     info.Char,
		Box:      box,
		IsBold:   f.IsBold,
		IsItalic: len(f.ItalicOffsets) > 0,
		Pixels:   pixels,
		Variant:  info.Variant,
	}, x + consumed + info.RightPad, leftoverComplement, true
}

// stateAfter replays the FSA from the start state for `steps` columns,
// reusing firstCol for the first one, to recover the state the walk
// ended up in (fsa.walk only returns the terminal CharInfo, not the raw
// state, since ordinary callers never need it).
func (f *Font) stateAfter(image *sparseimage.Image, firstCol Column, x, y, steps int) int {
	state := 0
	for i := 0; i < steps; i++ {
		c := firstCol
		if i > 0 {
			c = f.columnAt(image, x+i, y)
		}
		state = f.fsa.transitions[state][c]
	}
	return state
}

func collectPixels(image *sparseimage.Image, y, height, x, width int) []rgeometry.Pixel {
	var pixels []rgeometry.Pixel
	for col := 0; col < width; col++ {
		for row := 0; row < height; row++ {
			p := rgeometry.Pixel{X: x + col, Y: y + row}
			if image.Has(p) {
				pixels = append(pixels, p)
			}
		}
	}
	rgeometry.SortPixels(pixels)
	return pixels
}

// boundedNext wraps next so it stops after producing at most max columns,
// guaranteeing fsa.walk terminates even for degenerate inputs (the FSA
// itself is finite-depth per font, but a defensive bound keeps recognition
// from scanning arbitrarily far into unrelated ink when a glyph's trie path
// happens to stay alive unexpectedly long).
func boundedNext(next func() (Column, bool), max int) func() (Column, bool) {
	count := 0
	return func() (Column, bool) {
		if count >= max {
			return 0, false
		}
		count++
		return next()
	}
}
