// Package block implements the text-block assembler described in spec
// §4.6: text lines are first grouped horizontally into rows sharing a
// baseline, then rows are stacked vertically into paragraphs ("blocks")
// using interval overlap and font/color/boldness compatibility. Grounded
// on original_source/parse_qwantz's text_blocks.py (TextBlock, content,
// split, get_text_blocks) and its row/alignment bookkeeping.
package block

import (
	"sort"

	"github.com/janek37/parse-qwantz/internal/qwantz/font"
	"github.com/janek37/parse-qwantz/internal/qwantz/rgeometry"
	"github.com/janek37/parse-qwantz/internal/qwantz/textline"
)

// Alignment records how strongly one row bonds to the row above it, used
// later by the block matcher to pick the weakest seam when a block must be
// split between two different speakers (spec §4.6, §4.8).
type Alignment struct {
	LeftAligned bool
	CharAligned bool
	NoGap       bool
	// TooFar marks the case where the new row's top sits at or beyond a
	// full font-height below the previous row's bottom, a bond so loose
	// fit_to_block in text_blocks.py still penalizes it rather than
	// treating it as neutral.
	TooFar bool
}

// Strength is the bond-strength formula from spec §4.6:
// 5*left_aligned + 3*char_aligned_only(elif) + 10*no_gap - 10*too_far.
// char_aligned only contributes when the row isn't already left_aligned
// (the source computes these as an if/elif pair, not additively).
func (a Alignment) Strength() int {
	strength := 0
	if a.LeftAligned {
		strength += 5
	} else if a.CharAligned {
		strength += 3
	}
	if a.NoGap {
		strength += 10
	}
	if a.TooFar {
		strength -= 10
	}
	return strength
}

// Row is a set of TextLines sharing one baseline, built by the horizontal
// grouping pass.
type Row struct {
	Lines []textline.TextLine
}

// Box returns the smallest Box enclosing every line in the row.
func (r Row) Box() rgeometry.Box {
	box := r.Lines[0].Box()
	for _, l := range r.Lines[1:] {
		lb := l.Box()
		box = rgeometry.NewBox(
			rgeometry.Pixel{X: minInt(box.Left(), lb.Left()), Y: minInt(box.Top(), lb.Top())},
			rgeometry.Pixel{X: maxInt(box.Right(), lb.Right()), Y: maxInt(box.Bottom(), lb.Bottom())},
		)
	}
	return box
}

func (r Row) allBold() bool {
	for _, l := range r.Lines {
		for _, c := range l.Chars {
			if !c.IsBold {
				return false
			}
		}
	}
	return true
}

func (r Row) hasBold() bool {
	for _, l := range r.Lines {
		for _, c := range l.Chars {
			if c.IsBold {
				return true
			}
		}
	}
	return false
}

// TextBlock is an ordered list of rows stacked into one paragraph, plus the
// alignment record between each consecutive pair (spec §3 data model).
// Immutable once built, except for Split producing two new blocks.
type TextBlock struct {
	Rows       []Row
	Alignments []Alignment // len(Rows)-1
	Color      rgeometry.Color
	FontGroup  string
}

// Box returns the smallest Box enclosing every row in the block.
func (b TextBlock) Box() rgeometry.Box {
	box := b.Rows[0].Box()
	for _, r := range b.Rows[1:] {
		rb := r.Box()
		box = rgeometry.NewBox(
			rgeometry.Pixel{X: minInt(box.Left(), rb.Left()), Y: minInt(box.Top(), rb.Top())},
			rgeometry.Pixel{X: maxInt(box.Right(), rb.Right()), Y: maxInt(box.Bottom(), rb.Bottom())},
		)
	}
	return box
}

// IsBold reports whether every line in the block is bold.
func (b TextBlock) IsBold() bool {
	for _, row := range b.Rows {
		if !row.allBold() {
			return false
		}
	}
	return true
}

// Font returns the block's anchor font: the font of its very first
// character, used for space-width and line-height comparisons the way
// text_blocks.py's TextBlock.font property does.
func (b TextBlock) Font() *font.Font {
	return b.Rows[0].Lines[0].Font
}

// RowIndex returns the index of the row containing line, or -1.
func (b TextBlock) RowIndex(line textline.TextLine) int {
	for i, row := range b.Rows {
		for _, l := range row.Lines {
			if sameLine(l, line) {
				return i
			}
		}
	}
	return -1
}

func sameLine(a, b textline.TextLine) bool {
	return a.Box() == b.Box() && a.Text() == b.Text()
}

// CanSplit reports whether the rows containing lineA and lineB are
// distinct — a block can only be split at a row boundary, so two
// attributions landing on the same row can never be separated.
func (b TextBlock) CanSplit(lineA, lineB textline.TextLine) bool {
	a, bb := b.RowIndex(lineA), b.RowIndex(lineB)
	return a != bb && a >= 0 && bb >= 0
}

// Split partitions the block at the row boundary with lowest alignment
// bond strength strictly between rowIndexA and rowIndexB (the rows
// containing the two differently-attributed lines), producing two
// sub-blocks. Each call cuts at one seam only. The block matcher calls it
// again on one of the halves when a later, different attribution lands on
// another row of that half, so a block can end up in more than two parts.
func (b TextBlock) Split(rowIndexA, rowIndexB int) (TextBlock, TextBlock, Alignment) {
	lo, hi := rowIndexA, rowIndexB
	if lo > hi {
		lo, hi = hi, lo
	}
	splitAt := lo + 1
	weakestIdx := lo
	if hi > lo+1 {
		weakest := lo
		weakestStrength := b.Alignments[lo].Strength()
		for i := lo + 1; i < hi; i++ {
			if s := b.Alignments[i].Strength(); s < weakestStrength {
				weakest, weakestStrength = i, s
			}
		}
		splitAt = weakest + 1
		weakestIdx = weakest
	}
	splitAlignment := b.Alignments[weakestIdx]

	first := TextBlock{
		Rows:       b.Rows[:splitAt],
		Alignments: b.Alignments[:max(0, splitAt-1)],
		Color:      b.Color,
		FontGroup:  b.FontGroup,
	}
	second := TextBlock{
		Rows:       b.Rows[splitAt:],
		Alignments: b.Alignments[splitAt:],
		Color:      b.Color,
		FontGroup:  b.FontGroup,
	}
	return first, second, splitAlignment
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Compare implements the block ordering partial order from spec §4.6:
// block A precedes block B if A's bottom edge is above B's vertical
// midline; if neither dominates vertically, the left-positioned block
// precedes when its bottom is above the other's bottom. Returns -1, 0 or 1
// (0 meaning "ambiguous — caller should warn and pick an arbitrary but
// stable order").
func Compare(a, b TextBlock) int {
	aBox, bBox := a.Box(), b.Box()
	bMid := (bBox.Top() + bBox.Bottom()) / 2
	aMid := (aBox.Top() + aBox.Bottom()) / 2
	if aBox.Bottom() <= bMid {
		return -1
	}
	if bBox.Bottom() <= aMid {
		return 1
	}
	if aBox.Left() != bBox.Left() {
		aIsLeft := aBox.Left() < bBox.Left()
		if aIsLeft && aBox.Bottom() <= bBox.Bottom() {
			return -1
		}
		if !aIsLeft && bBox.Bottom() <= aBox.Bottom() {
			return 1
		}
	}
	return 0
}

// SortBlocks orders blocks using Compare, breaking ambiguous comparisons by
// original (top-to-bottom-seed) order for stability.
func SortBlocks(blocks []TextBlock) []TextBlock {
	sorted := make([]TextBlock, len(blocks))
	copy(sorted, blocks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return Compare(sorted[i], sorted[j]) < 0
	})
	return sorted
}
