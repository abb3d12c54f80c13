package block

import (
	"sort"

	"github.com/janek37/parse-qwantz/internal/qwantz/font"
	"github.com/janek37/parse-qwantz/internal/qwantz/rgeometry"
	"github.com/janek37/parse-qwantz/internal/qwantz/sparseimage"
	"github.com/janek37/parse-qwantz/internal/qwantz/textline"
)

// GroupRows implements the horizontal-grouping pass of spec §4.6
// ("Horizontal grouping (rows)"): text lines sharing a baseline within 1px
// and separated by a small enough gap are folded into one Row, so a
// mid-line font change (e.g. a bold word inside a regular sentence)
// doesn't produce two separate lines. Ported from text_lines.py's
// group_text_lines(same_font=True, long_space=True), used by
// get_text_blocks to build its row groups directly.
func GroupRows(lines []textline.TextLine) []Row {
	sorted := make([]textline.TextLine, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool {
		return startOf(sorted[i]).Less(startOf(sorted[j]))
	})

	used := make([]bool, len(sorted))
	var rows []Row
	for i, line := range sorted {
		if used[i] {
			continue
		}
		used[i] = true
		group := []textline.TextLine{line}
		for j := i + 1; j < len(sorted); j++ {
			if used[j] {
				continue
			}
			other := sorted[j]
			if other.Font.Group != line.Font.Group {
				continue
			}
			last := group[len(group)-1]
			box := last.Box()
			otherBox := other.Box()
			if abs(box.Top()+last.Font.Baseline-(otherBox.Top()+other.Font.Baseline)) > 1 {
				continue
			}
			distance := otherBox.Left() - box.Right()
			width := last.Font.SpaceWidth
			if other.Font.SpaceWidth > width {
				width = other.Font.SpaceWidth
			}
			maxDistance := width * 3
			if distance >= -1 && distance <= maxDistance {
				group = append(group, other)
				used[j] = true
			}
		}
		rows = append(rows, Row{Lines: group})
	}
	return rows
}

func startOf(t textline.TextLine) rgeometry.Pixel {
	return t.Box().TopLeft
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// BuildBlocks implements the vertical-stacking pass of spec §4.6: rows are
// walked in start order and greedily attached to the block they best fit,
// repeating over the leftover rows to form subsequent blocks, exactly
// text_blocks.py's get_text_blocks/fit_to_block. image supplies each
// block's sampled color (the color of the first pixel of its first line).
func BuildBlocks(rows []Row, image *sparseimage.Image) []TextBlock {
	sort.SliceStable(rows, func(i, j int) bool {
		return startOf(rows[i].Lines[0]).Less(startOf(rows[j].Lines[0]))
	})

	var blocks []TextBlock
	remaining := rows
	for len(remaining) > 0 {
		newBlock := []Row{remaining[0]}
		var alignments []Alignment
		anchorFont := remaining[0].Lines[0].Font
		var leftover []Row

		color := rgeometry.White
		if p, ok := newBlock[0].Lines[0].FindPixel(); ok {
			color = image.Get(p)
		}

		for _, candidate := range remaining[1:] {
			if p, ok := candidate.Lines[0].FindPixel(); ok && image.Get(p) != color {
				leftover = append(leftover, candidate)
				continue
			}
			if alignment, ok := fitToBlock(candidate, newBlock[len(newBlock)-1], anchorFont); ok {
				newBlock = append(newBlock, candidate)
				alignments = append(alignments, alignment)
			} else {
				leftover = append(leftover, candidate)
			}
		}
		remaining = leftover

		blocks = append(blocks, TextBlock{
			Rows:       newBlock,
			Alignments: alignments,
			Color:      color,
			FontGroup:  anchorFont.Group,
		})
	}
	return blocks
}

// fitToBlock implements fit_to_block: decides whether candidate can be
// appended as the next row below previous, and if so, its Alignment
// against previous (spec §4.6 "Vertical stacking" rules).
func fitToBlock(candidate, previous Row, anchor *font.Font) (Alignment, bool) {
	if candidate.Lines[0].Font.Group != anchor.Group {
		return Alignment{}, false
	}
	firstBox := candidate.Lines[0].Box()
	lastBox := candidate.Lines[len(candidate.Lines)-1].Box()
	left := firstBox.Left()
	right := lastBox.Right()
	top := firstBox.Top()
	if lastBox.Top() < top {
		top = lastBox.Top()
	}

	if previous.allBold() && !candidate.hasBold() {
		return Alignment{}, false
	}

	prevFirstBox := previous.Lines[0].Box()
	prevLastBox := previous.Lines[len(previous.Lines)-1].Box()
	prevLeft := prevFirstBox.Left()
	prevRight := prevFirstBox.Right()
	prevBottom := prevFirstBox.Bottom()
	if prevLastBox.Bottom() > prevBottom {
		prevBottom = prevLastBox.Bottom()
	}

	if rgeometry.GetIntervalDistance([2]int{left, right}, [2]int{prevLeft, prevRight}) != 0 {
		return Alignment{}, false
	}

	height := anchor.Height
	width := anchor.SpaceWidth
	if top < prevBottom-1 || top > prevBottom+height/6 {
		return Alignment{}, false
	}

	alignment := Alignment{}
	if prevLeft == left {
		alignment.LeftAligned = true
	} else if width != 0 && (prevLeft-left)%width == 0 && anchor.IsMono {
		alignment.CharAligned = true
	}
	alignment.NoGap = top <= prevBottom
	alignment.TooFar = top >= prevBottom+height
	return alignment, true
}
