package match

import (
	"github.com/janek37/parse-qwantz/common"
	"github.com/janek37/parse-qwantz/internal/qwantz/block"
	"github.com/janek37/parse-qwantz/internal/qwantz/rgeometry"
)

// MatchAboveOrBelow attaches each still-unmatched, non-bold block to the
// speaker(s) of the nearest already-matched block directly above or below
// it, within two line-heights and only when their horizontal spans overlap
// and the two blocks share the same font group and color (spec §4.8's
// final fallback pass, grounded on original_source/parse_qwantz's
// parser.py match_above_or_below). Resolved blocks are added to matches in
// place; the unmatched slice itself is not modified.
func MatchAboveOrBelow(unmatched []block.TextBlock, matches map[*block.TextBlock][]*Character) {
	type entry struct {
		block *block.TextBlock
		chars []*Character
	}
	var matched []entry
	for b, c := range matches {
		matched = append(matched, entry{block: b, chars: c})
	}

	for i := range unmatched {
		candidate := &unmatched[i]
		if candidate.IsBold() {
			continue
		}
		box := candidate.Box()
		var closest []*Character
		bestDistance := -1
		for _, m := range matched {
			if len(m.chars) == 0 {
				continue
			}
			if m.block.FontGroup != candidate.FontGroup || m.block.Color != candidate.Color {
				continue
			}
			otherBox := m.block.Box()
			if rgeometry.GetIntervalDistance([2]int{box.Left(), box.Right()}, [2]int{otherBox.Left(), otherBox.Right()}) != 0 {
				continue
			}
			distance := max(otherBox.Top()-box.Bottom(), box.Top()-otherBox.Bottom())
			lineHeight := max(candidate.Font().Height, m.block.Font().Height)
			if distance < lineHeight*2 && (closest == nil || distance < bestDistance) {
				closest = m.chars
				bestDistance = distance
			}
		}
		if closest != nil {
			common.Log.Warning("Matching disconnected blocks")
			matches[candidate] = closest
		}
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
