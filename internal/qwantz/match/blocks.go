package match

import (
	"github.com/janek37/parse-qwantz/common"
	"github.com/janek37/parse-qwantz/internal/qwantz/block"
	"github.com/janek37/parse-qwantz/internal/qwantz/textline"
)

// BlockMatch is a TextBlock together with the speaker(s) attributed to it.
// Characters normally holds exactly one entry; it grows past one when a
// block that cannot be split between two attributions (both land on the
// same row) receives a different speaker, which is kept as a co-speaker
// ("T-Rex and Utahraptor: ...").
type BlockMatch struct {
	Block      block.TextBlock
	Characters []*Character
}

// blockState is one block.TextBlock still being attributed, addressed by
// its own pointer identity so splitting can replace its contents in place
// and hand out a second state for the new half (spec §9's pointer-identity
// approach, extended to blocks the same way it's used for TextLines).
type blockState struct {
	block block.TextBlock
	chars []*Character
	// via is the TextLine whose row carries the current attribution, used
	// as the anchor when a later, conflicting attribution needs to find a
	// split seam against it.
	via *textline.TextLine
}

// MatchBlocks lifts the line-level attributions from MatchLines up to whole
// text blocks (spec §4.8). Two text lines appearing on opposite ends of the
// same detected line are "neighbors": they belong to different blocks that
// must share the same speaker, propagated to a fixed point once every
// direct (character, text line) attribution has been applied. Returns the
// attributed blocks and whatever blocks never got a speaker at all.
func MatchBlocks(matches []LineMatch, blocks []block.TextBlock) ([]BlockMatch, []block.TextBlock) {
	states := make([]*blockState, len(blocks))
	for i := range blocks {
		states[i] = &blockState{block: blocks[i]}
	}

	lineOwner := make(map[*textline.TextLine]*blockState)
	for i := range blocks {
		registerLines(lineOwner, states[i], &states[i].block)
	}

	var neighbors [][2]*textline.TextLine

	for _, m := range matches {
		switch {
		case m.A.IsTextLine() && m.B.IsTextLine():
			neighbors = append(neighbors, [2]*textline.TextLine{m.A.Line, m.B.Line})
		case m.A.IsTextLine() && m.B.IsCharacter():
			attribute(lineOwner, m.A.Line, m.B.Char)
		case m.B.IsTextLine() && m.A.IsCharacter():
			attribute(lineOwner, m.B.Line, m.A.Char)
		default:
			common.Log.Debug("Dropping line match between two characters: %v / %v", m.A, m.B)
		}
	}

	propagateNeighbors(lineOwner, neighbors)

	var results []BlockMatch
	var unmatched []block.TextBlock
	// Collect every distinct state still reachable from lineOwner, plus any
	// initial state that kept no lines at all (can't happen from
	// BuildBlocks, guarded here regardless).
	allStates := make(map[*blockState]bool)
	for _, st := range lineOwner {
		allStates[st] = true
	}
	for _, st := range states {
		allStates[st] = true
	}
	for st := range allStates {
		if len(st.chars) == 0 {
			unmatched = append(unmatched, st.block)
			continue
		}
		results = append(results, BlockMatch{Block: st.block, Characters: st.chars})
	}
	return results, unmatched
}

func registerLines(lineOwner map[*textline.TextLine]*blockState, st *blockState, b *block.TextBlock) {
	for ri := range b.Rows {
		for li := range b.Rows[ri].Lines {
			lineOwner[&b.Rows[ri].Lines[li]] = st
		}
	}
}

// attribute assigns character as the speaker of line's owning block,
// splitting the block first if it's already attributed to a different
// character and the two attribution lines live in different rows.
func attribute(lineOwner map[*textline.TextLine]*blockState, line *textline.TextLine, character *Character) {
	st, ok := lineOwner[line]
	if !ok {
		common.Log.Warning("Matched line has no owning block, dropping attribution to %v", character.Name)
		return
	}
	if len(st.chars) == 0 {
		st.chars = []*Character{character}
		st.via = line
		return
	}
	if st.chars[0] == character {
		return
	}
	if mergeOffPanel(st, character) {
		return
	}
	if st.via == nil || !st.block.CanSplit(*st.via, *line) {
		common.Log.Warning("Block already attributed to %s, adding %s as a co-speaker", st.chars[0].Name, character.Name)
		st.chars = append(st.chars, character)
		return
	}

	rowA, rowB := st.block.RowIndex(*st.via), st.block.RowIndex(*line)
	first, second, _ := st.block.Split(rowA, rowB)

	viaInFirst := first.RowIndex(*st.via) >= 0
	newSt := &blockState{}
	if viaInFirst {
		st.block, newSt.block = first, second
		newSt.chars = []*Character{character}
		newSt.via = line
	} else {
		st.block, newSt.block = second, first
		newSt.chars = st.chars
		newSt.via = st.via
		st.chars = []*Character{character}
		st.via = line
	}

	registerLines(lineOwner, st, &st.block)
	registerLines(lineOwner, newSt, &newSt.block)
}

// mergeOffPanel implements the MULTI_OFF_PANEL merge rule: two different
// off-panel attributions landing on the same block collapse into a single
// multi-off-panel speaker instead of triggering a split (spec §4.8).
func mergeOffPanel(st *blockState, character *Character) bool {
	current := st.chars[0]
	if current == OffPanel && character == OffPanel {
		return true
	}
	if (current == OffPanel || current == MultiOffPanel) && (character == OffPanel || character == MultiOffPanel) {
		st.chars[0] = MultiOffPanel
		return true
	}
	return false
}

// propagateNeighbors runs the fixed-point loop from spec §4.8: whenever one
// side of a neighbor pair has a known speaker and the other doesn't, copy
// the speaker across. Repeats until a full pass makes no further progress;
// warns instead of looping forever if neighbors remain unresolved (a cycle
// with no attributed endpoint to seed from).
func propagateNeighbors(lineOwner map[*textline.TextLine]*blockState, neighbors [][2]*textline.TextLine) {
	remaining := neighbors
	for len(remaining) > 0 {
		var next [][2]*textline.TextLine
		progress := false
		for _, pair := range remaining {
			stA, okA := lineOwner[pair[0]]
			stB, okB := lineOwner[pair[1]]
			if !okA || !okB {
				continue
			}
			if stA == stB {
				continue
			}
			aHas, bHas := len(stA.chars) > 0, len(stB.chars) > 0
			switch {
			case aHas && !bHas:
				attribute(lineOwner, pair[1], stA.chars[0])
				progress = true
			case bHas && !aHas:
				attribute(lineOwner, pair[0], stB.chars[0])
				progress = true
			case !aHas && !bHas:
				next = append(next, pair)
			}
		}
		if !progress {
			if len(next) > 0 {
				common.Log.Warning("%d neighbor line pairs never resolved to a speaker", len(next))
			}
			return
		}
		remaining = next
	}
}
