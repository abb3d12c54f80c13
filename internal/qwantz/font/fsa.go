// Package font implements the bitmap font registry and recognizer described
// in spec §4.2: each font is built from a fixed glyph-strip image into a
// deterministic finite-state automaton keyed on per-column bitmasks, and
// recognition walks that automaton starting at a seed pixel. Grounded on
// original_source/parse_qwantz's fonts.py (Font, get_char, get_bitmask,
// Font.from_file, get_bold_shapes, regular_shape_to_bold) and
// char_variants.py (hand-specified per-glyph alternate bitmasks), with the
// glyph-strip decode done through golang.org/x/image the way the teacher's
// internal/jbig2 bitmap package reads external raster sources.
package font

// Column is one column's worth of ink: bit i set means row i (0-indexed from
// the glyph cell's top) is inked.
type Column uint64

// CharInfo is what an FSA terminal state records: the recognized character
// and the padding (in columns) to apply on either side when laying out the
// next glyph. Ported from fonts.py's CharInfo namedtuple.
type CharInfo struct {
	Char     rune
	LeftPad  int
	RightPad int
	Variant  string
}

// fsa is a trie over column sequences: state 0 is the start state, and each
// transition consumes one column. A state may be both a terminal (if some
// glyph's column sequence ends there) and a prefix of longer sequences —
// recognition walks as far as possible and accepts at the last terminal
// seen, per spec §4.2 step 3 ("replacing the accepted state with the latest
// accepted state").
type fsa struct {
	transitions []map[Column]int
	accept      map[int]CharInfo
}

func newFSA() *fsa {
	return &fsa{
		transitions: []map[Column]int{{}},
		accept:      map[int]CharInfo{},
	}
}

// insert adds cols as a path from the start state, marking the final state
// as accepting with info. Conflict policy (spec §4.2): when two glyphs
// collapse onto the same final state, keep whichever was inserted first,
// except that "O" supersedes "0" and "l" supersedes "1".
func (f *fsa) insert(cols []Column, info CharInfo) {
	state := 0
	for _, c := range cols {
		next, ok := f.transitions[state][c]
		if !ok {
			next = len(f.transitions)
			f.transitions = append(f.transitions, map[Column]int{})
			f.transitions[state][c] = next
		}
		state = next
	}
	if existing, ok := f.accept[state]; ok {
		if !supersedes(info.Char, existing.Char) {
			return
		}
	}
	f.accept[state] = info
}

// supersedes reports whether candidate should replace incumbent under the
// fixed "O over 0, l over 1" override (spec §4.2).
func supersedes(candidate, incumbent rune) bool {
	return (candidate == 'O' && incumbent == '0') || (candidate == 'l' && incumbent == '1')
}

// walk drives the automaton over cols (a lazily-produced column sequence),
// returning the CharInfo of the last terminal reached, how many columns
// were consumed to reach it, and whether any terminal was reached at all.
// next is called at most len(cols) times via the closure contract: it
// should return (Column, true) while more columns remain, else (0, false).
func (f *fsa) walk(next func() (Column, bool)) (info CharInfo, consumed int, ok bool) {
	state := 0
	count := 0
	for {
		c, more := next()
		if !more {
			break
		}
		nextState, transitionExists := f.transitions[state][c]
		if !transitionExists {
			break
		}
		state = nextState
		count++
		if ci, isAccept := f.accept[state]; isAccept {
			info, consumed, ok = ci, count, true
		}
	}
	return
}

// subsetEdges returns the outgoing edges of state whose column bitmask is a
// subset of observed (every bit set in the edge column is also set in
// observed). Used by the proportional-font "combine" rule (spec §4.2 step
// 3) to find a kerned glyph boundary inside a single observed column.
func (f *fsa) subsetEdges(state int, observed Column) map[Column]int {
	matches := map[Column]int{}
	for c, next := range f.transitions[state] {
		if c&observed == c {
			matches[c] = next
		}
	}
	return matches
}
