// Package match implements the line matcher and block matcher described
// in spec §4.7 and §4.8: it associates every speech-tail line with a text
// line or a declared character (or "off-panel"), then lifts those
// line-level attributions up to whole text blocks, splitting a block when
// two of its rows belong to different speakers. Grounded on
// original_source/parse_qwantz's match_lines.py, match_blocks.py and
// match_thought.py, adapted from the Python's object-identity dicts to Go
// pointer identity over the already-stable TextLine slices BuildBlocks
// produces (spec §9's "Identity-indexed dictionaries" redesign note: the
// arena-index approach it suggests is unnecessary here because
// block.BuildBlocks already hands out TextLine values living in
// never-reallocated backing arrays, so a *textline.TextLine is already a
// stable, comparable identity).
package match

import (
	"github.com/janek37/parse-qwantz/internal/qwantz/rgeometry"
)

// Character is a declared speaker: a name, one or more boxes (a
// multi-panel character like T-Rex in panel 5 may have several disjoint
// boxes), and whether it can be the implicit speaker of a thought bubble
// (spec §3 data model, "Character").
type Character struct {
	Name     string
	Boxes    []rgeometry.Box
	CanThink bool
}

// OffPanel is the synthetic speaker assigned to a speech-tail endpoint
// that touches the panel's outer edge (spec glossary "Off-panel").
var OffPanel = &Character{Name: "Off-Panel"}

// MultiOffPanel is the synthesized speaker used when two different
// off-panel voices are attributed to the very same line (spec §4.8,
// "merging rules handle OFF_PANEL + OFF_PANEL").
var MultiOffPanel = &Character{Name: "multiple off-panel voices"}

// ClosestBox returns the Box (and its distance to p) with the smallest
// distance among every Box the character owns, honoring each box's
// InactiveSides (spec §4.7 step 2).
func (c *Character) ClosestBox(p rgeometry.Pixel) (rgeometry.Box, float64, bool) {
	var bestBox rgeometry.Box
	best := 0.0
	found := false
	for _, box := range c.Boxes {
		if d, ok := box.Distance(p); ok {
			if !found || d < best {
				best, bestBox, found = d, box, true
			}
		}
	}
	return bestBox, best, found
}
