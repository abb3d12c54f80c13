package match

import (
	"github.com/janek37/parse-qwantz/internal/qwantz/block"
	"github.com/janek37/parse-qwantz/internal/qwantz/rgeometry"
)

// MatchThought attributes thought-bubble blocks to the nearest character
// able to think (spec §4.8's thought-bubble handling), grounded on the
// flat match_thought.py found in the retrieved sources (main.py calls it
// with the richer (thoughts, unmatched_blocks, thinking_characters)
// signature; the package copy's simpler box-containment-only variant is
// older and superseded). A block counts as a thought only if some detected
// thought-bubble shape fully contains its box; among thinking characters,
// the nearest one by squared box distance is chosen. If no character can
// think, the spec's literal "T-Rex" fallback label is used instead, since
// Dinosaur Comics' recurring thought bubbles are almost always his.
func MatchThought(thoughts []rgeometry.Box, blocks []block.TextBlock, thinkingCharacters []*Character) map[*block.TextBlock]*Character {
	matches := make(map[*block.TextBlock]*Character)
	for i := range blocks {
		b := &blocks[i]
		isThought := false
		for _, thought := range thoughts {
			if thought.Contains(b.Box()) {
				isThought = true
				break
			}
		}
		if !isThought {
			continue
		}
		character := nearestThinker(b.Box(), thinkingCharacters)
		if character == nil {
			continue
		}
		matches[b] = character
	}
	return matches
}

func nearestThinker(box rgeometry.Box, characters []*Character) *Character {
	if len(characters) == 0 {
		return tRex
	}
	var best *Character
	bestDist := -1
	for _, c := range characters {
		for _, cb := range c.Boxes {
			d := box.DistanceSquared(cb)
			if best == nil || d < bestDist {
				best, bestDist = c, d
			}
		}
	}
	return best
}

// tRex is the fallback thinker named in spec §4.8 when no character in the
// panel is declared able to think but a thought bubble was still detected.
var tRex = &Character{Name: "T-Rex", CanThink: true}
