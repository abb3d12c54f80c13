// Package match's line matcher: spec §4.7.
package match

import (
	"math"
	"sort"

	"github.com/janek37/parse-qwantz/common"
	"github.com/janek37/parse-qwantz/internal/qwantz/block"
	"github.com/janek37/parse-qwantz/internal/qwantz/config"
	"github.com/janek37/parse-qwantz/internal/qwantz/rgeometry"
	"github.com/janek37/parse-qwantz/internal/qwantz/shape"
	"github.com/janek37/parse-qwantz/internal/qwantz/sparseimage"
	"github.com/janek37/parse-qwantz/internal/qwantz/textline"
)

// LineMatch is one resolved speech-tail attribution: the two targets its
// endpoints were assigned to.
type LineMatch struct {
	A, B Target
}

// candidate is one box the matcher considered for one endpoint of one
// line, carrying enough to apply the preference rules in step "Resolution
// is iterative" (spec §4.7).
type candidate struct {
	target Target
	box    rgeometry.Box
	dist   float64
}

// MatchLines implements spec §4.7: for every detected speech-tail line,
// assign each endpoint to a TextLine, a Character, or Off-Panel. Returns
// the resolved matches plus the lines that could not be attributed at
// all (spec's UnmatchedLine condition — warned, dropped, pipeline
// continues).
func MatchLines(lines []shape.DetectedLine, blocks []block.TextBlock, characters []*Character, image *sparseimage.Image) ([]LineMatch, []shape.DetectedLine) {
	thresholds := config.Current()

	type ordered struct {
		line     shape.DetectedLine
		priority float64
	}
	items := make([]ordered, 0, len(lines))
	for _, l := range lines {
		items = append(items, ordered{line: l, priority: bestPriority(l, blocks, characters, image, thresholds)})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].priority < items[j].priority })

	usedTextLines := make(map[*textline.TextLine]bool)
	var matches []LineMatch
	var unmatched []shape.DetectedLine

	for _, it := range items {
		l := it.line
		cands1, off1 := endpointCandidates(l.Line.End1, l.Line.End2, blocks, characters, image, thresholds)
		cands2, off2 := endpointCandidates(l.Line.End2, l.Line.End1, blocks, characters, image, thresholds)

		if off1 {
			cands1 = []candidate{{target: characterTarget(OffPanel)}}
		}
		if off2 {
			cands2 = []candidate{{target: characterTarget(OffPanel)}}
		}

		if len(cands1) == 0 || len(cands2) == 0 {
			if len(cands1) == 0 && len(cands2) > 0 {
				common.Log.Warning("Unmatched line %v, assuming off-panel", l.Line)
				cands1 = []candidate{{target: characterTarget(OffPanel)}}
			} else if len(cands2) == 0 && len(cands1) > 0 {
				common.Log.Warning("Unmatched line %v, assuming off-panel", l.Line)
				cands2 = []candidate{{target: characterTarget(OffPanel)}}
			} else {
				common.Log.Warning("Unmatched line %v: no candidates on either side", l.Line)
				unmatched = append(unmatched, l)
				continue
			}
		}

		best1 := pickBest(cands1, off2, usedTextLines, thresholds, l.Line.End1, l.Line.End2)
		best2 := pickBest(cands2, off1, usedTextLines, thresholds, l.Line.End2, l.Line.End1)

		if best1 == best2 {
			common.Log.Warning("Line %v matches the same object: %v", l.Line, best1)
			unmatched = append(unmatched, l)
			continue
		}
		if !best1.IsTextLine() && !best2.IsTextLine() {
			common.Log.Warning("Unmatched line %v: matches %v to %v", l.Line, best1, best2)
			unmatched = append(unmatched, l)
			continue
		}

		if best1.IsTextLine() {
			usedTextLines[best1.Line] = true
		}
		if best2.IsTextLine() {
			usedTextLines[best2.Line] = true
		}
		matches = append(matches, LineMatch{A: best1, B: best2})
	}
	return matches, unmatched
}

func bestPriority(l shape.DetectedLine, blocks []block.TextBlock, characters []*Character, image *sparseimage.Image, thresholds config.Thresholds) float64 {
	c1, off1 := endpointCandidates(l.Line.End1, l.Line.End2, blocks, characters, image, thresholds)
	c2, off2 := endpointCandidates(l.Line.End2, l.Line.End1, blocks, characters, image, thresholds)
	best := 1e9
	if off1 || off2 {
		best = 0
	}
	for _, c := range c1 {
		if c.dist < best {
			best = c.dist
		}
	}
	for _, c := range c2 {
		if c.dist < best {
			best = c.dist
		}
	}
	return best
}

// endpointCandidates gathers every TextLine/Character candidate for one
// endpoint of a detected line, filtered and sorted per spec §4.7 steps
// 2-4. The second return value reports whether thisEnd lies on the panel
// edge (forcing Off-Panel per spec step 1).
func endpointCandidates(thisEnd, otherEnd rgeometry.Pixel, blocks []block.TextBlock, characters []*Character, image *sparseimage.Image, thresholds config.Thresholds) ([]candidate, bool) {
	if image.IsOnEdge(thisEnd) {
		return nil, true
	}

	var out []candidate
	for bi := range blocks {
		for ri := range blocks[bi].Rows {
			for li := range blocks[bi].Rows[ri].Lines {
				line := &blocks[bi].Rows[ri].Lines[li]
				box := textLineBaseBox(line)
				if c, ok := evalCandidate(textLineTarget(line), box, thisEnd, otherEnd, thresholds.TextLineMaxDistance, thresholds.MissAngleCos, false, thresholds); ok {
					out = append(out, c)
				}
			}
		}
	}
	for _, ch := range characters {
		box, _, ok := ch.ClosestBox(thisEnd)
		if !ok {
			continue
		}
		if c, ok := evalCandidate(characterTarget(ch), box, thisEnd, otherEnd, thresholds.CharacterMaxDistance, thresholds.MissAngleCos, true, thresholds); ok {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].dist < out[j].dist })
	return out, false
}

func evalCandidate(target Target, box rgeometry.Box, thisEnd, otherEnd rgeometry.Pixel, maxDist, cosThreshold float64, requireExactCos bool, _ config.Thresholds) (candidate, bool) {
	dThis, okThis := box.Distance(thisEnd)
	if !okThis {
		return candidate{}, false
	}
	if dOther, okOther := box.Distance(otherEnd); okOther && dOther < dThis {
		return candidate{}, false
	}
	if dThis > maxDist {
		return candidate{}, false
	}
	cos := missAngleCos(otherEnd, thisEnd, box)
	if cos <= cosThreshold {
		return candidate{}, false
	}
	if requireExactCos && cos != 1 {
		return candidate{}, false
	}
	return candidate{target: target, box: box, dist: dThis}, true
}

// pickBest applies the preference rules from spec §4.7's "Resolution is
// iterative" bullet list on top of plain nearest-distance ordering:
// narrator-looking TextLines (bold, near the top edge) are demoted unless
// the other end is OFF_PANEL; "godlike" bold-uppercase TextLines are
// preferred at the OFF_PANEL side; already-matched TextLines are demoted
// to encourage coverage; Characters carry a small penalty, so they lose
// exact ties to TextLines, unless the other end is OFF_PANEL (whether the
// other end is a Character is not considered). If the preference scoring still leaves
// several candidates tied for best, the force-resolution step fires:
// prefer a horizontal-match TextLine (thisEnd sits within the candidate's
// vertical extent and the tail is mostly horizontal,
// |dx| > HorizontalMatchRatio*|dy|) before finally breaking the tie by
// minimum distance.
func pickBest(cands []candidate, otherIsOffPanel bool, usedTextLines map[*textline.TextLine]bool, thresholds config.Thresholds, thisEnd, otherEnd rgeometry.Pixel) Target {
	if len(cands) == 1 {
		return cands[0].target
	}
	type scored struct {
		candidate
		score float64
	}
	scoredCands := make([]scored, len(cands))
	for i, c := range cands {
		score := c.dist
		if c.target.IsTextLine() {
			if looksLikeNarrator(c.target.Line) && !otherIsOffPanel {
				score += 1000
			}
			if otherIsOffPanel && looksLikeGod(c.target.Line) {
				score -= 1000
			}
			if usedTextLines[c.target.Line] {
				score += 500
			}
		} else if c.target.IsCharacter() && !otherIsOffPanel {
			score += 0.01
		}
		scoredCands[i] = scored{candidate: c, score: score}
	}
	sort.SliceStable(scoredCands, func(i, j int) bool { return scoredCands[i].score < scoredCands[j].score })

	tieEnd := 1
	for tieEnd < len(scoredCands) && scoredCands[tieEnd].score == scoredCands[0].score {
		tieEnd++
	}
	if tieEnd > 1 {
		best := -1
		for i := 0; i < tieEnd; i++ {
			if !isHorizontalMatch(otherEnd, thisEnd, scoredCands[i].box, thresholds.HorizontalMatchRatio) {
				continue
			}
			if best == -1 || scoredCands[i].dist < scoredCands[best].dist {
				best = i
			}
		}
		if best != -1 {
			return scoredCands[best].target
		}
	}
	return scoredCands[0].target
}

// isHorizontalMatch is spec §4.7's force-resolution tie-break: the tail
// runs mostly horizontally into the candidate (|dx| > ratio*|dy| between
// the two tail endpoints) and thisEnd falls inside the candidate box's
// vertical extent.
func isHorizontalMatch(otherEnd, thisEnd rgeometry.Pixel, box rgeometry.Box, ratio float64) bool {
	dx := math.Abs(float64(thisEnd.X - otherEnd.X))
	dy := math.Abs(float64(thisEnd.Y - otherEnd.Y))
	if dx <= ratio*dy {
		return false
	}
	return thisEnd.Y >= box.Top() && thisEnd.Y < box.Bottom()
}

func looksLikeNarrator(l *textline.TextLine) bool {
	return l.IsBold() && l.Box().Top() < 20
}

func looksLikeGod(l *textline.TextLine) bool {
	if !l.IsBold() {
		return false
	}
	text := l.Text()
	for _, r := range text {
		if r >= 'a' && r <= 'z' {
			return false
		}
	}
	return text != ""
}
