package match

import (
	"math"

	"github.com/janek37/parse-qwantz/internal/qwantz/rgeometry"
	"github.com/janek37/parse-qwantz/internal/qwantz/textline"
)

// Target is the tagged union from spec §9's "Polymorphic Target =
// TextLine | Character": exactly one of Line or Char is non-nil. Target
// values are comparable (both fields are pointers), so two Targets can be
// compared with == the way the Python used object identity.
type Target struct {
	Line *textline.TextLine
	Char *Character
}

func textLineTarget(l *textline.TextLine) Target { return Target{Line: l} }
func characterTarget(c *Character) Target         { return Target{Char: c} }

func (t Target) IsTextLine() bool { return t.Line != nil }
func (t Target) IsCharacter() bool { return t.Char != nil }
func (t Target) IsOffPanel() bool  { return t.Char == OffPanel }

func (t Target) String() string {
	if t.IsTextLine() {
		return t.Line.Text()
	}
	if t.Char != nil {
		return t.Char.Name
	}
	return "<nil target>"
}

// baseBox returns the box a TextLine target presents to the line matcher:
// its bounding box padded by -1 per spec §4.7 step 2 ("base box ... padded
// by -1").
func textLineBaseBox(l *textline.TextLine) rgeometry.Box {
	return l.Box().WithMargin(-1, -1)
}

// segment is an ordered pair of endpoints.
type segment [2]rgeometry.Pixel

// segmentsCross reports whether segment ab crosses the infinite line
// through l's two points on opposite sides, the same cross-product test
// match_lines.py's `intersects` uses (grounded verbatim on that formula).
func segmentsCross(l, ab segment) bool {
	x0, y0 := float64(l[0].X), float64(l[0].Y)
	x1, y1 := float64(l[1].X), float64(l[1].Y)
	ax, ay := float64(ab[0].X), float64(ab[0].Y)
	bx, by := float64(ab[1].X), float64(ab[1].Y)
	return ((y0-y1)*(ax-x0)+(x1-x0)*(ay-y0))*((y0-y1)*(bx-x0)+(x1-x0)*(by-y0)) < 0
}

// boxSides returns box's four edges as segments, reusing rgeometry.Box's
// fixed-order Sides().
func boxSides(box rgeometry.Box) []segment {
	sides := box.Sides()
	out := make([]segment, len(sides))
	for i, s := range sides {
		out[i] = segment{s[0], s[1]}
	}
	return out
}

// missAngleCos computes the miss-angle cosine (spec glossary): the cosine
// of the angle between the line's direction (from otherEnd through
// thisEnd) and the ray from thisEnd to the candidate box, approximated as
// the maximum cosine against each of the box's four corners. If the
// line-through-otherEnd-and-thisEnd actually crosses one of the box's
// sides, the cosine is forced to 1 (the tail points squarely at it).
func missAngleCos(otherEnd, thisEnd rgeometry.Pixel, box rgeometry.Box) float64 {
	dirX := float64(thisEnd.X - otherEnd.X)
	dirY := float64(thisEnd.Y - otherEnd.Y)
	dirLen := math.Hypot(dirX, dirY)
	if dirLen == 0 {
		return 1
	}
	corners := []rgeometry.Pixel{box.TopLeft, box.TopRight(), box.BottomLeft(), box.BottomRight}
	best := -1.0
	for _, c := range corners {
		vx := float64(c.X - thisEnd.X)
		vy := float64(c.Y - thisEnd.Y)
		vLen := math.Hypot(vx, vy)
		if vLen == 0 {
			return 1
		}
		cos := (dirX*vx + dirY*vy) / (dirLen * vLen)
		if cos > best {
			best = cos
		}
	}
	full := segment{otherEnd, thisEnd}
	for _, side := range boxSides(box) {
		if segmentsCross(full, side) {
			return 1
		}
	}
	return best
}
