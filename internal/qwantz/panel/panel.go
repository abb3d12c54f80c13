// Package panel holds the fixed geometry of a Dinosaur Comics page: the
// six panel crop rectangles, the footer strip, and each panel's declared
// cast of characters with their speech-box regions. Grounded on
// original_source/parse_qwantz's panels.py (box geometry, inactive sides)
// merged with main.py's richer CHARACTERS table (which adds House and
// marks House/Girl as unable to think); the two retrieved copies disagree
// slightly, a version-skew artifact in the retrieved sources, resolved by
// taking the more detailed box geometry and the more detailed can_think
// flags.
package panel

import (
	"github.com/janek37/parse-qwantz/internal/qwantz/match"
	"github.com/janek37/parse-qwantz/internal/qwantz/rgeometry"
)

// Rect is a crop rectangle: size and offset within the full page image.
type Rect struct {
	Width, Height int
	X, Y          int
}

func (r Rect) Box() rgeometry.Box {
	return rgeometry.NewBox(rgeometry.Pixel{X: r.X, Y: r.Y}, rgeometry.Pixel{X: r.X + r.Width, Y: r.Y + r.Height})
}

// Panels are the six crop rectangles, in reading order, that a standard
// Dinosaur Comics page is carved into (spec §4.2).
var Panels = []Rect{
	{Width: 239, Height: 239, X: 3, Y: 2},
	{Width: 126, Height: 239, X: 246, Y: 2},
	{Width: 358, Height: 239, X: 375, Y: 2},
	{Width: 190, Height: 239, X: 3, Y: 244},
	{Width: 295, Height: 239, X: 196, Y: 244},
	{Width: 239, Height: 239, X: 494, Y: 244},
}

// Footer is the narrow strip below the panels carrying the rollover-text
// banner link and the "Ask Professor Science" promo (spec §4.2).
var Footer = Rect{Width: 735, Height: 12, X: 0, Y: 488}

func pixel(x, y int) rgeometry.Pixel { return rgeometry.Pixel{X: x, Y: y} }

func box(x0, y0, x1, y1 int, inactive ...rgeometry.Side) rgeometry.Box {
	b := rgeometry.NewBox(pixel(x0, y0), pixel(x1, y1))
	if len(inactive) > 0 {
		b.InactiveSides = rgeometry.NewSideSet(inactive...)
	}
	return b
}

func character(name string, canThink bool, boxes ...rgeometry.Box) *match.Character {
	return &match.Character{Name: name, CanThink: canThink, Boxes: boxes}
}

// Characters holds, for each panel in Panels, the speakers declared to
// appear there along with the region(s) of the panel their speech boxes
// may originate from.
var Characters = [][]*match.Character{
	{
		character("T-Rex", true, box(104, 90, 170, 238)),
	},
	{
		character("T-Rex", true,
			box(30, 105, 75, 119),
			box(4, 119, 105, 150),
			box(4, 150, 60, 238),
		),
	},
	{
		character("T-Rex", true,
			box(80, 55, 115, 213),
			box(115, 75, 130, 90),
		),
		character("Dromiceiomimus", true,
			box(325, 146, 357, 238),
			box(250, 180, 325, 185),
		),
		character("House", false,
			box(115, 210, 163, 238),
		),
	},
	{
		character("T-Rex", true,
			box(0, 65, 35, 190),
		),
		character("Utahraptor", true,
			box(103, 81, 138, 165),
			box(138, 140, 165, 180),
		),
		character("Girl", false,
			box(0, 213, 8, 238),
		),
	},
	{
		character("T-Rex", true,
			box(40, 70, 90, 103),
			box(40, 104, 70, 140),
			box(40, 141, 80, 180),
		),
		character("T-Rex", true,
			box(130, 155, 133, 210, rgeometry.SideLeft, rgeometry.SideTop, rgeometry.SideBottom),
			box(100, 197, 130, 213),
		),
		character("Utahraptor", true,
			box(198, 77, 233, 145),
			box(225, 145, 250, 190),
			box(185, 115, 198, 125),
		),
	},
	{
		character("T-Rex", true,
			box(80, 64, 134, 84),
			box(80, 84, 100, 169),
			box(100, 84, 120, 120),
			box(100, 110, 125, 120),
		),
	},
}
