// Package debugrender draws the debug overlay main.py's handle_debug
// produces: unmatched shapes boxed and reddened, unresolved neighbor
// connectors in blue, unmatched speech-tail lines redrawn, matched text
// lines boxed in green, and (when anything went unresolved) every
// declared character's speech box outlined. Pixel-font labels are drawn
// only for the unmatched shapes and the character boxes. Grounded on original_source/
// parse_qwantz's main.py (handle_debug); uses github.com/pbnjay/pixfont
// (from the rest of the example pack) to draw labels instead of a
// vector-font rasterizer, since this pipeline never needs anything but
// bitmap fonts anywhere else either.
package debugrender

import (
	"fmt"
	goimage "image"
	"image/color"
	"image/draw"

	"github.com/pbnjay/pixfont"

	"github.com/janek37/parse-qwantz/internal/qwantz/block"
	"github.com/janek37/parse-qwantz/internal/qwantz/match"
	"github.com/janek37/parse-qwantz/internal/qwantz/rgeometry"
)

var (
	colorRed       = color.RGBA{R: 255, A: 255}
	colorBlue      = color.RGBA{B: 255, A: 255}
	colorBlue2     = color.RGBA{B: 192, A: 255}
	colorGreen     = color.RGBA{G: 192, A: 255}
	colorGreenDark = color.RGBA{G: 128, A: 255}
)

// Overlay is everything handle_debug needs to annotate one panel image:
// the unmatched shapes/lines the extractor and line matcher gave up on,
// the neighbor pairs the block matcher never resolved to a shared
// speaker, the panel's final text blocks, and its declared characters.
type Overlay struct {
	UnmatchedShapes    [][]rgeometry.Pixel
	UnmatchedLines     []Line
	UnmatchedNeighbors [][2]rgeometry.Box
	Blocks             []block.TextBlock
	Characters         []*match.Character
}

// Line is a plain endpoint pair, avoiding an import of the shape package's
// DetectedLine just for its two endpoints.
type Line struct {
	End1, End2 rgeometry.Pixel
}

// NewLine builds a Line from two endpoints, the overlay's input shape for
// a speech-tail line the matcher left unattributed.
func NewLine(end1, end2 rgeometry.Pixel) Line {
	return Line{End1: end1, End2: end2}
}

// Draw paints ov onto a copy of base and returns it, mirroring
// handle_debug's in-place ImageDraw annotations over the cropped panel
// image main.py passes it (draw.Image here plays the role of PIL's
// mutable Image + ImageDraw.Draw pair).
func Draw(base goimage.Image, ov Overlay) draw.Image {
	bounds := base.Bounds()
	out := goimage.NewRGBA(bounds)
	draw.Draw(out, bounds, base, bounds.Min, draw.Src)

	for i, shape := range ov.UnmatchedShapes {
		box := boundingBox(shape, 3)
		drawRect(out, box, colorRed)
		for _, p := range shape {
			out.Set(p.X, p.Y, colorRed)
		}
		pixfont.DrawString(out, box.Left(), box.Top()-9, fmt.Sprintf("shape %d", i), colorRed)
	}

	for _, pair := range ov.UnmatchedNeighbors {
		drawRect(out, pair[0], colorBlue2)
		drawRect(out, pair[1], colorBlue2)
		c1 := center(pair[0])
		c2 := center(pair[1])
		drawLine(out, c1, c2, colorBlue)
	}

	for _, l := range ov.UnmatchedLines {
		drawLine(out, l.End1, l.End2, colorRed)
	}

	for _, b := range ov.Blocks {
		for _, row := range b.Rows {
			for _, line := range row.Lines {
				drawRect(out, line.Box(), colorGreen)
			}
		}
	}

	if len(ov.UnmatchedNeighbors) > 0 || len(ov.UnmatchedLines) > 0 {
		for _, c := range ov.Characters {
			for _, box := range c.Boxes {
				drawRect(out, box, colorGreenDark)
				pixfont.DrawString(out, box.Left(), box.Top()-9, c.Name, colorGreenDark)
			}
		}
	}

	return out
}

func boundingBox(pixels []rgeometry.Pixel, padding int) rgeometry.Box {
	if len(pixels) == 0 {
		return rgeometry.DummyBox()
	}
	left, top, right, bottom := pixels[0].X, pixels[0].Y, pixels[0].X, pixels[0].Y
	for _, p := range pixels[1:] {
		if p.X < left {
			left = p.X
		}
		if p.X > right {
			right = p.X
		}
		if p.Y < top {
			top = p.Y
		}
		if p.Y > bottom {
			bottom = p.Y
		}
	}
	return rgeometry.NewBox(
		rgeometry.Pixel{X: left - padding, Y: top - padding},
		rgeometry.Pixel{X: right + padding, Y: bottom + padding},
	)
}

func center(box rgeometry.Box) rgeometry.Pixel {
	return rgeometry.Pixel{X: (box.Left() + box.Right()) / 2, Y: (box.Top() + box.Bottom()) / 2}
}

func drawRect(img draw.Image, box rgeometry.Box, c color.Color) {
	for x := box.Left(); x <= box.Right(); x++ {
		img.Set(x, box.Top(), c)
		img.Set(x, box.Bottom(), c)
	}
	for y := box.Top(); y <= box.Bottom(); y++ {
		img.Set(box.Left(), y, c)
		img.Set(box.Right(), y, c)
	}
}

// drawLine draws a crude Bresenham line between two pixels, sufficient for
// a debug overlay's speech-tail and neighbor connectors (no anti-aliasing,
// same fidelity as PIL's ImageDraw.line for a 1px stroke).
func drawLine(img draw.Image, a, b rgeometry.Pixel, c color.Color) {
	x0, y0, x1, y1 := a.X, a.Y, b.X, b.Y
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		img.Set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
