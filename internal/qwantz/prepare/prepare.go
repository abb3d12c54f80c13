// Package prepare validates and masks a raw comic page bitmap before it
// enters the recognition pipeline: dimension/template checks, the
// non-panel-region mask overlay, and the "Ask Professor Science" banner
// swatch test. Grounded on original_source/parse_qwantz's prepare_image.py
// and pixels.py, reconciled with parser.py's richer
// `masked, good_panels = prepare_image(image)` call (the simpler retrieved
// prepare_image.py only ever hard-exits; parser.py's usage implies a
// per-panel pass/fail set, reconstructed here from the SAMPLE table by
// mapping each failed reference point to the panel rectangle containing
// it).
package prepare

import (
	goimage "image"
	"image/color"
	"image/png"
	"io"
	"os"
	"sync"

	"github.com/h2non/filetype"
	"golang.org/x/image/bmp"

	"github.com/janek37/parse-qwantz/common"
	"github.com/janek37/parse-qwantz/internal/qwantz/errors"
	"github.com/janek37/parse-qwantz/internal/qwantz/panel"
	"github.com/janek37/parse-qwantz/internal/qwantz/rgeometry"
)

// Width and Height are the only dimensions a Dinosaur Comics page is ever
// published at (spec §6 "Inputs").
const (
	Width  = 735
	Height = 500
)

// sample is one reference pixel/color pair from prepare_image.py's SAMPLE
// table, used both to recognize the fixed page template and, when a sample
// fails, to identify which panel(s) around it can't be trusted.
type sample struct {
	point    rgeometry.Pixel
	expected rgeometry.Color
}

var samples = []sample{
	{point: rgeometry.Pixel{X: 113, Y: 183}, expected: rgeometry.Color{R: 128, G: 255, B: 64}},
	{point: rgeometry.Pixel{X: 704, Y: 183}, expected: rgeometry.Color{R: 255, G: 242, B: 179}},
	{point: rgeometry.Pixel{X: 452, Y: 405}, expected: rgeometry.Color{R: 255, G: 191, B: 82}},
	{point: rgeometry.Pixel{X: 290, Y: 160}, expected: rgeometry.Color{R: 255, G: 128, B: 161}},
	{point: rgeometry.Pixel{X: 372, Y: 484}, expected: rgeometry.Color{R: 0, G: 0, B: 0}},
}

// MaskPath is the mask image applied over the decoded page before
// recognition begins (non-panel regions painted white), overridable the
// same way font.AssetDir is.
var MaskPath = "assets/mask.png"

// Load decodes a page image from r, sniffing its container format with
// h2non/filetype before committing to a codec (PNG or BMP), then validates
// it against the fixed template and composites the mask over it. Returns
// errors.ErrWrongDimensions or errors.ErrInvalidTemplate for the two
// page-fatal conditions (spec §7); goodPanels marks, by 1-based panel
// index, which panels the template matched well enough to attempt (the
// PartialTemplate condition: some panels invalid, skip only those).
func Load(r io.Reader) (goimage.Image, map[int]bool, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	img, err := decode(raw)
	if err != nil {
		return nil, nil, err
	}

	bounds := img.Bounds()
	if bounds.Dx() != Width || bounds.Dy() != Height {
		return nil, nil, errors.Wrapf(errors.ErrWrongDimensions, "prepare", "got %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), Width, Height)
	}

	goodPanels := make(map[int]bool, len(panel.Panels))
	for i := range panel.Panels {
		goodPanels[i+1] = true
	}
	matched := 0
	for _, s := range samples {
		found := pixelColor(img, s.point)
		if found == s.expected {
			matched++
			continue
		}
		common.Log.Warning("Invalid template: expected %v at %v; found %v", s.expected, s.point, found)
		for i, rect := range panel.Panels {
			if rect.Box().Includes(s.point) {
				goodPanels[i+1] = false
			}
		}
	}
	if matched == 0 {
		return nil, nil, errors.Wrap(errors.ErrInvalidTemplate, "prepare", "no reference sample matched")
	}

	masked, err := applyMask(img)
	if err != nil {
		return nil, nil, err
	}
	return masked, goodPanels, nil
}

func decode(raw []byte) (goimage.Image, error) {
	kind, err := filetype.Match(raw)
	if err != nil {
		return nil, errors.Wrap(err, "prepare", "sniffing input image")
	}
	switch kind.Extension {
	case "bmp":
		return bmp.Decode(ioReaderOf(raw))
	default:
		return png.Decode(ioReaderOf(raw))
	}
}

func ioReaderOf(b []byte) io.Reader {
	return &byteReader{b: b}
}

type byteReader struct {
	b []byte
	i int
}

func (r *byteReader) Read(p []byte) (int, error) {
	if r.i >= len(r.b) {
		return 0, io.EOF
	}
	n := copy(p, r.b[r.i:])
	r.i += n
	return n, nil
}

func pixelColor(img goimage.Image, p rgeometry.Pixel) rgeometry.Color {
	bounds := img.Bounds()
	r, g, b, _ := img.At(bounds.Min.X+p.X, bounds.Min.Y+p.Y).RGBA()
	return rgeometry.Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}

// applyMask composites img over an all-white canvas using MaskPath's image
// as a selector, painting non-panel regions (anything the mask marks dark)
// white the way prepare_image.py's Image.composite(image, all_white, mask)
// does.
func applyMask(img goimage.Image) (goimage.Image, error) {
	mask, err := loadMask()
	if err != nil {
		return nil, errors.Wrap(err, "prepare", "loading mask overlay")
	}
	out := goimage.NewRGBA(img.Bounds())
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			mr, mg, mb, _ := mask.At(x-bounds.Min.X, y-bounds.Min.Y).RGBA()
			if mr>>8 < 128 && mg>>8 < 128 && mb>>8 < 128 {
				out.Set(x, y, color.White)
			} else {
				out.Set(x, y, img.At(x, y))
			}
		}
	}
	return out, nil
}

var (
	maskMu     sync.Mutex
	loadedMask goimage.Image
)

func loadMask() (goimage.Image, error) {
	maskMu.Lock()
	defer maskMu.Unlock()
	if loadedMask != nil {
		return loadedMask, nil
	}
	f, err := os.Open(MaskPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := goimage.Decode(f)
	if err != nil {
		return nil, err
	}
	loadedMask = img
	return img, nil
}

// IsAskProfessorScience reports whether the cropped panel-1 image carries
// the pale blue-grey "Ask Professor Science" banner swatch, checked over
// the fixed 4x5 pixel window pixels.py's is_ask_professor_science scans.
func IsAskProfessorScience(img goimage.Image) bool {
	targets := []rgeometry.Color{{R: 224, G: 231, B: 248}, {R: 209, G: 220, B: 244}}
	for x := 109; x < 113; x++ {
		for y := 1; y < 6; y++ {
			c := pixelColor(img, rgeometry.Pixel{X: x, Y: y})
			for _, t := range targets {
				if rgeometry.SquareDistance(c, t) <= 3 {
					return true
				}
			}
		}
	}
	return false
}
