package font

import (
	goimage "image"
	_ "image/png" // glyph strips ship as PNG, same format unipdf's sample assets use
	"os"
	"sync"

	_ "golang.org/x/image/bmp" // legacy strips recovered from older asset drops decode as BMP

	"github.com/janek37/parse-qwantz/internal/qwantz/errors"
)

// charsetStandard is the fixed glyph ordering every monospace strip image
// is laid out in, one cell per rune, left to right. Ported from fonts.py's
// flat per-strip character ordering.
const charsetStandard = " !\"'(),-.0123456789:;?ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"abcdefghijklmnopqrstuvwxyz"

// shiftedVariants13 holds the per-character baseline nudge fonts.py's
// SHIFTED_VARIANTS applies only at 13px: comma and colon sit one row lower,
// period one row higher, than the rest of the glyph cell.
var shiftedVariants13 = map[rune]int{
	',': 1,
	':': 1,
	'.': -1,
}

func standardGlyphs(shift map[rune]int) []Glyph {
	glyphs := make([]Glyph, 0, len(charsetStandard))
	for _, r := range charsetStandard {
		g := Glyph{Char: r, LeftPad: 0, RightPad: 1}
		if shift != nil {
			if _, ok := shift[r]; ok {
				g.Variant = "shifted"
			}
		}
		glyphs = append(glyphs, g)
	}
	return glyphs
}

// fontAsset pairs a Spec with the glyph-strip file it's built from. Path is
// relative to AssetDir, mirroring fonts.py's Font.from_file(resource_path)
// resource loading (the original ships its strips as package data under
// parse_qwantz/img/; ours reads the strips directly from AssetDir).
type fontAsset struct {
	spec Spec
	path string
}

// AssetDir is the directory glyph-strip images are loaded from. It is a
// plain package variable that nothing in the module assigns, so strips are
// read from assets/fonts unless a caller sets it before Load.
var AssetDir = "assets/fonts"

// fontOrder lists every font size in the fixed recognition-priority order
// the element extractor tries them in (spec §4.5 step 2, "for each font in
// a fixed ordering"). Ported from fonts.py's FONT_SIZES.
var fontOrder = []fontAsset{
	{spec: Spec{Name: "Regular", Group: "regular", Width: 7, Height: 13, Baseline: 10, SpaceWidth: 4, InitialPad: 2, Glyphs: standardGlyphs(shiftedVariants13)}, path: "regular13.png"},
	{spec: Spec{Name: "Bold", Group: "regular", Width: 7, Height: 13, Baseline: 10, SpaceWidth: 4, InitialPad: 2, Glyphs: standardGlyphs(shiftedVariants13)}, path: "bold13.png"},
	{spec: Spec{Name: "Italic", Group: "regular", Width: 7, Height: 13, Baseline: 10, SpaceWidth: 4, InitialPad: 2, ItalicOffsets: []int{3, 5, 9, 11}, Glyphs: standardGlyphs(nil)}, path: "italic13.png"},
	{spec: Spec{Name: "Condensed", Group: "condensed", Width: 6, Height: 12, Baseline: 9, SpaceWidth: 4, InitialPad: 2, Glyphs: standardGlyphs(nil)}, path: "condensed12.png"},
	{spec: Spec{Name: "Small", Group: "small", Width: 5, Height: 11, Baseline: 8, SpaceWidth: 3, InitialPad: 1, Glyphs: standardGlyphs(nil)}, path: "small11.png"},
	{spec: Spec{Name: "Mini", Group: "mini", Width: 4, Height: 9, Baseline: 7, SpaceWidth: 3, InitialPad: 1, Glyphs: standardGlyphs(nil)}, path: "mini9.png"},
	{spec: Spec{Name: "Tiny", Group: "tiny", Width: 3, Height: 8, Baseline: 6, SpaceWidth: 2, InitialPad: 1, Glyphs: standardGlyphs(nil)}, path: "tiny8.png"},
	{spec: Spec{Name: "Proportional", Group: "proportional", Width: 0, Height: 13, Baseline: 10, SpaceWidth: 4, InitialPad: 2, Glyphs: standardGlyphs(nil)}, path: "proportional13.png"},
}

var (
	registryOnce sync.Once
	registry     map[string]*Font
	ordered      []*Font
	loadErr      error
)

// Load builds the process-global font registry once from AssetDir, the way
// fonts.py's ALL_FONTS module-level constant is built at import time. Safe
// to call repeatedly; only the first call does I/O.
func Load() error {
	registryOnce.Do(func() {
		registry = make(map[string]*Font, len(fontOrder))
		for _, asset := range fontOrder {
			img, err := decodeStrip(AssetDir + "/" + asset.path)
			if err != nil {
				loadErr = errors.Wrapf(err, "font", "loading glyph strip for %s", asset.spec.Name)
				return
			}
			f := Build(asset.spec, img)
			registry[f.Name] = f
			ordered = append(ordered, f)
		}
	})
	return loadErr
}

func decodeStrip(path string) (goimage.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	img, _, err := goimage.Decode(file)
	return img, err
}

// Get returns the registered font with the given name, or nil if Load
// hasn't succeeded or no such font exists.
func Get(name string) *Font {
	return registry[name]
}

// All returns every registered font in fixed recognition-priority order
// (spec §4.5 step 2).
func All() []*Font {
	return ordered
}
