// Package textline implements the text-line scanner described in spec
// §4.3: given a seed pixel and a candidate font, it tries to parse a
// maximal run of glyphs sharing one baseline into a TextLine. Grounded on
// original_source/parse_qwantz's text_lines.py (try_text_line,
// get_text_line, adjust_spaces, cleanup_text_lines, group_text_lines).
package textline

import (
	"strings"

	"github.com/janek37/parse-qwantz/internal/qwantz/font"
	"github.com/janek37/parse-qwantz/internal/qwantz/rgeometry"
	"github.com/janek37/parse-qwantz/internal/qwantz/sparseimage"
)

// TextLine is an ordered run of recognized glyphs sharing one font, color
// and baseline (spec §3 data model). Immutable once built.
type TextLine struct {
	Chars []font.CharBox
	Font  *font.Font
	Color rgeometry.Color
}

// Box returns the smallest Box enclosing every character in the line.
func (t TextLine) Box() rgeometry.Box {
	if len(t.Chars) == 0 {
		return rgeometry.DummyBox()
	}
	box := t.Chars[0].Box
	for _, c := range t.Chars[1:] {
		box = rgeometry.NewBox(
			rgeometry.Pixel{X: min(box.Left(), c.Box.Left()), Y: min(box.Top(), c.Box.Top())},
			rgeometry.Pixel{X: max(box.Right(), c.Box.Right()), Y: max(box.Bottom(), c.Box.Bottom())},
		)
	}
	return box
}

// Text renders the line's characters as a plain string, ignoring style.
func (t TextLine) Text() string {
	var b strings.Builder
	for _, c := range t.Chars {
		b.WriteRune(c.Char)
	}
	return b.String()
}

// Pixels returns every pixel used to produce every character in the line.
func (t TextLine) Pixels() []rgeometry.Pixel {
	var pixels []rgeometry.Pixel
	for _, c := range t.Chars {
		pixels = append(pixels, c.Pixels...)
	}
	return pixels
}

// IsBold reports whether every character in the line is bold, mirroring
// TextLine.is_bold in text_lines.py.
func (t TextLine) IsBold() bool {
	for _, c := range t.Chars {
		if !c.IsBold {
			return false
		}
	}
	return len(t.Chars) > 0
}

// ContainsBold reports whether any non-space character in the line is
// bold (text_lines.py's contains_bold), used when deciding whether a row
// may join an all-bold block (spec §4.6).
func (t TextLine) ContainsBold() bool {
	for _, c := range t.Chars {
		if c.Char != ' ' && c.IsBold {
			return true
		}
	}
	return false
}

// FindPixel returns the smallest (lexicographically) pixel among the
// first character's producing pixels, used to sample the line's color
// from the source image (text_lines.py's find_pixel).
func (t TextLine) FindPixel() (rgeometry.Pixel, bool) {
	if len(t.Chars) == 0 || len(t.Chars[0].Pixels) == 0 {
		return rgeometry.Pixel{}, false
	}
	pixels := append([]rgeometry.Pixel(nil), t.Chars[0].Pixels...)
	rgeometry.SortPixels(pixels)
	return pixels[0], true
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// greekLookalikes maps a Latin letter to its Greek look-alike, per spec
// §4.3 step 6 ("v→ν, o→ο, ó→ό").
var greekLookalikes = map[rune]rune{
	'v': 'ν',
	'o': 'ο',
	'ó': 'ό',
}

func isGreek(r rune) bool {
	return r >= 0x370 && r <= 0x3FF
}

// spaceBudget tracks the three space-run rules of spec §4.3 step 5: at
// most 1 space between ordinary words, 2 after sentence-ending punctuation,
// 3 total before the line is considered ended.
type spaceBudget struct {
	count int
}

func (b *spaceBudget) allow(afterSentencePunct bool) bool {
	limit := 1
	if afterSentencePunct {
		limit = 2
	}
	if b.count >= 3 || b.count >= limit {
		return false
	}
	b.count++
	return true
}

func (b *spaceBudget) reset() { b.count = 0 }

func isSentencePunct(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// GetTextLine implements get_text_line (spec §4.3): it recognizes a
// maximal glyph run starting at start against font f, applying the jog,
// mis-recognition, space-budget and Greek-substitution rules, and
// rejecting degenerate all-punctuation results.
func GetTextLine(start rgeometry.Pixel, image *sparseimage.Image, f *font.Font) (TextLine, bool) {
	first, nextX, complement, ok := f.GetChar(start, image, true, 0)
	if !ok || first.Char == ' ' {
		return TextLine{}, false
	}

	chars := []font.CharBox{first}
	budget := &spaceBudget{}
	x := nextX
	y := start.Y

	for {
		cb, next, comp, recognized := f.GetChar(rgeometry.Pixel{X: x, Y: y}, image, false, complement)
		if !recognized {
			cb, next, comp, recognized = tryJog(f, x, y, image, complement)
		}
		if !recognized {
			break
		}
		if isLineFragment(cb, image) {
			break
		}

		if cb.Char == ' ' {
			prevSentence := len(chars) > 0 && isSentencePunct(chars[len(chars)-1].Char)
			if !budget.allow(prevSentence) {
				break
			}
			x, complement = next, comp
			continue
		}
		budget.reset()

		if len(chars) > 0 {
			prev := chars[len(chars)-1].Char
			if isGreek(prev) {
				if greek, isLookalike := greekLookalikes[cb.Char]; isLookalike {
					cb.Char = greek
				}
			} else if isGreek(cb.Char) {
				if greek, hasLookalike := greekLookalikes[prev]; hasLookalike && greek == cb.Char {
					chars[len(chars)-1].Char = greek
				}
			}
		}

		chars = append(chars, cb)
		x, y, complement = next, y, comp
	}

	chars = trimTrailingSpaceQuote(chars)
	if !validLine(chars) {
		return TextLine{}, false
	}

	color := lineColor(chars, image)
	return TextLine{Chars: chars, Font: f, Color: color}, true
}

// reverseGreekLookalike finds whether r is the Greek value of some Latin
// key in greekLookalikes, returning that Latin key.
func reverseGreekLookalike(r rune) (rune, bool) {
	for latin, greek := range greekLookalikes {
		if greek == r {
			return latin, true
		}
	}
	return 0, false
}

// isLineFragment implements spec §4.3 step 4: '|', '-' and '\'' are all
// shapes a speech-tail line can also produce; a recognized glyph of one of
// those chars is actually a tail if its underlying ink extends past the
// CharBox the font recognized.
func isLineFragment(cb font.CharBox, image *sparseimage.Image) bool {
	switch cb.Char {
	case '|', '-', '\'':
	default:
		return false
	}
	for _, p := range cb.Pixels {
		if !cb.Box.Includes(p) {
			return true
		}
	}
	// A tail can also extend beyond the box without any recognized pixel
	// falling outside it, when the shape is wider than what the font
	// matched; check the image directly around the box margins.
	box := cb.Box
	for x := box.Left() - 1; x <= box.Right(); x++ {
		if image.Has(rgeometry.Pixel{X: x, Y: box.Top() - 1}) || image.Has(rgeometry.Pixel{X: x, Y: box.Bottom()}) {
			return true
		}
	}
	return false
}

// tryJog retries recognition one pixel up, then one pixel down, per spec
// §4.3 step 3. Only vertical jogs are tried (no horizontal jog), and a
// jogged match is not logged. Jogged results of '_' or
// '\'' are rejected outright (those glyphs are too easily confused with
// underline/quote artifacts to trust off the primary baseline).
func tryJog(f *font.Font, x, y int, image *sparseimage.Image, complement font.Column) (font.CharBox, int, font.Column, bool) {
	_ = complement
	for _, dy := range []int{-1, 1} {
		cb, next, comp, ok := f.GetChar(rgeometry.Pixel{X: x, Y: y + dy}, image, false, 0)
		if ok && cb.Char != '_' && cb.Char != '\'' {
			return cb, next, comp, true
		}
	}
	return font.CharBox{}, x, 0, false
}

func trimTrailingSpaceQuote(chars []font.CharBox) []font.CharBox {
	for len(chars) >= 2 && chars[len(chars)-1].Char == '\'' && chars[len(chars)-2].Char == ' ' {
		chars = chars[:len(chars)-2]
	}
	for len(chars) > 0 && chars[len(chars)-1].Char == ' ' {
		chars = chars[:len(chars)-1]
	}
	return chars
}

func validLine(chars []font.CharBox) bool {
	if len(chars) == 0 {
		return false
	}
	text := ""
	for _, c := range chars {
		text += string(c.Char)
	}
	if text == "..." {
		return true
	}
	if len(chars) == 1 {
		r := chars[0].Char
		return isAlphaNumeric(r) || r == '!' || r == '?' || r == '$'
	}
	allPunct := true
	for _, c := range chars {
		if isAlphaNumeric(c.Char) {
			allPunct = false
			break
		}
	}
	return !allPunct
}

func isAlphaNumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func lineColor(chars []font.CharBox, image *sparseimage.Image) rgeometry.Color {
	for _, c := range chars {
		if len(c.Pixels) > 0 {
			return image.Get(c.Pixels[0])
		}
	}
	return rgeometry.Black
}
