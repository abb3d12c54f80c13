package block

import (
	"strings"

	"github.com/janek37/parse-qwantz/internal/qwantz/font"
	"github.com/janek37/parse-qwantz/internal/qwantz/hyphen"
)

const punctBoundary = ".,!?\" "

// Content renders the block's rows into one script-line string, per spec
// §4.9 "Content rendering": rows are joined with a space (or, at a
// hyphenated line break, resolved via the hyphenation disambiguator),
// bold runs are wrapped in ◖…◗ and italic runs in ▹…◃ (either marker
// suppressed by markBold/markItalic), and a non-default font name is
// prefixed in parentheses when includeFontName is set. Ported from
// text_blocks.py's TextBlock.content, called with mark_bold=False for God
// and Devil and mark_italic=False for Creepy voice(s) (parser.py's
// get_script_lines).
func (b TextBlock) Content(markBold, markItalic, includeFontName bool) string {
	var chars []font.CharBox
	for _, row := range b.Rows {
		if len(chars) > 0 {
			chars = b.joinRowBoundary(chars, row)
		}
		var previous *font.CharBox
		for i := range row.Lines {
			line := &row.Lines[i]
			if previous != nil {
				gap := line.Box().Left() - previous.Box.Right()
				if gap >= line.Font.SpaceWidth/2 {
					chars = append(chars, spaceLike(*previous))
				}
			}
			chars = append(chars, line.Chars...)
			if len(line.Chars) > 0 {
				previous = &line.Chars[len(line.Chars)-1]
			}
		}
	}

	content := renderRuns(chars, markBold, markItalic)
	content = strings.ReplaceAll(content, "  ", " ")
	if includeFontName {
		name := b.Font().Name
		if name != "Regular" && name != "Italic" {
			content = "(" + strings.ToLower(name) + ") " + content
		}
	}
	return content
}

// joinRowBoundary appends the separator between the previous row's chars
// and the next row, resolving a trailing hyphen via hyphen.Disambiguate
// when applicable (spec §4.9's hyphen-at-line-end handling).
func (b TextBlock) joinRowBoundary(chars []font.CharBox, nextRow Row) []font.CharBox {
	last := chars[len(chars)-1]
	if last.Char != '-' || (len(chars) >= 2 && strings.ContainsRune(" -", chars[len(chars)-2].Char)) {
		return append(chars, spaceLike(last))
	}

	var lastWords []rune
	for i := len(chars) - 2; i >= 0; i-- {
		c := chars[i]
		if strings.ContainsRune(punctBoundary, c.Char) {
			break
		}
		lastWords = append([]rune{c.Char}, lastWords...)
	}
	nextContent := ""
	if len(nextRow.Lines) > 0 {
		nextContent = nextRow.Lines[0].Text()
	}
	nextWords := leadingNonPunct(nextContent)

	lastWord := afterLastHyphen(string(lastWords))
	nextWord := beforeFirstHyphen(nextWords)

	if hyphen.Disambiguate(lastWord, nextWord) {
		return chars
	}
	return chars[:len(chars)-1]
}

// leadingNonPunct mirrors re.match(r'[^].,!?" ]*', content): the longest
// prefix not containing any of the punctuation-boundary characters.
func leadingNonPunct(s string) string {
	idx := strings.IndexAny(s, punctBoundary)
	if idx < 0 {
		return s
	}
	return s[:idx]
}

func afterLastHyphen(s string) string {
	if idx := strings.LastIndex(s, "-"); idx >= 0 {
		return s[idx+1:]
	}
	return s
}

func beforeFirstHyphen(s string) string {
	if idx := strings.Index(s, "-"); idx >= 0 {
		return s[:idx]
	}
	return s
}

func spaceLike(like font.CharBox) font.CharBox {
	return font.CharBox{Char: ' ', IsBold: like.IsBold, IsItalic: like.IsItalic}
}

// renderRuns groups consecutive CharBoxes sharing (bold, italic) and wraps
// bold runs in ◖…◗ and italic runs in ▹…◃, excluding each run's trailing
// spaces from the markers (text_blocks.py's mark_excluding_trailing_spaces).
func renderRuns(chars []font.CharBox, markBold, markItalic bool) string {
	var b strings.Builder
	i := 0
	for i < len(chars) {
		bold := chars[i].IsBold && markBold
		italic := chars[i].IsItalic && markItalic
		j := i
		var run strings.Builder
		for j < len(chars) && (chars[j].IsBold && markBold) == bold && (chars[j].IsItalic && markItalic) == italic {
			run.WriteRune(chars[j].Char)
			j++
		}
		text := run.String()
		if bold || italic {
			marker := "▹"
			closer := "◃"
			if bold {
				marker, closer = "◖", "◗"
			}
			b.WriteString(markExcludingTrailingSpaces(text, marker, closer))
		} else {
			b.WriteString(text)
		}
		i = j
	}
	return b.String()
}

func markExcludingTrailingSpaces(s, open, close string) string {
	trimmed := strings.TrimRight(s, " ")
	trailing := s[len(trimmed):]
	return open + trimmed + close + trailing
}
