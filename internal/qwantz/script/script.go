// Package script renders a panel's matched text blocks into the final
// script-line strings: "Speaker: content" for every attributed block, with
// the God/Devil/Creepy-voice(s) relabeling, thought-bubble phrasing, and
// narrator/non-mono-font fallbacks spec §4.9 describes. Grounded on
// original_source/parse_qwantz's parser.py (get_script_lines,
// handle_god_and_devil), the richer revision that supersedes main.py's
// simpler copy.
package script

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/janek37/parse-qwantz/common"
	"github.com/janek37/parse-qwantz/internal/qwantz/block"
	"github.com/janek37/parse-qwantz/internal/qwantz/match"
	"github.com/janek37/parse-qwantz/internal/qwantz/rgeometry"
)

// upperCaser capitalizes a script line's leading letter using English
// casing rules.
var upperCaser = cases.Upper(language.English)

// god, devil and creepyVoices are the synthesized speakers an otherwise
// off-panel, all-caps block collapses to (spec §4.9).
var (
	god          = &match.Character{Name: "God"}
	devil        = &match.Character{Name: "Devil"}
	creepyVoices = &match.Character{Name: "Creepy voice(s)"}
)

// Attribution pairs one text block with whatever the block matcher,
// thought matcher, or neither assigned it. Characters usually holds
// exactly one name; it holds two when a line is shared by two speakers
// ("T-Rex and Utahraptor: ..."). Thought is set instead when the block
// fills a detected thought bubble.
type Attribution struct {
	Block      block.TextBlock
	Characters []*match.Character
	Thought    *match.Character
}

// GetScriptLines renders every attribution into its final line, in reading
// order (spec §4.6's block ordering applied to the attributions' blocks).
// askProfessorScience prepends the fixed banner line panel 1 gets when its
// swatch was detected.
func GetScriptLines(attributions []Attribution, askProfessorScience bool) []string {
	sorted := make([]Attribution, len(attributions))
	copy(sorted, attributions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return block.Compare(sorted[i].Block, sorted[j].Block) < 0
	})

	var lines []string
	if askProfessorScience {
		lines = append(lines, "Sign: ASK PROFESSOR SCIENCE")
	}
	for _, a := range sorted {
		if line := renderBlock(a); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func renderBlock(a Attribution) string {
	characters := a.Characters
	isOffPanel := len(characters) == 1 && characters[0] == match.OffPanel
	if godOrDevil := HandleGodAndDevil(a.Block, isOffPanel); godOrDevil != nil {
		characters = []*match.Character{godOrDevil}
	}

	switch {
	case len(characters) > 0:
		isGodOrDevil := len(characters) == 1 && (characters[0] == god || characters[0] == devil)
		isCreepy := len(characters) == 1 && characters[0] == creepyVoices
		var content string
		switch {
		case isGodOrDevil:
			content = a.Block.Content(false, true, false)
		case isCreepy:
			content = a.Block.Content(true, false, false)
		case len(characters) == 1 && characters[0].Name == "Floating Batman head":
			content = a.Block.Content(true, true, false)
		default:
			content = a.Block.Content(true, true, true)
		}
		names := make([]string, len(characters))
		for i, c := range characters {
			names[i] = c.Name
		}
		return capitalizeFirst(strings.Join(names, " and ") + ": " + content)
	case a.Thought != nil:
		return a.Thought.Name + ": 〚thinks〛 " + a.Block.Content(true, true, false)
	case !a.Block.Font().IsMono:
		return "Text: " + a.Block.Content(true, true, false)
	default:
		if !a.Block.IsBold() {
			common.Log.Warning("Narrator not bold: %s", a.Block.Font().Name)
		}
		return "Narrator: " + a.Block.Content(false, true, false)
	}
}

// HandleGodAndDevil implements parser.py's handle_god_and_devil: an
// off-panel, fully-uppercase block is God (bold), Devil (bold and red) or
// Creepy voice(s) (italic), never the bare narrator. Any lowercase letter
// in the block's own content rules all three out.
func HandleGodAndDevil(b block.TextBlock, isOffPanel bool) *match.Character {
	content := b.Content(false, false, false)
	for _, r := range content {
		if unicode.IsLower(r) {
			return nil
		}
	}
	switch {
	case b.Color == rgeometry.Red && isOffPanel && b.IsBold():
		return devil
	case isOffPanel && b.IsBold():
		return god
	case isOffPanel && containsItalic(b):
		return creepyVoices
	}
	return nil
}

func containsItalic(b block.TextBlock) bool {
	for _, row := range b.Rows {
		for _, line := range row.Lines {
			for _, c := range line.Chars {
				if c.IsItalic {
					return true
				}
			}
		}
	}
	return false
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return upperCaser.String(string(r[0])) + string(r[1:])
}
