package script

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/janek37/parse-qwantz/internal/qwantz/block"
	"github.com/janek37/parse-qwantz/internal/qwantz/font"
	"github.com/janek37/parse-qwantz/internal/qwantz/match"
	"github.com/janek37/parse-qwantz/internal/qwantz/rgeometry"
	"github.com/janek37/parse-qwantz/internal/qwantz/textline"
)

func monoFont(bold, italic bool) *font.Font {
	return &font.Font{Name: "Regular", Group: "regular", Width: 7, Height: 13, Baseline: 10, SpaceWidth: 4, IsMono: true, IsBold: bold}
}

func charsOf(text string, f *font.Font, italic bool) []font.CharBox {
	var chars []font.CharBox
	x := 0
	for _, r := range text {
		box := rgeometry.NewBox(rgeometry.Pixel{X: x, Y: 0}, rgeometry.Pixel{X: x + f.Width, Y: f.Height})
		chars = append(chars, font.CharBox{Char: r, Box: box, IsBold: f.IsBold, IsItalic: italic})
		x += f.Width
	}
	return chars
}

func blockOf(text string, color rgeometry.Color, f *font.Font, italic bool) block.TextBlock {
	line := textline.TextLine{Chars: charsOf(text, f, italic), Font: f, Color: color}
	return block.TextBlock{
		Rows:  []block.Row{{Lines: []textline.TextLine{line}}},
		Color: color,
	}
}

func TestHandleGodAndDevilRed(t *testing.T) {
	b := blockOf("PROVE IT", rgeometry.Red, monoFont(true, false), false)
	c := HandleGodAndDevil(b, true)
	assert.Equal(t, devil, c)
}

func TestHandleGodAndDevilBold(t *testing.T) {
	b := blockOf("PROVE IT", rgeometry.Black, monoFont(true, false), false)
	c := HandleGodAndDevil(b, true)
	assert.Equal(t, god, c)
}

func TestHandleGodAndDevilCreepyVoices(t *testing.T) {
	b := blockOf("WHO GOES THERE", rgeometry.Black, monoFont(false, false), true)
	c := HandleGodAndDevil(b, true)
	assert.Equal(t, creepyVoices, c)
}

func TestHandleGodAndDevilRejectsLowercase(t *testing.T) {
	b := blockOf("Prove it", rgeometry.Black, monoFont(true, false), false)
	assert.Nil(t, HandleGodAndDevil(b, true))
}

func TestHandleGodAndDevilRejectsNonOffPanel(t *testing.T) {
	b := blockOf("PROVE IT", rgeometry.Black, monoFont(true, false), false)
	assert.Nil(t, HandleGodAndDevil(b, false))
}

func TestGetScriptLinesNarratorFallback(t *testing.T) {
	b := blockOf("THE END", rgeometry.Black, monoFont(true, false), false)
	attributions := []Attribution{{Block: b}}
	lines := GetScriptLines(attributions, false)
	if assert.Len(t, lines, 1) {
		assert.Equal(t, "Narrator: THE END", lines[0])
	}
}

func TestGetScriptLinesAttributedCharacter(t *testing.T) {
	rex := &match.Character{Name: "T-Rex"}
	b := blockOf("i am a dinosaur", rgeometry.Black, monoFont(false, false), false)
	attributions := []Attribution{{Block: b, Characters: []*match.Character{rex}}}
	lines := GetScriptLines(attributions, false)
	if assert.Len(t, lines, 1) {
		assert.Equal(t, "T-Rex: i am a dinosaur", lines[0])
	}
}

func TestGetScriptLinesOffPanelGodRelabel(t *testing.T) {
	b := blockOf("PROVE IT", rgeometry.Black, monoFont(true, false), false)
	attributions := []Attribution{{Block: b, Characters: []*match.Character{match.OffPanel}}}
	lines := GetScriptLines(attributions, false)
	if assert.Len(t, lines, 1) {
		assert.Equal(t, "God: PROVE IT", lines[0])
	}
}

func TestGetScriptLinesPrependsAskProfessorScience(t *testing.T) {
	b := blockOf("THE END", rgeometry.Black, monoFont(true, false), false)
	attributions := []Attribution{{Block: b}}
	lines := GetScriptLines(attributions, true)
	if assert.Len(t, lines, 2) {
		assert.Equal(t, "Sign: ASK PROFESSOR SCIENCE", lines[0])
	}
}
