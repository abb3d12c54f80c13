package textline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/janek37/parse-qwantz/internal/qwantz/font"
)

func charBox(char rune) font.CharBox {
	return font.CharBox{Char: char}
}

func TestValidLineRejectsAllPunctuationExceptEllipsis(t *testing.T) {
	assert.True(t, validLine([]font.CharBox{charBox('.'), charBox('.'), charBox('.')}))
	assert.False(t, validLine([]font.CharBox{charBox('.'), charBox(',')}))
	assert.True(t, validLine([]font.CharBox{charBox('a'), charBox(',')}))
}

func TestValidLineRejectsDegenerateSingleChar(t *testing.T) {
	assert.False(t, validLine([]font.CharBox{charBox(',')}))
	assert.True(t, validLine([]font.CharBox{charBox('!')}))
	assert.True(t, validLine([]font.CharBox{charBox('a')}))
}

func TestSpaceBudgetAllowsOneNormalTwoAfterSentence(t *testing.T) {
	b := &spaceBudget{}
	assert.True(t, b.allow(false))
	assert.False(t, b.allow(false))

	b2 := &spaceBudget{}
	assert.True(t, b2.allow(true))
	assert.True(t, b2.allow(true))
	assert.False(t, b2.allow(true))
}

func TestTrimTrailingSpaceQuote(t *testing.T) {
	chars := []font.CharBox{charBox('a'), charBox(' '), charBox('\'')}
	trimmed := trimTrailingSpaceQuote(chars)
	assert.Equal(t, []font.CharBox{charBox('a')}, trimmed)
}

func TestGreekLookalikeSubstitution(t *testing.T) {
	latin, ok := reverseGreekLookalike('ν')
	assert.True(t, ok)
	assert.Equal(t, 'v', latin)
}
