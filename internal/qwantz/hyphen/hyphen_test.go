package hyphen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisambiguateJoinsKnownWord(t *testing.T) {
	assert.False(t, Disambiguate("dino", "saur"), "dinosaur is a known joined word")
}

func TestDisambiguateKeepsHyphenOnLowerUpperBoundary(t *testing.T) {
	assert.True(t, Disambiguate("good", "Will"))
}

func TestDisambiguateKeepsHyphenOnDigit(t *testing.T) {
	assert.True(t, Disambiguate("page", "2"))
}

func TestDisambiguateIsIdempotent(t *testing.T) {
	first := Disambiguate("dino", "saur")
	second := Disambiguate("dino", "saur")
	assert.Equal(t, first, second)
}
