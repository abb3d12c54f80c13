package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapPreservesSentinel(t *testing.T) {
	wrapped := Wrap(ErrWrongDimensions, "Prepare.Load", "page 1")
	assert.True(t, Is(wrapped, ErrWrongDimensions))
	assert.Contains(t, wrapped.Error(), "Prepare.Load")
	assert.Contains(t, wrapped.Error(), "page 1")
}

func TestErrorfFormats(t *testing.T) {
	err := Errorf("Font.GetChar", "no glyph at column %d", 4)
	assert.Contains(t, err.Error(), "no glyph at column 4")
}
