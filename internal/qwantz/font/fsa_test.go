package font

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFSAAcceptsInsertedSequence(t *testing.T) {
	f := newFSA()
	f.insert([]Column{0b101, 0b111, 0b101}, CharInfo{Char: 'A'})

	i := 0
	seq := []Column{0b101, 0b111, 0b101}
	info, consumed, ok := f.walk(func() (Column, bool) {
		if i >= len(seq) {
			return 0, false
		}
		c := seq[i]
		i++
		return c, true
	})
	assert.True(t, ok)
	assert.Equal(t, 3, consumed)
	assert.Equal(t, 'A', info.Char)
}

func TestFSAConflictPolicyOSupersedesZero(t *testing.T) {
	f := newFSA()
	shared := []Column{0b11, 0b11}
	f.insert(shared, CharInfo{Char: '0'})
	f.insert(shared, CharInfo{Char: 'O'})

	i := 0
	info, _, ok := f.walk(func() (Column, bool) {
		if i >= len(shared) {
			return 0, false
		}
		c := shared[i]
		i++
		return c, true
	})
	assert.True(t, ok)
	assert.Equal(t, 'O', info.Char)
}

func TestFSAConflictPolicyKeepsFirstOtherwise(t *testing.T) {
	f := newFSA()
	shared := []Column{0b1}
	f.insert(shared, CharInfo{Char: 'x'})
	f.insert(shared, CharInfo{Char: 'y'})

	i := 0
	info, _, ok := f.walk(func() (Column, bool) {
		if i >= len(shared) {
			return 0, false
		}
		c := shared[i]
		i++
		return c, true
	})
	assert.True(t, ok)
	assert.Equal(t, 'x', info.Char)
}

func TestBoldShapeWidensByOneColumn(t *testing.T) {
	cols := []Column{0b1, 0b10}
	bold := boldShape(cols)
	assert.Len(t, bold, 3)
	assert.Equal(t, Column(0b1), bold[0])
	assert.Equal(t, Column(0b11), bold[1])
	assert.Equal(t, Column(0b10), bold[2])
}

func TestCutBottomClearsLowestRow(t *testing.T) {
	cols := []Column{0b1011}
	cut := cutBottom(cols)
	assert.Equal(t, Column(0b0011), cut[0])
}

func TestCutTopClearsHighestRow(t *testing.T) {
	cols := []Column{0b1011}
	cut := cutTop(cols, 4)
	assert.Equal(t, Column(0b1010), cut[0])
}
