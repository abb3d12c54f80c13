package colorlog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/janek37/parse-qwantz/common"
)

func TestWithPanelPrefixesLines(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{level: common.LogLevelWarning, out: &buf, colors: false}
	panelLogger := l.WithPanel(3)
	panelLogger.Warning("unmatched shape at (%d,%d)", 1, 2)
	assert.Contains(t, buf.String(), "Panel 3:")
	assert.Contains(t, buf.String(), "unmatched shape at (1,2)")
}

func TestLevelFilteringSuppressesBelowThreshold(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{level: common.LogLevelError, out: &buf, colors: false}
	l.Warning("should not appear")
	assert.Empty(t, buf.String())
	l.Error("should appear")
	assert.Contains(t, buf.String(), "should appear")
}

func TestWithPanelZeroClearsPrefix(t *testing.T) {
	var buf bytes.Buffer
	l := (&Logger{level: common.LogLevelWarning, out: &buf, colors: false}).WithPanel(2)
	footer := l.WithPanel(0)
	footer.Warning("footer message")
	assert.NotContains(t, buf.String(), "Panel")
}
