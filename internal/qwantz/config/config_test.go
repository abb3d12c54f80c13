package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesSpecLiterals(t *testing.T) {
	d := Default()
	assert.Equal(t, 0.5, d.MissAngleCos)
	assert.Equal(t, 2.3, d.HorizontalMatchRatio)
	assert.Equal(t, 35.0, d.CharacterMaxDistance)
	assert.Equal(t, 44.0, d.TextLineMaxDistance)
}

func TestLoadOverridesOnlySetFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "thresholds.yaml")
	require.NoError(t, os.WriteFile(path, []byte("miss_angle_cos: 0.75\n"), 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.75, loaded.MissAngleCos)
	assert.Equal(t, 2.3, loaded.HorizontalMatchRatio, "unset fields keep the spec default, not zero")
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
