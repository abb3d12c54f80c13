// Package config holds the process-wide tunable thresholds the line
// matcher and text-block assembler use, addressing spec §9's Open
// Question that "the precise thresholds ... are tunables; implementations
// should expose them as named constants." Grounded on the teacher's own
// pattern of a package-level immutable config loaded once at startup
// (model/internal/fonts standard-fonts table, loaded once and never
// mutated); generalized here to a YAML file discovered via
// github.com/adrg/xdg, the teacher's own dependency for locating
// user-writable state directories.
package config

import (
	"os"
	"sync"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/janek37/parse-qwantz/internal/qwantz/errors"
)

// Thresholds collects every named tunable referenced by spec §4.7 and
// §4.6. Zero-value Thresholds is never used directly; Default() or Load()
// should be called first.
type Thresholds struct {
	// MissAngleCos is the minimum miss_angle_cos a line-matcher candidate
	// must clear to be considered at all (spec §4.7 step 3).
	MissAngleCos float64 `yaml:"miss_angle_cos"`
	// HorizontalMatchRatio is the |dx| > ratio*|dy| threshold used by
	// is_horizontal_match during forced resolution (spec §4.7, "Open
	// Questions": 2.3).
	HorizontalMatchRatio float64 `yaml:"horizontal_match_ratio"`
	// CharacterMaxDistance and TextLineMaxDistance bound how far a speech
	// tail endpoint may sit from a candidate target and still match
	// (spec §4.7 step 3: 35 and 44 pixels respectively).
	CharacterMaxDistance float64 `yaml:"character_max_distance"`
	TextLineMaxDistance  float64 `yaml:"text_line_max_distance"`
}

// Default returns the spec's literal threshold values (spec §4.7, §9).
func Default() Thresholds {
	return Thresholds{
		MissAngleCos:         0.5,
		HorizontalMatchRatio: 2.3,
		CharacterMaxDistance: 35,
		TextLineMaxDistance:  44,
	}
}

var (
	once    sync.Once
	current Thresholds
)

// Current returns the process-wide Thresholds, loading it from the XDG
// config path on first use (spec §5 "read once at process start, then
// immutable for the process lifetime"). Any error loading an override
// file is treated as "use defaults" — a missing or malformed override
// file is not a fatal condition for a pipeline that has sane built-in
// constants.
func Current() Thresholds {
	once.Do(func() {
		current = Default()
		path, err := xdg.ConfigFile("parse-qwantz/thresholds.yaml")
		if err != nil {
			return
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return
		}
		var loaded Thresholds
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			return
		}
		current = mergeNonZero(current, loaded)
	})
	return current
}

// Load reads threshold overrides from an explicit path, for callers that
// want to point at a specific config file rather than rely on XDG
// discovery. It always resets Current()'s cache.
func Load(path string) (Thresholds, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Thresholds{}, errors.Wrap(err, "config", "reading thresholds file")
	}
	loaded := Default()
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return Thresholds{}, errors.Wrap(err, "config", "parsing thresholds file")
	}
	once.Do(func() {})
	current = loaded
	return loaded, nil
}

func mergeNonZero(base, override Thresholds) Thresholds {
	if override.MissAngleCos != 0 {
		base.MissAngleCos = override.MissAngleCos
	}
	if override.HorizontalMatchRatio != 0 {
		base.HorizontalMatchRatio = override.HorizontalMatchRatio
	}
	if override.CharacterMaxDistance != 0 {
		base.CharacterMaxDistance = override.CharacterMaxDistance
	}
	if override.TextLineMaxDistance != 0 {
		base.TextLineMaxDistance = override.TextLineMaxDistance
	}
	return base
}
