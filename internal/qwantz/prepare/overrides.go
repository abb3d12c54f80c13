package prepare

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"os"

	"github.com/janek37/parse-qwantz/internal/qwantz/errors"
)

// Overrides loads the panel-overrides table from a JSON file at path,
// ported from panel_overrides.py's get_panel_overrides: keyed by the MD5
// hex digest of a page's raw bitmap bytes, each entry maps a string panel
// index ("1".."6") or "footer" to the verbatim script lines to emit for
// that page, short-circuiting the recognition pipeline entirely.
func Overrides(path string) (map[string]map[string][]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "prepare", "reading panel overrides file")
	}
	var entries map[string]struct {
		Panels map[string][]string `json:"panels"`
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, errors.Wrap(err, "prepare", "parsing panel overrides file")
	}
	out := make(map[string]map[string][]string, len(entries))
	for md5Hex, entry := range entries {
		out[md5Hex] = entry.Panels
	}
	return out, nil
}

// DigestOf returns the MD5 hex digest of raw page bytes, the key panel
// overrides are looked up by.
func DigestOf(raw []byte) string {
	sum := md5.Sum(raw)
	return hex.EncodeToString(sum[:])
}
