// Package hyphen implements the hyphenation disambiguator described in
// spec §4.10: given the word fragment before and after a line-ending
// hyphen, decide whether the hyphen was a genuine word-break (keep it) or
// an artifact of line wrapping (drop it and join the words). Grounded on
// original_source/parse_qwantz's hyphens.py (disambiguate_hyphen,
// make_word_set), generalized from its importlib.resources package-data
// load to a go:embed'd word list.
package hyphen

import (
	_ "embed"
	"strings"

	"github.com/janek37/parse-qwantz/common"
)

//go:embed dict/general_words.txt
var generalWordsFile string

//go:embed dict/qwantz_words.txt
var qwantzWordsFile string

// wordSet is the merged vocabulary both dictionaries contribute to (spec
// §4.10's "Qwantz dictionary" plus "General English dictionary (fallback)"
// are unioned into one lookup set, matching hyphens.py's WORD_SET — the
// Qwantz list exists to cover strip-specific words, like character names,
// the general fallback never would).
var wordSet = buildWordSet()

func buildWordSet() map[string]bool {
	set := make(map[string]bool)
	addWords(set, generalWordsFile)
	addWords(set, qwantzWordsFile)
	return set
}

func addWords(set map[string]bool, file string) {
	for _, line := range strings.Split(file, "\n") {
		word := strings.ToLower(strings.TrimSpace(line))
		if word != "" {
			set[word] = true
		}
	}
}

// inSet reports whether the lowercased word is known to either dictionary.
func inSet(word string) bool {
	return wordSet[strings.ToLower(word)]
}

// Disambiguate implements disambiguate_hyphen (spec §4.10): part1 is the
// text ending in the hyphen candidate (e.g. "dino"), part2 is the text
// starting the next row (e.g. "saur!" — callers should already have
// trimmed it down to the bare next word before calling this, per spec
// §4.9's "look up {prev_suffix, next_prefix}"). Returns true when the
// hyphen should be KEPT, false when it should be dropped and the two
// parts joined directly.
func Disambiguate(part1, part2 string) bool {
	if part1 == "" || part2 == "" {
		return true
	}
	lastRune := rune(part1[len(part1)-1])
	firstRune := rune(part2[0])
	if isLower(lastRune) && isUpper(firstRune) {
		return true
	}
	if firstRune >= '0' && firstRune <= '9' {
		return true
	}
	joined := inSet(part1 + part2)
	separate := inSet(part1) && inSet(part2)
	if joined == separate {
		state := "none"
		if joined {
			state = "both"
		}
		common.Log.Warning("Ambiguous hyphen (%s/%s); %s in dict", part1, part2, state)
	}
	return !joined && separate
}

func isLower(r rune) bool { return r >= 'a' && r <= 'z' }
func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
