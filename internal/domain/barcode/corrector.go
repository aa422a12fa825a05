// Package barcode suggests fixes for mistyped prescription barcodes.
//
// Barcodes take the form "section1-section2-section3" where section2 is one
// uppercase letter followed by five digits. Typos come from characters that
// read alike on a printed script, so candidates are generated by swapping a
// single character in section1 or section3 through a fixed confusion table.
package barcode

import (
	"regexp"
	"strings"
)

// confusionTable maps each character to the characters it is commonly
// misread as. The table is bidirectional: every pair appears under both
// characters. Canonical set: 0-O, 1-I-L, 2-Z, 5-S, 6-G, 8-B, 4-A, 7-T.
var confusionTable = map[byte][]string{
	'0': {"O"},
	'1': {"L", "I"},
	'2': {"Z"},
	'4': {"A"},
	'5': {"S"},
	'6': {"G"},
	'7': {"T"},
	'8': {"B"},
	'A': {"4"},
	'B': {"8"},
	'G': {"6"},
	'I': {"1", "L"},
	'L': {"1", "I"},
	'O': {"0"},
	'S': {"5"},
	'T': {"7"},
	'Z': {"2"},
}

var middleSection = regexp.MustCompile(`^[A-Z]\d{5}$`)

// GenerateCorrections returns plausible corrections for a barcode, each
// differing from the input by exactly one character in section1 or section3.
// Section2 is never altered; it anchors the parse and must match [A-Z]\d{5}.
// Malformed input yields an empty result, never an error - a non-match is a
// normal outcome for this advisory search.
//
// Candidates are emitted in generation order: all section1 substitutions
// (position by position, table order within a position) followed by all
// section3 substitutions, with later duplicates suppressed.
func GenerateCorrections(input string) []string {
	sections := strings.Split(input, "-")
	if len(sections) != 3 {
		return []string{}
	}

	section1, section2, section3 := sections[0], sections[1], sections[2]
	if !middleSection.MatchString(section2) {
		return []string{}
	}

	seen := make(map[string]struct{})
	results := make([]string, 0)

	add := func(candidate string) {
		if _, ok := seen[candidate]; ok {
			return
		}
		seen[candidate] = struct{}{}
		results = append(results, candidate)
	}

	for _, fixed := range substitutions(section1) {
		add(fixed + "-" + section2 + "-" + section3)
	}
	for _, fixed := range substitutions(section3) {
		add(section1 + "-" + section2 + "-" + fixed)
	}

	return results
}

// substitutions returns every variant of section with exactly one character
// swapped through the confusion table.
func substitutions(section string) []string {
	variants := make([]string, 0)
	for i := 0; i < len(section); i++ {
		replacements, ok := confusionTable[section[i]]
		if !ok {
			continue
		}
		for _, replacement := range replacements {
			variants = append(variants, section[:i]+replacement+section[i+1:])
		}
	}
	return variants
}
