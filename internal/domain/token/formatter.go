package token

import (
	"regexp"
	"strings"
)

// NHS prescription tokens are 18 characters once junk is stripped. Pasted
// entries that clean up to fewer than 16 characters are treated as noise
// rather than mistyped tokens and are dropped entirely.
const (
	tokenLength    = 18
	minTokenLength = 16
)

var (
	whitespace = regexp.MustCompile(`\s+`)
	junkChars  = regexp.MustCompile(`[^A-Za-z0-9+]`)
)

// FormatTokens splits pasted text on whitespace and normalizes each entry
// into a candidate token. Entries shorter than 16 characters after cleaning
// are discarded; the rest are marked valid only when exactly 18 characters
// remain. Output order follows input order.
func FormatTokens(raw string) []Token {
	parts := whitespace.Split(raw, -1)

	tokens := make([]Token, 0, len(parts))
	for _, part := range parts {
		normalized := junkChars.ReplaceAllString(part, "")
		if len(normalized) > tokenLength {
			normalized = normalized[:tokenLength]
		}
		if len(normalized) < minTokenLength {
			continue
		}
		tokens = append(tokens, Token{
			Original:   part,
			Normalized: normalized,
			Valid:      len(normalized) == tokenLength,
		})
	}
	return tokens
}

// RenderGrouped uppercases a token and renders it in the 6-6-6 display form
// used by the NHS portal, e.g. "ABC123DEF456GHI789" -> "ABC123-DEF456-GHI789".
// Strings that are not 18 characters long are returned uppercased but
// ungrouped; short tokens are an accepted degenerate case, not an error.
func RenderGrouped(tok string) string {
	upper := strings.ToUpper(tok)
	if len(upper) != tokenLength {
		return upper
	}
	return upper[0:6] + "-" + upper[6:12] + "-" + upper[12:18]
}
