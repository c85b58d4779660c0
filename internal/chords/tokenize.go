package chords

import (
	"regexp"
	"strings"
)

// detachedModifierRe matches whitespace separating a chord from a flat or
// sharp extension like "b5" or "#11". The scraper occasionally emits
// "Bm7 b5", which the scanner would otherwise read as a new "B" root.
var detachedModifierRe = regexp.MustCompile(`\s+([#b♯♭][0-9])`)

// Tokenize splits a raw scraped label into individual chord labels. The
// markup on the source site sometimes glues adjacent chord spans into one
// string ("E7Am", "AmDm"), so a plain whitespace split is not enough.
//
// The scan walks runes left to right:
//   - whitespace, parentheses, commas and bidi control characters end the
//     current token;
//   - an uppercase A-G starts a new token unless it follows "/", where it
//     is the bass note of the current chord;
//   - a lowercase a-g starts a new token only after a digit or a closing
//     parenthesis, and never when it is a "b" introducing a flat modifier
//     like "b5";
//   - anything else alphanumeric extends the current token, the rest is
//     dropped.
func Tokenize(label string) []string {
	cleaned := detachedModifierRe.ReplaceAllString(label, "$1")
	runes := []rune(cleaned)

	var tokens []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			tokens = append(tokens, string(cur))
			cur = cur[:0]
		}
	}

	for i, r := range runes {
		switch {
		case isTokenSeparator(r):
			flush()
		case r >= 'A' && r <= 'G':
			if i > 0 && runes[i-1] == '/' {
				cur = append(cur, r)
			} else {
				flush()
				cur = append(cur, r)
			}
		case r >= 'a' && r <= 'g':
			if startsLowercaseRoot(runes, cur, i) {
				flush()
				cur = append(cur, r-'a'+'A')
			} else {
				cur = append(cur, r)
			}
		case r == '/':
			cur = append(cur, r)
		case isAccidental(r), isAlphanumeric(r):
			cur = append(cur, r)
		}
	}
	flush()

	// Never lose chord text silently: if the scan produced nothing from a
	// non-blank input, fall back to a whitespace split of the raw label.
	if len(tokens) == 0 && strings.TrimSpace(label) != "" {
		return strings.Fields(label)
	}
	return tokens
}

// startsLowercaseRoot decides whether a lowercase a-g at position i begins
// a new chord rather than extending the current one. The heuristic is
// best-effort: some spellings are inherently ambiguous and stay noise.
func startsLowercaseRoot(runes []rune, cur []rune, i int) bool {
	if len(cur) == 0 || i == 0 {
		return false
	}
	prev := runes[i-1]
	if prev != ')' && !isDigit(prev) {
		return false
	}
	// "b" right before a digit is a flat modifier ("b5"), not a "B" root.
	if runes[i] == 'b' && i+1 < len(runes) && isDigit(runes[i+1]) {
		return false
	}
	return true
}

func isTokenSeparator(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '(', ')', ',':
		return true
	}
	return isBidiControl(r)
}

// isBidiControl reports the directionality control characters that leak
// out of the site's mixed Hebrew/Latin markup.
func isBidiControl(r rune) bool {
	switch r {
	case '\u200e', '\u200f', '\u061c': // LRM, RLM, ALM
		return true
	}
	// LRE..RLO embedding controls and LRI..PDI isolate controls.
	return (r >= '\u202a' && r <= '\u202e') || (r >= '\u2066' && r <= '\u2069')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlphanumeric(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
