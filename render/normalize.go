package render

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks removes combining diacritical marks after NFD decomposition.
// Applied to already-stripped text it is a no-op.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

// RemoveAccents strips Greek accents and breathings (any combining mark)
// from text.
func RemoveAccents(text string) string {
	out, _, err := transform.String(stripMarks, text)
	if err != nil {
		// transform on valid UTF-8 with these chains does not fail; keep the
		// input rather than dropping text
		return text
	}
	return out
}

// punctuation covers Greek and Latin marks present in Perseus editions,
// including typographic quotes and the koronis-like apostrophe.
const punctuation = ".,;·?!()[]\"“”'‘’ʼ—-"

// stripPunctuation removes all punctuation, keeping word boundaries.
func stripPunctuation(text string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(punctuation, r) {
			return -1
		}
		return r
	}, text)
}

// stripCommas removes commas only.
func stripCommas(text string) string {
	return strings.ReplaceAll(text, ",", "")
}

// normalizeDashes replaces em-dashes with spaces and collapses the result.
// Every style except the full modern edition applies this first.
func normalizeDashes(text string) string {
	text = strings.ReplaceAll(text, "—", " ")
	return strings.Join(strings.Fields(text), " ")
}

// upperNoAccents renders titles and headers: uppercase with diacritics
// stripped.
func upperNoAccents(text string) string {
	return RemoveAccents(strings.ToUpper(text))
}
