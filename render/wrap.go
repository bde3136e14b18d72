package render

import "strings"

// wrapWords greedily wraps text at width, breaking only at whitespace. A
// word longer than the width gets a line of its own, it is never split.
func wrapWords(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if runeLen(line)+1+runeLen(w) <= width {
			line += " " + w
			continue
		}
		lines = append(lines, line)
		line = w
	}
	return append(lines, line)
}

// wrapRunes breaks text into fixed-width rune chunks. Scriptio continua has
// no spaces, so mid-word breaking is the only option.
func wrapRunes(text string, width int) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	var lines []string
	for len(runes) > width {
		lines = append(lines, string(runes[:width]))
		runes = runes[width:]
	}
	return append(lines, string(runes))
}

func runeLen(s string) int {
	return len([]rune(s))
}
