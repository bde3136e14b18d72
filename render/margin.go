package render

import (
	"fmt"
	"strings"
)

// marginEntry pairs a stretch of text with the display string of the marker
// opening it, empty when the text continues inside the current section.
type marginEntry struct {
	text   string
	marker string
}

// marginLayout lays out continuous text in a narrow column with markers
// right-aligned in a fixed left margin, approximating the Stephanus page.
// The unit boundary is the marker, not the paragraph or turn: text flows
// across speaker changes and is flushed only when a new marker (or the end
// of input) arrives. The marker prints on the first wrapped line of its
// unit, continuation lines get a blank margin.
func marginLayout(entries []marginEntry, l Layout) string {
	var out []string

	emit := func(text, marker string) {
		wrapped := wrapWords(text, l.ColumnWidth)
		blank := strings.Repeat(" ", l.MarginWidth)
		for i, line := range wrapped {
			if i == 0 && len(marker) > 0 {
				out = append(out, fmt.Sprintf("%*s %s", l.MarginWidth, marker, line))
				continue
			}
			out = append(out, blank+" "+line)
		}
	}

	var accumulated, pending string
	for _, e := range entries {
		if len(e.marker) > 0 {
			if len(accumulated) > 0 {
				emit(accumulated, pending)
			}
			accumulated = e.text
			pending = e.marker
			continue
		}
		if len(accumulated) > 0 && len(e.text) > 0 {
			accumulated += " " + e.text
		} else if len(accumulated) == 0 {
			accumulated = e.text
		}
	}
	if len(accumulated) > 0 {
		emit(accumulated, pending)
	}

	return strings.Join(out, "\n")
}
