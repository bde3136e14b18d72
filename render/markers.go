package render

import (
	"ptx/stephanus"
)

// markerDisplay is the shared fold deciding how a segment's markers are
// printed. The convention shows the page number once when a page begins and
// bare section letters afterwards:
//
//	[327] text [b] text [c] text [328] text
//
// The decision depends on the last page already shown, so display is a fold
// over the whole rendered sequence, not a per-segment function. Every style
// that prints markers must share one instance per rendering pass or the
// variants drift apart.
type markerDisplay struct {
	lastPage uint32
	shown    bool
}

// Next renders the display string for a segment's marker list, or "" when
// there is nothing to show. Only the first marker of a multi-marker segment
// participates; the rest are informational (a page-opening segment carries
// e.g. "58" and "58a" but displays "[58]" once).
func (d *markerDisplay) Next(markers []string) string {
	if len(markers) == 0 {
		return ""
	}

	first, err := stephanus.ParseMarker(markers[0])
	if err != nil {
		// corpus oddities, show verbatim without touching page state
		return "[" + markers[0] + "]"
	}

	out := d.format(first, pageOpening(markers))
	d.lastPage = first.Page
	d.shown = true
	return out
}

func (d *markerDisplay) format(m stephanus.Marker, opensPage bool) string {
	page := stephanus.Marker{Page: m.Page}.String()

	if !m.HasLetter() || opensPage {
		return "[" + page + "]"
	}
	switch {
	case d.shown && m.Page == d.lastPage:
		// same page as last shown, the letter is enough
		return "[" + string(m.Letter) + "]"
	case m.Letter == 'a':
		// first section opens the page
		return "[" + page + "]"
	case !d.shown:
		// mid-page entry with no prior context needs the full citation
		return "[" + m.String() + "]"
	default:
		// page transition landing on a non-initial section
		return "[" + m.String() + "]"
	}
}

// pageOpening recognizes the marker pair a page-boundary segment carries:
// the bare page token immediately followed by its first section ("58",
// "58a").
func pageOpening(markers []string) bool {
	if len(markers) < 2 {
		return false
	}
	first, err := stephanus.ParseMarker(markers[0])
	if err != nil || first.HasLetter() {
		return false
	}
	second, err := stephanus.ParseMarker(markers[1])
	if err != nil {
		return false
	}
	return second.Page == first.Page && second.Letter == 'a'
}
