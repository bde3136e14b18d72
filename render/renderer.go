package render

import (
	"strings"

	"ptx/segment"
)

// StephanusAuthor is the TLG identifier of Plato, the one author whose works
// the 1578 Stephanus edition paginates. The facsimile layout is meaningless
// for anyone else.
const StephanusAuthor = "tlg0059"

// Layout holds the widths used by line and margin formatting. Values come
// from configuration, they are not ambient defaults.
type Layout struct {
	WrapWidth   int // standard wrap for paragraph styles
	ColumnWidth int // narrow Renaissance column for the facsimile layout
	MarginWidth int // left margin reserved for markers in the facsimile layout
}

// DefaultLayout mirrors the widths of the printed editions the styles
// approximate.
func DefaultLayout() Layout {
	return Layout{WrapWidth: 79, ColumnWidth: 40, MarginWidth: 6}
}

// Renderer renders a work's segments under a chosen style. It holds only
// configuration; each Render call is a pure function of its input and the
// same Renderer may be used from independent goroutines.
type Renderer struct {
	Title    string // Greek title from the TEI header, may be empty
	AuthorID string // TLG author ID, used by the facsimile layout gate
	Layout   Layout
}

// Render produces the text for the given style. An empty segment list
// renders as an empty string; validating extraction results is the
// extractor's job, not repeated here.
func (r *Renderer) Render(segments []segment.Segment, style Style) (string, error) {
	if style == StyleStephanusLayout && len(r.AuthorID) > 0 && r.AuthorID != StephanusAuthor {
		return "", &StyleError{
			Style: "S (stephanus_layout)",
			Reason: "this style is only valid for Plato's works (" + StephanusAuthor + "); " +
				"Stephanus pagination refers to the 1578 Estienne edition of Plato",
		}
	}
	if len(segments) == 0 {
		return "", nil
	}

	switch style {
	case StyleFullModern:
		return r.renderParagraphs(segments, nil, false), nil
	case StyleMinimalPunctuation:
		return r.renderParagraphs(segments, stripCommas, true), nil
	case StyleNoPunctuation:
		return r.renderParagraphs(segments, stripPunctuation, true), nil
	case StyleNoPunctuationNoLabels:
		return r.renderContinuous(segments), nil
	case StyleScriptioContinua:
		return r.renderScriptio(segments), nil
	case StyleStephanusLayout:
		return r.renderMargin(segments), nil
	default:
		return "", &StyleError{Style: style.String(), Reason: "style is not implemented"}
	}
}

// renderParagraphs is the shared layout of the three paragraph styles: one
// paragraph per turn (or per editorial paragraph break inside a turn),
// speaker label only on speaker change, markers through the shared display
// fold, title and book headers up front.
func (r *Renderer) renderParagraphs(segments []segment.Segment, clean func(string) string, dashes bool) string {
	var paragraphs []string
	var parts []string

	flush := func() {
		if len(parts) == 0 {
			return
		}
		paragraphs = append(paragraphs, strings.Join(wrapWords(strings.Join(parts, " "), r.Layout.WrapWidth), "\n"))
		parts = nil
	}

	if len(r.Title) > 0 {
		paragraphs = append(paragraphs, upperNoAccents(r.Title))
	}

	var disp markerDisplay
	lastSpeaker, lastBook := "", ""
	lastTurn := -1
	started := false

	for _, seg := range segments {
		if len(seg.Book) > 0 && seg.Book != lastBook {
			flush()
			paragraphs = append(paragraphs, r.bookHeader(seg.Book))
			lastBook = seg.Book
		}
		if (started && seg.TurnID != lastTurn) || seg.IsParagraphStart {
			flush()
		}

		if m := disp.Next(seg.Stephanus); len(m) > 0 {
			parts = append(parts, m)
		}
		if len(seg.Label) > 0 && (!started || seg.Speaker != lastSpeaker) {
			parts = append(parts, seg.Label)
		}

		text := seg.Text
		if dashes {
			text = normalizeDashes(text)
		}
		if clean != nil {
			text = clean(text)
		}
		parts = append(parts, text)

		lastSpeaker, lastTurn, started = seg.Speaker, seg.TurnID, true
	}
	flush()

	return strings.Join(paragraphs, "\n\n")
}

// renderContinuous is the labelless style: one continuous flow with markers,
// all punctuation removed, no paragraph breaks.
func (r *Renderer) renderContinuous(segments []segment.Segment) string {
	var parts []string
	var disp markerDisplay

	for _, seg := range segments {
		if m := disp.Next(seg.Stephanus); len(m) > 0 {
			parts = append(parts, m)
		}
		parts = append(parts, stripPunctuation(normalizeDashes(seg.Text)))
	}
	return strings.Join(wrapWords(strings.Join(parts, " "), r.Layout.WrapWidth), "\n")
}

func (r *Renderer) renderScriptio(segments []segment.Segment) string {
	texts := make([]string, 0, len(segments))
	for _, seg := range segments {
		texts = append(texts, normalizeDashes(seg.Text))
	}
	continua := NormalizeScriptio(strings.Join(texts, " "))
	return strings.Join(wrapRunes(continua, r.Layout.WrapWidth), "\n")
}

// NormalizeScriptio applies the ancient writing convention: uppercase
// letterforms, no punctuation, no word boundaries, no diacritics. The
// pipeline is stable under re-application.
func NormalizeScriptio(text string) string {
	text = strings.ToUpper(text)
	text = stripPunctuation(text)
	text = strings.ReplaceAll(text, " ", "")
	return RemoveAccents(text)
}

func (r *Renderer) renderMargin(segments []segment.Segment) string {
	var disp markerDisplay
	entries := make([]marginEntry, 0, len(segments))
	for _, seg := range segments {
		entries = append(entries, marginEntry{
			text:   normalizeDashes(seg.Text),
			marker: disp.Next(seg.Stephanus),
		})
	}
	return marginLayout(entries, r.Layout)
}

func (r *Renderer) bookHeader(book string) string {
	header := greekNumeral(book)
	if len(r.Title) > 0 {
		header = upperNoAccents(r.Title) + " " + header
	}
	return header
}
