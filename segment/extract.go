package segment

import (
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"ptx/tei"
)

// Extract produces the ordered segment list for a whole work. Dialogue texts
// are walked turn by turn, prose texts paragraph by paragraph; each element
// is split at milestone boundaries. Returns EmptyExtractionError when the
// document yields no non-blank segment.
func Extract(doc *tei.Document, log *zap.Logger) ([]Segment, error) {
	var segments []Segment
	if doc.IsDialogue() {
		segments = extractDialogue(doc)
	} else {
		segments = extractProse(doc)
	}

	if len(segments) == 0 {
		return nil, &EmptyExtractionError{Source: doc.Path, Reason: "no text elements found in document"}
	}
	hasText := false
	for _, s := range segments {
		if len(strings.TrimSpace(s.Text)) > 0 {
			hasText = true
			break
		}
	}
	if !hasText {
		return nil, &EmptyExtractionError{Source: doc.Path, Reason: "all extracted entries are empty"}
	}

	log.Debug("Extracted segments", zap.String("source", doc.Path), zap.Int("count", len(segments)), zap.Bool("dialogue", doc.IsDialogue()))
	return segments, nil
}

func extractDialogue(doc *tei.Document) []Segment {
	var segments []Segment
	for turnID, said := range doc.Turns() {
		speaker := strings.TrimLeft(said.SelectAttrValue("who", ""), "#")
		label := ""
		if el := said.FindElement("label"); el != nil {
			label = strings.TrimSpace(el.Text())
		}
		book := tei.BookOf(said)

		for _, p := range splitElement(said) {
			segments = append(segments, Segment{
				Speaker:          speaker,
				Label:            label,
				Text:             p.text,
				Stephanus:        p.markers,
				TurnID:           turnID,
				IsParagraphStart: p.paraStart,
				Book:             book,
			})
		}
	}
	return segments
}

func extractProse(doc *tei.Document) []Segment {
	var segments []Segment
	for turnID, para := range doc.Paragraphs() {
		book := tei.BookOf(para)
		section := tei.SectionOf(para)

		for _, p := range splitElement(para) {
			markers := p.markers
			// paragraphs inside numbered section divisions cite by section
			// when they carry no milestone of their own
			if len(markers) == 0 && len(section) > 0 {
				markers = []string{section}
			}
			segments = append(segments, Segment{
				Text:             p.text,
				Stephanus:        markers,
				TurnID:           turnID,
				IsParagraphStart: p.paraStart,
				Book:             book,
			})
		}
	}
	return segments
}

// splitElement runs the splitter over one turn or paragraph in document
// order. Label children are skipped entirely; milestones either register a
// boundary or are ignored (page milestones duplicate the section ones);
// every other child contributes its full descendant text.
func splitElement(el *etree.Element) []piece {
	var s splitter
	walkChildren(el, &s)
	return s.Finish()
}

func walkChildren(el *etree.Element, s *splitter) {
	for _, tok := range el.Child {
		switch child := tok.(type) {
		case *etree.CharData:
			s.Text(child.Data)
		case *etree.Element:
			switch child.Tag {
			case "milestone":
				switch {
				case child.SelectAttrValue("ed", "") == "P" && child.SelectAttrValue("unit", "") == "para":
					s.ParagraphBreak()
				case isStephanusUnit(child.SelectAttrValue("unit", "")):
					s.Marker(child.SelectAttrValue("n", ""))
				}
			case "label":
				// printed speaker abbreviation, not running text
			default:
				s.Text(allText(child))
			}
		}
	}
}

// isStephanusUnit recognizes the two milestone conventions present in the
// corpus: Plato's unit="section" and Plutarch's unit="stephpage".
func isStephanusUnit(unit string) bool {
	return unit == "section" || unit == "stephpage"
}

func allText(el *etree.Element) string {
	var sb strings.Builder
	collectText(el, &sb)
	return sb.String()
}

func collectText(el *etree.Element, sb *strings.Builder) {
	for _, tok := range el.Child {
		switch child := tok.(type) {
		case *etree.CharData:
			sb.WriteString(child.Data)
		case *etree.Element:
			collectText(child, sb)
		}
	}
}
