// Package segment turns TEI dialogue turns and prose paragraphs into ordered
// text segments split at Stephanus milestone boundaries, so that every marker
// is attached to the text that follows it rather than collected at the top of
// the enclosing element.
package segment

import "fmt"

// Segment is the atomic unit of extracted text. Field names follow the JSON
// records written by the output layer.
type Segment struct {
	// Speaker is the full speaker name, empty for non-dialogue texts.
	Speaker string `json:"speaker"`
	// Label is the speaker abbreviation as printed in the edition, empty if
	// the turn carries no label.
	Label string `json:"label"`
	// Text is the normalized, whitespace-collapsed content.
	Text string `json:"text"`
	// Stephanus lists the pagination markers that begin at the start of this
	// segment. A segment opening a page carries both the page marker and the
	// first section marker (e.g. "58" and "58a").
	Stephanus []string `json:"stephanus"`
	// TurnID identifies the enclosing dialogue turn or paragraph. Segments
	// sharing a TurnID render as one paragraph unless IsParagraphStart
	// forces a break.
	TurnID int `json:"said_id"`
	// IsParagraphStart is set when the segment begins right after an
	// editorial paragraph milestone inside a turn.
	IsParagraphStart bool `json:"is_paragraph_start"`
	// Book is the enclosing book division number for multi-book works.
	Book string `json:"book"`
}

// EmptyExtractionError reports that a whole-work extraction produced no
// non-blank segments.
type EmptyExtractionError struct {
	Source string
	Reason string
}

func (e *EmptyExtractionError) Error() string {
	return fmt.Sprintf("no text extracted from %s: %s", e.Source, e.Reason)
}
