package segment

import "strings"

// splitter is the accumulator for splitting one turn or paragraph at
// milestone boundaries. The non-obvious invariant it maintains: markers seen
// while the buffer is empty stay pending and attach to the NEXT flushed
// segment, never to text that preceded them.
type splitter struct {
	segments []piece

	buf       []string // text parts not yet flushed
	pending   []string // markers waiting for the next segment
	paraStart bool
}

// piece is a segment before turn metadata is attached.
type piece struct {
	text      string
	markers   []string
	paraStart bool
}

// Text appends raw character data to the buffer.
func (s *splitter) Text(t string) {
	if len(t) > 0 {
		s.buf = append(s.buf, t)
	}
}

// Marker registers a pagination milestone. Whatever text is buffered belongs
// to the previous boundary and is flushed with the old pending markers first,
// then the new marker joins the pending set. Consecutive milestones with no
// intervening text accumulate into one pending set ("58" directly followed
// by "58a").
func (s *splitter) Marker(n string) {
	s.flush()
	if len(n) > 0 {
		s.pending = append(s.pending, n)
	}
}

// ParagraphBreak registers an editorial paragraph milestone: buffered text is
// flushed and the next segment is marked as a paragraph start.
func (s *splitter) ParagraphBreak() {
	s.flush()
	s.paraStart = true
}

// Finish flushes trailing text and returns the collected pieces.
func (s *splitter) Finish() []piece {
	s.flush()
	return s.segments
}

func (s *splitter) flush() {
	if len(s.buf) == 0 {
		return
	}
	text := cleanText(strings.Join(s.buf, " "))
	s.buf = s.buf[:0]
	if len(text) == 0 {
		return
	}
	s.segments = append(s.segments, piece{
		text:      text,
		markers:   s.pending,
		paraStart: s.paraStart,
	})
	s.pending = nil
	s.paraStart = false
}

// cleanText collapses whitespace and strips the stray trailing gamma left
// over from OCR in some Perseus texts. The gamma rule must hold at every
// flush point, not just at element end.
func cleanText(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if strings.HasSuffix(text, "γ") {
		text = strings.TrimRight(strings.TrimSuffix(text, "γ"), " ")
	}
	return text
}
