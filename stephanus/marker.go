// Package stephanus implements the reference model for legacy Stephanus
// pagination: marker parsing and ordering, range specifications and filtering
// of extracted segments against a range.
//
// A Stephanus marker is a page number with an optional section letter, the
// citation scheme of the 1578 Estienne edition ("327", "327a", "58b"). Texts
// carry these markers as milestones independent of modern paragraphing.
package stephanus

import (
	"fmt"
	"strconv"
)

// Marker is a parsed pagination token. Letter is 0 for bare page references
// which denote the start of the page.
type Marker struct {
	Page   uint32
	Letter byte
}

// MarkerFormatError reports a malformed pagination token.
type MarkerFormatError struct {
	Token string
}

func (e *MarkerFormatError) Error() string {
	return fmt.Sprintf("invalid Stephanus marker %q: expected page number with optional section letter (e.g. 327 or 327a)", e.Token)
}

// ParseMarker parses tokens of the form "327" or "327a". Anything else is a
// MarkerFormatError.
func ParseMarker(token string) (Marker, error) {
	if len(token) == 0 {
		return Marker{}, &MarkerFormatError{Token: token}
	}

	digits := token
	var letter byte
	if last := token[len(token)-1]; last >= 'a' && last <= 'z' {
		letter = last
		digits = token[:len(token)-1]
	}
	if len(digits) == 0 {
		return Marker{}, &MarkerFormatError{Token: token}
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return Marker{}, &MarkerFormatError{Token: token}
		}
	}
	page, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return Marker{}, &MarkerFormatError{Token: token}
	}
	return Marker{Page: uint32(page), Letter: letter}, nil
}

// HasLetter reports whether the marker carries a section letter.
func (m Marker) HasLetter() bool {
	return m.Letter != 0
}

func (m Marker) String() string {
	if m.Letter == 0 {
		return strconv.FormatUint(uint64(m.Page), 10)
	}
	return strconv.FormatUint(uint64(m.Page), 10) + string(m.Letter)
}

// Compare orders two markers: by page first, then by section letter with an
// absent letter equal to 'a' (a bare page reference denotes the start of that
// page). Returns <0, 0 or >0. The relation is a total order which the range
// filter relies on for membership tests.
func Compare(a, b Marker) int {
	if a.Page != b.Page {
		if a.Page < b.Page {
			return -1
		}
		return 1
	}
	la, lb := a.Letter, b.Letter
	if la == 0 {
		la = 'a'
	}
	if lb == 0 {
		lb = 'a'
	}
	return int(la) - int(lb)
}
