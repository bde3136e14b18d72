package stephanus

import (
	"fmt"
	"strings"
)

// RangeKind classifies a range expression. Page-based kinds treat the end
// boundary as absorbing every section of the final page.
type RangeKind int

const (
	SingleSection RangeKind = iota // "327a"
	SinglePage                     // "327"
	SectionRange                   // "327a-328c"
	PageRange                      // "327-329"
)

func (k RangeKind) String() string {
	switch k {
	case SingleSection:
		return "single_section"
	case SinglePage:
		return "single_page"
	case SectionRange:
		return "section_range"
	case PageRange:
		return "page_range"
	default:
		return fmt.Sprintf("RangeKind(%d)", int(k))
	}
}

// RangeSpec is a parsed inclusive range of Stephanus markers.
type RangeSpec struct {
	Start Marker
	End   Marker
	Kind  RangeKind
}

// IsSingle reports whether the spec selects a single page or section.
func (s RangeSpec) IsSingle() bool {
	return s.Kind == SingleSection || s.Kind == SinglePage
}

// IsPageRange reports whether the end boundary consumes the whole final page.
func (s RangeSpec) IsPageRange() bool {
	return s.Kind == SinglePage || s.Kind == PageRange
}

// RangeFormatError reports a malformed range expression.
type RangeFormatError struct {
	Spec   string
	Reason string
}

func (e *RangeFormatError) Error() string {
	return fmt.Sprintf("invalid range format %q: %s", e.Spec, e.Reason)
}

// ParseRange parses a range expression: a single marker ("327", "327a"), a
// full range ("327a-328c", "327-329") or a shorthand range whose end omits
// the page when it matches the start ("327a-c" means 327a through 327c).
func ParseRange(spec string) (RangeSpec, error) {
	spec = strings.TrimSpace(spec)
	if len(spec) == 0 {
		return RangeSpec{}, &RangeFormatError{Spec: spec, Reason: "empty range specification"}
	}

	parts := strings.Split(spec, "-")
	switch len(parts) {
	case 1:
		m, err := ParseMarker(parts[0])
		if err != nil {
			return RangeSpec{}, &RangeFormatError{Spec: spec, Reason: err.Error()}
		}
		kind := SinglePage
		if m.HasLetter() {
			kind = SingleSection
		}
		return RangeSpec{Start: m, End: m, Kind: kind}, nil
	case 2:
		start, err := ParseMarker(strings.TrimSpace(parts[0]))
		if err != nil {
			return RangeSpec{}, &RangeFormatError{Spec: spec, Reason: err.Error()}
		}
		endToken := strings.TrimSpace(parts[1])
		if isShorthandEnd(endToken) {
			// "327a-c" carries the start page over to the end token
			endToken = fmt.Sprintf("%d%s", start.Page, endToken)
		}
		end, err := ParseMarker(endToken)
		if err != nil {
			return RangeSpec{}, &RangeFormatError{Spec: spec, Reason: err.Error()}
		}
		kind := PageRange
		if start.HasLetter() || end.HasLetter() {
			kind = SectionRange
		}
		return RangeSpec{Start: start, End: end, Kind: kind}, nil
	default:
		return RangeSpec{}, &RangeFormatError{Spec: spec, Reason: "at most one '-' allowed"}
	}
}

// isShorthandEnd reports whether the end token of a range omits the page
// number: a single letter or letter-led token with no digits.
func isShorthandEnd(token string) bool {
	if len(token) == 0 {
		return false
	}
	for i := 0; i < len(token); i++ {
		if token[i] >= '0' && token[i] <= '9' {
			return false
		}
	}
	return token[0] >= 'a' && token[0] <= 'z'
}

// ParseRangeList splits a comma-separated list of range expressions
// ("5a, 7b-c, 8") used by anthology extraction. Individual entries are not
// validated here.
func ParseRangeList(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return nil, &RangeFormatError{Spec: s, Reason: "range list cannot be empty"}
	}
	var ranges []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); len(part) > 0 {
			ranges = append(ranges, part)
		}
	}
	if len(ranges) == 0 {
		return nil, &RangeFormatError{Spec: s, Reason: "range list cannot be empty"}
	}
	return ranges, nil
}
