package stephanus

import (
	"fmt"

	"ptx/segment"
)

// RangeError reports a well-formed range that selects nothing, or filtering
// against an empty segment list. It carries the offending spec and the work
// identifier so callers can present a precise message.
type RangeError struct {
	WorkID string
	Spec   string
	Reason string
}

func (e *RangeError) Error() string {
	msg := fmt.Sprintf("invalid Stephanus range %q", e.Spec)
	if len(e.WorkID) > 0 {
		msg += " for work " + e.WorkID
	}
	if len(e.Reason) > 0 {
		msg += ": " + e.Reason
	}
	return msg
}

// FilterSegments returns the inclusive sub-sequence of segments whose markers
// fall inside the given range expression. Selection preserves order and does
// not merge or re-split segments.
//
// Segments carrying no marker are excluded even when they sit between two
// in-range segments; regenerated material like book headers is dropped here
// and reconstructed by the renderer.
func FilterSegments(segments []segment.Segment, spec string, workID string) ([]segment.Segment, error) {
	rs, err := ParseRange(spec)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, &RangeError{WorkID: workID, Spec: spec, Reason: "no segments found in work"}
	}

	var filtered []segment.Segment
	for _, s := range segments {
		if segmentInRange(s, rs) {
			filtered = append(filtered, s)
		}
	}
	if len(filtered) == 0 {
		return nil, &RangeError{WorkID: workID, Spec: spec, Reason: "no matching segments in work"}
	}
	return filtered, nil
}

func segmentInRange(s segment.Segment, rs RangeSpec) bool {
	for _, token := range s.Stephanus {
		m, err := ParseMarker(token)
		if err != nil {
			// corpus oddities like n="chunk" never match a range
			continue
		}
		if markerInRange(m, rs) {
			return true
		}
	}
	return false
}

func markerInRange(m Marker, rs RangeSpec) bool {
	if Compare(rs.Start, m) > 0 {
		return false
	}
	if rs.IsPageRange() {
		// the end boundary absorbs every section of the final page
		return m.Page <= rs.End.Page
	}
	return Compare(m, rs.End) <= 0
}
