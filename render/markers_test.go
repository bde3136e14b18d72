package render

import "testing"

// The display convention is a fold over the rendered sequence: page number
// once when the page begins, bare letters while the page lasts.
func TestMarkerDisplay_Sequence(t *testing.T) {
	steps := []struct {
		markers []string
		want    string
	}{
		{markers: []string{"2", "2a"}, want: "[2]"},
		{markers: nil, want: ""},
		{markers: []string{"2b"}, want: "[b]"},
		{markers: []string{"2c"}, want: "[c]"},
		{markers: []string{"3", "3a"}, want: "[3]"},
		{markers: []string{"3b"}, want: "[b]"},
		{markers: []string{"4a"}, want: "[4]"},
		{markers: []string{"5c"}, want: "[5c]"},
		{markers: []string{"5d"}, want: "[d]"},
	}

	var disp markerDisplay
	for i, s := range steps {
		if got := disp.Next(s.markers); got != s.want {
			t.Errorf("step %d %v: got %q, want %q", i, s.markers, got, s.want)
		}
	}
}

func TestMarkerDisplay_MidWorkEntry(t *testing.T) {
	var disp markerDisplay
	if got := disp.Next([]string{"1012b"}); got != "[1012b]" {
		t.Errorf("first marker without page context: got %q, want full citation", got)
	}
	if got := disp.Next([]string{"1012c"}); got != "[c]" {
		t.Errorf("same-page follow-up: got %q, want [c]", got)
	}
}

func TestMarkerDisplay_UnparseableKeepsState(t *testing.T) {
	var disp markerDisplay
	if got := disp.Next([]string{"327b"}); got != "[327b]" {
		t.Fatalf("got %q", got)
	}
	if got := disp.Next([]string{"chunk"}); got != "[chunk]" {
		t.Errorf("corpus oddity should print verbatim, got %q", got)
	}
	// the oddity must not have disturbed the page context
	if got := disp.Next([]string{"327c"}); got != "[c]" {
		t.Errorf("after oddity: got %q, want [c]", got)
	}
}

func TestPageOpening(t *testing.T) {
	cases := []struct {
		markers []string
		want    bool
	}{
		{[]string{"58", "58a"}, true},
		{[]string{"58"}, false},
		{[]string{"58a", "58b"}, false},
		{[]string{"58", "59a"}, false},
		{[]string{"58", "58b"}, false},
		{[]string{"58", "chunk"}, false},
		{nil, false},
	}
	for _, c := range cases {
		if got := pageOpening(c.markers); got != c.want {
			t.Errorf("pageOpening(%v) = %v, want %v", c.markers, got, c.want)
		}
	}
}
