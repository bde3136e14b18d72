package render

import (
	"errors"
	"strings"
	"testing"

	"ptx/segment"
)

func republicOpening() []segment.Segment {
	return []segment.Segment{
		{Speaker: "Σωκράτης", Label: "ΣΩ.", Text: "κατέβην χθὲς εἰς Πειραιᾶ,", Stephanus: []string{"327", "327a"}, TurnID: 1, Book: "1"},
		{Speaker: "Σωκράτης", Label: "ΣΩ.", Text: "προσευξόμενός τε τῇ θεῷ.", Stephanus: []string{"327b"}, TurnID: 1, Book: "1"},
		{Speaker: "Γλαύκων", Label: "ΓΛ.", Text: "καλὴ ἡ ἑορτή.", Stephanus: []string{"327c"}, TurnID: 2, Book: "1"},
	}
}

func TestRender_FullModern(t *testing.T) {
	r := &Renderer{Title: "Πολιτεία", AuthorID: "tlg0059", Layout: DefaultLayout()}
	got, err := r.Render(republicOpening(), StyleFullModern)
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"ΠΟΛΙΤΕΙΑ",
		"ΠΟΛΙΤΕΙΑ Α",
		"[327] ΣΩ. κατέβην χθὲς εἰς Πειραιᾶ, [b] προσευξόμενός τε τῇ θεῷ.",
		"[c] ΓΛ. καλὴ ἡ ἑορτή.",
	}, "\n\n")
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRender_MinimalPunctuation(t *testing.T) {
	r := &Renderer{Title: "Πολιτεία", AuthorID: "tlg0059", Layout: DefaultLayout()}
	got, err := r.Render(republicOpening(), StyleMinimalPunctuation)
	if err != nil {
		t.Fatal(err)
	}
	// commas go, periods and speaker labels stay
	want := strings.Join([]string{
		"ΠΟΛΙΤΕΙΑ",
		"ΠΟΛΙΤΕΙΑ Α",
		"[327] ΣΩ. κατέβην χθὲς εἰς Πειραιᾶ [b] προσευξόμενός τε τῇ θεῷ.",
		"[c] ΓΛ. καλὴ ἡ ἑορτή.",
	}, "\n\n")
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRender_NoPunctuation(t *testing.T) {
	r := &Renderer{Title: "Πολιτεία", AuthorID: "tlg0059", Layout: DefaultLayout()}
	got, err := r.Render(republicOpening(), StyleNoPunctuation)
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"ΠΟΛΙΤΕΙΑ",
		"ΠΟΛΙΤΕΙΑ Α",
		"[327] ΣΩ. κατέβην χθὲς εἰς Πειραιᾶ [b] προσευξόμενός τε τῇ θεῷ",
		"[c] ΓΛ. καλὴ ἡ ἑορτή",
	}, "\n\n")
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRender_NoPunctuationNoLabels(t *testing.T) {
	r := &Renderer{Title: "Πολιτεία", AuthorID: "tlg0059", Layout: DefaultLayout()}
	got, err := r.Render(republicOpening(), StyleNoPunctuationNoLabels)
	if err != nil {
		t.Fatal(err)
	}
	want := "[327] κατέβην χθὲς εἰς Πειραιᾶ [b] προσευξόμενός τε τῇ θεῷ [c] καλὴ ἡ ἑορτή"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRender_ScriptioContinua(t *testing.T) {
	r := &Renderer{Layout: Layout{WrapWidth: 8, ColumnWidth: 40, MarginWidth: 6}}
	segments := []segment.Segment{
		{Text: "καί τίς,", TurnID: 1},
		{Text: "νή δία.", TurnID: 2},
	}
	got, err := r.Render(segments, StyleScriptioContinua)
	if err != nil {
		t.Fatal(err)
	}
	if got != "ΚΑΙΤΙΣΝΗ\nΔΙΑ" {
		t.Errorf("got %q", got)
	}
}

func TestRender_StephanusLayout(t *testing.T) {
	r := &Renderer{AuthorID: "tlg0059", Layout: Layout{WrapWidth: 79, ColumnWidth: 40, MarginWidth: 6}}
	segments := []segment.Segment{
		{Text: "alpha beta", Stephanus: []string{"327", "327a"}, TurnID: 1},
		{Text: "gamma", TurnID: 2},
		{Text: "delta", Stephanus: []string{"327b"}, TurnID: 2},
	}
	got, err := r.Render(segments, StyleStephanusLayout)
	if err != nil {
		t.Fatal(err)
	}
	// text flows across the turn boundary, the marker is the only unit
	want := " [327] alpha beta gamma\n   [b] delta"
	if got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestRender_StephanusLayoutGate(t *testing.T) {
	r := &Renderer{AuthorID: "tlg0007", Layout: DefaultLayout()}
	_, err := r.Render(nil, StyleStephanusLayout)
	var se *StyleError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StyleError for non-Plato author, got %v", err)
	}
	// the gate runs before the empty-input shortcut

	for _, id := range []string{"tlg0059", ""} {
		r := &Renderer{AuthorID: id, Layout: DefaultLayout()}
		if _, err := r.Render(nil, StyleStephanusLayout); err != nil {
			t.Errorf("author %q: unexpected error %v", id, err)
		}
	}
}

func TestRender_EmptySegments(t *testing.T) {
	r := &Renderer{Title: "Πολιτεία", Layout: DefaultLayout()}
	got, err := r.Render(nil, StyleFullModern)
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Errorf("empty input should render empty, got %q", got)
	}
}

func TestRender_UnknownStyle(t *testing.T) {
	r := &Renderer{Layout: DefaultLayout()}
	_, err := r.Render(republicOpening(), Style(99))
	var se *StyleError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StyleError, got %v", err)
	}
}

func TestRender_NoTitleBookHeader(t *testing.T) {
	r := &Renderer{Layout: DefaultLayout()}
	segments := []segment.Segment{
		{Text: "ἓξ μέρη.", Stephanus: []string{"500a"}, TurnID: 1, Book: "6"},
	}
	got, err := r.Render(segments, StyleFullModern)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, "ΣΤ\n\n") {
		t.Errorf("expected bare numeral header for book 6, got:\n%s", got)
	}
}

func TestMarginLayout_Continuation(t *testing.T) {
	entries := []marginEntry{
		{text: "one two three four five six", marker: "[58]"},
	}
	got := marginLayout(entries, Layout{ColumnWidth: 20, MarginWidth: 6})
	want := "  [58] one two three four\n       five six"
	if got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestGreekNumeral(t *testing.T) {
	cases := []struct{ in, want string }{
		{"1", "Α"},
		{"6", "ΣΤ"},
		{"10", "Ι"},
		{"16", "ΙΣΤ"},
		{"20", "Κ"},
		{"21", "21"},
	}
	for _, c := range cases {
		if got := greekNumeral(c.in); got != c.want {
			t.Errorf("greekNumeral(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
