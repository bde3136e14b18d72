package render

import (
	"reflect"
	"testing"
)

func TestWrapWords(t *testing.T) {
	cases := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{name: "fits", text: "one two three", width: 20, want: []string{"one two three"}},
		{name: "breaks at spaces", text: "one two three four", width: 9, want: []string{"one two", "three", "four"}},
		{name: "exact width", text: "ab cd", width: 5, want: []string{"ab cd"}},
		{name: "long word gets own line", text: "a verylongwordindeed b", width: 6, want: []string{"a", "verylongwordindeed", "b"}},
		{name: "empty", text: "   ", width: 10, want: nil},
		{name: "rune width not byte width", text: "αβγ δεζ", width: 7, want: []string{"αβγ δεζ"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := wrapWords(c.text, c.width)
			if !reflect.DeepEqual(got, c.want) {
				t.Errorf("wrapWords(%q, %d) = %v, want %v", c.text, c.width, got, c.want)
			}
		})
	}
}

func TestWrapRunes(t *testing.T) {
	cases := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{name: "short", text: "ΑΒΓ", width: 5, want: []string{"ΑΒΓ"}},
		{name: "chunked", text: "ΑΒΓΔΕΖΗ", width: 3, want: []string{"ΑΒΓ", "ΔΕΖ", "Η"}},
		{name: "exact multiple", text: "ΑΒΓΔ", width: 2, want: []string{"ΑΒ", "ΓΔ"}},
		{name: "empty", text: "", width: 4, want: nil},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := wrapRunes(c.text, c.width)
			if !reflect.DeepEqual(got, c.want) {
				t.Errorf("wrapRunes(%q, %d) = %v, want %v", c.text, c.width, got, c.want)
			}
		})
	}
}
