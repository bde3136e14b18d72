// Package render turns extracted segments into text under the typographic
// conventions of several edition styles, from a fully modern reading text
// down to unspaced scriptio continua and a facsimile of the 1578 Stephanus
// page layout.
package render

import "fmt"

// Style selects the output convention. The set is closed; every variant is a
// pure configuration of the renderer.
type Style int

const (
	StyleFullModern             Style = iota // A
	StyleMinimalPunctuation                  // B
	StyleNoPunctuation                       // C
	StyleNoPunctuationNoLabels               // D
	StyleScriptioContinua                    // E
	StyleStephanusLayout                     // S
)

var styleNames = map[Style]string{
	StyleFullModern:             "full_modern",
	StyleMinimalPunctuation:     "minimal_punctuation",
	StyleNoPunctuation:          "no_punctuation",
	StyleNoPunctuationNoLabels:  "no_punctuation_no_labels",
	StyleScriptioContinua:       "scriptio_continua",
	StyleStephanusLayout:        "stephanus_layout",
}

var styleLetters = map[Style]string{
	StyleFullModern:             "A",
	StyleMinimalPunctuation:     "B",
	StyleNoPunctuation:          "C",
	StyleNoPunctuationNoLabels:  "D",
	StyleScriptioContinua:       "E",
	StyleStephanusLayout:        "S",
}

func (s Style) String() string {
	if name, ok := styleNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// Letter returns the single-letter edition code used on the command line and
// in default output file names.
func (s Style) Letter() string {
	return styleLetters[s]
}

// ParseStyle accepts both single-letter codes (case-insensitive) and long
// names.
func ParseStyle(name string) (Style, error) {
	for s, long := range styleNames {
		if name == long {
			return s, nil
		}
	}
	for s, letter := range styleLetters {
		if name == letter || (len(name) == 1 && name[0] == letter[0]+'a'-'A') {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown output style %q (expected one of %v or letters A-E, S)", name, StyleNames())
}

// StyleNames lists the long names of all styles in definition order.
func StyleNames() []string {
	return []string{
		StyleFullModern.String(),
		StyleMinimalPunctuation.String(),
		StyleNoPunctuation.String(),
		StyleNoPunctuationNoLabels.String(),
		StyleScriptioContinua.String(),
		StyleStephanusLayout.String(),
	}
}

// StyleError reports a style used with a work it is not valid for.
type StyleError struct {
	Style  string
	Reason string
}

func (e *StyleError) Error() string {
	return fmt.Sprintf("cannot use style '%s': %s", e.Style, e.Reason)
}
