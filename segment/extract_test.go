package segment

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"ptx/tei"
)

const dialogueXML = `<?xml version="1.0" encoding="UTF-8"?>
<TEI xmlns="http://www.tei-c.org/ns/1.0">
  <teiHeader>
    <fileDesc>
      <titleStmt>
        <title xml:lang="grc">Πολιτεία</title>
      </titleStmt>
    </fileDesc>
  </teiHeader>
  <text>
    <body>
      <div type="edition" xml:lang="grc">
        <div type="textpart" subtype="book" n="1">
          <said who="#Σωκράτης">
            <label>ΣΩ.</label>
            κατέβην χθὲς εἰς Πειραιᾶ
            <milestone unit="section" n="327"/>
            <milestone unit="section" n="327a"/>
            μετὰ Γλαύκωνος τοῦ Ἀρίστωνος
            <milestone unit="section" n="327b"/>
            προσευξόμενός τε τῇ θεῷ
          </said>
          <said who="#Γλαύκων">
            <label>ΓΛ.</label>
            <milestone unit="section" n="327c"/>
            καλὴ μὲν οὖν
            <milestone ed="P" unit="para"/>
            καὶ ἡ τῶν ἐπιχωρίων πομπή
          </said>
        </div>
      </div>
    </body>
  </text>
</TEI>`

func parseFixture(t *testing.T, xml string) *tei.Document {
	t.Helper()
	doc, err := tei.Parse(strings.NewReader(xml), "tlg0059.tlg030.perseus-grc2.xml")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return doc
}

func TestExtract_Dialogue(t *testing.T) {
	doc := parseFixture(t, dialogueXML)
	log := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller()))

	segments, err := Extract(doc, log)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	// first turn: leading unmarked text, then one segment per milestone
	// boundary; second turn: marked segment plus paragraph continuation
	if len(segments) != 5 {
		t.Fatalf("Extract() returned %d segments, want 5: %+v", len(segments), segments)
	}

	t.Run("text before first milestone has no markers", func(t *testing.T) {
		s := segments[0]
		if s.Text != "κατέβην χθὲς εἰς Πειραιᾶ" {
			t.Errorf("Text = %q", s.Text)
		}
		if len(s.Stephanus) != 0 {
			t.Errorf("Stephanus = %v, want none", s.Stephanus)
		}
		if s.Speaker != "Σωκράτης" || s.Label != "ΣΩ." {
			t.Errorf("Speaker = %q, Label = %q", s.Speaker, s.Label)
		}
		if s.TurnID != 0 {
			t.Errorf("TurnID = %d, want 0", s.TurnID)
		}
		if s.Book != "1" {
			t.Errorf("Book = %q, want 1", s.Book)
		}
	})

	t.Run("consecutive milestones accumulate on next segment", func(t *testing.T) {
		s := segments[1]
		if len(s.Stephanus) != 2 || s.Stephanus[0] != "327" || s.Stephanus[1] != "327a" {
			t.Errorf("Stephanus = %v, want [327 327a]", s.Stephanus)
		}
		if s.Text != "μετὰ Γλαύκωνος τοῦ Ἀρίστωνος" {
			t.Errorf("Text = %q", s.Text)
		}
	})

	t.Run("marker attaches to following text", func(t *testing.T) {
		s := segments[2]
		if len(s.Stephanus) != 1 || s.Stephanus[0] != "327b" {
			t.Errorf("Stephanus = %v, want [327b]", s.Stephanus)
		}
	})

	t.Run("second turn", func(t *testing.T) {
		s := segments[3]
		if s.Speaker != "Γλαύκων" || s.TurnID != 1 {
			t.Errorf("Speaker = %q, TurnID = %d", s.Speaker, s.TurnID)
		}
		if len(s.Stephanus) != 1 || s.Stephanus[0] != "327c" {
			t.Errorf("Stephanus = %v, want [327c]", s.Stephanus)
		}
		if s.IsParagraphStart {
			t.Error("first segment of turn should not be a paragraph start")
		}
	})

	t.Run("paragraph milestone starts new segment", func(t *testing.T) {
		s := segments[4]
		if !s.IsParagraphStart {
			t.Error("expected IsParagraphStart after editorial paragraph milestone")
		}
		if s.Text != "καὶ ἡ τῶν ἐπιχωρίων πομπή" {
			t.Errorf("Text = %q", s.Text)
		}
		if len(s.Stephanus) != 0 {
			t.Errorf("Stephanus = %v, want none", s.Stephanus)
		}
	})
}

func TestExtract_Prose(t *testing.T) {
	const proseXML = `<?xml version="1.0" encoding="UTF-8"?>
<TEI xmlns="http://www.tei-c.org/ns/1.0">
  <teiHeader/>
  <text>
    <body>
      <div type="edition" xml:lang="grc">
        <div type="textpart" subtype="section" n="1">
          <p>πρῶτον μὲν οὖν σκεψώμεθα</p>
        </div>
        <div type="textpart" subtype="section" n="2">
          <p>ἔπειτα δὲ <milestone unit="stephpage" n="1012b"/> τὸν λόγον</p>
        </div>
      </div>
    </body>
  </text>
</TEI>`

	doc := parseFixture(t, proseXML)
	segments, err := Extract(doc, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(segments) != 3 {
		t.Fatalf("Extract() returned %d segments, want 3: %+v", len(segments), segments)
	}

	if segments[0].Stephanus[0] != "1" {
		t.Errorf("section number not used as citation: %v", segments[0].Stephanus)
	}
	if segments[0].Speaker != "" || segments[0].Label != "" {
		t.Error("prose segments must not carry speakers")
	}
	if segments[1].Stephanus[0] != "2" {
		t.Errorf("second section citation = %v, want [2]", segments[1].Stephanus)
	}
	if segments[2].Stephanus[0] != "1012b" {
		t.Errorf("stephpage milestone ignored: %v", segments[2].Stephanus)
	}
}

func TestExtract_EmptyDocument(t *testing.T) {
	const emptyXML = `<?xml version="1.0" encoding="UTF-8"?>
<TEI xmlns="http://www.tei-c.org/ns/1.0">
  <teiHeader/>
  <text>
    <body>
      <div type="edition"/>
    </body>
  </text>
</TEI>`

	doc := parseFixture(t, emptyXML)
	_, err := Extract(doc, zaptest.NewLogger(t))
	var ee *EmptyExtractionError
	if !errors.As(err, &ee) {
		t.Fatalf("Extract() error = %v, want *EmptyExtractionError", err)
	}
}

func TestExtract_BlankTurns(t *testing.T) {
	const blankXML = `<?xml version="1.0" encoding="UTF-8"?>
<TEI xmlns="http://www.tei-c.org/ns/1.0">
  <teiHeader/>
  <text>
    <body>
      <said who="#A">   </said>
    </body>
  </text>
</TEI>`

	doc := parseFixture(t, blankXML)
	_, err := Extract(doc, zaptest.NewLogger(t))
	var ee *EmptyExtractionError
	if !errors.As(err, &ee) {
		t.Fatalf("Extract() error = %v, want *EmptyExtractionError", err)
	}
}

func TestExtract_NestedElementsAndGamma(t *testing.T) {
	const nestedXML = `<?xml version="1.0" encoding="UTF-8"?>
<TEI xmlns="http://www.tei-c.org/ns/1.0">
  <teiHeader/>
  <text>
    <body>
      <said who="#Σωκράτης">
        <milestone unit="section" n="58a"/>
        τί οὖν <add>ἔφη</add> ὦ   Κρίτων γ
      </said>
    </body>
  </text>
</TEI>`

	doc := parseFixture(t, nestedXML)
	segments, err := Extract(doc, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(segments) != 1 {
		t.Fatalf("Extract() returned %d segments, want 1", len(segments))
	}
	// nested element text is kept inline, whitespace collapsed, stray
	// trailing gamma removed
	if segments[0].Text != "τί οὖν ἔφη ὦ Κρίτων" {
		t.Errorf("Text = %q", segments[0].Text)
	}
}
