// Package tei reads TEI XML documents of the Perseus canonical-greekLit
// corpus into an etree DOM and exposes the handful of structural queries the
// extraction pipeline needs. Parsing is permissive - corpus files are mostly
// well behaved UTF-8 but we respect declared encodings just in case.
package tei

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// StructureError reports a TEI file missing structural elements required by
// the extraction pipeline.
type StructureError struct {
	Path    string
	Missing string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("invalid TEI structure in %s: missing required element '%s'", e.Path, e.Missing)
}

// Document wraps a parsed TEI file.
type Document struct {
	Path string

	doc  *etree.Document
	body *etree.Element
}

// Load reads and parses the TEI file at path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open TEI file: %w", err)
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse reads TEI XML from r. The path argument is used for error reporting
// and author identification only.
func Parse(r io.Reader, path string) (*Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		Permissive:    true,
	}
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("unable to read TEI XML from %s: %w", path, err)
	}

	d := &Document{Path: path, doc: doc}

	// Upstream contract: a text body must be present.
	text := doc.FindElement("//text")
	if text == nil {
		return nil, &StructureError{Path: path, Missing: "text"}
	}
	if d.body = text.FindElement("body"); d.body == nil {
		return nil, &StructureError{Path: path, Missing: "body"}
	}
	return d, nil
}

// Title returns the Greek title from the TEI header, empty if absent.
func (d *Document) Title() string {
	for _, el := range d.doc.FindElements("//titleStmt/title") {
		if el.SelectAttrValue("xml:lang", "") == "grc" {
			if t := strings.TrimSpace(el.Text()); len(t) > 0 {
				return t
			}
		}
	}
	return ""
}

// Speakers returns participant names declared in the TEI header.
func (d *Document) Speakers() []string {
	var speakers []string
	for _, el := range d.doc.FindElements("//particDesc/person/persName") {
		if name := strings.TrimSpace(el.Text()); len(name) > 0 {
			speakers = append(speakers, name)
		}
	}
	return speakers
}

// AuthorID extracts the author TLG ID from the file path. Corpus layout puts
// every file under .../tlg####/tlg###/tlg####.tlg###.perseus-grc#.xml.
func (d *Document) AuthorID() string {
	for _, part := range strings.Split(filepath.ToSlash(d.Path), "/") {
		if isAuthorID(part) {
			return part
		}
	}
	// fall back to the file name prefix for files loaded outside corpus layout
	base := filepath.Base(d.Path)
	if i := strings.IndexByte(base, '.'); i > 0 && isAuthorID(base[:i]) {
		return base[:i]
	}
	return ""
}

func isAuthorID(s string) bool {
	if len(s) != 7 || !strings.HasPrefix(s, "tlg") {
		return false
	}
	for i := 3; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// IsDialogue reports whether the text carries attributed dialogue turns.
func (d *Document) IsDialogue() bool {
	return d.body.FindElement(".//said") != nil
}

// Turns returns all dialogue turn elements in document order.
func (d *Document) Turns() []*etree.Element {
	return d.body.FindElements(".//said")
}

// Paragraphs returns all prose paragraph elements in document order.
func (d *Document) Paragraphs() []*etree.Element {
	return d.body.FindElements(".//p")
}

// Books returns the numbers of book divisions, empty for single-book works.
func (d *Document) Books() []string {
	var books []string
	for _, el := range d.body.FindElements(".//div") {
		if el.SelectAttrValue("type", "") == "textpart" && el.SelectAttrValue("subtype", "") == "book" {
			if n := el.SelectAttrValue("n", ""); len(n) > 0 {
				books = append(books, n)
			}
		}
	}
	return books
}

// BookOf walks ancestors of el looking for an enclosing book division and
// returns its number, empty when el is not inside a book.
func BookOf(el *etree.Element) string {
	return divisionOf(el, "book")
}

// SectionOf walks ancestors of el looking for an enclosing section division.
func SectionOf(el *etree.Element) string {
	return divisionOf(el, "section")
}

func divisionOf(el *etree.Element, subtype string) string {
	for cur := el; cur != nil; cur = cur.Parent() {
		if cur.Tag == "div" &&
			cur.SelectAttrValue("type", "") == "textpart" &&
			cur.SelectAttrValue("subtype", "") == subtype {
			return cur.SelectAttrValue("n", "")
		}
	}
	return ""
}
