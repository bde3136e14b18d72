// Package anthology extracts discontinuous passages from multiple works and
// formats them as headed blocks, the way a reader assembles excerpts for a
// course pack.
package anthology

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"ptx/catalog"
	"ptx/render"
	"ptx/segment"
	"ptx/stephanus"
	"ptx/tei"
)

// PassageSpec names one work and the ranges to pull from it.
type PassageSpec struct {
	WorkID string
	Ranges []string
}

// Block is one extracted range with the metadata its header needs.
type Block struct {
	TitleEN      string
	TitleGRC     string
	RangeDisplay string
	Book         string
	AuthorID     string
	Segments     []segment.Segment
}

// Header formats the block heading with a separator rule. The rule spans
// width columns, or the heading itself when longer.
func (b Block) Header(width int) string {
	rangePart := b.RangeDisplay
	if len(b.Book) > 0 {
		rangePart = b.Book + "." + b.RangeDisplay
	}
	heading := fmt.Sprintf("%s (%s) %s", b.TitleEN, b.TitleGRC, rangePart)

	n := width
	if n < 1 {
		n = 1
	}
	if len(heading) > n {
		n = len(heading)
	}
	return heading + "\n" + strings.Repeat("-", n)
}

// Extractor pulls anthology passages out of a corpus.
type Extractor struct {
	catalog *catalog.Catalog
	log     *zap.Logger
}

func NewExtractor(cat *catalog.Catalog, log *zap.Logger) *Extractor {
	return &Extractor{catalog: cat, log: log}
}

// Extract produces one block per range of every passage spec, in spec order.
// Each work's edition file is parsed once regardless of how many ranges
// reference it.
func (e *Extractor) Extract(passages []PassageSpec) ([]Block, error) {
	var blocks []Block
	for _, passage := range passages {
		path, err := e.catalog.ResolveWorkID(passage.WorkID)
		if err != nil {
			return nil, err
		}
		titleEN, titleGRC, err := e.workTitles(passage.WorkID)
		if err != nil {
			return nil, err
		}

		doc, err := tei.Load(path)
		if err != nil {
			return nil, fmt.Errorf("unable to parse %s: %w", passage.WorkID, err)
		}
		segments, err := segment.Extract(doc, e.log)
		if err != nil {
			return nil, fmt.Errorf("unable to extract %s: %w", passage.WorkID, err)
		}

		for _, spec := range passage.Ranges {
			filtered, err := stephanus.FilterSegments(segments, spec, passage.WorkID)
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, Block{
				TitleEN:      titleEN,
				TitleGRC:     titleGRC,
				RangeDisplay: spec,
				Book:         firstBook(filtered),
				AuthorID:     doc.AuthorID(),
				Segments:     filtered,
			})
		}
	}
	return blocks, nil
}

func (e *Extractor) workTitles(workID string) (string, string, error) {
	parts := strings.SplitN(workID, ".", 2)
	if len(parts) != 2 {
		return "", "", &catalog.WorkNotFoundError{WorkID: workID}
	}
	works, err := e.catalog.Works(parts[0])
	if err != nil {
		return "", "", err
	}
	for _, w := range works {
		if w.ID == parts[1] {
			en, grc := w.TitleEN, w.TitleGRC
			if len(en) == 0 {
				en = "Unknown"
			}
			if len(grc) == 0 {
				grc = "Unknown"
			}
			return en, grc, nil
		}
	}
	return "", "", &catalog.WorkNotFoundError{WorkID: workID}
}

func firstBook(segments []segment.Segment) string {
	if len(segments) > 0 {
		return segments[0].Book
	}
	return ""
}

// Formatter renders anthology blocks in one of the paragraph styles.
// Continuous styles make the block boundaries unreadable, so only styles A
// through D are accepted.
type Formatter struct {
	style  render.Style
	layout render.Layout
}

func NewFormatter(style render.Style, layout render.Layout) (*Formatter, error) {
	switch style {
	case render.StyleScriptioContinua, render.StyleStephanusLayout:
		return nil, &render.StyleError{
			Style:  style.Letter() + " (" + style.String() + ")",
			Reason: "continuous styles are not supported for anthology extraction, use styles A-D",
		}
	}
	return &Formatter{style: style, layout: layout}, nil
}

// Format renders each block under its header and joins blocks with a blank
// line. No blocks yields the empty string.
func (f *Formatter) Format(blocks []Block) (string, error) {
	parts := make([]string, 0, len(blocks))
	for _, block := range blocks {
		r := render.Renderer{AuthorID: block.AuthorID, Layout: f.layout}
		content, err := r.Render(block.Segments, f.style)
		if err != nil {
			return "", err
		}
		parts = append(parts, block.Header(f.layout.WrapWidth)+"\n"+content)
	}
	return strings.Join(parts, "\n\n"), nil
}
