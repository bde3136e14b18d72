// Package output serializes extraction results to their final formats and
// decides where on disk they land.
package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"ptx/misc"
	"ptx/render"
	"ptx/segment"
)

// Format selects the serialization of extraction results.
type Format int

const (
	FormatText Format = iota
	FormatJSON
	FormatJSONL
)

var formatNames = map[Format]string{
	FormatText:  "text",
	FormatJSON:  "json",
	FormatJSONL: "jsonl",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat maps a format name to its Format, case-insensitive.
func ParseFormat(name string) (Format, error) {
	for f, n := range formatNames {
		if strings.EqualFold(name, n) {
			return f, nil
		}
	}
	return FormatText, fmt.Errorf("unknown output format: %s", name)
}

// Extension returns the file extension for the format, dot included.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatJSONL:
		return ".jsonl"
	default:
		return ".txt"
	}
}

// Metadata describes one extraction run. It wraps the segments in JSON
// output so downstream consumers can trace where a file came from.
type Metadata struct {
	ExtractionID string `json:"extraction_id"`
	Timestamp    string `json:"timestamp"`
	Tool         string `json:"tool"`
	WorkID       string `json:"work_id,omitempty"`
	Title        string `json:"title,omitempty"`
	Author       string `json:"author,omitempty"`
	Range        string `json:"range,omitempty"`
	Style        string `json:"style,omitempty"`
}

// NewMetadata stamps a fresh run descriptor.
func NewMetadata(workID, title, author, rangeSpec string, style render.Style) Metadata {
	return Metadata{
		ExtractionID: uuid.New().String(),
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Tool:         misc.GetAppName() + " " + misc.GetVersion(),
		WorkID:       workID,
		Title:        title,
		Author:       author,
		Range:        rangeSpec,
		Style:        style.String(),
	}
}

// Writer turns segments into the final output text.
type Writer interface {
	Write(segments []segment.Segment, meta Metadata) (string, error)
}

// NewWriter builds a writer for the format. Text output needs the renderer
// configured for the work at hand; JSON formats ignore it.
func NewWriter(format Format, r render.Renderer, style render.Style) Writer {
	switch format {
	case FormatJSON:
		return jsonWriter{}
	case FormatJSONL:
		return jsonlWriter{}
	default:
		return textWriter{renderer: r, style: style}
	}
}

type textWriter struct {
	renderer render.Renderer
	style    render.Style
}

func (w textWriter) Write(segments []segment.Segment, _ Metadata) (string, error) {
	return w.renderer.Render(segments, w.style)
}

type jsonWriter struct{}

type jsonDocument struct {
	Metadata Metadata          `json:"metadata"`
	Segments []segment.Segment `json:"segments"`
}

func (jsonWriter) Write(segments []segment.Segment, meta Metadata) (string, error) {
	if segments == nil {
		segments = []segment.Segment{}
	}
	data, err := sonic.ConfigDefault.MarshalIndent(jsonDocument{Metadata: meta, Segments: segments}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("unable to marshal segments: %w", err)
	}
	return string(data), nil
}

type jsonlWriter struct{}

func (jsonlWriter) Write(segments []segment.Segment, _ Metadata) (string, error) {
	var sb strings.Builder
	for i, seg := range segments {
		data, err := sonic.Marshal(seg)
		if err != nil {
			return "", fmt.Errorf("unable to marshal segment: %w", err)
		}
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.Write(data)
	}
	return sb.String(), nil
}
