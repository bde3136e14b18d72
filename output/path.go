package output

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"ptx/config"
)

// PathValues holds the variables available to the output name template.
type PathValues struct {
	WorkID   string
	Title    string
	Author   string
	AuthorID string
	Range    string
	Style    string
	Format   string
}

// BuildPath constructs the output file path for one extraction. With no
// template configured the file is named after the work ID; otherwise the
// template is expanded and may introduce subdirectories. Path segments are
// cleaned of characters the OS disallows, and optionally transliterated to
// ASCII.
func BuildPath(outDir, nameTemplate string, values PathValues, format Format, transliterate bool, log *zap.Logger) string {
	defaultFile := defaultFileName(values, format, transliterate)

	if nameTemplate == "" {
		return filepath.Join(outDir, defaultFile)
	}

	expanded, err := expandNameTemplate(nameTemplate, values)
	if err != nil {
		log.Warn("Unable to prepare output filename, using default", zap.Error(err))
		return filepath.Join(outDir, defaultFile)
	}
	return assemblePathWithSubdirs(outDir, filepath.FromSlash(expanded), format, transliterate)
}

func defaultFileName(values PathValues, format Format, transliterate bool) string {
	baseName := values.WorkID
	if baseName == "" {
		baseName = values.Title
	}
	if len(values.Range) > 0 {
		baseName += "_" + strings.ReplaceAll(values.Range, ",", "_")
	}
	if transliterate {
		baseName = slug.Make(baseName)
	}
	return config.CleanFileName(baseName) + format.Extension()
}

func expandNameTemplate(field string, values PathValues) (string, error) {
	tmpl, err := template.New("output-name").Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", err
	}
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// assemblePathWithSubdirs splits an expanded template name on path
// separators and reassembles it under outDir, cleaning each segment.
func assemblePathWithSubdirs(outDir, expandedName string, format Format, transliterate bool) string {
	pathSegments := splitPath(expandedName)
	if len(pathSegments) == 0 {
		return outDir
	}

	fileName := cleanPathSegment(pathSegments[len(pathSegments)-1], transliterate) + format.Extension()
	dirParts := make([]string, 0, len(pathSegments)+1)
	dirParts = append(dirParts, outDir)
	for _, seg := range pathSegments[:len(pathSegments)-1] {
		dirParts = append(dirParts, cleanPathSegment(seg, transliterate))
	}
	dirParts = append(dirParts, fileName)
	return filepath.Join(dirParts...)
}

func splitPath(path string) []string {
	path = strings.TrimSuffix(path, string(os.PathSeparator))
	segments := make([]string, 0, 8)

	for head, tail := filepath.Split(path); tail != ""; head, tail = filepath.Split(head) {
		segments = slices.Insert(segments, 0, tail)
		head = strings.TrimSuffix(head, string(os.PathSeparator))
		if head == "" {
			break
		}
		path = head
	}
	return segments
}

func cleanPathSegment(seg string, transliterate bool) string {
	if transliterate {
		seg = slug.Make(seg)
	}
	return config.CleanFileName(seg)
}
