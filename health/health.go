// Package health runs corpus diagnostics: catalog structure, metadata
// completeness, and parseability of sampled edition files.
package health

import (
	"fmt"
	"math"
	"math/rand"
	"os"

	"go.uber.org/zap"

	"ptx/catalog"
	"ptx/tei"
)

// Status summarizes the outcome of a corpus check.
type Status int

const (
	StatusOK Status = iota
	StatusWarning
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusWarning:
		return "WARNING"
	case StatusError:
		return "ERROR"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Mode selects how much of the corpus is parsed.
type Mode int

const (
	// ModeQuick parses a small sample of edition files.
	ModeQuick Mode = iota
	// ModeFull parses every edition file.
	ModeFull
)

// FileResult is the parse outcome of one edition file.
type FileResult struct {
	AuthorID string
	WorkID   string
	Path     string
	Err      error
}

// Options tune the check. Zero values mean quick mode with the default
// sample of five files and a random seed.
type Options struct {
	Mode          Mode
	SamplePercent float64
	Seed          int64
	HasSeed       bool
	SampleSize    int
}

// Result is the full corpus check report.
type Result struct {
	Name           string
	Path           string
	Status         Status
	Message        string
	Mode           Mode
	TotalAuthors   int
	TotalWorks     int
	TotalFiles     int
	CheckedFiles   int
	SampledPaths   []string
	FailedFiles    []FileResult
	MetadataIssues []string
}

const defaultSampleSize = 5

// Check runs diagnostics over one corpus directory.
func Check(name, dataDir string, opts Options, log *zap.Logger) Result {
	res := Result{Name: name, Path: dataDir, Mode: opts.Mode}

	if _, err := os.Stat(dataDir); err != nil {
		res.Status = StatusError
		res.Message = fmt.Sprintf("Corpus directory not found: %s", dataDir)
		return res
	}

	cat, err := catalog.New(dataDir, "", log)
	if err != nil {
		res.Status = StatusError
		res.Message = fmt.Sprintf("Failed to load catalog: %v", err)
		return res
	}
	defer cat.Close()

	authors, err := cat.Authors()
	if err != nil {
		res.Status = StatusError
		res.Message = fmt.Sprintf("Failed to list authors: %v", err)
		return res
	}
	res.TotalAuthors = len(authors)

	var files []FileResult
	for _, author := range authors {
		works, err := cat.Works(author.ID)
		if err != nil {
			res.MetadataIssues = append(res.MetadataIssues,
				fmt.Sprintf("%s: unable to list works (%v)", author.ID, err))
			continue
		}
		res.TotalWorks += len(works)
		for _, work := range works {
			if len(work.Path) == 0 {
				res.MetadataIssues = append(res.MetadataIssues,
					fmt.Sprintf("%s/%s: missing Greek edition file", author.ID, work.ID))
				continue
			}
			if _, err := os.Stat(work.Path); err != nil {
				res.MetadataIssues = append(res.MetadataIssues,
					fmt.Sprintf("%s/%s: edition file not found (%s)", author.ID, work.ID, work.Path))
				continue
			}
			files = append(files, FileResult{AuthorID: author.ID, WorkID: work.ID, Path: work.Path})
		}
	}
	res.TotalFiles = len(files)

	if len(files) == 0 {
		res.Status = StatusError
		res.Message = "No TEI files found for corpus"
		return res
	}

	selected := files
	if opts.Mode == ModeQuick {
		selected = sampleFiles(files, opts)
	}
	res.CheckedFiles = len(selected)
	for _, entry := range selected {
		res.SampledPaths = append(res.SampledPaths, entry.Path)
		if _, err := tei.Load(entry.Path); err != nil {
			entry.Err = err
			res.FailedFiles = append(res.FailedFiles, entry)
		}
	}

	switch {
	case len(res.FailedFiles) == res.CheckedFiles && res.CheckedFiles > 0:
		res.Status = StatusError
		res.Message = fmt.Sprintf("All %d checks failed", res.CheckedFiles)
	case len(res.FailedFiles) > 0:
		res.Status = StatusWarning
		res.Message = fmt.Sprintf("%d of %d sampled files failed to parse", len(res.FailedFiles), res.CheckedFiles)
	case len(res.MetadataIssues) > 0:
		res.Status = StatusWarning
		res.Message = fmt.Sprintf("%d metadata issues detected", len(res.MetadataIssues))
	default:
		res.Status = StatusOK
		res.Message = "All checks passed"
	}
	return res
}

// sampleFiles picks the subset of files to parse in quick mode. A fixed seed
// makes the pick reproducible.
func sampleFiles(files []FileResult, opts Options) []FileResult {
	if len(files) == 0 {
		return nil
	}

	count := opts.SampleSize
	if count <= 0 {
		count = defaultSampleSize
	}
	if opts.SamplePercent > 0 {
		ratio := math.Min(opts.SamplePercent, 100) / 100
		count = int(math.Ceil(float64(len(files)) * ratio))
		if count < 1 {
			count = 1
		}
	}
	if count >= len(files) {
		return files
	}

	var rng *rand.Rand
	if opts.HasSeed {
		rng = rand.New(rand.NewSource(opts.Seed))
	} else {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	picked := rng.Perm(len(files))[:count]
	out := make([]FileResult, 0, count)
	for _, i := range picked {
		out = append(out, files[i])
	}
	return out
}
