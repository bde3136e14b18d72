// Package catalog browses a Perseus canonical-greekLit corpus: author and
// work metadata from the per-directory __cts__.xml files, Greek edition file
// locations and Stephanus page-range summaries. Scans of large corpora are
// memoized in a small SQLite cache.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/beevik/etree"
	"github.com/maruel/natural"
	"go.uber.org/zap"
)

// Author is one tlg#### entry of the corpus.
type Author struct {
	ID      string
	NameEN  string
	NameGRC string
}

func (a Author) String() string {
	if len(a.NameGRC) > 0 {
		return fmt.Sprintf("%s: %s (%s)", a.ID, a.NameEN, a.NameGRC)
	}
	return fmt.Sprintf("%s: %s", a.ID, a.NameEN)
}

// Work is one work of an author, pointing at its Greek edition file.
type Work struct {
	AuthorID  string
	ID        string
	TitleEN   string
	TitleGRC  string
	Path      string
	PageRange string
}

func (w Work) String() string {
	s := fmt.Sprintf("  %s: %s", w.ID, w.TitleEN)
	if len(w.TitleGRC) > 0 {
		s = fmt.Sprintf("  %s: %s (%s)", w.ID, w.TitleEN, w.TitleGRC)
	}
	if len(w.PageRange) > 0 {
		s += " [" + w.PageRange + "]"
	}
	if len(w.Path) > 0 {
		s += "\n    File: " + w.Path
	}
	return s
}

// FullID returns the two-part work identifier, e.g. "tlg0059.tlg001".
func (w Work) FullID() string {
	return w.AuthorID + "." + w.ID
}

// Match pairs an author with one of their works in search results.
type Match struct {
	Author Author
	Work   Work
}

// WorkNotFoundError reports a work identifier or name that does not resolve
// to a corpus file.
type WorkNotFoundError struct {
	WorkID     string
	Suggestion string
}

func (e *WorkNotFoundError) Error() string {
	msg := "work not found: " + e.WorkID
	if len(e.Suggestion) > 0 {
		msg += "\n" + e.Suggestion
	}
	return msg
}

// Catalog browses one corpus directory.
type Catalog struct {
	dataDir string
	cache   *cache
	log     *zap.Logger
}

// New opens a catalog over dataDir. cachePath enables the scan cache when
// non-empty; an unusable cache degrades to direct scanning with a warning.
func New(dataDir, cachePath string, log *zap.Logger) (*Catalog, error) {
	fi, err := os.Stat(dataDir)
	if err != nil {
		return nil, fmt.Errorf("corpus directory not found: %s: %w", dataDir, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("corpus path is not a directory: %s", dataDir)
	}

	c := &Catalog{dataDir: dataDir, log: log}
	if len(cachePath) > 0 {
		if c.cache, err = openCache(cachePath, dataDir); err != nil {
			log.Warn("Catalog cache unavailable, scanning directly", zap.String("cache", cachePath), zap.Error(err))
			c.cache = nil
		}
	}
	return c, nil
}

// Close releases the cache connection if one is open.
func (c *Catalog) Close() error {
	if c.cache == nil {
		return nil
	}
	return c.cache.close()
}

// Authors lists all authors of the corpus sorted by TLG ID.
func (c *Catalog) Authors() ([]Author, error) {
	if c.cache != nil {
		if authors, ok := c.cache.authors(); ok {
			return authors, nil
		}
	}

	entries, err := os.ReadDir(c.dataDir)
	if err != nil {
		return nil, fmt.Errorf("unable to read corpus directory: %w", err)
	}

	var authors []Author
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "tlg") {
			continue
		}
		meta := filepath.Join(c.dataDir, entry.Name(), "__cts__.xml")
		nameEN, nameGRC, err := readGroupMetadata(meta)
		if err != nil {
			c.log.Warn("Skipping author with malformed metadata", zap.String("author", entry.Name()), zap.Error(err))
			continue
		}
		if len(nameEN) == 0 {
			continue
		}
		authors = append(authors, Author{ID: entry.Name(), NameEN: nameEN, NameGRC: nameGRC})
	}
	sort.Slice(authors, func(i, j int) bool { return natural.Less(authors[i].ID, authors[j].ID) })

	if c.cache != nil {
		c.cache.storeAuthors(authors)
	}
	return authors, nil
}

// Works lists all works of one author. An unknown author yields an empty
// list, not an error.
func (c *Catalog) Works(authorID string) ([]Work, error) {
	if c.cache != nil {
		if works, ok := c.cache.works(authorID); ok {
			return works, nil
		}
	}

	authorDir := filepath.Join(c.dataDir, authorID)
	entries, err := os.ReadDir(authorDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to read author directory: %w", err)
	}

	var works []Work
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "tlg") {
			continue
		}
		workDir := filepath.Join(authorDir, entry.Name())
		titleEN, titleGRC, err := readWorkMetadata(filepath.Join(workDir, "__cts__.xml"))
		if err != nil {
			c.log.Warn("Skipping work with malformed metadata",
				zap.String("author", authorID), zap.String("work", entry.Name()), zap.Error(err))
			continue
		}
		if len(titleEN) == 0 {
			continue
		}

		work := Work{AuthorID: authorID, ID: entry.Name(), TitleEN: titleEN, TitleGRC: titleGRC}
		if path := findGreekEdition(workDir); len(path) > 0 {
			work.Path = path
			work.PageRange = scanPageRange(path, c.log)
		}
		works = append(works, work)
	}
	sort.Slice(works, func(i, j int) bool { return natural.Less(works[i].ID, works[j].ID) })

	if c.cache != nil {
		c.cache.storeWorks(authorID, works)
	}
	return works, nil
}

// AuthorInfo returns metadata for one author, nil when unknown.
func (c *Catalog) AuthorInfo(authorID string) (*Author, error) {
	authors, err := c.Authors()
	if err != nil {
		return nil, err
	}
	for _, a := range authors {
		if a.ID == authorID {
			return &a, nil
		}
	}
	return nil, nil
}

// Search finds works whose author name or title contains the query,
// case-insensitive.
func (c *Catalog) Search(query string) ([]Match, error) {
	authors, err := c.Authors()
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)

	var matches []Match
	for _, author := range authors {
		authorHit := strings.Contains(strings.ToLower(author.NameEN), q) ||
			strings.Contains(strings.ToLower(author.NameGRC), q)
		works, err := c.Works(author.ID)
		if err != nil {
			return nil, err
		}
		for _, work := range works {
			if authorHit ||
				strings.Contains(strings.ToLower(work.TitleEN), q) ||
				strings.Contains(strings.ToLower(work.TitleGRC), q) {
				matches = append(matches, Match{Author: author, Work: work})
			}
		}
	}
	return matches, nil
}

// ResolveWorkID maps "tlg####.tlg###" to the path of the Greek edition file.
func (c *Catalog) ResolveWorkID(workID string) (string, error) {
	parts := strings.Split(workID, ".")
	if len(parts) != 2 || !strings.HasPrefix(parts[0], "tlg") || !strings.HasPrefix(parts[1], "tlg") {
		return "", &WorkNotFoundError{
			WorkID:     workID,
			Suggestion: "work ID must be in format 'tlg####.tlg###' (e.g. tlg0059.tlg001)",
		}
	}

	author, err := c.AuthorInfo(parts[0])
	if err != nil {
		return "", err
	}
	if author == nil {
		return "", &WorkNotFoundError{
			WorkID:     workID,
			Suggestion: fmt.Sprintf("author '%s' not found, use 'list-authors' to see available authors", parts[0]),
		}
	}

	works, err := c.Works(parts[0])
	if err != nil {
		return "", err
	}
	for _, work := range works {
		if work.ID == parts[1] {
			if len(work.Path) == 0 {
				return "", &WorkNotFoundError{WorkID: workID, Suggestion: "work found but no Greek edition file available"}
			}
			return work.Path, nil
		}
	}
	return "", &WorkNotFoundError{
		WorkID: workID,
		Suggestion: fmt.Sprintf("work '%s' not found for author %s, use 'list-works %s' to see available works",
			parts[1], author.NameEN, parts[0]),
	}
}

// readGroupMetadata extracts author names from a textgroup __cts__.xml.
func readGroupMetadata(path string) (nameEN, nameGRC string, err error) {
	doc, err := readCTS(path)
	if err != nil {
		return "", "", err
	}
	for _, el := range doc.FindElements("//groupname") {
		text := strings.TrimSpace(el.Text())
		if len(text) == 0 {
			continue
		}
		switch el.SelectAttrValue("xml:lang", "") {
		case "en", "eng", "lat":
			if len(nameEN) == 0 {
				nameEN = text
			}
		case "grc":
			nameGRC = text
		case "":
			if len(nameEN) == 0 {
				nameEN = text
			}
		}
	}
	return nameEN, nameGRC, nil
}

// readWorkMetadata extracts titles from a work __cts__.xml.
func readWorkMetadata(path string) (titleEN, titleGRC string, err error) {
	doc, err := readCTS(path)
	if err != nil {
		return "", "", err
	}
	for _, el := range doc.FindElements("//title") {
		lang := el.SelectAttrValue("xml:lang", "")
		if (lang == "eng" || lang == "lat") && len(strings.TrimSpace(el.Text())) > 0 {
			titleEN = strings.TrimSpace(el.Text())
			break
		}
	}
	for _, el := range doc.FindElements("//edition/label") {
		if el.SelectAttrValue("xml:lang", "") == "grc" && len(strings.TrimSpace(el.Text())) > 0 {
			titleGRC = strings.TrimSpace(el.Text())
			break
		}
	}
	return titleEN, titleGRC, nil
}

func readCTS(path string) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	if err := doc.ReadFromFile(path); err != nil {
		return nil, err
	}
	return doc, nil
}

// findGreekEdition locates the Greek edition file of a work directory.
func findGreekEdition(workDir string) string {
	matches, err := filepath.Glob(filepath.Join(workDir, "*.perseus-grc*.xml"))
	if err != nil || len(matches) == 0 {
		return ""
	}
	sort.Slice(matches, func(i, j int) bool { return natural.Less(matches[i], matches[j]) })
	return matches[0]
}
