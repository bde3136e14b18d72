package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"
)

func writeAliasFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolver_HarvestedTitles(t *testing.T) {
	log := zaptest.NewLogger(t)
	cat, err := New(writeCorpus(t), "", log)
	if err != nil {
		t.Fatal(err)
	}
	defer cat.Close()

	r := NewResolver(cat, "", "", log)

	cases := map[string]string{
		"Republic": "tlg0059.tlg030",
		"republic": "tlg0059.tlg030",
		"Πολιτεία": "tlg0059.tlg030",
		"iliad":    "tlg0012.tlg001",
	}
	for name, want := range cases {
		got, err := r.Resolve(name)
		if err != nil {
			t.Errorf("Resolve(%q): %v", name, err)
			continue
		}
		if got != want {
			t.Errorf("Resolve(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestResolver_TLGIDPassthrough(t *testing.T) {
	log := zaptest.NewLogger(t)
	cat, err := New(writeCorpus(t), "", log)
	if err != nil {
		t.Fatal(err)
	}
	defer cat.Close()

	r := NewResolver(cat, "", "", log)

	// IDs pass through without catalog validation, resolution to a file
	// happens later
	got, err := r.Resolve("tlg0086.tlg010")
	if err != nil || got != "tlg0086.tlg010" {
		t.Errorf("got %q, %v", got, err)
	}
}

func TestResolver_AliasLayering(t *testing.T) {
	log := zaptest.NewLogger(t)
	cat, err := New(writeCorpus(t), "", log)
	if err != nil {
		t.Fatal(err)
	}
	defer cat.Close()

	user := writeAliasFile(t, "aliases:\n  rep: tlg0059.tlg030\n  Republic: tlg0012.tlg001\n")
	project := writeAliasFile(t, "aliases:\n  rep: tlg0059.tlg004\n")

	r := NewResolver(cat, user, project, log)

	// project layer wins over user layer
	if got, _ := r.Resolve("rep"); got != "tlg0059.tlg004" {
		t.Errorf("Resolve(rep) = %q, want project alias", got)
	}
	// user alias shadows the harvested title, case-insensitive
	if got, _ := r.Resolve("REPUBLIC"); got != "tlg0012.tlg001" {
		t.Errorf("Resolve(REPUBLIC) = %q, want user alias target", got)
	}
}

func TestResolver_BadAliasFilesSkipped(t *testing.T) {
	log := zaptest.NewLogger(t)
	cat, err := New(writeCorpus(t), "", log)
	if err != nil {
		t.Fatal(err)
	}
	defer cat.Close()

	malformed := writeAliasFile(t, "aliases: [unclosed")
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	r := NewResolver(cat, malformed, missing, log)
	if got, err := r.Resolve("republic"); err != nil || got != "tlg0059.tlg030" {
		t.Errorf("harvested titles should survive bad alias files, got %q, %v", got, err)
	}
}

func TestResolver_UnknownName(t *testing.T) {
	log := zaptest.NewLogger(t)
	cat, err := New(writeCorpus(t), "", log)
	if err != nil {
		t.Fatal(err)
	}
	defer cat.Close()

	r := NewResolver(cat, "", "", log)
	_, err = r.Resolve("symposium")
	var wnf *WorkNotFoundError
	if !errors.As(err, &wnf) {
		t.Fatalf("expected *WorkNotFoundError, got %v", err)
	}
}

func TestResolver_ResolvePath(t *testing.T) {
	log := zaptest.NewLogger(t)
	cat, err := New(writeCorpus(t), "", log)
	if err != nil {
		t.Fatal(err)
	}
	defer cat.Close()

	r := NewResolver(cat, "", "", log)
	path, err := r.ResolvePath("republic")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "tlg0059.tlg030.perseus-grc2.xml" {
		t.Errorf("unexpected path %q", path)
	}
}
