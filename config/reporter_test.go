package config

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func newTestReport(t *testing.T) *Report {
	t.Helper()
	f, err := os.Create(filepath.Join(t.TempDir(), "report.zip"))
	if err != nil {
		t.Fatal(err)
	}
	return &Report{entries: make(map[string]entry), file: f}
}

func TestReportClose_ArchivesStoredContent(t *testing.T) {
	r := newTestReport(t)
	archivePath := r.Name()

	r.StoreData("config/extraction.yaml", []byte("style: full_modern\n"))

	resultFile := filepath.Join(t.TempDir(), "tlg0059.tlg030.json")
	if err := os.WriteFile(resultFile, []byte(`{"segments":[]}`), 0644); err != nil {
		t.Fatal(err)
	}
	r.Store("output/result.json", resultFile)

	if err := r.Close(); err != nil {
		t.Fatalf("Report.Close() error: %v", err)
	}

	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		t.Fatalf("report is not a readable archive: %v", err)
	}
	defer zr.Close()

	found := map[string]bool{}
	for _, f := range zr.File {
		found[f.Name] = true
	}
	for _, want := range []string{"MANIFEST", "config/extraction.yaml", "output/result.json"} {
		if !found[want] {
			t.Errorf("archive is missing entry %q, has %v", want, found)
		}
	}
}

func TestReportClose_RemovesStoredDirs(t *testing.T) {
	r := newTestReport(t)

	// stored directories are temporary work dirs and must be dropped once
	// archived; stored files belong to the user and must survive
	workDir1 := filepath.Join(t.TempDir(), "segments")
	workDir2 := filepath.Join(t.TempDir(), "renders")
	for _, dir := range []string{workDir1, workDir2} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(workDir1, "dump.txt"), []byte("debug"), 0644); err != nil {
		t.Fatal(err)
	}

	keptFile := filepath.Join(t.TempDir(), "extraction.txt")
	if err := os.WriteFile(keptFile, []byte("text"), 0644); err != nil {
		t.Fatal(err)
	}

	r.Store("work/segments", workDir1)
	r.Store("work/renders", workDir2)
	r.Store("output/extraction.txt", keptFile)

	if err := r.Close(); err != nil {
		t.Fatalf("Report.Close() error: %v", err)
	}

	for _, dir := range []string{workDir1, workDir2} {
		if _, err := os.Stat(dir); !os.IsNotExist(err) {
			t.Errorf("expected %s to be removed, but it still exists", dir)
		}
	}
	if _, err := os.Stat(keptFile); err != nil {
		t.Errorf("stored file should not be removed, got: %v", err)
	}
}

func TestReportClose_Uninitialized(t *testing.T) {
	var r *Report
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}

	empty := &Report{entries: make(map[string]entry)}
	if err := empty.Close(); err != nil {
		t.Errorf("Close without file should not error, got: %v", err)
	}
}
