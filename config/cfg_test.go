package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}

	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}

	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}

	if cfg.Document.Layout.WrapWidth != 79 {
		t.Errorf("Default wrap width = %d, want 79", cfg.Document.Layout.WrapWidth)
	}
	if cfg.Document.Layout.ColumnWidth != 40 {
		t.Errorf("Default column width = %d, want 40", cfg.Document.Layout.ColumnWidth)
	}
	if cfg.Document.Layout.MarginWidth != 6 {
		t.Errorf("Default margin width = %d, want 6", cfg.Document.Layout.MarginWidth)
	}

	if def := cfg.DefaultCorpus(); def == nil {
		t.Error("Expected a default corpus in template configuration")
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `version: 1
corpora:
  - name: "local"
    path: "` + tmpDir + `"
    default: true
  - name: "secondary"
    path: "` + tmpDir + `"
document:
  style: "minimal_punctuation"
  format: "jsonl"
  output_name_template: "{{.AuthorID}}/{{.Title}}"
  file_name_transliterate: true
  layout:
    wrap_width: 60
    column_width: 30
    margin_width: 8
health:
  sample_size: 10
logging:
  console:
    level: normal
  file:
    level: debug
    destination: /tmp/test.log
    mode: append
reporting:
  destination: /tmp/test-report.zip
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}

	if cfg.Document.Style != "minimal_punctuation" {
		t.Errorf("Style = %s, want minimal_punctuation", cfg.Document.Style)
	}
	if cfg.Document.Format != "jsonl" {
		t.Errorf("Format = %s, want jsonl", cfg.Document.Format)
	}
	if !cfg.Document.FileNameTransliterate {
		t.Error("Expected FileNameTransliterate to be true")
	}
	if cfg.Document.Layout.WrapWidth != 60 {
		t.Errorf("WrapWidth = %d, want 60", cfg.Document.Layout.WrapWidth)
	}
	if cfg.Health.SampleSize != 10 {
		t.Errorf("SampleSize = %d, want 10", cfg.Health.SampleSize)
	}

	if def := cfg.DefaultCorpus(); def == nil || def.Name != "local" {
		t.Errorf("DefaultCorpus() = %v, want local", def)
	}
	if c := cfg.Corpus("secondary"); c == nil {
		t.Error("Corpus(secondary) not found")
	}
	if c := cfg.Corpus("unknown"); c != nil {
		t.Errorf("Corpus(unknown) = %v, want nil", c)
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	_, err := LoadConfiguration("/nonexistent/config.yaml")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `version: 1
document:
  style: "full_modern"
  invalid indent
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := LoadConfiguration(configPath)
	if err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestLoadConfiguration_UnknownFields(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "unknown.yaml")

	configContent := `version: 1
no_such_section:
  value: true
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := LoadConfiguration(configPath); err == nil {
		t.Error("Expected error for unknown configuration fields")
	}
}

func TestLoadConfiguration_BadFormat(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "badfmt.yaml")

	configContent := `version: 1
document:
  format: "xml"
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := LoadConfiguration(configPath); err == nil {
		t.Error("Expected validation error for unsupported output format")
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if !strings.Contains(string(data), "version: 1") {
		t.Error("Prepared configuration is missing version")
	}
}

func TestDump(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if !strings.Contains(string(data), "document:") {
		t.Error("Dumped configuration is missing document section")
	}
}

func TestCleanFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"republic", "republic"},
		{"", "_bad_file_name_"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := CleanFileName(tt.in); got != tt.want {
				t.Errorf("CleanFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
