package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	// CorpusConfig names one canonical-greekLit checkout on disk.
	CorpusConfig struct {
		Name    string `yaml:"name" validate:"required"`
		Path    string `yaml:"path" sanitize:"path_clean" validate:"required"`
		Default bool   `yaml:"default"`
	}

	// CatalogConfig controls corpus scanning.
	CatalogConfig struct {
		CachePath      string `yaml:"cache_path,omitempty" sanitize:"path_clean,assure_dir_exists_for_file" validate:"omitempty,filepath"`
		UserAliases    string `yaml:"user_aliases,omitempty" sanitize:"path_clean" validate:"omitempty,filepath"`
		ProjectAliases string `yaml:"project_aliases,omitempty" sanitize:"path_clean" validate:"omitempty,filepath"`
	}

	// LayoutConfig sets the column geometry of text output.
	LayoutConfig struct {
		WrapWidth   int `yaml:"wrap_width" validate:"min=20"`
		ColumnWidth int `yaml:"column_width" validate:"min=10"`
		MarginWidth int `yaml:"margin_width" validate:"min=3"`
	}

	// DocumentConfig controls output naming and formatting defaults.
	DocumentConfig struct {
		Style                 string       `yaml:"style" validate:"required"`
		Format                string       `yaml:"format" validate:"required,oneof=text json jsonl"`
		OutputNameTemplate    string       `yaml:"output_name_template"`
		FileNameTransliterate bool         `yaml:"file_name_transliterate"`
		Layout                LayoutConfig `yaml:"layout"`
	}

	// HealthConfig tunes corpus health checks.
	HealthConfig struct {
		SampleSize int `yaml:"sample_size" validate:"min=1"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Corpora   []CorpusConfig `yaml:"corpora" validate:"dive"`
		Catalog   CatalogConfig  `yaml:"catalog"`
		Document  DocumentConfig `yaml:"document"`
		Health    HealthConfig   `yaml:"health"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above, alternative is to use struct
	// field name and reflection which I want to avoid for now
	OutputNameTemplateFieldName TemplateFieldName = "output_name_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
)

// DefaultCorpus returns the corpus marked default, or the first configured
// one, or nil when none are configured.
func (cfg *Config) DefaultCorpus() *CorpusConfig {
	for i := range cfg.Corpora {
		if cfg.Corpora[i].Default {
			return &cfg.Corpora[i]
		}
	}
	if len(cfg.Corpora) > 0 {
		return &cfg.Corpora[0]
	}
	return nil
}

// Corpus finds a configured corpus by name, nil when absent.
func (cfg *Config) Corpus(name string) *CorpusConfig {
	for i := range cfg.Corpora {
		if cfg.Corpora[i].Name == name {
			return &cfg.Corpora[i]
		}
	}
	return nil
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration tamplate to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
