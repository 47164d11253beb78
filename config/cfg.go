package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"chapterdoc/common"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	StoreConfig struct {
		Backend common.StoreBackend `yaml:"backend" validate:"gte=0"`
		Path    string              `yaml:"path" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required_if=Backend 1"`
	}

	ObjectsConfig struct {
		Bucket        string                 `yaml:"bucket" sanitize:"path_clean" validate:"required"`
		PublicBaseURL string                 `yaml:"public_base_url" validate:"required,url"`
		KeyTemplate   string                 `yaml:"key_template" validate:"required"`
		MaxWidth      int                    `yaml:"max_width" validate:"min=0"`
		Resize        common.ImageResizeMode `yaml:"resize" validate:"gte=0"`
		JPEGQuality   int                    `yaml:"jpeg_quality_level" validate:"min=40,max=100"`
	}

	FontSizeConfig struct {
		Min  int `yaml:"min" validate:"min=1"`
		Max  int `yaml:"max" validate:"gtfield=Min"`
		Step int `yaml:"step" validate:"min=1"`
		Base int `yaml:"base" validate:"gtefield=Min,ltefield=Max"`
	}

	EditorConfig struct {
		DebounceMs int            `yaml:"debounce_ms" validate:"min=600,max=1200"`
		FontSize   FontSizeConfig `yaml:"font_size"`
	}

	FontFamiliesConfig struct {
		Regular    string `yaml:"regular" validate:"required"`
		Bold       string `yaml:"bold" validate:"required"`
		Italic     string `yaml:"italic" validate:"required"`
		BoldItalic string `yaml:"bold_italic" validate:"required"`
		Mono       string `yaml:"mono" validate:"required"`
	}

	RenderConfig struct {
		BaseFontSize float64            `yaml:"base_font_size" validate:"gt=0"`
		ImageAspect  float64            `yaml:"image_aspect_ratio" validate:"gt=0"`
		ImageRadius  float64            `yaml:"image_border_radius" validate:"gte=0"`
		Fonts        FontFamiliesConfig `yaml:"fonts"`
	}

	ExportConfig struct {
		OutputNameTemplate    string `yaml:"output_name_template" validate:"required"`
		FileNameTransliterate bool   `yaml:"file_name_transliterate"`
		FixZip                bool   `yaml:"fix_zip"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Store     StoreConfig    `yaml:"store"`
		Objects   ObjectsConfig  `yaml:"objects"`
		Editor    EditorConfig   `yaml:"editor"`
		Render    RenderConfig   `yaml:"render"`
		Export    ExportConfig   `yaml:"export"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above, these are expanded later with
	// values known only at the time of use
	KeyTemplateFieldName        TemplateFieldName = "key_template"
	OutputNameTemplateFieldName TemplateFieldName = "output_name_template"
)

// Environment variables overriding locations in default configuration.
const (
	EnvDatabase = "CHAPTERDOC_DB"
	EnvBucket   = "CHAPTERDOC_BUCKET"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(KeyTemplateFieldName)),
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
)

// LoadEnvironment reads .env style files into process environment, so
// template expansion could see them. Missing files are ignored. Variables
// already set are not overwritten.
func LoadEnvironment(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("unable to load environment from '%s': %w", p, err)
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
