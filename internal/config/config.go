// Package config loads the optional run-clang-format config file.
package config

import (
	"errors"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/andyballingall/run-clang-format/internal/fs"
	"github.com/andyballingall/run-clang-format/internal/validator"
)

const (
	// DefaultFile is read from the working directory when no config file is named.
	DefaultFile = ".run-clang-format.yml"
	// EnvFile names a config file to use instead of DefaultFile.
	EnvFile = "RUN_CLANG_FORMAT_CONFIG"

	DefaultExecutable  = "clang-format"
	DefaultIgnoreFile  = ".clang-format-ignore"
	DefaultIncludeFile = ".clang-format-include"
)

// ColourMode selects when output is coloured.
type ColourMode string

const (
	ColourAuto   ColourMode = "auto"
	ColourAlways ColourMode = "always"
	ColourNever  ColourMode = "never"
)

var colourModes = []ColourMode{ColourAuto, ColourAlways, ColourNever}

func colourModeNames() []string {
	names := make([]string, len(colourModes))
	for i, m := range colourModes {
		names[i] = string(m)
	}
	return names
}

// ParseColourMode returns the ColourMode named s.
func ParseColourMode(s string) (ColourMode, error) {
	m := ColourMode(s)
	if !slices.Contains(colourModes, m) {
		return "", &InvalidColourModeError{Value: s}
	}
	return m, nil
}

// Config holds the settings of a run. File values are overridden by flags
// given on the command line.
type Config struct {
	Executable  string     `yaml:"executable"`
	Extensions  []string   `yaml:"extensions"`
	Style       string     `yaml:"style"`
	Jobs        int        `yaml:"jobs"`
	Exclude     []string   `yaml:"exclude"`
	Colour      ColourMode `yaml:"color"`
	IgnoreFile  string     `yaml:"ignoreFile"`
	IncludeFile string     `yaml:"includeFile"`
	Recursive   bool       `yaml:"recursive"`
}

// Default returns the settings used when there is no config file.
func Default() *Config {
	return &Config{
		Executable:  DefaultExecutable,
		Extensions:  slices.Clone(fs.DefaultExtensions),
		Colour:      ColourAuto,
		IgnoreFile:  DefaultIgnoreFile,
		IncludeFile: DefaultIncludeFile,
	}
}

// Path returns the config file to load and whether it was named explicitly.
// flagValue takes precedence over the environment.
func Path(flagValue string, env fs.EnvProvider) (string, bool) {
	if flagValue != "" {
		return flagValue, true
	}
	if v, ok := env.Lookup(EnvFile); ok && v != "" {
		return v, true
	}
	return DefaultFile, false
}

// Load reads the config file at path over the defaults. A missing file is
// an error only if it was named explicitly.
func Load(path string, explicit bool, compiler *validator.Compiler) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if explicit {
				return nil, &MissingConfigError{Path: path}
			}
			return cfg, nil
		}
		return nil, err
	}

	var doc any
	if err = yaml.Unmarshal(data, &doc); err != nil {
		return nil, &InvalidYAMLError{Path: path, Wrapped: err}
	}
	if doc == nil {
		return cfg, nil
	}

	if err = validate(path, doc, compiler); err != nil {
		return nil, err
	}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, &InvalidYAMLError{Path: path, Wrapped: err}
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(path string, doc any, compiler *validator.Compiler) error {
	schema, err := compiler.Compile(SchemaID)
	if err != nil {
		if err = compiler.AddSchema(SchemaID, []byte(Schema)); err != nil {
			return err
		}
		if schema, err = compiler.Compile(SchemaID); err != nil {
			return err
		}
	}

	if err = schema.Validate(doc); err != nil {
		var ve *validator.ValidationError
		if errors.As(err, &ve) {
			return &InvalidConfigError{Path: path, Locations: ve.Locations, Wrapped: err}
		}
		return &InvalidConfigError{Path: path, Wrapped: err}
	}
	return nil
}

// Validate checks the settings that can also come from flags.
func (c *Config) Validate() error {
	if c.Jobs < 0 {
		return &InvalidJobsError{Jobs: c.Jobs}
	}
	if _, err := ParseColourMode(string(c.Colour)); err != nil {
		return err
	}
	return nil
}
