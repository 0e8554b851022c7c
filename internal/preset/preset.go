package preset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/blang/semver"
	"gopkg.in/yaml.v3"

	"github.com/autobrr/mksha1/internal/utils"
)

// Config represents the YAML configuration for hashing presets
type Config struct {
	Version int `yaml:"version"`
	// Requires is an optional semver range the running mksha1 must satisfy,
	// e.g. ">=0.3.0 <1.0.0"
	Requires string             `yaml:"requires"`
	Default  *Options           `yaml:"default"`
	Presets  map[string]Options `yaml:"presets"`
}

// Options represents the options for a single preset
type Options struct {
	Format    string   `yaml:"format"`
	Workers   int      `yaml:"workers"`
	ChunkSize string   `yaml:"chunk_size"`
	Readahead string   `yaml:"readahead"`
	Include   []string `yaml:"include"`
	Exclude   []string `yaml:"exclude"`
	Quiet     *bool    `yaml:"quiet"`
	Verbose   *bool    `yaml:"verbose"`
}

// FindPresetFile searches for a preset file in known locations
func FindPresetFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("could not find preset file %q: %w", explicitPath, err)
		}
		return explicitPath, nil
	}

	// check known locations in order
	locations := []string{
		"presets.yaml", // current directory
	}

	// add user home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations,
			filepath.Join(home, ".config", "mksha1", "presets.yaml"), // ~/.config/mksha1/
			filepath.Join(home, ".mksha1", "presets.yaml"),           // ~/.mksha1/
		)
	}

	// find first existing preset file
	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc, nil
		}
	}

	return "", fmt.Errorf("could not find preset file in known locations")
}

// Load loads presets from a config file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("could not read preset config: %w", err)
	}

	return Parse(data)
}

// Parse decodes and validates a preset config
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("could not parse preset config: %w", err)
	}

	if config.Version != 1 {
		return nil, fmt.Errorf("unsupported preset config version: %d", config.Version)
	}

	if len(config.Presets) == 0 {
		return nil, fmt.Errorf("no presets defined in config")
	}

	if config.Requires != "" {
		if _, err := semver.ParseRange(config.Requires); err != nil {
			return nil, fmt.Errorf("invalid requires range %q: %w", config.Requires, err)
		}
	}

	if config.Default != nil {
		if err := config.Default.validate(); err != nil {
			return nil, fmt.Errorf("default: %w", err)
		}
	}
	for name, opts := range config.Presets {
		if err := opts.validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
	}

	return &config, nil
}

// CheckVersion reports whether version satisfies the requires range. Builds
// without a semantic version (dev builds) always pass.
func (c *Config) CheckVersion(version string) error {
	if c.Requires == "" {
		return nil
	}

	v, err := semver.ParseTolerant(version)
	if err != nil {
		return nil
	}

	inRange, err := semver.ParseRange(c.Requires)
	if err != nil {
		return fmt.Errorf("invalid requires range %q: %w", c.Requires, err)
	}
	if !inRange(v) {
		return fmt.Errorf("preset config requires mksha1 %s, running %s", c.Requires, v)
	}
	return nil
}

// GetPreset returns a preset by name, merged with default settings
func (c *Config) GetPreset(name string) (*Options, error) {
	preset, ok := c.Presets[name]
	if !ok {
		return nil, fmt.Errorf("preset %q not found", name)
	}

	// if no defaults, just return the preset
	if c.Default == nil {
		return &preset, nil
	}

	merged := *c.Default // create a copy of defaults

	// override defaults with preset-specific values
	if preset.Format != "" {
		merged.Format = preset.Format
	}
	if preset.Workers != 0 {
		merged.Workers = preset.Workers
	}
	if preset.ChunkSize != "" {
		merged.ChunkSize = preset.ChunkSize
	}
	if preset.Readahead != "" {
		merged.Readahead = preset.Readahead
	}
	if len(preset.Include) > 0 {
		merged.Include = preset.Include
	}
	if len(preset.Exclude) > 0 {
		merged.Exclude = preset.Exclude
	}
	if preset.Quiet != nil {
		merged.Quiet = preset.Quiet
	}
	if preset.Verbose != nil {
		merged.Verbose = preset.Verbose
	}

	return &merged, nil
}

// ChunkBytes returns the parsed chunk size, or 0 when unset
func (o *Options) ChunkBytes() (int, error) {
	if o.ChunkSize == "" {
		return 0, nil
	}
	return utils.ParseSize(o.ChunkSize)
}

// ReadaheadBytes returns the parsed read-ahead buffer size, or 0 when unset
func (o *Options) ReadaheadBytes() (int, error) {
	if o.Readahead == "" {
		return 0, nil
	}
	return utils.ParseSize(o.Readahead)
}

func (o *Options) validate() error {
	switch o.Format {
	case "", "hex", "base64", "raw", "json":
	default:
		return fmt.Errorf("unknown format %q", o.Format)
	}
	if o.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	if _, err := o.ChunkBytes(); err != nil {
		return fmt.Errorf("chunk_size: %w", err)
	}
	if _, err := o.ReadaheadBytes(); err != nil {
		return fmt.Errorf("readahead: %w", err)
	}
	return nil
}
