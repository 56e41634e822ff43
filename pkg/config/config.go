// Package config loads the sfgen configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"sfgen/pkg/utils"
)

// ConfigFileName is the name of the sfgen configuration file
const ConfigFileName = ".sfgen.yaml"

// Config holds all sfgen configuration
type Config struct {
	Scan    ScanConfig    `json:"scan" yaml:"scan"`
	Coerce  CoerceConfig  `json:"coerce" yaml:"coerce"`
	Headers HeadersConfig `json:"headers" yaml:"headers"`
	Output  OutputConfig  `json:"output" yaml:"output"`
}

// ScanConfig holds configuration for the test macro scanner
type ScanConfig struct {
	Macro string `json:"macro" yaml:"macro"`
}

// CoerceConfig lists the declared types that decide literal coercion
type CoerceConfig struct {
	FloatTypes []string `json:"float_types" yaml:"float_types"`
	IntTypes   []string `json:"int_types" yaml:"int_types"`
}

// HeadersConfig holds configuration for header discovery
type HeadersConfig struct {
	ExcludeTypes []string `json:"exclude_types" yaml:"exclude_types"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	Format string `json:"format" yaml:"format"`
}

// ErrConfigNotFound is returned when no config file can be found
var ErrConfigNotFound = errors.New("config file not found")

// ErrInvalidConfig is returned when config validation fails
var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads the nearest .sfgen.yaml found by walking up from workDir.
// If there is none, the defaults are returned.
func Load(workDir string) (*Config, error) {
	path, err := FindConfigFile(workDir)
	if err != nil {
		if errors.Is(err, ErrConfigNotFound) {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads config from a specific path.
// Merges loaded config with defaults and validates the result.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	loaded := &Config{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	merged := Merge(loaded, DefaultConfig())

	if err := Validate(merged); err != nil {
		return nil, err
	}

	return merged, nil
}

// FindConfigFile locates .sfgen.yaml by walking up from startDir.
func FindConfigFile(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	currentDir := absDir
	for {
		path := filepath.Join(currentDir, ConfigFileName)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", ErrConfigNotFound
		}
		currentDir = parentDir
	}
}

// Validate checks that config values are valid.
func Validate(cfg *Config) error {
	if !IsValidFormat(cfg.Output.Format) {
		return fmt.Errorf("%w: output.format must be one of %v, got %q",
			ErrInvalidConfig, ValidFormats, cfg.Output.Format)
	}

	if !utils.IsValidIdentifier(cfg.Scan.Macro) {
		return fmt.Errorf("%w: scan.macro must be a C identifier, got %q",
			ErrInvalidConfig, cfg.Scan.Macro)
	}

	float := make(map[string]bool, len(cfg.Coerce.FloatTypes))
	for _, t := range cfg.Coerce.FloatTypes {
		float[t] = true
	}
	for _, t := range cfg.Coerce.IntTypes {
		if float[t] {
			return fmt.Errorf("%w: type %q is listed in both float_types and int_types",
				ErrInvalidConfig, t)
		}
	}

	return nil
}

// SaveDefault writes the default configuration to .sfgen.yaml in workDir.
func SaveDefault(workDir string) (string, error) {
	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	configPath := filepath.Join(absDir, ConfigFileName)

	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists: %s", configPath)
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}

	header := "# sfgen configuration\n\n"
	data = append([]byte(header), data...)

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}

	return configPath, nil
}
