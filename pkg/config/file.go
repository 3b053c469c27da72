package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFileYAML is the canonical config filename.
	DefaultConfigFileYAML = ".xlspectre.yaml"
	// DefaultConfigFileYML is a compatible alternate config filename.
	DefaultConfigFileYML = ".xlspectre.yml"
)

// FileConfig represents values loaded from a .xlspectre.yaml file.
// Flags take precedence over file values.
type FileConfig struct {
	InputDir         string   `yaml:"input_dir"`
	OutputDir        string   `yaml:"output_dir"`
	Strategy         string   `yaml:"strategy"`
	Format           string   `yaml:"format"`
	GroupBy          string   `yaml:"group_by"`
	FileTimeout      string   `yaml:"file_timeout"`
	ExcludeFolders   []string `yaml:"exclude_folders"`
	ExcludeFiles     []string `yaml:"exclude_files"`
	ExcludeDatabases []string `yaml:"exclude_databases"`
	Baseline         string   `yaml:"baseline"`
}

// Normalize trims and removes empty items from list fields.
func (fc *FileConfig) Normalize() {
	if fc == nil {
		return
	}
	fc.ExcludeFolders = normalizeList(fc.ExcludeFolders)
	fc.ExcludeFiles = normalizeList(fc.ExcludeFiles)
	fc.ExcludeDatabases = normalizeList(fc.ExcludeDatabases)
	fc.InputDir = strings.TrimSpace(fc.InputDir)
	fc.OutputDir = strings.TrimSpace(fc.OutputDir)
	fc.Strategy = strings.TrimSpace(fc.Strategy)
	fc.Format = strings.TrimSpace(fc.Format)
	fc.GroupBy = strings.TrimSpace(fc.GroupBy)
	fc.FileTimeout = strings.TrimSpace(fc.FileTimeout)
	fc.Baseline = strings.TrimSpace(fc.Baseline)
}

// AutoLoadFile discovers and loads the first available config file.
func AutoLoadFile() (*FileConfig, string, error) {
	candidates := []string{
		DefaultConfigFileYAML,
		DefaultConfigFileYML,
	}

	if homeDir, err := os.UserHomeDir(); err == nil && strings.TrimSpace(homeDir) != "" {
		candidates = append(candidates,
			filepath.Join(homeDir, DefaultConfigFileYAML),
			filepath.Join(homeDir, DefaultConfigFileYML),
		)
	}

	return LoadFirstExistingFile(candidates)
}

// LoadFirstExistingFile loads the first config file that exists in paths.
func LoadFirstExistingFile(paths []string) (*FileConfig, string, error) {
	for _, path := range paths {
		candidate := strings.TrimSpace(path)
		if candidate == "" {
			continue
		}

		info, err := os.Stat(candidate)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, "", fmt.Errorf("failed to access config file %q: %w", candidate, err)
		}
		if info.IsDir() {
			return nil, "", fmt.Errorf("config path %q is a directory, expected a file", candidate)
		}

		cfg, err := LoadFile(candidate)
		if err != nil {
			return nil, "", err
		}
		return cfg, candidate, nil
	}

	return nil, "", nil
}

// LoadFile loads config values from a specific YAML file path.
func LoadFile(path string) (*FileConfig, error) {
	filename := strings.TrimSpace(path)
	if filename == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", filename, err)
	}

	cfg := &FileConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", filename, err)
	}

	cfg.Normalize()
	return cfg, nil
}

// Apply merges file values into cfg for every field the user did not set on
// the command line. The set predicate reports whether a flag was provided.
func (fc *FileConfig) Apply(cfg *Config, set func(name string) bool) error {
	if fc == nil || cfg == nil {
		return nil
	}

	if fc.InputDir != "" && !set("input") {
		cfg.InputDir = fc.InputDir
	}
	if fc.OutputDir != "" && !set("output") {
		cfg.OutputDir = fc.OutputDir
	}
	if fc.Strategy != "" && !set("strategy") {
		cfg.Strategy = fc.Strategy
	}
	if fc.Format != "" && !set("format") {
		cfg.Format = fc.Format
	}
	if fc.GroupBy != "" && !set("group-by") {
		cfg.GroupBy = fc.GroupBy
	}
	if fc.Baseline != "" && !set("baseline") {
		cfg.BaselinePath = fc.Baseline
	}
	if fc.FileTimeout != "" && !set("file-timeout") {
		timeout, err := ParseDuration(fc.FileTimeout)
		if err != nil {
			return fmt.Errorf("invalid file_timeout in config file: %w", err)
		}
		cfg.FileTimeout = timeout
	}
	if len(fc.ExcludeFolders) > 0 && !set("exclude-folder") {
		cfg.ExcludeFolders = fc.ExcludeFolders
	}
	if len(fc.ExcludeFiles) > 0 && !set("exclude-file") {
		cfg.ExcludeFiles = fc.ExcludeFiles
	}
	if len(fc.ExcludeDatabases) > 0 && !set("exclude-database") {
		cfg.ExcludeDatabases = fc.ExcludeDatabases
	}

	return nil
}

func normalizeList(values []string) []string {
	if len(values) == 0 {
		return []string{}
	}

	normalized := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		normalized = append(normalized, trimmed)
	}
	return normalized
}
