package config

import "time"

// Strategy names accepted by --strategy.
const (
	StrategyArchive = "archive"
	StrategyLive    = "live-application"
)

// Config holds all runtime configuration
type Config struct {
	// Scan settings
	InputDir    string
	Strategy    string
	FileTimeout time.Duration

	// Concurrency settings
	Concurrency int
	OpenRate    int

	// Output settings
	OutputDir string
	Format    string
	GroupBy   string

	// Filtering
	ExcludeFolders   []string
	ExcludeFiles     []string
	ExcludeDatabases []string

	// Baseline settings
	BaselinePath   string
	UpdateBaseline bool
	FailOnFindings bool

	// Server settings
	ServerPort int

	// Operational flags
	Verbose bool
	DryRun  bool
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Strategy:         StrategyArchive,
		FileTimeout:      2 * time.Minute,
		Concurrency:      5,
		OpenRate:         20,
		OutputDir:        "./report",
		Format:           "xlsx",
		GroupBy:          "folder",
		ExcludeFolders:   []string{},
		ExcludeFiles:     []string{},
		ExcludeDatabases: []string{},
		ServerPort:       8080,
		Verbose:          false,
		DryRun:           false,
	}
}
