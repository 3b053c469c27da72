package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ppiankov/xlspectre/internal/analyzer"
	"github.com/ppiankov/xlspectre/internal/baseline"
	"github.com/ppiankov/xlspectre/internal/collector"
	"github.com/ppiankov/xlspectre/internal/models"
	"github.com/ppiankov/xlspectre/internal/reporter"
	"github.com/ppiankov/xlspectre/pkg/config"
	"github.com/spf13/cobra"
)

// NewScanCmd creates the scan command
func NewScanCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	var configPath string
	var fileTimeoutStr string

	cmd := &cobra.Command{
		Use:   "scan [directory]",
		Short: "Scan workbooks and inventory their data connections",
		Long: `Recursively scan a folder tree for Excel workbooks, extract every embedded
data connection, and generate a connection inventory report.`,
		Args: cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			var fileCfg *config.FileConfig
			var err error

			if configPath != "" {
				fileCfg, err = config.LoadFile(configPath)
				if err != nil {
					return err
				}
			} else {
				fileCfg, _, err = config.AutoLoadFile()
				if err != nil {
					return err
				}
			}

			if err := fileCfg.Apply(cfg, cmd.Flags().Changed); err != nil {
				return err
			}

			if len(args) > 0 && !cmd.Flags().Changed("input") {
				cfg.InputDir = args[0]
			}

			if cmd.Flags().Changed("file-timeout") {
				cfg.FileTimeout, err = config.ParseDuration(fileTimeoutStr)
				if err != nil {
					return fmt.Errorf("invalid --file-timeout duration: %w", err)
				}
			}

			if cfg.InputDir == "" {
				return fmt.Errorf("input directory is required (argument, --input, or config file)")
			}
			if cfg.Strategy != config.StrategyArchive && cfg.Strategy != config.StrategyLive {
				return fmt.Errorf("invalid --strategy value %q (expected %s or %s)",
					cfg.Strategy, config.StrategyArchive, config.StrategyLive)
			}
			if !reporter.ValidFormat(cfg.Format) {
				return fmt.Errorf("invalid --format value %q (expected xlsx, csv, json or text)", cfg.Format)
			}
			if !analyzer.ValidGroupBy(cfg.GroupBy) {
				return fmt.Errorf("invalid --group-by value %q (expected folder, database or folder-database)", cfg.GroupBy)
			}

			cfg.Normalize()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cfg)
		},
	}

	// Input flags
	cmd.Flags().StringVar(&cfg.InputDir, "input", "", "Root directory to scan")
	cmd.Flags().StringVar(&cfg.Strategy, "strategy", cfg.Strategy, "Extraction strategy (archive, live-application)")
	cmd.Flags().StringVar(&fileTimeoutStr, "file-timeout", "2m", "Per-workbook timeout (e.g., 30s, 2m)")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: .xlspectre.yaml)")

	// Concurrency flags
	cmd.Flags().IntVar(&cfg.Concurrency, "concurrency", cfg.Concurrency, "Worker pool size")
	cmd.Flags().IntVar(&cfg.OpenRate, "open-rate", cfg.OpenRate, "Max workbook opens per second (0 = unlimited)")

	// Output flags
	cmd.Flags().StringVar(&cfg.OutputDir, "output", cfg.OutputDir, "Output directory")
	cmd.Flags().StringVar(&cfg.Format, "format", cfg.Format, "Output format (xlsx, csv, json, text)")
	cmd.Flags().StringVar(&cfg.GroupBy, "group-by", cfg.GroupBy, "Summary grouping (folder, database, folder-database)")

	// Filtering flags
	cmd.Flags().StringSliceVar(&cfg.ExcludeFolders, "exclude-folder", nil, "Folder glob to skip (repeatable)")
	cmd.Flags().StringSliceVar(&cfg.ExcludeFiles, "exclude-file", nil, "File glob to skip (repeatable)")
	cmd.Flags().StringSliceVar(&cfg.ExcludeDatabases, "exclude-database", nil, "Database glob to drop from results (repeatable)")

	// Baseline flags
	cmd.Flags().StringVar(&cfg.BaselinePath, "baseline", "", "Baseline file of known connections to suppress")
	cmd.Flags().BoolVar(&cfg.UpdateBaseline, "update-baseline", false, "Record current findings into the baseline file")
	cmd.Flags().BoolVar(&cfg.FailOnFindings, "fail-on-findings", false, "Exit non-zero when SQL connections remain after suppression")

	// Operational flags
	cmd.Flags().BoolVar(&cfg.Verbose, "verbose", false, "Verbose logging")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "Dry run mode (don't write output)")

	return cmd
}

// runScan executes the scan workflow
func runScan(cfg *config.Config) error {
	startTime := time.Now()
	ctx := context.Background()

	slog.Debug("starting scan",
		slog.String("input", cfg.InputDir),
		slog.String("strategy", cfg.Strategy),
		slog.Int("concurrency", cfg.Concurrency),
		slog.String("file_timeout", cfg.FileTimeout.String()),
	)

	// 1. Discover workbooks
	fmt.Println("🔍 Discovering workbooks...")
	files, err := collector.DiscoverFiles(cfg.InputDir, cfg)
	if err != nil {
		return fmt.Errorf("failed to discover workbooks: %w", err)
	}
	fmt.Printf("✓ Found %d workbooks\n", len(files))

	// 2. Extract connections
	col, err := collector.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create collector: %w", err)
	}
	defer col.Close()

	fmt.Printf("📥 Extracting connections (%s strategy)...\n", col.Strategy())
	records, err := col.Collect(ctx, files)
	if err != nil {
		return fmt.Errorf("failed to extract connections: %w", err)
	}
	fmt.Printf("✓ Extracted %d connections (%d file errors)\n", len(records), col.Errors().Len())

	// 3. Build report
	report := buildReport(cfg, files, records, col.Errors().Records(), col.Strategy(), startTime)

	// 4. Apply baseline
	if err := applyBaseline(cfg, report); err != nil {
		return err
	}

	// 5. Aggregate summaries over whatever survived suppression
	report.Summaries = analyzer.Summarize(report.Connections, analyzer.GroupBy(cfg.GroupBy))
	report.Metadata.TotalConnections = len(report.Connections)
	report.Metadata.SQLConnections = baseline.CountFindings(report)

	// 6. Write output
	if !cfg.DryRun {
		fmt.Println("📝 Writing report...")
		rep := reporter.New(cfg)
		if err := rep.Generate(report); err != nil {
			return fmt.Errorf("failed to generate report: %w", err)
		}
		fmt.Printf("✓ Report written to: %s\n", cfg.OutputDir)
	} else {
		fmt.Println("🏃 Dry run mode - skipping output")
	}

	duration := time.Since(startTime)
	fmt.Printf("\n✅ Scan complete in %s!\n", duration.Round(time.Second))
	if !cfg.DryRun && cfg.Format == "json" {
		fmt.Printf("\n📊 View report:\n")
		fmt.Printf("   xlspectre serve %s\n", cfg.OutputDir)
	}

	if cfg.FailOnFindings {
		if findings := baseline.CountFindings(report); findings > 0 {
			return &FindingsError{Count: findings}
		}
	}

	return nil
}

// applyBaseline loads, updates and applies the baseline suppression set.
func applyBaseline(cfg *config.Config, report *models.Report) error {
	if cfg.BaselinePath == "" && !cfg.UpdateBaseline {
		return nil
	}

	path := cfg.BaselinePath
	if path == "" {
		path = baseline.DefaultPath
	}

	known, err := baseline.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load baseline: %w", err)
	}

	if cfg.UpdateBaseline {
		baseline.AddAll(known, baseline.CollectFingerprints(report))
		if err := baseline.Save(path, known); err != nil {
			return fmt.Errorf("failed to save baseline: %w", err)
		}
		fmt.Printf("📌 Baseline updated: %s (%d known connections)\n", path, len(known))
		return nil
	}

	suppressed, remaining := baseline.SuppressKnown(report, known)
	if suppressed > 0 {
		fmt.Printf("📌 Baseline suppressed %d known connections (%d findings remain)\n", suppressed, remaining)
	}
	return nil
}

// buildReport constructs the final report
func buildReport(
	cfg *config.Config,
	files []collector.FileRef,
	records []models.ConnectionRecord,
	errors []models.ErrorRecord,
	strategy models.SourceStrategy,
	startTime time.Time,
) *models.Report {
	generatedAt := time.Now().UTC()

	sqlCount := 0
	for _, rec := range records {
		if rec.HasSQL {
			sqlCount++
		}
	}

	return &models.Report{
		Tool:      "xlspectre",
		Version:   version,
		Timestamp: generatedAt.Format(time.RFC3339),
		Metadata: models.Metadata{
			GeneratedAt:      generatedAt,
			RootDir:          cfg.InputDir,
			Strategy:         strategy,
			FilesScanned:     len(files),
			TotalConnections: len(records),
			SQLConnections:   sqlCount,
			ScanDuration:     time.Since(startTime).Round(time.Millisecond).String(),
			Version:          version,
		},
		Connections: records,
		Errors:      errors,
	}
}
