package reporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/xlspectre/internal/models"
	"github.com/ppiankov/xlspectre/pkg/config"
)

const (
	// TextReportName is the plain text rendition of the report.
	TextReportName = "report.txt"

	textANSIReset = "\x1b[0m"
	textANSIBold  = "\x1b[1m"
)

// WriteText writes a human-readable text report to report.txt and stdout.
func WriteText(report *models.Report, cfg *config.Config) error {
	return writeText(report, cfg, os.Stdout)
}

func writeText(report *models.Report, cfg *config.Config, out io.Writer) error {
	if report == nil {
		return fmt.Errorf("report is nil")
	}
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if out == nil {
		return fmt.Errorf("writer is nil")
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rendered := renderTextReport(report, supportsANSI(out))
	outputPath := filepath.Join(cfg.OutputDir, TextReportName)

	if err := os.WriteFile(outputPath, []byte(rendered), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", TextReportName, err)
	}

	if _, err := io.WriteString(out, rendered); err != nil {
		return fmt.Errorf("failed to write text report to output: %w", err)
	}

	return nil
}

func renderTextReport(report *models.Report, useANSI bool) string {
	var b strings.Builder

	generatedAt := strings.TrimSpace(report.Timestamp)
	if generatedAt == "" {
		if !report.Metadata.GeneratedAt.IsZero() {
			generatedAt = report.Metadata.GeneratedAt.UTC().Format(time.RFC3339)
		} else {
			generatedAt = "unknown"
		}
	}

	writeTextSectionHeader(&b, "xlspectre Connection Inventory", useANSI)
	fmt.Fprintf(&b, "Generated: %s\n", generatedAt)
	fmt.Fprintf(&b, "Root: %s\n", report.Metadata.RootDir)
	fmt.Fprintf(&b, "Strategy: %s\n", report.Metadata.Strategy)
	fmt.Fprintf(&b, "Files scanned: %d\n", report.Metadata.FilesScanned)
	b.WriteString("\n")

	writeTextSectionHeader(&b, "Summary", useANSI)
	fmt.Fprintf(&b, "Total connections: %d\n", len(report.Connections))
	fmt.Fprintf(&b, "SQL connections: %d\n", countSQL(report.Connections))
	fmt.Fprintf(&b, "Extraction errors: %d\n", len(report.Errors))
	b.WriteString("\n")

	writeTextSectionHeader(&b, "Connections By Group", useANSI)
	if len(report.Summaries) == 0 {
		b.WriteString("No connections found.\n")
	} else {
		b.WriteString("GROUP                                        TOTAL   SQL   NO-SQL  DATABASES\n")
		b.WriteString("--------------------------------------------------------------------------\n")
		for _, s := range report.Summaries {
			fmt.Fprintf(&b, "%-44s %-7d %-5d %-7d %d\n",
				truncateTextValue(groupLabel(s), 44),
				s.TotalConnections,
				s.WithSQL,
				s.WithoutSQL,
				s.DistinctDatabases,
			)
		}
	}
	b.WriteString("\n")

	writeTextSectionHeader(&b, "SQL Connections", useANSI)
	sqlRecords := filterSQL(report.Connections)
	if len(sqlRecords) == 0 {
		b.WriteString("No external SQL connections detected.\n")
	} else {
		b.WriteString("FILE                                 CONNECTION             DATABASE       TABLE\n")
		b.WriteString("--------------------------------------------------------------------------------\n")
		for _, rec := range sqlRecords {
			fmt.Fprintf(&b, "%-36s %-22s %-14s %s\n",
				truncateTextValue(rec.FileName, 36),
				truncateTextValue(rec.ConnectionName, 22),
				truncateTextValue(rec.Database, 14),
				truncateTextValue(rec.TableName, 24),
			)
		}
	}
	b.WriteString("\n")

	if len(report.Errors) > 0 {
		writeTextSectionHeader(&b, "Errors", useANSI)
		for _, e := range report.Errors {
			fmt.Fprintf(&b, "%s [%s] %s\n", e.FileName, e.Stage, truncateTextValue(e.Message, 100))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func writeTextSectionHeader(b *strings.Builder, title string, useANSI bool) {
	if useANSI {
		b.WriteString(textANSIBold)
	}
	b.WriteString(title)
	if useANSI {
		b.WriteString(textANSIReset)
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", len(title)))
	b.WriteString("\n")
}

func groupLabel(s models.SummaryRecord) string {
	if s.GroupKey == "" {
		return "(none)"
	}
	return s.GroupKey
}

func countSQL(records []models.ConnectionRecord) int {
	count := 0
	for _, rec := range records {
		if rec.HasSQL {
			count++
		}
	}
	return count
}

func filterSQL(records []models.ConnectionRecord) []models.ConnectionRecord {
	var out []models.ConnectionRecord
	for _, rec := range records {
		if rec.HasSQL {
			out = append(out, rec)
		}
	}
	return out
}

func truncateTextValue(value string, max int) string {
	if max <= 3 || len(value) <= max {
		return value
	}
	return value[:max-3] + "..."
}

func supportsANSI(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	if f != os.Stdout && f != os.Stderr {
		return false
	}

	term := strings.TrimSpace(os.Getenv("TERM"))
	if term == "" || strings.EqualFold(term, "dumb") {
		return false
	}

	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
