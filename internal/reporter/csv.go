package reporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ppiankov/xlspectre/internal/models"
	"github.com/ppiankov/xlspectre/pkg/config"
)

const (
	// ConnectionsCSVName is the CSV rendition of the connections report.
	ConnectionsCSVName = "connections_report.csv"
	// SummaryCSVName is the CSV rendition of the summary rows.
	SummaryCSVName = "connections_summary.csv"
	// ErrorsCSVName is the error log, written for every format.
	ErrorsCSVName = "connections_errors.csv"
)

// WriteConnectionsCSV writes every connection record as one CSV row.
func WriteConnectionsCSV(report *models.Report, cfg *config.Config) error {
	rows := make([][]string, 0, len(report.Connections)+1)
	rows = append(rows, []string{"folder_name", "file_name", "connection", "database", "table_name", "sql_query", "has_sql", "strategy"})
	for _, rec := range report.Connections {
		rows = append(rows, []string{
			rec.FolderName,
			rec.FileName,
			rec.ConnectionName,
			rec.Database,
			rec.TableName,
			rec.SQLQuery,
			boolCell(rec.HasSQL),
			string(rec.SourceStrategy),
		})
	}
	return writeCSVFile(cfg, ConnectionsCSVName, rows)
}

// WriteSummaryCSV writes the aggregated summary rows.
func WriteSummaryCSV(report *models.Report, cfg *config.Config) error {
	rows := make([][]string, 0, len(report.Summaries)+1)
	rows = append(rows, []string{"group", "total_connections", "with_sql", "without_sql", "distinct_databases"})
	for _, s := range report.Summaries {
		rows = append(rows, []string{
			s.GroupKey,
			strconv.Itoa(s.TotalConnections),
			strconv.Itoa(s.WithSQL),
			strconv.Itoa(s.WithoutSQL),
			strconv.Itoa(s.DistinctDatabases),
		})
	}
	return writeCSVFile(cfg, SummaryCSVName, rows)
}

// WriteErrorsCSV writes the error log with enough context to locate the
// offending workbook.
func WriteErrorsCSV(report *models.Report, cfg *config.Config) error {
	rows := make([][]string, 0, len(report.Errors)+1)
	rows = append(rows, []string{"file_name", "stage", "message"})
	for _, e := range report.Errors {
		rows = append(rows, []string{e.FileName, string(e.Stage), e.Message})
	}
	return writeCSVFile(cfg, ErrorsCSVName, rows)
}

func writeCSVFile(cfg *config.Config, name string, rows [][]string) error {
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	outputPath := filepath.Join(cfg.OutputDir, name)
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", name, err)
	}

	slog.Debug("csv written", slog.String("path", outputPath), slog.Int("rows", len(rows)-1))
	return nil
}
