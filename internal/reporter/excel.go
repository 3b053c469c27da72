package reporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/ppiankov/xlspectre/internal/models"
	"github.com/ppiankov/xlspectre/pkg/config"
)

const (
	// ExcelReportName is the workbook file name of the main report.
	ExcelReportName = "connections_report.xlsx"

	connectionsSheet = "Connections"
	summarySheet     = "Summary"
)

var connectionHeaders = []interface{}{
	"folder_name", "file_name", "connection", "database", "table_name", "sql_query", "has_sql", "strategy",
}

var summaryHeaders = []interface{}{
	"group", "total_connections", "with_sql", "without_sql", "distinct_databases",
}

// WriteExcel writes the connections report and summary as one workbook.
func WriteExcel(report *models.Report, cfg *config.Config) error {
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", connectionsSheet); err != nil {
		return fmt.Errorf("failed to prepare connections sheet: %w", err)
	}
	if err := writeConnectionsSheet(f, report.Connections); err != nil {
		return err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeSummarySheet(f, report.Summaries); err != nil {
		return err
	}

	outputPath := filepath.Join(cfg.OutputDir, ExcelReportName)
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save %s: %w", ExcelReportName, err)
	}

	slog.Debug("excel report written", slog.String("path", outputPath))
	return nil
}

func writeConnectionsSheet(f *excelize.File, records []models.ConnectionRecord) error {
	if err := f.SetSheetRow(connectionsSheet, "A1", &connectionHeaders); err != nil {
		return fmt.Errorf("failed to write connections header: %w", err)
	}

	for i, rec := range records {
		row := []interface{}{
			rec.FolderName,
			rec.FileName,
			rec.ConnectionName,
			rec.Database,
			rec.TableName,
			rec.SQLQuery,
			boolCell(rec.HasSQL),
			string(rec.SourceStrategy),
		}
		cell := "A" + strconv.Itoa(i+2)
		if err := f.SetSheetRow(connectionsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write connections row %d: %w", i+2, err)
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, summaries []models.SummaryRecord) error {
	if err := f.SetSheetRow(summarySheet, "A1", &summaryHeaders); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}

	for i, s := range summaries {
		row := []interface{}{
			s.GroupKey,
			s.TotalConnections,
			s.WithSQL,
			s.WithoutSQL,
			s.DistinctDatabases,
		}
		cell := "A" + strconv.Itoa(i+2)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row %d: %w", i+2, err)
		}
	}
	return nil
}

// boolCell renders the SQL flag the way the report's consumers expect.
func boolCell(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
