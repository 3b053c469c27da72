// Package reporter renders the scan results as xlsx, csv, json, or text.
package reporter

import (
	"fmt"

	"github.com/ppiankov/xlspectre/internal/models"
	"github.com/ppiankov/xlspectre/pkg/config"
)

// Reporter interface for generating reports
type Reporter interface {
	Generate(report *models.Report) error
}

// reporter implements the Reporter interface
type reporter struct {
	config *config.Config
}

// New creates a new reporter instance
func New(cfg *config.Config) Reporter {
	return &reporter{
		config: cfg,
	}
}

// ValidFormat reports whether value names a supported output format.
func ValidFormat(value string) bool {
	switch value {
	case "xlsx", "csv", "json", "text":
		return true
	}
	return false
}

// Generate writes the main report in the configured format. The error log
// is always written as CSV alongside, whatever the main format, so failures
// stay visible even when the main report is a workbook.
func (r *reporter) Generate(report *models.Report) error {
	switch r.config.Format {
	case "xlsx", "":
		if err := WriteExcel(report, r.config); err != nil {
			return err
		}
	case "csv":
		if err := WriteConnectionsCSV(report, r.config); err != nil {
			return err
		}
		if err := WriteSummaryCSV(report, r.config); err != nil {
			return err
		}
	case "json":
		if err := WriteJSON(report, r.config); err != nil {
			return err
		}
	case "text":
		if err := WriteText(report, r.config); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown output format %q", r.config.Format)
	}

	return WriteErrorsCSV(report, r.config)
}
