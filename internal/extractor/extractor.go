// Package extractor implements the two workbook connection extraction
// strategies: static archive introspection and live Excel automation.
package extractor

import (
	"context"
	"fmt"

	"github.com/ppiankov/xlspectre/internal/models"
	"github.com/ppiankov/xlspectre/pkg/config"
)

// Extractor produces raw connection entries for a single workbook file.
// Failures at file or connection granularity come back as ErrorRecords;
// extraction never aborts the surrounding scan.
type Extractor interface {
	// Name identifies the strategy for record provenance.
	Name() models.SourceStrategy

	// ExtractFile opens the workbook at path and returns its raw connection
	// entries. A workbook without connections yields (nil, nil). The fileName
	// is used for ErrorRecord provenance.
	ExtractFile(ctx context.Context, path, fileName string) ([]models.RawConnection, []models.ErrorRecord)

	// Close releases strategy resources. For the live strategy this quits
	// the shared Excel instance; for the archive strategy it is a no-op.
	Close() error
}

// New selects the extraction strategy configured for this run.
func New(cfg *config.Config) (Extractor, error) {
	switch models.SourceStrategy(cfg.Strategy) {
	case models.StrategyArchive, "":
		return NewArchiveExtractor(), nil
	case models.StrategyLive:
		return newLiveExtractor(cfg)
	default:
		return nil, fmt.Errorf("unknown strategy %q (expected %q or %q)",
			cfg.Strategy, models.StrategyArchive, models.StrategyLive)
	}
}
