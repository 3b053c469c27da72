// Package collector orchestrates the scan: file discovery, bounded
// concurrency, per-file timeouts, and error collection.
package collector

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/ppiankov/xlspectre/internal/analyzer"
	"github.com/ppiankov/xlspectre/internal/extractor"
	"github.com/ppiankov/xlspectre/internal/models"
	"github.com/ppiankov/xlspectre/pkg/config"
)

// Collector runs the configured extraction strategy over a set of workbooks.
type Collector struct {
	config    *config.Config
	extractor extractor.Extractor
	limiter   *RateLimiter
	errors    *ErrorCollector
}

// New creates a collector with the strategy selected in cfg.
func New(cfg *config.Config) (*Collector, error) {
	ext, err := extractor.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create extractor: %w", err)
	}

	return &Collector{
		config:    cfg,
		extractor: ext,
		limiter:   NewRateLimiter(cfg.OpenRate),
		errors:    NewErrorCollector(),
	}, nil
}

// Strategy returns the active extraction strategy.
func (c *Collector) Strategy() models.SourceStrategy {
	return c.extractor.Name()
}

// Errors returns the error collector.
func (c *Collector) Errors() *ErrorCollector {
	return c.errors
}

// Close releases the underlying extraction strategy.
func (c *Collector) Close() error {
	return c.extractor.Close()
}

// Collect processes every file and returns the classified records in a
// deterministic order (by path, then by position within the workbook).
// Recoverable failures land in the error collector; only a cancelled
// context surfaces as an error.
func (c *Collector) Collect(ctx context.Context, files []FileRef) ([]models.ConnectionRecord, error) {
	workers := c.config.Concurrency
	if c.extractor.Name() == models.StrategyLive && workers != 1 {
		// Excel automation is not safely parallelizable; one shared
		// instance, one file at a time.
		slog.Debug("live strategy active, serializing file processing")
		workers = 1
	}

	pool := NewWorkerPool(workers, c.processFile)
	pool.Start(ctx)

	go func() {
		for _, file := range files {
			if !pool.Submit(file) {
				break
			}
		}
		pool.Stop()
	}()

	resultsByPath := make(map[string]fileResult, len(files))
	for result := range pool.Results() {
		resultsByPath[result.file.Path] = result
		c.errors.AddAll(result.errors)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(resultsByPath))
	for path := range resultsByPath {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var records []models.ConnectionRecord
	for _, path := range paths {
		records = append(records, resultsByPath[path].records...)
	}

	slog.Debug("collection finished",
		slog.Int("files", len(files)),
		slog.Int("records", len(records)),
		slog.Int("errors", c.errors.Len()),
	)
	return records, nil
}

// processFile extracts and normalizes one workbook under the per-file
// timeout. A timeout is recorded as an open failure; in-flight extraction
// runs to completion in the background.
func (c *Collector) processFile(ctx context.Context, file FileRef) fileResult {
	result := fileResult{file: file}

	if err := c.limiter.Wait(ctx); err != nil {
		result.errors = append(result.errors, models.ErrorRecord{
			FileName: file.Name,
			Stage:    models.StageOpen,
			Message:  err.Error(),
		})
		return result
	}

	fileCtx := ctx
	cancel := context.CancelFunc(func() {})
	if c.config.FileTimeout > 0 {
		fileCtx, cancel = context.WithTimeout(ctx, c.config.FileTimeout)
	}
	defer cancel()

	type extraction struct {
		entries []models.RawConnection
		errs    []models.ErrorRecord
	}
	done := make(chan extraction, 1)
	go func() {
		entries, errs := c.extractor.ExtractFile(fileCtx, file.Path, file.Name)
		done <- extraction{entries: entries, errs: errs}
	}()

	var ext extraction
	select {
	case <-fileCtx.Done():
		result.errors = append(result.errors, models.ErrorRecord{
			FileName: file.Name,
			Stage:    models.StageOpen,
			Message:  fmt.Sprintf("extraction timed out: %v", fileCtx.Err()),
		})
		return result
	case ext = <-done:
	}

	result.errors = append(result.errors, ext.errs...)

	for _, raw := range ext.entries {
		record := analyzer.Normalize(file.Folder, file.Name, raw)
		if c.config.IsDatabaseExcluded(record.Database) {
			continue
		}
		result.records = append(result.records, record)
	}

	slog.Debug("file processed",
		slog.String("file", file.Name),
		slog.Int("connections", len(result.records)),
		slog.Int("errors", len(ext.errs)),
	)
	return result
}
