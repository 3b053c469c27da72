package collector

import (
	"sort"
	"sync"

	"github.com/ppiankov/xlspectre/internal/models"
)

// ErrorCollector accumulates recoverable extraction failures. Appends are
// safe from concurrent workers; no record is ever dropped.
type ErrorCollector struct {
	mu      sync.Mutex
	records []models.ErrorRecord
}

// NewErrorCollector creates an empty collector.
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{}
}

// Add appends one error record.
func (c *ErrorCollector) Add(record models.ErrorRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, record)
}

// AddAll appends a batch of error records.
func (c *ErrorCollector) AddAll(records []models.ErrorRecord) {
	if len(records) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, records...)
}

// Len returns the number of collected records.
func (c *ErrorCollector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

// Records returns a sorted copy (file name, then stage, then message) for
// report output.
func (c *ErrorCollector) Records() []models.ErrorRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.ErrorRecord, len(c.records))
	copy(out, c.records)

	sort.Slice(out, func(i, j int) bool {
		if out[i].FileName != out[j].FileName {
			return out[i].FileName < out[j].FileName
		}
		if out[i].Stage != out[j].Stage {
			return out[i].Stage < out[j].Stage
		}
		return out[i].Message < out[j].Message
	})
	return out
}
