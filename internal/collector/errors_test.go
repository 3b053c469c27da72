package collector

import (
	"fmt"
	"sync"
	"testing"

	"github.com/ppiankov/xlspectre/internal/models"
)

func TestErrorCollectorConcurrentAppend(t *testing.T) {
	ec := NewErrorCollector()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				ec.Add(models.ErrorRecord{
					FileName: fmt.Sprintf("file_%02d.xlsx", n),
					Stage:    models.StageParse,
					Message:  fmt.Sprintf("failure %d", j),
				})
			}
		}(i)
	}
	wg.Wait()

	if ec.Len() != 1000 {
		t.Fatalf("expected 1000 records, got %d", ec.Len())
	}
}

func TestErrorCollectorSortedDump(t *testing.T) {
	ec := NewErrorCollector()
	ec.Add(models.ErrorRecord{FileName: "b.xlsx", Stage: models.StageOpen, Message: "m"})
	ec.Add(models.ErrorRecord{FileName: "a.xlsx", Stage: models.StageParse, Message: "m"})
	ec.Add(models.ErrorRecord{FileName: "a.xlsx", Stage: models.StageOpen, Message: "m"})

	records := ec.Records()
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].FileName != "a.xlsx" || records[0].Stage != models.StageOpen {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if records[2].FileName != "b.xlsx" {
		t.Fatalf("unexpected last record: %+v", records[2])
	}

	// Dump is a copy; mutating it must not affect the collector.
	records[0].FileName = "mutated"
	if ec.Records()[0].FileName != "a.xlsx" {
		t.Fatalf("Records must return a copy")
	}
}

func TestErrorCollectorAddAll(t *testing.T) {
	ec := NewErrorCollector()
	ec.AddAll(nil)
	ec.AddAll([]models.ErrorRecord{
		{FileName: "x.xlsx", Stage: models.StageOpen, Message: "one"},
		{FileName: "x.xlsx", Stage: models.StageConnectionRead, Message: "two"},
	})
	if ec.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", ec.Len())
	}
}
