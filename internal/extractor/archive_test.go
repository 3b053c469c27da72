package extractor

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ppiankov/xlspectre/internal/models"
)

const connectionsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<connections xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
  <connection id="1" name="SalesFeed" type="1" refreshedVersion="6">
    <dbPr connection="Provider=SQLOLEDB;Data Source=srv01;Initial Catalog=Sales" command="SELECT * FROM dbo.Orders" commandType="2"/>
  </connection>
  <connection id="2" name="Query - Orders" type="5">
    <dbPr connection="Provider=Microsoft.Mashup.OleDb.1;Data Source=$Workbook$;Location=Orders" command="SELECT * FROM [Orders]"/>
  </connection>
  <connection id="3" name="WebFeed" type="4">
    <webPr url="https://example.com/data"/>
  </connection>
</connections>`

// writeWorkbook creates a minimal xlsx-shaped zip in dir.
func writeWorkbook(t *testing.T, dir, name string, parts map[string]string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create fixture: %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for partName, content := range parts {
		pw, err := w.Create(partName)
		if err != nil {
			t.Fatalf("failed to add part %s: %v", partName, err)
		}
		if _, err := pw.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write part %s: %v", partName, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to finish fixture: %v", err)
	}
	return path
}

func TestArchiveExtractorParsesConnections(t *testing.T) {
	dir := t.TempDir()
	path := writeWorkbook(t, dir, "report.xlsx", map[string]string{
		"[Content_Types].xml": "<Types/>",
		"xl/workbook.xml":     "<workbook/>",
		"xl/connections.xml":  connectionsXML,
	})

	e := NewArchiveExtractor()
	entries, errs := e.ExtractFile(context.Background(), path, "report.xlsx")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	first := entries[0]
	if first.Name != "SalesFeed" {
		t.Fatalf("expected first connection SalesFeed, got %q", first.Name)
	}
	if first.CommandText != "SELECT * FROM dbo.Orders" {
		t.Fatalf("unexpected command text: %q", first.CommandText)
	}
	if first.CommandType != "2" {
		t.Fatalf("unexpected command type: %q", first.CommandType)
	}
	if first.Strategy != models.StrategyArchive {
		t.Fatalf("expected archive strategy, got %q", first.Strategy)
	}

	mashup := entries[1]
	if mashup.ConnectionString != "Provider=Microsoft.Mashup.OleDb.1;Data Source=$Workbook$;Location=Orders" {
		t.Fatalf("connection string not carried through: %q", mashup.ConnectionString)
	}

	web := entries[2]
	if web.Name != "WebFeed" || web.CommandText != "" || web.ConnectionString != "" {
		t.Fatalf("non-DB connection should yield an empty-fields entry, got %+v", web)
	}
}

func TestArchiveExtractorNoConnectionsPart(t *testing.T) {
	dir := t.TempDir()
	path := writeWorkbook(t, dir, "plain.xlsx", map[string]string{
		"[Content_Types].xml": "<Types/>",
		"xl/workbook.xml":     "<workbook/>",
	})

	e := NewArchiveExtractor()
	entries, errs := e.ExtractFile(context.Background(), path, "plain.xlsx")
	if len(entries) != 0 || len(errs) != 0 {
		t.Fatalf("workbook without connections must be valid and empty, got %d entries, %d errors",
			len(entries), len(errs))
	}
}

func TestArchiveExtractorBadZip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.xlsx")
	if err := os.WriteFile(path, []byte("this is not a zip archive"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	e := NewArchiveExtractor()
	entries, errs := e.ExtractFile(context.Background(), path, "broken.xlsx")
	if len(entries) != 0 {
		t.Fatalf("expected no entries from broken archive, got %d", len(entries))
	}
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %d", len(errs))
	}
	if errs[0].Stage != models.StageOpen {
		t.Fatalf("expected stage open, got %q", errs[0].Stage)
	}
	if errs[0].FileName != "broken.xlsx" {
		t.Fatalf("expected file name provenance, got %q", errs[0].FileName)
	}
}

func TestArchiveExtractorMalformedXML(t *testing.T) {
	dir := t.TempDir()
	path := writeWorkbook(t, dir, "mangled.xlsx", map[string]string{
		"xl/connections.xml": "<connections><connection name=></connections>",
	})

	e := NewArchiveExtractor()
	entries, errs := e.ExtractFile(context.Background(), path, "mangled.xlsx")
	if len(entries) != 0 {
		t.Fatalf("expected no entries from malformed xml, got %d", len(entries))
	}
	if len(errs) != 1 || errs[0].Stage != models.StageParse {
		t.Fatalf("expected one parse-stage error, got %+v", errs)
	}
}

func TestArchiveExtractorDeterministicOrder(t *testing.T) {
	dir := t.TempDir()
	path := writeWorkbook(t, dir, "report.xlsx", map[string]string{
		"xl/connections.xml": connectionsXML,
	})

	e := NewArchiveExtractor()
	first, _ := e.ExtractFile(context.Background(), path, "report.xlsx")
	for i := 0; i < 5; i++ {
		again, _ := e.ExtractFile(context.Background(), path, "report.xlsx")
		if len(again) != len(first) {
			t.Fatalf("entry count changed between runs")
		}
		for j := range again {
			if again[j] != first[j] {
				t.Fatalf("entry %d changed between runs: %+v vs %+v", j, again[j], first[j])
			}
		}
	}
}
