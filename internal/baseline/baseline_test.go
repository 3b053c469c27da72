package baseline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ppiankov/xlspectre/internal/models"
)

func TestCollectFingerprintsDeterministic(t *testing.T) {
	reportA := &models.Report{
		Connections: []models.ConnectionRecord{
			{FolderName: "finance", FileName: "q1.xlsx", ConnectionName: "SalesFeed", Database: "Sales", SQLQuery: "SELECT 1", HasSQL: true},
			{FolderName: "finance", FileName: "q1.xlsx", ConnectionName: "PQ - Orders", HasSQL: false},
		},
	}

	reportB := &models.Report{
		Connections: []models.ConnectionRecord{
			// Same connection identity with different command text.
			{FolderName: "finance", FileName: "q1.xlsx", ConnectionName: "SalesFeed", Database: "Sales", SQLQuery: "SELECT 2", HasSQL: true},
			{FolderName: "finance", FileName: "q1.xlsx", ConnectionName: "PQ - Orders", HasSQL: false},
		},
	}

	fingerprintsA := CollectFingerprints(reportA)
	fingerprintsB := CollectFingerprints(reportB)
	if !reflect.DeepEqual(fingerprintsA, fingerprintsB) {
		t.Fatalf("expected deterministic fingerprints, got %v vs %v", fingerprintsA, fingerprintsB)
	}
	if len(fingerprintsA) != 1 {
		t.Fatalf("expected 1 fingerprint for the SQL connection only, got %d", len(fingerprintsA))
	}
}

func TestSuppressKnownFiltersSQLConnections(t *testing.T) {
	report := &models.Report{
		Connections: []models.ConnectionRecord{
			{FolderName: "finance", FileName: "q1.xlsx", ConnectionName: "SalesFeed", Database: "Sales", HasSQL: true},
			{FolderName: "finance", FileName: "q2.xlsx", ConnectionName: "InventoryFeed", Database: "Warehouse", HasSQL: true},
			{FolderName: "finance", FileName: "q1.xlsx", ConnectionName: "PQ - Orders", HasSQL: false},
		},
	}

	known := Set{
		FingerprintConnection(models.ConnectionRecord{
			FolderName: "finance", FileName: "q1.xlsx", ConnectionName: "SalesFeed", Database: "Sales",
		}): {},
	}

	suppressed, remaining := SuppressKnown(report, known)
	if suppressed != 1 {
		t.Fatalf("expected 1 suppressed finding, got %d", suppressed)
	}
	if remaining != 1 {
		t.Fatalf("expected 1 remaining finding, got %d", remaining)
	}

	if len(report.Connections) != 2 {
		t.Fatalf("expected 2 connections after suppression, got %+v", report.Connections)
	}
	if report.Connections[0].ConnectionName != "InventoryFeed" {
		t.Fatalf("unexpected surviving SQL connection: %+v", report.Connections[0])
	}
	if report.Connections[1].ConnectionName != "PQ - Orders" {
		t.Fatalf("expected non-SQL connection to remain untouched, got %+v", report.Connections[1])
	}
}

func TestSuppressKnownEmptySet(t *testing.T) {
	report := &models.Report{
		Connections: []models.ConnectionRecord{
			{FileName: "q1.xlsx", ConnectionName: "SalesFeed", HasSQL: true},
		},
	}

	suppressed, remaining := SuppressKnown(report, Set{})
	if suppressed != 0 || remaining != 1 {
		t.Fatalf("expected (0, 1), got (%d, %d)", suppressed, remaining)
	}
	if len(report.Connections) != 1 {
		t.Fatalf("report must not change with an empty baseline: %+v", report.Connections)
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "baseline.json")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("expected missing baseline file to be allowed, got %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("expected empty set for missing baseline, got %d", len(loaded))
	}

	set := Set{
		"b": {},
		"a": {},
	}
	if err := Save(path, set); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err = Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 fingerprints, got %d", len(loaded))
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read baseline file: %v", err)
	}
	var file File
	if err := json.Unmarshal(raw, &file); err != nil {
		t.Fatalf("failed to unmarshal baseline file: %v", err)
	}
	if file.Version != fileVersion {
		t.Fatalf("expected version %d, got %d", fileVersion, file.Version)
	}
	if !reflect.DeepEqual(file.Fingerprints, []string{"a", "b"}) {
		t.Fatalf("expected sorted fingerprints [a b], got %+v", file.Fingerprints)
	}
}

func TestLoadRejectsUnsupportedVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline.json")
	payload := `{"version":999,"fingerprints":[]}`
	if err := os.WriteFile(path, []byte(payload), 0644); err != nil {
		t.Fatalf("failed to write baseline file: %v", err)
	}

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "unsupported baseline version") {
		t.Fatalf("expected unsupported version error, got %v", err)
	}
}
