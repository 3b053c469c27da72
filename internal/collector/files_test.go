package collector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ppiankov/xlspectre/pkg/config"
)

func touch(t *testing.T, root string, parts ...string) {
	t.Helper()
	path := filepath.Join(append([]string{root}, parts...)...)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
}

func TestDiscoverFiles(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "top.xlsx")
	touch(t, root, "finance", "2024", "q1.xlsx")
	touch(t, root, "finance", "2024", "q1.XLSX")
	touch(t, root, "finance", "notes.txt")
	touch(t, root, "finance", "~$q1.xlsx")
	touch(t, root, "ops", "stock.xlsx")

	files, err := DiscoverFiles(root, config.DefaultConfig())
	if err != nil {
		t.Fatalf("DiscoverFiles failed: %v", err)
	}

	if len(files) != 4 {
		t.Fatalf("expected 4 workbooks, got %d: %+v", len(files), files)
	}

	if files[0].Folder != "finance/2024" || files[0].Name != "q1.XLSX" {
		t.Fatalf("unexpected first file: %+v", files[0])
	}

	var top *FileRef
	for i := range files {
		if files[i].Name == "top.xlsx" {
			top = &files[i]
		}
	}
	if top == nil {
		t.Fatalf("top.xlsx not discovered")
	}
	if top.Folder != "." {
		t.Fatalf("root-level file folder must be '.', got %q", top.Folder)
	}
}

func TestDiscoverFilesExcludes(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "keep", "a.xlsx")
	touch(t, root, "archive", "old.xlsx")
	touch(t, root, "keep", "draft_b.xlsx")

	cfg := config.DefaultConfig()
	cfg.ExcludeFolders = []string{"archive"}
	cfg.ExcludeFiles = []string{"draft_*"}
	cfg.Normalize()

	files, err := DiscoverFiles(root, cfg)
	if err != nil {
		t.Fatalf("DiscoverFiles failed: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected 1 workbook after excludes, got %d: %+v", len(files), files)
	}
	if files[0].Name != "a.xlsx" {
		t.Fatalf("unexpected survivor: %+v", files[0])
	}
}

func TestDiscoverFilesMissingRoot(t *testing.T) {
	_, err := DiscoverFiles(filepath.Join(t.TempDir(), "nope"), config.DefaultConfig())
	if err == nil {
		t.Fatalf("expected error for missing root")
	}
}
