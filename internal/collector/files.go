package collector

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/ppiankov/xlspectre/pkg/config"
)

// FileRef locates one workbook discovered under the scan root.
type FileRef struct {
	Folder string // directory relative to the scan root, "." for the root itself
	Name   string // base file name
	Path   string // absolute path
}

// DiscoverFiles walks root and returns every .xlsx workbook, in lexical
// order. Excel owner temp files (~$ prefix) and excluded folders/files are
// skipped. Aggregate results must not depend on this order; it is sorted
// only so repeated scans behave identically.
func DiscoverFiles(root string, cfg *config.Config) ([]FileRef, error) {
	var files []FileRef

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			rel, relErr := filepath.Rel(root, path)
			if relErr == nil && rel != "." && cfg.IsFolderExcluded(filepath.ToSlash(rel)) {
				return filepath.SkipDir
			}
			return nil
		}

		name := d.Name()
		if !strings.EqualFold(filepath.Ext(name), ".xlsx") {
			return nil
		}
		// Files Excel leaves behind while a workbook is open.
		if strings.HasPrefix(name, "~$") {
			return nil
		}
		if cfg.IsFileExcluded(name) {
			return nil
		}

		folder, relErr := filepath.Rel(root, filepath.Dir(path))
		if relErr != nil {
			folder = filepath.Dir(path)
		}

		files = append(files, FileRef{
			Folder: filepath.ToSlash(folder),
			Name:   name,
			Path:   path,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	return files, nil
}
