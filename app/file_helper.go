package app

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileHelper resolves export sources given on the command line or in config
type FileHelper struct{}

// NewFileHelper creates a new FileHelper
func NewFileHelper() *FileHelper {
	return &FileHelper{}
}

// CollectExportFiles expands directories into the export files they contain.
// Files and URLs are kept as given; order of the arguments is preserved and
// files found inside a directory are sorted by name.
func (h *FileHelper) CollectExportFiles(sources []string) ([]string, error) {
	var files []string

	for _, source := range sources {
		if IsRemoteSource(source) {
			files = append(files, source)
			continue
		}

		info, err := os.Stat(source)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, source)
			continue
		}

		entries, err := os.ReadDir(source)
		if err != nil {
			return nil, err
		}
		var found []string
		for _, entry := range entries {
			if entry.IsDir() || !h.IsExportFile(entry.Name()) {
				continue
			}
			found = append(found, filepath.Join(source, entry.Name()))
		}
		sort.Strings(found)
		files = append(files, found...)
	}

	return files, nil
}

// IsExportFile checks if a file looks like a delimited metrics export
func (h *FileHelper) IsExportFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".csv" || ext == ".tsv" || ext == ".txt"
}

// FileExists checks if a regular file exists
func (h *FileHelper) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// IsRemoteSource reports whether source is a URL handled by the storage layer
func IsRemoteSource(source string) bool {
	return strings.Contains(source, "://")
}
