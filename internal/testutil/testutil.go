// Package testutil provides helper functions for testing qgrade components
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// DependencyHeader is the header of a dependency export
const DependencyHeader = "From File,To File,References"

// MetricHeader is the header of a metric export
const MetricHeader = "Kind,Name,File,AvgCyclomatic,CountLineCode,MaxCyclomatic,RatioCommentToCode,CountDeclFunction"

// WriteFile writes content under dir, creating parent directories, and
// returns the full path
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

// WriteExport writes a header and rows as a comma separated export
func WriteExport(t *testing.T, dir, name, header string, rows ...string) string {
	t.Helper()
	lines := append([]string{header}, rows...)
	return WriteFile(t, dir, name, strings.Join(lines, "\n")+"\n")
}

// FileRow formats a file-level metric row. Empty strings leave cells blank.
func FileRow(file, avg, loc, max, ratio, funcs string) string {
	return strings.Join([]string{"File", file, file, avg, loc, max, ratio, funcs}, ",")
}

// EdgeRow formats a dependency row
func EdgeRow(from, to, refs string) string {
	return strings.Join([]string{from, to, refs}, ",")
}

// WriteSource writes a project file whose first line is firstLine
func WriteSource(t *testing.T, root, file, firstLine string) string {
	t.Helper()
	return WriteFile(t, root, file, firstLine+"\nfn main() {}\n")
}
