package service

import (
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/ludo-technologies/qgrade/domain"
)

// ExclusionFilter drops export rows whose file matches a gitignore pattern
type ExclusionFilter struct {
	matcher *ignore.GitIgnore
}

// NewExclusionFilter compiles patterns; blank patterns are skipped and an
// empty list yields a filter that keeps everything
func NewExclusionFilter(patterns []string) *ExclusionFilter {
	lines := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p = strings.TrimSpace(p); p != "" {
			lines = append(lines, p)
		}
	}
	if len(lines) == 0 {
		return &ExclusionFilter{}
	}
	return &ExclusionFilter{matcher: ignore.CompileIgnoreLines(lines...)}
}

// Excludes reports whether file matches any pattern
func (f *ExclusionFilter) Excludes(file domain.FileID) bool {
	if f.matcher == nil {
		return false
	}
	return f.matcher.MatchesPath(string(file))
}

// Apply returns a copy of export without excluded rows and the number of rows
// dropped. Edges go with their source file; records without a file are kept.
func (f *ExclusionFilter) Apply(export *domain.MetricExport) (*domain.MetricExport, int) {
	if f.matcher == nil || export == nil {
		return export, 0
	}

	kept := &domain.MetricExport{
		Edges:   make([]domain.DependencyEdge, 0, len(export.Edges)),
		Records: make([]domain.MetricRecord, 0, len(export.Records)),
	}
	dropped := 0

	for _, edge := range export.Edges {
		if f.Excludes(edge.From) {
			dropped++
			continue
		}
		kept.Edges = append(kept.Edges, edge)
	}
	for _, record := range export.Records {
		if record.File != nil && f.Excludes(*record.File) {
			dropped++
			continue
		}
		kept.Records = append(kept.Records, record)
	}

	return kept, dropped
}
