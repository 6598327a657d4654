package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/viant/afs"

	"github.com/ludo-technologies/qgrade/domain"
)

// Source is one export read from storage
type Source struct {
	URL     string
	Content []byte
}

// ExportLoader reads exports through afs so sources may be local paths or
// any afs-supported URL
type ExportLoader struct {
	fs     afs.Service
	parser *ExportParser
}

// NewExportLoader creates a loader backed by the default afs service
func NewExportLoader(options Options) *ExportLoader {
	return &ExportLoader{
		fs:     afs.New(),
		parser: NewExportParser(options),
	}
}

// Load reads every URL and concatenates their rows in argument order.
// The raw bytes are returned alongside so callers can fingerprint the input.
func (l *ExportLoader) Load(ctx context.Context, urls ...string) (*domain.MetricExport, []Source, error) {
	if len(urls) == 0 {
		return nil, nil, domain.NewInvalidInputError("no export sources given", nil)
	}

	export := &domain.MetricExport{
		Edges:   []domain.DependencyEdge{},
		Records: []domain.MetricRecord{},
	}
	sources := make([]Source, 0, len(urls))

	for _, url := range urls {
		exists, err := l.fs.Exists(ctx, url)
		if err != nil {
			return nil, nil, domain.NewFileNotFoundError(url, err)
		}
		if !exists {
			return nil, nil, domain.NewFileNotFoundError(url, nil)
		}

		content, err := l.fs.DownloadWithURL(ctx, url)
		if err != nil {
			return nil, nil, domain.NewInvalidInputError(fmt.Sprintf("failed to read %s", url), err)
		}

		part, err := l.parser.Parse(ctx, bytes.NewReader(content), url)
		if err != nil {
			return nil, nil, domain.NewParseError(url, err)
		}

		export.Append(part)
		sources = append(sources, Source{URL: url, Content: content})
	}

	return export, sources, nil
}

// ParseExport parses a single export with default options
func ParseExport(ctx context.Context, r io.Reader, source string) (*domain.MetricExport, error) {
	return NewExportParser(Options{}).Parse(ctx, r, source)
}

// LoadExport loads and concatenates exports with default options
func LoadExport(ctx context.Context, urls ...string) (*domain.MetricExport, error) {
	export, _, err := NewExportLoader(Options{}).Load(ctx, urls...)
	return export, err
}
