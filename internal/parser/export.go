package parser

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ludo-technologies/qgrade/domain"
)

// Export column names as written by the analyzer
const (
	ColFromFile           = "From File"
	ColToFile             = "To File"
	ColReferences         = "References"
	ColKind               = "Kind"
	ColName               = "Name"
	ColFile               = "File"
	ColAvgCyclomatic      = "AvgCyclomatic"
	ColCountLineCode      = "CountLineCode"
	ColMaxCyclomatic      = "MaxCyclomatic"
	ColRatioCommentToCode = "RatioCommentToCode"
	ColCountDeclFunction  = "CountDeclFunction"
)

// ParseError reports a malformed export row
type ParseError struct {
	Source string
	Line   int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Column != "":
		return fmt.Sprintf("%s:%d: column %q: %v", e.Source, e.Line, e.Column, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Source, e.Err)
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var (
	// ErrNoHeader is returned for an export without a header row
	ErrNoHeader = errors.New("missing header row")

	// ErrUnknownShape is returned when a header or row fits neither record shape
	ErrUnknownShape = errors.New("row is neither a dependency edge nor a metric record")
)

// Options controls how export text is split into fields
type Options struct {
	// Delimiter separates fields; zero means ','
	Delimiter rune

	// Comment starts lines to skip; zero disables comments
	Comment rune
}

// ExportParser turns delimited export text into typed rows
type ExportParser struct {
	options Options
}

// NewExportParser creates a parser with the given options
func NewExportParser(options Options) *ExportParser {
	if options.Delimiter == 0 {
		options.Delimiter = ','
	}
	return &ExportParser{options: options}
}

// header maps column names to field positions
type header map[string]int

func (h header) has(names ...string) bool {
	for _, name := range names {
		if _, ok := h[name]; !ok {
			return false
		}
	}
	return true
}

// Parse reads every row from r. Any malformed row fails the whole parse.
func (p *ExportParser) Parse(ctx context.Context, r io.Reader, source string) (*domain.MetricExport, error) {
	reader := csv.NewReader(r)
	reader.Comma = p.options.Delimiter
	reader.Comment = p.options.Comment

	names, err := reader.Read()
	if err == io.EOF {
		return nil, &ParseError{Source: source, Err: ErrNoHeader}
	}
	if err != nil {
		return nil, wrapCSVError(source, err)
	}

	cols := make(header, len(names))
	for i, name := range names {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		cols[name] = i
	}

	hasEdges := cols.has(ColFromFile, ColToFile, ColReferences)
	hasRecords := cols.has(ColKind, ColName)
	if !hasEdges && !hasRecords {
		return nil, &ParseError{Source: source, Line: 1, Err: ErrUnknownShape}
	}

	export := &domain.MetricExport{
		Edges:   []domain.DependencyEdge{},
		Records: []domain.MetricRecord{},
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, wrapCSVError(source, err)
		}
		line, _ := reader.FieldPos(0)
		current := &row{source: source, line: line, cols: cols, fields: fields}

		switch {
		case hasEdges && current.cell(ColFromFile) != "":
			edge, err := current.edge()
			if err != nil {
				return nil, err
			}
			export.Edges = append(export.Edges, edge)
		case hasRecords:
			record, err := current.record()
			if err != nil {
				return nil, err
			}
			export.Records = append(export.Records, record)
		default:
			return nil, &ParseError{Source: source, Line: line, Err: ErrUnknownShape}
		}
	}

	return export, nil
}

func wrapCSVError(source string, err error) error {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return &ParseError{Source: source, Line: csvErr.Line, Err: csvErr.Err}
	}
	return &ParseError{Source: source, Err: err}
}

// row is one data line bound to its header
type row struct {
	source string
	line   int
	cols   header
	fields []string
}

func (r *row) cell(name string) string {
	i, ok := r.cols[name]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

func (r *row) fail(column string, err error) error {
	return &ParseError{Source: r.source, Line: r.line, Column: column, Err: err}
}

func (r *row) edge() (domain.DependencyEdge, error) {
	to := r.cell(ColToFile)
	if to == "" {
		return domain.DependencyEdge{}, r.fail(ColToFile, errors.New("empty value"))
	}
	refs, err := r.requiredUint(ColReferences)
	if err != nil {
		return domain.DependencyEdge{}, err
	}
	return domain.DependencyEdge{
		From:       domain.FileID(r.cell(ColFromFile)),
		To:         domain.FileID(to),
		References: refs,
	}, nil
}

func (r *row) record() (domain.MetricRecord, error) {
	record := domain.MetricRecord{
		Kind: r.cell(ColKind),
		Name: r.cell(ColName),
	}
	if file := r.cell(ColFile); file != "" {
		record.File = domain.FileIDPtr(domain.FileID(file))
	}

	var err error
	if record.AvgCyclomatic, err = r.optionalUint(ColAvgCyclomatic); err != nil {
		return record, err
	}
	if record.LinesOfCode, err = r.optionalUint(ColCountLineCode); err != nil {
		return record, err
	}
	if record.MaxCyclomatic, err = r.optionalUint(ColMaxCyclomatic); err != nil {
		return record, err
	}
	if record.CommentRatio, err = r.optionalFloat(ColRatioCommentToCode); err != nil {
		return record, err
	}
	if record.FunctionCount, err = r.optionalUint(ColCountDeclFunction); err != nil {
		return record, err
	}
	return record, nil
}

func (r *row) requiredUint(column string) (uint32, error) {
	v, err := r.optionalUint(column)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, r.fail(column, errors.New("empty value"))
	}
	return *v, nil
}

func (r *row) optionalUint(column string) (*uint32, error) {
	value := r.cell(column)
	if value == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return nil, r.fail(column, err)
	}
	return domain.Uint32Ptr(uint32(n)), nil
}

func (r *row) optionalFloat(column string) (*float64, error) {
	value := r.cell(column)
	if value == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, r.fail(column, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, r.fail(column, fmt.Errorf("non-finite value %q", value))
	}
	return domain.Float64Ptr(f), nil
}
