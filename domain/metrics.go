package domain

import "fmt"

// FileID identifies a source file exactly as the analyzer export spells it
type FileID string

// DependencyEdge is one directed coupling edge between two files.
// An edge whose From equals To marks a cyclic dependency.
type DependencyEdge struct {
	From       FileID `json:"from" yaml:"from"`
	To         FileID `json:"to" yaml:"to"`
	References uint32 `json:"references" yaml:"references"`
}

// IsSelfEdge reports whether the edge points back at its own file
func (e DependencyEdge) IsSelfEdge() bool {
	return e.From == e.To
}

// MetricRecord is one row of a per-entity metric export.
// Rows can describe files, functions or any other unit; nil fields are
// metrics the analyzer did not compute for that kind of row.
type MetricRecord struct {
	Kind string  `json:"kind" yaml:"kind"`
	Name string  `json:"name" yaml:"name"`
	File *FileID `json:"file,omitempty" yaml:"file,omitempty"`

	AvgCyclomatic *uint32  `json:"avg_cyclomatic,omitempty" yaml:"avg_cyclomatic,omitempty"`
	MaxCyclomatic *uint32  `json:"max_cyclomatic,omitempty" yaml:"max_cyclomatic,omitempty"`
	LinesOfCode   *uint32  `json:"lines_of_code,omitempty" yaml:"lines_of_code,omitempty"`
	CommentRatio  *float64 `json:"comment_ratio,omitempty" yaml:"comment_ratio,omitempty"`
	FunctionCount *uint32  `json:"function_count,omitempty" yaml:"function_count,omitempty"`
}

// String renders the record for diagnostics, e.g. "File main.rs in src/main.rs"
func (r MetricRecord) String() string {
	if r.File == nil {
		return fmt.Sprintf("%s %s", r.Kind, r.Name)
	}
	return fmt.Sprintf("%s %s in %s", r.Kind, r.Name, *r.File)
}

// MetricExport holds every row read from the input sources, in source order
type MetricExport struct {
	Edges   []DependencyEdge `json:"edges" yaml:"edges"`
	Records []MetricRecord   `json:"records" yaml:"records"`
}

// Append adds the rows of other after the rows already held
func (e *MetricExport) Append(other *MetricExport) {
	if other == nil {
		return
	}
	e.Edges = append(e.Edges, other.Edges...)
	e.Records = append(e.Records, other.Records...)
}

// Uint32Ptr returns a pointer to v
func Uint32Ptr(v uint32) *uint32 {
	return &v
}

// Float64Ptr returns a pointer to v
func Float64Ptr(v float64) *float64 {
	return &v
}

// FileIDPtr returns a pointer to id
func FileIDPtr(id FileID) *FileID {
	return &id
}
