package domain

import (
	"context"
	"io"
)

// OutputFormat represents the supported report formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

// Exit codes returned by the grade command
const (
	ExitCodePass     = 0
	ExitCodeCritical = 1
	ExitCodeError    = 2
)

// GradeRequest describes one grading run
type GradeRequest struct {
	// Sources are the export locations (local paths or afs URLs), read in order
	Sources []string

	// Delimiter separates export columns; zero means ','
	Delimiter rune

	// Comment marks export lines to skip; zero disables comments
	Comment rune

	// ExcludePatterns drop files (gitignore syntax) before grading
	ExcludePatterns []string

	// Ignore marker resolution
	IgnoreEnabled bool
	IgnoreMarker  string
	ProjectRoot   string

	// Output configuration
	OutputFormat OutputFormat
	OutputWriter io.Writer
	MetricsFile  string
	Color        bool
	Verbose      bool

	// Configuration
	ConfigPath string
}

// FileReport is one violating file as shown in the report
type FileReport struct {
	File       FileID      `json:"file" yaml:"file"`
	Ignored    bool        `json:"ignored" yaml:"ignored"`
	Violations []Violation `json:"violations" yaml:"violations"`
}

// GradeSummary provides aggregate statistics for a run
type GradeSummary struct {
	TotalFiles      int `json:"total_files" yaml:"total_files"`
	ViolatingFiles  int `json:"violating_files" yaml:"violating_files"`
	IgnoredFiles    int `json:"ignored_files" yaml:"ignored_files"`
	CriticalFiles   int `json:"critical_files" yaml:"critical_files"`
	TotalViolations int `json:"total_violations" yaml:"total_violations"`
	EdgesRead       int `json:"edges_read" yaml:"edges_read"`
	RecordsRead     int `json:"records_read" yaml:"records_read"`
	ExcludedRows    int `json:"excluded_rows,omitempty" yaml:"excluded_rows,omitempty"`
}

// GradeResponse is the complete outcome of a grading run
type GradeResponse struct {
	Card        *GradeCard   `json:"grades" yaml:"grades"`
	Files       []FileReport `json:"files" yaml:"files"`
	Summary     GradeSummary `json:"summary" yaml:"summary"`
	Passed      bool         `json:"passed" yaml:"passed"`
	ExitCode    int          `json:"exit_code" yaml:"exit_code"`
	Fingerprint string       `json:"fingerprint" yaml:"fingerprint"`
	Sources     []string     `json:"sources" yaml:"sources"`
	GeneratedAt string       `json:"generated_at" yaml:"generated_at"`
	Version     string       `json:"version" yaml:"version"`
	DurationMs  int64        `json:"duration_ms" yaml:"duration_ms"`
}

// HasViolations reports whether any file broke at least one rule
func (r *GradeResponse) HasViolations() bool {
	return len(r.Files) > 0
}

// GradingService defines the grading workflow
type GradingService interface {
	// Grade reads the request's sources and grades them
	Grade(ctx context.Context, req GradeRequest) (*GradeResponse, error)
}

// IgnoreResolver decides which files carry the ignore marker
type IgnoreResolver interface {
	// Resolve returns, for every requested file, whether it is ignored
	Resolve(ctx context.Context, files []FileID) (map[FileID]bool, error)
}

// OutputFormatter defines the interface for rendering grade reports
type OutputFormatter interface {
	// Write renders the response in the given format
	Write(response *GradeResponse, format OutputFormat, writer io.Writer) error
}

// MetricsExporter publishes grades outside of the report
type MetricsExporter interface {
	// Export writes the response's grades to path
	Export(response *GradeResponse, path string) error
}

// ProgressManager hands out progress trackers for long-running steps
type ProgressManager interface {
	StartTask(description string, total int) TaskProgress
	IsInteractive() bool
	Close()
}

// TaskProgress tracks one step
type TaskProgress interface {
	Increment(n int)
	Describe(description string)
	Complete()
}

// ExecutableTask is a unit of work run by a ParallelExecutor
type ExecutableTask interface {
	Name() string
	Execute(ctx context.Context) (interface{}, error)
	IsEnabled() bool
}

// ParallelExecutor runs tasks concurrently
type ParallelExecutor interface {
	Execute(ctx context.Context, tasks []ExecutableTask) error
}
