package config

import (
	"strconv"
	"strings"

	"github.com/ludo-technologies/qgrade/internal/constants"
)

// ProjectType selects the exclusion preset written by `qgrade init`
type ProjectType string

const (
	ProjectTypeGeneric ProjectType = "generic"
	ProjectTypeRust    ProjectType = "rust"
	ProjectTypeCpp     ProjectType = "cpp"
	ProjectTypeJava    ProjectType = "java"
)

// AllProjectTypes returns project types in menu order
func AllProjectTypes() []ProjectType {
	return []ProjectType{ProjectTypeGeneric, ProjectTypeRust, ProjectTypeCpp, ProjectTypeJava}
}

// GetProjectPresets returns exclusion patterns for each project type.
// Patterns use gitignore syntax and are matched against exported file names.
func GetProjectPresets() map[ProjectType][]string {
	return map[ProjectType][]string{
		ProjectTypeGeneric: {
			"vendor/",
			"third_party/",
		},
		ProjectTypeRust: {
			"target/",
			"vendor/",
			"*.generated.rs",
			"build.rs",
		},
		ProjectTypeCpp: {
			"build/",
			"third_party/",
			"external/",
			"*.pb.h",
			"*.pb.cc",
		},
		ProjectTypeJava: {
			"target/",
			"build/",
			"**/generated/",
		},
	}
}

// TemplateOptions are the values substituted into the config template
type TemplateOptions struct {
	ProjectType ProjectType
	Sources     []string
	Marker      string
	ProjectRoot string
	Format      string
}

// DefaultTemplateOptions returns options matching DefaultConfig
func DefaultTemplateOptions() TemplateOptions {
	return TemplateOptions{
		ProjectType: ProjectTypeGeneric,
		Sources:     []string{},
		Marker:      constants.DefaultIgnoreMarker,
		ProjectRoot: constants.DefaultProjectRoot,
		Format:      constants.OutputFormatText,
	}
}

// GetFullConfigTemplate returns the documented config template as YAML
func GetFullConfigTemplate(opts TemplateOptions) string {
	excludes, ok := GetProjectPresets()[opts.ProjectType]
	if !ok {
		excludes = GetProjectPresets()[ProjectTypeGeneric]
	}

	return `# qgrade configuration
# Grades a static-analysis export (dependency edges and per-file metrics).
# Thresholds are fixed and cannot be configured.

# ============================================================================
# INPUT
# ============================================================================
input:
  # Export files or URLs graded when none are passed on the command line
  sources: ` + formatYAMLList(opts.Sources, "    ") + `

  # Single character separating fields
  delimiter: ` + strconv.Quote(constants.DefaultDelimiter) + `

  # Lines starting with this character are skipped (empty = none)
  comment: ""

# ============================================================================
# IGNORE MARKER
# ============================================================================
# A violating file whose first line contains the marker is reported as
# IGNORED and does not fail the run.
ignore:
  enabled: true
  marker: ` + strconv.Quote(opts.Marker) + `

  # Directory the exported file names are relative to
  project_root: ` + strconv.Quote(opts.ProjectRoot) + `

# ============================================================================
# ANALYSIS SCOPE
# ============================================================================
analysis:
  # Rows whose file matches any pattern are dropped (gitignore syntax)
  exclude_patterns: ` + formatYAMLList(excludes, "    ") + `

# ============================================================================
# OUTPUT
# ============================================================================
output:
  # text, json or yaml
  format: ` + opts.Format + `

  # Styled text on terminals (NO_COLOR and pipes always disable it)
  color: true

  # Prometheus textfile with the grades (empty = not written)
  metrics_file: ""

  verbose: false

# ============================================================================
# PERFORMANCE
# ============================================================================
performance:
  # Concurrent ignore-marker reads (0 = default)
  max_goroutines: ` + strconv.Itoa(DefaultMaxGoroutines) + `

  # Time limit for ignore-marker reads in seconds (0 = default)
  timeout_seconds: ` + strconv.Itoa(DefaultTimeoutSeconds) + `
`
}

// GetMinimalConfigTemplate returns a minimal config template
func GetMinimalConfigTemplate() string {
	return `# qgrade configuration (minimal)
input:
  sources: []

ignore:
  marker: "` + constants.DefaultIgnoreMarker + `"
  project_root: "."
`
}

// formatYAMLList formats items as a block sequence, or [] when empty
func formatYAMLList(items []string, indent string) string {
	if len(items) == 0 {
		return "[]"
	}

	var sb strings.Builder
	for _, item := range items {
		sb.WriteString("\n")
		sb.WriteString(indent)
		sb.WriteString("- ")
		sb.WriteString(strconv.Quote(item))
	}
	return sb.String()
}
