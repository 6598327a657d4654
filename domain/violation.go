package domain

import (
	"fmt"
	"math"
	"sort"
)

// Rule thresholds. These are the grading contract and are not configurable.
const (
	// FanOutLimit is the summed outgoing reference count at which a file violates
	FanOutLimit = 16

	// ModuleSizeLimit is the largest allowed number of code lines per file
	ModuleSizeLimit = 400

	// AvgComplexityLimit is the average cyclomatic complexity at which a file violates
	AvgComplexityLimit = 10

	// MaxComplexityLimit is the maximum cyclomatic complexity at which a file violates
	MaxComplexityLimit = 20

	// FunctionCountLimit is the largest allowed number of declared functions
	FunctionCountLimit = 20

	// CommentRatioMin is the comment-to-code ratio at or below which a file violates
	CommentRatioMin = 0.15
)

// ViolationKind enumerates the rules a file can break
type ViolationKind int

const (
	ViolationCyclicDependency ViolationKind = iota
	ViolationFanOut
	ViolationModuleSize
	ViolationAvgComplexity
	ViolationMaxComplexity
	ViolationFunctionCount
	ViolationCommentRatio
)

// AllViolationKinds returns every violation kind in rule order
func AllViolationKinds() []ViolationKind {
	return []ViolationKind{
		ViolationCyclicDependency,
		ViolationFanOut,
		ViolationModuleSize,
		ViolationAvgComplexity,
		ViolationMaxComplexity,
		ViolationFunctionCount,
		ViolationCommentRatio,
	}
}

// String returns the machine-readable name of the kind
func (k ViolationKind) String() string {
	switch k {
	case ViolationCyclicDependency:
		return "cyclic_dependency"
	case ViolationFanOut:
		return "fan_out"
	case ViolationModuleSize:
		return "module_size"
	case ViolationAvgComplexity:
		return "avg_complexity"
	case ViolationMaxComplexity:
		return "max_complexity"
	case ViolationFunctionCount:
		return "function_count"
	case ViolationCommentRatio:
		return "comment_ratio"
	}
	return fmt.Sprintf("violation(%d)", int(k))
}

// Label returns the human-readable rule name
func (k ViolationKind) Label() string {
	switch k {
	case ViolationCyclicDependency:
		return "Cyclic dependency"
	case ViolationFanOut:
		return "Fan out"
	case ViolationModuleSize:
		return "Module size"
	case ViolationAvgComplexity:
		return "Average cyclomatic complexity"
	case ViolationMaxComplexity:
		return "Max cyclomatic complexity"
	case ViolationFunctionCount:
		return "Number of functions"
	case ViolationCommentRatio:
		return "Code commenting ratio"
	}
	return k.String()
}

// Limit returns the rule bound as shown next to an offending value
func (k ViolationKind) Limit() string {
	switch k {
	case ViolationCyclicDependency:
		return "> max 0"
	case ViolationFanOut:
		return fmt.Sprintf(">= max %d", FanOutLimit)
	case ViolationModuleSize:
		return fmt.Sprintf("> max %d", ModuleSizeLimit)
	case ViolationAvgComplexity:
		return fmt.Sprintf(">= max %d", AvgComplexityLimit)
	case ViolationMaxComplexity:
		return fmt.Sprintf(">= max %d", MaxComplexityLimit)
	case ViolationFunctionCount:
		return fmt.Sprintf("> max %d", FunctionCountLimit)
	case ViolationCommentRatio:
		return fmt.Sprintf("<= min %d%%", int(CommentRatioMin*100))
	}
	return ""
}

// MarshalText encodes the kind by name
func (k ViolationKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind previously encoded by MarshalText
func (k *ViolationKind) UnmarshalText(text []byte) error {
	for _, kind := range AllViolationKinds() {
		if kind.String() == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown violation kind %q", string(text))
}

// Violation is one broken rule together with the offending value.
// Count carries integer payloads; Ratio is used by ViolationCommentRatio only.
type Violation struct {
	Kind  ViolationKind `json:"kind" yaml:"kind"`
	Count uint32        `json:"count,omitempty" yaml:"count,omitempty"`
	Ratio float64       `json:"ratio,omitempty" yaml:"ratio,omitempty"`
}

func NewCyclicDependencyViolation(references uint32) Violation {
	return Violation{Kind: ViolationCyclicDependency, Count: references}
}

func NewFanOutViolation(references uint32) Violation {
	return Violation{Kind: ViolationFanOut, Count: references}
}

func NewModuleSizeViolation(linesOfCode uint32) Violation {
	return Violation{Kind: ViolationModuleSize, Count: linesOfCode}
}

func NewAvgComplexityViolation(avg uint32) Violation {
	return Violation{Kind: ViolationAvgComplexity, Count: avg}
}

func NewMaxComplexityViolation(max uint32) Violation {
	return Violation{Kind: ViolationMaxComplexity, Count: max}
}

func NewFunctionCountViolation(count uint32) Violation {
	return Violation{Kind: ViolationFunctionCount, Count: count}
}

func NewCommentRatioViolation(ratio float64) Violation {
	return Violation{Kind: ViolationCommentRatio, Ratio: ratio}
}

// Value returns the offending value regardless of payload type
func (v Violation) Value() float64 {
	if v.Kind == ViolationCommentRatio {
		return v.Ratio
	}
	return float64(v.Count)
}

// ValueText formats the offending value the way reports show it.
// Comment ratios are shown as a rounded percentage.
func (v Violation) ValueText() string {
	if v.Kind == ViolationCommentRatio {
		return fmt.Sprintf("%d%%", int(math.Round(v.Ratio*100)))
	}
	return fmt.Sprintf("%d", v.Count)
}

// Describe returns the full report line, e.g. "Module size: 401 > max 400"
func (v Violation) Describe() string {
	return fmt.Sprintf("%s: %s %s", v.Kind.Label(), v.ValueText(), v.Kind.Limit())
}

// String implements fmt.Stringer
func (v Violation) String() string {
	return v.Describe()
}

// FileViolations maps each known file to its violations in detection order.
// Files without violations are kept as empty entries so the map also
// records the graded population.
type FileViolations map[FileID][]Violation

// Files returns the file ids in ascending order
func (fv FileViolations) Files() []FileID {
	files := make([]FileID, 0, len(fv))
	for file := range fv {
		files = append(files, file)
	}
	sort.Slice(files, func(i, j int) bool { return files[i] < files[j] })
	return files
}

// Total returns the number of known files, clean files included
func (fv FileViolations) Total() int {
	return len(fv)
}

// Violating returns a copy holding only files with at least one violation
func (fv FileViolations) Violating() FileViolations {
	out := make(FileViolations)
	for file, violations := range fv {
		if len(violations) == 0 {
			continue
		}
		out[file] = append([]Violation(nil), violations...)
	}
	return out
}

// Count returns the total number of violations across all files
func (fv FileViolations) Count() int {
	n := 0
	for _, violations := range fv {
		n += len(violations)
	}
	return n
}
