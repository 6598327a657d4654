package analyzer

import (
	"github.com/ludo-technologies/qgrade/domain"
)

// DetectCyclicDependency reports a self edge as a cyclic dependency
func DetectCyclicDependency(edge domain.DependencyEdge) (domain.Violation, bool) {
	if !edge.IsSelfEdge() {
		return domain.Violation{}, false
	}
	return domain.NewCyclicDependencyViolation(edge.References), true
}

// DetectFanOut sums outgoing references per source file over all edges and
// returns the files whose sum reaches domain.FanOutLimit.
func DetectFanOut(edges []domain.DependencyEdge) map[domain.FileID]uint32 {
	sums := make(map[domain.FileID]uint32)
	for _, edge := range edges {
		sums[edge.From] += edge.References
	}

	violating := make(map[domain.FileID]uint32)
	for file, sum := range sums {
		if sum >= domain.FanOutLimit {
			violating[file] = sum
		}
	}
	return violating
}

// DetectModuleSize flags files with more than domain.ModuleSizeLimit code lines
func DetectModuleSize(record domain.MetricRecord) (domain.Violation, bool) {
	if record.LinesOfCode == nil || *record.LinesOfCode <= domain.ModuleSizeLimit {
		return domain.Violation{}, false
	}
	return domain.NewModuleSizeViolation(*record.LinesOfCode), true
}

// DetectAvgComplexity flags an average cyclomatic complexity of domain.AvgComplexityLimit or more
func DetectAvgComplexity(record domain.MetricRecord) (domain.Violation, bool) {
	if record.AvgCyclomatic == nil || *record.AvgCyclomatic < domain.AvgComplexityLimit {
		return domain.Violation{}, false
	}
	return domain.NewAvgComplexityViolation(*record.AvgCyclomatic), true
}

// DetectMaxComplexity flags a maximum cyclomatic complexity of domain.MaxComplexityLimit or more
func DetectMaxComplexity(record domain.MetricRecord) (domain.Violation, bool) {
	if record.MaxCyclomatic == nil || *record.MaxCyclomatic < domain.MaxComplexityLimit {
		return domain.Violation{}, false
	}
	return domain.NewMaxComplexityViolation(*record.MaxCyclomatic), true
}

// DetectFunctionCount flags more than domain.FunctionCountLimit declared functions
func DetectFunctionCount(record domain.MetricRecord) (domain.Violation, bool) {
	if record.FunctionCount == nil || *record.FunctionCount <= domain.FunctionCountLimit {
		return domain.Violation{}, false
	}
	return domain.NewFunctionCountViolation(*record.FunctionCount), true
}

// DetectCommentRatio flags a comment-to-code ratio at or below domain.CommentRatioMin
func DetectCommentRatio(record domain.MetricRecord) (domain.Violation, bool) {
	if record.CommentRatio == nil || *record.CommentRatio > domain.CommentRatioMin {
		return domain.Violation{}, false
	}
	return domain.NewCommentRatioViolation(*record.CommentRatio), true
}

// metricRules are applied to every record in this order
var metricRules = []func(domain.MetricRecord) (domain.Violation, bool){
	DetectModuleSize,
	DetectAvgComplexity,
	DetectMaxComplexity,
	DetectFunctionCount,
	DetectCommentRatio,
}

// DetectMetricViolations applies every metric rule to a single record.
// Missing metrics never produce a violation.
func DetectMetricViolations(record domain.MetricRecord) []domain.Violation {
	violations := []domain.Violation{}
	for _, rule := range metricRules {
		if v, ok := rule(record); ok {
			violations = append(violations, v)
		}
	}
	return violations
}

// DetectDependencyViolations runs the dependency rules over all edges.
// Only violating files get an entry; a file lists its cyclic dependency
// first and its fan-out second. Only the first self edge of a file counts.
func DetectDependencyViolations(edges []domain.DependencyEdge) domain.FileViolations {
	cyclic := make(domain.FileViolations)
	for _, edge := range edges {
		v, ok := DetectCyclicDependency(edge)
		if !ok {
			continue
		}
		if _, seen := cyclic[edge.From]; seen {
			continue
		}
		cyclic[edge.From] = []domain.Violation{v}
	}

	fanOut := make(domain.FileViolations)
	for file, sum := range DetectFanOut(edges) {
		fanOut[file] = []domain.Violation{domain.NewFanOutViolation(sum)}
	}

	return MergeViolations(cyclic, fanOut)
}

// DetectRecordViolations runs the metric rules over every record that names a file.
// Each such file gets an entry even when it is clean, so the result also
// carries the graded population.
func DetectRecordViolations(records []domain.MetricRecord) domain.FileViolations {
	violations := make(domain.FileViolations)
	for _, record := range records {
		if record.File == nil {
			continue
		}
		file := *record.File
		violations[file] = append(violations[file], DetectMetricViolations(record)...)
		if violations[file] == nil {
			violations[file] = []domain.Violation{}
		}
	}
	return violations
}
