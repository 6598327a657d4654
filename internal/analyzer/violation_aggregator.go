package analyzer

import (
	"github.com/ludo-technologies/qgrade/domain"
)

// MergeViolations combines two violation maps keyed by file.
// Files present in both keep first's violations followed by second's;
// nothing is overwritten and neither input is modified.
func MergeViolations(first, second domain.FileViolations) domain.FileViolations {
	merged := make(domain.FileViolations, len(first)+len(second))
	for file, violations := range first {
		merged[file] = append([]domain.Violation{}, violations...)
	}
	for file, violations := range second {
		if existing, ok := merged[file]; ok {
			merged[file] = append(existing, violations...)
			continue
		}
		merged[file] = append([]domain.Violation{}, violations...)
	}
	return merged
}

// Aggregate detects every violation in the export and merges them per file,
// dependency violations first. The result holds every known file, clean
// files as empty entries, and is the population grades are computed over.
func Aggregate(export *domain.MetricExport) domain.FileViolations {
	if export == nil {
		return domain.FileViolations{}
	}
	return MergeViolations(
		DetectDependencyViolations(export.Edges),
		DetectRecordViolations(export.Records),
	)
}
