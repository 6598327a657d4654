package analyzer

import (
	"errors"
	"math"

	"github.com/ludo-technologies/qgrade/domain"
)

// ErrNoFiles is returned when there is no file population to grade
var ErrNoFiles = errors.New("no files to grade")

// BucketGrade maps a violation percentage to an integer grade.
//
//	0–3 → +2, 4–5 → +1, 6–10 → 0, 11–20 → −1, above 20 → −2
func BucketGrade(percentage int) int {
	switch {
	case percentage <= 3:
		return 2
	case percentage <= 5:
		return 1
	case percentage <= 10:
		return 0
	case percentage <= 20:
		return -1
	default:
		return -2
	}
}

// ViolationPercentage returns round(violated / total * 100), halves rounded away from zero
func ViolationPercentage(violated, total int) (int, error) {
	if total <= 0 {
		return 0, ErrNoFiles
	}
	return int(math.Round(float64(violated) / float64(total) * 100)), nil
}

// CountViolatedFiles counts files with at least one violation counting against c
func CountViolatedFiles(c domain.Characteristic, violations domain.FileViolations) int {
	count := 0
	for _, fileViolations := range violations {
		for _, v := range fileViolations {
			if c.Counts(v.Kind) {
				count++
				break
			}
		}
	}
	return count
}

// GradeCharacteristic grades one characteristic over a population of total files.
// total must be the size of the unfiltered population, clean files included.
func GradeCharacteristic(c domain.Characteristic, total int, violations domain.FileViolations) (domain.CharacteristicGrade, error) {
	if total <= 0 {
		return domain.CharacteristicGrade{}, ErrNoFiles
	}

	if c.AlwaysCompliant() {
		return domain.CharacteristicGrade{
			Characteristic: c,
			TotalFiles:     total,
			Grade:          domain.MaxGrade,
			Assumed:        true,
		}, nil
	}

	violated := CountViolatedFiles(c, violations)
	percentage, err := ViolationPercentage(violated, total)
	if err != nil {
		return domain.CharacteristicGrade{}, err
	}

	return domain.CharacteristicGrade{
		Characteristic: c,
		ViolatedFiles:  violated,
		TotalFiles:     total,
		Percentage:     percentage,
		Grade:          BucketGrade(percentage),
	}, nil
}

// GradeCharacteristics grades every characteristic in report order
func GradeCharacteristics(total int, violations domain.FileViolations) ([]domain.CharacteristicGrade, error) {
	grades := make([]domain.CharacteristicGrade, 0, len(domain.AllCharacteristics()))
	for _, c := range domain.AllCharacteristics() {
		grade, err := GradeCharacteristic(c, total, violations)
		if err != nil {
			return nil, err
		}
		grades = append(grades, grade)
	}
	return grades, nil
}
