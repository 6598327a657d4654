package analyzer

import (
	"github.com/ludo-technologies/qgrade/domain"
)

// FinalGrade rescales the attribute grade sum onto 0–10: (sum + 10) / 2.
// No clamping is applied; the bucket table already bounds the inputs.
func FinalGrade(attributes []domain.AttributeGrade) float64 {
	sum := 0.0
	for _, a := range attributes {
		sum += a.Grade
	}
	return (sum + 10) / 2
}

// Grade computes the full grade card for a merged violation map.
// violations must still contain the clean files: its size is the population
// every percentage is taken over.
func Grade(violations domain.FileViolations) (*domain.GradeCard, error) {
	total := violations.Total()
	if total == 0 {
		return nil, ErrNoFiles
	}

	characteristics, err := GradeCharacteristics(total, violations)
	if err != nil {
		return nil, err
	}

	card := &domain.GradeCard{
		TotalFiles:      total,
		Characteristics: characteristics,
	}
	card.Attributes = GradeAttributes(card.CharacteristicGrades())
	card.FinalGrade = FinalGrade(card.Attributes)

	return card, nil
}
