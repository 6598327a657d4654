package analyzer

import (
	"github.com/ludo-technologies/qgrade/domain"
)

// GradeAttribute averages the grades of the attribute's characteristics.
// The mean is not rounded. A characteristic missing from grades counts as 0.
func GradeAttribute(a domain.Attribute, grades map[domain.Characteristic]int) domain.AttributeGrade {
	characteristics := a.Characteristics()
	if len(characteristics) == 0 {
		return domain.AttributeGrade{Attribute: a}
	}

	sum := 0
	for _, c := range characteristics {
		sum += grades[c]
	}

	return domain.AttributeGrade{
		Attribute: a,
		Grade:     float64(sum) / float64(len(characteristics)),
	}
}

// GradeAttributes grades every attribute in report order
func GradeAttributes(grades map[domain.Characteristic]int) []domain.AttributeGrade {
	attributes := make([]domain.AttributeGrade, 0, len(domain.AllAttributes()))
	for _, a := range domain.AllAttributes() {
		attributes = append(attributes, GradeAttribute(a, grades))
	}
	return attributes
}
