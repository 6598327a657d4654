package analyzer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/qgrade/domain"
)

func TestBucketGrade_Boundaries(t *testing.T) {
	tests := []struct {
		percentage int
		want       int
	}{
		{0, 2}, {3, 2},
		{4, 1}, {5, 1},
		{6, 0}, {10, 0},
		{11, -1}, {20, -1},
		{21, -2}, {100, -2},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d%%", tt.percentage), func(t *testing.T) {
			assert.Equal(t, tt.want, BucketGrade(tt.percentage))
		})
	}
}

func TestBucketGrade_Monotonic(t *testing.T) {
	prev := BucketGrade(0)
	for p := 1; p <= 100; p++ {
		g := BucketGrade(p)
		assert.LessOrEqual(t, g, prev, "grade must not rise at %d%%", p)
		prev = g
	}
}

func TestViolationPercentage(t *testing.T) {
	p, err := ViolationPercentage(1, 40)
	require.NoError(t, err)
	assert.Equal(t, 3, p, "2.5 rounds away from zero")

	p, err = ViolationPercentage(1, 22)
	require.NoError(t, err)
	assert.Equal(t, 5, p)

	_, err = ViolationPercentage(0, 0)
	assert.True(t, errors.Is(err, ErrNoFiles))
}

func TestGradeCharacteristic_ComplexityCountsEachFileOnce(t *testing.T) {
	violations := domain.FileViolations{
		"a.rs": {domain.NewAvgComplexityViolation(11), domain.NewMaxComplexityViolation(30)},
		"b.rs": {domain.NewMaxComplexityViolation(21)},
		"c.rs": {},
		"d.rs": {domain.NewModuleSizeViolation(500)},
	}

	grade, err := GradeCharacteristic(domain.CharacteristicModuleComplexity, violations.Total(), violations)

	require.NoError(t, err)
	assert.Equal(t, 2, grade.ViolatedFiles)
	assert.Equal(t, 4, grade.TotalFiles)
	assert.Equal(t, 50, grade.Percentage)
	assert.Equal(t, -2, grade.Grade)
	assert.False(t, grade.Assumed)
}

func TestGradeCharacteristic_DuplicationAlwaysMax(t *testing.T) {
	violations := domain.FileViolations{
		"a.rs": {domain.NewModuleSizeViolation(500), domain.NewFanOutViolation(40)},
	}

	for _, c := range []domain.Characteristic{
		domain.CharacteristicInternalDuplication,
		domain.CharacteristicExternalDuplication,
	} {
		grade, err := GradeCharacteristic(c, 1, violations)
		require.NoError(t, err)
		assert.Equal(t, domain.MaxGrade, grade.Grade)
		assert.True(t, grade.Assumed)
		assert.Zero(t, grade.ViolatedFiles)
	}
}

func TestGradeCharacteristic_NoFiles(t *testing.T) {
	_, err := GradeCharacteristic(domain.CharacteristicModuleSize, 0, domain.FileViolations{})
	assert.ErrorIs(t, err, ErrNoFiles)
}

func TestGradeAttribute_UnroundedMean(t *testing.T) {
	grades := map[domain.Characteristic]int{
		domain.CharacteristicModuleComplexity: 2,
		domain.CharacteristicModuleSize:       -1,
		domain.CharacteristicCyclicDependency: 0,
	}

	got := GradeAttribute(domain.AttributeTestability, grades)

	assert.Equal(t, domain.AttributeTestability, got.Attribute)
	assert.InDelta(t, 1.0/3.0, got.Grade, 1e-12)
}

func TestGradeAttribute_MissingCharacteristicsCountAsZero(t *testing.T) {
	got := GradeAttribute(domain.AttributeModularity, map[domain.Characteristic]int{
		domain.CharacteristicModuleDesign: 2,
	})

	assert.InDelta(t, 0.5, got.Grade, 1e-12)
	assert.Zero(t, GradeAttribute(domain.AttributeReusability, nil).Grade)
}

func TestFinalGrade(t *testing.T) {
	uniform := func(g float64) []domain.AttributeGrade {
		out := []domain.AttributeGrade{}
		for _, a := range domain.AllAttributes() {
			out = append(out, domain.AttributeGrade{Attribute: a, Grade: g})
		}
		return out
	}

	assert.Equal(t, 10.0, FinalGrade(uniform(2)))
	assert.Equal(t, 0.0, FinalGrade(uniform(-2)))
	assert.Equal(t, 5.0, FinalGrade(uniform(0)))
}

func TestGrade_CleanPopulationScoresTen(t *testing.T) {
	card, err := Grade(domain.FileViolations{"a.rs": {}, "b.rs": {}})

	require.NoError(t, err)
	assert.Equal(t, 2, card.TotalFiles)
	assert.Equal(t, 10.0, card.FinalGrade)
	require.Len(t, card.Characteristics, 8)
	require.Len(t, card.Attributes, 5)
	for _, cg := range card.Characteristics {
		assert.Equal(t, domain.MaxGrade, cg.Grade, cg.Characteristic.Name())
	}
}

func TestGrade_OversizedQuarter(t *testing.T) {
	violations := domain.FileViolations{
		"a.rs": {domain.NewModuleSizeViolation(900)},
		"b.rs": {},
		"c.rs": {},
		"d.rs": {},
	}

	card, err := Grade(violations)
	require.NoError(t, err)

	grades := card.CharacteristicGrades()
	assert.Equal(t, -2, grades[domain.CharacteristicModuleSize])
	assert.Equal(t, 2, grades[domain.CharacteristicModuleComplexity])

	byAttribute := map[domain.Attribute]float64{}
	for _, a := range card.Attributes {
		byAttribute[a.Attribute] = a.Grade
	}
	assert.InDelta(t, 2.0, byAttribute[domain.AttributeModularity], 1e-9)
	assert.InDelta(t, 2.0, byAttribute[domain.AttributeReusability], 1e-9)
	assert.InDelta(t, 1.2, byAttribute[domain.AttributeAnalyzability], 1e-9)
	assert.InDelta(t, 1.2, byAttribute[domain.AttributeModifiability], 1e-9)
	assert.InDelta(t, 2.0/3.0, byAttribute[domain.AttributeTestability], 1e-9)
	assert.InDelta(t, (2+2+1.2+1.2+2.0/3.0+10)/2, card.FinalGrade, 1e-9)
}

func TestGrade_EmptyPopulationRejected(t *testing.T) {
	card, err := Grade(domain.FileViolations{})

	assert.Nil(t, card)
	assert.ErrorIs(t, err, ErrNoFiles)
}

func TestGrade_Deterministic(t *testing.T) {
	violations := domain.FileViolations{
		"a.rs": {domain.NewFanOutViolation(20)},
		"b.rs": {domain.NewCommentRatioViolation(0.1)},
		"c.rs": {domain.NewFunctionCountViolation(22), domain.NewCyclicDependencyViolation(1)},
		"d.rs": {},
		"e.rs": {},
	}

	first, err := Grade(violations)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := Grade(violations)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
