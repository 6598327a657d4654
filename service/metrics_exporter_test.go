package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/qgrade/domain"
)

func TestPrometheusExporter_Collect(t *testing.T) {
	resp := sampleResponse(t, true)
	resp.Summary.IgnoredFiles = 1

	registry, err := NewPrometheusExporter().Collect(resp)
	require.NoError(t, err)

	families, err := registry.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			key := family.GetName()
			for _, label := range metric.GetLabel() {
				key += "/" + label.GetValue()
			}
			values[key] = metric.GetGauge().GetValue()
		}
	}

	// final + 5 attributes + 8 grades + 8 percentages + 3 file counts
	assert.Len(t, values, 25)
	assert.InDelta(t, resp.Card.FinalGrade, values["qgrade_final_grade"], 1e-9)
	assert.Equal(t, -2.0, values["qgrade_characteristic_grade/module_size"])
	assert.Equal(t, 25.0, values["qgrade_characteristic_violation_percent/module_coupling"])
	assert.Equal(t, 2.0, values["qgrade_characteristic_grade/internal_duplication"])
	assert.InDelta(t, 0.4, values["qgrade_attribute_grade/reusability"], 1e-9)
	assert.Equal(t, 4.0, values["qgrade_files_total"])
	assert.Equal(t, 2.0, values["qgrade_files_violating"])
	assert.Equal(t, 1.0, values["qgrade_files_ignored"])
}

func TestPrometheusExporter_Export(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qgrade.prom")

	require.NoError(t, NewPrometheusExporter().Export(sampleResponse(t, false), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "# TYPE qgrade_final_grade gauge")
	assert.Contains(t, text, `qgrade_characteristic_grade{characteristic="cyclic_dependency"} -2`)
	assert.Contains(t, text, "qgrade_files_total 4")
}

func TestPrometheusExporter_NoCard(t *testing.T) {
	err := NewPrometheusExporter().Export(&domain.GradeResponse{}, filepath.Join(t.TempDir(), "x.prom"))
	assert.Error(t, err)
}
