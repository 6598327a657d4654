package service

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ludo-technologies/qgrade/domain"
)

// PrometheusExporter writes grades as a Prometheus textfile, the format read
// by the node exporter textfile collector
type PrometheusExporter struct{}

// NewPrometheusExporter creates a textfile exporter
func NewPrometheusExporter() *PrometheusExporter {
	return &PrometheusExporter{}
}

// Export writes the response's gauges to path, replacing the file
func (e *PrometheusExporter) Export(response *domain.GradeResponse, path string) error {
	if response == nil || response.Card == nil {
		return domain.NewOutputError("no grades to export", nil)
	}

	registry, err := e.Collect(response)
	if err != nil {
		return domain.NewOutputError("failed to build metrics", err)
	}
	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return domain.NewOutputError("failed to write metrics file "+path, err)
	}
	return nil
}

// Collect registers every grade gauge on a fresh registry
func (e *PrometheusExporter) Collect(response *domain.GradeResponse) (*prometheus.Registry, error) {
	finalGrade := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "qgrade_final_grade",
		Help: "Final quality grade on a 0-10 scale.",
	})
	attributeGrade := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "qgrade_attribute_grade",
		Help: "Quality attribute grade, mean of its characteristic grades (-2 to 2).",
	}, []string{"attribute"})
	characteristicGrade := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "qgrade_characteristic_grade",
		Help: "Quality characteristic grade (-2 to 2).",
	}, []string{"characteristic"})
	characteristicPercent := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "qgrade_characteristic_violation_percent",
		Help: "Rounded percentage of files violating a characteristic.",
	}, []string{"characteristic"})
	filesTotal := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "qgrade_files_total",
		Help: "Number of files graded.",
	})
	filesViolating := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "qgrade_files_violating",
		Help: "Number of files with at least one violation.",
	})
	filesIgnored := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "qgrade_files_ignored",
		Help: "Number of violating files carrying the ignore marker.",
	})

	registry := prometheus.NewRegistry()
	for _, c := range []prometheus.Collector{
		finalGrade, attributeGrade, characteristicGrade, characteristicPercent,
		filesTotal, filesViolating, filesIgnored,
	} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	card := response.Card
	finalGrade.Set(card.FinalGrade)
	for _, ag := range card.Attributes {
		attributeGrade.WithLabelValues(ag.Attribute.String()).Set(ag.Grade)
	}
	for _, cg := range card.Characteristics {
		characteristicGrade.WithLabelValues(cg.Characteristic.String()).Set(float64(cg.Grade))
		characteristicPercent.WithLabelValues(cg.Characteristic.String()).Set(float64(cg.Percentage))
	}
	filesTotal.Set(float64(response.Summary.TotalFiles))
	filesViolating.Set(float64(response.Summary.ViolatingFiles))
	filesIgnored.Set(float64(response.Summary.IgnoredFiles))

	return registry, nil
}
