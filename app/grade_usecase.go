package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ludo-technologies/qgrade/domain"
)

// GradeUseCase orchestrates the grading workflow: input resolution, grading,
// report rendering and the optional metrics textfile
type GradeUseCase struct {
	service    domain.GradingService
	formatter  domain.OutputFormatter
	exporter   domain.MetricsExporter
	fileHelper *FileHelper
	logger     *slog.Logger
}

// NewGradeUseCase creates a new grade use case
func NewGradeUseCase(service domain.GradingService, formatter domain.OutputFormatter, exporter domain.MetricsExporter) *GradeUseCase {
	return &GradeUseCase{
		service:    service,
		formatter:  formatter,
		exporter:   exporter,
		fileHelper: NewFileHelper(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Execute grades the request's sources and writes the report.
// The response is returned even when it carries critical violations; callers
// decide the exit code from response.ExitCode.
func (uc *GradeUseCase) Execute(ctx context.Context, req domain.GradeRequest) (*domain.GradeResponse, error) {
	if err := uc.validateRequest(&req); err != nil {
		return nil, domain.NewInvalidInputError("invalid request", err)
	}

	sources, err := uc.fileHelper.CollectExportFiles(req.Sources)
	if err != nil {
		return nil, domain.NewDomainError(domain.ErrCodeFileNotFound, "failed to collect export files", err)
	}
	if len(sources) == 0 {
		return nil, domain.NewInvalidInputError("no export files found in the specified sources", nil)
	}
	req.Sources = sources
	uc.logger.Debug("sources resolved", slog.Any("sources", sources))

	response, err := uc.service.Grade(ctx, req)
	if err != nil {
		var domainErr domain.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, domain.NewAnalysisError("grading failed", err)
	}

	if err := uc.formatter.Write(response, req.OutputFormat, req.OutputWriter); err != nil {
		return nil, err
	}

	if req.MetricsFile != "" {
		if uc.exporter == nil {
			return nil, domain.NewOutputError("metrics file requested but no exporter configured", nil)
		}
		if err := uc.exporter.Export(response, req.MetricsFile); err != nil {
			return nil, err
		}
		uc.logger.Debug("metrics written", slog.String("path", req.MetricsFile))
	}

	return response, nil
}

// validateRequest fills defaults and rejects unusable requests
func (uc *GradeUseCase) validateRequest(req *domain.GradeRequest) error {
	if len(req.Sources) == 0 {
		return fmt.Errorf("no export sources specified")
	}

	switch req.OutputFormat {
	case "":
		req.OutputFormat = domain.OutputFormatText
	case domain.OutputFormatText, domain.OutputFormatJSON, domain.OutputFormatYAML:
	default:
		return fmt.Errorf("unsupported output format %q", req.OutputFormat)
	}

	if req.OutputWriter == nil {
		req.OutputWriter = os.Stdout
	}

	if req.IgnoreEnabled && req.IgnoreMarker == "" {
		return fmt.Errorf("ignore marker cannot be empty")
	}

	return nil
}

// GradeUseCaseBuilder provides a builder pattern for creating GradeUseCase
type GradeUseCaseBuilder struct {
	service    domain.GradingService
	formatter  domain.OutputFormatter
	exporter   domain.MetricsExporter
	fileHelper *FileHelper
	logger     *slog.Logger
}

// NewGradeUseCaseBuilder creates a new builder
func NewGradeUseCaseBuilder() *GradeUseCaseBuilder {
	return &GradeUseCaseBuilder{}
}

// WithService sets the grading service
func (b *GradeUseCaseBuilder) WithService(service domain.GradingService) *GradeUseCaseBuilder {
	b.service = service
	return b
}

// WithFormatter sets the report formatter
func (b *GradeUseCaseBuilder) WithFormatter(formatter domain.OutputFormatter) *GradeUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithExporter sets the metrics exporter
func (b *GradeUseCaseBuilder) WithExporter(exporter domain.MetricsExporter) *GradeUseCaseBuilder {
	b.exporter = exporter
	return b
}

// WithFileHelper sets the file helper
func (b *GradeUseCaseBuilder) WithFileHelper(fileHelper *FileHelper) *GradeUseCaseBuilder {
	b.fileHelper = fileHelper
	return b
}

// WithLogger sets the logger
func (b *GradeUseCaseBuilder) WithLogger(logger *slog.Logger) *GradeUseCaseBuilder {
	b.logger = logger
	return b
}

// Build creates the GradeUseCase with the configured dependencies
func (b *GradeUseCaseBuilder) Build() (*GradeUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("grading service is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}

	uc := NewGradeUseCase(b.service, b.formatter, b.exporter)
	if b.fileHelper != nil {
		uc.fileHelper = b.fileHelper
	}
	if b.logger != nil {
		uc.logger = b.logger
	}

	return uc, nil
}
