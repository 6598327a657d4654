package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/ludo-technologies/qgrade/domain"
	"github.com/ludo-technologies/qgrade/internal/analyzer"
	"github.com/ludo-technologies/qgrade/internal/config"
	"github.com/ludo-technologies/qgrade/internal/parser"
	"github.com/ludo-technologies/qgrade/internal/version"
)

// GradingServiceImpl implements domain.GradingService
type GradingServiceImpl struct {
	performance *config.PerformanceConfig
	progress    domain.ProgressManager
	resolver    domain.IgnoreResolver
	logger      *slog.Logger
	now         func() time.Time
}

// NewGradingService creates a grading service. perf and pm may be nil.
func NewGradingService(perf *config.PerformanceConfig, pm domain.ProgressManager) *GradingServiceImpl {
	if pm == nil {
		pm = &NoOpProgressManager{}
	}
	return &GradingServiceImpl{
		performance: perf,
		progress:    pm,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:         time.Now,
	}
}

// WithLogger sets the logger used for run diagnostics
func (s *GradingServiceImpl) WithLogger(logger *slog.Logger) *GradingServiceImpl {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithIgnoreResolver replaces the resolver built from each request
func (s *GradingServiceImpl) WithIgnoreResolver(resolver domain.IgnoreResolver) *GradingServiceImpl {
	s.resolver = resolver
	return s
}

// WithClock sets the time source used for GeneratedAt and DurationMs
func (s *GradingServiceImpl) WithClock(now func() time.Time) *GradingServiceImpl {
	s.now = now
	return s
}

// Grade loads the request's exports and produces the graded response
func (s *GradingServiceImpl) Grade(ctx context.Context, req domain.GradeRequest) (*domain.GradeResponse, error) {
	start := s.now()

	loader := parser.NewExportLoader(parser.Options{Delimiter: req.Delimiter, Comment: req.Comment})
	export, sources, err := loader.Load(ctx, req.Sources...)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("export loaded",
		slog.Int("sources", len(sources)),
		slog.Int("edges", len(export.Edges)),
		slog.Int("records", len(export.Records)))

	fingerprint, err := Fingerprint(sources)
	if err != nil {
		return nil, domain.NewAnalysisError("failed to fingerprint input", err)
	}

	edgesRead, recordsRead := len(export.Edges), len(export.Records)
	export, excluded := NewExclusionFilter(req.ExcludePatterns).Apply(export)
	if excluded > 0 {
		s.logger.Debug("rows excluded", slog.Int("rows", excluded))
	}

	violations := analyzer.Aggregate(export)
	card, err := analyzer.Grade(violations)
	if err != nil {
		if errors.Is(err, analyzer.ErrNoFiles) {
			return nil, domain.NewInvalidInputError("export contains no files to grade", err)
		}
		return nil, domain.NewAnalysisError("grading failed", err)
	}

	violating := violations.Violating()
	files := violating.Files()

	ignored, err := s.ignoreResolver(req).Resolve(ctx, files)
	if err != nil {
		return nil, err
	}

	response := &domain.GradeResponse{
		Card:        card,
		Files:       make([]domain.FileReport, 0, len(files)),
		Fingerprint: fingerprint,
		Sources:     req.Sources,
		Version:     version.GetVersion(),
		Summary: domain.GradeSummary{
			TotalFiles:     card.TotalFiles,
			ViolatingFiles: len(files),
			EdgesRead:      edgesRead,
			RecordsRead:    recordsRead,
			ExcludedRows:   excluded,
		},
	}

	for _, file := range files {
		report := domain.FileReport{
			File:       file,
			Ignored:    ignored[file],
			Violations: violating[file],
		}
		response.Files = append(response.Files, report)
		response.Summary.TotalViolations += len(report.Violations)
		if report.Ignored {
			response.Summary.IgnoredFiles++
		} else {
			response.Summary.CriticalFiles++
		}
	}

	response.Passed = response.Summary.CriticalFiles == 0
	response.ExitCode = domain.ExitCodePass
	if !response.Passed {
		response.ExitCode = domain.ExitCodeCritical
	}

	end := s.now()
	response.GeneratedAt = end.UTC().Format(time.RFC3339)
	response.DurationMs = end.Sub(start).Milliseconds()

	s.logger.Info("grading complete",
		slog.Float64("final_grade", card.FinalGrade),
		slog.Int("files", card.TotalFiles),
		slog.Int("violating", response.Summary.ViolatingFiles),
		slog.Int("ignored", response.Summary.IgnoredFiles),
		slog.String("fingerprint", fingerprint))

	return response, nil
}

func (s *GradingServiceImpl) ignoreResolver(req domain.GradeRequest) domain.IgnoreResolver {
	if s.resolver != nil {
		return s.resolver
	}
	if !req.IgnoreEnabled {
		return StaticIgnoreResolver{}
	}
	return NewMarkerResolver(req.ProjectRoot, req.IgnoreMarker, s.performance, s.progress)
}
