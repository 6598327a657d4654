package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/qgrade/domain"
	"github.com/ludo-technologies/qgrade/internal/analyzer"
	"github.com/ludo-technologies/qgrade/internal/testutil"
)

// fixture is a small project: one oversized file, one with a self edge and
// wide fan-out, two clean files
type fixture struct {
	root    string
	deps    string
	metrics string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	root := t.TempDir()

	deps := testutil.WriteExport(t, dir, "deps.csv", testutil.DependencyHeader,
		testutil.EdgeRow("src/core.rs", "src/util.rs", "12"),
		testutil.EdgeRow("src/core.rs", "src/core.rs", "2"),
		testutil.EdgeRow("src/util.rs", "src/io.rs", "3"),
		testutil.EdgeRow("src/core.rs", "src/io.rs", "4"),
	)
	metrics := testutil.WriteExport(t, dir, "metrics.csv", testutil.MetricHeader,
		testutil.FileRow("src/core.rs", "4", "120", "9", "0.3", "6"),
		testutil.FileRow("src/util.rs", "2", "80", "5", "0.2", "4"),
		testutil.FileRow("src/io.rs", "3", "60", "6", "0.4", "3"),
		testutil.FileRow("src/big.rs", "5", "900", "12", "0.2", "15"),
	)

	testutil.WriteSource(t, root, "src/core.rs", "// core")
	testutil.WriteSource(t, root, "src/big.rs", "// big")

	return fixture{root: root, deps: deps, metrics: metrics}
}

func (f fixture) request() domain.GradeRequest {
	return domain.GradeRequest{
		Sources:       []string{f.deps, f.metrics},
		IgnoreEnabled: true,
		IgnoreMarker:  "validate-ignore",
		ProjectRoot:   f.root,
	}
}

func fixedClock() func() time.Time {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func newTestService() *GradingServiceImpl {
	return NewGradingService(nil, nil).WithClock(fixedClock())
}

func TestGradingService_Grade(t *testing.T) {
	f := newFixture(t)

	resp, err := newTestService().Grade(context.Background(), f.request())

	require.NoError(t, err)
	assert.Equal(t, 4, resp.Card.TotalFiles)
	assert.Equal(t, 4, resp.Summary.TotalFiles)
	assert.Equal(t, 4, resp.Summary.EdgesRead)
	assert.Equal(t, 4, resp.Summary.RecordsRead)

	require.Len(t, resp.Files, 2)
	assert.Equal(t, domain.FileID("src/big.rs"), resp.Files[0].File)
	assert.Equal(t, []domain.Violation{domain.NewModuleSizeViolation(900)}, resp.Files[0].Violations)
	assert.Equal(t, domain.FileID("src/core.rs"), resp.Files[1].File)
	assert.Equal(t, []domain.Violation{
		domain.NewCyclicDependencyViolation(2),
		domain.NewFanOutViolation(18),
	}, resp.Files[1].Violations)

	assert.False(t, resp.Passed)
	assert.Equal(t, domain.ExitCodeCritical, resp.ExitCode)
	assert.Equal(t, 2, resp.Summary.CriticalFiles)
	assert.Equal(t, 3, resp.Summary.TotalViolations)
	assert.Len(t, resp.Fingerprint, 16)
	assert.Equal(t, "2024-05-01T12:00:00Z", resp.GeneratedAt)
	assert.Zero(t, resp.DurationMs)
}

func TestGradingService_IgnoreMarkerSuppressesCriticalVerdict(t *testing.T) {
	f := newFixture(t)
	testutil.WriteSource(t, f.root, "src/core.rs", "// validate-ignore")
	testutil.WriteSource(t, f.root, "src/big.rs", "// validate-ignore")

	resp, err := newTestService().Grade(context.Background(), f.request())

	require.NoError(t, err)
	require.Len(t, resp.Files, 2)
	assert.True(t, resp.Files[0].Ignored)
	assert.True(t, resp.Files[1].Ignored)
	assert.True(t, resp.Passed)
	assert.Equal(t, domain.ExitCodePass, resp.ExitCode)
	assert.Equal(t, 2, resp.Summary.IgnoredFiles)
	assert.Equal(t, 2, resp.Summary.ViolatingFiles)
}

func TestGradingService_IgnoreDoesNotChangeGrades(t *testing.T) {
	f := newFixture(t)
	plain, err := newTestService().Grade(context.Background(), f.request())
	require.NoError(t, err)

	testutil.WriteSource(t, f.root, "src/big.rs", "// validate-ignore")
	marked, err := newTestService().Grade(context.Background(), f.request())
	require.NoError(t, err)

	assert.Equal(t, plain.Card, marked.Card)
	assert.False(t, marked.Passed, "core.rs is still critical")
}

func TestGradingService_NoIgnoreSkipsFileReads(t *testing.T) {
	f := newFixture(t)
	req := f.request()
	req.IgnoreEnabled = false
	req.ProjectRoot = "/nonexistent/qgrade/root"

	resp, err := newTestService().Grade(context.Background(), req)

	require.NoError(t, err)
	assert.False(t, resp.Passed)
	assert.Zero(t, resp.Summary.IgnoredFiles)
}

func TestGradingService_MissingViolatingFileIsFatal(t *testing.T) {
	f := newFixture(t)
	req := f.request()
	req.ProjectRoot = t.TempDir()

	_, err := newTestService().Grade(context.Background(), req)

	var domainErr domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.ErrCodeFileNotFound, domainErr.Code)
}

func TestGradingService_ExcludePatterns(t *testing.T) {
	f := newFixture(t)
	req := f.request()
	req.ExcludePatterns = []string{"src/big.rs"}

	resp, err := newTestService().Grade(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 3, resp.Card.TotalFiles)
	assert.Equal(t, 1, resp.Summary.ExcludedRows)
	require.Len(t, resp.Files, 1)
	assert.Equal(t, domain.FileID("src/core.rs"), resp.Files[0].File)
}

func TestGradingService_CleanExport(t *testing.T) {
	dir := t.TempDir()
	metrics := testutil.WriteExport(t, dir, "metrics.csv", testutil.MetricHeader,
		testutil.FileRow("a.rs", "2", "50", "4", "0.5", "3"),
		testutil.FileRow("b.rs", "2", "50", "4", "0.5", "3"),
	)

	resp, err := newTestService().Grade(context.Background(), domain.GradeRequest{
		Sources:       []string{metrics},
		IgnoreEnabled: true,
		IgnoreMarker:  "validate-ignore",
		ProjectRoot:   "/nonexistent",
	})

	require.NoError(t, err)
	assert.Equal(t, 10.0, resp.Card.FinalGrade)
	assert.Empty(t, resp.Files)
	assert.True(t, resp.Passed)
	assert.False(t, resp.HasViolations())
}

func TestGradingService_EmptyPopulation(t *testing.T) {
	dir := t.TempDir()
	deps := testutil.WriteExport(t, dir, "deps.csv", testutil.DependencyHeader,
		testutil.EdgeRow("a.rs", "b.rs", "1"))

	_, err := newTestService().Grade(context.Background(), domain.GradeRequest{Sources: []string{deps}})

	assert.ErrorIs(t, err, analyzer.ErrNoFiles)
}

func TestGradingService_ParseErrorPropagates(t *testing.T) {
	dir := t.TempDir()
	bad := testutil.WriteExport(t, dir, "bad.csv", testutil.DependencyHeader, "a.rs,b.rs,lots")

	_, err := newTestService().Grade(context.Background(), domain.GradeRequest{Sources: []string{bad}})

	var domainErr domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.ErrCodeParseError, domainErr.Code)
}

func TestGradingService_Deterministic(t *testing.T) {
	f := newFixture(t)
	formatter := NewOutputFormatter(false)

	render := func() string {
		resp, err := newTestService().Grade(context.Background(), f.request())
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, formatter.Write(resp, domain.OutputFormatText, &buf))
		return buf.String()
	}

	first := render()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, render())
	}
}

func TestGradingService_UsesInjectedResolverAndLogger(t *testing.T) {
	f := newFixture(t)
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	service := newTestService().
		WithLogger(logger).
		WithIgnoreResolver(resolverFunc(func(files []domain.FileID) map[domain.FileID]bool {
			out := map[domain.FileID]bool{}
			for _, file := range files {
				out[file] = true
			}
			return out
		}))

	resp, err := service.Grade(context.Background(), f.request())

	require.NoError(t, err)
	assert.True(t, resp.Passed)
	assert.Contains(t, logs.String(), "grading complete")
	assert.Contains(t, logs.String(), "export loaded")
}

type resolverFunc func(files []domain.FileID) map[domain.FileID]bool

func (f resolverFunc) Resolve(_ context.Context, files []domain.FileID) (map[domain.FileID]bool, error) {
	return f(files), nil
}
