package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/viant/afs"

	"github.com/ludo-technologies/qgrade/domain"
	"github.com/ludo-technologies/qgrade/internal/config"
)

// maxMarkerLine caps how much of a first line is scanned for the marker
const maxMarkerLine = 64 * 1024

// MarkerResolver reads the first line of each file under a project root and
// reports the files whose first line contains the marker
type MarkerResolver struct {
	fs          afs.Service
	projectRoot string
	marker      string
	executor    *ParallelExecutorImpl
}

// NewMarkerResolver creates a resolver. projectRoot may be a local directory
// or any afs URL.
func NewMarkerResolver(projectRoot, marker string, perf *config.PerformanceConfig, pm domain.ProgressManager) *MarkerResolver {
	return &MarkerResolver{
		fs:          afs.New(),
		projectRoot: projectRoot,
		marker:      marker,
		executor:    NewParallelExecutorFromConfig(perf).WithProgress(pm, "Checking ignore markers"),
	}
}

// Resolve reads every file once. Any file that cannot be read fails the call.
func (r *MarkerResolver) Resolve(ctx context.Context, files []domain.FileID) (map[domain.FileID]bool, error) {
	result := make(map[domain.FileID]bool, len(files))
	if len(files) == 0 {
		return result, nil
	}

	var mu sync.Mutex
	tasks := make([]domain.ExecutableTask, 0, len(files))
	for _, file := range files {
		tasks = append(tasks, &markerTask{
			resolver: r,
			file:     file,
			record: func(ignored bool) {
				mu.Lock()
				result[file] = ignored
				mu.Unlock()
			},
		})
	}

	if err := r.executor.Execute(ctx, tasks); err != nil {
		var taskErr TaskError
		if errors.As(err, &taskErr) {
			return nil, taskErr.Err
		}
		return nil, err
	}
	return result, nil
}

// Location returns where file is read from
func (r *MarkerResolver) Location(file domain.FileID) string {
	root := r.projectRoot
	if root == "" {
		root = "."
	}
	if strings.Contains(root, "://") {
		return strings.TrimSuffix(root, "/") + "/" + strings.TrimPrefix(string(file), "/")
	}
	location := filepath.Join(root, filepath.FromSlash(string(file)))
	if abs, err := filepath.Abs(location); err == nil {
		return abs
	}
	return location
}

// HasMarker reads the first line of file and checks it for the marker
func (r *MarkerResolver) HasMarker(ctx context.Context, file domain.FileID) (bool, error) {
	location := r.Location(file)
	reader, err := r.fs.OpenURL(ctx, location)
	if err != nil {
		return false, domain.NewFileNotFoundError(location, err)
	}
	defer reader.Close()

	line, err := readFirstLine(reader)
	if err != nil {
		return false, domain.NewInvalidInputError(fmt.Sprintf("failed to read %s", location), err)
	}
	return strings.Contains(line, r.marker), nil
}

// readFirstLine returns the first line, truncated to maxMarkerLine bytes
func readFirstLine(r io.Reader) (string, error) {
	line, err := bufio.NewReaderSize(r, maxMarkerLine).ReadSlice('\n')
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return "", err
	}
	return string(line), nil
}

// markerTask checks a single file
type markerTask struct {
	resolver *MarkerResolver
	file     domain.FileID
	record   func(ignored bool)
}

func (t *markerTask) Name() string {
	return string(t.file)
}

func (t *markerTask) Execute(ctx context.Context) (interface{}, error) {
	ignored, err := t.resolver.HasMarker(ctx, t.file)
	if err != nil {
		return nil, err
	}
	t.record(ignored)
	return ignored, nil
}

func (t *markerTask) IsEnabled() bool {
	return true
}

// StaticIgnoreResolver marks nothing as ignored. It backs --no-ignore.
type StaticIgnoreResolver struct{}

func (StaticIgnoreResolver) Resolve(_ context.Context, files []domain.FileID) (map[domain.FileID]bool, error) {
	result := make(map[domain.FileID]bool, len(files))
	for _, file := range files {
		result[file] = false
	}
	return result, nil
}
