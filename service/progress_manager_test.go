package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ludo-technologies/qgrade/domain"
)

func TestNewProgressManager_Disabled(t *testing.T) {
	pm := NewProgressManager(false)

	assert.False(t, pm.IsInteractive())
	assert.IsType(t, &NoOpProgressManager{}, pm)
}

func TestIsInteractiveEnvironment_FalseInCI(t *testing.T) {
	t.Setenv("CI", "true")

	assert.False(t, IsInteractiveEnvironment())
	assert.False(t, NewProgressManager(true).IsInteractive())
}

func TestNoOpProgressManager(t *testing.T) {
	pm := &NoOpProgressManager{}
	task := pm.StartTask("test", 100)

	task.Increment(10)
	task.Describe("testing")
	task.Complete()
	pm.Close()

	var _ domain.ProgressManager = pm
	var _ domain.TaskProgress = &NoOpTaskProgress{}
}

func TestProgressManagerImpl_WritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	pm := NewProgressManagerWithWriter(&buf)

	task := pm.StartTask("Checking ignore markers", 2)
	task.Increment(1)
	task.Describe("Checking src/lib.rs")
	task.Increment(1)
	pm.Close()

	assert.True(t, pm.IsInteractive())
	assert.NotEmpty(t, buf.String())
	var _ domain.TaskProgress = task
}
