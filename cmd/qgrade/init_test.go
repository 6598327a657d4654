package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/qgrade/internal/config"
)

func runInitCmd(t *testing.T, args ...string) error {
	t.Helper()
	_, _, err := execute(t, append([]string{"init"}, args...)...)
	return err
}

func TestInitCommand_BasicConfigCreation(t *testing.T) {
	dir := isolate(t)
	configPath := filepath.Join(dir, "qgrade.yaml")

	stdout, _, err := execute(t, "init", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Created ")

	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	for _, section := range []string{"input:", "ignore:", "analysis:", "output:", "performance:", "marker: \"validate-ignore\""} {
		assert.Contains(t, string(content), section)
	}

	cfg, err := config.LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Ignore, cfg.Ignore)
	assert.Equal(t, config.GetProjectPresets()[config.ProjectTypeGeneric], cfg.Analysis.ExcludePatterns)
}

func TestInitCommand_DefaultPath(t *testing.T) {
	dir := isolate(t)

	err := runInitCmd(t)

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, ".qgrade.yaml"))
}

func TestInitCommand_ForceOverwrite(t *testing.T) {
	dir := isolate(t)
	configPath := filepath.Join(dir, "qgrade.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("existing: true\n"), 0644))

	err := runInitCmd(t, "--config", configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, "existing: true\n", string(content))

	err = runInitCmd(t, "--config", configPath, "--force")
	require.NoError(t, err)

	content, err = os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# qgrade configuration")
}

func TestInitCommand_Minimal(t *testing.T) {
	dir := isolate(t)
	configPath := filepath.Join(dir, "qgrade.yaml")

	err := runInitCmd(t, "--config", configPath, "--minimal")
	require.NoError(t, err)

	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, config.GetMinimalConfigTemplate(), string(content))
}

func TestInitCommand_MissingDirectory(t *testing.T) {
	dir := isolate(t)

	err := runInitCmd(t, "--config", filepath.Join(dir, "missing", "qgrade.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory does not exist")
}

func TestInitCmd_Flags(t *testing.T) {
	cmd := initCmd()

	for _, name := range []string{"config", "force", "minimal", "interactive"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag --%s", name)
	}
	assert.Equal(t, ".qgrade.yaml", cmd.Flags().Lookup("config").DefValue)
	assert.NotNil(t, cmd.Flags().ShorthandLookup("i"))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"deps.csv", "metrics.csv"}, splitList(" deps.csv, ,metrics.csv "))
	assert.Nil(t, splitList(""))
}
