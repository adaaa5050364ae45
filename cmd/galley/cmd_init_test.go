package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkproof/galley/internal/projectconfig"
)

func TestInitCommand_Defaults(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "my-project")

	var buf bytes.Buffer
	cmd := newInitCommand()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{target, "--defaults"})
	require.NoError(t, cmd.Execute())

	configPath := filepath.Join(target, projectconfig.ConfigFileName)
	assert.FileExists(t, configPath)
	assert.Contains(t, buf.String(), configPath)

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "model: "+projectconfig.DefaultModel)
	assert.Contains(t, content, "backend: local")

	// The written file must load back cleanly.
	cfg, err := projectconfig.Load(target)
	require.NoError(t, err)
	assert.Equal(t, projectconfig.DefaultModel, cfg.Model)
	assert.Equal(t, projectconfig.DefaultMaxWorkers, cfg.MaxWorkers)
}

func TestInitCommand_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()

	cmd1 := newInitCommand()
	cmd1.SetOut(&bytes.Buffer{})
	cmd1.SetArgs([]string{dir, "--defaults"})
	require.NoError(t, cmd1.Execute())

	cmd2 := newInitCommand()
	cmd2.SetOut(&bytes.Buffer{})
	cmd2.SetErr(&bytes.Buffer{})
	cmd2.SetArgs([]string{dir, "--defaults"})

	err := cmd2.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInitCommand_ForceOverwrites(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, projectconfig.ConfigFileName)
	require.NoError(t, os.WriteFile(configPath, []byte("model: stale\n"), 0o644))

	cmd := newInitCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{dir, "--defaults", "--force"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "model: "+projectconfig.DefaultModel)
}

func TestInitCommand_TooManyArgs(t *testing.T) {
	cmd := newInitCommand()
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"a", "b"})
	assert.Error(t, cmd.Execute())
}
