package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("JOBSH_PROMPT", "")
	t.Setenv("JOBSH_DEBUG", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.True(t, cfg.Notify)
	assert.True(t, cfg.History.Enabled)
}

func TestLoadFile(t *testing.T) {
	t.Setenv("JOBSH_PROMPT", "")
	t.Setenv("JOBSH_DEBUG", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
prompt: "%W $ "
quiet: true
notify: false
history:
  enabled: false
  path: /tmp/h.sqlite
  max_entries: 50
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "%W $ ", cfg.Prompt)
	assert.True(t, cfg.Quiet)
	assert.False(t, cfg.Debug)
	assert.False(t, cfg.Notify)
	assert.Equal(t, HistoryConfig{Enabled: false, Path: "/tmp/h.sqlite", MaxEntries: 50}, cfg.History)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	t.Setenv("JOBSH_PROMPT", "")
	t.Setenv("JOBSH_DEBUG", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("quiet: true\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Quiet)
	assert.True(t, cfg.Notify)
	assert.Equal(t, DefaultConfig().History, cfg.History)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("JOBSH_PROMPT", "env> ")
	t.Setenv("JOBSH_DEBUG", "1")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prompt: file>\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env> ", cfg.Prompt)
	assert.True(t, cfg.Debug)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("quiet: [unclosed\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
