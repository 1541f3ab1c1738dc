package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FERN_CONFIG_DIR", dir)
	t.Setenv("FERN_CONFIG", "")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "unicode", c.UI.Glyphs)
	assert.False(t, c.UI.ShowHidden)
	assert.True(t, c.UI.ShowLog)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, filepath.Join(dir, "marks.sqlite"), c.Marks.Path)
	assert.Empty(t, c.Metrics.Addr)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FERN_CONFIG_DIR", dir)
	path := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[ui]
glyphs = "ascii"
dirs_first = true

[log]
level = "debug"

[keys]
down = ["j", "ctrl+n"]
`), 0o644))
	t.Setenv("FERN_LOG_LEVEL", "warn")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ascii", c.UI.Glyphs)
	assert.True(t, c.UI.DirsFirst)
	assert.Equal(t, "warn", c.Log.Level)
	assert.Equal(t, []string{"j", "ctrl+n"}, c.Keys["down"])
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	t.Setenv("FERN_CONFIG_DIR", t.TempDir())
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FERN_CONFIG_DIR", dir)
	path := filepath.Join(dir, "nested", "config.toml")

	in := Config{
		UI:    UIConfig{Glyphs: "ascii", ShowHidden: true, ShowLog: false},
		Log:   LogConfig{Level: "error"},
		Marks: MarksConfig{Path: filepath.Join(dir, "m.sqlite")},
	}
	require.NoError(t, Save(in, path))

	out, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, in.UI, out.UI)
	assert.Equal(t, in.Log.Level, out.Log.Level)
	assert.Equal(t, in.Marks.Path, out.Marks.Path)
}
