package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", cfg.Tidal.TokenType)
	assert.Equal(t, 3, cfg.Player.BufferLimit)
	assert.Equal(t, 44100, cfg.Player.SampleRate)
	assert.True(t, cfg.GUI.DisplayCoverBackground)
	assert.False(t, cfg.ExporterFTP.Enabled)
}

func TestLoad_ReadsPresentSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	contents := "[Tidal]\naccess_token = abc123\n\n[Player]\nbuffer_limit = 5\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "abc123", cfg.Tidal.AccessToken)
	assert.Equal(t, 5, cfg.Player.BufferLimit)
}

func TestSave_WritesOnlyTidalSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	cfg, err := Load(path)
	require.NoError(t, err)
	cfg.Tidal.AccessToken = "new-token"
	cfg.Player.BufferLimit = 7

	require.NoError(t, cfg.Save())

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "new-token", reloaded.Tidal.AccessToken)
	assert.Equal(t, 3, reloaded.Player.BufferLimit, "[Player] must not be written back")
}
