// internal/config/load_test.go
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Valid(t *testing.T) {
	tmp := t.TempDir()
	path := writeConfig(t, `
[paths]
library = "`+tmp+`"
torrent = "`+tmp+`"

[link]
zero_pad = true
path_cap = 150
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, tmp, cfg.Paths.Library)
	assert.True(t, cfg.Link.ZeroPad)
	assert.Equal(t, 150, cfg.Link.PathCap)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	cfg, err := Load(writeConfig(t, "[link]\nforce = true\n"))
	require.NoError(t, err)

	assert.Equal(t, 180, cfg.Link.PathCap)
	assert.True(t, cfg.Link.ZeroPad)
	assert.True(t, cfg.Link.Preflight)
	assert.True(t, cfg.Link.Force)
	assert.Equal(t, []string{"cover.jpg", "metadata.json"}, cfg.Link.ExcludeNames)
	assert.Equal(t, []string{".epub"}, cfg.Link.ExcludeExts)
	assert.Equal(t, "0644", cfg.Ownership.FileMode)
	assert.Equal(t, "0755", cfg.Ownership.DirMode)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "/data/hardbound/history.db", cfg.Paths.HistoryDB)
}

func TestLoad_EmptyListsAreKept(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[paths]
history_db = ""

[link]
exclude_names = []
`))
	require.NoError(t, err)

	assert.Empty(t, cfg.Link.ExcludeNames, "an explicit empty list disables name exclusions")
	assert.Equal(t, []string{".epub"}, cfg.Link.ExcludeExts)
	assert.Empty(t, cfg.Paths.HistoryDB)
}

func TestLoad_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg, err := LoadWithoutValidation(writeConfig(t, "[paths]\nhistory_db = \"~/hb/history.db\"\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "hb", "history.db"), cfg.Paths.HistoryDB)
}

func TestLoad_MissingEnvVar(t *testing.T) {
	path := writeConfig(t, `
[paths]
torrent = "${HARDBOUND_TEST_MISSING_TORRENT}"
`)

	_, err := Load(path)
	require.Error(t, err)

	var cerr *ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, []string{"HARDBOUND_TEST_MISSING_TORRENT"}, cerr.Missing)
	assert.Equal(t, path, cerr.Path)
}

func TestLoad_ValidationError(t *testing.T) {
	_, err := Load(writeConfig(t, "[log]\nlevel = \"chatty\"\n"))
	require.Error(t, err)
	if !strings.Contains(err.Error(), "log.level") {
		t.Errorf("expected log.level in error, got %v", err)
	}
}

func TestLoad_ParseError(t *testing.T) {
	_, err := Load(writeConfig(t, "[link\n"))
	assert.ErrorContains(t, err, "parsing config")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadWithoutValidation(t *testing.T) {
	cfg, err := LoadWithoutValidation(writeConfig(t, "[link]\npath_cap = -5\n"))
	require.NoError(t, err)
	assert.Equal(t, -5, cfg.Link.PathCap)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 180, cfg.Link.PathCap)
	assert.True(t, cfg.Link.Preflight)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Validate())
}

func TestOwnershipConfig_Modes(t *testing.T) {
	file, dir, err := OwnershipConfig{FileMode: "0640", DirMode: "0o750"}.Modes()
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0640), file)
	assert.Equal(t, os.FileMode(0750), dir)

	_, _, err = OwnershipConfig{FileMode: "rw-r--r--", DirMode: "0755"}.Modes()
	assert.ErrorContains(t, err, "ownership.file_mode")

	_, _, err = OwnershipConfig{FileMode: "0644", DirMode: "99"}.Modes()
	assert.ErrorContains(t, err, "ownership.dir_mode")
}
