package linker_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmunix/hardbound/internal/linker"
)

func TestNewOwnership(t *testing.T) {
	o, err := linker.NewOwnership(0644, 0755, "", "")
	require.NoError(t, err)
	assert.Equal(t, -1, o.UID)
	assert.Equal(t, -1, o.GID)

	o, err = linker.NewOwnership(0, 0, "1000", "100")
	require.NoError(t, err)
	assert.Equal(t, 1000, o.UID)
	assert.Equal(t, 100, o.GID)

	_, err = linker.NewOwnership(0, 0, "no-such-user-hardbound", "")
	assert.Error(t, err)
}

func TestOwnership_ApplyDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "d")
	require.NoError(t, os.Mkdir(dir, 0700))

	o := &linker.Ownership{DirMode: 0750, UID: -1, GID: -1}
	require.NoError(t, o.ApplyDir(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0750), info.Mode().Perm())
}

func TestOwnership_ZeroValueModesAreNoops(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	writeFile(t, path, "x")

	o := &linker.Ownership{UID: -1, GID: -1}
	require.NoError(t, o.ApplyFile(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}
