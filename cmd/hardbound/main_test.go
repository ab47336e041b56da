package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmunix/hardbound/internal/linker"
	"github.com/vmunix/hardbound/pkg/red"
)

const overlord = "Overlord vol_13 {ASIN.B0CW3NF5NY}"

// env is a throwaway library, torrent root and config file.
type env struct {
	root    string
	library string
	torrent string
	config  string
}

func newEnv(t *testing.T) env {
	t.Helper()
	root := t.TempDir()
	e := env{
		root:    root,
		library: filepath.Join(root, "library"),
		torrent: filepath.Join(root, "torrents"),
		config:  filepath.Join(root, "config.toml"),
	}
	require.NoError(t, os.MkdirAll(e.library, 0755))
	require.NoError(t, os.MkdirAll(e.torrent, 0755))
	require.NoError(t, os.WriteFile(e.config, []byte(`
[paths]
library = "`+e.library+`"
torrent = "`+e.torrent+`"
history_db = "`+filepath.Join(root, "history.db")+`"

[link]
preflight = true
`), 0644))
	return e
}

// book creates a library folder with an audio file and a cover.
func (e env) book(t *testing.T, name string) string {
	t.Helper()
	dir := filepath.Join(e.library, name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "book.m4b"), []byte("audio"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "folder.jpg"), []byte("img"), 0644))
	return dir
}

func (e env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return execute(t, append([]string{"--config", e.config}, args...)...)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "hardbound dev\n", out)
}

func TestParse_JSON(t *testing.T) {
	out, err := execute(t, "parse", "--json", "--ext", ".m4b",
		"Mob Psycho vol_3 Side Story (2021) (ONE) {ASIN.B0C34GQRYZ} [User].m4b")
	require.NoError(t, err)

	var got tokensJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, tokensJSON{
		Title:     "Mob Psycho",
		Volume:    "vol_03",
		Subtitle:  "Side Story",
		Year:      "(2021)",
		Author:    "(ONE)",
		ASIN:      "{ASIN.B0C34GQRYZ}",
		Tag:       "[User]",
		Extension: ".m4b",
	}, got)
}

func TestParse_Text(t *testing.T) {
	out, err := execute(t, "parse", overlord)
	require.NoError(t, err)
	assert.Contains(t, out, "Parsing: "+overlord)
	assert.Contains(t, out, "vol_13")
	assert.Contains(t, out, "(none)")
}

func TestParse_MissingASIN(t *testing.T) {
	_, err := execute(t, "parse", "Overlord vol_13")
	assert.ErrorIs(t, err, red.ErrMissingASIN)
}

func TestPaths_JSON(t *testing.T) {
	e := newEnv(t)
	src := e.book(t, overlord)

	out, err := e.run(t, "paths", "--json", src, e.torrent)
	require.NoError(t, err)

	var got resolutionJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, overlord, got.Folder)
	assert.Equal(t, overlord+".m4b", got.File)
	assert.Equal(t, filepath.Join(e.torrent, overlord), got.Dir)
	assert.Equal(t, "filename", got.Phase)
	assert.Equal(t, 180, got.Cap)
	assert.True(t, got.Fits)
}

func TestLink_DryRunThenCommit(t *testing.T) {
	e := newEnv(t)
	src := e.book(t, overlord)
	dst := filepath.Join(e.root, "out", overlord)

	out, err := e.run(t, "link", "--src", overlord, "--dst", dst)
	require.NoError(t, err)
	assert.Contains(t, out, "[DRY-RUN]")
	assert.Contains(t, out, "linked: 2")
	assert.NoDirExists(t, dst)

	out, err = e.run(t, "link", "--src", overlord, "--dst", dst, "--commit")
	require.NoError(t, err)
	assert.Contains(t, out, "[COMMIT]")
	assert.True(t, linker.SameInode(filepath.Join(src, "book.m4b"), filepath.Join(dst, overlord+".m4b")))
	assert.True(t, linker.SameInode(filepath.Join(src, "folder.jpg"), filepath.Join(dst, overlord+".jpg")))

	out, err = e.run(t, "history", "--json")
	require.NoError(t, err)
	var runs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &runs))
	require.Len(t, runs, 2)
	assert.Equal(t, false, runs[0]["DryRun"])
	assert.Len(t, runs[0]["RunID"], 36)
	assert.NotEqual(t, runs[0]["RunID"], runs[1]["RunID"])
	assert.Equal(t, true, runs[1]["DryRun"])

	out, err = e.run(t, "history", "--sources")
	require.NoError(t, err)
	assert.Equal(t, src+"\n", out)
}

func TestLink_RED(t *testing.T) {
	e := newEnv(t)
	src := e.book(t, overlord)

	_, err := e.run(t, "link", "--src", src, "--dst-root", e.torrent, "--commit")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(e.torrent, overlord, overlord+".m4b"))
}

func TestLink_MissingSourceSuggests(t *testing.T) {
	e := newEnv(t)
	e.book(t, overlord)

	out, err := e.run(t, "link", "--src", "Overlord vol_14 {ASIN.B0CW3NF5NY}",
		"--dst", filepath.Join(e.root, "out"))
	require.ErrorIs(t, err, linker.ErrSourceMissing)
	assert.Contains(t, out, "did you mean:")
	assert.Contains(t, out, filepath.Join(e.library, overlord))
}

func TestLink_RequiresOneDestination(t *testing.T) {
	e := newEnv(t)
	_, err := e.run(t, "link", "--src", overlord)
	assert.Error(t, err)

	_, err = e.run(t, "link", "--src", overlord, "--dst", "/a", "--dst-root", "/b")
	assert.Error(t, err)
}

func TestBatch_ContinuesPastBadLine(t *testing.T) {
	e := newEnv(t)
	src := e.book(t, overlord)
	dst := filepath.Join(e.root, "out", overlord)
	list := filepath.Join(e.root, "batch.txt")
	require.NoError(t, os.WriteFile(list, []byte("# books\nnot a pair\n"+src+"|"+dst+"\n"), 0644))

	out, err := e.run(t, "batch", list, "--commit")
	require.ErrorIs(t, err, errFailures)
	assert.Contains(t, out, "line 2: bad line")
	assert.Contains(t, out, "linked: 2")
	assert.FileExists(t, filepath.Join(dst, overlord+".m4b"))
}

func TestBatch_Check(t *testing.T) {
	e := newEnv(t)
	src := e.book(t, overlord)
	list := filepath.Join(e.root, "batch.txt")
	require.NoError(t, os.WriteFile(list, []byte(
		src+"|"+e.torrent+"\n"+filepath.Join(e.library, "Overlord vol_14")+"|"+e.torrent+"\n"), 0644))

	out, err := e.run(t, "batch", list, "--red", "--check")
	require.ErrorIs(t, err, errFailures)
	assert.Contains(t, out, "line 2:")
	assert.Contains(t, out, "problems: 1")
	assert.NoDirExists(t, filepath.Join(e.torrent, overlord))
}

func TestBatch_MissingFile(t *testing.T) {
	e := newEnv(t)
	_, err := e.run(t, "batch", filepath.Join(e.root, "nope.txt"))
	assert.ErrorContains(t, err, "open batch file")
}

func TestConfig_InitAndTest(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HARDBOUND_LIBRARY", dir)
	t.Setenv("HARDBOUND_TORRENT", dir)
	path := filepath.Join(dir, "hardbound", "config.toml")

	out, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	_, err = execute(t, "config", "init", path)
	assert.ErrorContains(t, err, "already exists")

	out, err = execute(t, "config", "test", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid!")
	assert.Contains(t, out, "Path cap:   180")
}

func TestConfig_TestReportsErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[log]\nlevel = \"loud\"\n[paths]\nlibrary = \"${HB_UNSET_LIBRARY}\"\n"), 0644))

	out, err := execute(t, "config", "test", path)
	assert.ErrorContains(t, err, "configuration invalid")
	assert.Contains(t, out, "HB_UNSET_LIBRARY")
	assert.Contains(t, out, "log.level")
}
