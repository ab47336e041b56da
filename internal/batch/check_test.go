package batch_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmunix/hardbound/internal/batch"
	"github.com/vmunix/hardbound/internal/linker"
	"github.com/vmunix/hardbound/pkg/red"
)

func TestCheck_RED(t *testing.T) {
	root := t.TempDir()
	good := filepath.Join(root, "lib", "Mob Psycho vol_3 (ONE) {ASIN.B0C34GQRYZ}")
	noASIN := filepath.Join(root, "lib", "No Asin vol_1")
	long := filepath.Join(root, "lib", "T vol_"+strings.Repeat("1", 90)+" {ASIN.BBBBBBBBBB}")
	for _, dir := range []string{good, noASIN, long} {
		writeFile(t, filepath.Join(dir, "a.m4b"), "a")
	}
	dstRoot := filepath.Join(root, "torrents")
	pairs := []batch.Pair{
		{Line: 1, Src: good, Dst: dstRoot},
		{Line: 2, Src: noASIN, Dst: dstRoot},
		{Line: 3, Src: filepath.Join(root, "lib", "gone"), Dst: dstRoot},
		{Line: 4, Src: long, Dst: dstRoot},
	}

	l := linker.New(testLogger(), nil, linker.DefaultPolicy())
	r := batch.NewRunner(testLogger(), l, nil, batch.ModeRED, red.NewResolver(testLogger(), red.PathCap))

	problems, err := r.Check(context.Background(), pairs, 2)
	require.NoError(t, err)
	require.Len(t, problems, 3)

	assert.Equal(t, 2, problems[0].Pair.Line)
	assert.ErrorIs(t, problems[0].Err, red.ErrMissingASIN)
	assert.Equal(t, 3, problems[1].Pair.Line)
	assert.ErrorIs(t, problems[1].Err, linker.ErrSourceMissing)
	assert.Equal(t, 4, problems[2].Pair.Line)
	assert.ErrorIs(t, problems[2].Err, batch.ErrOverCap)

	assert.NoDirExists(t, dstRoot, "check never creates anything")
}

func TestCheck_Direct(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "lib", "A")
	writeFile(t, filepath.Join(src, "a.m4b"), "a")

	r := batch.NewRunner(testLogger(), linker.New(testLogger(), nil, linker.DefaultPolicy()), nil, batch.ModeDirect, nil)
	problems, err := r.Check(context.Background(), []batch.Pair{
		{Line: 1, Src: src, Dst: filepath.Join(root, "out", "A")},
		{Line: 2, Src: "No Asin", Dst: filepath.Join(root, "out", "B")},
	}, 0)
	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Equal(t, 2, problems[0].Pair.Line)
}

func TestCheck_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := batch.NewRunner(testLogger(), linker.New(testLogger(), nil, linker.DefaultPolicy()), nil, batch.ModeDirect, nil)
	_, err := r.Check(ctx, []batch.Pair{{Line: 1, Src: "/a", Dst: "/b"}}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
