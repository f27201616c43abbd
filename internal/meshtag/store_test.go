package meshtag

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phtnsrc/internal/errs"
	"phtnsrc/internal/mesh"
)

func twoCells() mesh.Geometry {
	g := mesh.Default
	g[0].Max = 2
	g[0].Intervals = 2
	return g
}

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "phtn_src.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestTagRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	require.NoError(t, s.Init(ctx, twoCells()))

	cells := [][]float64{{1, 2, 3}, {4, 5, 6}}
	require.NoError(t, s.Tag(ctx, "phtn_src", cells, false))

	got, err := s.Values(ctx, "phtn_src")
	require.NoError(t, err)
	assert.Equal(t, cells, got)

	ok, err := s.Has(ctx, "phtn_src")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTagExistsWithoutReplace(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	require.NoError(t, s.Init(ctx, twoCells()))
	require.NoError(t, s.Tag(ctx, "phtn_src", [][]float64{{1}, {2}}, false))

	err := s.Tag(ctx, "phtn_src", [][]float64{{9}, {9}}, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrAlreadyExists))

	got, err := s.Values(ctx, "phtn_src")
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1}, {2}}, got, "failed tag must not modify data")

	require.NoError(t, s.Tag(ctx, "phtn_src", [][]float64{{7, 8}, {9, 10}}, true))
	got, err = s.Values(ctx, "phtn_src")
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{7, 8}, {9, 10}}, got)
}

func TestTagScalarsAndNames(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	require.NoError(t, s.Init(ctx, twoCells()))
	require.NoError(t, s.Tag(ctx, "phtn_src", [][]float64{{1, 1}, {3, 1}}, false))
	require.NoError(t, s.TagScalars(ctx, "phtn_src_total", []float64{2, 4}, false))

	names, err := s.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"phtn_src", "phtn_src_total"}, names)

	got, err := s.Values(ctx, "phtn_src_total")
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{2}, {4}}, got)
}

func TestValuesUnknownTag(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	require.NoError(t, s.Init(ctx, twoCells()))
	_, err := s.Values(ctx, "missing")
	assert.True(t, errs.IsLookup(err))
}

func TestTagCellCountMismatch(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	require.NoError(t, s.Init(ctx, twoCells()))
	err := s.Tag(ctx, "phtn_src", [][]float64{{1}}, false)
	assert.True(t, errors.Is(err, errs.ErrGeometryMismatch))
}

func TestTagBeforeInit(t *testing.T) {
	s := openTemp(t)
	err := s.Tag(context.Background(), "phtn_src", [][]float64{{1}}, false)
	assert.True(t, errors.Is(err, errs.ErrPrecondition))
}

func TestInitKeepsGrid(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "m.db")
	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Init(ctx, twoCells()))
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Init(ctx, twoCells()), "same grid is accepted again")

	g, ok, err := s.Geometry(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, twoCells(), g)

	err = s.Init(ctx, mesh.Default)
	assert.True(t, errors.Is(err, errs.ErrGeometryMismatch))
}
