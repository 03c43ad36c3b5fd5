package renderer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-engine/internal/engine/material"
)

type fakeProgram struct {
	key      ProgramKey
	released bool
}

func TestProgramCacheBuildsOnce(t *testing.T) {
	var built []ProgramKey
	c := NewProgramCache(func(k ProgramKey) (*fakeProgram, error) {
		built = append(built, k)
		return &fakeProgram{key: k}, nil
	}, func(p *fakeProgram) { p.released = true })

	solidDeferred := ProgramKey{Kind: material.KindSolid, Path: PathDeferred}
	solidForward := ProgramKey{Kind: material.KindSolid, Path: PathForward}

	a, err := c.Get(solidDeferred)
	require.NoError(t, err)
	b, err := c.Get(solidDeferred)
	require.NoError(t, err)
	assert.Same(t, a, b)

	f, err := c.Get(solidForward)
	require.NoError(t, err)
	assert.NotSame(t, a, f)

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 2, c.Builds())
	assert.Equal(t, []ProgramKey{solidDeferred, solidForward}, built)

	c.Close()
	assert.Equal(t, 0, c.Len())
	assert.True(t, a.released)
	assert.True(t, f.released)
}

func TestProgramCacheFailure(t *testing.T) {
	boom := errors.New("link failed")
	c := NewProgramCache(func(ProgramKey) (*fakeProgram, error) {
		return nil, boom
	}, nil)

	key := ProgramKey{Kind: material.KindGlass, Path: PathForward}
	_, err := c.Get(key)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "glass/forward")

	_, err = c.Get(key)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, c.Builds(), "failures are not retried")
	assert.Equal(t, 0, c.Len())
}
