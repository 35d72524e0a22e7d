package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryAddGet(t *testing.T) {
	reg := NewRegistry[*MeshData]("mesh")
	cube := &MeshData{Name: "cube"}

	reg.Add("cube", cube)

	got, err := reg.Get("cube")
	require.NoError(t, err)
	assert.Same(t, cube, got)
	assert.True(t, reg.Has("cube"))
	assert.Equal(t, 1, reg.Len())
}

func TestRegistryMissingKey(t *testing.T) {
	reg := NewRegistry[*Program]("shader")

	got, err := reg.Get("missing")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `shader "missing" not registered`)
}

func TestRegistryKeysSorted(t *testing.T) {
	reg := NewRegistry[int]("number")
	reg.Add("zeta", 1)
	reg.Add("alpha", 2)
	reg.Add("mid", 3)

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, reg.Keys())

	reg.Remove("mid")
	assert.Equal(t, []string{"alpha", "zeta"}, reg.Keys())
}

func TestRegistryInstancesAreIndependent(t *testing.T) {
	a := NewRegistry[int]("a")
	b := NewRegistry[int]("b")

	a.Add("x", 1)

	assert.False(t, b.Has("x"))
}
