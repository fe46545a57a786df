package depot

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemRegistryBasicOperations(t *testing.T) {
	r := FactoryNewSystemRegistry(10)
	names := []string{"spawn", "move", "render"}

	for i, name := range names {
		index, err := r.Register(name, func(*Scope) error { return nil })
		require.NoError(t, err)
		assert.Equal(t, i, index)
	}
	assert.Equal(t, len(names), r.Len())

	for i, name := range names {
		index, found := r.GetIndex(name)
		require.True(t, found)
		assert.Equal(t, i, index)
		assert.NotNil(t, r.GetItem(index))
		sys, ok := r.Lookup(name)
		assert.True(t, ok)
		assert.NotNil(t, sys)
	}

	_, found := r.GetIndex("nonexistent")
	assert.False(t, found)
	_, ok := r.Lookup("nonexistent")
	assert.False(t, ok)
}

func TestSystemRegistryCapacity(t *testing.T) {
	const capacity = 5
	r := FactoryNewSystemRegistry(capacity)
	for i := range capacity {
		_, err := r.Register(fmt.Sprintf("system%d", i), func(*Scope) error { return nil })
		require.NoError(t, err)
	}

	_, err := r.Register("overflow", func(*Scope) error { return nil })
	assert.Equal(t, RegistryError{Kind: RegistryFull, Name: "overflow"}, err)

	_, err = r.Register("system0", func(*Scope) error { return nil })
	assert.Equal(t, RegistryError{Kind: DuplicateSystem, Name: "system0"}, err)
	assert.Equal(t, capacity, r.Len())
}

func TestSystemRegistryResolve(t *testing.T) {
	r := FactoryNewSystemRegistry(0)
	calls := 0
	_, err := r.Register("count", func(*Scope) error { calls++; return nil })
	require.NoError(t, err)

	systems, err := r.resolve([]string{"count", "count"})
	require.NoError(t, err)
	require.Len(t, systems, 2)
	for _, sys := range systems {
		require.NoError(t, sys(nil))
	}
	assert.Equal(t, 2, calls)

	_, err = r.resolve([]string{"count", "missing"})
	assert.Equal(t, RegistryError{Kind: UnknownSystem, Name: "missing"}, err)
	assert.Contains(t, err.Error(), `"missing"`)
}
