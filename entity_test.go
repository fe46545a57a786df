package depot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityIDLayout(t *testing.T) {
	id := newEntityID(42, 7)
	assert.Equal(t, uint64(42), id.Index())
	assert.Equal(t, uint16(7), id.Gen())
	assert.Equal(t, "EntityID(42.7)", id.String())
	assert.Equal(t, "EntityID(dead)", Dead.String())
}

func TestEntityIDOrdersByIndex(t *testing.T) {
	ents := newEntities()
	a := ents.add()
	b := ents.add()
	require.True(t, ents.delete(a))
	reused := ents.add()
	require.Equal(t, a.Index(), reused.Index())
	assert.Less(t, reused, b)
	assert.Less(t, newEntityID(0, maxGen), newEntityID(1, 0))
	assert.Less(t, newEntityID(3, 1), newEntityID(3, 2))
}

func TestEntitiesReuseSlots(t *testing.T) {
	ents := newEntities()
	a := ents.add()
	b := ents.add()
	c := ents.add()
	assert.Equal(t, []uint64{0, 1, 2}, []uint64{a.Index(), b.Index(), c.Index()})
	assert.Equal(t, 3, ents.len())

	require.True(t, ents.delete(b))
	assert.False(t, ents.delete(b))
	assert.False(t, ents.isAlive(b))
	assert.Equal(t, 2, ents.len())

	reused := ents.add()
	assert.Equal(t, b.Index(), reused.Index())
	assert.Equal(t, b.Gen()+1, reused.Gen())
	assert.True(t, ents.isAlive(reused))
	assert.False(t, ents.isAlive(b))
}

func TestEntitiesRetireExhaustedSlot(t *testing.T) {
	ents := newEntities()
	ents.add()
	ents.data[0] = newEntityID(0, maxGen)
	last := ents.data[0]

	require.True(t, ents.delete(last))
	assert.Equal(t, Dead, ents.data[0])
	assert.Equal(t, 0, ents.len())

	next := ents.add()
	assert.Equal(t, uint64(1), next.Index())
	assert.Equal(t, 1, ents.len())
}

func TestEntitiesEach(t *testing.T) {
	ents := newEntities()
	ids := []EntityID{ents.add(), ents.add(), ents.add()}
	ents.delete(ids[1])

	var seen []EntityID
	ents.each(func(id EntityID) bool {
		seen = append(seen, id)
		return true
	})
	assert.Equal(t, []EntityID{ids[0], ids[2]}, seen)

	seen = seen[:0]
	ents.each(func(id EntityID) bool {
		seen = append(seen, id)
		return false
	})
	assert.Len(t, seen, 1)
	assert.False(t, ents.isAlive(Dead))
}
