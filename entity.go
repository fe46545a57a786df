package depot

import (
	"fmt"
	"math"
)

const (
	genBits   = 16
	indexMask = 1<<48 - 1
	maxGen    = math.MaxUint16
)

// EntityID identifies an entity. The high 48 bits are the slot index, the low
// 16 bits the generation of that slot, so ids order by index first.
type EntityID uint64

// Dead is never handed out to a live entity.
const Dead EntityID = math.MaxUint64

func newEntityID(index uint64, gen uint16) EntityID {
	return EntityID((index&indexMask)<<genBits | uint64(gen))
}

func (id EntityID) Index() uint64 {
	return uint64(id) >> genBits
}

func (id EntityID) Gen() uint16 {
	return uint16(id)
}

func (id EntityID) String() string {
	if id == Dead {
		return "EntityID(dead)"
	}
	return fmt.Sprintf("EntityID(%d.%d)", id.Index(), id.Gen())
}

// entities is the entity registry: one slot per index, the slot holds the
// id currently (or next) living there.
type entities struct {
	data    []EntityID
	alive   []bool
	free    []uint64
	retired int
}

func newEntities() *entities {
	return &entities{}
}

func (e *entities) add() EntityID {
	if n := len(e.free); n > 0 {
		index := e.free[n-1]
		e.free = e.free[:n-1]
		e.alive[index] = true
		return e.data[index]
	}
	id := newEntityID(uint64(len(e.data)), 0)
	e.data = append(e.data, id)
	e.alive = append(e.alive, true)
	return id
}

func (e *entities) isAlive(id EntityID) bool {
	index := id.Index()
	return id != Dead && index < uint64(len(e.data)) && e.alive[index] && e.data[index] == id
}

// delete frees the slot of id. A slot whose generation is exhausted is
// retired instead of being reused.
func (e *entities) delete(id EntityID) bool {
	if !e.isAlive(id) {
		return false
	}
	index := id.Index()
	e.alive[index] = false
	if id.Gen() == maxGen {
		e.data[index] = Dead
		e.retired++
		return true
	}
	e.data[index] = newEntityID(index, id.Gen()+1)
	e.free = append(e.free, index)
	return true
}

func (e *entities) len() int {
	return len(e.data) - len(e.free) - e.retired
}

// each calls fn for every live entity, in index order.
func (e *entities) each(fn func(EntityID) bool) {
	for i, id := range e.data {
		if e.alive[i] && !fn(id) {
			return
		}
	}
}
