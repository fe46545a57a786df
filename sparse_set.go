package depot

import (
	"reflect"
	"slices"
)

// storage is the type-erased resource held by every registry cell.
type storage interface {
	componentType() reflect.Type
	isUnique() bool
}

// componentStorage is the type-erased side of a sparseSet.
type componentStorage interface {
	storage
	contains(id EntityID) bool
	indexOf(id EntityID) (int, bool)
	idAt(index int) EntityID
	length() int
	swap(i, j int)
	flag(index int) int
	deleteEntity(id EntityID) bool
	info() *packInfo
}

var _ componentStorage = &sparseSet[struct{}]{}

// sparseSet stores the components of one type: dense ids and data kept in
// matching order, plus a sparse index from entity index to dense position.
type sparseSet[T any] struct {
	typ    reflect.Type
	sparse []uint32
	dense  []EntityID
	data   []T
	pack   packInfo
}

func newSparseSet[T any](bit uint32) *sparseSet[T] {
	return &sparseSet[T]{
		typ:  typeOf[T](),
		pack: packInfo{bit: bit},
	}
}

func (s *sparseSet[T]) componentType() reflect.Type { return s.typ }

func (s *sparseSet[T]) isUnique() bool { return false }

func (s *sparseSet[T]) info() *packInfo { return &s.pack }

func (s *sparseSet[T]) length() int { return len(s.dense) }

func (s *sparseSet[T]) idAt(index int) EntityID { return s.dense[index] }

func (s *sparseSet[T]) indexOf(id EntityID) (int, bool) {
	index := id.Index()
	if index >= uint64(len(s.sparse)) {
		return 0, false
	}
	d := s.sparse[index]
	if int(d) < len(s.dense) && s.dense[d] == id {
		return int(d), true
	}
	return 0, false
}

func (s *sparseSet[T]) contains(id EntityID) bool {
	_, ok := s.indexOf(id)
	return ok
}

func (s *sparseSet[T]) get(id EntityID) *T {
	d, ok := s.indexOf(id)
	if !ok {
		return nil
	}
	return &s.data[d]
}

// insert adds or replaces the component of id. It reports whether an older
// component was replaced.
func (s *sparseSet[T]) insert(id EntityID, value T) bool {
	index := id.Index()
	if index >= uint64(len(s.sparse)) {
		s.sparse = slices.Grow(s.sparse, int(index)+1-len(s.sparse))[:index+1]
	}
	if d := s.sparse[index]; int(d) < len(s.dense) && s.dense[d].Index() == index {
		s.dense[d] = id
		s.data[d] = value
		if s.pack.kind == UpdatePacked {
			s.flag(int(d))
		}
		return true
	}
	s.sparse[index] = uint32(len(s.dense))
	s.dense = append(s.dense, id)
	s.data = append(s.data, value)
	if s.pack.kind == UpdatePacked {
		u := &s.pack.update
		last := len(s.dense) - 1
		s.swap(last, u.inserted+u.modified)
		s.swap(u.inserted+u.modified, u.inserted)
		u.inserted++
	}
	return false
}

func (s *sparseSet[T]) swap(i, j int) {
	if i == j {
		return
	}
	s.dense[i], s.dense[j] = s.dense[j], s.dense[i]
	s.data[i], s.data[j] = s.data[j], s.data[i]
	s.sparse[s.dense[i].Index()] = uint32(i)
	s.sparse[s.dense[j].Index()] = uint32(j)
}

// flag moves an untouched component of an update-packed storage into the
// modified section and returns its new dense position.
func (s *sparseSet[T]) flag(index int) int {
	if s.pack.kind != UpdatePacked {
		return index
	}
	u := &s.pack.update
	edge := u.inserted + u.modified
	if index < edge {
		return index
	}
	s.swap(index, edge)
	u.modified++
	return edge
}

// removeAt swap-removes the component at dense position d. Pack sections
// must already have been shrunk by the caller for tight and loose packs.
func (s *sparseSet[T]) removeAt(d int) T {
	if s.pack.kind == UpdatePacked {
		u := &s.pack.update
		if d < u.inserted {
			s.swap(d, u.inserted-1)
			s.swap(u.inserted-1, u.inserted+u.modified-1)
			u.inserted--
			d = u.inserted + u.modified
		} else if d < u.inserted+u.modified {
			s.swap(d, u.inserted+u.modified-1)
			u.modified--
			d = u.inserted + u.modified
		}
		u.removed = append(u.removed, s.dense[d])
	}
	last := len(s.dense) - 1
	s.swap(d, last)
	value := s.data[last]
	var zero T
	s.data[last] = zero
	s.dense = s.dense[:last]
	s.data = s.data[:last]
	return value
}

func (s *sparseSet[T]) remove(id EntityID) (T, bool) {
	d, ok := s.indexOf(id)
	if !ok {
		var zero T
		return zero, false
	}
	return s.removeAt(d), true
}

func (s *sparseSet[T]) deleteEntity(id EntityID) bool {
	_, ok := s.remove(id)
	return ok
}

func (s *sparseSet[T]) inserted() []T {
	if s.pack.kind != UpdatePacked {
		return nil
	}
	return s.data[:s.pack.update.inserted]
}

func (s *sparseSet[T]) modified() []T {
	if s.pack.kind != UpdatePacked {
		return nil
	}
	u := s.pack.update
	return s.data[u.inserted : u.inserted+u.modified]
}

func (s *sparseSet[T]) insertedOrModified() []T {
	if s.pack.kind != UpdatePacked {
		return nil
	}
	u := s.pack.update
	return s.data[:u.inserted+u.modified]
}

// clearInserted folds the inserted section into the untouched one. The
// inserted block is rotated past the modified block so sections stay
// contiguous.
func (s *sparseSet[T]) clearInserted() {
	if s.pack.kind != UpdatePacked {
		return
	}
	u := &s.pack.update
	if u.inserted == 0 {
		return
	}
	if u.modified == 0 {
		u.inserted = 0
		return
	}
	edge := u.inserted + u.modified
	for i := 0; i < u.inserted && edge-1-i >= u.inserted; i++ {
		s.swap(i, edge-1-i)
	}
	u.inserted = 0
}

func (s *sparseSet[T]) clearModified() {
	if s.pack.kind != UpdatePacked {
		return
	}
	s.pack.update.modified = 0
}

func (s *sparseSet[T]) takeRemoved() []EntityID {
	if s.pack.kind != UpdatePacked {
		return nil
	}
	removed := s.pack.update.removed
	s.pack.update.removed = nil
	return removed
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
