package depot

import (
	"iter"
	"reflect"

	"github.com/TheBitDrifter/mask"
)

// abstractView is what iterators need from a view: the storage and whether
// yielded items may be written to.
type abstractView[T any] struct {
	set *sparseSet[T]
	mut bool
}

// View is a shared borrow of the storage of T.
type View[T any] struct {
	set *sparseSet[T]
	ref storageRef
}

func GetView[T any](w *World) (*View[T], error) {
	ref, err := w.borrowStorage(typeOf[T](), false, false)
	if err != nil {
		return nil, err
	}
	return &View[T]{set: ref.Get().(*sparseSet[T]), ref: ref}, nil
}

// Release ends the borrow. The view must not be used afterwards.
func (v *View[T]) Release() { v.ref.Release() }

func (v *View[T]) Len() int { return v.set.length() }

func (v *View[T]) Contains(id EntityID) bool { return v.set.contains(id) }

// Get returns a copy of the component of id.
func (v *View[T]) Get(id EntityID) (T, bool) {
	if c := v.set.get(id); c != nil {
		return *c, true
	}
	var zero T
	return zero, false
}

// IDs returns the entities owning a T, in dense order. The slice is only
// valid while the view lives.
func (v *View[T]) IDs() []EntityID { return v.set.dense }

func (v *View[T]) PackKind() PackKind { return v.set.pack.kind }

func (v *View[T]) Inserted() []T { return v.set.inserted() }

func (v *View[T]) Modified() []T { return v.set.modified() }

func (v *View[T]) InsertedOrModified() []T { return v.set.insertedOrModified() }

// Iter iterates every component of the view, skipping entities present in
// any excluded storage.
func (v *View[T]) Iter(not ...Exclusion) *Iter1[T] {
	return newIter1(v.source(), not)
}

func (v *View[T]) source() abstractView[T] { return abstractView[T]{set: v.set} }

func (v *View[T]) erased() componentStorage { return v.set }

// ViewMut is a unique borrow of the storage of T.
type ViewMut[T any] struct {
	set *sparseSet[T]
	ref storageRef
}

func GetViewMut[T any](w *World) (*ViewMut[T], error) {
	ref, err := w.borrowStorage(typeOf[T](), false, true)
	if err != nil {
		return nil, err
	}
	return &ViewMut[T]{set: ref.Get().(*sparseSet[T]), ref: ref}, nil
}

func (v *ViewMut[T]) Release() { v.ref.Release() }

func (v *ViewMut[T]) Len() int { return v.set.length() }

func (v *ViewMut[T]) Contains(id EntityID) bool { return v.set.contains(id) }

// Get returns the component of id for writing. On an update-packed storage
// the component is flagged as modified.
func (v *ViewMut[T]) Get(id EntityID) (*T, bool) {
	d, ok := v.set.indexOf(id)
	if !ok {
		return nil, false
	}
	return &v.set.data[v.set.flag(d)], true
}

func (v *ViewMut[T]) IDs() []EntityID { return v.set.dense }

func (v *ViewMut[T]) PackKind() PackKind { return v.set.pack.kind }

// Iter iterates every component of the view. On an update-packed storage
// each yielded component is flagged as modified.
func (v *ViewMut[T]) Iter(not ...Exclusion) *Iter1[T] {
	return newIter1(v.source(), not)
}

func (v *ViewMut[T]) source() abstractView[T] { return abstractView[T]{set: v.set, mut: true} }

func (v *ViewMut[T]) erased() componentStorage { return v.set }

func (v *ViewMut[T]) erasedMut() componentStorage { return v.set }

// Add attaches value to id, replacing any component it already owns. When
// the storage is part of a pack, every other storage of the pack has to be
// passed in packed.
func (v *ViewMut[T]) Add(ents EntityChecker, id EntityID, value T, packed ...AnyViewMut) error {
	if !ents.IsAlive(id) {
		return AddComponentError{Kind: EntityIsNotAlive}
	}
	groups := v.set.pack.groups()
	if len(groups) == 0 {
		v.set.insert(id, value)
		return nil
	}
	stores, passed := v.packed(packed)
	for _, g := range groups {
		if typ, ok := g.missing(passed, stores); ok {
			return AddComponentError{Kind: AddMissingPackStorage, Type: typ}
		}
	}
	v.set.insert(id, value)
	for _, g := range groups {
		g.pack(id, stores)
	}
	return nil
}

// Remove detaches and returns the component of id.
func (v *ViewMut[T]) Remove(id EntityID, packed ...AnyViewMut) (T, bool, error) {
	var zero T
	groups := v.set.pack.groups()
	if len(groups) == 0 {
		c, ok := v.set.remove(id)
		return c, ok, nil
	}
	stores, passed := v.packed(packed)
	for _, g := range groups {
		if typ, ok := g.missing(passed, stores); ok {
			return zero, false, RemoveError{Type: typ}
		}
	}
	if !v.set.contains(id) {
		return zero, false, nil
	}
	for _, g := range groups {
		g.unpack(id, stores)
	}
	c, ok := v.set.remove(id)
	return c, ok, nil
}

// Delete is Remove without returning the component.
func (v *ViewMut[T]) Delete(id EntityID, packed ...AnyViewMut) (bool, error) {
	_, ok, err := v.Remove(id, packed...)
	return ok, err
}

func (v *ViewMut[T]) packed(packed []AnyViewMut) (map[reflect.Type]componentStorage, mask.Mask) {
	list := make([]componentStorage, 0, len(packed)+1)
	list = append(list, v.set)
	for _, p := range packed {
		list = append(list, p.erasedMut())
	}
	return storesByType(list)
}

func (v *ViewMut[T]) Inserted() []T { return v.set.inserted() }

func (v *ViewMut[T]) Modified() []T { return v.set.modified() }

func (v *ViewMut[T]) InsertedOrModified() []T { return v.set.insertedOrModified() }

func (v *ViewMut[T]) ClearInserted() { v.set.clearInserted() }

func (v *ViewMut[T]) ClearModified() { v.set.clearModified() }

func (v *ViewMut[T]) ClearInsertedAndModified() {
	v.set.clearInserted()
	v.set.clearModified()
}

// TakeRemoved returns the entities whose component was removed since the
// last call and forgets them.
func (v *ViewMut[T]) TakeRemoved() []EntityID { return v.set.takeRemoved() }

// EntitiesView is a shared borrow of the entity registry.
type EntitiesView struct {
	ents *entities
	ref  *Ref[*entities]
}

func (v *EntitiesView) Release() { v.ref.Release() }

func (v *EntitiesView) IsAlive(id EntityID) bool { return v.ents.isAlive(id) }

func (v *EntitiesView) Len() int { return v.ents.len() }

// All yields every live entity in index order.
func (v *EntitiesView) All() iter.Seq[EntityID] { return v.ents.each }

// EntitiesViewMut is a unique borrow of the entity registry.
type EntitiesViewMut struct {
	ents *entities
	ref  *RefMut[*entities]
}

func (v *EntitiesViewMut) Release() { v.ref.Release() }

func (v *EntitiesViewMut) AddEntity() EntityID { return v.ents.add() }

func (v *EntitiesViewMut) IsAlive(id EntityID) bool { return v.ents.isAlive(id) }

func (v *EntitiesViewMut) Len() int { return v.ents.len() }

func (v *EntitiesViewMut) All() iter.Seq[EntityID] { return v.ents.each }

// AllStoragesViewMut is a unique borrow of the registry. It allows
// structural changes: registering storages and deleting entities.
type AllStoragesViewMut struct {
	all   *AllStorages
	ref   *RefMut[*AllStorages]
	world *World
}

func (v *AllStoragesViewMut) Release() { v.ref.Release() }

func (v *AllStoragesViewMut) Register(regs ...Registration) error {
	for _, reg := range regs {
		if err := reg.register(v.all); err != nil {
			return err
		}
	}
	return nil
}

// DeleteEntity removes id from the entity registry and every storage. All
// borrows are taken before anything is modified, so a conflict leaves the
// world untouched.
func (v *AllStoragesViewMut) DeleteEntity(id EntityID) (bool, error) {
	entsRef, err := v.all.entities.Unique()
	if err != nil {
		v.world.conflict("Entities", BorrowUnique)
		return false, GetStorageError{Kind: EntitiesBorrow, Borrow: BorrowUnique}
	}
	defer entsRef.Release()
	ents := entsRef.Get()
	if !ents.isAlive(id) {
		return false, nil
	}

	stores := make(map[reflect.Type]componentStorage, len(v.all.storages))
	for typ, entry := range v.all.storages {
		if entry.unique {
			continue
		}
		ref, err := entry.cell.Unique()
		if err != nil {
			v.world.conflict(entry.name, BorrowUnique)
			return false, GetStorageError{Kind: StorageBorrow, Name: entry.name, Borrow: BorrowUnique}
		}
		defer ref.Release()
		stores[typ] = ref.Get().(componentStorage)
	}
	for _, s := range stores {
		if !s.contains(id) {
			continue
		}
		for _, g := range s.info().groups() {
			g.unpack(id, stores)
		}
	}
	for _, s := range stores {
		s.deleteEntity(id)
	}
	return ents.delete(id), nil
}
