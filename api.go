package depot

// Shiperator is a two-phase iterator. FirstPass produces the next candidate
// and PostProcess commits it. Side effects, like flagging an update-packed
// component as modified, only happen in PostProcess, so a candidate that is
// dropped after FirstPass leaves the storages as they were.
type Shiperator[T any] interface {
	FirstPass() (T, bool)
	PostProcess(item T) T
}

// Identified is a Shiperator that knows the entity of its last candidate.
type Identified[T any] interface {
	Shiperator[T]
	CurrentID() EntityID
}

// Source is implemented by View and ViewMut.
type Source[T any] interface {
	source() abstractView[T]
}

// AnyView is any component view, regardless of its component type.
type AnyView interface {
	erased() componentStorage
}

// AnyViewMut is a unique component view, passed along to Add and Remove so
// packs spanning several storages can be maintained.
type AnyViewMut interface {
	AnyView
	erasedMut() componentStorage
}

// EntityChecker reports entity liveness.
type EntityChecker interface {
	IsAlive(id EntityID) bool
}

// Registration declares a storage on a World. Registrations passed together
// to World.Register are applied under a single unique borrow of the registry.
// Registering a type that already has a storage leaves that storage as it is.
type Registration interface {
	register(all *AllStorages) error
}

// System is one unit of logic. It requests its views through the scope and
// every borrow is released when it returns.
type System func(s *Scope) error

var (
	_ Identified[*int]           = &Iter1[int]{}
	_ Identified[Row2[int, int]] = &Iter2[int, int]{}
	_ Shiperator[[]int]          = &ChunkExact1[int]{}
	_ Source[int]                = &View[int]{}
	_ Source[int]                = &ViewMut[int]{}
	_ AnyViewMut                 = &ViewMut[int]{}
	_ EntityChecker              = &EntitiesView{}
	_ EntityChecker              = &EntitiesViewMut{}
	_ Registration               = ComponentType[int]{}
	_ Registration               = UniqueType[int]{}
)
