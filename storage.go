package depot

import (
	"reflect"
	"sync"

	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/table"
	"go.uber.org/zap"
)

// elementTypes holds one table.ElementType per component type for the whole
// process. Worlds share it, only mask bits are per world.
var elementTypes sync.Map

func elementTypeOf[T any]() table.ElementType {
	typ := typeOf[T]()
	if element, ok := elementTypes.Load(typ); ok {
		return element.(table.ElementType)
	}
	element, _ := elementTypes.LoadOrStore(typ, table.ElementType(table.FactoryNewElementType[T]()))
	return element.(table.ElementType)
}

type storageEntry struct {
	cell    *Cell[storage]
	name    string
	unique  bool
	element table.ElementType
}

// AllStorages maps every component type to the cell holding its storage. It
// also owns the entity registry. Adding a storage mutates the mapping, so it
// requires a unique borrow of the AllStorages cell.
type AllStorages struct {
	storages map[reflect.Type]storageEntry
	entities *Cell[*entities]
	schema   table.Schema
	nextBit  uint32
	logger   *zap.Logger
}

func newAllStorages(logger *zap.Logger) *AllStorages {
	return &AllStorages{
		storages: make(map[reflect.Type]storageEntry),
		entities: newCell(newEntities()),
		schema:   table.Factory.NewSchema(),
		logger:   logger,
	}
}

// element gives T its component identity and the bit it uses in pack masks.
// Bits are handed out per world in registration order.
func (all *AllStorages) element(typ reflect.Type, element table.ElementType) (uint32, error) {
	if all.nextBit >= mask.MaxBits {
		return 0, GetStorageError{Kind: StorageLimit, Name: typ.String()}
	}
	all.schema.Register(element)
	bit := all.nextBit
	all.nextBit++
	all.logger.Debug("storage registered",
		zap.String("component", typ.String()),
		zap.Uint32("bit", bit),
	)
	return bit, nil
}

// getOrCreate returns the cell of T's storage, creating the storage on first
// use. Calling it again for T returns the same cell.
func getOrCreate[T any](all *AllStorages) (*Cell[storage], error) {
	typ := typeOf[T]()
	if entry, ok := all.storages[typ]; ok {
		return entry.cell, nil
	}
	element := elementTypeOf[T]()
	bit, err := all.element(typ, element)
	if err != nil {
		return nil, err
	}
	entry := storageEntry{
		cell:    newCell[storage](newSparseSet[T](bit)),
		name:    typ.String(),
		element: element,
	}
	all.storages[typ] = entry
	return entry.cell, nil
}

// getOrCreateUnique creates T's unique storage holding value. An existing
// storage for T is left as it is.
func getOrCreateUnique[T any](all *AllStorages, value T) (*Cell[storage], error) {
	typ := typeOf[T]()
	if entry, ok := all.storages[typ]; ok {
		return entry.cell, nil
	}
	element := elementTypeOf[T]()
	if _, err := all.element(typ, element); err != nil {
		return nil, err
	}
	entry := storageEntry{
		cell:    newCell[storage](&uniqueStorage[T]{typ: typ, value: value}),
		name:    typ.String(),
		unique:  true,
		element: element,
	}
	all.storages[typ] = entry
	return entry.cell, nil
}

// storageRef is a live borrow of a registry cell, shared or unique.
type storageRef interface {
	Get() storage
	Release()
}

// borrowStorage resolves a view: the registry is borrowed shared for the
// lookup only, then the storage cell is borrowed in the requested mode.
func (w *World) borrowStorage(typ reflect.Type, wantUnique, mut bool) (storageRef, error) {
	allRef, err := w.all.Shared()
	if err != nil {
		w.conflict("AllStorages", BorrowShared)
		return nil, GetStorageError{Kind: AllStoragesBorrow, Borrow: BorrowShared}
	}
	entry, ok := allRef.Get().storages[typ]
	allRef.Release()
	if !ok {
		if wantUnique {
			return nil, GetStorageError{Kind: MissingUnique, Name: typ.String()}
		}
		return nil, GetStorageError{Kind: MissingComponent, Name: typ.String()}
	}
	if entry.unique != wantUnique {
		if entry.unique {
			return nil, GetStorageError{Kind: IsUnique, Name: entry.name}
		}
		return nil, GetStorageError{Kind: NonUnique, Name: entry.name}
	}
	if mut {
		ref, err := entry.cell.Unique()
		if err != nil {
			w.conflict(entry.name, BorrowUnique)
			return nil, GetStorageError{Kind: StorageBorrow, Name: entry.name, Borrow: BorrowUnique}
		}
		return ref, nil
	}
	ref, err := entry.cell.Shared()
	if err != nil {
		w.conflict(entry.name, BorrowShared)
		return nil, GetStorageError{Kind: StorageBorrow, Name: entry.name, Borrow: BorrowShared}
	}
	return ref, nil
}

// borrowEntities borrows the entity registry through a shared registry borrow.
func (w *World) borrowEntities(mut bool) (*Ref[*entities], *RefMut[*entities], error) {
	allRef, err := w.all.Shared()
	if err != nil {
		w.conflict("AllStorages", BorrowShared)
		return nil, nil, GetStorageError{Kind: AllStoragesBorrow, Borrow: BorrowShared}
	}
	cell := allRef.Get().entities
	allRef.Release()
	if mut {
		ref, err := cell.Unique()
		if err != nil {
			w.conflict("Entities", BorrowUnique)
			return nil, nil, GetStorageError{Kind: EntitiesBorrow, Borrow: BorrowUnique}
		}
		return nil, ref, nil
	}
	ref, err := cell.Shared()
	if err != nil {
		w.conflict("Entities", BorrowShared)
		return nil, nil, GetStorageError{Kind: EntitiesBorrow, Borrow: BorrowShared}
	}
	return ref, nil, nil
}
