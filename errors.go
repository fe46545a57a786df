package depot

import (
	"fmt"
	"reflect"

	"github.com/TheBitDrifter/mask"
)

// GetStorageKind tells why a view could not be resolved.
type GetStorageKind uint8

const (
	AllStoragesBorrow GetStorageKind = iota + 1
	StorageBorrow
	MissingComponent
	NonUnique
	MissingUnique
	EntitiesBorrow
	IsUnique
	StorageLimit
)

type GetStorageError struct {
	Kind   GetStorageKind
	Name   string
	Borrow Borrow
}

func (e GetStorageError) Error() string {
	switch e.Kind {
	case AllStoragesBorrow:
		if e.Borrow == BorrowUnique {
			return "cannot mutably borrow AllStorages while it's already borrowed (AllStorages is borrowed to access any storage)"
		}
		return "cannot immutably borrow AllStorages while it's already mutably borrowed"
	case StorageBorrow:
		if e.Borrow == BorrowUnique {
			return fmt.Sprintf("cannot mutably borrow %s storage while it's already borrowed", e.Name)
		}
		return fmt.Sprintf("cannot immutably borrow %s storage while it's already mutably borrowed", e.Name)
	case MissingComponent:
		return fmt.Sprintf("no storage exists for %s, register it on the world first: world.Register(depot.FactoryNewComponent[%s]())", e.Name, e.Name)
	case MissingUnique:
		return fmt.Sprintf("no unique storage exists for %s, register it on the world first: world.Register(depot.FactoryNewUnique(value))", e.Name)
	case NonUnique:
		return fmt.Sprintf("%s's storage isn't unique, it was registered as a component storage", e.Name)
	case IsUnique:
		return fmt.Sprintf("%s's storage is unique, access it through a unique view", e.Name)
	case StorageLimit:
		return fmt.Sprintf("cannot register %s, the world already holds %d storages", e.Name, mask.MaxBits)
	case EntitiesBorrow:
		if e.Borrow == BorrowUnique {
			return "cannot mutably borrow Entities storage while it's already borrowed"
		}
		return "cannot immutably borrow Entities storage while it's already mutably borrowed"
	}
	return "unknown storage error"
}

func (e GetStorageError) Unwrap() error {
	if e.Borrow == 0 || e.Kind == NonUnique {
		return nil
	}
	return e.Borrow
}

type NewEntityKind uint8

const (
	NewEntityAllStoragesBorrow NewEntityKind = iota + 1
	NewEntityEntitiesBorrow
)

// NewEntityError is returned when an entity can't be created, either because
// a structural change holds the registry or because entities are borrowed.
type NewEntityError struct {
	Kind   NewEntityKind
	Borrow Borrow
}

func (e NewEntityError) Error() string {
	if e.Kind == NewEntityAllStoragesBorrow {
		if e.Borrow == BorrowUnique {
			return "cannot mutably borrow all storages while it's already borrowed"
		}
		return "cannot immutably borrow all storages while it's already mutably borrowed"
	}
	return "cannot mutably borrow entities while it's already borrowed"
}

func (e NewEntityError) Unwrap() error {
	if e.Borrow == 0 {
		return nil
	}
	return e.Borrow
}

type AddComponentKind uint8

const (
	AddMissingPackStorage AddComponentKind = iota + 1
	EntityIsNotAlive
)

// AddComponentError is returned by ViewMut.Add. A packed storage needs every
// storage of its pack passed along, even when a single component is added.
type AddComponentError struct {
	Kind AddComponentKind
	Type reflect.Type
}

func (e AddComponentError) Error() string {
	if e.Kind == EntityIsNotAlive {
		return "entity has to be alive to add component to it"
	}
	return fmt.Sprintf("missing storage for type %s, to add a packed component every storage packed with it has to be passed", typeName(e.Type))
}

type PackErrorKind uint8

const (
	PackGetStorage PackErrorKind = iota + 1
	AlreadyTightPack
	AlreadyLoosePack
	AlreadyUpdatePack
	PackUniqueStorage
)

type PackError struct {
	Kind       PackErrorKind
	Type       reflect.Type
	GetStorage GetStorageError
}

func (e PackError) Error() string {
	switch e.Kind {
	case PackGetStorage:
		return e.GetStorage.Error()
	case AlreadyTightPack:
		return fmt.Sprintf("the storage of type %s is already tightly packed", typeName(e.Type))
	case AlreadyLoosePack:
		return fmt.Sprintf("the storage of type %s is already loosely packed", typeName(e.Type))
	case AlreadyUpdatePack:
		return fmt.Sprintf("the storage of type %s already has an update pack", typeName(e.Type))
	case PackUniqueStorage:
		return fmt.Sprintf("the storage of type %s is a unique storage and can't be packed", typeName(e.Type))
	}
	return "unknown pack error"
}

func (e PackError) Unwrap() error {
	if e.Kind == PackGetStorage {
		return e.GetStorage
	}
	return nil
}

// RemoveError is returned when a packed component is removed without every
// storage packed with it.
type RemoveError struct {
	Type reflect.Type
}

func (e RemoveError) Error() string {
	return fmt.Sprintf("missing storage for type %s, to remove a packed component every storage packed with it has to be passed", typeName(e.Type))
}

type WorkloadErrorKind uint8

const (
	WorkloadBorrow WorkloadErrorKind = iota + 1
	MissingWorkload
)

type SetDefaultWorkloadError struct {
	Kind   WorkloadErrorKind
	Name   string
	Borrow Borrow
}

func (e SetDefaultWorkloadError) Error() string {
	if e.Kind == WorkloadBorrow {
		return "cannot mutably borrow pipeline while it's already borrowed"
	}
	return fmt.Sprintf("no workload named %q exists", e.Name)
}

func (e SetDefaultWorkloadError) Unwrap() error {
	if e.Borrow == 0 {
		return nil
	}
	return e.Borrow
}

type RunWorkloadError struct {
	Kind   WorkloadErrorKind
	Name   string
	Borrow Borrow
}

func (e RunWorkloadError) Error() string {
	if e.Kind == WorkloadBorrow {
		return "cannot borrow pipeline while it's already mutably borrowed"
	}
	if e.Name == "" {
		return "no default workload is set"
	}
	return fmt.Sprintf("no workload named %q exists", e.Name)
}

func (e RunWorkloadError) Unwrap() error {
	if e.Borrow == 0 {
		return nil
	}
	return e.Borrow
}

type SortErrorKind uint8

const (
	SortMissingPackStorage SortErrorKind = iota + 1
	SortTooManyStorages
)

type SortError struct {
	Kind SortErrorKind
}

func (e SortError) Error() string {
	if e.Kind == SortTooManyStorages {
		return "too many storages not packed together, only a single storage or storages packed together can be sorted"
	}
	return "the storage is packed, sort the whole pack by passing every storage packed with it; some packs can't be sorted"
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
