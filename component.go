package depot

import "reflect"

// ComponentType declares the sparse-set storage of T.
type ComponentType[T any] struct{}

func (ComponentType[T]) register(all *AllStorages) error {
	_, err := getOrCreate[T](all)
	return err
}

// Type returns the Go type stored by the storage.
func (ComponentType[T]) Type() reflect.Type {
	return typeOf[T]()
}

// UniqueType declares a unique storage of T holding a single value.
type UniqueType[T any] struct {
	value T
}

func (u UniqueType[T]) register(all *AllStorages) error {
	_, err := getOrCreateUnique(all, u.value)
	return err
}

func (UniqueType[T]) Type() reflect.Type {
	return typeOf[T]()
}
