package depot

import "reflect"

// uniqueStorage holds a single value of T, not attached to any entity.
type uniqueStorage[T any] struct {
	typ   reflect.Type
	value T
}

func (u *uniqueStorage[T]) componentType() reflect.Type { return u.typ }

func (u *uniqueStorage[T]) isUnique() bool { return true }

// UniqueView is a shared borrow of a unique storage.
type UniqueView[T any] struct {
	u   *uniqueStorage[T]
	ref storageRef
}

func GetUniqueView[T any](w *World) (*UniqueView[T], error) {
	ref, err := w.borrowStorage(typeOf[T](), true, false)
	if err != nil {
		return nil, err
	}
	return &UniqueView[T]{u: ref.Get().(*uniqueStorage[T]), ref: ref}, nil
}

func (v *UniqueView[T]) Get() T { return v.u.value }

func (v *UniqueView[T]) Release() { v.ref.Release() }

// UniqueViewMut is a unique borrow of a unique storage.
type UniqueViewMut[T any] struct {
	u   *uniqueStorage[T]
	ref storageRef
}

func GetUniqueViewMut[T any](w *World) (*UniqueViewMut[T], error) {
	ref, err := w.borrowStorage(typeOf[T](), true, true)
	if err != nil {
		return nil, err
	}
	return &UniqueViewMut[T]{u: ref.Get().(*uniqueStorage[T]), ref: ref}, nil
}

func (v *UniqueViewMut[T]) Get() *T { return &v.u.value }

func (v *UniqueViewMut[T]) Set(value T) { v.u.value = value }

func (v *UniqueViewMut[T]) Release() { v.ref.Release() }
