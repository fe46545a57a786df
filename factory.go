package depot

type factory struct{}

var Factory factory

func (f factory) NewWorld(opts ...WorldOption) *World {
	return newWorld(opts...)
}

// FactoryNewComponent declares the storage of T, to be passed to World.Register.
func FactoryNewComponent[T any]() ComponentType[T] {
	return ComponentType[T]{}
}

// FactoryNewUnique declares a unique storage holding value.
func FactoryNewUnique[T any](value T) UniqueType[T] {
	return UniqueType[T]{value: value}
}
