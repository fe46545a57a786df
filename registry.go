package depot

import "fmt"

// SystemRegistry names systems so workloads can be declared from
// configuration.
type SystemRegistry struct {
	items       []System
	itemIndices map[string]int
	maxCapacity int
}

// FactoryNewSystemRegistry creates a registry holding at most capacity
// systems. A capacity of zero or less means unbounded.
func FactoryNewSystemRegistry(capacity int) *SystemRegistry {
	return &SystemRegistry{
		itemIndices: make(map[string]int),
		maxCapacity: capacity,
	}
}

type RegistryErrorKind uint8

const (
	RegistryFull RegistryErrorKind = iota + 1
	DuplicateSystem
	UnknownSystem
)

type RegistryError struct {
	Kind RegistryErrorKind
	Name string
}

func (e RegistryError) Error() string {
	switch e.Kind {
	case RegistryFull:
		return fmt.Sprintf("system registry is full, cannot register %q", e.Name)
	case DuplicateSystem:
		return fmt.Sprintf("a system named %q is already registered", e.Name)
	}
	return fmt.Sprintf("no system named %q is registered", e.Name)
}

// Register adds sys under name and returns its index.
func (r *SystemRegistry) Register(name string, sys System) (int, error) {
	if _, ok := r.itemIndices[name]; ok {
		return -1, RegistryError{Kind: DuplicateSystem, Name: name}
	}
	if r.maxCapacity > 0 && len(r.items) >= r.maxCapacity {
		return -1, RegistryError{Kind: RegistryFull, Name: name}
	}
	idx := len(r.items)
	r.itemIndices[name] = idx
	r.items = append(r.items, sys)
	return idx, nil
}

func (r *SystemRegistry) GetIndex(name string) (int, bool) {
	index, ok := r.itemIndices[name]
	return index, ok
}

func (r *SystemRegistry) GetItem(index int) System {
	return r.items[index]
}

func (r *SystemRegistry) Lookup(name string) (System, bool) {
	index, ok := r.itemIndices[name]
	if !ok {
		return nil, false
	}
	return r.items[index], true
}

func (r *SystemRegistry) Len() int {
	return len(r.items)
}

// resolve maps names to systems, failing on the first unknown one.
func (r *SystemRegistry) resolve(names []string) ([]System, error) {
	systems := make([]System, 0, len(names))
	for _, name := range names {
		sys, ok := r.Lookup(name)
		if !ok {
			return nil, RegistryError{Kind: UnknownSystem, Name: name}
		}
		systems = append(systems, sys)
	}
	return systems, nil
}
