package depot

import (
	"errors"
	"reflect"

	"github.com/TheBitDrifter/mask"
	"go.uber.org/zap"
)

// PackKind is the layout strategy of a storage. A storage owns at most one.
type PackKind uint8

const (
	NoPack PackKind = iota
	TightPack
	LoosePack
	UpdatePacked
)

func (k PackKind) String() string {
	switch k {
	case TightPack:
		return "tight"
	case LoosePack:
		return "loose"
	case UpdatePacked:
		return "update"
	}
	return "none"
}

type packInfo struct {
	kind  PackKind
	bit   uint32
	group *packGroup
	// loose packs this storage is a non-owning member of
	observes []*packGroup
	update   updatePack
}

// groups returns every pack group whose invariant depends on this storage.
func (p *packInfo) groups() []*packGroup {
	if p.group == nil {
		return p.observes
	}
	groups := make([]*packGroup, 0, len(p.observes)+1)
	groups = append(groups, p.group)
	return append(groups, p.observes...)
}

type updatePack struct {
	inserted int
	modified int
	removed  []EntityID
}

// packGroup keeps the entities owning every member component in the first
// len dense slots of each owned storage, in matching order. For tight packs
// every member is owned.
type packGroup struct {
	kind  PackKind
	types []reflect.Type
	owned []reflect.Type
	mask  mask.Mask
	len   int
}

// missing returns the first member of g absent from stores.
func (g *packGroup) missing(passed mask.Mask, stores map[reflect.Type]componentStorage) (reflect.Type, bool) {
	if passed.ContainsAll(g.mask) {
		return nil, false
	}
	for _, typ := range g.types {
		if _, ok := stores[typ]; !ok {
			return typ, true
		}
	}
	return nil, false
}

// pack moves id into the packed section when it now has every member.
func (g *packGroup) pack(id EntityID, stores map[reflect.Type]componentStorage) {
	for _, typ := range g.types {
		if !stores[typ].contains(id) {
			return
		}
	}
	if d, _ := stores[g.owned[0]].indexOf(id); d < g.len {
		return
	}
	for _, typ := range g.owned {
		s := stores[typ]
		d, _ := s.indexOf(id)
		s.swap(d, g.len)
	}
	g.len++
}

// unpack moves id out of the packed section, ahead of a removal.
func (g *packGroup) unpack(id EntityID, stores map[reflect.Type]componentStorage) {
	d, ok := stores[g.owned[0]].indexOf(id)
	if !ok || d >= g.len {
		return
	}
	g.len--
	for _, typ := range g.owned {
		s := stores[typ]
		d, _ := s.indexOf(id)
		s.swap(d, g.len)
	}
}

// build reorders existing data so the packed section holds every entity
// already owning all members.
func (g *packGroup) build(stores map[reflect.Type]componentStorage) {
	var driver componentStorage
	for _, typ := range g.types {
		if s := stores[typ]; driver == nil || s.length() < driver.length() {
			driver = s
		}
	}
	ids := make([]EntityID, driver.length())
	for i := range ids {
		ids[i] = driver.idAt(i)
	}
	for _, id := range ids {
		g.pack(id, stores)
	}
}

// storesByType indexes the storages passed to an add or remove and marks
// their bits.
func storesByType(stores []componentStorage) (map[reflect.Type]componentStorage, mask.Mask) {
	var passed mask.Mask
	byType := make(map[reflect.Type]componentStorage, len(stores))
	for _, s := range stores {
		byType[s.componentType()] = s
		passed.Mark(s.info().bit)
	}
	return byType, passed
}

// TightPack2 tightly packs the storages of A and B.
func TightPack2[A, B any](w *World) error {
	return w.pack(TightPack, []reflect.Type{typeOf[A](), typeOf[B]()}, nil)
}

// TightPack3 tightly packs the storages of A, B and C.
func TightPack3[A, B, C any](w *World) error {
	return w.pack(TightPack, []reflect.Type{typeOf[A](), typeOf[B](), typeOf[C]()}, nil)
}

// LoosePack2 orders O's storage by the entities owning both O and B, leaving
// B's order untouched.
func LoosePack2[O, B any](w *World) error {
	return w.pack(LoosePack, []reflect.Type{typeOf[O]()}, []reflect.Type{typeOf[B]()})
}

// LoosePack3 loosely packs O1 and O2 together, observing B.
func LoosePack3[O1, O2, B any](w *World) error {
	return w.pack(LoosePack, []reflect.Type{typeOf[O1](), typeOf[O2]()}, []reflect.Type{typeOf[B]()})
}

// UpdatePack starts tracking insertions, modifications and removals on T's
// storage. Components already present count as inserted.
func UpdatePack[T any](w *World) error {
	return w.pack(UpdatePacked, []reflect.Type{typeOf[T]()}, nil)
}

func (w *World) pack(kind PackKind, owned, observed []reflect.Type) error {
	all := append(append([]reflect.Type{}, owned...), observed...)
	stores := make(map[reflect.Type]componentStorage, len(all))
	for _, typ := range all {
		ref, err := w.borrowStorage(typ, false, true)
		if err != nil {
			var gse GetStorageError
			if errors.As(err, &gse) && gse.Kind == IsUnique {
				return PackError{Kind: PackUniqueStorage, Type: typ}
			}
			return PackError{Kind: PackGetStorage, Type: typ, GetStorage: gse}
		}
		defer ref.Release()
		s, ok := ref.Get().(componentStorage)
		if !ok {
			return PackError{Kind: PackUniqueStorage, Type: typ}
		}
		stores[typ] = s
	}
	for _, typ := range owned {
		switch stores[typ].info().kind {
		case TightPack:
			return PackError{Kind: AlreadyTightPack, Type: typ}
		case LoosePack:
			return PackError{Kind: AlreadyLoosePack, Type: typ}
		case UpdatePacked:
			return PackError{Kind: AlreadyUpdatePack, Type: typ}
		}
	}

	if kind == UpdatePacked {
		s := stores[owned[0]]
		s.info().kind = UpdatePacked
		s.info().update = updatePack{inserted: s.length()}
		w.logger.Debug("update pack created", zap.Stringer("component", owned[0]))
		return nil
	}

	g := &packGroup{kind: kind, types: all, owned: owned}
	for _, typ := range all {
		g.mask.Mark(stores[typ].info().bit)
	}
	for _, typ := range owned {
		info := stores[typ].info()
		info.kind = kind
		info.group = g
	}
	for _, typ := range observed {
		info := stores[typ].info()
		info.observes = append(info.observes, g)
	}
	g.build(stores)
	w.logger.Debug("pack created",
		zap.Stringer("kind", kind),
		zap.Int("members", len(all)),
		zap.Int("packed", g.len),
	)
	return nil
}
