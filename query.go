package depot

import (
	"github.com/TheBitDrifter/mask"
)

// Exclusion makes an iterator skip the entities owning a component.
type Exclusion struct {
	set componentStorage
}

// Not excludes the entities present in v's storage. Nothing is ever read
// from v.
func Not(v AnyView) Exclusion {
	return Exclusion{set: v.erased()}
}

func viewMask(stores ...componentStorage) mask.Mask {
	var m mask.Mask
	for _, s := range stores {
		m.Mark(s.info().bit)
	}
	return m
}

// tightGroup returns the tight pack made of exactly stores, when there is
// one and nothing is excluded.
func tightGroup(not []Exclusion, stores ...componentStorage) (*packGroup, bool) {
	if len(not) > 0 {
		return nil, false
	}
	g := stores[0].info().group
	if g == nil || g.kind != TightPack {
		return nil, false
	}
	for _, s := range stores[1:] {
		if s.info().group != g {
			return nil, false
		}
	}
	if g.mask != viewMask(stores...) {
		return nil, false
	}
	return g, true
}

// matcher drives per-candidate iteration: the smallest storage is walked in
// dense order and every other storage is probed by id.
type matcher struct {
	driver  componentStorage
	probes  []componentStorage
	not     []componentStorage
	current int
	end     int
	id      EntityID
}

func newMatcher(not []Exclusion, stores ...componentStorage) matcher {
	driver := stores[0]
	for _, s := range stores[1:] {
		if s.length() < driver.length() {
			driver = s
		}
	}
	m := matcher{driver: driver, end: driver.length(), id: Dead}
	for _, s := range stores {
		if s != driver {
			m.probes = append(m.probes, s)
		}
	}
	for _, ex := range not {
		m.not = append(m.not, ex.set)
	}
	return m
}

func (m *matcher) matches(id EntityID) bool {
	for _, s := range m.probes {
		if !s.contains(id) {
			return false
		}
	}
	for _, s := range m.not {
		if s.contains(id) {
			return false
		}
	}
	return true
}

func (m *matcher) next() (EntityID, bool) {
	for m.current < m.end {
		id := m.driver.idAt(m.current)
		m.current++
		if m.matches(id) {
			m.id = id
			return id, true
		}
	}
	return Dead, false
}
