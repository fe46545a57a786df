package depot

// Row2 is one entity's components in a two-storage iteration.
type Row2[A, B any] struct {
	A *A
	B *B
}

// Iter2 iterates the entities owning both A and B.
type Iter2[A, B any] struct {
	kind    iterKind
	a       *sparseSet[A]
	b       *sparseSet[B]
	current int
	end     int
	m       matcher
	flagA   bool
	flagB   bool
}

// Iterate2 walks the entities owning both components. A tight pack made of
// exactly these two storages is walked slot by slot, anything else is
// matched per entity.
func Iterate2[A, B any](a Source[A], b Source[B], not ...Exclusion) *Iter2[A, B] {
	va, vb := a.source(), b.source()
	it := &Iter2[A, B]{a: va.set, b: vb.set}
	if g, ok := tightGroup(not, va.set, vb.set); ok {
		it.end = g.len
		return it
	}
	it.kind = updateIter
	it.flagA = va.mut && va.set.pack.kind == UpdatePacked
	it.flagB = vb.mut && vb.set.pack.kind == UpdatePacked
	it.m = newMatcher(not, va.set, vb.set)
	return it
}

func (it *Iter2[A, B]) FirstPass() (Row2[A, B], bool) {
	switch it.kind {
	case tightIter:
		if it.current == it.end {
			return Row2[A, B]{}, false
		}
		i := it.current
		it.current++
		return Row2[A, B]{A: &it.a.data[i], B: &it.b.data[i]}, true
	case updateIter:
		id, ok := it.m.next()
		if !ok {
			return Row2[A, B]{}, false
		}
		return Row2[A, B]{A: it.a.get(id), B: it.b.get(id)}, true
	}
	panic("depot: unknown iterator kind")
}

func (it *Iter2[A, B]) PostProcess(row Row2[A, B]) Row2[A, B] {
	if it.kind != updateIter {
		return row
	}
	if it.flagA {
		row.A = flagged(it.a, it.m.id)
	}
	if it.flagB {
		row.B = flagged(it.b, it.m.id)
	}
	return row
}

func (it *Iter2[A, B]) CurrentID() EntityID {
	switch it.kind {
	case tightIter:
		if it.current == 0 {
			return Dead
		}
		return it.a.dense[it.current-1]
	case updateIter:
		return it.m.id
	}
	panic("depot: unknown iterator kind")
}

func (it *Iter2[A, B]) IntoChunk(step int) (*Chunk2[A, B], bool) {
	if it.kind != tightIter {
		return nil, false
	}
	return &Chunk2[A, B]{a: it.a.data, b: it.b.data, c: newChunkCursor(it.current, it.end, step)}, true
}

func (it *Iter2[A, B]) IntoChunkExact(step int) (*ChunkExact2[A, B], bool) {
	if it.kind != tightIter {
		return nil, false
	}
	return &ChunkExact2[A, B]{a: it.a.data, b: it.b.data, c: newChunkCursor(it.current, it.end, step)}, true
}

// flagged marks id's component as modified and returns its new address.
func flagged[T any](s *sparseSet[T], id EntityID) *T {
	d, _ := s.indexOf(id)
	return &s.data[s.flag(d)]
}
