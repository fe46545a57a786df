package depot

type Row3[A, B, C any] struct {
	A *A
	B *B
	C *C
}

// Iter3 iterates the entities owning A, B and C.
type Iter3[A, B, C any] struct {
	kind    iterKind
	a       *sparseSet[A]
	b       *sparseSet[B]
	c       *sparseSet[C]
	current int
	end     int
	m       matcher
	flagA   bool
	flagB   bool
	flagC   bool
}

func Iterate3[A, B, C any](a Source[A], b Source[B], c Source[C], not ...Exclusion) *Iter3[A, B, C] {
	va, vb, vc := a.source(), b.source(), c.source()
	it := &Iter3[A, B, C]{a: va.set, b: vb.set, c: vc.set}
	if g, ok := tightGroup(not, va.set, vb.set, vc.set); ok {
		it.end = g.len
		return it
	}
	it.kind = updateIter
	it.flagA = va.mut && va.set.pack.kind == UpdatePacked
	it.flagB = vb.mut && vb.set.pack.kind == UpdatePacked
	it.flagC = vc.mut && vc.set.pack.kind == UpdatePacked
	it.m = newMatcher(not, va.set, vb.set, vc.set)
	return it
}

func (it *Iter3[A, B, C]) FirstPass() (Row3[A, B, C], bool) {
	switch it.kind {
	case tightIter:
		if it.current == it.end {
			return Row3[A, B, C]{}, false
		}
		i := it.current
		it.current++
		return Row3[A, B, C]{A: &it.a.data[i], B: &it.b.data[i], C: &it.c.data[i]}, true
	case updateIter:
		id, ok := it.m.next()
		if !ok {
			return Row3[A, B, C]{}, false
		}
		return Row3[A, B, C]{A: it.a.get(id), B: it.b.get(id), C: it.c.get(id)}, true
	}
	panic("depot: unknown iterator kind")
}

func (it *Iter3[A, B, C]) PostProcess(row Row3[A, B, C]) Row3[A, B, C] {
	if it.kind != updateIter {
		return row
	}
	if it.flagA {
		row.A = flagged(it.a, it.m.id)
	}
	if it.flagB {
		row.B = flagged(it.b, it.m.id)
	}
	if it.flagC {
		row.C = flagged(it.c, it.m.id)
	}
	return row
}

func (it *Iter3[A, B, C]) CurrentID() EntityID {
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

func (it *Iter3[A, B, C]) IntoChunk(step int) (*Chunk3[A, B, C], bool) {
	if it.kind != tightIter {
		return nil, false
	}
	return &Chunk3[A, B, C]{a: it.a.data, b: it.b.data, cc: it.c.data, c: newChunkCursor(it.current, it.end, step)}, true
}

func (it *Iter3[A, B, C]) IntoChunkExact(step int) (*ChunkExact3[A, B, C], bool) {
	if it.kind != tightIter {
		return nil, false
	}
	return &ChunkExact3[A, B, C]{a: it.a.data, b: it.b.data, cc: it.c.data, c: newChunkCursor(it.current, it.end, step)}, true
}
