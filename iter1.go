package depot

// iterKind tags the strategy an iterator was built with.
type iterKind uint8

const (
	// tightIter walks dense slots directly.
	tightIter iterKind = iota
	// updateIter matches candidates by id and flags update-packed storages
	// on commit.
	updateIter
)

// Iter1 iterates a single storage.
type Iter1[T any] struct {
	kind    iterKind
	set     *sparseSet[T]
	current int
	end     int
	m       matcher
	flag    bool
}

func newIter1[T any](v abstractView[T], not []Exclusion) *Iter1[T] {
	it := &Iter1[T]{set: v.set, end: v.set.length()}
	if v.set.pack.kind != UpdatePacked && len(not) == 0 {
		return it
	}
	it.kind = updateIter
	it.flag = v.mut && v.set.pack.kind == UpdatePacked
	it.m = newMatcher(not, v.set)
	return it
}

func (it *Iter1[T]) FirstPass() (*T, bool) {
	switch it.kind {
	case tightIter:
		if it.current == it.end {
			return nil, false
		}
		item := &it.set.data[it.current]
		it.current++
		return item, true
	case updateIter:
		id, ok := it.m.next()
		if !ok {
			return nil, false
		}
		return it.set.get(id), true
	}
	panic("depot: unknown iterator kind")
}

func (it *Iter1[T]) PostProcess(item *T) *T {
	if it.kind == updateIter && it.flag {
		d, _ := it.set.indexOf(it.m.id)
		return &it.set.data[it.set.flag(d)]
	}
	return item
}

// CurrentID returns the entity of the last candidate.
func (it *Iter1[T]) CurrentID() EntityID {
	switch it.kind {
	case tightIter:
		if it.current == 0 {
			return Dead
		}
		return it.set.dense[it.current-1]
	case updateIter:
		return it.m.id
	}
	panic("depot: unknown iterator kind")
}

// IntoChunk converts the remaining items into slices of up to step. It
// fails, leaving it untouched, unless it walks dense slots directly.
func (it *Iter1[T]) IntoChunk(step int) (*Chunk1[T], bool) {
	if it.kind != tightIter {
		return nil, false
	}
	return &Chunk1[T]{data: it.set.data, c: newChunkCursor(it.current, it.end, step)}, true
}

func (it *Iter1[T]) IntoChunkExact(step int) (*ChunkExact1[T], bool) {
	if it.kind != tightIter {
		return nil, false
	}
	return &ChunkExact1[T]{data: it.set.data, c: newChunkCursor(it.current, it.end, step)}, true
}
