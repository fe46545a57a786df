package depot

import (
	"iter"

	iter_util "github.com/TheBitDrifter/util/iter"
)

type identified interface {
	CurrentID() EntityID
}

// Next returns the next committed item.
func Next[T any](it Shiperator[T]) (T, bool) {
	item, ok := it.FirstPass()
	if !ok {
		return item, false
	}
	return it.PostProcess(item), true
}

// All adapts it to a range-over-func sequence.
func All[T any](it Shiperator[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			item, ok := Next(it)
			if !ok || !yield(item) {
				return
			}
		}
	}
}

func Collect[T any](it Shiperator[T]) []T {
	return iter_util.Collect(All(it))
}

func ForEach[T any](it Shiperator[T], fn func(T)) {
	for item := range All(it) {
		fn(item)
	}
}

// Count drains it without committing any candidate.
func Count[T any](it Shiperator[T]) int {
	n := 0
	for {
		if _, ok := it.FirstPass(); !ok {
			return n
		}
		n++
	}
}

func currentID(it any) EntityID {
	inner, ok := it.(identified)
	if !ok {
		panic("depot: iterator does not track entity ids")
	}
	return inner.CurrentID()
}

// MapIter applies f to every item of an inner iterator.
type MapIter[T, U any] struct {
	inner Shiperator[T]
	f     func(T) U
}

// Map commits each inner candidate before transforming it. A candidate
// reaching f has already gone through the inner PostProcess.
func Map[T, U any](it Shiperator[T], f func(T) U) *MapIter[T, U] {
	return &MapIter[T, U]{inner: it, f: f}
}

func (m *MapIter[T, U]) FirstPass() (U, bool) {
	item, ok := m.inner.FirstPass()
	if !ok {
		var zero U
		return zero, false
	}
	return m.f(m.inner.PostProcess(item)), true
}

func (m *MapIter[T, U]) PostProcess(item U) U { return item }

// CurrentID panics when the inner iterator does not track ids.
func (m *MapIter[T, U]) CurrentID() EntityID { return currentID(m.inner) }

// FilterIter drops candidates rejected by a predicate.
type FilterIter[T any] struct {
	inner Shiperator[T]
	keep  func(T) bool
}

// Filter tests candidates before they are committed. Rejected candidates are
// never post-processed.
func Filter[T any](it Shiperator[T], keep func(T) bool) *FilterIter[T] {
	return &FilterIter[T]{inner: it, keep: keep}
}

func (f *FilterIter[T]) FirstPass() (T, bool) {
	for {
		item, ok := f.inner.FirstPass()
		if !ok || f.keep(item) {
			return item, ok
		}
	}
}

func (f *FilterIter[T]) PostProcess(item T) T { return f.inner.PostProcess(item) }

func (f *FilterIter[T]) CurrentID() EntityID { return currentID(f.inner) }

// Pair is an item together with the entity owning it.
type Pair[T any] struct {
	ID   EntityID
	Item T
}

type WithIDIter[T any] struct {
	inner Identified[T]
}

// WithID pairs every item with its entity. The id is read before the inner
// PostProcess runs.
func WithID[T any](it Identified[T]) *WithIDIter[T] {
	return &WithIDIter[T]{inner: it}
}

func (w *WithIDIter[T]) FirstPass() (Pair[T], bool) {
	item, ok := w.inner.FirstPass()
	if !ok {
		return Pair[T]{ID: Dead}, false
	}
	return Pair[T]{ID: w.inner.CurrentID(), Item: item}, true
}

func (w *WithIDIter[T]) PostProcess(p Pair[T]) Pair[T] {
	return Pair[T]{ID: p.ID, Item: w.inner.PostProcess(p.Item)}
}

func (w *WithIDIter[T]) CurrentID() EntityID { return w.inner.CurrentID() }
