package depot

import (
	"sort"
)

type setSorter[T any] struct {
	set  *sparseSet[T]
	less func(a, b *T) bool
}

func (s setSorter[T]) Len() int           { return s.set.length() }
func (s setSorter[T]) Less(i, j int) bool { return s.less(&s.set.data[i], &s.set.data[j]) }
func (s setSorter[T]) Swap(i, j int)      { s.set.swap(i, j) }

// Sort reorders the storage by less. Packed storages have to be sorted
// through their pack.
func (v *ViewMut[T]) Sort(less func(a, b *T) bool) error {
	if v.set.pack.kind != NoPack || len(v.set.pack.observes) > 0 {
		return SortError{Kind: SortMissingPackStorage}
	}
	sort.Sort(setSorter[T]{set: v.set, less: less})
	return nil
}

type tightSorter2[A, B any] struct {
	a    *sparseSet[A]
	b    *sparseSet[B]
	len  int
	less func(x, y Row2[A, B]) bool
}

func (s tightSorter2[A, B]) Len() int { return s.len }

func (s tightSorter2[A, B]) Less(i, j int) bool {
	return s.less(Row2[A, B]{A: &s.a.data[i], B: &s.b.data[i]}, Row2[A, B]{A: &s.a.data[j], B: &s.b.data[j]})
}

func (s tightSorter2[A, B]) Swap(i, j int) {
	s.a.swap(i, j)
	s.b.swap(i, j)
}

// SortTight2 sorts the packed entities of a two-storage tight pack. The
// storages keep matching order.
func SortTight2[A, B any](a *ViewMut[A], b *ViewMut[B], less func(x, y Row2[A, B]) bool) error {
	g := a.set.pack.group
	if g == nil || g.kind != TightPack || b.set.pack.group != g {
		return SortError{Kind: SortTooManyStorages}
	}
	if len(g.types) != 2 {
		return SortError{Kind: SortMissingPackStorage}
	}
	sort.Sort(tightSorter2[A, B]{a: a.set, b: b.set, len: g.len, less: less})
	return nil
}
