package depot

import (
	"fmt"
	"sync/atomic"
)

// Borrow is the conflict class reported when a Cell refuses an access.
//
// BorrowUnique means a unique borrow was attempted while the cell was already
// borrowed. BorrowShared means a shared borrow was attempted while the cell
// was uniquely borrowed.
type Borrow uint8

const (
	BorrowUnique Borrow = iota + 1
	BorrowShared
)

func (b Borrow) Error() string {
	switch b {
	case BorrowUnique:
		return "cannot mutably borrow while already borrowed"
	case BorrowShared:
		return "cannot immutably borrow while already mutably borrowed"
	}
	return fmt.Sprintf("unknown borrow conflict (%d)", uint8(b))
}

func (b Borrow) String() string {
	switch b {
	case BorrowUnique:
		return "unique"
	case BorrowShared:
		return "shared"
	}
	return "unknown"
}

// BorrowState is a snapshot of a cell's borrow counter.
type BorrowState int32

const (
	stateUnique BorrowState = -1
	stateFree   BorrowState = 0
)

// Free reports whether no borrow is live.
func (s BorrowState) Free() bool { return s == stateFree }

// Unique reports whether a unique borrow is live.
func (s BorrowState) Unique() bool { return s == stateUnique }

// Shared returns the number of live shared borrows.
func (s BorrowState) Shared() int {
	if s > 0 {
		return int(s)
	}
	return 0
}

// Cell wraps a resource with a runtime checked borrow counter.
// Acquisition never blocks: a conflicting request fails immediately.
type Cell[R any] struct {
	state atomic.Int32
	value R
}

func newCell[R any](value R) *Cell[R] {
	return &Cell[R]{value: value}
}

// State returns the current borrow state.
func (c *Cell[R]) State() BorrowState {
	return BorrowState(c.state.Load())
}

// Shared acquires a shared borrow. It fails with BorrowShared while a unique
// borrow is live.
func (c *Cell[R]) Shared() (*Ref[R], error) {
	for {
		cur := c.state.Load()
		if cur < 0 {
			return nil, BorrowShared
		}
		if c.state.CompareAndSwap(cur, cur+1) {
			return &Ref[R]{cell: c}, nil
		}
	}
}

// Unique acquires a unique borrow. It fails with BorrowUnique while any
// borrow is live.
func (c *Cell[R]) Unique() (*RefMut[R], error) {
	if !c.state.CompareAndSwap(int32(stateFree), int32(stateUnique)) {
		return nil, BorrowUnique
	}
	return &RefMut[R]{cell: c}, nil
}

func (c *Cell[R]) releaseShared() {
	if c.state.Add(-1) < 0 {
		panic("depot: shared borrow released on a cell that was not shared")
	}
}

func (c *Cell[R]) releaseUnique() {
	if !c.state.CompareAndSwap(int32(stateUnique), int32(stateFree)) {
		panic("depot: unique borrow released on a cell that was not unique")
	}
}

// Ref is a live shared borrow.
type Ref[R any] struct {
	cell     *Cell[R]
	released atomic.Bool
}

// Get returns the borrowed resource. It must not be used after Release.
func (r *Ref[R]) Get() R {
	return r.cell.value
}

// Release ends the borrow. Calling it more than once is a no-op.
func (r *Ref[R]) Release() {
	if r.released.CompareAndSwap(false, true) {
		r.cell.releaseShared()
	}
}

// RefMut is a live unique borrow.
type RefMut[R any] struct {
	cell     *Cell[R]
	released atomic.Bool
}

// Get returns the borrowed resource. It must not be used after Release.
func (r *RefMut[R]) Get() R {
	return r.cell.value
}

// Set replaces the borrowed resource.
func (r *RefMut[R]) Set(value R) {
	r.cell.value = value
}

// Release ends the borrow. Calling it more than once is a no-op.
func (r *RefMut[R]) Release() {
	if r.released.CompareAndSwap(false, true) {
		r.cell.releaseUnique()
	}
}
