package depot

// chunkCursor walks [current, end) in steps. start is where the chunk view
// began, remainders are measured from it.
type chunkCursor struct {
	start   int
	current int
	end     int
	step    int
}

func newChunkCursor(current, end, step int) chunkCursor {
	if step <= 0 {
		panic("depot: chunk step must be positive")
	}
	return chunkCursor{start: current, current: current, end: end, step: step}
}

func (c *chunkCursor) next() (int, int, bool) {
	if c.current >= c.end {
		return 0, 0, false
	}
	lo := c.current
	c.current = min(c.current+c.step, c.end)
	return lo, c.current, true
}

func (c *chunkCursor) nextExact() (int, int, bool) {
	if c.current+c.step > c.end {
		return 0, 0, false
	}
	lo := c.current
	c.current += c.step
	return lo, c.current, true
}

// remainder cuts the trailing partial chunk off end and returns its bounds.
// Once cut, the tail is empty.
func (c *chunkCursor) remainder() (int, int) {
	n := min(c.end-c.current, (c.end-c.start)%c.step)
	old := c.end
	c.end -= n
	return c.end, old
}

// Chunk1 yields consecutive slices of up to step components. The last one
// may be shorter.
type Chunk1[T any] struct {
	data []T
	c    chunkCursor
}

func (ch *Chunk1[T]) FirstPass() ([]T, bool) {
	lo, hi, ok := ch.c.next()
	if !ok {
		return nil, false
	}
	return ch.data[lo:hi:hi], true
}

func (ch *Chunk1[T]) PostProcess(s []T) []T { return s }

// ChunkExact1 yields slices of exactly step components. The trailing
// partial slice is only reachable through Remainder.
type ChunkExact1[T any] struct {
	data []T
	c    chunkCursor
}

func (ch *ChunkExact1[T]) FirstPass() ([]T, bool) {
	lo, hi, ok := ch.c.nextExact()
	if !ok {
		return nil, false
	}
	return ch.data[lo:hi:hi], true
}

func (ch *ChunkExact1[T]) PostProcess(s []T) []T { return s }

// Remainder returns the trailing partial slice. Later calls return an empty
// slice.
func (ch *ChunkExact1[T]) Remainder() []T {
	lo, hi := ch.c.remainder()
	return ch.data[lo:hi:hi]
}

// Slices2 holds matching slices of two tightly packed storages.
type Slices2[A, B any] struct {
	A []A
	B []B
}

type Chunk2[A, B any] struct {
	a []A
	b []B
	c chunkCursor
}

func (ch *Chunk2[A, B]) FirstPass() (Slices2[A, B], bool) {
	lo, hi, ok := ch.c.next()
	if !ok {
		return Slices2[A, B]{}, false
	}
	return Slices2[A, B]{A: ch.a[lo:hi:hi], B: ch.b[lo:hi:hi]}, true
}

func (ch *Chunk2[A, B]) PostProcess(s Slices2[A, B]) Slices2[A, B] { return s }

type ChunkExact2[A, B any] struct {
	a []A
	b []B
	c chunkCursor
}

func (ch *ChunkExact2[A, B]) FirstPass() (Slices2[A, B], bool) {
	lo, hi, ok := ch.c.nextExact()
	if !ok {
		return Slices2[A, B]{}, false
	}
	return Slices2[A, B]{A: ch.a[lo:hi:hi], B: ch.b[lo:hi:hi]}, true
}

func (ch *ChunkExact2[A, B]) PostProcess(s Slices2[A, B]) Slices2[A, B] { return s }

func (ch *ChunkExact2[A, B]) Remainder() Slices2[A, B] {
	lo, hi := ch.c.remainder()
	return Slices2[A, B]{A: ch.a[lo:hi:hi], B: ch.b[lo:hi:hi]}
}

type Slices3[A, B, C any] struct {
	A []A
	B []B
	C []C
}

type Chunk3[A, B, C any] struct {
	a  []A
	b  []B
	cc []C
	c  chunkCursor
}

func (ch *Chunk3[A, B, C]) FirstPass() (Slices3[A, B, C], bool) {
	lo, hi, ok := ch.c.next()
	if !ok {
		return Slices3[A, B, C]{}, false
	}
	return ch.slices(lo, hi), true
}

func (ch *Chunk3[A, B, C]) PostProcess(s Slices3[A, B, C]) Slices3[A, B, C] { return s }

func (ch *Chunk3[A, B, C]) slices(lo, hi int) Slices3[A, B, C] {
	return Slices3[A, B, C]{A: ch.a[lo:hi:hi], B: ch.b[lo:hi:hi], C: ch.cc[lo:hi:hi]}
}

type ChunkExact3[A, B, C any] struct {
	a  []A
	b  []B
	cc []C
	c  chunkCursor
}

func (ch *ChunkExact3[A, B, C]) FirstPass() (Slices3[A, B, C], bool) {
	lo, hi, ok := ch.c.nextExact()
	if !ok {
		return Slices3[A, B, C]{}, false
	}
	return ch.slices(lo, hi), true
}

func (ch *ChunkExact3[A, B, C]) PostProcess(s Slices3[A, B, C]) Slices3[A, B, C] { return s }

func (ch *ChunkExact3[A, B, C]) Remainder() Slices3[A, B, C] {
	return ch.slices(ch.c.remainder())
}

func (ch *ChunkExact3[A, B, C]) slices(lo, hi int) Slices3[A, B, C] {
	return Slices3[A, B, C]{A: ch.a[lo:hi:hi], B: ch.b[lo:hi:hi], C: ch.cc[lo:hi:hi]}
}
