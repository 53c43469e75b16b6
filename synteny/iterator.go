package synteny

import (
	"fmt"
	"io"
)

// Iterator is the pull contract shared by block sources and every filter
// stage. The Scan method advances to the next block, returning false when no
// more blocks are available; Block returns the current block and must only be
// called after Scan returned true. When Scan returns false, Err distinguishes
// end of stream (nil) from a failure. A block returned by Block is owned by
// the caller.
//
// Iterators are forward-only and single-pass. They are not safe for
// concurrent use.
type Iterator interface {
	Scan() bool
	Block() *Block
	Err() error
}

// TrashIterator is the secondary pull contract exposed by filters that
// discard alignment regions but keep them for inspection. ScanRemoved drains
// the filter's trash buffer: it returns false whenever the buffer is empty,
// which is not necessarily the end of the trash stream — more removed
// material may surface as the primary stream is advanced further.
type TrashIterator interface {
	ScanRemoved() bool
	RemovedBlock() *Block
	Err() error
}

// sliceIterator yields a fixed list of blocks. It backs NewBlockIterator and
// is the usual head of a pipeline in tests.
type sliceIterator struct {
	blocks []*Block
	cur    *Block
}

// NewBlockIterator returns an iterator over the given blocks, in order.
func NewBlockIterator(blocks ...*Block) Iterator {
	return &sliceIterator{blocks: blocks}
}

func (it *sliceIterator) Scan() bool {
	if len(it.blocks) == 0 {
		it.cur = nil
		return false
	}
	it.cur = it.blocks[0]
	it.blocks = it.blocks[1:]
	return true
}

func (it *sliceIterator) Block() *Block { return it.cur }

func (it *sliceIterator) Err() error { return nil }

// trashAdapter exposes a TrashIterator as a plain Iterator so that a removed-
// block stream can feed another pipeline (typically an output stage).
type trashAdapter struct {
	t TrashIterator
}

// NewTrashAdapter returns an Iterator that yields the removed blocks of t.
func NewTrashAdapter(t TrashIterator) Iterator {
	return &trashAdapter{t: t}
}

func (a *trashAdapter) Scan() bool { return a.t.ScanRemoved() }

func (a *trashAdapter) Block() *Block { return a.t.RemovedBlock() }

func (a *trashAdapter) Err() error { return a.t.Err() }

// stage holds the state every filter shares: the upstream iterator, the
// current block, the first error seen and an optional diagnostics stream.
// It is embedded by the concrete filters, which provide Scan themselves.
type stage struct {
	in   Iterator
	cur  *Block
	err  error
	logw io.Writer
}

// Block returns the block produced by the last successful Scan.
func (s *stage) Block() *Block { return s.cur }

// Err returns the first error encountered, either the filter's own or one
// propagated unchanged from upstream. It is nil after a normal end of stream.
func (s *stage) Err() error { return s.err }

// SetLogStream directs per-block filtering diagnostics to w. The default is
// nil, which silently suppresses them.
func (s *stage) SetLogStream(w io.Writer) { s.logw = w }

// pull fetches one block from upstream. It returns false at end of stream or
// on error; in the latter case the upstream error has been recorded.
func (s *stage) pull() (*Block, bool) {
	if s.err != nil {
		return nil, false
	}
	if !s.in.Scan() {
		s.err = s.in.Err()
		return nil, false
	}
	return s.in.Block(), true
}

func (s *stage) logf(format string, args ...interface{}) {
	if s.logw == nil {
		return
	}
	fmt.Fprintf(s.logw, format+"\n", args...)
}
