package synteny

// The three windowed filters (alignment/gap, mask, quality) share one
// sliding-window engine. The engine keeps a queue of per-column statistics
// spanning the not-yet-released input blocks, so a window may cover the tail
// of one block and the head of the next. Windows of width W are evaluated
// every S columns; a window breaching the filter's threshold marks all of its
// columns for removal, and overlapping windows accumulate their marks. A
// column is stable once every window that could cover it has been evaluated;
// an input block whose columns are all stable is split at the boundaries
// between kept and removed column runs. Kept runs are emitted in order;
// removed runs go to the trash channel when it is enabled, and are dropped
// otherwise.

// colStat aggregates the focal species' contributions for one column: a
// flagged-position count for the gap and mask filters, a score sum plus
// contribution count for the quality filter.
type colStat struct {
	sum int
	n   int
}

type pendingBlock struct {
	b       *Block
	abs     int // absolute index of the block's first column
	removed []bool
}

type colRef struct {
	p   *pendingBlock
	col int
}

type windowFilter struct {
	stage
	species   []string
	width     int
	step      int
	keepTrash bool

	// contribution returns one focal sequence's statistic for a column and
	// whether it counts toward the aggregate.
	contribution func(s *Sequence, col int) (int, bool)
	// breach decides whether a window with the given aggregate is removed.
	breach func(sum, n int) bool

	pending []*pendingBlock
	stats   []colStat
	refs    []colRef
	base    int // absolute index of stats[0]
	total   int // absolute number of columns consumed so far
	nextWin int // absolute start of the next window to evaluate

	out      []*Block
	trash    []*Block
	curTrash *Block
	done     bool
}

func newWindowFilter(in Iterator, species []string, width, step int, keepTrash bool) windowFilter {
	return windowFilter{
		stage:     stage{in: in},
		species:   append([]string(nil), species...),
		width:     width,
		step:      step,
		keepTrash: keepTrash,
	}
}

// Scan advances to the next kept sub-block, consuming as many upstream blocks
// as necessary.
func (f *windowFilter) Scan() bool {
	for {
		if len(f.out) > 0 {
			f.cur = f.out[0]
			f.out = f.out[1:]
			return true
		}
		if f.done {
			f.cur = nil
			return false
		}
		b, ok := f.pull()
		if !ok {
			f.done = true
			if f.err != nil {
				f.cur = nil
				return false
			}
			f.release(true)
			continue
		}
		f.push(b)
	}
}

// ScanRemoved drains the trash buffer; see TrashIterator.
func (f *windowFilter) ScanRemoved() bool {
	if len(f.trash) == 0 {
		f.curTrash = nil
		return false
	}
	f.curTrash = f.trash[0]
	f.trash = f.trash[1:]
	return true
}

// RemovedBlock returns the block produced by the last successful ScanRemoved.
func (f *windowFilter) RemovedBlock() *Block { return f.curTrash }

// push appends one input block's columns to the window queue, evaluates every
// window completed by them and releases the blocks that became stable.
func (f *windowFilter) push(b *Block) {
	n := b.NumSites()
	p := &pendingBlock{b: b, abs: f.total, removed: make([]bool, n)}
	focal := make([]*Sequence, 0, len(f.species))
	for _, sp := range f.species {
		if s, err := b.BySpecies(sp); err == nil {
			focal = append(focal, s)
		}
	}
	for col := 0; col < n; col++ {
		var st colStat
		for _, s := range focal {
			if v, ok := f.contribution(s, col); ok {
				st.sum += v
				st.n++
			}
		}
		f.stats = append(f.stats, st)
		f.refs = append(f.refs, colRef{p: p, col: col})
	}
	f.pending = append(f.pending, p)
	f.total += n
	f.evaluate()
	f.release(false)
}

// evaluate runs every window that is now complete, marking the columns of
// breaching windows.
func (f *windowFilter) evaluate() {
	for f.nextWin+f.width <= f.total {
		start := f.nextWin - f.base
		var sum, n int
		for i := start; i < start+f.width; i++ {
			sum += f.stats[i].sum
			n += f.stats[i].n
		}
		if f.breach(sum, n) {
			for i := start; i < start+f.width; i++ {
				r := f.refs[i]
				r.p.removed[r.col] = true
			}
		}
		f.nextWin += f.step
	}
}

// release splits and emits every pending block whose columns are all stable.
// With all set (end of stream), everything pending is released: no further
// window will be evaluated.
func (f *windowFilter) release(all bool) {
	stable := f.nextWin
	if all || stable > f.total {
		stable = f.total
	}
	for len(f.pending) > 0 {
		p := f.pending[0]
		if p.abs+len(p.removed) > stable {
			break
		}
		f.split(p)
		f.pending = f.pending[1:]
		f.stats = f.stats[len(p.removed):]
		f.refs = f.refs[len(p.removed):]
		f.base += len(p.removed)
	}
}

// split cuts one input block at its kept/removed run boundaries, queueing
// kept runs for emission and removed runs for the trash channel.
func (f *windowFilter) split(p *pendingBlock) {
	n := len(p.removed)
	nRemoved := 0
	for _, rm := range p.removed {
		if rm {
			nRemoved++
		}
	}
	if nRemoved == 0 {
		f.out = append(f.out, p.b)
		return
	}
	f.logf("window filter: removed %d of %d columns", nRemoved, n)
	for from := 0; from < n; {
		to := from
		for to < n && p.removed[to] == p.removed[from] {
			to++
		}
		if p.removed[from] {
			if f.keepTrash {
				if sub := p.b.subBlock(from, to); sub.NumSequences() > 0 {
					f.trash = append(f.trash, sub)
				}
			}
		} else {
			if sub := p.b.subBlock(from, to); sub.NumSequences() > 0 {
				f.out = append(f.out, sub)
			}
		}
		from = to
	}
}

// AlignmentFilter removes the regions where the focal species' alignment is
// gap-ridden: a window of width columns is removed whenever it holds more
// than maxGap gap positions, counted over all focal species. With keepTrash
// set, the removed regions are retained on the trash channel.
type AlignmentFilter struct {
	windowFilter
}

// NewAlignmentFilter returns a windowed gap filter over in.
func NewAlignmentFilter(in Iterator, species []string, width, step, maxGap int, keepTrash bool) *AlignmentFilter {
	f := &AlignmentFilter{newWindowFilter(in, species, width, step, keepTrash)}
	f.contribution = func(s *Sequence, col int) (int, bool) {
		if s.IsGap(col) {
			return 1, true
		}
		return 0, true
	}
	f.breach = func(sum, n int) bool { return sum > maxGap }
	return f
}

// MaskFilter removes the regions where too many focal positions are
// soft-masked (lowercase): a window of width columns is removed whenever it
// holds more than maxMasked masked positions, counted over all focal species.
type MaskFilter struct {
	windowFilter
}

// NewMaskFilter returns a windowed mask filter over in.
func NewMaskFilter(in Iterator, species []string, width, step, maxMasked int, keepTrash bool) *MaskFilter {
	f := &MaskFilter{newWindowFilter(in, species, width, step, keepTrash)}
	f.contribution = func(s *Sequence, col int) (int, bool) {
		if s.IsMasked(col) {
			return 1, true
		}
		return 0, true
	}
	f.breach = func(sum, n int) bool { return sum > maxMasked }
	return f
}

// QualityFilter removes the regions of low sequencing quality: a window of
// width columns is removed whenever the mean quality score over all focal
// species falls below minQual. Sequences without quality data contribute
// nothing; columns whose score is unknown contribute UnknownQual. A window
// with no quality data at all is kept.
type QualityFilter struct {
	windowFilter
}

// NewQualityFilter returns a windowed quality filter over in.
func NewQualityFilter(in Iterator, species []string, width, step, minQual int, keepTrash bool) *QualityFilter {
	f := &QualityFilter{newWindowFilter(in, species, width, step, keepTrash)}
	f.contribution = func(s *Sequence, col int) (int, bool) {
		if !s.HasQuality() {
			return 0, false
		}
		return s.QualityAt(col), true
	}
	f.breach = func(sum, n int) bool { return n > 0 && sum < minQual*n }
	return f
}
