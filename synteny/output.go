package synteny

// Sink serializes blocks to an external representation. WriteHeader is called
// once, before the first block.
type Sink interface {
	WriteHeader() error
	WriteBlock(b *Block) error
}

// OutputIterator is a pass-through stage that serializes every block it
// forwards. Blocks are never altered. A nil sink disables the side effect
// entirely.
type OutputIterator struct {
	stage
	sink Sink
}

// NewOutputIterator returns a tee over in writing to sink. The sink's header
// is written immediately.
func NewOutputIterator(in Iterator, sink Sink) (*OutputIterator, error) {
	if sink != nil {
		if err := sink.WriteHeader(); err != nil {
			return nil, err
		}
	}
	return &OutputIterator{stage: stage{in: in}, sink: sink}, nil
}

// Scan advances to the next block, writing it to the sink on the way.
func (o *OutputIterator) Scan() bool {
	b, ok := o.pull()
	if !ok {
		o.cur = nil
		return false
	}
	if o.sink != nil {
		if err := o.sink.WriteBlock(b); err != nil {
			o.err = err
			o.cur = nil
			return false
		}
	}
	o.cur = b
	return true
}

// Synchronizer advances a secondary iterator in lockstep with a primary one:
// on every Scan the primary is pulled first, then the secondary, whose block
// is discarded. The secondary exists for its side effects only (typically an
// output stage over a trash channel, kept aligned block-for-block with the
// main output).
//
// The secondary is pulled on every Scan, including the one that observes the
// primary's end, so both pipelines terminate in lockstep. A secondary that
// ends before the primary is tolerated: its exhausted Scan calls are no-ops
// and the primary stream is never truncated. A secondary error is surfaced
// through Err once the current primary block has been delivered.
type Synchronizer struct {
	stage
	secondary Iterator
}

// NewSynchronizer returns a synchronizing stage over the two iterators.
func NewSynchronizer(primary, secondary Iterator) *Synchronizer {
	return &Synchronizer{stage: stage{in: primary}, secondary: secondary}
}

// Scan advances both iterators and forwards the primary's block.
func (s *Synchronizer) Scan() bool {
	b, ok := s.pull()
	s.secondary.Scan()
	if err := s.secondary.Err(); err != nil && s.err == nil {
		s.err = err
	}
	if !ok {
		s.cur = nil
		return false
	}
	s.cur = b
	return true
}
