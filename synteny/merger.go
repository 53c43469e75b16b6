package synteny

import (
	"bytes"
)

// Merger concatenates consecutive blocks whose anchor species are contiguous
// on their source genomes.
//
// For every anchor species present in both blocks, the chromosome and strand
// must match and the genomic distance between the two fragments must be the
// same for all anchors and no larger than maxDist; an anchor sitting on an
// ignored chromosome forbids merging. Anchors absent from one of the two
// blocks do not take part in the contiguity check. When the distance is
// nonzero, that many 'N' filler columns are inserted between the two halves
// in every sequence. Non-anchor species are concatenated without any check
// and lose their coordinates, since nothing guarantees their two halves are
// contiguous. Merging is greedy: a merged block immediately becomes a
// candidate for merging with the following block.
//
// The merged score is the site-count weighted average of the two scores when
// both are set, and unset otherwise. The pass tag survives only if both
// blocks agree on it.
type Merger struct {
	stage
	anchors    []string
	anchorSet  map[string]bool
	maxDist    int
	ignoreChrs map[string]bool
	incoming   *Block
}

// NewMerger returns a merging filter over in. The first block is fetched
// immediately. maxDist 0 requires exact contiguity.
func NewMerger(in Iterator, anchors []string, maxDist int) *Merger {
	m := &Merger{
		stage:      stage{in: in},
		anchors:    append([]string(nil), anchors...),
		anchorSet:  make(map[string]bool, len(anchors)),
		maxDist:    maxDist,
		ignoreChrs: make(map[string]bool),
	}
	for _, sp := range anchors {
		m.anchorSet[sp] = true
	}
	if b, ok := m.pull(); ok {
		m.incoming = b
	}
	return m
}

// IgnoreChromosome excludes a chromosome (e.g. an unplaced "Un" contig) from
// merging: blocks anchored on it are never merged.
func (m *Merger) IgnoreChromosome(chr string) {
	m.ignoreChrs[chr] = true
}

// Scan advances to the next maximally merged block.
func (m *Merger) Scan() bool {
	if m.err != nil || m.incoming == nil {
		m.cur = nil
		return false
	}
	current := m.incoming
	for {
		b, ok := m.pull()
		if !ok {
			m.incoming = nil
			if m.err != nil {
				m.cur = nil
				return false
			}
			m.cur = current
			return true
		}
		dist, ok := m.contiguous(current, b)
		if !ok {
			m.incoming = b
			m.cur = current
			return true
		}
		merged, err := m.merge(current, b, dist)
		if err != nil {
			m.err = err
			m.cur = nil
			return false
		}
		m.logf("block merger: merged blocks of %d and %d sites at distance %d",
			current.NumSites(), b.NumSites(), dist)
		current = merged
	}
}

// contiguous checks whether next can be appended to cur, returning the
// genomic distance between them. Anchors present on only one side are
// skipped; if no anchor is shared the blocks merge back to back.
func (m *Merger) contiguous(cur, next *Block) (int, bool) {
	dist := -1
	for _, sp := range m.anchors {
		s1, err1 := cur.BySpecies(sp)
		s2, err2 := next.BySpecies(sp)
		if err1 != nil || err2 != nil {
			continue
		}
		if s1.Chromosome() != s2.Chromosome() || s1.Strand() != s2.Strand() {
			return 0, false
		}
		if m.ignoreChrs[s1.Chromosome()] {
			return 0, false
		}
		if !s1.HasCoordinates() || !s2.HasCoordinates() {
			return 0, false
		}
		stop1, _ := s1.Stop()
		start2, _ := s2.Start()
		d := start2 - stop1 - 1
		if d < 0 || d > m.maxDist {
			return 0, false
		}
		if dist >= 0 && d != dist {
			// Asymmetric spacing among anchors: concatenating would
			// misplace at least one of them.
			return 0, false
		}
		dist = d
	}
	if dist < 0 {
		dist = 0
	}
	return dist, true
}

func (m *Merger) merge(cur, next *Block, dist int) (*Block, error) {
	out := NewBlock()
	n1, n2 := cur.NumSites(), next.NumSites()
	if s1, ok1 := cur.Score(); ok1 {
		if s2, ok2 := next.Score(); ok2 {
			out.SetScore((s1*float64(n1) + s2*float64(n2)) / float64(n1+n2))
		}
	}
	if p1, ok1 := cur.Pass(); ok1 {
		if p2, ok2 := next.Pass(); ok2 && p1 == p2 {
			out.SetPass(p1)
		}
	}
	for _, name := range mergedNames(cur, next) {
		s1, err1 := cur.ByName(name)
		s2, err2 := next.ByName(name)
		var s *Sequence
		switch {
		case err1 == nil && err2 == nil:
			s = m.mergeSequences(s1, s2, dist)
		case err1 == nil:
			s = padSequence(s1, 0, dist+n2, m.anchorSet[s1.Species()])
		default:
			s = padSequence(s2, n1+dist, 0, m.anchorSet[s2.Species()])
		}
		if err := out.Add(s); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// mergeSequences concatenates two fragments of the same sequence, with dist
// 'N' filler columns in between. Coordinates survive only for anchors, whose
// contiguity was verified by the caller.
func (m *Merger) mergeSequences(s1, s2 *Sequence, dist int) *Sequence {
	var buf bytes.Buffer
	buf.WriteString(s1.Letters())
	for i := 0; i < dist; i++ {
		buf.WriteByte(UnknownSym)
	}
	buf.WriteString(s2.Letters())
	var s *Sequence
	if m.anchorSet[s1.Species()] && s1.HasCoordinates() && s2.HasCoordinates() {
		start, _ := s1.Start()
		s = NewPositionedSequence(s1.Name(), buf.String(), start, s1.Strand(), s1.SrcSize())
	} else {
		s = NewSequence(s1.Name(), buf.String())
		s.SetStrand(s1.Strand())
	}
	if s1.HasQuality() && s2.HasQuality() {
		qual := s1.Quality()
		for i := 0; i < dist; i++ {
			qual = append(qual, UnknownQual)
		}
		qual = append(qual, s2.Quality()...)
		if err := s.SetQuality(qual); err != nil {
			panic(err) // lengths match by construction
		}
	}
	return s
}

// padSequence extends a sequence present in only one of the two blocks with
// leading and trailing gap columns covering the other block's range. The gaps
// consume no genomic letters, so the fragment's own coordinates stay valid
// and are kept for anchors.
func padSequence(s *Sequence, before, after int, anchor bool) *Sequence {
	var buf bytes.Buffer
	for i := 0; i < before; i++ {
		buf.WriteByte(GapSym)
	}
	buf.WriteString(s.Letters())
	for i := 0; i < after; i++ {
		buf.WriteByte(GapSym)
	}
	var out *Sequence
	if anchor && s.HasCoordinates() {
		start, _ := s.Start()
		out = NewPositionedSequence(s.Name(), buf.String(), start, s.Strand(), s.SrcSize())
	} else {
		out = NewSequence(s.Name(), buf.String())
		out.SetStrand(s.Strand())
	}
	if s.HasQuality() {
		qual := make([]int, 0, before+s.NumSites()+after)
		for i := 0; i < before; i++ {
			qual = append(qual, UnknownQual)
		}
		qual = append(qual, s.Quality()...)
		for i := 0; i < after; i++ {
			qual = append(qual, UnknownQual)
		}
		if err := out.SetQuality(qual); err != nil {
			panic(err)
		}
	}
	return out
}

// mergedNames returns the union of the two blocks' sequence names, cur's
// order first.
func mergedNames(cur, next *Block) []string {
	names := make([]string, 0, cur.NumSequences()+next.NumSequences())
	seen := make(map[string]bool)
	for i := 0; i < cur.NumSequences(); i++ {
		name := cur.Sequence(i).Name()
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for i := 0; i < next.NumSequences(); i++ {
		name := next.Sequence(i).Name()
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}
