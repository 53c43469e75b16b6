package synteny

// SizeFilter discards blocks with fewer than a minimum number of alignment
// columns.
type SizeFilter struct {
	stage
	minSites int
}

// NewSizeFilter returns a filter that yields only the blocks of in with at
// least minSites columns.
func NewSizeFilter(in Iterator, minSites int) *SizeFilter {
	return &SizeFilter{stage: stage{in: in}, minSites: minSites}
}

// Scan advances to the next block of sufficient size.
func (f *SizeFilter) Scan() bool {
	for {
		b, ok := f.pull()
		if !ok {
			f.cur = nil
			return false
		}
		if b.NumSites() < f.minSites {
			f.logf("size filter: discarded block with %d sites", b.NumSites())
			continue
		}
		f.cur = b
		return true
	}
}

// SpeciesFilter reduces each block to the sequences of a configured species
// set. With Strict set, blocks missing any of the configured species are
// discarded entirely; with RemoveDuplicates set, blocks containing a species
// more than once are discarded entirely. Blocks left without any sequence are
// always discarded.
type SpeciesFilter struct {
	stage
	species      []string
	strict       bool
	rmDuplicates bool
}

// NewSpeciesFilter returns a filter retaining only the given species.
func NewSpeciesFilter(in Iterator, species []string, strict, rmDuplicates bool) *SpeciesFilter {
	return &SpeciesFilter{
		stage:        stage{in: in},
		species:      append([]string(nil), species...),
		strict:       strict,
		rmDuplicates: rmDuplicates,
	}
}

// Scan advances to the next surviving block.
func (f *SpeciesFilter) Scan() bool {
	keep := make(map[string]bool, len(f.species))
	for _, sp := range f.species {
		keep[sp] = true
	}
outer:
	for {
		b, ok := f.pull()
		if !ok {
			f.cur = nil
			return false
		}
		count := make(map[string]int, len(f.species))
		out := NewBlock()
		out.copyAttributes(b)
		for i := 0; i < b.NumSequences(); i++ {
			s := b.Sequence(i)
			if !keep[s.Species()] {
				continue
			}
			count[s.Species()]++
			if f.rmDuplicates && count[s.Species()] > 1 {
				f.logf("species filter: discarded block with duplicated %s", s.Species())
				continue outer
			}
			if err := out.Add(s); err != nil {
				f.err = err
				f.cur = nil
				return false
			}
		}
		if f.strict {
			for _, sp := range f.species {
				if count[sp] == 0 {
					f.logf("species filter: discarded block missing %s", sp)
					continue outer
				}
			}
		}
		if out.NumSequences() == 0 {
			f.logf("species filter: discarded block with no sequence left")
			continue
		}
		f.cur = out
		return true
	}
}
