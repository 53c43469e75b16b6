package synteny

// FullGapFilter removes from each block the columns where every focal species
// has a gap. The focal species themselves are unaffected by the removal (only
// their gaps go away), so their coordinates are preserved. Any other sequence
// that loses a letter in a removed column has an internal stretch excised
// without its own gap pattern reflecting it, so its coordinates no longer
// describe contiguous genomic positions and are dropped. Blocks reduced to
// zero columns are discarded.
type FullGapFilter struct {
	stage
	species []string
}

// NewFullGapFilter returns a filter removing the columns that are gaps across
// all of the given species.
func NewFullGapFilter(in Iterator, species []string) *FullGapFilter {
	return &FullGapFilter{stage: stage{in: in}, species: append([]string(nil), species...)}
}

// Scan advances to the next non-empty filtered block.
func (f *FullGapFilter) Scan() bool {
	for {
		b, ok := f.pull()
		if !ok {
			f.cur = nil
			return false
		}
		focal := make([]*Sequence, 0, len(f.species))
		isFocal := make(map[*Sequence]bool)
		for _, sp := range f.species {
			if s, err := b.BySpecies(sp); err == nil {
				focal = append(focal, s)
				isFocal[s] = true
			}
		}
		if len(focal) == 0 {
			// None of the focal species is present: no column is
			// examinable, leave the block as is.
			f.cur = b
			return true
		}
		removed := make([]bool, b.NumSites())
		nRemoved := 0
		for col := range removed {
			allGap := true
			for _, s := range focal {
				if !s.IsGap(col) {
					allGap = false
					break
				}
			}
			if allGap {
				removed[col] = true
				nRemoved++
			}
		}
		if nRemoved == 0 {
			f.cur = b
			return true
		}
		if nRemoved == b.NumSites() {
			f.logf("full gap filter: discarded block made only of gap columns")
			continue
		}
		for i := 0; i < b.NumSequences(); i++ {
			s := b.Sequence(i)
			if !isFocal[s] {
				for col, rm := range removed {
					if rm && !s.IsGap(col) {
						s.RemoveCoordinates()
						break
					}
				}
			}
			s.removeColumns(removed)
		}
		f.logf("full gap filter: removed %d columns", nRemoved)
		f.cur = b
		return true
	}
}
