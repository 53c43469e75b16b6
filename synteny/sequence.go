package synteny

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrNoCoordinates is returned when genomic coordinates are requested
	// from a sequence that does not carry any.
	ErrNoCoordinates = errors.New("sequence has no coordinates")
	// ErrNotFound is returned by block lookups for an absent name or species.
	ErrNotFound = errors.New("sequence not found in block")
	// ErrLengthMismatch is returned when a sequence's length disagrees with
	// the column count of the block it is added to, or when per-column
	// annotations disagree with the sequence length.
	ErrLengthMismatch = errors.New("sequence length mismatch")
)

// GapSym is the alignment gap symbol.
const GapSym = '-'

// UnknownSym is the filler symbol inserted for unaligned genomic stretches,
// e.g. between two merged blocks.
const UnknownSym = 'N'

// UnknownQual marks an alignment column with no usable quality score.
const UnknownQual = -1

// Strand identifies which strand of the source genome a sequence was taken
// from. The zero value means the strand is not known.
type Strand byte

const (
	// NoStrand is the unset sentinel.
	NoStrand Strand = 0
	// Forward is the '+' strand.
	Forward Strand = '+'
	// Reverse is the '-' strand.
	Reverse Strand = '-'
)

// Sequence is one genome's row of an alignment block: a name of the form
// "species.chromosome", the aligned letters (DNA plus '-' gaps, with
// lowercase letters marking soft-masked positions), optional genomic
// coordinates and optional per-column quality scores.
//
// The genomic size of a sequence (its number of non-gap letters) is cached
// and kept in sync by every mutating method.
type Sequence struct {
	name       string
	species    string
	chromosome string

	letters []byte
	qual    []int // per column, UnknownQual where absent; nil if no data

	hasCoords bool
	start     int // 0-based offset of the first letter within the source
	strand    Strand
	srcSize   int // total length of the source chromosome

	genomicSize int // non-gap letter count, derived from letters
}

// NewSequence returns a sequence without genomic coordinates. The name is
// split on its first '.' into species and chromosome; a name without a dot
// leaves both empty.
func NewSequence(name, letters string) *Sequence {
	s := &Sequence{name: name, letters: []byte(letters)}
	if i := strings.Index(name, "."); i >= 0 {
		s.species = name[:i]
		s.chromosome = name[i+1:]
	}
	s.recacheGenomicSize()
	return s
}

// NewPositionedSequence returns a sequence located on its source genome.
// start is the 0-based offset of the first non-gap letter on the given
// strand, and srcSize the total length of the source chromosome.
func NewPositionedSequence(name, letters string, start int, strand Strand, srcSize int) *Sequence {
	s := NewSequence(name, letters)
	s.hasCoords = true
	s.start = start
	s.strand = strand
	s.srcSize = srcSize
	return s
}

// Name returns the full sequence name, conventionally "species.chromosome".
func (s *Sequence) Name() string { return s.name }

// Species returns the species part of the name, or "" if the name has no dot.
func (s *Sequence) Species() string { return s.species }

// Chromosome returns the chromosome part of the name, or "" if the name has
// no dot.
func (s *Sequence) Chromosome() string { return s.chromosome }

// NumSites returns the number of alignment columns, gaps included.
func (s *Sequence) NumSites() int { return len(s.letters) }

// GenomicSize returns the number of non-gap letters.
func (s *Sequence) GenomicSize() int { return s.genomicSize }

// Letters returns a copy of the aligned letters.
func (s *Sequence) Letters() string { return string(s.letters) }

// At returns the letter at column i.
func (s *Sequence) At(i int) byte { return s.letters[i] }

// IsGap reports whether column i is a gap.
func (s *Sequence) IsGap(i int) bool { return s.letters[i] == GapSym }

// IsMasked reports whether column i is a soft-masked (lowercase) letter.
func (s *Sequence) IsMasked(i int) bool {
	c := s.letters[i]
	return c >= 'a' && c <= 'z'
}

// HasCoordinates reports whether the sequence is located on its source
// genome.
func (s *Sequence) HasCoordinates() bool { return s.hasCoords }

// RemoveCoordinates drops the genomic location of the sequence. It is called
// by filters whose edits break the contiguity between the aligned letters and
// the source genome.
func (s *Sequence) RemoveCoordinates() {
	s.hasCoords = false
	s.start = 0
	s.strand = NoStrand
	s.srcSize = 0
}

// Start returns the 0-based source offset of the first letter.
func (s *Sequence) Start() (int, error) {
	if !s.hasCoords {
		return 0, errors.Wrap(ErrNoCoordinates, s.name)
	}
	return s.start, nil
}

// Stop returns the 0-based source offset of the last letter, computed as
// start + genomic size - 1.
func (s *Sequence) Stop() (int, error) {
	if !s.hasCoords {
		return 0, errors.Wrap(ErrNoCoordinates, s.name)
	}
	return s.start + s.genomicSize - 1, nil
}

// SetStart sets the source offset of the first letter, marking the sequence
// as located.
func (s *Sequence) SetStart(start int) {
	s.start = start
	s.hasCoords = true
}

// Strand returns the source strand, or NoStrand if unknown.
func (s *Sequence) Strand() Strand { return s.strand }

// SetStrand sets the source strand.
func (s *Sequence) SetStrand(st Strand) { s.strand = st }

// SrcSize returns the total length of the source chromosome; it is zero for
// sequences without coordinates.
func (s *Sequence) SrcSize() int { return s.srcSize }

// HasQuality reports whether the sequence carries per-column quality scores.
func (s *Sequence) HasQuality() bool { return s.qual != nil }

// SetQuality attaches per-column quality scores. There must be exactly one
// score per alignment column; UnknownQual marks columns without a usable
// score.
func (s *Sequence) SetQuality(scores []int) error {
	if len(scores) != len(s.letters) {
		return errors.Wrapf(ErrLengthMismatch, "%s: %d quality scores for %d columns",
			s.name, len(scores), len(s.letters))
	}
	s.qual = append([]int(nil), scores...)
	return nil
}

// QualityAt returns the quality score of column i, or UnknownQual if the
// sequence has no quality data.
func (s *Sequence) QualityAt(i int) int {
	if s.qual == nil {
		return UnknownQual
	}
	return s.qual[i]
}

// Quality returns a copy of the per-column quality scores, or nil.
func (s *Sequence) Quality() []int {
	if s.qual == nil {
		return nil
	}
	return append([]int(nil), s.qual...)
}

// Clone returns a deep copy of the sequence.
func (s *Sequence) Clone() *Sequence {
	c := *s
	c.letters = append([]byte(nil), s.letters...)
	if s.qual != nil {
		c.qual = append([]int(nil), s.qual...)
	}
	return &c
}

// Slice returns a new sequence covering columns [from, to) of s. Coordinates
// are shifted so that the result locates the same genomic letters as the
// original columns; a slice containing no letters of a located sequence still
// carries coordinates pointing at the position the next letter would have.
func (s *Sequence) Slice(from, to int) *Sequence {
	sub := &Sequence{
		name:       s.name,
		species:    s.species,
		chromosome: s.chromosome,
		letters:    append([]byte(nil), s.letters[from:to]...),
		hasCoords:  s.hasCoords,
		strand:     s.strand,
		srcSize:    s.srcSize,
	}
	if s.hasCoords {
		sub.start = s.start + countNonGap(s.letters[:from])
	}
	if s.qual != nil {
		sub.qual = append([]int(nil), s.qual[from:to]...)
	}
	sub.recacheGenomicSize()
	return sub
}

// removeColumns deletes every column i with removed[i] set, keeping quality
// scores aligned and refreshing the genomic size cache. Coordinate
// bookkeeping is the caller's responsibility.
func (s *Sequence) removeColumns(removed []bool) {
	letters := s.letters[:0]
	var qual []int
	if s.qual != nil {
		qual = s.qual[:0]
	}
	for i, c := range s.letters {
		if removed[i] {
			continue
		}
		letters = append(letters, c)
		if s.qual != nil {
			qual = append(qual, s.qual[i])
		}
	}
	s.letters = letters
	s.qual = qual
	s.recacheGenomicSize()
}

// recacheGenomicSize must be called by every mutator that changes letters.
func (s *Sequence) recacheGenomicSize() {
	s.genomicSize = countNonGap(s.letters)
}

// String returns a short description of the sequence and its location, for
// logs and error messages.
func (s *Sequence) String() string {
	if !s.hasCoords {
		return fmt.Sprintf("%s (unplaced, %d sites)", s.name, len(s.letters))
	}
	stop, _ := s.Stop()
	return fmt.Sprintf("%s(%c):%d-%d", s.name, byte(s.strand), s.start, stop)
}

func countNonGap(letters []byte) int {
	n := 0
	for _, c := range letters {
		if c != GapSym {
			n++
		}
	}
	return n
}
