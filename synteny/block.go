package synteny

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Block is one synteny block: an ordered set of sequences, one per genome,
// aligned over the same columns. Every sequence in a block has the same
// number of sites; Add enforces this. A block optionally carries an alignment
// score and an integer "pass" tag recording which scoring pass produced it.
type Block struct {
	seqs []*Sequence

	score    float64
	hasScore bool
	pass     int
	hasPass  bool
}

// NewBlock returns an empty block with no score and no pass tag.
func NewBlock() *Block {
	return &Block{}
}

// NumSequences returns the number of sequences in the block.
func (b *Block) NumSequences() int { return len(b.seqs) }

// NumSites returns the number of alignment columns, or 0 for an empty block.
func (b *Block) NumSites() int {
	if len(b.seqs) == 0 {
		return 0
	}
	return b.seqs[0].NumSites()
}

// Add appends a sequence to the block. The sequence must have the same
// number of sites as the sequences already present.
func (b *Block) Add(s *Sequence) error {
	if len(b.seqs) > 0 && s.NumSites() != b.NumSites() {
		return errors.Wrapf(ErrLengthMismatch, "%s: %d sites in a block of %d",
			s.Name(), s.NumSites(), b.NumSites())
	}
	b.seqs = append(b.seqs, s)
	return nil
}

// Sequence returns the i'th sequence of the block.
func (b *Block) Sequence(i int) *Sequence { return b.seqs[i] }

// ByName returns the sequence with the given full name.
func (b *Block) ByName(name string) (*Sequence, error) {
	for _, s := range b.seqs {
		if s.Name() == name {
			return s, nil
		}
	}
	return nil, errors.Wrap(ErrNotFound, name)
}

// BySpecies returns the first sequence belonging to the given species.
func (b *Block) BySpecies(species string) (*Sequence, error) {
	for _, s := range b.seqs {
		if s.Species() == species {
			return s, nil
		}
	}
	return nil, errors.Wrap(ErrNotFound, species)
}

// HasSpecies reports whether at least one sequence of the given species is
// present.
func (b *Block) HasSpecies(species string) bool {
	_, err := b.BySpecies(species)
	return err == nil
}

// Score returns the alignment score and whether one is set.
func (b *Block) Score() (float64, bool) { return b.score, b.hasScore }

// SetScore sets the alignment score.
func (b *Block) SetScore(score float64) {
	b.score = score
	b.hasScore = true
}

// ClearScore removes the alignment score.
func (b *Block) ClearScore() {
	b.score = 0
	b.hasScore = false
}

// Pass returns the pass tag and whether one is set.
func (b *Block) Pass() (int, bool) { return b.pass, b.hasPass }

// SetPass sets the pass tag.
func (b *Block) SetPass(pass int) {
	b.pass = pass
	b.hasPass = true
}

// ClearPass removes the pass tag. Merging blocks with disagreeing tags does
// this to mark the provenance as mixed.
func (b *Block) ClearPass() {
	b.pass = 0
	b.hasPass = false
}

// copyAttributes copies score and pass from src. Used by filters that rebuild
// a block while keeping its identity.
func (b *Block) copyAttributes(src *Block) {
	b.score, b.hasScore = src.score, src.hasScore
	b.pass, b.hasPass = src.pass, src.hasPass
}

// Clone returns a deep copy of the block.
func (b *Block) Clone() *Block {
	c := NewBlock()
	c.copyAttributes(b)
	for _, s := range b.seqs {
		c.seqs = append(c.seqs, s.Clone())
	}
	return c
}

// String returns a short description of the block, for logs and error
// messages.
func (b *Block) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "block of %d sites", b.NumSites())
	for i, s := range b.seqs {
		if i == 0 {
			sb.WriteString(": ")
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(s.String())
	}
	return sb.String()
}

// subBlock returns a new block covering columns [from, to) of b, with
// per-sequence coordinates shifted accordingly. Sequences that have no letter
// left in the range (all gaps) are dropped. Score and pass are inherited.
func (b *Block) subBlock(from, to int) *Block {
	sub := NewBlock()
	sub.copyAttributes(b)
	for _, s := range b.seqs {
		ss := s.Slice(from, to)
		if ss.GenomicSize() == 0 {
			continue
		}
		sub.seqs = append(sub.seqs, ss)
	}
	return sub
}
