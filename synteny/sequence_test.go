package synteny

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceName(t *testing.T) {
	tests := []struct {
		name, species, chromosome string
	}{
		{"hg19.chr1", "hg19", "chr1"},
		{"mm10.chr3_random", "mm10", "chr3_random"},
		{"hg19.chr1.alt", "hg19", "chr1.alt"},
		{"scaffold42", "", ""},
	}
	for _, tt := range tests {
		s := NewSequence(tt.name, "ACGT")
		assert.Equal(t, tt.name, s.Name())
		assert.Equal(t, tt.species, s.Species())
		assert.Equal(t, tt.chromosome, s.Chromosome())
	}
}

func TestSequenceGenomicSize(t *testing.T) {
	s := NewSequence("hg19.chr1", "AC--GT-A")
	assert.Equal(t, 8, s.NumSites())
	assert.Equal(t, 5, s.GenomicSize())

	// Mutation must refresh the cached size.
	s.removeColumns([]bool{false, true, true, false, false, false, true, false})
	assert.Equal(t, "AGT-A", s.Letters())
	assert.Equal(t, 4, s.GenomicSize())
}

func TestSequenceCoordinates(t *testing.T) {
	s := NewPositionedSequence("hg19.chr1", "AC--GT", 100, Forward, 10000)
	require.True(t, s.HasCoordinates())
	start, err := s.Start()
	require.NoError(t, err)
	assert.Equal(t, 100, start)
	stop, err := s.Stop()
	require.NoError(t, err)
	assert.Equal(t, 103, stop) // 4 letters starting at 100

	s.RemoveCoordinates()
	assert.False(t, s.HasCoordinates())
	_, err = s.Start()
	assert.Equal(t, ErrNoCoordinates, errors.Cause(err))
	_, err = s.Stop()
	assert.Equal(t, ErrNoCoordinates, errors.Cause(err))
}

func TestSequenceSlice(t *testing.T) {
	s := NewPositionedSequence("hg19.chr1", "A-CG-TAC", 100, Reverse, 10000)
	require.NoError(t, s.SetQuality([]int{9, UnknownQual, 8, 7, UnknownQual, 6, 5, 4}))

	sub := s.Slice(3, 7)
	assert.Equal(t, "G-TA", sub.Letters())
	start, err := sub.Start()
	require.NoError(t, err)
	assert.Equal(t, 102, start) // 2 letters precede column 3
	assert.Equal(t, Reverse, sub.Strand())
	assert.Equal(t, 10000, sub.SrcSize())
	assert.Equal(t, []int{7, UnknownQual, 6, 5}, sub.Quality())

	// The original is untouched.
	assert.Equal(t, "A-CG-TAC", s.Letters())
}

func TestSequenceQuality(t *testing.T) {
	s := NewSequence("hg19.chr1", "ACGT")
	assert.False(t, s.HasQuality())
	assert.Equal(t, UnknownQual, s.QualityAt(2))

	err := s.SetQuality([]int{1, 2, 3})
	assert.Equal(t, ErrLengthMismatch, errors.Cause(err))

	require.NoError(t, s.SetQuality([]int{1, 2, 3, 4}))
	assert.True(t, s.HasQuality())
	assert.Equal(t, 3, s.QualityAt(2))
}

func TestSequenceMaskAndGap(t *testing.T) {
	s := NewSequence("hg19.chr1", "Ac-gT")
	assert.False(t, s.IsMasked(0))
	assert.True(t, s.IsMasked(1))
	assert.True(t, s.IsGap(2))
	assert.True(t, s.IsMasked(3))
	assert.False(t, s.IsGap(4))
}

func TestSequenceClone(t *testing.T) {
	s := NewPositionedSequence("hg19.chr1", "AC-T", 5, Forward, 100)
	require.NoError(t, s.SetQuality([]int{1, 2, UnknownQual, 4}))
	c := s.Clone()
	c.removeColumns([]bool{true, false, false, false})
	c.SetStart(50)
	assert.Equal(t, "AC-T", s.Letters())
	start, err := s.Start()
	require.NoError(t, err)
	assert.Equal(t, 5, start)
	assert.Equal(t, []int{1, 2, UnknownQual, 4}, s.Quality())
}
