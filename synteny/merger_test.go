package synteny

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoSpeciesBlock builds a block with hg19.chr1 and mm10.chr3 rows of the
// given letters and starts.
func twoSpeciesBlock(t *testing.T, hg string, hgStart int, mm string, mmStart int) *Block {
	t.Helper()
	return mustBlock(t,
		NewPositionedSequence("hg19.chr1", hg, hgStart, Forward, 10000),
		NewPositionedSequence("mm10.chr3", mm, mmStart, Forward, 20000),
	)
}

func TestMergerChainsContiguousBlocks(t *testing.T) {
	// Three mutually contiguous single-column blocks merge into one.
	b1 := twoSpeciesBlock(t, "A", 100, "C", 500)
	b2 := twoSpeciesBlock(t, "C", 101, "G", 501)
	b3 := twoSpeciesBlock(t, "G", 102, "T", 502)

	m := NewMerger(NewBlockIterator(b1, b2, b3), []string{"hg19", "mm10"}, 0)
	out := drain(t, m)
	require.Len(t, out, 1)
	merged := out[0]
	assert.Equal(t, 3, merged.NumSites())

	hg, err := merged.ByName("hg19.chr1")
	require.NoError(t, err)
	assert.Equal(t, "ACG", hg.Letters())
	start, err := hg.Start()
	require.NoError(t, err)
	assert.Equal(t, 100, start)
	stop, err := hg.Stop()
	require.NoError(t, err)
	assert.Equal(t, 102, stop)

	mm, err := merged.ByName("mm10.chr3")
	require.NoError(t, err)
	start, err = mm.Start()
	require.NoError(t, err)
	assert.Equal(t, 500, start)
	stop, err = mm.Stop()
	require.NoError(t, err)
	assert.Equal(t, 502, stop)
}

func TestMergerAnchorScenarios(t *testing.T) {
	// block1: hg19 100 len 10, mm10 500 len 10.
	// block2: hg19 110 len 5, mm10 520 len 5. hg19 is contiguous, mm10 has
	// a gap of 10.
	block1 := func() *Block {
		return twoSpeciesBlock(t, "ACGTACGTAC", 100, "ACGTACGTAC", 500)
	}
	block2 := func() *Block {
		return twoSpeciesBlock(t, "ACGTA", 110, "ACGTA", 520)
	}

	// With both species anchored at maxDist 0, the pair must not merge.
	m := NewMerger(NewBlockIterator(block1(), block2()), []string{"hg19", "mm10"}, 0)
	assert.Len(t, drain(t, m), 2)

	// With only hg19 anchored, the pair merges and mm10 loses its
	// coordinates.
	m = NewMerger(NewBlockIterator(block1(), block2()), []string{"hg19"}, 0)
	out := drain(t, m)
	require.Len(t, out, 1)
	hg, err := out[0].ByName("hg19.chr1")
	require.NoError(t, err)
	require.True(t, hg.HasCoordinates())
	start, err := hg.Start()
	require.NoError(t, err)
	assert.Equal(t, 100, start)
	stop, err := hg.Stop()
	require.NoError(t, err)
	assert.Equal(t, 114, stop)
	mm, err := out[0].ByName("mm10.chr3")
	require.NoError(t, err)
	assert.False(t, mm.HasCoordinates())
	assert.Equal(t, "ACGTACGTACACGTA", mm.Letters())
}

func TestMergerFillsGapWithUnknown(t *testing.T) {
	b1 := twoSpeciesBlock(t, "ACGT", 100, "ACGT", 500)
	b2 := twoSpeciesBlock(t, "GGCC", 107, "GGCC", 507)

	// Distance 3 for both anchors, within maxDist.
	m := NewMerger(NewBlockIterator(b1, b2), []string{"hg19", "mm10"}, 5)
	out := drain(t, m)
	require.Len(t, out, 1)
	hg, err := out[0].ByName("hg19.chr1")
	require.NoError(t, err)
	assert.Equal(t, "ACGTNNNGGCC", hg.Letters())
	stop, err := hg.Stop()
	require.NoError(t, err)
	assert.Equal(t, 110, stop) // the filler counts as genomic letters
}

func TestMergerRejectsAsymmetricDistance(t *testing.T) {
	b1 := twoSpeciesBlock(t, "ACGT", 100, "ACGT", 500)
	// hg19 at distance 2, mm10 at distance 4.
	b2 := twoSpeciesBlock(t, "GGCC", 106, "GGCC", 508)

	m := NewMerger(NewBlockIterator(b1, b2), []string{"hg19", "mm10"}, 5)
	assert.Len(t, drain(t, m), 2)
}

func TestMergerRejectsStrandAndChromosomeMismatch(t *testing.T) {
	b1 := twoSpeciesBlock(t, "ACGT", 100, "ACGT", 500)
	b2 := mustBlock(t,
		NewPositionedSequence("hg19.chr1", "GGCC", 104, Reverse, 10000),
		NewPositionedSequence("mm10.chr3", "GGCC", 504, Forward, 20000),
	)
	m := NewMerger(NewBlockIterator(b1, b2), []string{"hg19"}, 0)
	assert.Len(t, drain(t, m), 2)

	b3 := twoSpeciesBlock(t, "ACGT", 100, "ACGT", 500)
	b4 := mustBlock(t,
		NewPositionedSequence("hg19.chr2", "GGCC", 104, Forward, 10000),
		NewPositionedSequence("mm10.chr3", "GGCC", 504, Forward, 20000),
	)
	m = NewMerger(NewBlockIterator(b3, b4), []string{"hg19"}, 0)
	assert.Len(t, drain(t, m), 2)
}

func TestMergerIgnoredChromosome(t *testing.T) {
	b1 := mustBlock(t, NewPositionedSequence("hg19.chrUn", "ACGT", 100, Forward, 10000))
	b2 := mustBlock(t, NewPositionedSequence("hg19.chrUn", "GGCC", 104, Forward, 10000))
	m := NewMerger(NewBlockIterator(b1, b2), []string{"hg19"}, 0)
	m.IgnoreChromosome("chrUn")
	assert.Len(t, drain(t, m), 2)
}

func TestMergerOneSidedSpecies(t *testing.T) {
	b1 := mustBlock(t,
		NewPositionedSequence("hg19.chr1", "ACGT", 100, Forward, 10000),
		NewPositionedSequence("rn5.chr2", "AATT", 40, Forward, 30000),
	)
	b2 := mustBlock(t, NewPositionedSequence("hg19.chr1", "GGCC", 104, Forward, 10000))

	m := NewMerger(NewBlockIterator(b1, b2), []string{"hg19"}, 0)
	out := drain(t, m)
	require.Len(t, out, 1)
	assert.Equal(t, 2, out[0].NumSequences())
	rn, err := out[0].ByName("rn5.chr2")
	require.NoError(t, err)
	// rn5's half is padded with gaps over hg19's second fragment.
	assert.Equal(t, "AATT----", rn.Letters())
	assert.Equal(t, 4, rn.GenomicSize())
	assert.False(t, rn.HasCoordinates()) // not an anchor
}

func TestMergerScoreAndPass(t *testing.T) {
	b1 := mustBlock(t, NewPositionedSequence("hg19.chr1", "AC", 100, Forward, 10000))
	b1.SetScore(10)
	b1.SetPass(1)
	b2 := mustBlock(t, NewPositionedSequence("hg19.chr1", "GTAC", 102, Forward, 10000))
	b2.SetScore(40)
	b2.SetPass(1)

	m := NewMerger(NewBlockIterator(b1, b2), []string{"hg19"}, 0)
	out := drain(t, m)
	require.Len(t, out, 1)
	score, ok := out[0].Score()
	require.True(t, ok)
	assert.Equal(t, 30.0, score) // (10*2 + 40*4) / 6
	pass, ok := out[0].Pass()
	require.True(t, ok)
	assert.Equal(t, 1, pass)

	// Disagreeing pass tags are cleared; a missing score clears the score.
	b3 := mustBlock(t, NewPositionedSequence("hg19.chr1", "AC", 100, Forward, 10000))
	b3.SetScore(10)
	b3.SetPass(1)
	b4 := mustBlock(t, NewPositionedSequence("hg19.chr1", "GT", 102, Forward, 10000))
	b4.SetPass(2)
	m = NewMerger(NewBlockIterator(b3, b4), []string{"hg19"}, 0)
	out = drain(t, m)
	require.Len(t, out, 1)
	_, ok = out[0].Score()
	assert.False(t, ok)
	_, ok = out[0].Pass()
	assert.False(t, ok)
}

func TestMergerEmptyInput(t *testing.T) {
	m := NewMerger(NewBlockIterator(), []string{"hg19"}, 0)
	assert.Empty(t, drain(t, m))
}
