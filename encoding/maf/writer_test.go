package maf_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alignio/bio/encoding/maf"
	"github.com/alignio/bio/synteny"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func writeAll(t *testing.T, opts maf.WriterOpts, blocks ...*synteny.Block) string {
	t.Helper()
	var buf bytes.Buffer
	w := maf.NewWriter(&buf, opts)
	assert.NoError(t, w.WriteHeader())
	for _, b := range blocks {
		assert.NoError(t, w.WriteBlock(b))
	}
	assert.NoError(t, w.Flush())
	return buf.String()
}

func TestWriter(t *testing.T) {
	b := synteny.NewBlock()
	b.SetScore(100.5)
	b.SetPass(2)
	assert.NoError(t, b.Add(synteny.NewPositionedSequence(
		"hg19.chr1", "ACGTAC--GTAC", 100, synteny.Forward, 10000)))
	mm := synteny.NewPositionedSequence(
		"mm10.chr3", "ACGTACGTACGT", 500, synteny.Forward, 20000)
	assert.NoError(t, mm.SetQuality([]int{
		9, 8, 9, 9, 9, 9, 9, 9, 9, 9, maf.FinishedQual, synteny.UnknownQual}))
	assert.NoError(t, b.Add(mm))

	got := writeAll(t, maf.WriterOpts{Program: "maf-filter", WriteQuality: true}, b)
	expect.EQ(t, got, `##maf version=1 program=maf-filter

a score=100.5 pass=2
s hg19.chr1 100 10 + 10000 ACGTAC--GTAC
s mm10.chr3 500 12 + 20000 ACGTACGTACGT
q mm10.chr3                9899999999F.
`)
}

func TestWriterMask(t *testing.T) {
	b := synteny.NewBlock()
	assert.NoError(t, b.Add(synteny.NewPositionedSequence(
		"hg19.chr1", "AC-GT", 200, synteny.Reverse, 10000)))
	assert.NoError(t, b.Add(synteny.NewSequence("mm10.chr3", "AC-GT")))

	got := writeAll(t, maf.WriterOpts{Mask: true}, b)
	expect.EQ(t, got, `##maf version=1

a
s hg19.chr1 200 4 - 10000 AC-GT
s mm10.chr3   0 4 +     0 NN-NN
`)

	// Without Mask the letters survive even when the sequence lost its
	// coordinates.
	got = writeAll(t, maf.WriterOpts{}, b)
	expect.True(t, strings.Contains(got, "s mm10.chr3   0 4 +     0 AC-GT\n"))
}

func TestWriterRoundTrip(t *testing.T) {
	b := synteny.NewBlock()
	b.SetScore(-12.25)
	hg := synteny.NewPositionedSequence(
		"hg19.chr1", "ACGTAC--GTAC", 100, synteny.Forward, 10000)
	assert.NoError(t, hg.SetQuality([]int{
		5, 5, 5, 5, 5, 5, synteny.UnknownQual, synteny.UnknownQual, 5, 5, 5, 5}))
	assert.NoError(t, b.Add(hg))
	assert.NoError(t, b.Add(synteny.NewPositionedSequence(
		"mm10.chr3", "ACGTACGTACGT", 500, synteny.Reverse, 20000)))

	text := writeAll(t, maf.WriterOpts{WriteQuality: true}, b)
	r := maf.NewReader(strings.NewReader(text))
	assert.True(t, r.Scan())
	got := r.Block()
	assert.EQ(t, got.NumSequences(), 2)
	score, ok := got.Score()
	assert.True(t, ok)
	assert.EQ(t, score, -12.25)
	_, ok = got.Pass()
	expect.False(t, ok)
	for i := 0; i < b.NumSequences(); i++ {
		want := b.Sequence(i)
		gs, err := got.ByName(want.Name())
		assert.NoError(t, err)
		expect.EQ(t, gs.Letters(), want.Letters())
		wantStart, err := want.Start()
		assert.NoError(t, err)
		gotStart, err := gs.Start()
		assert.NoError(t, err)
		expect.EQ(t, gotStart, wantStart)
		expect.EQ(t, gs.Strand(), want.Strand())
		expect.EQ(t, gs.SrcSize(), want.SrcSize())
		expect.EQ(t, gs.HasQuality(), want.HasQuality())
		if want.HasQuality() {
			expect.EQ(t, gs.Quality(), want.Quality())
		}
	}
	assert.False(t, r.Scan())
	assert.NoError(t, r.Err())
}
