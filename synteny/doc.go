// Package synteny implements an in-memory model of multiple-genome alignment
// blocks (the unit of MAF files) and a set of lazily evaluated, composable
// filters over streams of such blocks.
//
// A Block holds one aligned Sequence per genome, all with the same number of
// columns. Filters implement the Iterator contract: each call to Scan pulls
// as many blocks from the upstream iterator as needed to produce one output
// block, transforming, merging or discarding blocks along the way. Filters
// that discard alignment regions rather than whole blocks can retain the
// removed material and expose it through the TrashIterator contract.
//
// Pipelines are assembled by wrapping iterators:
//
//	r := maf.NewReader(in)
//	it := synteny.NewSizeFilter(r, 10)
//	it = synteny.NewMerger(it, []string{"hg19", "mm10"}, 0)
//	for it.Scan() {
//		process(it.Block())
//	}
//	if it.Err() != nil { ... }
//
// All iterators are forward-only and single-pass, and none of them is safe
// for concurrent use.
package synteny
