package main

// See doc.go for documentation.

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/alignio/bio/encoding/maf"
	"github.com/alignio/bio/synteny"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
)

var (
	minBlockSize = flag.Int("min-block-size", 0, "Discard blocks with fewer alignment columns than this")
	species      = flag.String("species", "", "Comma-separated species to retain; other sequences are dropped")
	strict       = flag.Bool("strict", false, "With -species, discard blocks missing any of the listed species")
	rmDuplicates = flag.Bool("rm-duplicates", false, "With -species, discard blocks containing a species more than once")
	merge        = flag.String("merge", "", "Comma-separated anchor species; contiguous blocks are merged when their anchors agree")
	maxDist      = flag.Int("max-dist", 0, "Maximum genomic distance bridged by a merge (0 = exactly contiguous)")
	ignoreChrs   = flag.String("ignore-chrs", "", "Comma-separated chromosomes never considered for merging (e.g. Un)")
	fullGap      = flag.String("full-gap", "", "Comma-separated species; columns that are gaps across all of them are removed")
	windowSize   = flag.Int("window-size", 0, "Window width for the windowed filters (0 disables them)")
	windowStep   = flag.Int("window-step", 1, "Window step for the windowed filters")
	focal        = flag.String("focal", "", "Comma-separated focal species for the windowed filters (default: the -species list)")
	maxGap       = flag.Int("max-gap", -1, "Remove windows with more than this many gap positions across the focal species (-1 disables)")
	maxMasked    = flag.Int("max-masked", -1, "Remove windows with more than this many soft-masked positions across the focal species (-1 disables)")
	minQual      = flag.Int("min-qual", -1, "Remove windows whose mean quality across the focal species is below this (-1 disables)")
	trashOut     = flag.String("trash-out", "", "Write the regions removed by the windowed filters to this MAF file")
	mask         = flag.Bool("mask", maf.DefaultWriterOpts.Mask, "Replace the letters of unlocatable sequences with N on output")
	quality      = flag.Bool("quality", maf.DefaultWriterOpts.WriteQuality, "Write q lines for sequences carrying quality scores")
	verbose      = flag.Bool("v", false, "Log each filtering decision")
)

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// onceHeader lets several output stages share one sink without repeating its
// header.
type onceHeader struct {
	sink    synteny.Sink
	written bool
}

func (o *onceHeader) WriteHeader() error {
	if o.written {
		return nil
	}
	o.written = true
	return o.sink.WriteHeader()
}

func (o *onceHeader) WriteBlock(b *synteny.Block) error { return o.sink.WriteBlock(b) }

func main() {
	flag.Usage = func() {
		fmt.Printf("Usage: %s [OPTIONS] input.maf[.gz] output.maf[.gz]\n", os.Args[0])
		flag.PrintDefaults()
	}
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 2 {
		log.Fatalf("Expected exactly two positional arguments (input and output paths), got %d", flag.NArg())
	}
	ctx := vcontext.Background()

	reader, closeIn, err := maf.Open(ctx, flag.Arg(0))
	if err != nil {
		log.Fatalf("open %s: %v", flag.Arg(0), err)
	}
	defer func() {
		if err := closeIn(); err != nil {
			log.Error.Printf("close %s: %v", flag.Arg(0), err)
		}
	}()

	logw := os.Stderr
	focalSpecies := splitList(*focal)
	if len(focalSpecies) == 0 {
		focalSpecies = splitList(*species)
	}
	keepTrash := *trashOut != ""

	it := synteny.Iterator(reader)
	var trashes []synteny.TrashIterator
	if *minBlockSize > 0 {
		f := synteny.NewSizeFilter(it, *minBlockSize)
		if *verbose {
			f.SetLogStream(logw)
		}
		it = f
	}
	if list := splitList(*species); len(list) > 0 {
		f := synteny.NewSpeciesFilter(it, list, *strict, *rmDuplicates)
		if *verbose {
			f.SetLogStream(logw)
		}
		it = f
	}
	if anchors := splitList(*merge); len(anchors) > 0 {
		f := synteny.NewMerger(it, anchors, *maxDist)
		for _, chr := range splitList(*ignoreChrs) {
			f.IgnoreChromosome(chr)
		}
		if *verbose {
			f.SetLogStream(logw)
		}
		it = f
	}
	if list := splitList(*fullGap); len(list) > 0 {
		f := synteny.NewFullGapFilter(it, list)
		if *verbose {
			f.SetLogStream(logw)
		}
		it = f
	}
	if *windowSize > 0 && *maxGap >= 0 {
		f := synteny.NewAlignmentFilter(it, focalSpecies, *windowSize, *windowStep, *maxGap, keepTrash)
		if *verbose {
			f.SetLogStream(logw)
		}
		it, trashes = f, append(trashes, f)
	}
	if *windowSize > 0 && *maxMasked >= 0 {
		f := synteny.NewMaskFilter(it, focalSpecies, *windowSize, *windowStep, *maxMasked, keepTrash)
		if *verbose {
			f.SetLogStream(logw)
		}
		it, trashes = f, append(trashes, f)
	}
	if *windowSize > 0 && *minQual >= 0 {
		f := synteny.NewQualityFilter(it, focalSpecies, *windowSize, *windowStep, *minQual, keepTrash)
		if *verbose {
			f.SetLogStream(logw)
		}
		it, trashes = f, append(trashes, f)
	}

	opts := maf.WriterOpts{Program: "bio-maf-filter", WriteQuality: *quality, Mask: *mask}
	var trashTees []*synteny.OutputIterator
	if keepTrash {
		if len(trashes) == 0 {
			log.Fatalf("-trash-out requires an enabled windowed filter")
		}
		trashWriter, closeTrash, err := maf.Create(ctx, *trashOut, opts)
		if err != nil {
			log.Fatalf("create %s: %v", *trashOut, err)
		}
		defer func() {
			if err := closeTrash(); err != nil {
				log.Error.Printf("close %s: %v", *trashOut, err)
			}
		}()
		// Tee the trash channel of every windowed filter to the trash file,
		// advanced in lockstep with the main stream.
		trashSink := &onceHeader{sink: trashWriter}
		for _, tr := range trashes {
			tee, err := synteny.NewOutputIterator(synteny.NewTrashAdapter(tr), trashSink)
			if err != nil {
				log.Fatalf("write %s: %v", *trashOut, err)
			}
			trashTees = append(trashTees, tee)
			it = synteny.NewSynchronizer(it, tee)
		}
	}

	writer, closeOut, err := maf.Create(ctx, flag.Arg(1), opts)
	if err != nil {
		log.Fatalf("create %s: %v", flag.Arg(1), err)
	}
	out, err := synteny.NewOutputIterator(it, writer)
	if err != nil {
		log.Fatalf("write %s: %v", flag.Arg(1), err)
	}
	nBlocks := 0
	for out.Scan() {
		nBlocks++
	}
	if err := out.Err(); err != nil {
		log.Fatalf("filter %s: %v", flag.Arg(0), err)
	}
	// The synchronizers drain one trash block per main-stream block; flush
	// whatever a final burst of removals left behind.
	for _, tee := range trashTees {
		for tee.Scan() {
		}
		if err := tee.Err(); err != nil {
			log.Fatalf("write %s: %v", *trashOut, err)
		}
	}
	if err := closeOut(); err != nil {
		log.Fatalf("close %s: %v", flag.Arg(1), err)
	}
	log.Printf("wrote %d blocks to %s", nBlocks, flag.Arg(1))
}
