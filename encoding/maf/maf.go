// Package maf reads and writes MAF (Multiple Alignment Format) files as
// streams of synteny blocks. See
// https://genome.ucsc.edu/FAQ/FAQformat.html#format5.
//
// A MAF file is line oriented: a "##maf" header, then alignment paragraphs
// separated by blank lines. Each paragraph starts with an "a" line carrying
// key=value attributes (score, pass) and contains one "s" line per aligned
// sequence ("s name start size strand srcSize text") optionally followed by a
// "q" line with per-column quality codes. "i", "e" and comment lines are
// skipped.
//
// Reader implements synteny.Iterator and Writer implements synteny.Sink, so
// the two plug directly into filter pipelines.
package maf

import (
	"errors"
)

var (
	// ErrInvalid is returned when a malformed MAF record is encountered.
	ErrInvalid = errors.New("invalid MAF file")
	// ErrShort is returned when a MAF file ends in the middle of a record.
	ErrShort = errors.New("short MAF file")
)
