package maf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/alignio/bio/synteny"
)

// FinishedQual is the quality value encoded as 'F' in MAF 'q' lines,
// marking bases from finished sequence.
const FinishedQual = 10

// WriterOpts configures a Writer.
type WriterOpts struct {
	// Program is recorded on the ##maf header line.
	Program string
	// WriteQuality emits a 'q' line for every sequence carrying quality
	// scores.
	WriteQuality bool
	// Mask replaces the letters of sequences without coordinates by 'N'
	// filler (gaps are kept). Such sequences can no longer be located on
	// their source genome, so their letters are only misleading.
	Mask bool
}

// DefaultWriterOpts is the configuration used by the bio-maf-filter command
// by default.
var DefaultWriterOpts = WriterOpts{
	WriteQuality: true,
	Mask:         true,
}

// Writer serializes synteny blocks as MAF. It implements synteny.Sink, so it
// plugs into synteny.NewOutputIterator. Call Flush when done.
type Writer struct {
	w    *bufio.Writer
	opts WriterOpts
}

// NewWriter returns a MAF writer on w.
func NewWriter(w io.Writer, opts WriterOpts) *Writer {
	return &Writer{w: bufio.NewWriter(w), opts: opts}
}

// WriteHeader writes the ##maf header line.
func (w *Writer) WriteHeader() error {
	if _, err := fmt.Fprintf(w.w, "##maf version=1"); err != nil {
		return err
	}
	if w.opts.Program != "" {
		if _, err := fmt.Fprintf(w.w, " program=%s", w.opts.Program); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w.w)
	return err
}

// WriteBlock writes one alignment paragraph.
func (w *Writer) WriteBlock(b *synteny.Block) error {
	if _, err := fmt.Fprintln(w.w); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w.w, "a"); err != nil {
		return err
	}
	if score, ok := b.Score(); ok {
		if _, err := fmt.Fprintf(w.w, " score=%s", strconv.FormatFloat(score, 'f', -1, 64)); err != nil {
			return err
		}
	}
	if pass, ok := b.Pass(); ok {
		if _, err := fmt.Fprintf(w.w, " pass=%d", pass); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w.w); err != nil {
		return err
	}
	nameW, startW, sizeW, srcW := fieldWidths(b)
	for i := 0; i < b.NumSequences(); i++ {
		s := b.Sequence(i)
		start := 0
		srcSize := 0
		if s.HasCoordinates() {
			start, _ = s.Start()
			srcSize = s.SrcSize()
		}
		strand := byte(s.Strand())
		if s.Strand() == synteny.NoStrand {
			strand = byte(synteny.Forward)
		}
		letters := s.Letters()
		if w.opts.Mask && !s.HasCoordinates() {
			letters = maskLetters(letters)
		}
		_, err := fmt.Fprintf(w.w, "s %-*s %*d %*d %c %*d %s\n",
			nameW, s.Name(), startW, start, sizeW, s.GenomicSize(), strand, srcW, srcSize, letters)
		if err != nil {
			return err
		}
		if w.opts.WriteQuality && s.HasQuality() {
			pad := startW + sizeW + srcW + 6 // the s-line columns the q line skips
			_, err := fmt.Fprintf(w.w, "q %-*s%*s%s\n", nameW, s.Name(), pad, "", qualText(s))
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// Flush writes any buffered output to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

func fieldWidths(b *synteny.Block) (nameW, startW, sizeW, srcW int) {
	for i := 0; i < b.NumSequences(); i++ {
		s := b.Sequence(i)
		start := 0
		srcSize := 0
		if s.HasCoordinates() {
			start, _ = s.Start()
			srcSize = s.SrcSize()
		}
		nameW = max(nameW, len(s.Name()))
		startW = max(startW, len(strconv.Itoa(start)))
		sizeW = max(sizeW, len(strconv.Itoa(s.GenomicSize())))
		srcW = max(srcW, len(strconv.Itoa(srcSize)))
	}
	return
}

func maskLetters(letters string) string {
	out := []byte(letters)
	for i, c := range out {
		if c != synteny.GapSym {
			out[i] = synteny.UnknownSym
		}
	}
	return string(out)
}

func qualText(s *synteny.Sequence) string {
	out := make([]byte, s.NumSites())
	for i := range out {
		switch q := s.QualityAt(i); {
		case s.IsGap(i):
			out[i] = synteny.GapSym
		case q == synteny.UnknownQual:
			out[i] = '.'
		case q >= FinishedQual:
			out[i] = 'F'
		default:
			out[i] = byte('0' + q)
		}
	}
	return string(out)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
