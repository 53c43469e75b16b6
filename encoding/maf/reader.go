package maf

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/alignio/bio/synteny"
	"github.com/grailbio/base/log"
	"github.com/pkg/errors"
)

// A full row of a large alignment block fits on one line.
const maxLineLen = 64 * 1024 * 1024

// Reader parses a MAF stream into synteny blocks. It implements
// synteny.Iterator and is typically the head of a filter pipeline.
type Reader struct {
	sc   *bufio.Scanner
	line int
	cur  *synteny.Block
	err  error
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, maxLineLen)
	return &Reader{sc: sc}
}

// Scan advances to the next alignment block. It returns false at end of
// input or on error; Err tells the two apart.
func (r *Reader) Scan() bool {
	if r.err != nil {
		r.cur = nil
		return false
	}
	for {
		b, err := r.readBlock()
		if err == io.EOF {
			r.cur = nil
			return false
		}
		if err != nil {
			r.err = err
			r.cur = nil
			return false
		}
		if b.NumSequences() == 0 {
			log.Debug.Printf("maf: skipping alignment with no sequences at line %d", r.line)
			continue
		}
		r.cur = b
		return true
	}
}

// Block returns the block produced by the last successful Scan.
func (r *Reader) Block() *synteny.Block { return r.cur }

// Err returns the first error encountered while parsing, or nil.
func (r *Reader) Err() error { return r.err }

func (r *Reader) next() (string, bool) {
	if r.sc.Scan() {
		r.line++
		return r.sc.Text(), true
	}
	return "", false
}

func (r *Reader) readBlock() (*synteny.Block, error) {
	for {
		line, ok := r.next()
		if !ok {
			if err := r.sc.Err(); err != nil {
				return nil, err
			}
			return nil, io.EOF
		}
		t := strings.TrimSpace(line)
		if t == "" || strings.HasPrefix(t, "#") || strings.HasPrefix(t, "track") {
			continue
		}
		fields := strings.Fields(t)
		if fields[0] != "a" {
			return nil, errors.Wrapf(ErrInvalid, "line %d: expected an 'a' line, got %q", r.line, fields[0])
		}
		return r.readParagraph(fields[1:])
	}
}

func (r *Reader) readParagraph(attrs []string) (*synteny.Block, error) {
	b := synteny.NewBlock()
	for _, kv := range attrs {
		i := strings.Index(kv, "=")
		if i < 0 {
			return nil, errors.Wrapf(ErrInvalid, "line %d: malformed attribute %q", r.line, kv)
		}
		key, val := kv[:i], kv[i+1:]
		switch key {
		case "score":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return nil, errors.Wrapf(ErrInvalid, "line %d: bad score %q", r.line, val)
			}
			b.SetScore(f)
		case "pass":
			p, err := strconv.Atoi(val)
			if err != nil {
				return nil, errors.Wrapf(ErrInvalid, "line %d: bad pass %q", r.line, val)
			}
			b.SetPass(p)
		}
	}
	for {
		line, ok := r.next()
		if !ok {
			if err := r.sc.Err(); err != nil {
				return nil, err
			}
			if b.NumSequences() == 0 {
				return nil, errors.Wrapf(ErrShort, "line %d: alignment with no sequences at end of input", r.line)
			}
			return b, nil
		}
		if strings.TrimSpace(line) == "" {
			return b, nil
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "s":
			seq, err := r.parseS(fields)
			if err != nil {
				return nil, err
			}
			if err := b.Add(seq); err != nil {
				return nil, errors.Wrapf(err, "line %d", r.line)
			}
		case "q":
			if err := r.parseQ(fields, b); err != nil {
				return nil, err
			}
		case "i", "e":
			// Per-species context lines, not part of the alignment.
		default:
			return nil, errors.Wrapf(ErrInvalid, "line %d: unknown line type %q", r.line, fields[0])
		}
	}
}

func (r *Reader) parseS(fields []string) (*synteny.Sequence, error) {
	if len(fields) != 7 {
		return nil, errors.Wrapf(ErrInvalid, "line %d: 's' line with %d fields, want 7", r.line, len(fields))
	}
	name := fields[1]
	start, err := strconv.Atoi(fields[2])
	if err != nil || start < 0 {
		return nil, errors.Wrapf(ErrInvalid, "line %d: bad start %q", r.line, fields[2])
	}
	size, err := strconv.Atoi(fields[3])
	if err != nil || size < 0 {
		return nil, errors.Wrapf(ErrInvalid, "line %d: bad size %q", r.line, fields[3])
	}
	var strand synteny.Strand
	switch fields[4] {
	case "+":
		strand = synteny.Forward
	case "-":
		strand = synteny.Reverse
	default:
		return nil, errors.Wrapf(ErrInvalid, "line %d: bad strand %q", r.line, fields[4])
	}
	srcSize, err := strconv.Atoi(fields[5])
	if err != nil || srcSize < 0 {
		return nil, errors.Wrapf(ErrInvalid, "line %d: bad source size %q", r.line, fields[5])
	}
	seq := synteny.NewPositionedSequence(name, fields[6], start, strand, srcSize)
	if seq.GenomicSize() != size {
		return nil, errors.Wrapf(ErrInvalid, "line %d: %s declares %d letters but has %d",
			r.line, name, size, seq.GenomicSize())
	}
	return seq, nil
}

func (r *Reader) parseQ(fields []string, b *synteny.Block) error {
	if len(fields) != 3 {
		return errors.Wrapf(ErrInvalid, "line %d: 'q' line with %d fields, want 3", r.line, len(fields))
	}
	seq, err := b.ByName(fields[1])
	if err != nil {
		return errors.Wrapf(ErrInvalid, "line %d: 'q' line for unknown sequence %s", r.line, fields[1])
	}
	text := fields[2]
	scores := make([]int, len(text))
	for i := 0; i < len(text); i++ {
		switch c := text[i]; {
		case c >= '0' && c <= '9':
			scores[i] = int(c - '0')
		case c == 'F' || c == 'f':
			scores[i] = FinishedQual
		default: // '-', '.', 'N': no usable score
			scores[i] = synteny.UnknownQual
		}
	}
	if err := seq.SetQuality(scores); err != nil {
		return errors.Wrapf(err, "line %d", r.line)
	}
	return nil
}
