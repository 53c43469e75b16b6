package maf

import (
	"context"
	"io"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/klauspost/compress/gzip"
)

// Open opens the MAF file at path, which may be local or S3 and may be
// gzip-compressed (by suffix). It returns a Reader and a close function that
// must be called when done.
func Open(ctx context.Context, path string) (*Reader, func() error, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	r := io.Reader(in.Reader(ctx))
	var gz *gzip.Reader
	if fileio.DetermineType(path) == fileio.Gzip {
		if gz, err = gzip.NewReader(r); err != nil {
			_ = in.Close(ctx)
			return nil, nil, err
		}
		r = gz
	}
	closeFn := func() error {
		var err error
		if gz != nil {
			err = gz.Close()
		}
		if cerr := in.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
		return err
	}
	return NewReader(r), closeFn, nil
}

// Create creates a MAF file at path, gzip-compressing it when the path has a
// gzip suffix. The returned close function flushes and closes the file.
func Create(ctx context.Context, path string, opts WriterOpts) (*Writer, func() error, error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	w := io.Writer(out.Writer(ctx))
	var gz *gzip.Writer
	if fileio.DetermineType(path) == fileio.Gzip {
		gz = gzip.NewWriter(w)
		w = gz
	}
	writer := NewWriter(w, opts)
	closeFn := func() error {
		err := writer.Flush()
		if gz != nil {
			if cerr := gz.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}
		if cerr := out.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
		return err
	}
	return writer, closeFn, nil
}
