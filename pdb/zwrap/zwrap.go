// Package zwrap takes a file pointer and optionally wraps it so upon
// calling Close, the decompressor will be closed, followed by the
// underlying file.
// We look at the first bytes to decide. The PDB mirrors hand out gzipped
// files and some people keep their local copies as zstd.

package zwrap

import (
	"bufio"
	"bytes"
	"errors"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Format is what we found at the start of the stream
type Format byte

const (
	Plain Format = iota
	Gzip
	Zstd
)

func (f Format) String() string {
	switch f {
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	}
	return "plain"
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Sniff says what the leading bytes look like.
func Sniff(b []byte) Format {
	switch {
	case bytes.HasPrefix(b, gzipMagic):
		return Gzip
	case bytes.HasPrefix(b, zstdMagic):
		return Zstd
	}
	return Plain
}

type FpZ struct { // This is what we return.
	fp     io.ReadCloser
	rdr    io.Reader     // what we read from, maybe fp itself
	zrdr   io.ReadCloser // nil if not compressed
	Format Format
}

// Close closes the decompressor, then the underlying backing readCloser.
// It should work if the source is a file or an http stream.
func (fc *FpZ) Close() error {
	if fc.zrdr == nil {
		return fc.fp.Close()
	}
	return errors.Join(fc.zrdr.Close(), fc.fp.Close())
}

// Read makes sure we read from the compressed stream and
// not the underlying file stream.
func (fc *FpZ) Read(p []byte) (int, error) { return fc.rdr.Read(p) }

// Wrap takes a source like a file pointer or http stream and wraps it
// as gzip, whether it is or not. Although we use the name fp, it should
// be happy if it is fed an http stream.
func Wrap(fp io.ReadCloser) (*FpZ, error) {
	zrdr, err := gzip.NewReader(fp)
	if err != nil {
		return nil, err
	}
	return &FpZ{fp: fp, rdr: zrdr, zrdr: zrdr, Format: Gzip}, nil
}

// WrapMaybe will decide if the underlying stream is compressed
// and wrap the file pointer if necessary. It peeks at the start through
// a buffer, so nothing has to seek and an http body is fine.
func WrapMaybe(fp io.ReadCloser) (*FpZ, error) {
	br := bufio.NewReader(fp)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}
	fz := FpZ{fp: fp, rdr: br, Format: Sniff(head)}
	switch fz.Format {
	case Gzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		fz.rdr, fz.zrdr = zr, zr
	case Zstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, err
		}
		fz.rdr, fz.zrdr = zr, zr.IOReadCloser()
	}
	return &fz, nil
}

// ReadAll decompresses, if necessary, everything in b.
func ReadAll(b []byte) ([]byte, error) {
	fz, err := WrapMaybe(io.NopCloser(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	defer fz.Close()
	if fz.Format == Plain {
		return b, nil
	}
	return io.ReadAll(fz)
}
