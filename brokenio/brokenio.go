// brokenio is a wrapper around an io.ReadCloser that breaks on request.
// Typical use: you have a file pointer, a decompressing reader or an
// http body. You write
// rdr = brokenio.NewReader(rdr)
// and set when it should fail. Everything then works as before, until
// it does not.
// A failure can be an error after some number of bytes, a file that is
// empty on the first read, or the tail of a buffer being zeroed. The
// last one is random, but from a seeded generator so tests repeat.

package brokenio

import (
	"errors"
	"io"
	"math/rand/v2"
)

// ErrBroken is what a Reader returns when it fails on purpose.
var ErrBroken = errors.New("brokenio: deliberate read failure")

// BrknRdrClsr counts what goes through and fails as it has been told.
type BrknRdrClsr struct {
	rdrOrig   io.ReadCloser
	failAfter int // return ErrBroken once this many bytes have gone by. < 0 never
	zeroFile  bool
	probTrash float32 // probability that a read has its tail zeroed
	fracTrash float32 // how much of the tail
	rnd       *rand.Rand
	nCalled   int
	nByte     int
	closed    bool
}

// NewReader returns a reader that behaves like rIn until told otherwise.
func NewReader(rIn io.ReadCloser) *BrknRdrClsr {
	return &BrknRdrClsr{rdrOrig: rIn, failAfter: -1, fracTrash: 0.5}
}

// SetFailAfter makes every read after n bytes return ErrBroken. The
// read that crosses n returns the bytes up to n and the error.
func (r *BrknRdrClsr) SetFailAfter(n int) { r.failAfter = n }

// SetZeroFile makes the first read return io.EOF, as on an empty file.
func (r *BrknRdrClsr) SetZeroFile(b bool) { r.zeroFile = b }

// SetTrash zeroes the last frac of a read buffer with probability prob.
// seed fixes the sequence of decisions.
func (r *BrknRdrClsr) SetTrash(prob, frac float32, seed uint64) {
	r.probTrash, r.fracTrash = prob, frac
	r.rnd = rand.New(rand.NewPCG(seed, seed))
}

// NByte is how much has been read so far
func (r *BrknRdrClsr) NByte() int { return r.nByte }

// Closed says if Close has been called
func (r *BrknRdrClsr) Closed() bool { return r.closed }

// trashSlice wipes out the second part of a slice.
// The amount to wipe out is given by a fraction, so 0.3
// will wipe out the last 30 % of a slice.
func trashSlice(p []byte, frac float32) int {
	nkeep := int(float32(len(p)) * (1. - frac))
	clear(p[nkeep:])
	return nkeep
}

func (r *BrknRdrClsr) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if r.nCalled == 0 && r.zeroFile {
		r.nCalled++
		return 0, io.EOF
	}
	r.nCalled++
	if r.failAfter >= 0 {
		left := r.failAfter - r.nByte
		if left <= 0 {
			return 0, ErrBroken
		}
		if len(p) > left {
			p = p[:left]
		}
	}
	n, err := r.rdrOrig.Read(p)
	if r.rnd != nil && n > 0 && r.rnd.Float32() < r.probTrash {
		n = trashSlice(p[:n], r.fracTrash)
	}
	r.nByte += n
	if err == nil && r.failAfter >= 0 && r.nByte >= r.failAfter {
		err = ErrBroken
	}
	return n, err
}

// Close wraps the original Close method.
func (r *BrknRdrClsr) Close() error {
	r.closed = true
	return r.rdrOrig.Close()
}
