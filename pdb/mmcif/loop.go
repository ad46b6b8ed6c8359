package mmcif

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
)

const maxLineLen = 1024 * 1024 // bufio's default of 64k is too small for some text fields

// cmmtScanner is a wrapper around bufio.Scanner that will jump over
// blank lines and lines starting with a comment character, and remove
// leading and trailing white space.
// It also counts newlines in n, so we can print out the line
// number in error messages.
type cmmtScanner struct {
	*bufio.Scanner        // standard library scanner
	ctoken         []byte // Store the bytes that will be returned by cbytes()
	n              int    // line number in the mmcif file
	cmmt           byte   // Comment character
}

func newCmmtScanner(r io.Reader, cmmt byte) *cmmtScanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineLen)
	return &cmmtScanner{Scanner: s, cmmt: cmmt}
}

// cscan is a wrapper around the library Scan(). It jumps over blank lines
// and lines starting with a comment character. Comment characters are only
// recognised as the first character, since they are legitimate elsewhere
// in the text.
// It returns false at the end of input or on error. Look at Err() to see
// which.
func (s *cmmtScanner) cscan() bool {
	for s.Scan() {
		s.n++
		b := bytes.TrimSpace(s.Bytes())
		if len(b) == 0 || b[0] == s.cmmt {
			continue
		}
		s.ctoken = b
		return true
	}
	s.ctoken = nil
	return false
}

// cbytes is like Bytes from the library, but returns the trimmed line.
func (s *cmmtScanner) cbytes() []byte { return s.ctoken }

// craw is the current line as it was in the file.
func (s *cmmtScanner) craw() []byte { return s.Bytes() }

// scanState is where we are relative to the atom_site loop.
type scanState byte

const (
	stateBeforeLoop scanState = iota // have not seen an _atom_site. header
	stateInHeader                    // reading _atom_site.xxx declarations
	stateInData                      // reading ATOM / HETATM lines
)

func (s scanState) String() string {
	switch s {
	case stateBeforeLoop:
		return "BeforeLoop"
	case stateInHeader:
		return "InHeader"
	case stateInData:
		return "InData"
	}
	return "unknown"
}

// lineKind is what the state machine needs to know about a line.
// Blank lines and comments never get this far.
type lineKind byte

const (
	lineOther  lineKind = iota
	lineHeader          // _atom_site.xxx
	lineAtom            // ATOM or HETATM
)

const atomSitePrefix = "_atom_site."

var (
	bAtomSite = []byte(atomSitePrefix)
	bAtom     = []byte("ATOM")
	bHetatm   = []byte("HETATM")
)

// hasWord says if b starts with w and w is a whole word, so ATOM matches
// "ATOM 1 N" and "ATOM", but not "ATOMS".
func hasWord(b, w []byte) bool {
	if !bytes.HasPrefix(b, w) {
		return false
	}
	return len(b) == len(w) || iswhite(b[len(w)])
}

// classify looks at a trimmed line. Note that _atom_sites.xxx is a different
// category and is "other".
func classify(b []byte) lineKind {
	switch {
	case bytes.HasPrefix(b, bAtomSite):
		return lineHeader
	case hasWord(b, bAtom), hasWord(b, bHetatm):
		return lineAtom
	}
	return lineOther
}

// step is the whole state machine. Given where we are and the kind of the
// next line it says where we go, whether the line is an atom to keep and
// whether we are finished.
// Once we are in the loop, anything that is not a header or an atom ends it.
// That is how cif loops end, at the next unrelated statement.
func step(st scanState, k lineKind) (next scanState, keep, done bool) {
	switch st {
	case stateBeforeLoop:
		if k == lineHeader {
			return stateInHeader, false, false
		}
		return stateBeforeLoop, false, false
	case stateInHeader:
		switch k {
		case lineHeader:
			return stateInHeader, false, false
		case lineAtom:
			return stateInData, true, false
		}
		return stateInHeader, false, true
	case stateInData:
		switch k {
		case lineAtom:
			return stateInData, true, false
		case lineHeader:
			return stateInData, false, false
		}
		return stateInData, false, true
	}
	return st, false, true
}

// srcLine is an atom line and where it came from.
type srcLine struct {
	n int
	s string
}

// extractLoop runs the state machine over the input and returns the atom
// lines from the atom_site loop.
func extractLoop(r io.Reader) ([]srcLine, error) {
	scnr := newCmmtScanner(r, '#')
	var ret []srcLine
	st := stateBeforeLoop
	for scnr.cscan() {
		b := scnr.cbytes()
		var keep, done bool
		st, keep, done = step(st, classify(b))
		if keep {
			ret = append(ret, srcLine{n: scnr.n, s: string(scnr.craw())})
		}
		if done {
			break
		}
	}
	if err := scnr.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, malformed("line %d is longer than %d bytes", scnr.n+1, maxLineLen)
		}
		return nil, malformed("reading: %v", err)
	}
	if len(ret) == 0 {
		return nil, &StructureError{Kind: NoAtomData}
	}
	return ret, nil
}

// ExtractAtomSiteLines returns the ATOM and HETATM lines of the atom_site
// loop in doc, as they appear in the file and in file order. If there are none, the error
// is NoAtomData.
func ExtractAtomSiteLines(doc string) ([]string, error) {
	src, err := extractLoop(strings.NewReader(doc))
	if err != nil {
		return nil, err
	}
	ret := make([]string, len(src))
	for i, l := range src {
		ret[i] = l.s
	}
	return ret, nil
}
