// Package fasta reads the sequence files the RCSB hands out next to the
// coordinates. They look like
//
//	>1TST_1|Chain A|LYSOZYME C|Gallus gallus (9031)
//	KVFGRCELAAAMKRHGLDNYRGYS...
//
// Sequences may run over several lines and white space inside them is
// dropped.
package fasta

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

const cmmtChar = '>'

// Seq is one entry. Cmmt is the line after the >, without the >.
type Seq struct {
	Cmmt string
	Seq  string
}

func (s Seq) Len() int { return len(s.Seq) }

// Chains is the second field of an RCSB comment, like "Chain A" or
// "Chains A, B". It is "" for comments that are not in that form.
func (s Seq) Chains() string {
	f := strings.Split(s.Cmmt, "|")
	if len(f) < 2 {
		return ""
	}
	return strings.TrimSpace(f[1])
}

// Name is the third field of an RCSB comment.
func (s Seq) Name() string {
	f := strings.Split(s.Cmmt, "|")
	if len(f) < 3 {
		return ""
	}
	return strings.TrimSpace(f[2])
}

// removeWhite drops every white space byte
func removeWhite(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\v', '\f', '\r':
			return -1
		}
		return r
	}, s)
}

// Read reads fasta formatted text. Lines before the first > are ignored.
// An empty sequence or no sequences at all is an error.
func Read(rdr io.Reader) ([]Seq, error) {
	var ret []Seq
	var b strings.Builder
	inSeq := false
	finish := func() error {
		if !inSeq {
			return nil
		}
		if b.Len() == 0 {
			return errors.New("Zero length sequence after " + ret[len(ret)-1].Cmmt)
		}
		ret[len(ret)-1].Seq = b.String()
		b.Reset()
		return nil
	}
	scnr := bufio.NewScanner(rdr)
	scnr.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scnr.Scan() {
		line := scnr.Text()
		if len(line) > 0 && line[0] == cmmtChar {
			if err := finish(); err != nil {
				return nil, err
			}
			ret = append(ret, Seq{Cmmt: strings.TrimSpace(line[1:])})
			inSeq = true
			continue
		}
		if inSeq {
			b.WriteString(removeWhite(line))
		}
	}
	if err := scnr.Err(); err != nil {
		return nil, err
	}
	if err := finish(); err != nil {
		return nil, err
	}
	if len(ret) == 0 {
		return nil, errors.New("No sequences found")
	}
	return ret, nil
}
