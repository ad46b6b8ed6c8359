// Splitting lines at spaces and quotes.

/* from https://www.iucr.org/resources/cif/spec/version1.1/cifsyntax
               character or string role
_ (underscore) identifies data name
#              identifies comment
$              identifies save frame pointer
'              delimits non-simple data values
"              delimits non-simple data values
[              reserved opening delimiter for non-simple data values (see paragraph 19)
]              reserved closing delimiter for non-simple data values (see paragraph 19)
; at beginning of line of text delimits non-simple data values
data_          identifies data block header (case-insensitive)
save_          identifies save frame header or terminator (case-insensitive)
*/

package mmcif

import (
	"errors"
	"strings"
)

const (
	squote byte = '\''
	dquote byte = '"'
)

// iswhite only works for ascii spaces
var asciiSpace = [256]bool{
	'\t': true, '\n': true, '\v': true, '\f': true, '\r': true, ' ': true,
}

// iswhite returns true if a byte is on the list of white space characters.
func iswhite(b byte) bool {
	return asciiSpace[b]
}

// isquote not only checks if we have a quote character, but also
func isquote(b byte, qtype *byte) bool { // stores its type
	if b == squote || b == dquote { //     (single or double) so we can
		*qtype = b  //                      look for the
		return true //                      corresponding
	} //                                    closing quote
	return false
}

type sInfo struct { // Holds the state of the state functions
	err     error
	ret     []string // This is what we will really return
	in      string
	nxtIndx int
	qtype   byte // type of quote
}
type sfn func(i int, c byte, s *sInfo) sfn // state function

func sfnInQuote(i int, c byte, sInfo *sInfo) sfn { // First state, in quoted region
	if c == sInfo.qtype {
		return sfnExitQuote
	}
	if c == '\n' {
		sInfo.err = errors.New("unterminated quote line: " + sInfo.in)
		return sfnWhite
	}
	return sfnInQuote
}

func sfnExitQuote(i int, c byte, sInfo *sInfo) sfn { // Second state
	if iswhite(c) { // quote followed by white really ends a quoted region
		sInfo.ret = append(sInfo.ret, sInfo.in[sInfo.nxtIndx:i-1])
		return sfnWhite
	}
	return sfnInQuote // but if a character comes, we go back to quoted region
}

func sfnInText(i int, c byte, sInfo *sInfo) sfn {
	if iswhite(c) {
		sInfo.ret = append(sInfo.ret, sInfo.in[sInfo.nxtIndx:i])
		return sfnWhite
	}
	return sfnInText
}

func sfnWhite(i int, c byte, sInfo *sInfo) sfn { // State - in white space region
	switch {
	case iswhite(c):
		return sfnWhite
	case isquote(c, &sInfo.qtype):
		sInfo.nxtIndx = i + 1
		return sfnInQuote
	default:
		sInfo.nxtIndx = i
		return sfnInText
	}
}

// splitCifLine takes a line and returns the words in it. They are
// separated by spaces, but a quoted region is one word, even if it has
// spaces inside. The quotes themselves are not returned. A quote only
// closes a region if it is followed by white space, so 'it's' is one word.
// We have a small finite state machine with four states. When we leave text or
// a quote followed by a space, we save the word and append it to "ret".
func splitCifLine(in string, retIn []string) ([]string, error) {
	if len(in) < 1 {
		return nil, nil
	}

	var sInfo = sInfo{ret: retIn[:0], in: in}

	state := sfnWhite
	for i := 0; i < len(in); i++ {
		state = state(i, in[i], &sInfo)
	}
	state(len(in), '\n', &sInfo) // end with newline, catches unterminated quotes
	if sInfo.err != nil {        // Just check at end, to avoid if statements within loop
		return nil, sInfo.err
	}
	return sInfo.ret, nil
}

// unquote removes one matching pair of quotes from around s.
// A string like "c5'" comes to us with unwanted quotes around it.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if first == dquote && last == dquote || first == squote && last == squote {
		return s[1 : len(s)-1]
	}
	return s
}

// stripAllQuotes removes every quote character, not just the ones at the end.
var quoteStripper = strings.NewReplacer("'", "", `"`, "")

func stripAllQuotes(s string) string { return quoteStripper.Replace(s) }
