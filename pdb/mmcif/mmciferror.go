// An error implementation that saves the kind of problem, the line number
// and the line we were trying to read.
package mmcif

import (
	"fmt"
	"strconv"
)

const maxMsgLen = 120 // an atom_site line from the PDB is about 90 bytes

// Kind says what sort of structure error we have. Callers should switch
// on this (or use errors.Is with the Err... values) rather than look at
// the message.
type Kind byte

const (
	MalformedDocument   Kind = iota + 1 // too few sections, unreadable text
	NoAtomData                          // no ATOM or HETATM lines in the atom_site loop
	FieldCountMismatch                  // an atom line without exactly 21 fields
	NumericFieldInvalid                 // a number column that does not parse
)

var kindNames = [...]string{
	MalformedDocument:   "MalformedDocument",
	NoAtomData:          "NoAtomData",
	FieldCountMismatch:  "FieldCountMismatch",
	NumericFieldInvalid: "NumericFieldInvalid",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// StructureError is returned by everything in this package that can fail.
// Only the fields that make sense for the Kind are filled out.
type StructureError struct {
	Kind      Kind
	Desc      string // Description of error
	LineNum   int    // line number, 1-based, 0 if unknown
	Line      string // The line that provoked the error, verbatim
	Expected  int    // FieldCountMismatch
	Actual    int    // FieldCountMismatch
	FieldName string // NumericFieldInvalid, like Cartn_x
	RawValue  string // NumericFieldInvalid, the token we could not parse
}

// Values for errors.Is. They only carry the kind.
var (
	ErrMalformedDocument   = &StructureError{Kind: MalformedDocument}
	ErrNoAtomData          = &StructureError{Kind: NoAtomData}
	ErrFieldCountMismatch  = &StructureError{Kind: FieldCountMismatch}
	ErrNumericFieldInvalid = &StructureError{Kind: NumericFieldInvalid}
)

// Is lets errors.Is match any StructureError of the same kind.
func (e *StructureError) Is(target error) bool {
	t, ok := target.(*StructureError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func firstPart(s string) string {
	l := len(s)
	if l > maxMsgLen {
		l = maxMsgLen
	}
	return s[:l]
}

// desc builds the description if nobody gave us one.
func (e *StructureError) desc() string {
	if e.Desc != "" {
		return e.Desc
	}
	switch e.Kind {
	case NoAtomData:
		return "no atom data found, not a usable mmcif structure file"
	case FieldCountMismatch:
		return fmt.Sprintf("atom_site line has %d fields, expected %d", e.Actual, e.Expected)
	case NumericFieldInvalid:
		return fmt.Sprintf("could not parse %s from %q", e.FieldName, e.RawValue)
	}
	return e.Kind.String()
}

// Error puts together what is known about the problem. This includes
// the number of the line and the start of the line itself, if we
// have them.
func (e *StructureError) Error() string {
	var errmsg string
	if e.LineNum != 0 {
		errmsg = "Line: " + strconv.Itoa(e.LineNum) + " "
	}
	errmsg += e.desc()
	if e.Line != "" {
		errmsg += "\nLine starting with\n" + firstPart(e.Line)
	}
	return errmsg
}

func malformed(format string, a ...any) *StructureError {
	return &StructureError{Kind: MalformedDocument, Desc: fmt.Sprintf(format, a...)}
}
