// Package pdb/cmmn has common definitions for coordinates and
// the results handed back by the pdb readers.
package cmmn

// Exit codes used by the commands.
const (
	ExitSuccess = iota
	ExitFailure
	ExitUsageError
)

// Coordinate is the minimal renderable piece of an atom. The element
// is the type_symbol column, x, y, z are exactly as parsed.
type Coordinate struct {
	Element string  `json:"element"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
}

// ProteinMetadata is whatever we could find about the structure.
// Any field may be missing. A nil pointer means not found, which is
// different from found but empty.
type ProteinMetadata struct {
	Name        *string `json:"name,omitempty"`        // _entity_name_com.name
	Description *string `json:"description,omitempty"` // _entity.pdbx_description
	Title       *string `json:"title,omitempty"`       // _struct.title
}

// ProteinData is what a parse returns. Coordinates are in the
// order of the atom_site lines.
type ProteinData struct {
	Coordinates []Coordinate    `json:"coordinates"`
	Metadata    ProteinMetadata `json:"metadata"`
}

// NAtom says how many coordinates we have
func (pd *ProteinData) NAtom() int {
	if pd == nil {
		return 0
	}
	return len(pd.Coordinates)
}

// Str returns a pointer to a copy of s. It saves the caller from
// declaring a variable just to take its address.
func Str(s string) *string { return &s }

// Get returns the value behind p, or "" if p is nil.
func Get(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
