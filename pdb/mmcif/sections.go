package mmcif

import (
	"strings"

	"github.com/andrew-torda/cifview/pdb/cmmn"
)

// MinSections is the fewest # separated sections we accept in a full
// entry from the PDB. Anything smaller is probably an error page or a
// truncated download. Callers with other sources can ask for fewer.
const MinSections = 71

// SplitSections cuts a document at the lines that are nothing but a #.
// Sections are not trimmed and may be empty. If there are fewer than
// minSections, the document is malformed. minSections <= 0 switches the
// check off.
func SplitSections(doc string, minSections int) ([]string, error) {
	var ret []string
	var b strings.Builder
	for _, line := range strings.SplitAfter(doc, "\n") {
		if strings.TrimSpace(line) == "#" {
			ret = append(ret, b.String())
			b.Reset()
			continue
		}
		b.WriteString(line)
	}
	ret = append(ret, b.String())
	if minSections > 0 && len(ret) < minSections {
		return nil, malformed("only %d sections, need at least %d", len(ret), minSections)
	}
	return ret, nil
}

// FindAtomSiteSection returns the index of the first section that declares
// the atom_site loop. ok is false if there is none.
func FindAtomSiteSection(sections []string) (int, bool) {
	for i, s := range sections {
		for _, line := range strings.Split(s, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), atomSitePrefix) {
				return i, true
			}
		}
	}
	return -1, false
}

// DecodeSection splits doc, picks out a section and decodes the atom_site
// loop in it. If which is negative, we look for the section. An index past
// the end of the document is a malformed document, as is a document with
// too few sections.
// The metadata still comes from the whole document, since the title and
// the entity tables live in their own sections.
func DecodeSection(doc string, minSections, which int) (*cmmn.ProteinData, error) {
	sections, err := SplitSections(doc, minSections)
	if err != nil {
		return nil, err
	}
	if which < 0 {
		var ok bool
		if which, ok = FindAtomSiteSection(sections); !ok {
			return nil, &StructureError{Kind: NoAtomData}
		}
	}
	if which >= len(sections) {
		return nil, malformed("asked for section %d, but there are only %d", which, len(sections))
	}
	coords, err := Coordinates(sections[which])
	if err != nil {
		return nil, err
	}
	return &cmmn.ProteinData{Coordinates: coords, Metadata: ExtractMetadata(doc)}, nil
}
