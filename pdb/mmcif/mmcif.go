package mmcif

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/andrew-torda/cifview/pdb/cmmn"
)

// Coordinates returns the element and position of every atom in the
// atom_site loop of doc, in file order. One bad line means no coordinates
// at all.
func Coordinates(doc string) ([]cmmn.Coordinate, error) {
	return coordsFrom(strings.NewReader(doc))
}

func coordsFrom(r io.Reader) ([]cmmn.Coordinate, error) {
	lines, err := extractLoop(r)
	if err != nil {
		return nil, err
	}
	recs, err := decodeLines(lines)
	if err != nil {
		return nil, err
	}
	return ProjectAll(recs), nil
}

// Decode takes the text of an mmcif file and returns the coordinates and
// whatever metadata it can find. The coordinates must be there and be
// correct. The metadata is optional.
func Decode(doc string) (*cmmn.ProteinData, error) {
	coords, err := Coordinates(doc)
	if err != nil {
		return nil, err
	}
	return &cmmn.ProteinData{Coordinates: coords, Metadata: ExtractMetadata(doc)}, nil
}

// DecodeReader is Decode for something that is not in memory yet.
// The metadata may be anywhere in the file, so we have to read all of it.
func DecodeReader(r io.Reader) (*cmmn.ProteinData, error) {
	var b bytes.Buffer
	if _, err := b.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("DecodeReader: %w", err)
	}
	return Decode(b.String())
}
