package mmcif

import "github.com/andrew-torda/cifview/pdb/cmmn"

// Project keeps the element and the coordinates of a record. Nothing is
// converted or rounded.
func Project(rec AtomSiteRecord) cmmn.Coordinate {
	return cmmn.Coordinate{
		Element: rec.TypeSymbol,
		X:       rec.CartnX,
		Y:       rec.CartnY,
		Z:       rec.CartnZ,
	}
}

// ProjectAll projects every record. The output is in the same order as the
// input and has the same length. Filtering (hydrogens, waters, ...) is
// for the caller.
func ProjectAll(recs []AtomSiteRecord) []cmmn.Coordinate {
	ret := make([]cmmn.Coordinate, len(recs))
	for i := range recs {
		ret[i] = Project(recs[i])
	}
	return ret
}
