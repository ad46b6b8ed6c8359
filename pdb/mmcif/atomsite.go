// This file is for parsing atom_site lines into records.
package mmcif

import (
	"math"
	"strconv"
	"strings"
)

type colKind byte

const (
	colString colKind = iota // kept as it is, apart from quotes
	colInt
	colFloat
)

type cifCol struct {
	cifName string  // name in mmcif file, like label_asym_id
	kind    colKind // how we decode it
}

// Column positions in an atom_site line from the PDB. They always use
// the same 21 columns in the same order.
const (
	colGroupPDB = iota
	colID
	colTypeSymbol
	colLabelAtomID
	colLabelAltID
	colLabelCompID
	colLabelAsymID
	colLabelEntityID
	colLabelSeqID
	colInsCode
	colCartnX
	colCartnY
	colCartnZ
	colOccupancy
	colBIsoOrEquiv
	colFormalCharge
	colAuthSeqID
	colAuthCompID
	colAuthAsymID
	colAuthAtomID
	colModelNum
	nAtomSiteCol // 21
)

// atomSiteCols gives the name and type of each column
var atomSiteCols = [nAtomSiteCol]cifCol{
	colGroupPDB:      {"group_PDB", colString},
	colID:            {"id", colInt},
	colTypeSymbol:    {"type_symbol", colString},
	colLabelAtomID:   {"label_atom_id", colString},
	colLabelAltID:    {"label_alt_id", colString},
	colLabelCompID:   {"label_comp_id", colString},
	colLabelAsymID:   {"label_asym_id", colString},
	colLabelEntityID: {"label_entity_id", colString},
	colLabelSeqID:    {"label_seq_id", colString},
	colInsCode:       {"pdbx_PDB_ins_code", colString},
	colCartnX:        {"Cartn_x", colFloat},
	colCartnY:        {"Cartn_y", colFloat},
	colCartnZ:        {"Cartn_z", colFloat},
	colOccupancy:     {"occupancy", colFloat},
	colBIsoOrEquiv:   {"B_iso_or_equiv", colFloat},
	colFormalCharge:  {"pdbx_formal_charge", colString},
	colAuthSeqID:     {"auth_seq_id", colString},
	colAuthCompID:    {"auth_comp_id", colString},
	colAuthAsymID:    {"auth_asym_id", colString},
	colAuthAtomID:    {"auth_atom_id", colString},
	colModelNum:      {"pdbx_PDB_model_num", colString},
}

// AtomSiteRecord is one ATOM or HETATM line. Strings are as they were in
// the file (dots and question marks included). We do not interpret
// chemistry here.
type AtomSiteRecord struct {
	GroupPDB      string // ATOM or HETATM
	ID            int
	TypeSymbol    string // element
	LabelAtomID   string
	LabelAltID    string
	LabelCompID   string
	LabelAsymID   string
	LabelEntityID string
	LabelSeqID    string
	InsCode       string
	CartnX        float64
	CartnY        float64
	CartnZ        float64
	Occupancy     float64
	BIsoOrEquiv   float64
	FormalCharge  string
	AuthSeqID     string
	AuthCompID    string
	AuthAsymID    string
	AuthAtomID    string
	ModelNum      string
}

// DecodeAtomSite turns one atom_site line into a record. The line must
// have exactly 21 white space separated fields and the coordinates,
// occupancy and B-factor must be numbers.
func DecodeAtomSite(line string) (AtomSiteRecord, error) {
	return decodeAtomSite(line, 0)
}

// isCifNumber says if s only has the bytes a CIF number can have. Go would
// also take things like 1_0, 0x1p-2 or Inf, but they are not numbers here.
func isCifNumber(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case '0' <= c && c <= '9':
		case c == '+', c == '-', c == '.', c == 'e', c == 'E':
		default:
			return false
		}
	}
	return true
}

// decodeAtomSite does the work. n is the line number for error messages.
// Checking every conversion is tedious, so the helpers remember the
// first error. Later calls are no-ops if an error has already occurred.
func decodeAtomSite(line string, n int) (AtomSiteRecord, error) {
	cmpnt := strings.Fields(line)
	if len(cmpnt) != nAtomSiteCol {
		return AtomSiteRecord{}, &StructureError{
			Kind: FieldCountMismatch, LineNum: n, Line: line,
			Expected: nAtomSiteCol, Actual: len(cmpnt)}
	}
	var err error
	bad := func(col int) {
		err = &StructureError{
			Kind: NumericFieldInvalid, LineNum: n, Line: line,
			FieldName: atomSiteCols[col].cifName, RawValue: cmpnt[col]}
	}
	ff := func(col int) float64 {
		if err != nil {
			return 0
		}
		if !isCifNumber(cmpnt[col]) {
			bad(col)
			return 0
		}
		x, e := strconv.ParseFloat(cmpnt[col], 64)
		if e != nil || math.IsInf(x, 0) {
			bad(col)
			return 0
		}
		return x
	}
	ii := func(col int) int {
		if err != nil {
			return 0
		}
		i, e := strconv.Atoi(cmpnt[col])
		if e != nil {
			bad(col)
			return 0
		}
		return i
	}
	ss := func(col int) string { return unquote(cmpnt[col]) }

	rec := AtomSiteRecord{
		GroupPDB:      ss(colGroupPDB),
		ID:            ii(colID),
		TypeSymbol:    ss(colTypeSymbol),
		LabelAtomID:   ss(colLabelAtomID),
		LabelAltID:    ss(colLabelAltID),
		LabelCompID:   ss(colLabelCompID),
		LabelAsymID:   ss(colLabelAsymID),
		LabelEntityID: ss(colLabelEntityID),
		LabelSeqID:    ss(colLabelSeqID),
		InsCode:       ss(colInsCode),
		CartnX:        ff(colCartnX),
		CartnY:        ff(colCartnY),
		CartnZ:        ff(colCartnZ),
		Occupancy:     ff(colOccupancy),
		BIsoOrEquiv:   ff(colBIsoOrEquiv),
		FormalCharge:  ss(colFormalCharge),
		AuthSeqID:     ss(colAuthSeqID),
		AuthCompID:    ss(colAuthCompID),
		AuthAsymID:    ss(colAuthAsymID),
		AuthAtomID:    ss(colAuthAtomID),
		ModelNum:      ss(colModelNum),
	}
	if err != nil {
		return AtomSiteRecord{}, err
	}
	return rec, nil
}

// decodeLines decodes every line. The first bad line stops everything and
// we return no records at all.
func decodeLines(lines []srcLine) ([]AtomSiteRecord, error) {
	recs := make([]AtomSiteRecord, 0, len(lines))
	for _, l := range lines {
		rec, err := decodeAtomSite(l.s, l.n)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// DecodeRecords decodes a set of atom_site lines, as returned by
// ExtractAtomSiteLines. It is all or nothing.
func DecodeRecords(lines []string) ([]AtomSiteRecord, error) {
	src := make([]srcLine, len(lines))
	for i, s := range lines {
		src[i] = srcLine{s: s}
	}
	return decodeLines(src)
}
