package mmcif

// Export some internal functions for testing

func (s *cmmtScanner) Cbytes() []byte   { return s.cbytes() }
func (s *cmmtScanner) Cscan() (ok bool) { return s.cscan() }
func (s *cmmtScanner) N() int           { return s.n }

var NewCmmtScanner = newCmmtScanner
var SplitCifLine = splitCifLine
var Unquote = unquote
var CleanText = cleanText
var Step = step

type ScanState = scanState
type LineKind = lineKind

const (
	StateBeforeLoop = stateBeforeLoop
	StateInHeader   = stateInHeader
	StateInData     = stateInData
	LineOther       = lineOther
	LineHeader      = lineHeader
	LineAtom        = lineAtom
	NAtomSiteCol    = nAtomSiteCol
)

func Classify(s string) LineKind { return classify([]byte(s)) }

// KeyValue hides the line slice from the tests
func KeyValue(lines []string, i int, key string) (string, int, bool) {
	return keyValue(lines, i, key)
}
