package mmcif

import (
	"strings"

	"github.com/andrew-torda/cifview/pdb/cmmn"
)

const (
	titleKey = "_struct.title"
	nameKey  = "_entity_name_com.name"
	descKey  = "_entity.pdbx_description"
	loopKey  = "loop_"
)

// ExtractMetadata looks for the title, the common name and the description
// of the structure. It cannot fail. Anything it does not find, or finds as
// ? or ., is left nil.
// Each of the three can be written as
//
//	_struct.title 'on the same line'
//	_struct.title
//	'on the next line'
//	_struct.title
//	;in a text field
//	 over several lines
//	;
//
// or be a column in a loop, which is how _entity.pdbx_description usually
// comes when there is more than one entity. Then we take the value from the
// first row of the loop.
func ExtractMetadata(doc string) cmmn.ProteinMetadata {
	var md cmmn.ProteinMetadata
	lines := strings.Split(doc, "\n")
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if len(line) == 0 || line[0] != '_' {
			continue
		}
		var used int
		switch {
		case md.Title == nil && isKey(line, titleKey):
			var v string
			if v, used = lookup(lines, i, titleKey); v != "" {
				md.Title = cmmn.Str(v)
			}
		case md.Name == nil && isKey(line, nameKey):
			var v string
			if v, used = lookup(lines, i, nameKey); v != "" {
				if v = strings.TrimSpace(stripAllQuotes(v)); v != "" {
					md.Name = cmmn.Str(v)
				}
			}
		case md.Description == nil && isKey(line, descKey):
			var v string
			if v, used = lookup(lines, i, descKey); v != "" {
				md.Description = cmmn.Str(v)
			}
		}
		if md.Title != nil && md.Name != nil && md.Description != nil {
			break
		}
		i += used
	}
	return md
}

// isKey says if the trimmed line starts with the data name key, followed by
// white space or nothing. _struct.title_x is not _struct.title.
func isKey(line, key string) bool {
	if !strings.HasPrefix(line, key) {
		return false
	}
	return len(line) == len(key) || iswhite(line[len(key)])
}

// isSpecial returns true if the line is not simply more of a value or a
// table. Usually this means there is a new directive coming.
func isSpecial(t string) bool {
	return strings.HasPrefix(t, "_") || strings.HasPrefix(t, loopKey) ||
		strings.HasPrefix(t, "data_")
}

// isDotOrQ returns true if the string is a dot or question mark
func isDotOrQ(s string) bool { return s == "." || s == "?" }

// isContent is false for blank lines and comments
func isContent(t string) bool { return len(t) > 0 && t[0] != '#' }

// lookup finds the value for key at lines[i], wherever it is written, and
// cleans it up. It returns "" if there is no usable value, and the number
// of lines after i that belong to the value.
func lookup(lines []string, i int, key string) (string, int) {
	var v string
	var used int
	var ok bool
	if inlineValue(lines[i], key) == "" && inLoopHeader(lines, i) {
		v, ok = loopColumn(lines, i)
	} else {
		v, used, ok = keyValue(lines, i, key)
	}
	if !ok {
		return "", used
	}
	v = cleanText(v)
	if isDotOrQ(v) {
		return "", used
	}
	return v, used
}

// inlineValue is whatever follows the key on its own line.
func inlineValue(line, key string) string {
	return strings.TrimSpace(strings.TrimSpace(line)[len(key):])
}

// keyValue gets the value of a data item that is not in a loop. It is
// either on the same line, or on the next line that has something on it.
// If that line starts a text field, the value runs to the closing ";".
// It returns the raw value, how many lines after i it used and whether
// there was a value at all.
func keyValue(lines []string, i int, key string) (string, int, bool) {
	if v := inlineValue(lines[i], key); v != "" {
		return v, 0, true
	}
	j := i + 1
	for ; j < len(lines) && !isContent(strings.TrimSpace(lines[j])); j++ {
	}
	if j == len(lines) {
		return "", 0, false
	}
	next := strings.TrimSpace(lines[j])
	if isSpecial(next) {
		return "", 0, false // the next statement, so no value
	}
	if next[0] == ';' {
		v, end := textField(lines, j)
		return v, end - i, true
	}
	return next, j - i, true
}

// textField reads a ; delimited text field starting at lines[j]. The lines
// are joined with single spaces. It returns the text and the index of the
// closing line. If there is no closing line, we take what we have.
func textField(lines []string, j int) (string, int) {
	parts := []string{strings.TrimSpace(strings.TrimSpace(lines[j])[1:])}
	k := j + 1
	for ; k < len(lines); k++ {
		t := strings.TrimSpace(lines[k])
		if strings.HasPrefix(t, ";") {
			break
		}
		if t != "" {
			parts = append(parts, t)
		}
	}
	if k == len(lines) {
		k--
	}
	return strings.TrimSpace(strings.Join(parts, " ")), k
}

// inLoopHeader says if lines[i] is one of the header declarations of a
// loop. We walk back over other declarations (a data name with nothing
// after it) until we find loop_.
func inLoopHeader(lines []string, i int) bool {
	for j := i - 1; j >= 0; j-- {
		t := strings.TrimSpace(lines[j])
		switch {
		case !isContent(t):
			continue
		case strings.HasPrefix(t, loopKey):
			return true
		case t[0] == '_' && len(strings.Fields(t)) == 1:
			continue
		}
		return false
	}
	return false
}

// loopColumn returns the value in the first row of the loop for the column
// declared at lines[i]. The column number comes from the position of the
// declaration in the header, so for the usual _entity loop
//
//	_entity.id _entity.type _entity.src_method _entity.pdbx_description
//
// it is the fourth word of the first row. Quoted words are one word.
func loopColumn(lines []string, i int) (string, bool) {
	col := 0
	for j := i - 1; j >= 0; j-- {
		t := strings.TrimSpace(lines[j])
		if !isContent(t) {
			continue
		}
		if strings.HasPrefix(t, loopKey) {
			break
		}
		col++
	}
	k := i + 1 // jump over the rest of the header
	for ; k < len(lines); k++ {
		t := strings.TrimSpace(lines[k])
		if isContent(t) && t[0] != '_' {
			break
		}
	}
	toks := getNpieces(lines, k, col+1)
	if len(toks) <= col {
		return "", false
	}
	return toks[col], true
}

// getNpieces collects words from lines, starting at lines[k], until it has
// n of them or reaches the next statement. A row of a table may run over
// more than one line and a text field counts as one word.
// If a line cannot be split, we stop and return what we have.
func getNpieces(lines []string, k, n int) []string {
	var ret []string
	scrtch := make([]string, 0, 16)
	for ; k < len(lines) && len(ret) < n; k++ {
		t := strings.TrimSpace(lines[k])
		if !isContent(t) {
			continue
		}
		if isSpecial(t) {
			break
		}
		if t[0] == ';' {
			v, end := textField(lines, k)
			ret = append(ret, v)
			k = end
			continue
		}
		words, err := splitCifLine(t, scrtch)
		if err != nil {
			break
		}
		ret = append(ret, words...)
	}
	return ret
}

// cleanText removes one pair of matching quotes and the ; markers of a
// text field from either end of a value.
func cleanText(v string) string {
	v = unquote(strings.TrimSpace(v))
	v = strings.TrimPrefix(v, ";")
	v = strings.TrimSuffix(v, ";")
	return strings.TrimSpace(v)
}
