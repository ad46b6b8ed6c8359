package mmcif_test

import (
	"testing"

	"github.com/andrew-torda/cifview/pdb/cmmn"
	. "github.com/andrew-torda/cifview/pdb/mmcif"
)

// nilOr lets us write expected values with "" meaning absent
func nilOr(p *string) string {
	if p == nil {
		return "<nil>"
	}
	return *p
}

func TestTitle(t *testing.T) {
	var tests = []struct {
		doc  string
		want string
	}{
		{"_struct.title 'Crystal structure of X'\n", "Crystal structure of X"},
		{"_struct.title \"Crystal structure of X\"\n", "Crystal structure of X"},
		{"_struct.title   unquoted\n", "unquoted"},
		{"_struct.title\n'On the next line'\n", "On the next line"},
		{"_struct.title\n\n# comment\n  'After a gap'  \n", "After a gap"},
		{"_struct.title\n;Crystal structure\n  of Z\n;\n", "Crystal structure of Z"},
		{"_struct.title\n;\nStarts on the second line\n;\n", "Starts on the second line"},
		{"_struct.title ?\n", "<nil>"},
		{"_struct.title .\n", "<nil>"},
		{"_struct.title\n_struct.pdbx_descriptor 'not a title'\n", "<nil>"},
		{"_struct.title\n", "<nil>"},
		{"_struct.title_long 'wrong item'\n", "<nil>"},
		{"_struct.title 'first'\n_struct.title 'second'\n", "first"},
		{"_struct.title ?\n_struct.title 'second'\n", "second"},
	}
	for _, tt := range tests {
		md := ExtractMetadata(tt.doc)
		if got := nilOr(md.Title); got != tt.want {
			t.Errorf("doc %q got title %q want %q", tt.doc, got, tt.want)
		}
	}
}

func TestName(t *testing.T) {
	var tests = []struct {
		doc  string
		want string
	}{
		{"_entity_name_com.name 'Lysozyme C'\n", "Lysozyme C"},
		{"_entity_name_com.name \"Bob's enzyme\"\n", "Bobs enzyme"},
		{"_entity_name_com.entity_id 1\n_entity_name_com.name\n'Next line'\n", "Next line"},
		{"loop_\n_entity_name_com.entity_id\n_entity_name_com.name\n1 'Hen egg white lysozyme'\n2 'Other'\n",
			"Hen egg white lysozyme"},
		{"_entity_name_com.name ?\n", "<nil>"},
		{"_entity_name_com.name ''\n", "<nil>"},
	}
	for _, tt := range tests {
		md := ExtractMetadata(tt.doc)
		if got := nilOr(md.Name); got != tt.want {
			t.Errorf("doc %q got name %q want %q", tt.doc, got, tt.want)
		}
	}
}

func TestDescription(t *testing.T) {
	const header = "loop_\n_entity.id\n_entity.type\n_entity.src_method\n" +
		"_entity.pdbx_description\n_entity.formula_weight\n"
	var tests = []struct {
		doc  string
		want string
	}{
		{header + "1 polymer man 'Lysozyme C' 14331.160\n2 water nat water 18.015\n", "Lysozyme C"},
		{header + "1 polymer man\n;Protein with a long\nname\n;\n14331.16\n", "Protein with a long name"},
		{header + "1 polymer\nman \"two lines\" 12.0\n", "two lines"},
		{header + "1 polymer man ? 14331.160\n", "<nil>"},
		{header + "1 polymer man\n#\n_next.item 1\n", "<nil>"},
		{"_entity.id 1\n_entity.pdbx_description 'DNA polymerase'\n", "DNA polymerase"},
		{"_entity.id 1\n_entity.pdbx_description\n;DNA\npolymerase\n;\n", "DNA polymerase"},
	}
	for _, tt := range tests {
		md := ExtractMetadata(tt.doc)
		if got := nilOr(md.Description); got != tt.want {
			t.Errorf("doc %q got description %q want %q", tt.doc, got, tt.want)
		}
	}
}

func TestMetadataFile(t *testing.T) {
	md := ExtractMetadata(readTestFile(t, "1tst.cif"))
	want := cmmn.ProteinMetadata{
		Title:       cmmn.Str("Crystal structure of a small test protein"),
		Name:        cmmn.Str("1,4-beta-N-acetylmuramidase C"),
		Description: cmmn.Str("Lysozyme C"),
	}
	if nilOr(md.Title) != *want.Title || nilOr(md.Name) != *want.Name ||
		nilOr(md.Description) != *want.Description {
		t.Errorf("got %q %q %q", nilOr(md.Title), nilOr(md.Name), nilOr(md.Description))
	}
	if md := ExtractMetadata("data_empty\n#\n"); md.Title != nil || md.Name != nil || md.Description != nil {
		t.Error("found metadata in an empty document")
	}
}

func TestKeyValue(t *testing.T) {
	var tests = []struct {
		lines []string
		val   string
		used  int
		ok    bool
	}{
		{[]string{"_struct.title 'T'"}, "'T'", 0, true},
		{[]string{"_struct.title", "", "'T'"}, "'T'", 2, true},
		{[]string{"_struct.title", ";a", "b", ";"}, "a b", 3, true},
		{[]string{"_struct.title", ";unterminated", "b"}, "unterminated b", 2, true},
		{[]string{"_struct.title", "loop_"}, "", 0, false},
		{[]string{"_struct.title", "   "}, "", 0, false},
	}
	for _, tt := range tests {
		val, used, ok := KeyValue(tt.lines, 0, "_struct.title")
		if val != tt.val || used != tt.used || ok != tt.ok {
			t.Errorf("%q got %q %d %v", tt.lines, val, used, ok)
		}
	}
}

func TestCleanText(t *testing.T) {
	for _, tt := range []twostring{
		{"'abc'", "abc"},
		{`"abc"`, "abc"},
		{";abc;", "abc"},
		{"  abc  ", "abc"},
		{"'abc", "'abc"},
		{"'it's'", "it's"},
	} {
		if got := CleanText(tt.in); got != tt.out {
			t.Errorf("%q got %q want %q", tt.in, got, tt.out)
		}
	}
}
