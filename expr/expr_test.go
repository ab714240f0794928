package expr

import (
	"errors"
	"testing"

	"github.com/hupe1980/genostore/term"
)

func mustParse(t *testing.T, input string) Expr {
	t.Helper()
	e, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", input, err)
	}
	return e
}

func TestMatches(t *testing.T) {
	tests := []struct {
		input string
		names []string
		want  bool
	}{
		{"PF00069", []string{"PF00069"}, true},
		{"PF00069", []string{"GO:0008150"}, false},
		{"PF00069 AND GO:0008150", []string{"PF00069", "GO:0008150"}, true},
		{"PF00069 AND GO:0008150", []string{"PF00069"}, false},
		{"PF00069 OR GO:0008150", []string{"PF00069"}, true},
		{"PF00069 OR GO:0008150", []string{}, false},
		{"NOT PF00069", []string{"GO:0008150"}, true},
		{"NOT PF00069", []string{"PF00069"}, false},
		{"NOT NOT PF00069", []string{"PF00069"}, true},

		// NOT binds tighter than AND, AND tighter than OR.
		{"NOT PF00069 AND GO:0008150", []string{"GO:0008150"}, true},
		{"NOT PF00069 AND GO:0008150", []string{"PF00069", "GO:0008150"}, false},
		{"PF00069 AND GO:0008150 OR SSF56112", []string{"SSF56112"}, true},
		{"PF00069 AND (GO:0008150 OR SSF56112)", []string{"SSF56112"}, false},
		{"PF00069 AND (GO:0008150 OR SSF56112)", []string{"PF00069", "SSF56112"}, true},

		// Symbol aliases and case-insensitive keywords.
		{"PF00069 && GO:0008150", []string{"PF00069", "GO:0008150"}, true},
		{"PF00069 || GO:0008150", []string{"GO:0008150"}, true},
		{"!PF00069", []string{"GO:0008150"}, true},
		{"PF00069 and not GO:0008150", []string{"PF00069"}, true},

		// Identifier charset.
		{"R-HSA-109582 OR mobidb-lite", []string{"mobidb-lite"}, true},
		{"G3DSA:1.10.510.10", []string{"G3DSA:1.10.510.10"}, true},
	}

	for _, tt := range tests {
		e := mustParse(t, tt.input)
		if got := e.Matches(tt.names); got != tt.want {
			t.Errorf("Parse(%q).Matches(%v) = %v, want %v", tt.input, tt.names, got, tt.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		pos   int
	}{
		{"", 0},
		{"AND PF00069", 0},
		{"PF00069 AND", 11},
		{"PF00069 GO:0008150", 8}, // juxtaposition is not implicit AND
		{"(PF00069", 8},
		{"PF00069)", 7},
		{"PF00069 & GO:0008150", 8},
		{"PF00069 AND ?", 12},
	}

	for _, tt := range tests {
		_, err := Parse(tt.input)
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("Parse(%q) error = %v, want *ParseError", tt.input, err)
		}
		if pe.Pos != tt.pos {
			t.Errorf("Parse(%q) error position = %d, want %d", tt.input, pe.Pos, tt.pos)
		}
	}
}

func TestInferTerms(t *testing.T) {
	terms, complete := InferTerms("PF00069 AND (GO:0008150 OR PF00072)")
	if !complete {
		t.Fatal("InferTerms reported incomplete for fully classifiable atoms")
	}
	want := []term.Term{term.Pfam, term.GoTerm}
	if len(terms) != len(want) {
		t.Fatalf("InferTerms = %v, want %v", terms, want)
	}
	for i := range want {
		if terms[i] != want[i] {
			t.Fatalf("InferTerms = %v, want %v", terms, want)
		}
	}
}

func TestInferTermsIncomplete(t *testing.T) {
	terms, complete := InferTerms("PF00069 AND xyz123")
	if complete {
		t.Fatal("InferTerms reported complete despite an unclassifiable atom")
	}
	if len(terms) != 1 || terms[0] != term.Pfam {
		t.Errorf("InferTerms = %v, want [Pfam]", terms)
	}
}

func TestExprString(t *testing.T) {
	e := mustParse(t, "NOT PF00069 AND GO:0008150 OR SSF56112")
	want := "((NOT PF00069 AND GO:0008150) OR SSF56112)"
	if e.String() != want {
		t.Errorf("String() = %q, want %q", e.String(), want)
	}
}
