package term

import (
	"errors"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		want Term
	}{
		{"GO:0008150", GoTerm},
		{"PF00069", Pfam},
		{"mobidb-lite", MobiDBLite},
		{"cd00180", CDD},
		{"G3DSA:1.10.510.10", Gene3D},
		{"PTHR24416", PANTHER},
		{"PWY-6317", MetaCyc},
		{"PS50011", ProSiteProfiles},
		{"SSF56112", SUPERFAMILY},
		{"SM00220", SMART},
		{"TIGR00229", TIGRFAM},
		{"R-HSA-109582", Reactome},
		{"IRR012345", InterPro},
	}

	for _, tt := range tests {
		got, err := Classify(tt.name)
		if err != nil {
			t.Fatalf("Classify(%q) failed: %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestClassifyUnknown(t *testing.T) {
	_, err := Classify("xyz123")
	var ute *UnknownTermError
	if !errors.As(err, &ute) {
		t.Fatalf("Classify(xyz123) error = %v, want *UnknownTermError", err)
	}
	if ute.Name != "xyz123" {
		t.Errorf("UnknownTermError.Name = %q, want %q", ute.Name, "xyz123")
	}
}

// PANTHER ids start with PT, not PS or PF, but the grouped prefix order must
// still classify them before the shorter P-prefixes are tried.
func TestClassifyPrefixPriority(t *testing.T) {
	got, err := Classify("PTHR10024")
	if err != nil || got != PANTHER {
		t.Fatalf("Classify(PTHR10024) = %v, %v, want PANTHER", got, err)
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, tm := range All() {
		got, err := Parse(tm.String())
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", tm.String(), err)
		}
		if got != tm {
			t.Errorf("Parse(String(%v)) = %v", tm, got)
		}
	}
}

func TestParseUnknown(t *testing.T) {
	if _, err := Parse("NoSuchVocabulary"); err == nil {
		t.Fatal("Parse accepted an unknown canonical name")
	}
}

func TestSentinel(t *testing.T) {
	if ID.String() != "." {
		t.Errorf("ID.String() = %q, want %q", ID.String(), ".")
	}
	got, err := Parse(".")
	if err != nil || got != ID {
		t.Errorf("Parse(\".\") = %v, %v, want ID", got, err)
	}
}
