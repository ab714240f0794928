// Package term defines the closed taxonomy of annotation sources.
//
// A Term identifies the vocabulary an annotation hit belongs to: a
// structural-domain family database (Pfam, CDD, SMART, ...), an ontology
// (GO), or a pathway database (Reactome, MetaCyc). Terms are used both to
// route rows into per-source partitions during ingestion and to prune
// partitions during queries.
package term

import "fmt"

// Term is a closed enumeration of annotation sources.
//
// The zero value is ID, the sentinel marking a record's own identifier line.
// ID is recognized so upstream parsers can skip it; it is never written to a
// partition.
type Term uint8

const (
	// ID marks an annotation record's own feature-identifier line.
	ID Term = iota
	CDD
	Coils
	Gene3D
	MobiDBLite
	PANTHER
	Pfam
	PIRSF
	PIRSR
	PRINTS
	ProSitePatterns
	ProSiteProfiles
	SFLD
	SMART
	SUPERFAMILY
	TIGRFAM
	GoTerm
	Reactome
	MetaCyc
	InterPro

	// Count is the number of Terms. Fixed-size tables indexed by Term use it.
	Count = iota
)

var names = [Count]string{
	ID:              ".",
	CDD:             "CDD",
	Coils:           "Coils",
	Gene3D:          "Gene3D",
	MobiDBLite:      "MobiDBLite",
	PANTHER:         "PANTHER",
	Pfam:            "Pfam",
	PIRSF:           "PIRSF",
	PIRSR:           "PIRSR",
	PRINTS:          "PRINTS",
	ProSitePatterns: "ProSitePatterns",
	ProSiteProfiles: "ProSiteProfiles",
	SFLD:            "SFLD",
	SMART:           "SMART",
	SUPERFAMILY:     "SUPERFAMILY",
	TIGRFAM:         "TIGRFAM",
	GoTerm:          "GoTerm",
	Reactome:        "Reactome",
	MetaCyc:         "MetaCyc",
	InterPro:        "InterPro",
}

// String returns the canonical string form of the Term. It is used both as
// the on-disk column value and as the `source=` partition directory segment.
func (t Term) String() string {
	if int(t) >= len(names) {
		return fmt.Sprintf("Term(%d)", uint8(t))
	}
	return names[t]
}

// Valid reports whether t is a declared Term.
func (t Term) Valid() bool {
	return int(t) < Count
}

// Parse converts a canonical string back into a Term. It is the exact
// inverse of String.
func Parse(s string) (Term, error) {
	for i, name := range names {
		if name == s {
			return Term(i), nil
		}
	}
	return 0, &UnknownTermError{Name: s}
}

// All returns every declared Term in declaration order, including ID.
func All() []Term {
	terms := make([]Term, Count)
	for i := range terms {
		terms[i] = Term(i)
	}
	return terms
}

// UnknownTermError is returned when an identifier cannot be classified.
type UnknownTermError struct {
	Name string
}

func (e *UnknownTermError) Error() string {
	return fmt.Sprintf("term: no term matches %q", e.Name)
}
