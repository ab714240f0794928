package term

import "strings"

// prefixRule maps a known identifier prefix to its Term.
type prefixRule struct {
	prefix string
	term   Term
}

// Prefix rules are grouped by leading character and checked in this fixed
// order. The order is load-bearing where prefixes share a leading character:
// PTHR must be tested before PS and PF so a PANTHER id is never misread, and
// SSF before SM for the same reason.
var prefixRules = []prefixRule{
	// C
	{"cd", CDD},
	// G
	{"G3DSA", Gene3D},
	{"GO", GoTerm},
	// I
	{"IRR", InterPro},
	// P
	{"PTHR", PANTHER},
	{"PWY", MetaCyc},
	{"PS", ProSiteProfiles},
	{"PF", Pfam},
	// S
	{"SSF", SUPERFAMILY},
	{"SM", SMART},
	// T
	{"TIGR", TIGRFAM},
	// R
	{"R-", Reactome},
}

// Classify infers the Term an identifier belongs to.
//
// Exact-name matches are checked before prefix matches, so a vocabulary whose
// literal name collides with another vocabulary's prefix space is still
// classified correctly. Classification is pure and deterministic; it fails
// with *UnknownTermError if no rule matches.
func Classify(name string) (Term, error) {
	if name == "mobidb-lite" {
		return MobiDBLite, nil
	}

	for _, rule := range prefixRules {
		if strings.HasPrefix(name, rule.prefix) {
			return rule.term, nil
		}
	}

	return 0, &UnknownTermError{Name: name}
}
