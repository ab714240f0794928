package genostore

import "errors"

var (
	// ErrAlreadyRegistered is returned when an organism was registered
	// before. The guard runs before any write, so a rejected registration
	// never leaves partial state.
	ErrAlreadyRegistered = errors.New("genostore: organism already registered")

	// ErrAlreadyCommitted is returned when a registration is used after
	// Commit.
	ErrAlreadyCommitted = errors.New("genostore: registration already committed")

	// ErrEmptyOrganism is returned when a registration names no organism.
	ErrEmptyOrganism = errors.New("genostore: empty organism name")
)
