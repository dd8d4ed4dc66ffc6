package models

import (
	"errors"
	"fmt"
)

// Identity is one of the two fixed participants of the journal.
type Identity string

const (
	Simran Identity = "simran"
	Ayaan  Identity = "ayaan"
)

// ErrInvalidIdentity is returned when a value is not one of the two identities.
var ErrInvalidIdentity = errors.New("invalid identity")

// Identities lists both participants in a stable order.
var Identities = []Identity{Simran, Ayaan}

// ParseIdentity converts a raw string into an Identity
func ParseIdentity(s string) (Identity, error) {
	id := Identity(s)
	if !id.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentity, s)
	}
	return id, nil
}

// Valid reports whether the identity is one of the two participants.
func (i Identity) Valid() bool {
	return i == Simran || i == Ayaan
}

// Other returns the partner of i. Any value that is not Simran maps to Simran,
// which keeps the function total over the closed set.
func (i Identity) Other() Identity {
	if i == Simran {
		return Ayaan
	}
	return Simran
}

// DisplayName returns the capitalized name used in notification texts.
func (i Identity) DisplayName() string {
	switch i {
	case Simran:
		return "Simran"
	case Ayaan:
		return "Ayaan"
	default:
		return string(i)
	}
}

func (i Identity) String() string {
	return string(i)
}
