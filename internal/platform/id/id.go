package id

import "github.com/google/uuid"

// Generator creates opaque identifiers.
type Generator interface {
	New() string
}

// UUID yields random (v4) identifiers, unique for the process lifetime and beyond.
type UUID struct{}

func (UUID) New() string {
	return uuid.NewString()
}
