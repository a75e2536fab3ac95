package engine

import (
	"errors"
	"fmt"
)

// ErrInsufficientCoins is returned when a purchase costs more than the
// profile holds. It is an expected outcome the caller branches on, not a
// fault.
var ErrInsufficientCoins = errors.New("insufficient coins")

// ErrUnknownPet is returned for a pet ID that is not in the catalog.
var ErrUnknownPet = errors.New("unknown pet")

// PetStateError indicates an operation that is invalid for the pet's
// current lifecycle state (e.g. revealing a pet that is still hatching).
type PetStateError struct {
	PetID string
	State PetState
	Op    string
}

func (e PetStateError) Error() string {
	return fmt.Sprintf("cannot %s pet %q in state %s", e.Op, e.PetID, e.State)
}
