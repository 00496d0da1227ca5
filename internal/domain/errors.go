package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error categories surfaced by the planning kernel and its collaborators.
var (
	// ErrInvalidParameter marks a bad value passed to a single call
	// (non-positive turning radius or step size, non-finite pose).
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrConfiguration marks a bad vehicle profile or registry setup.
	ErrConfiguration = errors.New("configuration error")

	// ErrMovementNotFound is returned by intersection providers when no
	// movement matches the requested roads.
	ErrMovementNotFound = errors.New("movement not found")
)

// ProfileNotFoundError reports an unknown profile id together with the
// ids that are registered.
type ProfileNotFoundError struct {
	ID    string
	Known []string
}

func (e *ProfileNotFoundError) Error() string {
	return fmt.Sprintf("vehicle profile %q not found (registered: %s)", e.ID, strings.Join(e.Known, ", "))
}

func (e *ProfileNotFoundError) Unwrap() error { return ErrConfiguration }
