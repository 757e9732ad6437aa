// Package services holds the reconciliation logic of the gateway: identity
// resolution, enrollment state, likes and comments, posts, the catalog and
// the auth passthrough. Backend failures surface as *upstream.Error; this
// file adds the failures the gateway decides on its own.
package services

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is matched by every *ValidationError. Input that fails
	// validation never reaches the network.
	ErrValidation = errors.New("validation failed")

	// ErrForbidden is returned when a non-admin calls an admin operation.
	ErrForbidden = errors.New("admin privileges required")

	// ErrNotOwner is returned when someone other than the author or an admin
	// deletes a post or comment.
	ErrNotOwner = errors.New("only the author or an admin may do this")

	// ErrNoSession is returned when an operation needs a logged-in session
	// and the caller has none.
	ErrNoSession = errors.New("no active session")
)

// ValidationError names the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrValidation) hold.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field, reason string) error { return &ValidationError{Field: field, Reason: reason} }
