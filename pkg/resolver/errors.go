package resolver

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidIdentifier is returned when a tenant identifier fails
	// format validation. Always a client error.
	ErrInvalidIdentifier = errors.New("invalid tenant identifier")

	// ErrAccessDenied is returned when the resolved organization's
	// infrastructure is suspended. Fatal for the request.
	ErrAccessDenied = errors.New("organization access denied")
)

// AccessDeniedError carries the suspended organization id. Matches
// ErrAccessDenied via errors.Is().
type AccessDeniedError struct {
	OrganizationID string
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("organization %q: access suspended", e.OrganizationID)
}

func (e *AccessDeniedError) Unwrap() error { return ErrAccessDenied }
