package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrNotProvisioned indicates the organization has no infrastructure
	// record. Callers are expected to recover by falling back to shared
	// infrastructure. Use errors.Is() to check.
	ErrNotProvisioned = errors.New("organization infrastructure not provisioned")

	// ErrSuspended indicates the organization's infrastructure access has
	// been revoked. This is fatal for the request.
	ErrSuspended = errors.New("organization infrastructure suspended")

	// ErrStoreUnavailable indicates the lookup store could not be reached
	// within the deadline. Callers recover the same way as ErrNotProvisioned.
	ErrStoreUnavailable = errors.New("infrastructure lookup store unavailable")
)

// NotProvisionedError carries the organization id of a failed lookup.
// Matches ErrNotProvisioned via errors.Is().
type NotProvisionedError struct {
	OrganizationID string
}

func (e *NotProvisionedError) Error() string {
	return fmt.Sprintf("organization %q: infrastructure not provisioned", e.OrganizationID)
}

func (e *NotProvisionedError) Unwrap() error { return ErrNotProvisioned }

// SuspendedError carries the organization id of a suspended record.
// Matches ErrSuspended via errors.Is().
type SuspendedError struct {
	OrganizationID string
}

func (e *SuspendedError) Error() string {
	return fmt.Sprintf("organization %q: infrastructure suspended", e.OrganizationID)
}

func (e *SuspendedError) Unwrap() error { return ErrSuspended }
