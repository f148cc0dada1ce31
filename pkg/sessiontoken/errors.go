package sessiontoken

import "errors"

var (
	// ErrStoreUnavailable indicates Redis could not be reached within the
	// lookup timeout. Callers treat this as "no session" and degrade.
	ErrStoreUnavailable = errors.New("session token store unavailable")

	// ErrMalformedPayload indicates the stored session value is not valid
	// JSON. Points at a bug in the auth service's session writer.
	ErrMalformedPayload = errors.New("malformed session token payload")
)
