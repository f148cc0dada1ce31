package searchpool

import "errors"

var (
	// ErrClientCreation indicates a search client could not be constructed
	// for an endpoint. Surfaced to callers; the search backend is required
	// for them to function.
	ErrClientCreation = errors.New("search client creation failed")

	// ErrNoEndpoint indicates no endpoint could be resolved: the tenant
	// context carries none and no default endpoint is configured.
	ErrNoEndpoint = errors.New("no search endpoint resolved")

	// ErrHealthcheckFailed indicates a pooled client failed its periodic
	// health probe. Internal to the pool; never returned from Get.
	ErrHealthcheckFailed = errors.New("search healthcheck failed")
)
