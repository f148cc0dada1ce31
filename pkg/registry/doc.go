// Package registry provides cached lookup of per-organization infrastructure
// bindings: the dedicated database and search endpoints an organization's
// requests must be routed to under database isolation.
//
// The registry sits between the tenant resolver and the platform database.
// Lookups are served from an in-memory TTL cache so the common case costs no
// I/O; misses query a single row from the lookup store. Suspended
// organizations are a special case: suspension is a security control, so a
// suspended record is never cached and every request for a suspended
// organization re-checks the store, picking up a later un-suspension on the
// very next call instead of after TTL expiry.
//
// # Usage
//
//	store := registry.NewPGStore(pool)
//	reg := registry.New(store,
//		registry.WithTTL(5*time.Minute),
//		registry.WithLogger(log),
//	)
//
//	infra, err := reg.Lookup(ctx, orgID)
//	switch {
//	case errors.Is(err, registry.ErrNotProvisioned):
//		// fall back to shared infrastructure
//	case errors.Is(err, registry.ErrSuspended):
//		// deny access
//	case err != nil:
//		// lookup store unavailable - degrade or fail per caller policy
//	}
//
// After provisioning changes, Invalidate or InvalidateAll busts the cache so
// the next lookup observes the new record immediately.
package registry
