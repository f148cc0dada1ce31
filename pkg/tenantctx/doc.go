// Package tenantctx carries per-request tenant routing state through
// context.Context so that every downstream call of one logical request sees
// the same tenant binding without any shared mutable state.
//
// The package is built around two pieces:
//
// 1. TenantContext - the immutable value describing where a request's data
// lives: tenant id (schema-routing key), organization id, and the optional
// dedicated database and search endpoints for database-isolated tenants.
//
// 2. Store - the accessor bound to deployment configuration. It knows whether
// multi-tenancy is enabled and what the shared default tenant is, so reads
// have well-defined behavior in both single- and multi-tenant deployments.
//
// # Usage
//
//	store := tenantctx.NewStore(tenantctx.Config{
//		MultiTenant:     true,
//		DefaultTenantID: "public",
//	})
//
//	// At request start (done by the resolver middleware):
//	ctx = store.Apply(ctx, tenantctx.TenantContext{
//		TenantID:  "org_42",
//		OrgID:     "org_42",
//		Isolation: tenantctx.ModeSchema,
//	})
//
//	// Anywhere downstream, including goroutines spawned for the request:
//	tenantID := store.MustTenantID(ctx)
//
// Because values ride on context.Context, work spawned for a request inherits
// the binding automatically, concurrently processed requests can never observe
// each other's values, and a nested override is undone by simply resuming use
// of the parent context - the exact prior state is restored by construction.
//
// # Fail-loud reads
//
// When multi-tenancy is enabled, reading the tenant id from a context that was
// never populated is a programming error, not a recoverable condition:
// MustTenantID panics rather than silently routing to a default partition.
// With multi-tenancy disabled every read returns the configured default.
package tenantctx
