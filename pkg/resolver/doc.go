// Package resolver determines which tenant an inbound request belongs to and
// populates the request's tenant context before any handler runs.
//
// Identity is derived from competing signals, first match wins:
//
//  1. A trusted upstream-gateway header (pre-validated by the gateway).
//  2. An API credential's embedded tenant claim (Authorization bearer token).
//  3. A session-token lookup against the session store.
//  4. A signed anonymous-session cookie's embedded claims.
//  5. The default shared tenant - the "no tenant resolved" terminal case,
//     never an error.
//
// An explicit tenant-override cookie, when present and well-formed, takes
// precedence over all of the above.
//
// On deployments configured for database isolation the resolver then asks
// the infrastructure registry for the organization's dedicated endpoints.
// A missing record or an unreachable registry store degrades the request to
// shared schema isolation; a suspended organization aborts the request with
// an access-denied failure - the only resolver-path error an end user can
// observe besides a malformed identifier.
//
//	res := resolver.New(store, cfg,
//		resolver.WithRegistry(reg),
//		resolver.WithTokenStore(sessions),
//		resolver.WithAnonymousTokens(anonSvc),
//		resolver.WithLogger(log),
//	)
//
//	router.Use(res.Middleware())
package resolver
