// Package searchpool maintains pooled clients to tenant-dedicated search
// backends. Each database-isolated organization runs its own search instance;
// the pool keeps one live client per resolved endpoint so requests reuse
// connections instead of paying client setup per call.
//
// The pool is bounded: at capacity the least-recently-accessed client is
// evicted and released before a new one is created. Clients are periodically
// health-checked on access; a failed or timed-out check removes the client
// and transparently creates a fresh one, so callers always receive a usable
// client or an explicit creation error, never a silently broken one.
//
// Endpoint resolution reads the request's tenant context: database-isolated
// requests carry their dedicated search endpoint, everything else falls back
// to the process-wide default instance.
//
//	pool := searchpool.New(cfg, store, searchpool.WithLogger(log))
//	defer pool.CloseAll()
//
//	client, err := pool.Get(ctx) // endpoint from tenant context
//	if err != nil {
//		return err
//	}
//	res, err := client.Search(client.Search.WithContext(ctx), ...)
//
// Transport concerns (client certificates for managed backends, TLS
// verification) live entirely inside the client factory; alternate transport
// configurations never touch pool logic.
package searchpool
