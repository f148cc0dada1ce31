package registry

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// DefaultTTL is how long a cached infrastructure record stays fresh.
const DefaultTTL = 300 * time.Second

// Registry caches infrastructure lookups against a Store. Safe for
// concurrent use; one registry instance is shared by all requests.
type Registry struct {
	store Store
	ttl   time.Duration
	log   *slog.Logger

	mu    sync.RWMutex
	cache map[string]cachedEntry

	// now is swapped in tests for deterministic TTL behavior.
	now func() time.Time
}

// cachedEntry wraps an infrastructure record with its capture time. Entries
// never leave the registry; callers get the inner record.
type cachedEntry struct {
	infra    *Infrastructure
	cachedAt time.Time
}

func (e cachedEntry) expired(ttl time.Duration, now time.Time) bool {
	return now.Sub(e.cachedAt) > ttl
}

// Option configures the registry.
type Option func(*Registry)

// WithTTL overrides the cache TTL. Values <= 0 are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(r *Registry) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithLogger sets the logger used for cache and lookup diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// WithClock overrides the registry's time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// New creates a registry backed by the given lookup store.
func New(store Store, opts ...Option) *Registry {
	r := &Registry{
		store: store,
		ttl:   DefaultTTL,
		log:   slog.Default(),
		cache: make(map[string]cachedEntry),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// lookupConfig holds per-call options.
type lookupConfig struct {
	bypassCache bool
}

// LookupOption configures a single Lookup call.
type LookupOption func(*lookupConfig)

// BypassCache forces a store query even when a fresh cached entry exists.
func BypassCache() LookupOption {
	return func(c *lookupConfig) { c.bypassCache = true }
}

// Lookup returns the organization's infrastructure record.
//
// A fresh cached entry is returned without touching the store. Otherwise the
// store is queried: a missing row yields NotProvisionedError, a suspended row
// yields SuspendedError, and any other status is cached and returned.
// Suspended records are raised before caching so that un-suspension takes
// effect on the next call rather than after TTL expiry.
func (r *Registry) Lookup(ctx context.Context, orgID string, opts ...LookupOption) (*Infrastructure, error) {
	var cfg lookupConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if !cfg.bypassCache {
		if infra, ok := r.fromCache(orgID); ok {
			r.log.DebugContext(ctx, "registry cache hit", "org_id", orgID)
			return infra, nil
		}
	}

	infra, err := r.store.GetByOrganizationID(ctx, orgID)
	if err != nil {
		if errors.Is(err, ErrNotProvisioned) {
			r.log.WarnContext(ctx, "no infrastructure record", "org_id", orgID)
			return nil, err
		}
		r.log.ErrorContext(ctx, "infrastructure lookup failed", "org_id", orgID, "error", err)
		return nil, err
	}

	if infra.IsSuspended() {
		r.log.WarnContext(ctx, "organization suspended", "org_id", orgID)
		return nil, &SuspendedError{OrganizationID: orgID}
	}

	if infra.IsProvisioning() {
		r.log.InfoContext(ctx, "organization still provisioning", "org_id", orgID)
	}

	r.mu.Lock()
	r.cache[orgID] = cachedEntry{infra: infra, cachedAt: r.now()}
	r.mu.Unlock()

	return infra, nil
}

// fromCache returns a fresh cached record, lazily evicting an expired entry
// for the same key.
func (r *Registry) fromCache(orgID string) (*Infrastructure, bool) {
	r.mu.RLock()
	entry, ok := r.cache[orgID]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if entry.expired(r.ttl, r.now()) {
		r.mu.Lock()
		// Re-check under the write lock: another goroutine may have
		// refreshed the entry in the window.
		if cur, ok := r.cache[orgID]; ok && cur.expired(r.ttl, r.now()) {
			delete(r.cache, orgID)
		}
		r.mu.Unlock()
		return nil, false
	}

	return entry.infra, true
}

// Invalidate drops the cached record for one organization. Used by
// provisioning flows after infrastructure changes.
func (r *Registry) Invalidate(orgID string) {
	r.mu.Lock()
	delete(r.cache, orgID)
	r.mu.Unlock()
	r.log.Info("invalidated infrastructure cache entry", "org_id", orgID)
}

// InvalidateAll clears the whole cache.
func (r *Registry) InvalidateAll() {
	r.mu.Lock()
	r.cache = make(map[string]cachedEntry)
	r.mu.Unlock()
	r.log.Info("cleared infrastructure cache")
}

// CacheLen reports the number of cached entries, expired or not.
func (r *Registry) CacheLen() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}
