// Package admin exposes the administrative operations of the routing layer:
// infrastructure-cache busting and search-client invalidation for
// provisioning flows, pool statistics, and a readiness probe. Every route is
// guarded by an internal-service header; these endpoints are for the
// provisioning agent, never end users.
package admin

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meridianhq/tenantgate/pkg/searchpool"
)

// InternalServiceHeader must carry the configured key on every request.
const InternalServiceHeader = "X-Internal-Service"

// Config holds admin surface settings.
type Config struct {
	// InternalServiceKey authenticates the provisioning agent. Requests
	// without it are rejected before any handler runs.
	InternalServiceKey string `env:"INTERNAL_SERVICE_KEY,notEmpty"`
}

// InfraCache is the registry slice the admin surface needs.
// *registry.Registry satisfies it.
type InfraCache interface {
	Invalidate(orgID string)
	InvalidateAll()
}

// ClientPool is the search-pool slice the admin surface needs.
// *searchpool.Pool satisfies it.
type ClientPool interface {
	Invalidate(endpoint string)
	Stats() searchpool.Stats
}

// HealthCheck probes one dependency for the readiness endpoint.
type HealthCheck func(ctx context.Context) error

// Option configures the router.
type Option func(*router)

// WithHealthCheck registers a named dependency probe for GET /healthz.
func WithHealthCheck(name string, check HealthCheck) Option {
	return func(rt *router) {
		if name != "" && check != nil {
			rt.checks[name] = check
		}
	}
}

type router struct {
	cfg    Config
	cache  InfraCache
	pool   ClientPool
	checks map[string]HealthCheck
}

// Router builds the admin surface. Mount it away from the public listener:
//
//	r.Mount("/internal/admin", admin.Router(cfg, reg, pool,
//		admin.WithHealthCheck("postgres", pg.Healthcheck(dbPool)),
//		admin.WithHealthCheck("redis", redis.Healthcheck(rdb)),
//	))
func Router(cfg Config, cache InfraCache, pool ClientPool, opts ...Option) chi.Router {
	rt := &router{
		cfg:    cfg,
		cache:  cache,
		pool:   pool,
		checks: make(map[string]HealthCheck),
	}
	for _, opt := range opts {
		opt(rt)
	}

	r := chi.NewRouter()
	r.Use(rt.internalOnly)
	r.Post("/cache/invalidate", rt.invalidateCache)
	r.Post("/clients/invalidate", rt.invalidateClient)
	r.Get("/pool/stats", rt.poolStats)
	r.Get("/healthz", rt.healthz)

	return r
}

// internalOnly rejects requests that do not present the provisioning
// agent's key.
func (rt *router) internalOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(InternalServiceHeader) != rt.cfg.InternalServiceKey {
			writeJSON(w, http.StatusForbidden, map[string]string{
				"error": "access denied: invalid internal service header",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type invalidateCacheRequest struct {
	// OrganizationID selects one cached record; empty clears the whole
	// cache.
	OrganizationID string `json:"organization_id"`
}

func (rt *router) invalidateCache(w http.ResponseWriter, r *http.Request) {
	var req invalidateCacheRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.OrganizationID == "" {
		rt.cache.InvalidateAll()
	} else {
		rt.cache.Invalidate(req.OrganizationID)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"invalidated":     true,
		"organization_id": req.OrganizationID,
	})
}

type invalidateClientRequest struct {
	Endpoint string `json:"endpoint"`
}

func (rt *router) invalidateClient(w http.ResponseWriter, r *http.Request) {
	var req invalidateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Endpoint == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "endpoint is required"})
		return
	}

	rt.pool.Invalidate(req.Endpoint)
	writeJSON(w, http.StatusOK, map[string]any{
		"invalidated": true,
		"endpoint":    req.Endpoint,
	})
}

func (rt *router) poolStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rt.pool.Stats())
}

func (rt *router) healthz(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	results := make(map[string]string, len(rt.checks))
	for name, check := range rt.checks {
		if err := check(r.Context()); err != nil {
			status = http.StatusServiceUnavailable
			results[name] = err.Error()
			continue
		}
		results[name] = "ok"
	}
	writeJSON(w, status, results)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
