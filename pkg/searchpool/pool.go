package searchpool

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/meridianhq/tenantgate/pkg/tenantctx"
)

// pooledClient tracks a live client's access and health history. Owned
// exclusively by the pool and mutated only under its lock.
type pooledClient struct {
	client          *Client
	createdAt       time.Time
	lastAccess      time.Time
	lastHealthCheck time.Time
	healthy         bool
}

// Pool keeps at most MaxClients live search clients keyed by endpoint URL,
// evicting the least recently accessed on overflow. Safe for concurrent use;
// one pool instance is shared by all requests.
type Pool struct {
	cfg     Config
	factory Factory
	store   *tenantctx.Store
	log     *slog.Logger

	mu      sync.Mutex
	clients map[string]*pooledClient

	now func() time.Time
}

// PoolOption configures the pool.
type PoolOption func(*Pool)

// WithFactory replaces the default client factory.
func WithFactory(f Factory) PoolOption {
	return func(p *Pool) {
		if f != nil {
			p.factory = f
		}
	}
}

// WithLogger sets the logger for pool lifecycle diagnostics.
func WithLogger(log *slog.Logger) PoolOption {
	return func(p *Pool) {
		if log != nil {
			p.log = log
		}
	}
}

// WithClock overrides the pool's time source. Intended for tests.
func WithClock(now func() time.Time) PoolOption {
	return func(p *Pool) {
		if now != nil {
			p.now = now
		}
	}
}

// New creates a pool resolving endpoints through the given context store.
func New(cfg Config, store *tenantctx.Store, opts ...PoolOption) *Pool {
	if cfg.MaxClients <= 0 {
		cfg.MaxClients = 50
	}
	if cfg.HealthCheckInterval <= 0 {
		cfg.HealthCheckInterval = 60 * time.Second
	}
	if cfg.HealthCheckTimeout <= 0 {
		cfg.HealthCheckTimeout = 5 * time.Second
	}
	p := &Pool{
		cfg:     cfg,
		factory: NewFactory(cfg),
		store:   store,
		log:     slog.Default(),
		clients: make(map[string]*pooledClient),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Get returns a client for the request's search endpoint: the tenant
// context's dedicated endpoint under database isolation, otherwise the
// configured default.
func (p *Pool) Get(ctx context.Context) (*Client, error) {
	return p.GetForEndpoint(ctx, p.ResolveEndpoint(ctx))
}

// ResolveEndpoint returns the endpoint Get would use for this context.
func (p *Pool) ResolveEndpoint(ctx context.Context) string {
	if p.store != nil && p.store.DatabaseIsolated(ctx) {
		if url := p.store.SearchURL(ctx); url != "" {
			return url
		}
	}
	return p.cfg.DefaultEndpoint
}

// GetForEndpoint returns a live client for an explicit endpoint, creating or
// recreating one as needed.
func (p *Pool) GetForEndpoint(ctx context.Context, endpoint string) (*Client, error) {
	if endpoint == "" {
		return nil, ErrNoEndpoint
	}

	p.mu.Lock()
	if pc, ok := p.clients[endpoint]; ok {
		pc.lastAccess = p.now()

		if !p.healthCheckDue(pc) {
			client := pc.client
			p.mu.Unlock()
			return client, nil
		}

		// Probe outside the lock so a slow backend cannot stall
		// unrelated tenants' lookups.
		client := pc.client
		p.mu.Unlock()
		err := healthCheck(ctx, client, p.cfg.HealthCheckTimeout)

		p.mu.Lock()
		cur, ok := p.clients[endpoint]
		if !ok || cur != pc {
			// Evicted or replaced during the probe; fall through to the
			// create path which reuses whatever is now current.
			p.mu.Unlock()
			return p.GetForEndpoint(ctx, endpoint)
		}
		cur.lastHealthCheck = p.now()
		if err == nil {
			cur.healthy = true
			p.mu.Unlock()
			return cur.client, nil
		}

		p.log.WarnContext(ctx, "evicting unhealthy search client",
			"endpoint", endpoint, "error", err)
		cur.healthy = false
		p.removeLocked(endpoint)
		// Fall through to creation with the lock held.
	}
	defer p.mu.Unlock()

	if len(p.clients) >= p.cfg.MaxClients {
		p.evictOldestLocked(ctx)
	}

	client, err := p.factory(endpoint)
	if err != nil {
		return nil, errors.Join(ErrClientCreation, err)
	}
	now := p.now()
	p.clients[endpoint] = &pooledClient{
		client:    client,
		createdAt: now,
		// Creation counts as a health check; the first probe happens one
		// interval later.
		lastAccess:      now,
		lastHealthCheck: now,
		healthy:         true,
	}
	p.log.InfoContext(ctx, "created search client", "endpoint", endpoint)

	return client, nil
}

func (p *Pool) healthCheckDue(pc *pooledClient) bool {
	return p.now().Sub(pc.lastHealthCheck) > p.cfg.HealthCheckInterval
}

// removeLocked drops and releases a client. Caller holds the lock.
func (p *Pool) removeLocked(endpoint string) {
	if pc, ok := p.clients[endpoint]; ok {
		delete(p.clients, endpoint)
		pc.client.Close()
	}
}

// evictOldestLocked releases the least recently accessed client. Caller
// holds the lock.
func (p *Pool) evictOldestLocked(ctx context.Context) {
	var (
		oldestKey string
		oldest    time.Time
	)
	for endpoint, pc := range p.clients {
		if oldestKey == "" || pc.lastAccess.Before(oldest) {
			oldestKey = endpoint
			oldest = pc.lastAccess
		}
	}
	if oldestKey == "" {
		return
	}
	p.removeLocked(oldestKey)
	p.log.InfoContext(ctx, "evicted search client", "endpoint", oldestKey)
}

// Invalidate drops the client for one endpoint. Used by deprovisioning flows
// when an instance goes away.
func (p *Pool) Invalidate(endpoint string) {
	p.mu.Lock()
	p.removeLocked(endpoint)
	p.mu.Unlock()
	p.log.Info("invalidated search client", "endpoint", endpoint)
}

// CloseAll releases every pooled client.
func (p *Pool) CloseAll() {
	p.mu.Lock()
	for endpoint := range p.clients {
		p.removeLocked(endpoint)
	}
	p.mu.Unlock()
	p.log.Info("closed all search clients")
}

// ClientStats describes one pooled client for monitoring.
type ClientStats struct {
	Endpoint        string    `json:"endpoint"`
	Healthy         bool      `json:"healthy"`
	CreatedAt       time.Time `json:"created_at"`
	LastAccess      time.Time `json:"last_access"`
	LastHealthCheck time.Time `json:"last_health_check,omitzero"`
}

// Stats is a point-in-time snapshot of the pool.
type Stats struct {
	TotalClients int           `json:"total_clients"`
	MaxClients   int           `json:"max_clients"`
	Clients      []ClientStats `json:"clients"`
}

// Stats returns a snapshot of the pool for monitoring endpoints.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	stats := Stats{
		TotalClients: len(p.clients),
		MaxClients:   p.cfg.MaxClients,
		Clients:      make([]ClientStats, 0, len(p.clients)),
	}
	for endpoint, pc := range p.clients {
		stats.Clients = append(stats.Clients, ClientStats{
			Endpoint:        endpoint,
			Healthy:         pc.healthy,
			CreatedAt:       pc.createdAt,
			LastAccess:      pc.lastAccess,
			LastHealthCheck: pc.lastHealthCheck,
		})
	}
	return stats
}
