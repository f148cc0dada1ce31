package tenantctx

import (
	"context"
	"log/slog"
)

// Mode selects how a request's data is isolated from other tenants.
type Mode string

const (
	// ModeSchema routes the request to the shared storage engine, logically
	// partitioned by tenant key. This is the default for every request.
	ModeSchema Mode = "schema"

	// ModeDatabase routes the request to the organization's dedicated
	// database and search infrastructure.
	ModeDatabase Mode = "database"
)

// TenantContext is the per-request tenant binding. DatabaseURL and SearchURL
// are empty unless the request runs under database isolation with provisioned
// infrastructure.
type TenantContext struct {
	TenantID    string
	OrgID       string
	DatabaseURL string
	SearchURL   string
	Isolation   Mode
}

// Config holds deployment-level settings for the context store.
type Config struct {
	// MultiTenant toggles tenant routing. When false every read returns
	// DefaultTenantID and no request ever fails for lack of tenant state.
	MultiTenant bool `env:"MULTI_TENANT" envDefault:"false"`

	// DefaultTenantID is the shared tenant used when no identity resolves
	// and for all reads in single-tenant deployments.
	DefaultTenantID string `env:"DEFAULT_TENANT_ID" envDefault:"public"`
}

// Store reads and writes tenant bindings on a context.Context according to
// the deployment configuration. The zero value is not usable; construct with
// NewStore.
type Store struct {
	cfg Config
}

// NewStore creates a context store for the given deployment configuration.
func NewStore(cfg Config) *Store {
	if cfg.DefaultTenantID == "" {
		cfg.DefaultTenantID = "public"
	}
	return &Store{cfg: cfg}
}

// MultiTenant reports whether tenant routing is enabled.
func (s *Store) MultiTenant() bool { return s.cfg.MultiTenant }

// DefaultTenantID returns the shared tenant id.
func (s *Store) DefaultTenantID() string { return s.cfg.DefaultTenantID }

// contextKey prevents collisions with other packages using context values.
type contextKey struct{}

// Apply derives a context carrying the given tenant binding. The returned
// context should be used for all work belonging to the request; the caller's
// original context remains untouched, so restoring the prior binding after a
// nested override means resuming use of the parent context.
func (s *Store) Apply(ctx context.Context, tc TenantContext) context.Context {
	if tc.Isolation == "" {
		tc.Isolation = ModeSchema
	}
	return context.WithValue(ctx, contextKey{}, tc)
}

// FromContext retrieves the full tenant binding from the context.
func FromContext(ctx context.Context) (TenantContext, bool) {
	tc, ok := ctx.Value(contextKey{}).(TenantContext)
	return tc, ok
}

// TenantID returns the tenant id for the request. In single-tenant
// deployments it always returns the default tenant id.
func (s *Store) TenantID(ctx context.Context) (string, bool) {
	if !s.cfg.MultiTenant {
		return s.cfg.DefaultTenantID, true
	}
	tc, ok := FromContext(ctx)
	if !ok || tc.TenantID == "" {
		return "", false
	}
	return tc.TenantID, true
}

// MustTenantID returns the tenant id, panicking if multi-tenancy is enabled
// and no binding was applied. An unset tenant id on a multi-tenant deployment
// means a request path bypassed the resolver, which must surface immediately
// rather than silently routing to a default partition.
func (s *Store) MustTenantID(ctx context.Context) string {
	id, ok := s.TenantID(ctx)
	if !ok {
		panic("tenantctx: tenant id is not set; request bypassed tenant resolution")
	}
	return id
}

// OrgID returns the organization id, empty if none resolved.
func (s *Store) OrgID(ctx context.Context) string {
	tc, _ := FromContext(ctx)
	return tc.OrgID
}

// DatabaseURL returns the dedicated database endpoint, empty under schema
// isolation.
func (s *Store) DatabaseURL(ctx context.Context) string {
	tc, _ := FromContext(ctx)
	return tc.DatabaseURL
}

// SearchURL returns the dedicated search endpoint, empty under schema
// isolation.
func (s *Store) SearchURL(ctx context.Context) string {
	tc, _ := FromContext(ctx)
	return tc.SearchURL
}

// Isolation returns the request's isolation mode, ModeSchema when no binding
// is present.
func (s *Store) Isolation(ctx context.Context) Mode {
	tc, ok := FromContext(ctx)
	if !ok || tc.Isolation == "" {
		return ModeSchema
	}
	return tc.Isolation
}

// DatabaseIsolated reports whether the request runs against dedicated
// infrastructure.
func (s *Store) DatabaseIsolated(ctx context.Context) bool {
	return s.Isolation(ctx) == ModeDatabase
}

// LoggerExtractor returns a logger context extractor that injects the tenant
// id into every log record emitted with a request context.
func (s *Store) LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := s.TenantID(ctx); ok {
			return slog.String("tenant_id", id), true
		}
		return slog.Attr{}, false
	}
}

// OrgLoggerExtractor returns a logger context extractor for the organization
// id. Records without a resolved organization carry no attribute.
func (s *Store) OrgLoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if org := s.OrgID(ctx); org != "" {
			return slog.String("org_id", org), true
		}
		return slog.Attr{}, false
	}
}
