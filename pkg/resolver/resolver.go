package resolver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/meridianhq/tenantgate/pkg/authtoken"
	"github.com/meridianhq/tenantgate/pkg/registry"
	"github.com/meridianhq/tenantgate/pkg/sessiontoken"
	"github.com/meridianhq/tenantgate/pkg/tenantctx"
)

// Config holds resolver settings. Zero values fall back to the defaults
// below.
type Config struct {
	// TrustedHeader names the upstream-gateway header carrying a
	// pre-validated tenant identifier.
	TrustedHeader string `env:"TENANT_TRUSTED_HEADER" envDefault:"X-Tenant-Id"`

	// OverrideCookie names the explicit tenant-override cookie.
	OverrideCookie string `env:"TENANT_OVERRIDE_COOKIE" envDefault:"tenant_id"`

	// AnonymousCookie names the signed anonymous-session cookie.
	AnonymousCookie string `env:"ANONYMOUS_SESSION_COOKIE" envDefault:"anonymous_user"`

	// Isolation is the deployment-wide isolation mode. Under ModeSchema
	// the registry is never consulted.
	Isolation tenantctx.Mode `env:"TENANT_ISOLATION_MODE" envDefault:"schema"`
}

// TokenStore looks up a request's session token. *sessiontoken.Store
// satisfies it; tests substitute fakes.
type TokenStore interface {
	Lookup(ctx context.Context, r *http.Request) (*sessiontoken.Data, error)
}

// InfraRegistry is the slice of the infrastructure registry the resolver
// needs. *registry.Registry satisfies it.
type InfraRegistry interface {
	Lookup(ctx context.Context, orgID string, opts ...registry.LookupOption) (*registry.Infrastructure, error)
}

// Resolver produces a fully populated tenant context per request. All
// dependencies are injected; the resolver itself is stateless and safe for
// concurrent use.
type Resolver struct {
	store       *tenantctx.Store
	cfg         Config
	reg         InfraRegistry
	tokens      TokenStore
	credentials *authtoken.Service
	anonymous   *authtoken.Service
	log         *slog.Logger
}

// Option configures the resolver.
type Option func(*Resolver)

// WithRegistry wires the infrastructure registry consulted under database
// isolation.
func WithRegistry(reg InfraRegistry) Option {
	return func(r *Resolver) { r.reg = reg }
}

// WithTokenStore wires the session-token store for step 3 of resolution.
func WithTokenStore(ts TokenStore) Option {
	return func(r *Resolver) { r.tokens = ts }
}

// WithCredentialTokens wires the service verifying API-credential claims.
func WithCredentialTokens(svc *authtoken.Service) Option {
	return func(r *Resolver) { r.credentials = svc }
}

// WithAnonymousTokens wires the service verifying anonymous-session cookies.
func WithAnonymousTokens(svc *authtoken.Service) Option {
	return func(r *Resolver) { r.anonymous = svc }
}

// WithLogger sets the resolver's logger.
func WithLogger(log *slog.Logger) Option {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// New creates a resolver bound to a context store and deployment config.
// Unwired signal sources are simply skipped during resolution.
func New(store *tenantctx.Store, cfg Config, opts ...Option) *Resolver {
	if cfg.TrustedHeader == "" {
		cfg.TrustedHeader = "X-Tenant-Id"
	}
	if cfg.OverrideCookie == "" {
		cfg.OverrideCookie = "tenant_id"
	}
	if cfg.AnonymousCookie == "" {
		cfg.AnonymousCookie = "anonymous_user"
	}
	if cfg.Isolation == "" {
		cfg.Isolation = tenantctx.ModeSchema
	}
	r := &Resolver{
		store: store,
		cfg:   cfg,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// identity is the outcome of steps 1-4 plus the override cookie: the tenant
// routing key and, when known, the higher-level organization id.
type identity struct {
	tenantID string
	orgID    string
}

// Resolve derives the request's tenant context. The returned error is either
// ErrInvalidIdentifier or ErrAccessDenied; every other problem degrades to
// the shared default infrastructure.
func (r *Resolver) Resolve(ctx context.Context, req *http.Request) (tenantctx.TenantContext, error) {
	if !r.store.MultiTenant() {
		return tenantctx.TenantContext{
			TenantID:  r.store.DefaultTenantID(),
			Isolation: tenantctx.ModeSchema,
		}, nil
	}

	id, err := r.resolveIdentity(ctx, req)
	if err != nil {
		return tenantctx.TenantContext{}, err
	}

	// The override cookie wins over every resolution step and acts as both
	// tenant and organization id. Malformed values are ignored.
	if cookie, cerr := req.Cookie(r.cfg.OverrideCookie); cerr == nil && ValidIdentifier(cookie.Value) {
		r.log.DebugContext(ctx, "tenant override cookie applied", "tenant_id", cookie.Value)
		id = identity{tenantID: cookie.Value, orgID: cookie.Value}
	}

	tc := tenantctx.TenantContext{
		TenantID:  id.tenantID,
		OrgID:     id.orgID,
		Isolation: tenantctx.ModeSchema,
	}

	if r.cfg.Isolation == tenantctx.ModeDatabase && id.orgID != "" && r.reg != nil {
		infra, lerr := r.reg.Lookup(ctx, id.orgID)
		switch {
		case lerr == nil:
			tc.DatabaseURL = infra.DatabaseURL()
			tc.SearchURL = infra.SearchURL()
			tc.Isolation = tenantctx.ModeDatabase
		case errors.Is(lerr, registry.ErrSuspended):
			return tenantctx.TenantContext{}, &AccessDeniedError{OrganizationID: id.orgID}
		case errors.Is(lerr, registry.ErrNotProvisioned):
			// Organizations mid-provisioning are not blocked; this request
			// runs against shared infrastructure.
			r.log.InfoContext(ctx, "infrastructure not provisioned, using shared",
				"org_id", id.orgID)
		case errors.Is(lerr, registry.ErrStoreUnavailable):
			r.log.ErrorContext(ctx, "lookup store unavailable, degrading to shared infrastructure",
				"org_id", id.orgID, "error", lerr)
		default:
			r.log.ErrorContext(ctx, "infrastructure lookup failed, degrading to shared infrastructure",
				"org_id", id.orgID, "error", lerr)
		}
	}

	return tc, nil
}

// resolveIdentity walks the signal sources in precedence order. Falls back
// to the default shared tenant with no organization; that path never fails.
func (r *Resolver) resolveIdentity(ctx context.Context, req *http.Request) (identity, error) {
	// 1. Trusted gateway header, used verbatim when well-formed. The
	// gateway already verified organization membership.
	if v := req.Header.Get(r.cfg.TrustedHeader); v != "" && ValidIdentifier(v) {
		r.log.DebugContext(ctx, "tenant resolved from trusted header", "tenant_id", v)
		return identity{tenantID: v, orgID: v}, nil
	}

	// 2. API credential's embedded tenant claim.
	if id, ok := r.fromCredential(ctx, req); ok {
		return id, nil
	}

	// 3. Session-token store lookup.
	if r.tokens != nil {
		data, err := r.tokens.Lookup(ctx, req)
		if err != nil {
			// A degraded session store must not take the product down;
			// the request proceeds through the remaining signals.
			r.log.ErrorContext(ctx, "session token lookup failed", "error", err)
		} else if data != nil && data.TenantID != "" {
			if !ValidIdentifier(data.TenantID) {
				return identity{}, ErrInvalidIdentifier
			}
			org := data.OrganizationID
			if org == "" {
				org = data.TenantID
			}
			r.log.DebugContext(ctx, "tenant resolved from session token",
				"tenant_id", data.TenantID, "org_id", org)
			return identity{tenantID: data.TenantID, orgID: org}, nil
		}
	}

	// 4. Signed anonymous-session cookie.
	if id, ok, err := r.fromAnonymousCookie(ctx, req); err != nil {
		return identity{}, err
	} else if ok {
		return id, nil
	}

	// 5. No tenant resolved: shared default, no organization.
	return identity{tenantID: r.store.DefaultTenantID()}, nil
}

func (r *Resolver) fromCredential(ctx context.Context, req *http.Request) (identity, bool) {
	if r.credentials == nil {
		return identity{}, false
	}
	auth := req.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok || token == "" {
		return identity{}, false
	}

	var claims authtoken.Claims
	if err := r.credentials.Parse(token, &claims); err != nil {
		// Not a credential this service issued; authentication proper is
		// someone else's job.
		r.log.DebugContext(ctx, "credential token not usable for tenant resolution", "error", err)
		return identity{}, false
	}
	if claims.TenantID == "" || !ValidIdentifier(claims.TenantID) {
		return identity{}, false
	}

	org := claims.OrganizationID
	if org == "" {
		org = claims.TenantID
	}
	r.log.DebugContext(ctx, "tenant resolved from credential claim",
		"tenant_id", claims.TenantID, "org_id", org)
	return identity{tenantID: claims.TenantID, orgID: org}, true
}

func (r *Resolver) fromAnonymousCookie(ctx context.Context, req *http.Request) (identity, bool, error) {
	if r.anonymous == nil {
		return identity{}, false, nil
	}
	cookie, err := req.Cookie(r.cfg.AnonymousCookie)
	if err != nil || cookie.Value == "" {
		return identity{}, false, nil
	}

	var claims authtoken.Claims
	if err := r.anonymous.Parse(cookie.Value, &claims); err != nil {
		r.log.WarnContext(ctx, "failed to decode anonymous session cookie", "error", err)
		return identity{}, false, nil
	}
	if claims.TenantID == "" {
		return identity{}, false, nil
	}
	if !ValidIdentifier(claims.TenantID) {
		return identity{}, false, ErrInvalidIdentifier
	}

	org := claims.OrganizationID
	if org == "" {
		org = claims.TenantID
	}
	r.log.DebugContext(ctx, "tenant resolved from anonymous session",
		"tenant_id", claims.TenantID, "org_id", org)
	return identity{tenantID: claims.TenantID, orgID: org}, true, nil
}
