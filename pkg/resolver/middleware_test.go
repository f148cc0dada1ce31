package resolver_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianhq/tenantgate/pkg/registry"
	"github.com/meridianhq/tenantgate/pkg/resolver"
	"github.com/meridianhq/tenantgate/pkg/sessiontoken"
	"github.com/meridianhq/tenantgate/pkg/tenantctx"
)

func TestMiddleware_TrustedHeaderSchemaMode(t *testing.T) {
	t.Parallel()

	store := multiTenantStore()
	r := resolver.New(store, resolver.Config{}, resolver.WithLogger(quietLogger()))

	var got tenantctx.TenantContext
	handler := r.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		got, _ = tenantctx.FromContext(req.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Tenant-Id", "org_77")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "org_77", got.TenantID)
	assert.Equal(t, tenantctx.ModeSchema, got.Isolation)
	assert.Empty(t, got.DatabaseURL)
}

func TestMiddleware_SessionTokenDatabaseMode(t *testing.T) {
	t.Parallel()

	store := multiTenantStore()
	r := resolver.New(store,
		resolver.Config{Isolation: tenantctx.ModeDatabase},
		resolver.WithLogger(quietLogger()),
		resolver.WithTokenStore(&fakeTokenStore{data: &sessiontoken.Data{TenantID: "org_42"}}),
		resolver.WithRegistry(&fakeRegistry{infra: map[string]*registry.Infrastructure{
			"org_42": activeInfra("org_42"),
		}}),
	)

	var got tenantctx.TenantContext
	handler := r.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		got, _ = tenantctx.FromContext(req.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "tok-1"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "org_42", got.TenantID)
	assert.Equal(t, tenantctx.ModeDatabase, got.Isolation)
	assert.Equal(t, "http://vespa-7.internal:8081", got.SearchURL)
	assert.Equal(t, "postgresql://db-7.internal:5432/tenant_org_42", got.DatabaseURL)
}

func TestMiddleware_SuspendedOrganization(t *testing.T) {
	t.Parallel()

	store := multiTenantStore()
	r := resolver.New(store,
		resolver.Config{Isolation: tenantctx.ModeDatabase},
		resolver.WithLogger(quietLogger()),
		resolver.WithRegistry(&fakeRegistry{errs: map[string]error{
			"org_42": &registry.SuspendedError{OrganizationID: "org_42"},
		}}),
	)

	nextCalled := false
	handler := r.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		nextCalled = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Tenant-Id", "org_42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "suspended")
	assert.False(t, nextCalled, "suspended requests must not reach the handler")
}

func TestMiddleware_InvalidIdentifier(t *testing.T) {
	t.Parallel()

	store := multiTenantStore()
	r := resolver.New(store, resolver.Config{},
		resolver.WithLogger(quietLogger()),
		resolver.WithTokenStore(&fakeTokenStore{data: &sessiontoken.Data{TenantID: `org"42`}}),
	)

	handler := r.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		t.Error("handler must not run for an invalid identifier")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMiddleware_UnprovisionedFallsBackToShared(t *testing.T) {
	t.Parallel()

	store := multiTenantStore()
	r := resolver.New(store,
		resolver.Config{Isolation: tenantctx.ModeDatabase},
		resolver.WithLogger(quietLogger()),
		resolver.WithRegistry(&fakeRegistry{}),
	)

	var got tenantctx.TenantContext
	handler := r.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		got, _ = tenantctx.FromContext(req.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Tenant-Id", "org_new")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "org_new", got.TenantID)
	assert.Equal(t, tenantctx.ModeSchema, got.Isolation)
}

func TestMiddleware_CustomErrorHandler(t *testing.T) {
	t.Parallel()

	store := multiTenantStore()
	r := resolver.New(store, resolver.Config{},
		resolver.WithLogger(quietLogger()),
		resolver.WithTokenStore(&fakeTokenStore{data: &sessiontoken.Data{TenantID: "bad id"}}),
	)

	handler := r.Middleware(resolver.WithErrorHandler(
		func(w http.ResponseWriter, req *http.Request, err error) {
			w.WriteHeader(http.StatusTeapot)
		},
	))(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestMiddleware_ConcurrentRequestIsolation(t *testing.T) {
	t.Parallel()

	store := multiTenantStore()
	r := resolver.New(store, resolver.Config{}, resolver.WithLogger(quietLogger()))

	handler := r.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		want := req.Header.Get("X-Tenant-Id")
		got := store.MustTenantID(req.Context())
		if got != want {
			http.Error(w, fmt.Sprintf("got %q want %q", got, want), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	const workers, iterations = 8, 200

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			tenant := fmt.Sprintf("org_%d", w)
			for i := 0; i < iterations; i++ {
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				req.Header.Set("X-Tenant-Id", tenant)
				rec := httptest.NewRecorder()
				handler.ServeHTTP(rec, req)
				if rec.Code != http.StatusNoContent {
					t.Errorf("worker %d: %s", w, rec.Body.String())
					return
				}
			}
		}(w)
	}
	wg.Wait()

	require.Empty(t, store.OrgID(httptest.NewRequest(http.MethodGet, "/", nil).Context()),
		"a bare request context must carry no binding")
}
