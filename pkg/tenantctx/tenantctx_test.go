package tenantctx_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianhq/tenantgate/pkg/tenantctx"
)

func TestStore_SingleTenant(t *testing.T) {
	t.Parallel()

	store := tenantctx.NewStore(tenantctx.Config{MultiTenant: false, DefaultTenantID: "public"})

	t.Run("always returns default tenant", func(t *testing.T) {
		t.Parallel()

		id, ok := store.TenantID(context.Background())
		require.True(t, ok)
		assert.Equal(t, "public", id)
		assert.Equal(t, "public", store.MustTenantID(context.Background()))
	})

	t.Run("empty default falls back to public", func(t *testing.T) {
		t.Parallel()

		s := tenantctx.NewStore(tenantctx.Config{})
		assert.Equal(t, "public", s.DefaultTenantID())
	})
}

func TestStore_MultiTenant(t *testing.T) {
	t.Parallel()

	store := tenantctx.NewStore(tenantctx.Config{MultiTenant: true, DefaultTenantID: "public"})

	t.Run("applied binding is readable", func(t *testing.T) {
		t.Parallel()

		ctx := store.Apply(context.Background(), tenantctx.TenantContext{
			TenantID:  "org_42",
			OrgID:     "acct_42",
			SearchURL: "http://vespa-42.internal:8081",
			Isolation: tenantctx.ModeDatabase,
		})

		id, ok := store.TenantID(ctx)
		require.True(t, ok)
		assert.Equal(t, "org_42", id)
		assert.Equal(t, "acct_42", store.OrgID(ctx))
		assert.Equal(t, "http://vespa-42.internal:8081", store.SearchURL(ctx))
		assert.True(t, store.DatabaseIsolated(ctx))
	})

	t.Run("unset tenant id fails loudly", func(t *testing.T) {
		t.Parallel()

		_, ok := store.TenantID(context.Background())
		assert.False(t, ok)
		assert.Panics(t, func() {
			store.MustTenantID(context.Background())
		})
	})

	t.Run("isolation defaults to schema", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, tenantctx.ModeSchema, store.Isolation(context.Background()))

		ctx := store.Apply(context.Background(), tenantctx.TenantContext{TenantID: "org_1"})
		assert.Equal(t, tenantctx.ModeSchema, store.Isolation(ctx))
		assert.False(t, store.DatabaseIsolated(ctx))
	})

	t.Run("nested override restores on parent context", func(t *testing.T) {
		t.Parallel()

		outer := store.Apply(context.Background(), tenantctx.TenantContext{TenantID: "org_caller"})
		inner := store.Apply(outer, tenantctx.TenantContext{TenantID: "org_admin"})

		assert.Equal(t, "org_admin", store.MustTenantID(inner))
		// Resuming the parent context is the reset: the caller's binding is
		// untouched by the nested override.
		assert.Equal(t, "org_caller", store.MustTenantID(outer))
	})

	t.Run("binding is visible to spawned goroutines", func(t *testing.T) {
		t.Parallel()

		ctx := store.Apply(context.Background(), tenantctx.TenantContext{TenantID: "org_7"})

		done := make(chan string, 1)
		go func() {
			done <- store.MustTenantID(ctx)
		}()
		assert.Equal(t, "org_7", <-done)
	})
}

func TestStore_ConcurrentRequestIsolation(t *testing.T) {
	t.Parallel()

	store := tenantctx.NewStore(tenantctx.Config{MultiTenant: true, DefaultTenantID: "public"})

	const iterations = 500
	tenants := []string{"org_a", "org_b", "org_c", "org_d"}

	var wg sync.WaitGroup
	for _, tenantID := range tenants {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()

			ctx := store.Apply(context.Background(), tenantctx.TenantContext{
				TenantID: id,
				OrgID:    id,
			})
			for n := 0; n < iterations; n++ {
				// Each simulated request must only ever observe its own
				// binding, at every point during concurrent execution.
				assert.Equal(t, id, store.MustTenantID(ctx))
				assert.Equal(t, id, store.OrgID(ctx))
			}
		}(tenantID)
	}
	wg.Wait()
}

func TestStore_LoggerExtractors(t *testing.T) {
	t.Parallel()

	store := tenantctx.NewStore(tenantctx.Config{MultiTenant: true})

	t.Run("tenant extractor", func(t *testing.T) {
		t.Parallel()

		ctx := store.Apply(context.Background(), tenantctx.TenantContext{TenantID: "org_9"})
		attr, ok := store.LoggerExtractor()(ctx)
		require.True(t, ok)
		assert.Equal(t, "tenant_id", attr.Key)
		assert.Equal(t, "org_9", attr.Value.String())

		_, ok = store.LoggerExtractor()(context.Background())
		assert.False(t, ok)
	})

	t.Run("org extractor skips records without an org", func(t *testing.T) {
		t.Parallel()

		ctx := store.Apply(context.Background(), tenantctx.TenantContext{TenantID: "org_9"})
		_, ok := store.OrgLoggerExtractor()(ctx)
		assert.False(t, ok)

		ctx = store.Apply(context.Background(), tenantctx.TenantContext{TenantID: "org_9", OrgID: "acct_9"})
		attr, ok := store.OrgLoggerExtractor()(ctx)
		require.True(t, ok)
		assert.Equal(t, "acct_9", attr.Value.String())
	})
}
