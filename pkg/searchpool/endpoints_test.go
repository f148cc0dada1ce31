package searchpool_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meridianhq/tenantgate/pkg/searchpool"
	"github.com/meridianhq/tenantgate/pkg/tenantctx"
)

func TestDerivedEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("document endpoint", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t,
			"http://vespa-7.internal:8081/document/v1/default/main_index/docid",
			searchpool.DocumentEndpoint("http://vespa-7.internal:8081", "main_index"))
		// Trailing slash on the base does not double up.
		assert.Equal(t,
			"http://vespa-7.internal:8081/document/v1/default/main_index/docid",
			searchpool.DocumentEndpoint("http://vespa-7.internal:8081/", "main_index"))
	})

	t.Run("search endpoint", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "http://vespa-7.internal:8081/search/",
			searchpool.SearchEndpoint("http://vespa-7.internal:8081"))
	})

	t.Run("config endpoint swaps to the well-known port", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "http://vespa-7.internal:19071",
			searchpool.ConfigEndpoint("http://vespa-7.internal:8081"))
	})

	t.Run("config endpoint passes through unparseable input", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "not a url", searchpool.ConfigEndpoint("not a url"))
	})
}

func TestPool_ContextAwareEndpoints(t *testing.T) {
	t.Parallel()

	store := tenantctx.NewStore(tenantctx.Config{MultiTenant: true})
	pool := searchpool.New(searchpool.Config{DefaultEndpoint: "http://search.internal:8081"}, store)
	t.Cleanup(pool.CloseAll)

	ctx := store.Apply(context.Background(), tenantctx.TenantContext{
		TenantID:  "org_7",
		SearchURL: "http://vespa-7.internal:8081",
		Isolation: tenantctx.ModeDatabase,
	})

	assert.Equal(t, "http://vespa-7.internal:8081/document/v1/default/docs/docid",
		pool.DocumentEndpoint(ctx, "docs"))
	assert.Equal(t, "http://vespa-7.internal:8081/search/", pool.SearchEndpoint(ctx))
	assert.Equal(t, "http://vespa-7.internal:19071", pool.ConfigEndpoint(ctx))

	// Shared-mode requests derive from the default instance.
	assert.Equal(t, "http://search.internal:8081/search/",
		pool.SearchEndpoint(context.Background()))
}
