package requestid_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianhq/tenantgate/pkg/requestid"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	serve := func(t *testing.T, header string) (string, *httptest.ResponseRecorder) {
		t.Helper()
		var inCtx string
		handler := requestid.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			inCtx = requestid.FromContext(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set(requestid.Header, header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return inCtx, rec
	}

	t.Run("generates an id when absent", func(t *testing.T) {
		t.Parallel()

		id, rec := serve(t, "")
		require.NotEmpty(t, id)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
		assert.Equal(t, id, rec.Header().Get(requestid.Header))
	})

	t.Run("reuses a well-formed client id", func(t *testing.T) {
		t.Parallel()

		id, rec := serve(t, "client-id-123")
		assert.Equal(t, "client-id-123", id)
		assert.Equal(t, "client-id-123", rec.Header().Get(requestid.Header))
	})

	t.Run("replaces malformed client ids", func(t *testing.T) {
		t.Parallel()

		for _, bad := range []string{"has space", "semi;colon", strings.Repeat("x", 129)} {
			id, _ := serve(t, bad)
			assert.NotEqual(t, bad, id)
			_, err := uuid.Parse(id)
			assert.NoError(t, err)
		}
	})
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, requestid.FromContext(req.Context()))

	ctx := requestid.WithContext(req.Context(), "rid-1")
	assert.Equal(t, "rid-1", requestid.FromContext(ctx))
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	ex := requestid.LoggerExtractor()

	attr, ok := ex(requestid.WithContext(httptest.NewRequest(http.MethodGet, "/", nil).Context(), "rid-1"))
	require.True(t, ok)
	assert.Equal(t, "request_id", attr.Key)
	assert.Equal(t, "rid-1", attr.Value.String())

	_, ok = ex(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
}
