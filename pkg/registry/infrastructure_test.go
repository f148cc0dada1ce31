package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meridianhq/tenantgate/pkg/registry"
)

func TestInfrastructure_DerivedURLs(t *testing.T) {
	t.Parallel()

	infra := &registry.Infrastructure{
		OrganizationID: "acct_7",
		DatabaseHost:   "db-7.internal",
		DatabasePort:   5432,
		DatabaseName:   "tenant_acct_7",
		SearchHost:     "vespa-7.internal",
		SearchPort:     8081,
		Status:         registry.StatusActive,
	}

	assert.Equal(t, "postgresql://db-7.internal:5432/tenant_acct_7", infra.DatabaseURL())
	assert.Equal(t, "http://vespa-7.internal:8081", infra.SearchURL())
	// The config server sits on the well-known port regardless of the data
	// port.
	assert.Equal(t, "http://vespa-7.internal:19071", infra.SearchConfigURL())
}

func TestInfrastructure_StatusPredicates(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status       registry.Status
		active       bool
		provisioning bool
		suspended    bool
	}{
		{registry.StatusActive, true, false, false},
		{registry.StatusProvisioning, false, true, false},
		{registry.StatusSuspended, false, false, true},
	}

	for _, tc := range cases {
		infra := &registry.Infrastructure{Status: tc.status}
		assert.Equal(t, tc.active, infra.IsActive(), "status %s", tc.status)
		assert.Equal(t, tc.provisioning, infra.IsProvisioning(), "status %s", tc.status)
		assert.Equal(t, tc.suspended, infra.IsSuspended(), "status %s", tc.status)
	}
}
