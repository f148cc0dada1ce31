package registry

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the lookup backend of the registry: it fetches the single
// infrastructure row for an organization. Implementations return an error
// matching ErrNotProvisioned when no row exists and wrap transport or
// deadline failures with ErrStoreUnavailable.
type Store interface {
	GetByOrganizationID(ctx context.Context, orgID string) (*Infrastructure, error)
}

// DefaultQueryTimeout bounds a single lookup query on top of whatever
// deadline the caller's context already carries.
const DefaultQueryTimeout = 10 * time.Second

// PGStore fetches infrastructure records from the platform database.
type PGStore struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// PGStoreOption configures a PGStore.
type PGStoreOption func(*PGStore)

// WithQueryTimeout overrides the per-query timeout. Values <= 0 are ignored.
func WithQueryTimeout(d time.Duration) PGStoreOption {
	return func(s *PGStore) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewPGStore creates a lookup store over an existing connection pool.
func NewPGStore(pool *pgxpool.Pool, opts ...PGStoreOption) *PGStore {
	s := &PGStore{pool: pool, timeout: DefaultQueryTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

const lookupQuery = `
SELECT organization_id,
       database_host,
       database_port,
       database_name,
       search_host,
       search_port,
       status,
       provisioned_at,
       last_health_check,
       metadata
FROM tenant_infrastructure
WHERE organization_id = $1`

// GetByOrganizationID fetches the infrastructure row for one organization.
func (s *PGStore) GetByOrganizationID(ctx context.Context, orgID string) (*Infrastructure, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		infra  Infrastructure
		status string
	)
	err := s.pool.QueryRow(ctx, lookupQuery, orgID).Scan(
		&infra.OrganizationID,
		&infra.DatabaseHost,
		&infra.DatabasePort,
		&infra.DatabaseName,
		&infra.SearchHost,
		&infra.SearchPort,
		&status,
		&infra.ProvisionedAt,
		&infra.LastHealthCheck,
		&infra.Metadata,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotProvisionedError{OrganizationID: orgID}
		}
		// Deadline and transport failures both mean the store could not
		// answer; callers degrade to shared infrastructure either way.
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	infra.Status = Status(status)

	return &infra, nil
}
