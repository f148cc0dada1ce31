package searchpool

import "time"

// Config holds pool sizing, health-check cadence, and transport settings for
// the default client factory. Struct tags follow the pkg/config loader
// conventions for environment-based initialization.
type Config struct {
	// DefaultEndpoint is the shared search instance used when the tenant
	// context carries no dedicated endpoint (schema isolation).
	DefaultEndpoint string `env:"SEARCH_DEFAULT_ENDPOINT,notEmpty"`

	// MaxClients bounds the number of live clients kept in the pool.
	MaxClients int `env:"SEARCH_POOL_MAX_CLIENTS" envDefault:"50"`

	// HealthCheckInterval is the minimum time between health probes of the
	// same client. Probes run on access, never in the background.
	HealthCheckInterval time.Duration `env:"SEARCH_POOL_HEALTHCHECK_INTERVAL" envDefault:"60s"`

	// HealthCheckTimeout bounds a single health probe.
	HealthCheckTimeout time.Duration `env:"SEARCH_POOL_HEALTHCHECK_TIMEOUT" envDefault:"5s"`

	Username string `env:"SEARCH_USERNAME"`
	Password string `env:"SEARCH_PASSWORD"`

	// CertPath/KeyPath enable client-certificate pinning for managed
	// backends that mandate mutual TLS.
	CertPath string `env:"SEARCH_CLIENT_CERT_PATH"`
	KeyPath  string `env:"SEARCH_CLIENT_KEY_PATH"`

	// InsecureSkipVerify disables server certificate verification.
	// Self-hosted backends on private networks only.
	InsecureSkipVerify bool `env:"SEARCH_INSECURE_SKIP_VERIFY" envDefault:"false"`

	MaxRetries int `env:"SEARCH_MAX_RETRIES" envDefault:"3"`
}
