package sessiontoken

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// Data is the tenant-relevant slice of a stored session payload. Unknown
// fields written by the auth service are ignored.
type Data struct {
	TenantID       string `json:"tenant_id"`
	OrganizationID string `json:"organization_id,omitempty"`
	UserID         string `json:"user_id,omitempty"`
}

// Config holds session-token store settings.
type Config struct {
	// CookieName is the session cookie carrying the opaque token.
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"session_token"`

	// KeyPrefix namespaces session keys in Redis.
	KeyPrefix string `env:"SESSION_KEY_PREFIX" envDefault:"session:"`

	// LookupTimeout bounds a single Redis round trip.
	LookupTimeout time.Duration `env:"SESSION_LOOKUP_TIMEOUT" envDefault:"3s"`
}

// Getter is the single Redis command the store issues. *redis.Client
// satisfies it; tests substitute fakes.
type Getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// Store resolves session cookies to tenant claims via Redis.
type Store struct {
	client Getter
	cfg    Config
}

// NewStore creates a session-token store over an existing Redis client.
func NewStore(client Getter, cfg Config) *Store {
	if cfg.CookieName == "" {
		cfg.CookieName = "session_token"
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "session:"
	}
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = 3 * time.Second
	}
	return &Store{client: client, cfg: cfg}
}

// Lookup resolves the request's session cookie to stored tenant claims.
// Returns (nil, nil) when the request has no session cookie or the token is
// unknown or expired.
func (s *Store) Lookup(ctx context.Context, r *http.Request) (*Data, error) {
	cookie, err := r.Cookie(s.cfg.CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.LookupTimeout)
	defer cancel()

	raw, err := s.client.Get(ctx, s.cfg.KeyPrefix+cookie.Value).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	var data Data
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, errors.Join(ErrMalformedPayload, err)
	}
	return &data, nil
}
