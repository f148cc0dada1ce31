package searchpool

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"
)

// Client is a live search client bound to one endpoint. It embeds the
// underlying opensearch client so callers use the full API directly.
type Client struct {
	*opensearch.Client

	endpoint string
	release  func()
}

// Endpoint returns the base URL this client is bound to.
func (c *Client) Endpoint() string { return c.endpoint }

// Close releases the client's pooled transport connections. Called by the
// pool on eviction; a closed client must not be reused.
func (c *Client) Close() {
	if c.release != nil {
		c.release()
	}
}

// NewClient wraps an already-constructed opensearch client for the pool.
// release, if non-nil, is invoked once when the pool evicts the client.
// Custom factories use this to supply alternate transports.
func NewClient(osc *opensearch.Client, endpoint string, release func()) *Client {
	return &Client{Client: osc, endpoint: endpoint, release: release}
}

// Factory constructs a search client for an endpoint. Swapping the factory
// changes transport behavior without touching pool logic.
type Factory func(endpoint string) (*Client, error)

// NewFactory builds the default factory from transport configuration,
// including client-certificate pinning when the backend mandates mutual TLS.
func NewFactory(cfg Config) Factory {
	return func(endpoint string) (*Client, error) {
		tlsConfig := &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		}
		if cfg.CertPath != "" && cfg.KeyPath != "" {
			cert, err := tls.LoadX509KeyPair(cfg.CertPath, cfg.KeyPath)
			if err != nil {
				return nil, errors.Join(ErrClientCreation, err)
			}
			tlsConfig.Certificates = []tls.Certificate{cert}
		}

		transport := &http.Transport{TLSClientConfig: tlsConfig}
		osc, err := opensearch.NewClient(opensearch.Config{
			Addresses:  []string{endpoint},
			Username:   cfg.Username,
			Password:   cfg.Password,
			MaxRetries: cfg.MaxRetries,
			Transport:  transport,
		})
		if err != nil {
			return nil, errors.Join(ErrClientCreation, err)
		}

		return &Client{
			Client:   osc,
			endpoint: endpoint,
			release:  transport.CloseIdleConnections,
		}, nil
	}
}

// healthCheck probes cluster reachability via the info endpoint. Any error,
// non-2xx response, or timeout counts as a failed check.
func healthCheck(ctx context.Context, client *Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return errors.Join(ErrHealthcheckFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return errors.Join(ErrHealthcheckFailed, errors.New(res.Status()))
	}
	return nil
}
