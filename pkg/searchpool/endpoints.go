package searchpool

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// ConfigPort is the well-known config-server port of a search instance,
// fixed relative to the data port.
const ConfigPort = 19071

// DocumentEndpoint returns the document-write API URL for an index on the
// given search instance.
func DocumentEndpoint(base, index string) string {
	return fmt.Sprintf("%s/document/v1/default/%s/docid", strings.TrimRight(base, "/"), index)
}

// SearchEndpoint returns the query API URL for the given search instance.
func SearchEndpoint(base string) string {
	return strings.TrimRight(base, "/") + "/search/"
}

// ConfigEndpoint returns the config-server URL for the given search
// instance: same host, well-known config port. Falls back to the input
// unchanged if it does not parse as a URL.
func ConfigEndpoint(base string) string {
	u, err := url.Parse(base)
	if err != nil || u.Hostname() == "" {
		return base
	}
	return fmt.Sprintf("%s://%s:%d", u.Scheme, u.Hostname(), ConfigPort)
}

// DocumentEndpoint resolves the request's search instance and returns its
// document-write API URL for the given index.
func (p *Pool) DocumentEndpoint(ctx context.Context, index string) string {
	return DocumentEndpoint(p.ResolveEndpoint(ctx), index)
}

// SearchEndpoint resolves the request's search instance and returns its
// query API URL.
func (p *Pool) SearchEndpoint(ctx context.Context) string {
	return SearchEndpoint(p.ResolveEndpoint(ctx))
}

// ConfigEndpoint resolves the request's search instance and returns its
// config-server URL.
func (p *Pool) ConfigEndpoint(ctx context.Context) string {
	return ConfigEndpoint(p.ResolveEndpoint(ctx))
}
