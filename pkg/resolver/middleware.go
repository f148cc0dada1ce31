package resolver

import (
	"errors"
	"net/http"
)

// ErrorHandler renders resolution failures to the client.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// DefaultErrorHandler maps the resolver error taxonomy to HTTP statuses:
// malformed identifiers are client errors, suspended organizations are
// forbidden, anything else is internal.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidIdentifier):
		http.Error(w, "Invalid tenant identifier", http.StatusBadRequest)
	case errors.Is(err, ErrAccessDenied):
		http.Error(w, "Organization access suspended. Please contact support.", http.StatusForbidden)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// Middleware resolves the tenant for every request and applies the binding
// to the request context before the next handler runs. On failure the error
// handler responds and the handler chain stops; no context is populated for
// downstream use.
func (r *Resolver) Middleware(opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := middlewareConfig{errorHandler: DefaultErrorHandler}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			tc, err := r.Resolve(req.Context(), req)
			if err != nil {
				cfg.errorHandler(w, req, err)
				return
			}

			ctx := r.store.Apply(req.Context(), tc)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

type middlewareConfig struct {
	errorHandler ErrorHandler
}

// MiddlewareOption configures the middleware.
type MiddlewareOption func(*middlewareConfig)

// WithErrorHandler replaces the default error responder.
func WithErrorHandler(h ErrorHandler) MiddlewareOption {
	return func(c *middlewareConfig) {
		if h != nil {
			c.errorHandler = h
		}
	}
}
