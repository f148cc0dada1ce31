package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// Nil errors produce an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// TenantID records the tenant routing key under the key "tenant_id".
func TenantID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("tenant_id", id)
}

// OrgID records the organization identifier under the key "org_id".
func OrgID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("org_id", id)
}

// Endpoint records a backend endpoint URL under the key "endpoint".
func Endpoint(url string) slog.Attr {
	if url == "" {
		return slog.Attr{}
	}
	return slog.String("endpoint", url)
}
