// Package sessiontoken looks up browser session tokens in Redis and returns
// the tenant claims the authentication layer stored at login time. The
// resolver consults it for requests carrying a session cookie but no trusted
// header or API credential.
//
// The stored value is a small JSON document written by the auth service:
//
//	{"tenant_id": "org_7", "organization_id": "acct_7", "user_id": "..."}
//
// An absent cookie or an expired key is a normal miss, not an error; only
// transport failures surface, wrapped with ErrStoreUnavailable so callers can
// degrade instead of failing the request.
package sessiontoken
