// Package authtoken issues and verifies the compact HMAC-signed tokens the
// tenant resolver consumes: anonymous-session cookies and API-credential
// tenant claims. Tokens are standard three-part JWT strings (HS256) carrying
// tenant routing claims alongside the registered temporal claims.
//
//	svc, err := authtoken.New([]byte(signingKey))
//	token, err := svc.Generate(authtoken.Claims{
//		TenantID:       "org_42",
//		OrganizationID: "acct_42",
//		ExpiresAt:      time.Now().Add(24 * time.Hour).Unix(),
//	})
//
//	var claims authtoken.Claims
//	if err := svc.Parse(token, &claims); err != nil {
//		// signature, format, or expiry failure
//	}
//
// Verification uses constant-time signature comparison and rejects any
// algorithm other than HS256 to prevent algorithm-confusion attacks.
package authtoken
