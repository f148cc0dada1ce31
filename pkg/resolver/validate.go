package resolver

import "regexp"

// MaxIdentifierLength bounds tenant and organization identifiers. Matches
// the schema-name limit of the storage layer and keeps identifiers DNS-safe.
const MaxIdentifierLength = 63

// identifierPattern accepts alphanumerics plus underscore and hyphen with an
// alphanumeric first character. Everything else - quotes, slashes, dots,
// spaces - is rejected, which is what keeps injection-style payloads out of
// schema routing.
var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

// ValidIdentifier reports whether s is an acceptable tenant or organization
// identifier.
func ValidIdentifier(s string) bool {
	if s == "" || len(s) > MaxIdentifierLength {
		return false
	}
	return identifierPattern.MatchString(s)
}
