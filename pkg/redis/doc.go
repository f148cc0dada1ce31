// Package redis connects to the key/value store holding session tokens,
// with startup retries and a health probe for the admin router.
package redis
