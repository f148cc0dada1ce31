package authtoken

import "errors"

var (
	ErrInvalidToken     = errors.New("authtoken: invalid token")
	ErrExpiredToken     = errors.New("authtoken: token is expired")
	ErrInvalidSignature = errors.New("authtoken: invalid signature")
	ErrUnexpectedAlg    = errors.New("authtoken: unexpected signing algorithm")
	ErrMissingKey       = errors.New("authtoken: missing signing key")
	ErrMissingTenant    = errors.New("authtoken: token carries no tenant claim")
)
