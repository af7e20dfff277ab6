package auth

import "errors"

var (
	// ErrInvalidToken indicates the bearer token failed validation.
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrUnauthenticated indicates no caller identity is present.
	ErrUnauthenticated = errors.New("auth: unauthenticated")
	// ErrForbidden indicates the caller is not an admin.
	ErrForbidden = errors.New("auth: forbidden")
	// ErrRevoked indicates the caller's cached admin flag had drifted: the
	// token said admin but the registry no longer agrees.
	ErrRevoked = errors.New("auth: administrative access revoked")
	// ErrRegistryUnavailable indicates the registry lookup itself failed.
	// Gated requests fail closed on it.
	ErrRegistryUnavailable = errors.New("auth: admin registry unavailable")

	ErrNotFound           = errors.New("auth: not found")
	ErrEmailTaken         = errors.New("auth: email already registered")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrInvalidInput       = errors.New("auth: invalid input")
)
