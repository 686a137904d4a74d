package domain

import "errors"

// Sentinel errors returned by services. Handlers map these to HTTP statuses;
// ErrInvalidCredentials deliberately covers both unknown-user and bad-password
// so the login response never reveals which check failed.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrRoleNotFound       = errors.New("role not found")
	ErrAuthorHasBooks     = errors.New("author has books")
)
