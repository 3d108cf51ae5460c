package constants

import "time"

// Context keys
const (
	ContextKeyIdentity = "identity"
)

// Session cookie
const (
	AccessTokenCookieName = "access-token"
	AccessTokenTTL        = 7 * 24 * time.Hour
)

// Credentials
const (
	MinPasswordLength = 6
	BcryptCost        = 10
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
