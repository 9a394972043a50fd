package constants

import "time"

// ServiceName is reported by the health endpoint and used as default JWT issuer
const ServiceName = "authguard"

// Session lifetimes
const (
	// TokenDuration is how long an issued JWT stays valid before refresh
	TokenDuration = 24 * time.Hour
	// CookieDuration is how long the browser keeps the JWT cookie
	CookieDuration = 7 * 24 * time.Hour
)

// LocalProvider is the go-pkgz direct provider backed by the users table
const LocalProvider = "local"

// Token transport names used by go-pkgz/auth
const (
	JWTCookieName = "JWT"
	JWTHeaderName = "X-JWT"
)
