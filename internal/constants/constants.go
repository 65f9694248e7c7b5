package constants

// Context keys
const (
	ContextKeyUserID = "user_id"
	ContextKeyCaller = "caller"
	ContextKeyToken  = "auth_token"
	ContextKeyOrg    = "organization"
)

// Session / cookie
const (
	// SessionCookieName is the cookie carrying the signed token for browser clients.
	SessionCookieName    = "token"
	SessionTokenKey      = "token"
	// DefaultSessionSecret is the development fallback; release mode refuses it.
	DefaultSessionSecret = "default-secret-key-change-me"
)

// Credentials
const (
	MinPasswordLength = 6
	// MaxPasswordLength is in bytes; bcrypt rejects longer input.
	MaxPasswordLength = 72
	BearerPrefix      = "Bearer "
)

// Organizations
const (
	DefaultOrganizationName  = "Mi Organización"
	DefaultOrganizationEmail = "organizacion@ejemplo.com"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Service items
const (
	DefaultItemDurationMinutes = 5
)
