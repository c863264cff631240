package common

// Header names and schemes.
const (
	AuthorizationHeader     = "Authorization"
	AuthorizationTypeBearer = "Bearer"
)

// Keys under which the auth middleware stores the caller in the gin context.
const (
	UserIDKey      = "userID"
	UserEmailKey   = "userEmail"
	UserRoleKey    = "userRole"
	TokenClaimsKey = "tokenClaims"
)

// Account roles. Providers are clients that registered a provider profile.
const (
	RoleClient   = "client"
	RoleProvider = "provider"
	RoleAdmin    = "admin"
)
