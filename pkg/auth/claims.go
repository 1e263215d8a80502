package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Permission strings carried in the token. Access checks compare against
// these explicitly; nothing is ever derived from a URL path.
const (
	PermOrdersRead  = "orders:read"
	PermOrdersWrite = "orders:write"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID      uuid.UUID
	Role        string
	Permissions []string
	JTI         string
}

// AccessTokenClaims represents the typed JWT issued to dashboard operators.
type AccessTokenClaims struct {
	UserID      uuid.UUID `json:"user_id"`
	Role        string    `json:"role"`
	Permissions []string  `json:"permissions"`
	jwt.RegisteredClaims
}

// HasPermission reports whether the claims grant the permission.
func (c *AccessTokenClaims) HasPermission(perm string) bool {
	if c == nil {
		return false
	}
	for _, candidate := range c.Permissions {
		if candidate == perm {
			return true
		}
	}
	return false
}
