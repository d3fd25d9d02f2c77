package models

import "github.com/golang-jwt/jwt/v5"

// UserClaims represents the JWT claims issued by the identity provider.
// Only the subject is required for request scoping; everything else is
// informational.
type UserClaims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	Email                string `json:"email,omitempty"`
	Name                 string `json:"name,omitempty"`
	Role                 string `json:"role,omitempty"`
}

// GetUserID returns the user ID from the JWT subject claim.
// This is the owner identifier used for all document scoping.
func (c *UserClaims) GetUserID() string {
	return c.Subject
}
