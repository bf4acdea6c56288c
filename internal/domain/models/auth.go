package models

import "github.com/golang-jwt/jwt/v5"

// Claims is the JWT payload issued by the identity provider.
type Claims struct {
	jwt.RegisteredClaims
	Email        string                 `json:"email"`
	Role         string                 `json:"role"` // "authenticated" or "anon"
	UserMetadata map[string]interface{} `json:"user_metadata"`
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *Claims) GetUserID() string {
	return c.Subject
}

// DisplayName picks the name shown as chat author: user_metadata.name or
// full_name, then the email, then the subject.
func (c *Claims) DisplayName() string {
	for _, key := range []string{"name", "full_name", "username"} {
		if v, ok := c.UserMetadata[key].(string); ok && v != "" {
			return v
		}
	}
	if c.Email != "" {
		return c.Email
	}
	return c.Subject
}
