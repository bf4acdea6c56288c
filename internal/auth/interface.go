package auth

import "grimoires/internal/domain/models"

// JWTVerifier validates bearer tokens for the HTTP middleware.
type JWTVerifier interface {
	// VerifyToken validates a JWT token string and returns the parsed claims.
	VerifyToken(tokenString string) (*models.Claims, error)

	// Close releases any resources held by the verifier.
	Close() error
}
