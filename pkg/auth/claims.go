package auth

import "github.com/golang-jwt/jwt/v5"

// SessionTokenPayload carries the identity minted into a session token.
type SessionTokenPayload struct {
	Username string
	Email    string
	JTI      string
}

// SessionTokenClaims are the JWT claims for a storefront session.
type SessionTokenClaims struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}
