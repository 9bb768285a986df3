package auth

import "github.com/golang-jwt/jwt/v5"

// AccessTokenPayload is what the API knows about a user when minting a token.
type AccessTokenPayload struct {
	UserID uint
	Email  string
	JTI    string
}

// AccessTokenClaims is the JWT body. RegisteredClaims.ID doubles as the key of
// the user's refresh session.
type AccessTokenClaims struct {
	UserID uint   `json:"userId"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}
