package utils

import (
	"time"

	"github.com/dgrijalva/jwt-go"
)

// JwtKey signs and verifies API tokens. main loads it from JWT_SECRET
// before the router starts.
var JwtKey []byte

// tokenLifetime is how long a login stays valid. Pharmacies typically
// log in once per ordering day.
const tokenLifetime = 24 * time.Hour

// Claims is the bearer-token payload identifying a customer or admin.
// Accounts are keyed by email; the role gates the admin routes.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.StandardClaims
}

// GenerateJWT signs a token for the account with the given email and role
func GenerateJWT(email, role string) (string, error) {
	expirationTime := time.Now().Add(tokenLifetime)
	claims := &Claims{
		Email: email,
		Role:  role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expirationTime.Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(JwtKey)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}
