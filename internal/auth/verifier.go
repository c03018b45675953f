// Package auth validates connect-time identity tokens issued by the
// external authentication service. The core never checks credentials
// itself; it only verifies that a token is genuine and extracts the
// normalized username it carries.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Uzbeksil125/chatcore/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims are the JWT claims the auth service issues.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// Verifier resolves a bearer token to an authenticated username.
type Verifier interface {
	Verify(token string) (string, error)
}

// JWTVerifier verifies HMAC-signed tokens with a secret shared with the
// auth service.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Verify checks the token signature and expiry and returns the normalized
// username it identifies.
func (v *JWTVerifier) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	username := claims.Username
	if username == "" {
		username = claims.Subject
	}
	username = domain.NormalizeUser(username)
	if username == "" {
		return "", ErrInvalidToken
	}
	return username, nil
}

// Sign issues a token for the given username, valid for ttl. The external
// auth service is the production issuer; this exists for local development
// and tests.
func (v *JWTVerifier) Sign(username string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   domain.NormalizeUser(username),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Username: domain.NormalizeUser(username),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}

// Ensure interface is satisfied at compile time.
var _ Verifier = (*JWTVerifier)(nil)
