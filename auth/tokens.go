package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Sentinel errors for the authorization gate to map to a uniform 401.
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)

// TokenIssuer issues and validates HS256 bearer tokens carrying a user id
// and an absolute expiry. The signing secret is process-wide configuration.
type TokenIssuer struct {
	secret  []byte
	expires time.Duration
}

// NewTokenIssuer creates a token issuer with the given signing secret and
// default token lifetime in minutes.
func NewTokenIssuer(secret string, expireMinutes int) *TokenIssuer {
	return &TokenIssuer{
		secret:  []byte(secret),
		expires: time.Duration(expireMinutes) * time.Minute,
	}
}

// Issue produces a signed token for the given user id
func (t *TokenIssuer) Issue(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.expires)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Decode validates a token and returns the user id it was issued for.
// Returns ErrExpiredToken past expiry and ErrInvalidToken for anything
// else wrong with the token.
func (t *TokenIssuer) Decode(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, ErrExpiredToken
		}
		return uuid.Nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return userID, nil
}
