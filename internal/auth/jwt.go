// Package auth issues and verifies access tokens and keeps refresh sessions.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/fkhayef/fellowship/internal/access"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Claims carries the account id in the subject and the role at issue time
type Claims struct {
	jwt.RegisteredClaims
	Role access.Role `json:"role"`
}

// GenerateToken signs an HS256 access token for the account
func GenerateToken(userID uuid.UUID, role access.Role, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: role,
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies tokenString and returns the viewer it was issued to
func ParseToken(tokenString string, secret []byte) (access.Viewer, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return access.Viewer{}, ErrTokenExpired
		}
		return access.Viewer{}, ErrInvalidToken
	}
	if !token.Valid {
		return access.Viewer{}, ErrInvalidToken
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return access.Viewer{}, ErrInvalidToken
	}
	if !claims.Role.Valid() {
		return access.Viewer{}, ErrInvalidToken
	}

	return access.Viewer{ID: id, Role: claims.Role}, nil
}
