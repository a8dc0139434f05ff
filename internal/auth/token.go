package auth

import (
	"fmt"
	"os"
	"time"

	"clubaereo/bitacora/internal/constants"

	"github.com/golang-jwt/jwt/v5"
)

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func signingSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret" // local development only
	}
	return []byte(secret)
}

// ParseToken validates an HS256 bearer token and returns the caller's claims
func ParseToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return signingSecret(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return &JWTClaims{
		UserUUID:  claims.Subject,
		RoleValue: constants.UserRole(claims.Role),
	}, nil
}

// GenerateToken issues an HS256 token for a user. Used by the token
// generator tool and by tests.
func GenerateToken(userID string, role constants.UserRole, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingSecret())
}
