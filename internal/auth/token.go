package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"azurea_hotel/internal/domain"
)

// Claims is what the API needs back out of a bearer token.
type Claims struct {
	UserID int64
	Role   domain.Role
}

// NewAccessToken signs an HS256 JWT carrying the user id and role.
func NewAccessToken(secret string, userID int64, role domain.Role, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"exp":  now.Add(ttl).Unix(),
		"iat":  now.Unix(),
	})
	return t.SignedString([]byte(secret))
}

var errInvalidToken = errors.New("invalid token")

// ParseAccessToken validates the token and extracts claims.
func ParseAccessToken(secret, raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, errInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errInvalidToken
	}
	sub, ok := mc["sub"].(float64)
	if !ok {
		return Claims{}, errInvalidToken
	}
	role, ok := mc["role"].(string)
	if !ok {
		return Claims{}, errInvalidToken
	}
	return Claims{UserID: int64(sub), Role: domain.Role(role)}, nil
}
