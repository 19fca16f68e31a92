package mockserver

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/me/shelfctl/internal/store"
)

const tokenLifetime = 24 * time.Hour

// tokenIssuer mints and verifies the HS256 bearer tokens the mock backend
// hands out, mirroring the claims the real backend embeds.
type tokenIssuer struct {
	secret []byte
}

func newTokenIssuer(secret string) *tokenIssuer {
	return &tokenIssuer{secret: []byte(secret)}
}

// issue creates a signed token for the user.
func (ti *tokenIssuer) issue(u *store.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":         u.ID,
		"email":      u.Email,
		"role":       string(u.Role),
		"library_id": u.LibraryID,
		"iat":        now.Unix(),
		"exp":        now.Add(tokenLifetime).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
}

// verify parses a token and returns the embedded user ID.
func (ti *tokenIssuer) verify(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return ti.secret, nil
	})
	if err != nil {
		return 0, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, fmt.Errorf("invalid token claims")
	}
	id, ok := claims["id"].(float64)
	if !ok {
		return 0, fmt.Errorf("token missing user id")
	}
	return int64(id), nil
}
