// Package auth mints and parses the HS256 access tokens handed out on login.
// An access token is bound to the session it was issued for.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the standard claims plus the user and session ids.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string
	SessionID string
}

func GenerateToken(userID, sessionID string, secretKey []byte, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID:    userID,
		SessionID: sessionID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken validates the signature and expiry. An expired token yields
// common.ErrTokenExpired, anything else common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" || claims.SessionID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
