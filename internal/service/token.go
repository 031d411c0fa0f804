package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// sessionClaims are the statements embedded in a session token: the standard
// registered claims plus the id of the user the token was issued for.
type sessionClaims struct {
	jwt.RegisteredClaims
	UserId int64 `json:"id"`
}

// errInvalidToken is returned for tokens that fail signature or expiry checks.
var errInvalidToken = errors.New("invalid session token")

// signSessionToken issues an HS256 token for the given user that expires
// after the given validity duration.
func signSessionToken(userId int64, secret []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
		},
		UserId: userId,
	})
	return token.SignedString(secret)
}

// parseSessionToken verifies signature and expiry of a session token and
// returns the id of the user it was issued for.
func parseSessionToken(tokenString string, secret []byte) (int64, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, errInvalidToken
	}
	return claims.UserId, nil
}
