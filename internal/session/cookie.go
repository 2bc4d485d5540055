package session

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aloks98/gotodo/internal/apperr"
	"github.com/aloks98/gotodo/internal/store"
)

// encodeCookie wraps a session ID in a signed HS256 token. The token carries
// no user data beyond the opaque session ID and the expiry.
func (m *Manager) encodeCookie(sess *store.Session) (string, error) {
	claims := &jwt.RegisteredClaims{
		ID:        sess.ID,
		IssuedAt:  jwt.NewNumericDate(sess.IssuedAt),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// decodeCookie verifies a cookie value and returns the session ID inside.
func (m *Manager) decodeCookie(value string) (string, error) {
	return m.parseCookie(value)
}

// decodeCookieUnvalidated extracts the session ID without claims validation,
// so an expired cookie still resolves to its session ID. The signature is
// still checked.
func (m *Manager) decodeCookieUnvalidated(value string) (string, error) {
	return m.parseCookie(value, jwt.WithoutClaimsValidation())
}

func (m *Manager) parseCookie(value string, opts ...jwt.ParserOption) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(value, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.ErrUnauthenticated
		}
		return m.secret, nil
	}, opts...)
	if err != nil {
		return "", mapJWTError(err)
	}
	if !token.Valid || claims.ID == "" {
		return "", apperr.ErrUnauthenticated
	}
	return claims.ID, nil
}

// mapJWTError maps JWT library errors to the application taxonomy. Anything
// other than a clean expiry is reported as plain unauthenticated, revealing
// nothing about why the cookie failed.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return apperr.ErrSessionExpired
	}
	return apperr.ErrUnauthenticated
}
