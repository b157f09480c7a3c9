package auth

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

// Claims is the subset of the backend's JWT payload the storefront reads.
type Claims struct {
	ID   string `json:"id"`
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Subject returns the user id carried by the token: "id" when present,
// otherwise the registered "sub" claim.
func (c *Claims) Subject() string {
	if c.ID != "" {
		return c.ID
	}
	return c.RegisteredClaims.Subject
}

// ParseClaims decodes the payload of a backend token without verifying
// its signature or expiry. The signing secret lives with the backend, so
// the result is only fit for addressing requests, never for authorization.
func ParseClaims(tokenStr string) (*Claims, error) {
	tokenStr = strings.TrimSpace(strings.TrimPrefix(tokenStr, "Bearer "))
	if tokenStr == "" {
		return nil, fmt.Errorf("empty token")
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return nil, fmt.Errorf("malformed token: %w", err)
	}
	return claims, nil
}

// SubjectOf returns the user id of tokenStr, or "" when it cannot be decoded.
func SubjectOf(tokenStr string) string {
	claims, err := ParseClaims(tokenStr)
	if err != nil {
		return ""
	}
	return claims.Subject()
}
