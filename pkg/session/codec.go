// Package session issues and verifies admin session tokens.
//
// Tokens are HMAC-SHA256 signed (HS256) and carry the admin username as the
// subject claim. The site was originally deployed with unsigned tokens of the
// form base64("username:millis"); those are still accepted on the verify path
// so cookies issued before the signing change remain valid until they expire.
package session

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Codec issues and verifies session tokens for the single admin account.
type Codec struct {
	secret   []byte
	username string
}

// NewCodec creates a Codec. secret signs tokens; adminUsername is the only
// identity Verify will ever accept.
func NewCodec(secret, adminUsername string) *Codec {
	return &Codec{
		secret:   []byte(secret),
		username: adminUsername,
	}
}

// Issue returns a signed token for the given username. The issued-at claim is
// informational only; expiry is enforced by the cookie max-age, not the token.
func (c *Codec) Issue(username string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:  username,
		IssuedAt: jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify reports whether the token identifies the configured admin user.
// Malformed, tampered, or foreign tokens are unauthenticated; Verify never
// surfaces a parse error to the caller.
func (c *Codec) Verify(token string) (string, bool) {
	if token == "" {
		return "", false
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return c.secret, nil
	})
	if err == nil && parsed.Valid {
		if claims.Subject == c.username {
			return claims.Subject, true
		}
		return "", false
	}

	return c.verifyLegacy(token)
}

// verifyLegacy accepts the original unsigned base64("username:millis") format.
// The embedded timestamp is ignored; the check is a plain username match.
func (c *Codec) verifyLegacy(token string) (string, bool) {
	decoded, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", false
	}
	name, _, ok := strings.Cut(string(decoded), ":")
	if !ok || name != c.username {
		return "", false
	}
	return name, true
}
