// Package sessiontoken はセッションCookieに格納する署名付きトークンを提供します。
// Cookie値を単なるセッションIDではなくHMAC署名付きトークンにすることで、
// ストアへのID総当たりを署名検証の段階で落とします。
package sessiontoken

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Generator defines the interface for session token generation and parsing.
type Generator interface {
	// GenerateSessionToken creates a signed token carrying the session ID.
	GenerateSessionToken(sessionID string, userID uint) (string, error)

	// ParseSessionToken verifies the signature and returns the session ID.
	ParseSessionToken(token string) (string, error)
}

// generator implements the Generator interface.
type generator struct {
	secret     []byte
	expiration time.Duration
}

// NewGenerator creates a new session token generator with the provided
// secret and expiration duration.
func NewGenerator(secret string, expiration time.Duration) Generator {
	return &generator{
		secret:     []byte(secret),
		expiration: expiration,
	}
}

// GenerateSessionToken creates a signed HS256 token with the session ID in
// the sid claim. Expiration mirrors the session TTL; the store's own
// validity check remains authoritative.
func (g *generator) GenerateSessionToken(sessionID string, userID uint) (string, error) {
	claims := jwt.MapClaims{
		"sid": sessionID,
		"sub": userID,
		"exp": time.Now().Add(g.expiration).Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// ParseSessionToken verifies the token signature and extracts the session ID.
func (g *generator) ParseSessionToken(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// 署名アルゴリズムの確認（HMACのみ許可）
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return g.secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid session token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid session token claims")
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", fmt.Errorf("session token missing sid claim")
	}
	return sid, nil
}
