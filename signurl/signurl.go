// Package signurl issues time-limited signed download tokens. A token binds
// a stored file ID to an expiry; anyone holding the token can fetch exactly
// that file until it expires, with no session required.
package signurl

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLen is the minimum accepted signing secret length in bytes.
// Derive the secret from a passphrase with SHA-256 to satisfy it.
const MinSecretLen = 32

// Claims is the token payload: registered claims plus the file ID.
type Claims struct {
	jwt.RegisteredClaims
	FileID string `json:"file_id"`
}

// Sign creates a token for the given file ID, valid for ttl.
func Sign(secret []byte, fileID string, ttl time.Duration) (string, error) {
	if len(secret) < MinSecretLen {
		return "", fmt.Errorf("signing secret too short: %d bytes (min %d)", len(secret), MinSecretLen)
	}
	if fileID == "" {
		return "", errors.New("empty file ID")
	}

	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		FileID: fileID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Verify parses and validates a token, returning the file ID it grants.
// The signing method is pinned to HS256 to prevent algorithm confusion.
func Verify(secret []byte, tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v (only HS256 allowed)", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.FileID == "" {
		return "", errors.New("invalid token")
	}
	return claims.FileID, nil
}
