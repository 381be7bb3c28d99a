package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// opaqueTokenBytes is the entropy of refresh and reset tokens. 32 bytes is
// double the 128-bit floor.
const opaqueTokenBytes = 32

// NewOpaqueToken returns a cryptographically random opaque token. Refresh and
// reset tokens carry no structure; validity lives entirely in the ledger.
func NewOpaqueToken() (string, error) {
	buf := make([]byte, opaqueTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashToken returns the hex SHA-256 of an opaque token. Only this hash is
// persisted, so the raw secret is not recoverable from storage.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
