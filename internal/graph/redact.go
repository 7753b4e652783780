package graph

import (
	"crypto/sha256"
	"encoding/hex"
)

// Redact digests a session token or secret for logging. Log lines must never
// carry the literal token; the digest is stable enough to correlate entries.
func Redact(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])[:12]
}
