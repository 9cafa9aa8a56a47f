package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256Bytes computes the hex-encoded SHA-256 digest of an in-memory
// payload, e.g. a serialized reconciliation report before archiving.
func SHA256Bytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
