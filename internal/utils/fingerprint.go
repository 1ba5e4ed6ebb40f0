package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint hashes the parts into a stable hex key. Parts are separated by a
// NUL byte so ("ab","c") and ("a","bc") differ.
func Fingerprint(parts ...string) string {
	hasher := sha256.New()
	for _, p := range parts {
		hasher.Write([]byte(p))
		hasher.Write([]byte{0})
	}
	return hex.EncodeToString(hasher.Sum(nil))
}
