package utils

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// ContentETag returns a strong, quoted entity tag for a response body.
func ContentETag(body []byte) string {
	sum := blake2b.Sum256(body)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}
