package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the hex SHA-256 digest of data (64 characters).
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ShortHash returns the first n characters of [Hash]. An n outside 1..64
// returns the full digest.
func ShortHash(data []byte, n int) string {
	h := Hash(data)
	if n <= 0 || n > len(h) {
		return h
	}
	return h[:n]
}

// queryKey is query:<type>:<digest of the query text>.
func queryKey(typeTag, query string) string {
	return "query:" + typeTag + ":" + Hash([]byte(query))
}
