// Package cache stores enrichment results so repeated runs over the same
// claim text never pay for a second classification call.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a stable cache key from the claim text an enrichment request
// is built from. Claims with identical text share a classification.
func Key(text string) string {
	hash := sha256.Sum256([]byte(text))
	return "claimlens:v1:" + hex.EncodeToString(hash[:])
}
