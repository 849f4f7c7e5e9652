package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching extracted chunk claims.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from chunk text. The version segment guards
// against stale entries when the claim shape changes.
func Key(text string) string {
	hash := sha256.Sum256([]byte(text))
	return "concord:v1:" + hex.EncodeToString(hash[:])
}
