package redis

import "strings"

const (
	// KeyPrefixTerm is the prefix for persisted term keys
	KeyPrefixTerm = "marquee:term:"
)

// TermKey returns the Redis key for a term store key.
// Scoped keys ("<session>:searchTerm") keep their scope as part of the suffix.
func TermKey(key string) string {
	return KeyPrefixTerm + key
}

// ExtractTermKey strips the Redis prefix from a stored key.
func ExtractTermKey(redisKey string) (string, bool) {
	if !strings.HasPrefix(redisKey, KeyPrefixTerm) || len(redisKey) == len(KeyPrefixTerm) {
		return "", false
	}
	return redisKey[len(KeyPrefixTerm):], true
}
