package usecase

import "time"

const (
	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour

	// AccountCacheTTL bounds staleness of cached account summaries. Mutating
	// operations invalidate the entry eagerly; the TTL is a backstop.
	AccountCacheTTL = 30 * time.Second

	// accountCachePrefix namespaces account summary cache keys.
	accountCachePrefix = "account:"
)

// AccountCacheKey returns the cache key for an account summary.
func AccountCacheKey(accountNo string) string {
	return accountCachePrefix + accountNo
}
