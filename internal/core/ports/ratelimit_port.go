package ports

// RateLimiter gates expensive operations per caller key.
type RateLimiter interface {
	Allow(key string) bool
}
