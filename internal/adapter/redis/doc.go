// Package redis holds the Redis-backed pieces of the service: the client
// with its command metrics and circuit breaker hooks, and the per-(user, post)
// like debouncer.
package redis
