// Package middleware provides the gin middleware of the factory API:
// CORS, per-client rate limiting, request ids and sender identity.
package middleware
