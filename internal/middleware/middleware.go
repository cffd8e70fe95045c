// Package middleware holds the Echo middleware shared by every route:
// request ids, the request-scoped logger, New Relic tracing, CORS, request
// logging, panic recovery, per-IP rate limiting and the global error handler.
package middleware
