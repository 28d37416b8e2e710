// Package api implements the HTTP client for the remote task service.
//
// The client speaks two wire protocols: plain REST endpoints
// (GET/POST/DELETE with JSON bodies) and the batching sync endpoint
// (form-encoded request, JSON response). Requests carry a bearer token,
// are bounded by a per-attempt timeout, and are retried with backoff on
// HTTP 429 only.
package api
