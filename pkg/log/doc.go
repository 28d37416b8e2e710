// Package log provides structured logging for td built on zerolog.
//
// Call Init once at startup, then derive component-scoped children with
// WithComponent. Every sink is wrapped so bearer tokens are redacted
// before a line is written.
package log
