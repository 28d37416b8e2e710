// Package metrics holds Prometheus instrumentation for API traffic.
// The core only increments counters; exposing them is left to the
// embedding program.
package metrics
