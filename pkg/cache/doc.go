// Package cache holds the local mirror of server state: in-memory
// entity tables with secondary indexes, merge operations for full,
// incremental, and mutation sync responses, and an atomic JSON store.
package cache
