// Package manager orchestrates synchronization between the remote
// service and the local cache: full and incremental syncs with
// automatic recovery from an invalidated sync token, command batch
// execution, and name/ID resolution with auto-sync fallback and fuzzy
// suggestions.
package manager
