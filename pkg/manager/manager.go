package manager

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/td-cli/td/pkg/api"
	"github.com/td-cli/td/pkg/cache"
	"github.com/td-cli/td/pkg/log"
)

// DefaultStaleMinutes is the staleness threshold for cached data.
const DefaultStaleMinutes = 5

// Manager owns the HTTP client, the cache store, and the one live
// in-memory cache. Methods that mutate the cache must not be called
// concurrently; wrap the manager in a mutex for multi-goroutine use.
type Manager struct {
	client       *api.Client
	store        *cache.Store
	cache        *cache.Cache
	staleMinutes int
	logger       zerolog.Logger
}

// New creates a Manager, loading the cache from disk if present.
func New(client *api.Client, store *cache.Store) (*Manager, error) {
	return NewWithStaleThreshold(client, store, DefaultStaleMinutes)
}

// NewWithStaleThreshold creates a Manager with a custom staleness
// threshold in minutes.
func NewWithStaleThreshold(client *api.Client, store *cache.Store, staleMinutes int) (*Manager, error) {
	c, err := store.LoadOrDefault()
	if err != nil {
		return nil, err
	}
	return &Manager{
		client:       client,
		store:        store,
		cache:        c,
		staleMinutes: staleMinutes,
		logger:       log.WithComponent(log.ComponentSync),
	}, nil
}

// Cache returns the live in-memory cache.
func (m *Manager) Cache() *cache.Cache {
	return m.cache
}

// Store returns the cache store.
func (m *Manager) Store() *cache.Store {
	return m.store
}

// Client returns the API client.
func (m *Manager) Client() *api.Client {
	return m.client
}

// IsStale reports whether the cache is older than the threshold. A
// cache exactly at the threshold is not stale.
func (m *Manager) IsStale(now time.Time) bool {
	if m.cache.LastSync == nil {
		return true
	}
	return now.Sub(*m.cache.LastSync) > time.Duration(m.staleMinutes)*time.Minute
}

// NeedsSync reports whether a sync should run before reading the cache.
func (m *Manager) NeedsSync(now time.Time) bool {
	return m.cache.NeedsFullSync() || m.IsStale(now)
}

// Sync reconciles the cache with the server. A cache that has never
// been fully synced gets a full sync; otherwise an incremental sync
// runs, falling back to a full sync when the server rejects the stored
// sync token. The cache is persisted after a successful merge.
func (m *Manager) Sync(ctx context.Context) error {
	if m.cache.NeedsFullSync() {
		return m.fullSyncLocked(ctx)
	}

	resp, err := m.client.Sync(ctx, api.Incremental(m.cache.SyncToken))
	if err != nil {
		if api.IsInvalidSyncToken(err) {
			// Sole recovery path for an expired token; no user action
			// needed.
			m.logger.Warn().Msg("sync token invalid, performing full sync to recover")
			m.cache.SyncToken = api.FullSyncToken
			return m.fullSyncLocked(ctx)
		}
		return err
	}

	m.cache.ApplySyncResponse(resp)
	m.logger.Debug().Str("sync_token", resp.SyncToken).
		Int("items", len(resp.Items)).Msg("incremental sync applied")
	return m.store.SaveContext(ctx, m.cache)
}

// FullSync forces a full sync regardless of the stored token.
func (m *Manager) FullSync(ctx context.Context) error {
	return m.fullSyncLocked(ctx)
}

func (m *Manager) fullSyncLocked(ctx context.Context) error {
	resp, err := m.client.Sync(ctx, api.FullSync())
	if err != nil {
		return err
	}
	m.cache.ApplySyncResponse(resp)
	m.logger.Debug().Str("sync_token", resp.SyncToken).
		Int("items", len(resp.Items)).Msg("full sync applied")
	return m.store.SaveContext(ctx, m.cache)
}

// Reload discards the in-memory cache and re-reads it from disk.
func (m *Manager) Reload() error {
	c, err := m.store.LoadOrDefault()
	if err != nil {
		return err
	}
	m.cache = c
	return nil
}

// ExecuteCommands sends a command batch, merges the affected resources
// into the cache, persists, and returns the full response so callers
// can inspect temp_id_mapping and per-command sync_status. Per-command
// failures do not raise; check SyncResponse.HasErrors.
func (m *Manager) ExecuteCommands(ctx context.Context, commands []api.Command) (*api.SyncResponse, error) {
	// resource_types=["all"] makes the server return the affected
	// resources, not just command status.
	req := api.WithCommands(commands).WithResourceTypes("all")
	resp, err := m.client.Sync(ctx, req)
	if err != nil {
		return nil, err
	}

	m.cache.ApplyMutationResponse(resp)
	if err := m.store.SaveContext(ctx, m.cache); err != nil {
		return nil, err
	}
	return resp, nil
}
