package manager

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/td-cli/td/pkg/api"
	"github.com/td-cli/td/pkg/cache"
	"github.com/td-cli/td/pkg/types"
)

func TestFullSyncIntoEmptyCache(t *testing.T) {
	s := newSyncServer(t, respondOnce(`{
		"sync_token": "t1",
		"full_sync": true,
		"full_sync_date_utc": "2025-06-15T12:00:00Z",
		"items": [
			{"id": "i1", "project_id": "p1", "content": "active"},
			{"id": "i2", "project_id": "p1", "content": "deleted", "is_deleted": true}
		],
		"projects": [{"id": "p1", "name": "Work"}]
	}`))
	m := newTestManager(t, s)

	require.NoError(t, m.Sync(context.Background()))

	c := m.Cache()
	assert.Equal(t, "t1", c.SyncToken)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "i1", c.Items[0].ID)
	require.Len(t, c.Projects, 1)
	assert.NotNil(t, c.LastSync)
	assert.Equal(t, "2025-06-15T12:00:00Z", c.FullSyncDateUTC)

	// First request was a full sync.
	assert.Equal(t, "*", s.form(0).Get("sync_token"))
	assert.Equal(t, `["all"]`, s.form(0).Get("resource_types"))
}

func TestIncrementalSyncUpdatesExisting(t *testing.T) {
	s := newSyncServer(t, respondOnce(`{
		"sync_token": "t2",
		"full_sync": false,
		"items": [{"id": "a", "project_id": "p1", "content": "new"}]
	}`))
	m := newTestManager(t, s)

	m.Cache().SyncToken = "t1"
	m.Cache().FullSyncDateUTC = "2025-06-01T00:00:00Z"
	m.Cache().Items = []types.Item{{ID: "a", ProjectID: "p1", Content: "old"}}
	m.Cache().RebuildIndexes()

	require.NoError(t, m.Sync(context.Background()))

	c := m.Cache()
	require.Len(t, c.Items, 1)
	assert.Equal(t, "new", c.Items[0].Content)
	assert.Equal(t, "t2", c.SyncToken)
	assert.Equal(t, "2025-06-01T00:00:00Z", c.FullSyncDateUTC)
	assert.Equal(t, "t1", s.form(0).Get("sync_token"))
}

func TestInvalidSyncTokenFallsBackToFullSync(t *testing.T) {
	s := newSyncServer(t, func(call int, form url.Values) (int, string) {
		if call == 0 {
			return http.StatusBadRequest,
				`{"error": "Invalid sync token", "error_tag": "SYNC_TOKEN_INVALID", "error_code": 34}`
		}
		return http.StatusOK, `{
			"sync_token": "fresh",
			"full_sync": true,
			"items": [{"id": "i1", "project_id": "p1", "content": "hello"}]
		}`
	})
	m := newTestManager(t, s)
	m.Cache().SyncToken = "stale"

	require.NoError(t, m.Sync(context.Background()))

	assert.Equal(t, 2, s.callCount())
	assert.Equal(t, "stale", s.form(0).Get("sync_token"))
	assert.Equal(t, "*", s.form(1).Get("sync_token"))
	assert.Equal(t, "fresh", m.Cache().SyncToken)
	require.Len(t, m.Cache().Items, 1)
}

func TestOtherErrorsPropagate(t *testing.T) {
	s := newSyncServer(t, func(int, url.Values) (int, string) {
		return http.StatusBadRequest, `{"error": "bad request", "error_code": 15}`
	})
	m := newTestManager(t, s)
	m.Cache().SyncToken = "t1"

	err := m.Sync(context.Background())
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, api.KindValidation, apiErr.Kind)
	assert.Equal(t, 1, s.callCount())
}

func TestFullSyncForcesFullRequest(t *testing.T) {
	s := newSyncServer(t, respondOnce(`{"sync_token": "t9", "full_sync": true}`))
	m := newTestManager(t, s)
	m.Cache().SyncToken = "existing"

	require.NoError(t, m.FullSync(context.Background()))
	assert.Equal(t, "*", s.form(0).Get("sync_token"))
	assert.Equal(t, "t9", m.Cache().SyncToken)
}

func TestSyncPersistsCache(t *testing.T) {
	s := newSyncServer(t, respondOnce(`{
		"sync_token": "t1",
		"full_sync": true,
		"items": [{"id": "i1", "project_id": "p1", "content": "persisted"}]
	}`))
	m := newTestManager(t, s)

	require.NoError(t, m.Sync(context.Background()))

	loaded, err := m.Store().Load()
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "persisted", loaded.Items[0].Content)
}

func TestExecuteCommandsAddThenRead(t *testing.T) {
	var sentUUID string
	s := newSyncServer(t, func(call int, form url.Values) (int, string) {
		var commands []map[string]any
		require.NoError(t, json.Unmarshal([]byte(form.Get("commands")), &commands))
		sentUUID = commands[0]["uuid"].(string)

		resp := map[string]any{
			"sync_token":      "t1",
			"sync_status":     map[string]any{sentUUID: "ok"},
			"temp_id_mapping": map[string]string{"T": "r"},
			"items": []map[string]any{
				{"id": "r", "project_id": "p", "content": "hello"},
			},
		}
		raw, _ := json.Marshal(resp)
		return http.StatusOK, string(raw)
	})
	m := newTestManager(t, s)
	m.Cache().SyncToken = "t0"

	cmd := api.NewCommandWithTempID(api.ItemAdd, "T", map[string]any{
		"content":    "hello",
		"project_id": "p",
	})
	resp, err := m.ExecuteCommands(context.Background(), []api.Command{cmd})
	require.NoError(t, err)

	// The request carried both commands and resource_types.
	assert.Equal(t, `["all"]`, s.form(0).Get("resource_types"))
	assert.NotEmpty(t, s.form(0).Get("commands"))

	realID, ok := resp.RealID("T")
	require.True(t, ok)
	assert.Equal(t, "r", realID)
	assert.False(t, resp.HasErrors())

	// Cache updated without a separate sync, and persisted.
	item, ok := m.Cache().Indexes().ItemsByID["r"]
	require.True(t, ok)
	assert.Equal(t, "hello", item.Content)

	loaded, err := m.Store().Load()
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "r", loaded.Items[0].ID)
}

func TestExecuteCommandsDeleteThenList(t *testing.T) {
	s := newSyncServer(t, respondOnce(`{
		"sync_token": "t2",
		"items": [{"id": "A", "project_id": "p1", "is_deleted": true}]
	}`))
	m := newTestManager(t, s)
	m.Cache().SyncToken = "t1"
	m.Cache().Items = []types.Item{
		{ID: "A", ProjectID: "p1", Content: "first"},
		{ID: "B", ProjectID: "p1", Content: "second"},
	}
	m.Cache().RebuildIndexes()

	_, err := m.ExecuteCommands(context.Background(), []api.Command{api.ItemDeleteCommand("A")})
	require.NoError(t, err)

	require.Len(t, m.Cache().Items, 1)
	assert.Equal(t, "B", m.Cache().Items[0].ID)
}

func TestExecuteCommandsPerCommandFailureDoesNotRaise(t *testing.T) {
	s := newSyncServer(t, respondOnce(`{
		"sync_token": "t1",
		"sync_status": {"cmd-1": {"error_code": 15, "error": "Invalid temporary id"}}
	}`))
	m := newTestManager(t, s)
	m.Cache().SyncToken = "t0"

	resp, err := m.ExecuteCommands(context.Background(), []api.Command{api.ItemDeleteCommand("x")})
	require.NoError(t, err)
	assert.True(t, resp.HasErrors())
}

func TestStaleness(t *testing.T) {
	s := newSyncServer(t, respondOnce(`{"sync_token": "t1"}`))
	m := newTestManager(t, s)
	m.Cache().SyncToken = "t1"

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		lastSync *time.Time
		stale    bool
	}{
		{"never synced", nil, true},
		{"just synced", timePtr(now), false},
		{"two minutes ago", timePtr(now.Add(-2 * time.Minute)), false},
		{"exactly at threshold", timePtr(now.Add(-5 * time.Minute)), false},
		{"just over threshold", timePtr(now.Add(-5*time.Minute - time.Second)), true},
		{"ten minutes ago", timePtr(now.Add(-10 * time.Minute)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.Cache().LastSync = tt.lastSync
			assert.Equal(t, tt.stale, m.IsStale(now))
		})
	}
}

func TestNeedsSync(t *testing.T) {
	s := newSyncServer(t, respondOnce(`{"sync_token": "t1"}`))
	m := newTestManager(t, s)
	now := time.Now().UTC()

	// Fresh cache needs a full sync regardless of staleness.
	assert.True(t, m.NeedsSync(now))

	m.Cache().SyncToken = "t1"
	m.Cache().LastSync = timePtr(now)
	assert.False(t, m.NeedsSync(now))

	m.Cache().LastSync = timePtr(now.Add(-time.Hour))
	assert.True(t, m.NeedsSync(now))
}

func TestReloadDiscardsMemoryState(t *testing.T) {
	s := newSyncServer(t, respondOnce(`{"sync_token": "t1", "full_sync": true}`))
	m := newTestManager(t, s)
	require.NoError(t, m.Sync(context.Background()))

	m.Cache().Items = append(m.Cache().Items, types.Item{ID: "unsaved", ProjectID: "p"})
	require.NoError(t, m.Reload())
	assert.Empty(t, m.Cache().Items)
	assert.Equal(t, "t1", m.Cache().SyncToken)
}

func TestNewWithCorruptCacheFails(t *testing.T) {
	store := cache.NewStoreWithPath(writeCorruptCache(t))
	client := api.NewClient("test-token")
	_, err := New(client, store)
	assert.Error(t, err)
}

func timePtr(ts time.Time) *time.Time {
	return &ts
}
