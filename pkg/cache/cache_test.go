package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/td-cli/td/pkg/api"
	"github.com/td-cli/td/pkg/types"
)

func TestNewCacheNeedsFullSync(t *testing.T) {
	c := New()
	assert.True(t, c.NeedsFullSync())
	assert.True(t, c.IsEmpty())
	assert.Nil(t, c.LastSync)
}

func TestApplyFullSyncResponse(t *testing.T) {
	c := New()
	resp := &api.SyncResponse{
		SyncToken:       "t1",
		FullSync:        true,
		FullSyncDateUTC: "2025-06-15T12:00:00Z",
		Items: []types.Item{
			{ID: "i1", ProjectID: "p1", Content: "active"},
			{ID: "i2", ProjectID: "p1", Content: "gone", IsDeleted: true},
		},
		Projects: []types.Project{{ID: "p1", Name: "Work"}},
		User:     &types.User{ID: "u1"},
	}
	c.ApplySyncResponse(resp)

	assert.Equal(t, "t1", c.SyncToken)
	assert.False(t, c.NeedsFullSync())
	assert.Equal(t, "2025-06-15T12:00:00Z", c.FullSyncDateUTC)
	assert.NotNil(t, c.LastSync)

	// Deleted entries from a full sync are dropped on arrival.
	require.Len(t, c.Items, 1)
	assert.Equal(t, "i1", c.Items[0].ID)
	require.Len(t, c.Projects, 1)
	require.NotNil(t, c.User)
}

func TestFullSyncReplacesExistingState(t *testing.T) {
	c := New()
	c.Items = []types.Item{{ID: "old", ProjectID: "p0", Content: "stale"}}
	c.RebuildIndexes()

	c.ApplyFullSyncResponse(&api.SyncResponse{
		SyncToken: "t2",
		FullSync:  true,
		Items:     []types.Item{{ID: "new", ProjectID: "p1", Content: "fresh"}},
	})

	require.Len(t, c.Items, 1)
	assert.Equal(t, "new", c.Items[0].ID)
	_, hasOld := c.Indexes().ItemsByID["old"]
	assert.False(t, hasOld)
}

func TestApplyIncrementalUpdatesExisting(t *testing.T) {
	c := New()
	c.SyncToken = "t1"
	c.FullSyncDateUTC = "2025-06-01T00:00:00Z"
	c.Items = []types.Item{{ID: "a", ProjectID: "p1", Content: "old"}}
	c.RebuildIndexes()

	c.ApplySyncResponse(&api.SyncResponse{
		SyncToken: "t2",
		Items:     []types.Item{{ID: "a", ProjectID: "p1", Content: "new"}},
	})

	require.Len(t, c.Items, 1)
	assert.Equal(t, "new", c.Items[0].Content)
	assert.Equal(t, "t2", c.SyncToken)
	// Incremental merges never touch the full-sync stamp.
	assert.Equal(t, "2025-06-01T00:00:00Z", c.FullSyncDateUTC)
}

func TestApplyIncrementalAppendsNew(t *testing.T) {
	c := New()
	c.Items = []types.Item{{ID: "a", ProjectID: "p1", Content: "first"}}
	c.RebuildIndexes()

	c.ApplyIncrementalSyncResponse(&api.SyncResponse{
		SyncToken: "t2",
		Items:     []types.Item{{ID: "b", ProjectID: "p1", Content: "second"}},
	})

	assert.Len(t, c.Items, 2)
}

func TestApplyIncrementalRemovesDeleted(t *testing.T) {
	c := New()
	c.Items = []types.Item{
		{ID: "a", ProjectID: "p1", Content: "keep"},
		{ID: "b", ProjectID: "p1", Content: "remove"},
	}
	c.RebuildIndexes()

	c.ApplyIncrementalSyncResponse(&api.SyncResponse{
		SyncToken: "t2",
		Items:     []types.Item{{ID: "b", ProjectID: "p1", IsDeleted: true}},
	})

	require.Len(t, c.Items, 1)
	assert.Equal(t, "a", c.Items[0].ID)
	_, present := c.Indexes().ItemsByID["b"]
	assert.False(t, present)
}

func TestApplyIncrementalPreservesUser(t *testing.T) {
	c := New()
	c.User = &types.User{ID: "u1", FullName: "Alice"}

	c.ApplyIncrementalSyncResponse(&api.SyncResponse{SyncToken: "t2"})

	require.NotNil(t, c.User)
	assert.Equal(t, "Alice", c.User.FullName)
}

func TestApplyMutationNeverUpdatesFullSyncDate(t *testing.T) {
	c := New()
	c.SyncToken = "t1"
	c.FullSyncDateUTC = "2025-06-01T00:00:00Z"

	c.ApplyMutationResponse(&api.SyncResponse{
		SyncToken:       "t2",
		FullSync:        true,
		FullSyncDateUTC: "2025-06-15T00:00:00Z",
		Items:           []types.Item{{ID: "r", ProjectID: "p", Content: "hello"}},
	})

	assert.Equal(t, "2025-06-01T00:00:00Z", c.FullSyncDateUTC)
	assert.Equal(t, "t2", c.SyncToken)
	require.Len(t, c.Items, 1)
}

func TestNoDuplicateIDsAfterMerges(t *testing.T) {
	c := New()
	c.ApplyFullSyncResponse(&api.SyncResponse{
		SyncToken: "t1",
		FullSync:  true,
		Items: []types.Item{
			{ID: "a", ProjectID: "p1"},
			{ID: "b", ProjectID: "p1"},
		},
	})
	c.ApplyIncrementalSyncResponse(&api.SyncResponse{
		SyncToken: "t2",
		Items: []types.Item{
			{ID: "a", ProjectID: "p1", Content: "updated"},
			{ID: "c", ProjectID: "p1"},
		},
	})

	seen := map[string]int{}
	for _, item := range c.Items {
		seen[item.ID]++
	}
	for id, count := range seen {
		assert.Equal(t, 1, count, "id %s duplicated", id)
	}
	assert.Len(t, c.Items, 3)
}

func TestDeletedCollaboratorStatesAbsentAfterMerge(t *testing.T) {
	c := New()
	c.ApplyFullSyncResponse(&api.SyncResponse{
		SyncToken: "t1",
		FullSync:  true,
		CollaboratorStates: []types.CollaboratorState{
			{ProjectID: "p1", UserID: "u1", State: "active"},
			{ProjectID: "p1", UserID: "u2", State: "deleted"},
		},
	})
	require.Len(t, c.CollaboratorStates, 1)

	c.ApplyIncrementalSyncResponse(&api.SyncResponse{
		SyncToken: "t2",
		CollaboratorStates: []types.CollaboratorState{
			{ProjectID: "p1", UserID: "u1", State: "deleted"},
		},
	})
	assert.Empty(t, c.CollaboratorStates)
}

func TestIndexesRebuiltAfterMerge(t *testing.T) {
	c := New()
	c.ApplyFullSyncResponse(&api.SyncResponse{
		SyncToken: "t1",
		FullSync:  true,
		Items:     []types.Item{{ID: "i1", ProjectID: "p1"}},
		Projects:  []types.Project{{ID: "p1", Name: "Work"}},
		Sections:  []types.Section{{ID: "s1", Name: "Todo", ProjectID: "p1"}},
		Labels:    []types.Label{{ID: "l1", Name: "Urgent"}},
		Collaborators: []types.Collaborator{
			{ID: "u1", FullName: "Alice"},
		},
		CollaboratorStates: []types.CollaboratorState{
			{ProjectID: "p1", UserID: "u1", State: "active"},
			{ProjectID: "p1", UserID: "u2", State: "invited"},
		},
	})

	idx := c.Indexes()
	assert.Contains(t, idx.ItemsByID, "i1")
	assert.Contains(t, idx.ProjectsByID, "p1")
	assert.Contains(t, idx.ProjectsByNameCI, "work")
	assert.Contains(t, idx.SectionsByID, "s1")
	assert.Contains(t, idx.LabelsByID, "l1")
	assert.Contains(t, idx.LabelsByNameCI, "urgent")
	assert.Contains(t, idx.CollaboratorsByID, "u1")
	assert.ElementsMatch(t, []string{"u1", "u2"}, idx.CollaboratorsByProject["p1"])
}

func TestIndexesExcludeDeleted(t *testing.T) {
	c := New()
	c.Projects = []types.Project{
		{ID: "p1", Name: "Work"},
		{ID: "p2", Name: "Gone", IsDeleted: true},
	}
	c.RebuildIndexes()

	assert.Contains(t, c.Indexes().ProjectsByID, "p1")
	assert.NotContains(t, c.Indexes().ProjectsByID, "p2")
	assert.NotContains(t, c.Indexes().ProjectsByNameCI, "gone")
}
