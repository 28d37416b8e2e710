package cache

import (
	"time"

	"github.com/td-cli/td/pkg/api"
	"github.com/td-cli/td/pkg/types"
)

// Cache mirrors the remote account state. The sync manager owns the
// only live instance; the store serializes it to disk. Indexes are
// derived and never persisted.
type Cache struct {
	// SyncToken is the server's opaque progress marker. "*" means the
	// cache has never been fully synced.
	SyncToken string `json:"sync_token"`

	// FullSyncDateUTC is set only by a full sync.
	FullSyncDateUTC string `json:"full_sync_date_utc,omitempty"`

	// LastSync is the time of the most recent successful merge.
	LastSync *time.Time `json:"last_sync,omitempty"`

	Items              []types.Item              `json:"items"`
	Projects           []types.Project           `json:"projects"`
	Sections           []types.Section           `json:"sections"`
	Labels             []types.Label             `json:"labels"`
	Notes              []types.Note              `json:"notes"`
	ProjectNotes       []types.ProjectNote       `json:"project_notes"`
	Reminders          []types.Reminder          `json:"reminders"`
	Filters            []types.Filter            `json:"filters"`
	Collaborators      []types.Collaborator      `json:"collaborators"`
	CollaboratorStates []types.CollaboratorState `json:"collaborator_states"`
	User               *types.User               `json:"user,omitempty"`

	indexes Indexes
}

// New returns an empty cache that needs a full sync.
func New() *Cache {
	c := &Cache{SyncToken: api.FullSyncToken}
	c.RebuildIndexes()
	return c
}

// IsEmpty reports whether no entities are cached.
func (c *Cache) IsEmpty() bool {
	return len(c.Items) == 0 && len(c.Projects) == 0 && len(c.Sections) == 0 &&
		len(c.Labels) == 0 && len(c.Notes) == 0 && len(c.ProjectNotes) == 0 &&
		len(c.Reminders) == 0 && len(c.Filters) == 0 &&
		len(c.Collaborators) == 0 && len(c.CollaboratorStates) == 0 &&
		c.User == nil
}

// NeedsFullSync reports whether the cache has never been fully synced.
func (c *Cache) NeedsFullSync() bool {
	return c.SyncToken == api.FullSyncToken
}

// Indexes returns the derived lookup tables.
func (c *Cache) Indexes() *Indexes {
	return &c.indexes
}

// replaceAll swaps dst for the active entries of src.
func replaceAll[T any](dst *[]T, src []T, deleted func(*T) bool) {
	out := make([]T, 0, len(src))
	for i := range src {
		if !deleted(&src[i]) {
			out = append(out, src[i])
		}
	}
	*dst = out
}

// upsert merges src into dst by primary key: deleted records are
// removed, existing ones updated in place, new ones appended.
func upsert[T any](dst *[]T, src []T, key func(*T) string, deleted func(*T) bool) {
	for i := range src {
		rec := src[i]
		k := key(&rec)
		pos := -1
		for j := range *dst {
			if key(&(*dst)[j]) == k {
				pos = j
				break
			}
		}
		switch {
		case deleted(&rec):
			if pos >= 0 {
				*dst = append((*dst)[:pos], (*dst)[pos+1:]...)
			}
		case pos >= 0:
			(*dst)[pos] = rec
		default:
			*dst = append(*dst, rec)
		}
	}
}

func itemDeleted(i *types.Item) bool                { return i.IsDeleted }
func projectDeleted(p *types.Project) bool          { return p.IsDeleted }
func sectionDeleted(s *types.Section) bool          { return s.IsDeleted }
func labelDeleted(l *types.Label) bool              { return l.IsDeleted }
func noteDeleted(n *types.Note) bool                { return n.IsDeleted }
func projectNoteDeleted(n *types.ProjectNote) bool  { return n.IsDeleted }
func reminderDeleted(r *types.Reminder) bool        { return r.IsDeleted }
func filterDeleted(f *types.Filter) bool            { return f.IsDeleted }
func collaboratorDeleted(_ *types.Collaborator) bool { return false }
func stateDeleted(cs *types.CollaboratorState) bool {
	return cs.State == types.CollaboratorDeleted
}

func itemKey(i *types.Item) string               { return i.ID }
func projectKey(p *types.Project) string         { return p.ID }
func sectionKey(s *types.Section) string         { return s.ID }
func labelKey(l *types.Label) string             { return l.ID }
func noteKey(n *types.Note) string               { return n.ID }
func projectNoteKey(n *types.ProjectNote) string { return n.ID }
func reminderKey(r *types.Reminder) string       { return r.ID }
func filterKey(f *types.Filter) string           { return f.ID }
func collaboratorKey(c *types.Collaborator) string { return c.ID }
func stateKey(cs *types.CollaboratorState) string {
	return cs.ProjectID + "/" + cs.UserID
}

// ApplySyncResponse dispatches to the full or incremental merge based
// on the response's full_sync flag.
func (c *Cache) ApplySyncResponse(r *api.SyncResponse) {
	if r.FullSync {
		c.ApplyFullSyncResponse(r)
	} else {
		c.ApplyIncrementalSyncResponse(r)
	}
}

// ApplyFullSyncResponse replaces every tracked resource with the
// response's contents, dropping records flagged deleted.
func (c *Cache) ApplyFullSyncResponse(r *api.SyncResponse) {
	replaceAll(&c.Items, r.Items, itemDeleted)
	replaceAll(&c.Projects, r.Projects, projectDeleted)
	replaceAll(&c.Sections, r.Sections, sectionDeleted)
	replaceAll(&c.Labels, r.Labels, labelDeleted)
	replaceAll(&c.Notes, r.Notes, noteDeleted)
	replaceAll(&c.ProjectNotes, r.ProjectNotes, projectNoteDeleted)
	replaceAll(&c.Reminders, r.Reminders, reminderDeleted)
	replaceAll(&c.Filters, r.Filters, filterDeleted)
	replaceAll(&c.Collaborators, r.Collaborators, collaboratorDeleted)
	replaceAll(&c.CollaboratorStates, r.CollaboratorStates, stateDeleted)

	c.SyncToken = r.SyncToken
	if r.FullSyncDateUTC != "" {
		c.FullSyncDateUTC = r.FullSyncDateUTC
	}
	if r.User != nil {
		c.User = r.User
	}
	c.touch()
	c.RebuildIndexes()
}

// ApplyIncrementalSyncResponse merges a delta: deleted records are
// removed, others upserted. full_sync_date_utc is left alone.
func (c *Cache) ApplyIncrementalSyncResponse(r *api.SyncResponse) {
	c.applyDelta(r)
}

// ApplyMutationResponse merges the response from a command batch. The
// algorithm matches the incremental merge; full_sync_date_utc is never
// updated even when the server sets full_sync.
func (c *Cache) ApplyMutationResponse(r *api.SyncResponse) {
	c.applyDelta(r)
}

func (c *Cache) applyDelta(r *api.SyncResponse) {
	upsert(&c.Items, r.Items, itemKey, itemDeleted)
	upsert(&c.Projects, r.Projects, projectKey, projectDeleted)
	upsert(&c.Sections, r.Sections, sectionKey, sectionDeleted)
	upsert(&c.Labels, r.Labels, labelKey, labelDeleted)
	upsert(&c.Notes, r.Notes, noteKey, noteDeleted)
	upsert(&c.ProjectNotes, r.ProjectNotes, projectNoteKey, projectNoteDeleted)
	upsert(&c.Reminders, r.Reminders, reminderKey, reminderDeleted)
	upsert(&c.Filters, r.Filters, filterKey, filterDeleted)
	upsert(&c.Collaborators, r.Collaborators, collaboratorKey, collaboratorDeleted)
	upsert(&c.CollaboratorStates, r.CollaboratorStates, stateKey, stateDeleted)

	c.SyncToken = r.SyncToken
	if r.User != nil {
		c.User = r.User
	}
	c.touch()
	c.RebuildIndexes()
}

func (c *Cache) touch() {
	now := time.Now().UTC()
	c.LastSync = &now
}
