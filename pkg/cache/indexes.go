package cache

import (
	"strings"

	"github.com/td-cli/td/pkg/types"
)

// Indexes are the secondary lookup tables derived from the primary
// entity slices. They are rebuilt after every load and merge, never
// serialized, and point into the cache's own slices.
type Indexes struct {
	ItemsByID        map[string]*types.Item
	ProjectsByID     map[string]*types.Project
	ProjectsByNameCI map[string]*types.Project
	SectionsByID     map[string]*types.Section
	LabelsByID       map[string]*types.Label
	LabelsByNameCI   map[string]*types.Label

	CollaboratorsByID map[string]*types.Collaborator

	// CollaboratorsByProject maps project ID to the user IDs with a
	// non-deleted state on that project.
	CollaboratorsByProject map[string][]string
}

// RebuildIndexes recomputes every secondary index from the primary
// tables. Deleted entities are excluded.
func (c *Cache) RebuildIndexes() {
	idx := Indexes{
		ItemsByID:              make(map[string]*types.Item, len(c.Items)),
		ProjectsByID:           make(map[string]*types.Project, len(c.Projects)),
		ProjectsByNameCI:       make(map[string]*types.Project, len(c.Projects)),
		SectionsByID:           make(map[string]*types.Section, len(c.Sections)),
		LabelsByID:             make(map[string]*types.Label, len(c.Labels)),
		LabelsByNameCI:         make(map[string]*types.Label, len(c.Labels)),
		CollaboratorsByID:      make(map[string]*types.Collaborator, len(c.Collaborators)),
		CollaboratorsByProject: make(map[string][]string),
	}

	for i := range c.Items {
		item := &c.Items[i]
		if item.IsDeleted {
			continue
		}
		idx.ItemsByID[item.ID] = item
	}

	for i := range c.Projects {
		project := &c.Projects[i]
		if project.IsDeleted {
			continue
		}
		idx.ProjectsByID[project.ID] = project
		idx.ProjectsByNameCI[strings.ToLower(project.Name)] = project
	}

	for i := range c.Sections {
		section := &c.Sections[i]
		if section.IsDeleted {
			continue
		}
		idx.SectionsByID[section.ID] = section
	}

	for i := range c.Labels {
		label := &c.Labels[i]
		if label.IsDeleted {
			continue
		}
		idx.LabelsByID[label.ID] = label
		idx.LabelsByNameCI[strings.ToLower(label.Name)] = label
	}

	for i := range c.Collaborators {
		collab := &c.Collaborators[i]
		idx.CollaboratorsByID[collab.ID] = collab
	}

	for i := range c.CollaboratorStates {
		state := &c.CollaboratorStates[i]
		if !state.IsActive() {
			continue
		}
		idx.CollaboratorsByProject[state.ProjectID] =
			append(idx.CollaboratorsByProject[state.ProjectID], state.UserID)
	}

	c.indexes = idx
}
