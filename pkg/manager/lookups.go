package manager

import (
	"context"
	"fmt"
	"strings"

	"github.com/td-cli/td/pkg/types"
)

// ResolveProject finds a project by exact ID or case-insensitive exact
// name. A cache miss triggers a sync and one retry; the final failure
// carries a fuzzy suggestion when a near name exists.
func (m *Manager) ResolveProject(ctx context.Context, nameOrID string) (*types.Project, error) {
	if p := m.findProject(nameOrID); p != nil {
		return p, nil
	}

	if err := m.Sync(ctx); err != nil {
		return nil, err
	}

	if p := m.findProject(nameOrID); p != nil {
		return p, nil
	}

	var names []string
	for i := range m.cache.Projects {
		if !m.cache.Projects[i].IsDeleted {
			names = append(names, m.cache.Projects[i].Name)
		}
	}
	return nil, &NotFoundError{
		Resource:   "Project",
		Identifier: nameOrID,
		Suggestion: findSimilarName(nameOrID, names),
	}
}

func (m *Manager) findProject(nameOrID string) *types.Project {
	idx := m.cache.Indexes()
	if p, ok := idx.ProjectsByID[nameOrID]; ok {
		return p
	}
	if p, ok := idx.ProjectsByNameCI[strings.ToLower(nameOrID)]; ok {
		return p
	}
	return nil
}

// ResolveSection finds a section by exact ID or case-insensitive exact
// name. ID matches ignore the optional project scope; name matches
// respect it when given.
func (m *Manager) ResolveSection(ctx context.Context, nameOrID, projectID string) (*types.Section, error) {
	if s := m.findSection(nameOrID, projectID); s != nil {
		return s, nil
	}

	if err := m.Sync(ctx); err != nil {
		return nil, err
	}

	if s := m.findSection(nameOrID, projectID); s != nil {
		return s, nil
	}

	var names []string
	for i := range m.cache.Sections {
		s := &m.cache.Sections[i]
		if s.IsDeleted {
			continue
		}
		if projectID != "" && s.ProjectID != projectID {
			continue
		}
		names = append(names, s.Name)
	}
	return nil, &NotFoundError{
		Resource:   "Section",
		Identifier: nameOrID,
		Suggestion: findSimilarName(nameOrID, names),
	}
}

func (m *Manager) findSection(nameOrID, projectID string) *types.Section {
	if s, ok := m.cache.Indexes().SectionsByID[nameOrID]; ok {
		return s
	}
	nameLower := strings.ToLower(nameOrID)
	for i := range m.cache.Sections {
		s := &m.cache.Sections[i]
		if s.IsDeleted {
			continue
		}
		if strings.ToLower(s.Name) != nameLower {
			continue
		}
		if projectID != "" && s.ProjectID != projectID {
			continue
		}
		return s
	}
	return nil
}

// ResolveLabel finds a label by exact ID or case-insensitive exact
// name, with the same sync-and-retry behavior as projects.
func (m *Manager) ResolveLabel(ctx context.Context, nameOrID string) (*types.Label, error) {
	if l := m.findLabel(nameOrID); l != nil {
		return l, nil
	}

	if err := m.Sync(ctx); err != nil {
		return nil, err
	}

	if l := m.findLabel(nameOrID); l != nil {
		return l, nil
	}

	var names []string
	for i := range m.cache.Labels {
		if !m.cache.Labels[i].IsDeleted {
			names = append(names, m.cache.Labels[i].Name)
		}
	}
	return nil, &NotFoundError{
		Resource:   "Label",
		Identifier: nameOrID,
		Suggestion: findSimilarName(nameOrID, names),
	}
}

func (m *Manager) findLabel(nameOrID string) *types.Label {
	idx := m.cache.Indexes()
	if l, ok := idx.LabelsByID[nameOrID]; ok {
		return l
	}
	if l, ok := idx.LabelsByNameCI[strings.ToLower(nameOrID)]; ok {
		return l
	}
	return nil
}

// ResolveItem finds a task by exact ID. Items never carry suggestions
// since task content is not unique.
func (m *Manager) ResolveItem(ctx context.Context, id string) (*types.Item, error) {
	if item, ok := m.cache.Indexes().ItemsByID[id]; ok {
		return item, nil
	}

	if err := m.Sync(ctx); err != nil {
		return nil, err
	}

	if item, ok := m.cache.Indexes().ItemsByID[id]; ok {
		return item, nil
	}
	return nil, &NotFoundError{Resource: "Item", Identifier: id}
}

// ResolveItemByPrefix finds a task by exact ID or unique ID prefix.
// requireChecked, when non-nil, restricts matches to completed (true)
// or open (false) tasks. An ambiguous prefix returns an error listing
// up to five candidates.
func (m *Manager) ResolveItemByPrefix(ctx context.Context, idOrPrefix string, requireChecked *bool) (*types.Item, error) {
	item, err := m.findItemByPrefix(idOrPrefix, requireChecked)
	if err != nil {
		return nil, err
	}
	if item != nil {
		return item, nil
	}

	if err := m.Sync(ctx); err != nil {
		return nil, err
	}

	item, err = m.findItemByPrefix(idOrPrefix, requireChecked)
	if err != nil {
		return nil, err
	}
	if item != nil {
		return item, nil
	}
	return nil, &NotFoundError{Resource: "Item", Identifier: idOrPrefix}
}

// findItemByPrefix returns (nil, nil) when nothing matches, the single
// match, or an AmbiguousError for multiple matches.
func (m *Manager) findItemByPrefix(idOrPrefix string, requireChecked *bool) (*types.Item, error) {
	checkedOK := func(item *types.Item) bool {
		return requireChecked == nil || item.Checked == *requireChecked
	}

	// Exact match wins outright.
	if item, ok := m.cache.Indexes().ItemsByID[idOrPrefix]; ok && checkedOK(item) {
		return item, nil
	}

	var matches []*types.Item
	for i := range m.cache.Items {
		item := &m.cache.Items[i]
		if item.IsDeleted || !strings.HasPrefix(item.ID, idOrPrefix) || !checkedOK(item) {
			continue
		}
		matches = append(matches, item)
	}

	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	default:
		var b strings.Builder
		fmt.Fprintf(&b, "Ambiguous task ID %q\n\nMultiple tasks match this prefix:", idOrPrefix)
		for i, item := range matches {
			if i == 5 {
				break
			}
			prefix := item.ID
			if len(prefix) > 6 {
				prefix = prefix[:6]
			}
			fmt.Fprintf(&b, "\n  %s  %s", prefix, item.Content)
		}
		if len(matches) > 5 {
			fmt.Fprintf(&b, "\n  ... and %d more", len(matches)-5)
		}
		b.WriteString("\n\nPlease use a longer prefix.")
		return nil, &AmbiguousError{Message: b.String()}
	}
}
