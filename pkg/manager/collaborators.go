package manager

import (
	"fmt"
	"strings"

	"github.com/td-cli/td/pkg/types"
)

// CollaboratorNotFoundError means no collaborator on the project
// matched the query.
type CollaboratorNotFoundError struct {
	Query       string
	ProjectName string
}

func (e *CollaboratorNotFoundError) Error() string {
	return fmt.Sprintf("No collaborator matching '%s' in project '%s'", e.Query, e.ProjectName)
}

// ResolveCollaborator finds a collaborator on a project by name, email,
// or ID. The literal "me" (any case) resolves to the cached current
// user, provided they have an active state on the project. Match order
// for other inputs: exact ID, exact email, exact full name, then
// case-insensitive substring of the full name.
func (m *Manager) ResolveCollaborator(query, projectID string) (*types.Collaborator, error) {
	activeIDs := m.cache.Indexes().CollaboratorsByProject[projectID]
	active := make(map[string]bool, len(activeIDs))
	for _, id := range activeIDs {
		active[id] = true
	}

	if strings.EqualFold(query, "me") {
		user := m.cache.User
		if user == nil || !active[user.ID] {
			return nil, m.collaboratorNotFound(query, projectID)
		}
		if collab, ok := m.cache.Indexes().CollaboratorsByID[user.ID]; ok {
			return collab, nil
		}
		// The server may omit the current user from collaborators.
		return &types.Collaborator{ID: user.ID, Email: user.Email, FullName: user.FullName}, nil
	}

	var exact *types.Collaborator
	exactRank := 0
	var substring []*types.Collaborator
	for i := range m.cache.Collaborators {
		collab := &m.cache.Collaborators[i]
		if !active[collab.ID] {
			continue
		}
		rank := 0
		switch {
		case collab.ID == query:
			rank = 1
		case strings.EqualFold(collab.Email, query):
			rank = 2
		case strings.EqualFold(collab.FullName, query):
			rank = 3
		}
		if rank > 0 {
			if exact == nil || rank < exactRank {
				exact, exactRank = collab, rank
			}
			continue
		}
		if collab.FullName != "" &&
			strings.Contains(strings.ToLower(collab.FullName), strings.ToLower(query)) {
			substring = append(substring, collab)
		}
	}

	if exact != nil {
		return exact, nil
	}

	switch len(substring) {
	case 0:
		return nil, m.collaboratorNotFound(query, projectID)
	case 1:
		return substring[0], nil
	default:
		names := make([]string, 0, len(substring))
		for _, collab := range substring {
			names = append(names, collab.FullName)
		}
		return nil, &AmbiguousError{
			Message: fmt.Sprintf("Multiple collaborators match '%s': %s. Please be more specific.",
				query, strings.Join(names, ", ")),
		}
	}
}

// collaboratorNotFound names the project in the message; the raw ID is
// shown only when the project is not in the cache.
func (m *Manager) collaboratorNotFound(query, projectID string) *CollaboratorNotFoundError {
	name := projectID
	if project, ok := m.cache.Indexes().ProjectsByID[projectID]; ok {
		name = project.Name
	}
	return &CollaboratorNotFoundError{Query: query, ProjectName: name}
}

// IsSharedProject reports whether at least two collaborators (owner
// included) have an active state on the project.
func (m *Manager) IsSharedProject(projectID string) bool {
	return len(m.cache.Indexes().CollaboratorsByProject[projectID]) >= 2
}
