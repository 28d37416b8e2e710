package api

import (
	"strings"

	"github.com/td-cli/td/pkg/types"
)

// QuickAddRequest creates a task from natural-language text. The text
// supports the service's quick-add notation: #Project, @label, p1..p4,
// and date words like "tomorrow" or "at 3pm".
type QuickAddRequest struct {
	Text string `json:"text"`

	// Note attaches a comment to the created task.
	Note string `json:"note,omitempty"`

	// Reminder is a natural-language date for a task reminder.
	Reminder string `json:"reminder,omitempty"`

	// AutoReminder adds the default reminder when the task gets a due
	// time.
	AutoReminder *bool `json:"auto_reminder,omitempty"`
}

// Validate rejects empty or whitespace-only text before any request is
// made.
func (r QuickAddRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return NewValidationError("text", "task text cannot be empty")
	}
	return nil
}

// QuickAddResponse combines the created task with parse metadata. The
// response carries both legacy and v2 identifiers.
type QuickAddResponse struct {
	ID          string `json:"id"`
	V2ID        string `json:"v2_id,omitempty"`
	ProjectID   string `json:"project_id"`
	V2ProjectID string `json:"v2_project_id,omitempty"`

	Content     string     `json:"content"`
	Description string     `json:"description,omitempty"`
	Priority    int        `json:"priority,omitempty"`
	Due         *types.Due `json:"due,omitempty"`
	SectionID   string     `json:"section_id,omitempty"`
	ParentID    string     `json:"parent_id,omitempty"`
	ChildOrder  int        `json:"child_order,omitempty"`
	Labels      []string   `json:"labels,omitempty"`

	AddedByUID     string `json:"added_by_uid,omitempty"`
	AssignedByUID  string `json:"assigned_by_uid,omitempty"`
	ResponsibleUID string `json:"responsible_uid,omitempty"`

	Checked bool   `json:"checked,omitempty"`
	AddedAt string `json:"added_at,omitempty"`

	// ResolvedProjectName is the human-readable project the text parsed
	// into.
	ResolvedProjectName string `json:"resolved_project_name,omitempty"`
}

// TaskID returns the v2 ID when present, falling back to the legacy ID.
func (r *QuickAddResponse) TaskID() string {
	if r.V2ID != "" {
		return r.V2ID
	}
	return r.ID
}

// TaskProjectID returns the v2 project ID when present.
func (r *QuickAddResponse) TaskProjectID() string {
	if r.V2ProjectID != "" {
		return r.V2ProjectID
	}
	return r.ProjectID
}

// ToItem converts the response into an Item suitable for cache
// insertion. Most callers rely on the next sync instead.
func (r *QuickAddResponse) ToItem() types.Item {
	return types.Item{
		ID:             r.TaskID(),
		ProjectID:      r.TaskProjectID(),
		Content:        r.Content,
		Description:    r.Description,
		Priority:       r.Priority,
		Due:            r.Due,
		SectionID:      r.SectionID,
		ParentID:       r.ParentID,
		ChildOrder:     r.ChildOrder,
		Labels:         r.Labels,
		AddedByUID:     r.AddedByUID,
		AssignedByUID:  r.AssignedByUID,
		ResponsibleUID: r.ResponsibleUID,
		Checked:        r.Checked,
		AddedAt:        r.AddedAt,
	}
}
