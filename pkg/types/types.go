package types

import "time"

// DueDateLayout is the wire format for date-only due dates.
const DueDateLayout = "2006-01-02"

// Due describes when a task is due.
type Due struct {
	// Date in YYYY-MM-DD format (always present).
	Date string `json:"date"`

	// Full datetime in RFC3339 format, set when a time component exists.
	Datetime string `json:"datetime,omitempty"`

	// Whether the due date recurs.
	IsRecurring bool `json:"is_recurring,omitempty"`

	// Human-readable representation (e.g. "every day").
	String string `json:"string,omitempty"`

	// Timezone for the due datetime.
	Timezone string `json:"timezone,omitempty"`

	// Language used for parsing the date string.
	Lang string `json:"lang,omitempty"`
}

// DueDate parses the date-only component. Returns the zero time and
// false if the date does not parse.
func (d *Due) DueDate() (time.Time, bool) {
	if d == nil {
		return time.Time{}, false
	}
	t, err := time.Parse(DueDateLayout, d.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Deadline is a hard deadline, separate from the due date.
type Deadline struct {
	Date string `json:"date"`
	Lang string `json:"lang,omitempty"`
}

// DurationUnit is the unit for a task duration.
type DurationUnit string

const (
	DurationMinute DurationUnit = "minute"
	DurationDay    DurationUnit = "day"
)

// Duration is the estimated time to complete a task.
type Duration struct {
	Amount int          `json:"amount"`
	Unit   DurationUnit `json:"unit"`
}

// Item is a task ("item" on the wire).
type Item struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id,omitempty"`
	ProjectID   string    `json:"project_id"`
	Content     string    `json:"content"`
	Description string    `json:"description,omitempty"`
	Priority    int       `json:"priority,omitempty"`
	Due         *Due      `json:"due,omitempty"`
	Deadline    *Deadline `json:"deadline,omitempty"`
	ParentID    string    `json:"parent_id,omitempty"`
	ChildOrder  int       `json:"child_order,omitempty"`
	SectionID   string    `json:"section_id,omitempty"`
	DayOrder    int       `json:"day_order,omitempty"`
	IsCollapsed bool      `json:"is_collapsed,omitempty"`

	// Label names (not IDs).
	Labels []string `json:"labels,omitempty"`

	AddedByUID     string `json:"added_by_uid,omitempty"`
	AssignedByUID  string `json:"assigned_by_uid,omitempty"`
	ResponsibleUID string `json:"responsible_uid,omitempty"`

	Checked   bool `json:"checked,omitempty"`
	IsDeleted bool `json:"is_deleted,omitempty"`

	AddedAt     string `json:"added_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
	CompletedAt string `json:"completed_at,omitempty"`

	Duration *Duration `json:"duration,omitempty"`
}

// HasDueDate reports whether the task has a due date set.
func (i *Item) HasDueDate() bool {
	return i.Due != nil
}

// IsSubtask reports whether the task has a parent.
func (i *Item) IsSubtask() bool {
	return i.ParentID != ""
}

// IsRecurring reports whether the task's due date recurs.
func (i *Item) IsRecurring() bool {
	return i.Due != nil && i.Due.IsRecurring
}

// IsHighPriority reports whether the task is priority 3 or 4
// (server-level, where 4 is the most urgent).
func (i *Item) IsHighPriority() bool {
	return i.Priority >= 3
}

// Project groups tasks.
type Project struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Color          string `json:"color,omitempty"`
	ParentID       string `json:"parent_id,omitempty"`
	ChildOrder     int    `json:"child_order,omitempty"`
	IsCollapsed    bool   `json:"is_collapsed,omitempty"`
	Shared         bool   `json:"shared,omitempty"`
	CanAssignTasks bool   `json:"can_assign_tasks,omitempty"`
	IsDeleted      bool   `json:"is_deleted,omitempty"`
	IsArchived     bool   `json:"is_archived,omitempty"`
	IsFavorite     bool   `json:"is_favorite,omitempty"`
	ViewStyle      string `json:"view_style,omitempty"`
	InboxProject   bool   `json:"inbox_project,omitempty"`
	FolderID       string `json:"folder_id,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
	UpdatedAt      string `json:"updated_at,omitempty"`
}

// Section subdivides a project.
type Section struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ProjectID    string `json:"project_id"`
	SectionOrder int    `json:"section_order,omitempty"`
	IsCollapsed  bool   `json:"is_collapsed,omitempty"`
	IsDeleted    bool   `json:"is_deleted,omitempty"`
	IsArchived   bool   `json:"is_archived,omitempty"`
	ArchivedAt   string `json:"archived_at,omitempty"`
	AddedAt      string `json:"added_at,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty"`
}

// Label is a personal label.
type Label struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color,omitempty"`
	ItemOrder  int    `json:"item_order,omitempty"`
	IsDeleted  bool   `json:"is_deleted,omitempty"`
	IsFavorite bool   `json:"is_favorite,omitempty"`
}

// FileAttachment is attachment metadata on a note.
type FileAttachment struct {
	ResourceType string `json:"resource_type,omitempty"`
	FileName     string `json:"file_name,omitempty"`
	FileSize     int64  `json:"file_size,omitempty"`
	FileType     string `json:"file_type,omitempty"`
	FileURL      string `json:"file_url,omitempty"`
	UploadState  string `json:"upload_state,omitempty"`
}

// Note is a task comment.
type Note struct {
	ID             string          `json:"id"`
	ItemID         string          `json:"item_id"`
	Content        string          `json:"content"`
	PostedAt       string          `json:"posted_at,omitempty"`
	IsDeleted      bool            `json:"is_deleted,omitempty"`
	PostedUID      string          `json:"posted_uid,omitempty"`
	FileAttachment *FileAttachment `json:"file_attachment,omitempty"`
}

// ProjectNote is a project comment.
type ProjectNote struct {
	ID             string          `json:"id"`
	ProjectID      string          `json:"project_id"`
	Content        string          `json:"content"`
	PostedAt       string          `json:"posted_at,omitempty"`
	IsDeleted      bool            `json:"is_deleted,omitempty"`
	PostedUID      string          `json:"posted_uid,omitempty"`
	FileAttachment *FileAttachment `json:"file_attachment,omitempty"`
}

// ReminderType distinguishes the reminder kinds.
type ReminderType string

const (
	ReminderRelative ReminderType = "relative"
	ReminderAbsolute ReminderType = "absolute"
	ReminderLocation ReminderType = "location"
)

// LocationTrigger fires a location reminder on entering or leaving.
type LocationTrigger string

const (
	TriggerOnEnter LocationTrigger = "on_enter"
	TriggerOnLeave LocationTrigger = "on_leave"
)

// Reminder notifies about a task.
type Reminder struct {
	ID           string          `json:"id"`
	ItemID       string          `json:"item_id"`
	Type         ReminderType    `json:"type"`
	Due          *Due            `json:"due,omitempty"`
	MinuteOffset int             `json:"minute_offset,omitempty"`
	IsDeleted    bool            `json:"is_deleted,omitempty"`
	NotifyUID    string          `json:"notify_uid,omitempty"`
	Name         string          `json:"name,omitempty"`
	LocLat       string          `json:"loc_lat,omitempty"`
	LocLong      string          `json:"loc_long,omitempty"`
	LocTrigger   LocationTrigger `json:"loc_trigger,omitempty"`
	Radius       int             `json:"radius,omitempty"`
}

// Filter is a saved filter query.
type Filter struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Query      string `json:"query"`
	Color      string `json:"color,omitempty"`
	ItemOrder  int    `json:"item_order,omitempty"`
	IsDeleted  bool   `json:"is_deleted,omitempty"`
	IsFavorite bool   `json:"is_favorite,omitempty"`
}

// Collaborator is a user on a shared project.
type Collaborator struct {
	ID       string `json:"id"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Timezone string `json:"timezone,omitempty"`
	ImageID  string `json:"image_id,omitempty"`
}

// Collaborator state values.
const (
	CollaboratorActive  = "active"
	CollaboratorInvited = "invited"
	CollaboratorDeleted = "deleted"
)

// CollaboratorState ties a collaborator to a project.
type CollaboratorState struct {
	ProjectID string `json:"project_id"`
	UserID    string `json:"user_id"`
	State     string `json:"state"`
}

// IsActive reports whether the state is not deleted.
func (cs *CollaboratorState) IsActive() bool {
	return cs.State != CollaboratorDeleted
}
