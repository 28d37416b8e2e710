package api

import (
	"encoding/json"
	"net/url"

	"github.com/google/uuid"
)

// CommandType identifies a mutation in the sync protocol. Values are
// the snake_case strings the wire expects.
type CommandType string

const (
	ItemAdd                 CommandType = "item_add"
	ItemUpdate              CommandType = "item_update"
	ItemMove                CommandType = "item_move"
	ItemDelete              CommandType = "item_delete"
	ItemClose               CommandType = "item_close"
	ItemComplete            CommandType = "item_complete"
	ItemUncomplete          CommandType = "item_uncomplete"
	ItemArchive             CommandType = "item_archive"
	ItemUnarchive           CommandType = "item_unarchive"
	ItemReorder             CommandType = "item_reorder"
	ItemUpdateDayOrders     CommandType = "item_update_day_orders"
	ItemUpdateDateCompleted CommandType = "item_update_date_completed"

	ProjectAdd       CommandType = "project_add"
	ProjectUpdate    CommandType = "project_update"
	ProjectMove      CommandType = "project_move"
	ProjectDelete    CommandType = "project_delete"
	ProjectArchive   CommandType = "project_archive"
	ProjectUnarchive CommandType = "project_unarchive"
	ProjectReorder   CommandType = "project_reorder"

	SectionAdd       CommandType = "section_add"
	SectionUpdate    CommandType = "section_update"
	SectionMove      CommandType = "section_move"
	SectionDelete    CommandType = "section_delete"
	SectionArchive   CommandType = "section_archive"
	SectionUnarchive CommandType = "section_unarchive"
	SectionReorder   CommandType = "section_reorder"

	LabelAdd          CommandType = "label_add"
	LabelUpdate       CommandType = "label_update"
	LabelDelete       CommandType = "label_delete"
	LabelUpdateOrders CommandType = "label_update_orders"

	NoteAdd    CommandType = "note_add"
	NoteUpdate CommandType = "note_update"
	NoteDelete CommandType = "note_delete"

	ProjectNoteAdd    CommandType = "project_note_add"
	ProjectNoteUpdate CommandType = "project_note_update"
	ProjectNoteDelete CommandType = "project_note_delete"

	ReminderAdd    CommandType = "reminder_add"
	ReminderUpdate CommandType = "reminder_update"
	ReminderDelete CommandType = "reminder_delete"

	FilterAdd          CommandType = "filter_add"
	FilterUpdate       CommandType = "filter_update"
	FilterDelete       CommandType = "filter_delete"
	FilterUpdateOrders CommandType = "filter_update_orders"
)

// Command is one mutation in a sync batch. The UUID lets the server
// deduplicate retried batches; TempID names a created resource so later
// commands in the same batch can reference it.
type Command struct {
	Type   CommandType    `json:"type"`
	UUID   string         `json:"uuid"`
	TempID string         `json:"temp_id,omitempty"`
	Args   map[string]any `json:"args"`
}

// NewCommand builds a command with a fresh v4 UUID.
func NewCommand(cmdType CommandType, args map[string]any) Command {
	return Command{
		Type: cmdType,
		UUID: uuid.NewString(),
		Args: args,
	}
}

// NewCommandWithTempID builds a create command whose result later
// commands in the batch can reference by tempID.
func NewCommandWithTempID(cmdType CommandType, tempID string, args map[string]any) Command {
	cmd := NewCommand(cmdType, args)
	cmd.TempID = tempID
	return cmd
}

// NewCommandWithUUIDAndTempID builds a command with explicit
// identifiers, for deterministic tests and idempotent retries.
func NewCommandWithUUIDAndTempID(cmdType CommandType, cmdUUID, tempID string, args map[string]any) Command {
	return Command{
		Type:   cmdType,
		UUID:   cmdUUID,
		TempID: tempID,
		Args:   args,
	}
}

// idArgs is the single-field payload shared by the convenience builders.
func idArgs(id string) map[string]any {
	return map[string]any{"id": id}
}

// Convenience builders for high-traffic operations.

func ItemCloseCommand(id string) Command      { return NewCommand(ItemClose, idArgs(id)) }
func ItemUncompleteCommand(id string) Command { return NewCommand(ItemUncomplete, idArgs(id)) }
func ItemDeleteCommand(id string) Command     { return NewCommand(ItemDelete, idArgs(id)) }

func ProjectDeleteCommand(id string) Command    { return NewCommand(ProjectDelete, idArgs(id)) }
func ProjectArchiveCommand(id string) Command   { return NewCommand(ProjectArchive, idArgs(id)) }
func ProjectUnarchiveCommand(id string) Command { return NewCommand(ProjectUnarchive, idArgs(id)) }

func SectionDeleteCommand(id string) Command    { return NewCommand(SectionDelete, idArgs(id)) }
func SectionArchiveCommand(id string) Command   { return NewCommand(SectionArchive, idArgs(id)) }
func SectionUnarchiveCommand(id string) Command { return NewCommand(SectionUnarchive, idArgs(id)) }

func LabelDeleteCommand(id string) Command       { return NewCommand(LabelDelete, idArgs(id)) }
func NoteDeleteCommand(id string) Command        { return NewCommand(NoteDelete, idArgs(id)) }
func ProjectNoteDeleteCommand(id string) Command { return NewCommand(ProjectNoteDelete, idArgs(id)) }
func ReminderDeleteCommand(id string) Command    { return NewCommand(ReminderDelete, idArgs(id)) }
func FilterDeleteCommand(id string) Command      { return NewCommand(FilterDelete, idArgs(id)) }

// FullSyncToken requests a full sync.
const FullSyncToken = "*"

// SyncRequest is the form-encoded body for the sync endpoint.
type SyncRequest struct {
	// SyncToken is "*" for a full sync, or a previously issued token.
	SyncToken string

	// ResourceTypes to fetch; ["all"] requests everything.
	ResourceTypes []string

	// Commands to execute.
	Commands []Command
}

// FullSync builds a request for all resources from scratch.
func FullSync() SyncRequest {
	return SyncRequest{
		SyncToken:     FullSyncToken,
		ResourceTypes: []string{"all"},
	}
}

// Incremental builds a delta request from a stored sync token.
func Incremental(syncToken string) SyncRequest {
	return SyncRequest{
		SyncToken:     syncToken,
		ResourceTypes: []string{"all"},
	}
}

// WithCommands builds a write-only request.
func WithCommands(commands []Command) SyncRequest {
	return SyncRequest{
		SyncToken: FullSyncToken,
		Commands:  commands,
	}
}

// WithResourceTypes replaces the resource types and returns the request.
func (r SyncRequest) WithResourceTypes(types ...string) SyncRequest {
	r.ResourceTypes = types
	return r
}

// AddCommands appends commands and returns the request.
func (r SyncRequest) AddCommands(commands ...Command) SyncRequest {
	r.Commands = append(r.Commands, commands...)
	return r
}

// FormBody encodes the request as application/x-www-form-urlencoded.
// resource_types and commands are JSON-encoded strings, omitted when
// their lists are empty.
func (r SyncRequest) FormBody() string {
	form := url.Values{}
	form.Set("sync_token", r.SyncToken)
	if len(r.ResourceTypes) > 0 {
		encoded, _ := json.Marshal(r.ResourceTypes)
		form.Set("resource_types", string(encoded))
	}
	if len(r.Commands) > 0 {
		encoded, _ := json.Marshal(r.Commands)
		form.Set("commands", string(encoded))
	}
	return form.Encode()
}
