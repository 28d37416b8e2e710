package api

import (
	"encoding/json"

	"github.com/td-cli/td/pkg/types"
)

// SyncResponse is the JSON body returned by the sync endpoint.
type SyncResponse struct {
	// SyncToken for subsequent incremental syncs.
	SyncToken string `json:"sync_token"`

	// FullSync reports whether the response replaces all state.
	FullSync bool `json:"full_sync,omitempty"`

	// FullSyncDateUTC is set only on full syncs.
	FullSyncDateUTC string `json:"full_sync_date_utc,omitempty"`

	Items              []types.Item              `json:"items,omitempty"`
	Projects           []types.Project           `json:"projects,omitempty"`
	Labels             []types.Label             `json:"labels,omitempty"`
	Sections           []types.Section           `json:"sections,omitempty"`
	Notes              []types.Note              `json:"notes,omitempty"`
	ProjectNotes       []types.ProjectNote       `json:"project_notes,omitempty"`
	Reminders          []types.Reminder          `json:"reminders,omitempty"`
	Filters            []types.Filter            `json:"filters,omitempty"`
	User               *types.User               `json:"user,omitempty"`
	Collaborators      []types.Collaborator      `json:"collaborators,omitempty"`
	CollaboratorStates []types.CollaboratorState `json:"collaborator_states,omitempty"`

	// SyncStatus maps command UUID to its result.
	SyncStatus map[string]CommandResult `json:"sync_status,omitempty"`

	// TempIDMapping maps client temp IDs to server-assigned real IDs.
	TempIDMapping map[string]string `json:"temp_id_mapping,omitempty"`
}

// HasErrors reports whether any command in the batch failed.
func (r *SyncResponse) HasErrors() bool {
	for _, result := range r.SyncStatus {
		if !result.OK() {
			return true
		}
	}
	return false
}

// Errors returns the failed commands keyed by UUID.
func (r *SyncResponse) Errors() map[string]*CommandError {
	errs := make(map[string]*CommandError)
	for cmdUUID, result := range r.SyncStatus {
		if e := result.Err(); e != nil {
			errs[cmdUUID] = e
		}
	}
	return errs
}

// RealID looks up the server-assigned ID for a temp ID.
func (r *SyncResponse) RealID(tempID string) (string, bool) {
	id, ok := r.TempIDMapping[tempID]
	return id, ok
}

// CommandResult is the per-command entry in sync_status: the literal
// string "ok" or an error object.
type CommandResult struct {
	status string
	err    *CommandError
}

// OK reports whether the command succeeded.
func (cr CommandResult) OK() bool {
	return cr.status == "ok"
}

// Err returns the failure details, or nil on success.
func (cr CommandResult) Err() *CommandError {
	return cr.err
}

// OKResult is a successful command result, for building fixtures.
func OKResult() CommandResult {
	return CommandResult{status: "ok"}
}

// ErrorResult builds a failed command result.
func ErrorResult(code int, message string) CommandResult {
	return CommandResult{err: &CommandError{ErrorCode: code, Error: message}}
}

// UnmarshalJSON decodes the "ok"-or-object union.
func (cr *CommandResult) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		cr.status = s
		cr.err = nil
		return nil
	}
	var cmdErr CommandError
	if err := json.Unmarshal(data, &cmdErr); err != nil {
		return err
	}
	cr.status = ""
	cr.err = &cmdErr
	return nil
}

// MarshalJSON encodes back to the wire union.
func (cr CommandResult) MarshalJSON() ([]byte, error) {
	if cr.err != nil {
		return json.Marshal(cr.err)
	}
	return json.Marshal(cr.status)
}

// CommandError is the failure payload for one command.
type CommandError struct {
	ErrorCode int    `json:"error_code"`
	Error     string `json:"error"`
}
