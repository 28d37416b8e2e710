// Package types defines the entity model shared by the API client and
// the local cache: items, projects, sections, labels, notes, reminders,
// filters, users, collaborators, and the due/deadline/duration value
// types. Field names follow the wire format of the remote service.
package types
