package domain

import "time"

// EventKind определяет тип изменения записи сотрудника
type EventKind string

// Типы событий реестра
const (
	EventCreated     EventKind = "created"
	EventBulkEdited  EventKind = "bulk_edited"
	EventTagsChanged EventKind = "tags_changed"
	EventTagDeleted  EventKind = "tag_deleted"
	EventSaved       EventKind = "saved"
)

// EmployeeEvent описывает изменение одной записи сотрудника
type EmployeeEvent struct {
	EventID    string         `json:"event_id"`
	Kind       EventKind      `json:"kind"`
	EmployeeID string         `json:"employee_id"`
	Status     EmployeeStatus `json:"status"`
	TeamID     string         `json:"team_id"`
	Tags       []string       `json:"tags"`
	ChangedBy  string         `json:"changed_by"`
	OccurredAt time.Time      `json:"occurred_at"`
}
