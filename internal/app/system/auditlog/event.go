// internal/app/system/auditlog/event.go
package auditlog

import "time"

// Event types for user administration.
const (
	EventUserCreated       = "user.created"
	EventUserUpdated       = "user.updated"
	EventUserStatusChanged = "user.status_changed"
	EventUserDeleted       = "user.deleted"
)

// Event is one audited admin action.
type Event struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	UserID    int64             `json:"user_id"`
	Username  string            `json:"username,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	IP        string            `json:"ip,omitempty"`
	At        time.Time         `json:"at"`
	Details   map[string]string `json:"details,omitempty"`
}
