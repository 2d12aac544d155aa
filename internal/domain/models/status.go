// internal/domain/models/status.go
package models

// User status values.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// AllStatuses lists the status values a user record may hold.
var AllStatuses = []string{StatusActive, StatusInactive}

// IsValidStatus reports whether s is a stored user status.
func IsValidStatus(s string) bool {
	return s == StatusActive || s == StatusInactive
}

// ToggleStatus returns the opposite status. Unknown values become active.
func ToggleStatus(s string) string {
	if s == StatusActive {
		return StatusInactive
	}
	return StatusActive
}
