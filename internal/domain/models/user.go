// internal/domain/models/user.go
package models

import "time"

// User is an account managed from the users admin panel.
//
// NOTE:
//   - ID is a positive integer assigned by the store and never changes.
//   - PasswordHash is a bcrypt hash and is never serialised to JSON.
type User struct {
	ID           int64     `bson:"_id" json:"id" db:"id"`
	Username     string    `bson:"username" json:"username" db:"username"`
	UsernameCI   string    `bson:"username_ci" json:"-" db:"username_ci"` // folded for case-insensitive uniqueness
	PasswordHash string    `bson:"password_hash" json:"-" db:"password_hash"`
	Status       string    `bson:"status" json:"status" db:"status"` // active | inactive

	CreatedAt time.Time `bson:"created_at" json:"created_at" db:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the user's status is active.
func (u User) IsActive() bool {
	return u.Status == StatusActive
}

// UserSortFields lists the fields a user list may be ordered by.
var UserSortFields = []string{"id", "username", "status", "created_at"}
