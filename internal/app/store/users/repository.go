package userstore

import (
	"context"
	"errors"

	"github.com/dalemusser/usersadmin/internal/domain/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrNotFound is returned when no user has the requested id.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateUsername is returned when another user already holds the username.
	ErrDuplicateUsername = errors.New("a user with this username already exists")
	errBadStatus         = errors.New(`status must be "active"|"inactive"`)
)

// ListQuery describes one page of the users list.
type ListQuery struct {
	Page     int    // 1-based
	Limit    int    // rows per page
	OrderBy  string // id | username | status | created_at; blank means id
	OrderDir string // asc | desc; blank means asc
	Search   string // case-insensitive substring of username
	Status   string // active | inactive; blank means any
}

// Update holds the editable fields of a user. A blank Password leaves the
// stored hash unchanged.
type Update struct {
	Username string
	Password string
}

// Repository is the persistence contract the users feature depends on.
// Store (MongoDB) and SQLiteStore both satisfy it.
type Repository interface {
	List(ctx context.Context, q ListQuery) ([]models.User, int64, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
	Create(ctx context.Context, username, password string) (models.User, error)
	Update(ctx context.Context, id int64, upd Update) (models.User, error)
	SetStatus(ctx context.Context, id int64, status string) (models.User, error)
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}

// SortFields lists the accepted OrderBy values.
var SortFields = models.UserSortFields

// IsSortField reports whether f is an accepted OrderBy value (blank included).
func IsSortField(f string) bool {
	if f == "" {
		return true
	}
	for _, s := range SortFields {
		if s == f {
			return true
		}
	}
	return false
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether password matches the bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
