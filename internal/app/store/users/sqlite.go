package userstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/usersadmin/internal/app/system/normalize"
	"github.com/dalemusser/usersadmin/internal/app/system/paging"
	"github.com/dalemusser/usersadmin/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

// SQLiteStore is the SQLite-backed user repository, used for single-node
// deployments and tests.
type SQLiteStore struct {
	db *sqlx.DB
}

var _ Repository = (*SQLiteStore)(nil)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL,
	username_ci TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'active',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_users_status ON users(status);
CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at);
`

const userColumns = "id, username, username_ci, password_hash, status, created_at, updated_at"

// OpenSQLite opens (or creates) the database at path and applies the schema.
// Use ":memory:" for a throwaway database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to user database: %w", err)
	}
	// One connection: SQLite serialises writers anyway, and an in-memory
	// database exists per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate user database: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique
}

func sqliteSortColumn(f string) string {
	switch f {
	case "username":
		return "username_ci"
	case "status", "created_at":
		return f
	default:
		return "id"
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// List returns one page of users matching q and the total match count.
func (s *SQLiteStore) List(ctx context.Context, q ListQuery) ([]models.User, int64, error) {
	var (
		where []string
		args  []any
	)
	if q.Status != "" {
		where = append(where, "status = ?")
		args = append(args, q.Status)
	}
	if q.Search != "" {
		where = append(where, `username_ci LIKE ? ESCAPE '\'`)
		args = append(args, "%"+likeEscaper.Replace(text.Fold(q.Search))+"%")
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM users"+clause, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	dir := "ASC"
	if normalize.SortDir(q.OrderDir) == "desc" {
		dir = "DESC"
	}
	col := sqliteSortColumn(q.OrderBy)
	order := col + " " + dir
	if col != "id" {
		order += ", id " + dir
	}

	limit := q.Limit
	if limit < 1 {
		limit = 10
	}
	page := q.Page
	if page < 1 {
		page = 1
	}

	query := "SELECT " + userColumns + " FROM users" + clause + " ORDER BY " + order + " LIMIT ? OFFSET ?"
	pageArgs := append(append([]any{}, args...), limit, paging.Skip(page, limit))

	users := []models.User{}
	if err := s.db.SelectContext(ctx, &users, query, pageArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// GetByID loads a user by id.
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return u, nil
}

// Create inserts a new active user with a bcrypt-hashed password.
func (s *SQLiteStore) Create(ctx context.Context, username, password string) (models.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	u := models.User{
		Username:     normalize.Username(username),
		PasswordHash: hash,
		Status:       models.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	u.UsernameCI = text.Fold(u.Username)

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, username_ci, password_hash, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.Username, u.UsernameCI, u.PasswordHash, u.Status, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrDuplicateUsername
		}
		return models.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, fmt.Errorf("failed to get last insert id: %w", err)
	}
	u.ID = id
	return u, nil
}

func (s *SQLiteStore) exec(ctx context.Context, id int64, query string, args ...any) (models.User, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrDuplicateUsername
		}
		return models.User{}, fmt.Errorf("failed to update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.User{}, err
	}
	if n == 0 {
		return models.User{}, ErrNotFound
	}
	return s.GetByID(ctx, id)
}

// Update changes the username and, when upd.Password is set, the password.
func (s *SQLiteStore) Update(ctx context.Context, id int64, upd Update) (models.User, error) {
	name := normalize.Username(upd.Username)
	setParts := []string{"username = ?", "username_ci = ?"}
	args := []any{name, text.Fold(name)}

	if upd.Password != "" {
		hash, err := HashPassword(upd.Password)
		if err != nil {
			return models.User{}, fmt.Errorf("failed to hash password: %w", err)
		}
		setParts = append(setParts, "password_hash = ?")
		args = append(args, hash)
	}

	setParts = append(setParts, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)

	return s.exec(ctx, id, "UPDATE users SET "+strings.Join(setParts, ", ")+" WHERE id = ?", args...)
}

// SetStatus sets the status of a user.
func (s *SQLiteStore) SetStatus(ctx context.Context, id int64, status string) (models.User, error) {
	if !models.IsValidStatus(status) {
		return models.User{}, errBadStatus
	}
	return s.exec(ctx, id, "UPDATE users SET status = ?, updated_at = ? WHERE id = ?", status, time.Now().UTC(), id)
}

// Delete removes a user by id.
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping verifies the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
