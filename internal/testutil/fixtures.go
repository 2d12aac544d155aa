package testutil

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	userstore "github.com/dalemusser/usersadmin/internal/app/store/users"
	"github.com/dalemusser/usersadmin/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	repo userstore.Repository
	t    *testing.T
}

// NewFixtures creates a new Fixtures instance over the given repository.
func NewFixtures(t *testing.T, repo userstore.Repository) *Fixtures {
	t.Helper()
	return &Fixtures{repo: repo, t: t}
}

// Repo returns the underlying repository for direct access in tests.
func (f *Fixtures) Repo() userstore.Repository {
	return f.repo
}

// CreateUser creates an active user with password "secret".
func (f *Fixtures) CreateUser(ctx context.Context, username string) models.User {
	f.t.Helper()

	u, err := f.repo.Create(ctx, username, "secret")
	if err != nil {
		f.t.Fatalf("failed to create test user %q: %v", username, err)
	}
	return u
}

// CreateInactiveUser creates a user and sets it inactive.
func (f *Fixtures) CreateInactiveUser(ctx context.Context, username string) models.User {
	f.t.Helper()

	u := f.CreateUser(ctx, username)
	u, err := f.repo.SetStatus(ctx, u.ID, models.StatusInactive)
	if err != nil {
		f.t.Fatalf("failed to deactivate test user %q: %v", username, err)
	}
	return u
}

// CreateUsers creates n active users named prefix01, prefix02, ...
func (f *Fixtures) CreateUsers(ctx context.Context, prefix string, n int) []models.User {
	f.t.Helper()

	out := make([]models.User, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, f.CreateUser(ctx, fmt.Sprintf("%s%02d", prefix, i)))
	}
	return out
}
