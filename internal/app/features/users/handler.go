// internal/app/features/users/handler.go
package users

import (
	userstore "github.com/dalemusser/usersadmin/internal/app/store/users"
	"github.com/dalemusser/usersadmin/internal/app/system/auditlog"
	"github.com/dalemusser/usersadmin/internal/app/system/paging"
	"github.com/dalemusser/usersadmin/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// Handler serves the /users REST resource.
type Handler struct {
	Repo     userstore.Repository
	Log      *zap.Logger
	AuditLog *auditlog.Logger

	DefaultLimit int
	MaxLimit     int

	// Writes limits POST/PUT/PATCH/DELETE per client. Nil disables it.
	Writes *ratelimit.Limiter
}

// NewHandler constructs a users Handler over repo. audit may be nil.
// Non-positive page sizes fall back to the paging defaults.
func NewHandler(repo userstore.Repository, audit *auditlog.Logger, defaultLimit, maxLimit int, logger *zap.Logger) *Handler {
	if defaultLimit < 1 {
		defaultLimit = paging.DefaultLimit
	}
	if maxLimit < 1 {
		maxLimit = paging.MaxLimit
	}
	return &Handler{
		Repo:         repo,
		Log:          logger,
		AuditLog:     audit,
		DefaultLimit: defaultLimit,
		MaxLimit:     maxLimit,
	}
}
