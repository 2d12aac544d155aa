package panel

import (
	"context"

	"github.com/dalemusser/usersadmin/internal/app/client/userapi"
	"github.com/dalemusser/usersadmin/internal/domain/models"
)

// API is the subset of the users API the controllers call.
// *userapi.Client satisfies it.
type API interface {
	List(ctx context.Context, p userapi.ListParams) (userapi.ListResult, error)
	Create(ctx context.Context, in userapi.UserInput) (models.User, error)
	Update(ctx context.Context, id int64, in userapi.UserInput) (models.User, error)
	SetStatus(ctx context.Context, id int64, status string) (models.User, error)
	Delete(ctx context.Context, id int64) error
}

var _ API = (*userapi.Client)(nil)
