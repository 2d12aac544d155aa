// internal/app/features/users/list.go
package users

import (
	"context"
	"net/http"

	userstore "github.com/dalemusser/usersadmin/internal/app/store/users"
	"github.com/dalemusser/usersadmin/internal/app/system/jsonutil"
	"github.com/dalemusser/usersadmin/internal/app/system/normalize"
	"github.com/dalemusser/usersadmin/internal/app/system/paging"
	"github.com/dalemusser/usersadmin/internal/app/system/timeouts"
	"github.com/dalemusser/usersadmin/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

// ServeList handles GET /users.
//
// Query parameters: page (1-based), limit, orderBy, orderDir, search, status.
// An absent status means no filter; anything other than active|inactive
// is rejected.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := userstore.ListQuery{
		Page:    paging.ParsePage(r),
		Limit:   paging.ParseLimit(r, h.DefaultLimit, h.MaxLimit),
		OrderBy: normalize.QueryParam(query.Get(r, "orderBy")),
		Search:  normalize.QueryParam(query.Get(r, "search")),
	}

	if !userstore.IsSortField(q.OrderBy) {
		jsonutil.Error(w, http.StatusBadRequest, "Invalid orderBy.", map[string]string{"orderBy": "Unknown sort field."})
		return
	}
	if raw := normalize.QueryParam(query.Get(r, "orderDir")); raw != "" {
		if q.OrderDir = normalize.SortDir(raw); q.OrderDir == "" {
			jsonutil.Error(w, http.StatusBadRequest, "Invalid orderDir.", map[string]string{"orderDir": "Must be asc or desc."})
			return
		}
	}
	if raw := query.Get(r, "status"); raw != "" {
		if q.Status = normalize.Status(raw); !models.IsValidStatus(q.Status) {
			jsonutil.Error(w, http.StatusBadRequest, "Invalid status.", map[string]string{"status": "Must be active or inactive."})
			return
		}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list users")
	defer cancel()

	rows, total, err := h.Repo.List(ctx, q)
	if err != nil {
		h.writeStoreError(w, r, "list", err)
		return
	}
	if rows == nil {
		rows = []models.User{}
	}

	jsonutil.Write(w, http.StatusOK, listResponse{Data: rows, Total: total})
}

// ServeGet handles GET /users/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		h.writeStoreError(w, r, "get", err)
		return
	}
	jsonutil.Write(w, http.StatusOK, u)
}
