// internal/app/features/users/create.go
package users

import (
	"context"
	"net/http"

	"github.com/dalemusser/usersadmin/internal/app/system/inputval"
	"github.com/dalemusser/usersadmin/internal/app/system/jsonutil"
	"github.com/dalemusser/usersadmin/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleCreate handles POST /users.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in createUserInput
	if err := jsonutil.Decode(w, r, &in); err != nil {
		jsonutil.Error(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	in.Username = cleanUsername(in.Username)

	if res := inputval.Validate(in); res.HasErrors() {
		writeValidation(w, res)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Repo.Create(ctx, in.Username, in.Password)
	if err != nil {
		h.writeStoreError(w, r, "create", err)
		return
	}

	h.Log.Info("user created", zap.Int64("user_id", u.ID), zap.String("username", u.Username))
	h.AuditLog.UserCreated(r.Context(), r, u)

	jsonutil.Write(w, http.StatusCreated, u)
}
