// internal/app/features/users/edit.go
package users

import (
	"context"
	"net/http"

	userstore "github.com/dalemusser/usersadmin/internal/app/store/users"
	"github.com/dalemusser/usersadmin/internal/app/system/inputval"
	"github.com/dalemusser/usersadmin/internal/app/system/jsonutil"
	"github.com/dalemusser/usersadmin/internal/app/system/normalize"
	"github.com/dalemusser/usersadmin/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleUpdate handles PUT /users/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var in updateUserInput
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

	u, err := h.Repo.Update(ctx, id, userstore.Update{Username: in.Username, Password: in.Password})
	if err != nil {
		h.writeStoreError(w, r, "update", err)
		return
	}

	h.Log.Info("user updated", zap.Int64("user_id", u.ID), zap.String("username", u.Username))
	h.AuditLog.UserUpdated(r.Context(), r, u, in.Password != "")

	jsonutil.Write(w, http.StatusOK, u)
}

// HandleStatus handles PATCH /users/{id}.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var in statusInput
	if err := jsonutil.Decode(w, r, &in); err != nil {
		jsonutil.Error(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	in.Status = normalize.Status(in.Status)

	if res := inputval.Validate(in); res.HasErrors() {
		writeValidation(w, res)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Repo.SetStatus(ctx, id, in.Status)
	if err != nil {
		h.writeStoreError(w, r, "set status", err)
		return
	}

	h.Log.Info("user status changed", zap.Int64("user_id", u.ID), zap.String("status", u.Status))
	h.AuditLog.UserStatusChanged(r.Context(), r, u)

	jsonutil.Write(w, http.StatusOK, u)
}
