// internal/app/features/users/delete.go
package users

import (
	"context"
	"net/http"

	"github.com/dalemusser/usersadmin/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleDelete handles DELETE /users/{id}. Success is 204 with no body.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Repo.Delete(ctx, id); err != nil {
		h.writeStoreError(w, r, "delete", err)
		return
	}

	h.Log.Info("user deleted", zap.Int64("user_id", id))
	h.AuditLog.UserDeleted(r.Context(), r, id)

	w.WriteHeader(http.StatusNoContent)
}
