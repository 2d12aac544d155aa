// internal/app/features/users/helpers.go
package users

import (
	"errors"
	"net/http"
	"strconv"

	userstore "github.com/dalemusser/usersadmin/internal/app/store/users"
	"github.com/dalemusser/usersadmin/internal/app/system/htmlsanitize"
	"github.com/dalemusser/usersadmin/internal/app/system/inputval"
	"github.com/dalemusser/usersadmin/internal/app/system/jsonutil"
	"github.com/dalemusser/usersadmin/internal/app/system/normalize"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgDuplicateUsername = "Username is already taken."
	msgPasswordTooLong   = "Password must be at most 72 bytes."
)

// parseID reads the {id} URL parameter. It writes a 400 and returns false
// when the value is not a positive integer.
func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		jsonutil.Error(w, http.StatusBadRequest, "Invalid user ID.", nil)
		return 0, false
	}
	return id, true
}

// cleanUsername strips markup and collapses whitespace.
func cleanUsername(s string) string {
	return normalize.Username(htmlsanitize.PlainText(s))
}

// writeValidation writes a 400 carrying every field error.
func writeValidation(w http.ResponseWriter, res *inputval.Result) {
	jsonutil.Error(w, http.StatusBadRequest, res.First(), res.ByField())
}

// writeStoreError maps repository errors to responses.
func (h *Handler) writeStoreError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		jsonutil.Error(w, http.StatusNotFound, "User not found.", nil)
	case errors.Is(err, userstore.ErrDuplicateUsername):
		jsonutil.Error(w, http.StatusConflict, msgDuplicateUsername, map[string]string{"username": msgDuplicateUsername})
	case errors.Is(err, bcrypt.ErrPasswordTooLong):
		jsonutil.Error(w, http.StatusBadRequest, msgPasswordTooLong, map[string]string{"password": msgPasswordTooLong})
	default:
		h.Log.Error("users: "+op+" failed",
			zap.Error(err),
			zap.String("request_id", r.Header.Get("X-Request-ID")))
		jsonutil.Error(w, http.StatusInternalServerError, "Internal server error.", nil)
	}
}
