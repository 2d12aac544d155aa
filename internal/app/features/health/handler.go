package health

import (
	"context"
	"net/http"

	"github.com/dalemusser/usersadmin/internal/app/system/jsonutil"
	"github.com/dalemusser/usersadmin/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Pinger is the part of a user store the health check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	Store     Pinger
	StoreType string
	Log       *zap.Logger
}

// NewHandler constructs a health Handler for the configured store.
func NewHandler(store Pinger, storeType string, logger *zap.Logger) *Handler {
	return &Handler{
		Store:     store,
		StoreType: storeType,
		Log:       logger,
	}
}

type healthResponse struct {
	Status   string `json:"status"`
	Store    string `json:"store"`
	Database string `json:"database"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "store":"mongo", "database":"connected" }
//
// On store failure: 503 and
//
//	{ "status":"error", "store":"mongo", "database":"disconnected", "message":"Database unavailable", "error":"…" }
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	resp := healthResponse{
		Status:   "ok",
		Store:    h.StoreType,
		Database: "connected",
	}

	if err := h.Store.Ping(ctx); err != nil {
		h.Log.Error("health-check: store ping failed", zap.String("store", h.StoreType), zap.Error(err))
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
		jsonutil.Write(w, http.StatusServiceUnavailable, resp)
		return
	}

	jsonutil.Write(w, http.StatusOK, resp)
}
