// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	healthfeature "github.com/dalemusser/usersadmin/internal/app/features/health"
	usersfeature "github.com/dalemusser/usersadmin/internal/app/features/users"
	"github.com/dalemusser/usersadmin/internal/app/system/auditlog"
	"github.com/dalemusser/usersadmin/internal/app/system/jsonutil"
	"github.com/dalemusser/usersadmin/internal/app/system/reqlog"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. The router tags and logs every request,
// recovers from handler panics, and mounts the health and users features.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	var pub auditlog.Publisher
	if deps.AuditPublisher != nil {
		pub = deps.AuditPublisher
	}
	audit := auditlog.New(pub, logger, auditlog.Config{Mode: appCfg.AuditMode})

	r := chi.NewRouter()
	r.Use(reqlog.Middleware(logger))
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		jsonutil.Error(w, http.StatusNotFound, "", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		jsonutil.Error(w, http.StatusMethodNotAllowed, "", nil)
	})

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.Users, appCfg.StoreType, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Users resource
	usersHandler := usersfeature.NewHandler(deps.Users, audit, appCfg.DefaultPageSize, appCfg.MaxPageSize, logger)
	usersHandler.Writes = deps.WriteLimiter
	r.Mount("/users", usersfeature.Routes(usersHandler))

	return r, nil
}
