// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	userstore "github.com/dalemusser/usersadmin/internal/app/store/users"
	"github.com/dalemusser/usersadmin/internal/app/system/auditlog"
	"github.com/dalemusser/usersadmin/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
// Exactly one of the Mongo or SQLite backends is set, per store_type;
// Users is the repository built over it.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
	SQLite        *userstore.SQLiteStore

	Users userstore.Repository

	// AuditPublisher is nil unless audit_amqp_url is configured.
	AuditPublisher *auditlog.AMQPPublisher

	// WriteLimiter is nil when write_rate_limit is 0. Shutdown stops it.
	WriteLimiter *ratelimit.Limiter
}
