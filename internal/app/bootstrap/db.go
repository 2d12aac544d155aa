// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	userstore "github.com/dalemusser/usersadmin/internal/app/store/users"
	"github.com/dalemusser/usersadmin/internal/app/system/auditlog"
	"github.com/dalemusser/usersadmin/internal/app/system/indexes"
	"github.com/dalemusser/usersadmin/internal/app/system/ratelimit"
	"github.com/dalemusser/usersadmin/internal/app/system/timeouts"
	"github.com/dalemusser/usersadmin/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB opens the configured user store and, when audit_amqp_url is
// set, the audit broker connection.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	var deps DBDeps

	switch appCfg.StoreType {
	case StoreSQLite:
		store, err := userstore.OpenSQLite(appCfg.SQLitePath)
		if err != nil {
			logger.Error("sqlite open failed", zap.String("path", appCfg.SQLitePath), zap.Error(err))
			return DBDeps{}, err
		}
		logger.Info("connected to SQLite", zap.String("path", appCfg.SQLitePath))
		deps.SQLite = store
		deps.Users = store

	default:
		opts := options.Client().
			ApplyURI(appCfg.MongoURI).
			SetMaxPoolSize(appCfg.MongoMaxPoolSize).
			SetMinPoolSize(appCfg.MongoMinPoolSize)

		client, err := mongo.Connect(ctx, opts)
		if err != nil {
			logger.Error("mongo connect failed", zap.Error(err))
			return DBDeps{}, err
		}

		pingCtx, cancel := context.WithTimeout(ctx, timeouts.Medium())
		defer cancel()
		if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
			_ = client.Disconnect(context.Background())
			logger.Error("mongo ping failed", zap.Error(err))
			return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
		}

		db := client.Database(appCfg.MongoDatabase)
		logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))
		deps.MongoClient = client
		deps.MongoDatabase = db
		deps.Users = userstore.New(db)
	}

	if appCfg.AuditAMQPURL != "" && appCfg.AuditMode != "off" && appCfg.AuditMode != "log" {
		pub, err := auditlog.DialAMQP(appCfg.AuditAMQPURL, appCfg.AuditAMQPExchange)
		if err != nil {
			// The API can run without the broker; events still reach the log.
			logger.Warn("audit broker unavailable; publishing disabled", zap.Error(err))
		} else {
			logger.Info("audit events publishing", zap.String("exchange", appCfg.AuditAMQPExchange))
			deps.AuditPublisher = pub
		}
	}

	if appCfg.WriteRateLimit > 0 {
		deps.WriteLimiter = ratelimit.New(appCfg.WriteRateLimit, appCfg.WriteRateWindow)
	}

	return deps, nil
}

// EnsureSchema creates the MongoDB collections, their validator and the
// indexes. The SQLite schema is applied when the store is opened.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.MongoDatabase == nil {
		return nil
	}
	if err := validators.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("ensure validators failed", zap.Error(err))
		return err
	}
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("ensure indexes failed", zap.Error(err))
		return err
	}
	return nil
}
