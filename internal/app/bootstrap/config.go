// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/usersadmin/internal/app/system/paging"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the users API.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: store_type, mongo_uri, etc.
//   - Environment variables: USERSADMIN_STORE_TYPE, USERSADMIN_MONGO_URI, etc.
//   - Command-line flags: --store_type, --mongo_uri, etc.
var appConfigKeys = []config.AppKey{
	{Name: "store_type", Default: StoreMongo, Desc: "User store backend: 'mongo' or 'sqlite'"},

	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "usersadmin", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size (default: 5)"},

	{Name: "sqlite_path", Default: "usersadmin.db", Desc: "SQLite database file (store_type=sqlite)"},

	{Name: "default_page_size", Default: paging.DefaultLimit, Desc: "Rows returned by GET /users when no limit is given"},
	{Name: "max_page_size", Default: paging.MaxLimit, Desc: "Largest limit GET /users accepts"},

	// Audit events
	{Name: "audit_mode", Default: "all", Desc: "Audit events: 'all' (broker+log), 'publish', 'log', or 'off'"},
	{Name: "audit_amqp_url", Default: "", Desc: "AMQP URL for publishing audit events (blank disables publishing)"},
	{Name: "audit_amqp_exchange", Default: "usersadmin.audit", Desc: "AMQP topic exchange for audit events"},

	// Write rate limiting
	{Name: "write_rate_limit", Default: 60, Desc: "Max user writes per client per window (0 disables)"},
	{Name: "write_rate_window", Default: "1m", Desc: "Window for write_rate_limit (e.g., 1m)"},

	// Timeouts
	{Name: "timeout_ping", Default: "", Desc: "Health check timeout (e.g., 2s)"},
	{Name: "timeout_short", Default: "", Desc: "Single-record operation timeout (e.g., 5s)"},
	{Name: "timeout_medium", Default: "", Desc: "List query timeout (e.g., 10s)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges .env files, config files,
// environment variables (WAFFLE_* for core, USERSADMIN_* for app) and
// command-line flags with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "USERSADMIN", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		StoreType: appValues.String("store_type"),

		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SQLitePath: appValues.String("sqlite_path"),

		DefaultPageSize: appValues.Int("default_page_size"),
		MaxPageSize:     appValues.Int("max_page_size"),

		AuditMode:         appValues.String("audit_mode"),
		AuditAMQPURL:      appValues.String("audit_amqp_url"),
		AuditAMQPExchange: appValues.String("audit_amqp_exchange"),

		WriteRateLimit:  appValues.Int("write_rate_limit"),
		WriteRateWindow: appValues.Duration("write_rate_window", time.Minute),

		TimeoutPing:   appValues.Duration("timeout_ping", 0),
		TimeoutShort:  appValues.Duration("timeout_short", 0),
		TimeoutMedium: appValues.Duration("timeout_medium", 0),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	switch appCfg.StoreType {
	case StoreMongo:
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
		if appCfg.MongoDatabase == "" {
			return fmt.Errorf("mongo_database must be set when store_type is %q", StoreMongo)
		}
	case StoreSQLite:
		if appCfg.SQLitePath == "" {
			return fmt.Errorf("sqlite_path must be set when store_type is %q", StoreSQLite)
		}
	default:
		return fmt.Errorf("store_type must be %q or %q, got %q", StoreMongo, StoreSQLite, appCfg.StoreType)
	}

	if appCfg.DefaultPageSize < 1 {
		return fmt.Errorf("default_page_size must be positive, got %d", appCfg.DefaultPageSize)
	}
	if appCfg.MaxPageSize < appCfg.DefaultPageSize {
		return fmt.Errorf("max_page_size (%d) must be at least default_page_size (%d)", appCfg.MaxPageSize, appCfg.DefaultPageSize)
	}

	if appCfg.WriteRateLimit < 0 {
		return fmt.Errorf("write_rate_limit must not be negative, got %d", appCfg.WriteRateLimit)
	}
	if appCfg.WriteRateLimit > 0 && appCfg.WriteRateWindow <= 0 {
		return fmt.Errorf("write_rate_window must be positive when write_rate_limit is set")
	}

	switch appCfg.AuditMode {
	case "all", "publish", "log", "off":
	default:
		return fmt.Errorf("audit_mode must be all|publish|log|off, got %q", appCfg.AuditMode)
	}
	if appCfg.AuditMode == "publish" && appCfg.AuditAMQPURL == "" {
		logger.Warn("audit_mode is 'publish' but audit_amqp_url is blank; audit events will be dropped")
	}

	return nil
}
