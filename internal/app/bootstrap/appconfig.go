// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// Store backends accepted by store_type.
const (
	StoreMongo  = "mongo"
	StoreSQLite = "sqlite"
)

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables (USERSADMIN_*),
// configuration files, or command-line flags (loaded in LoadConfig).
// WAFFLE's CoreConfig covers the framework-level settings such as ports,
// TLS, log level and CORS; everything here is specific to the users API.
type AppConfig struct {
	// Which user store backs the API: "mongo" or "sqlite".
	StoreType string

	// MongoDB connection configuration (store_type=mongo)
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// SQLite file (store_type=sqlite). ":memory:" keeps everything in RAM.
	SQLitePath string

	// GET /users page sizes
	DefaultPageSize int
	MaxPageSize     int

	// Audit events: mode is all|publish|log|off. Publishing is enabled only
	// when AuditAMQPURL is set.
	AuditMode         string
	AuditAMQPURL      string
	AuditAMQPExchange string

	// Per-client limit on user writes; zero disables limiting.
	WriteRateLimit  int
	WriteRateWindow time.Duration

	// Timeout overrides; zero keeps the defaults in system/timeouts.
	TimeoutPing   time.Duration
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
}
