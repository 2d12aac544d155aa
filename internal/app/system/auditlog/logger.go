// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/usersadmin/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Publisher delivers audit events to an external sink (e.g. a message broker).
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Config holds audit logging configuration.
type Config struct {
	// Mode controls where events go.
	// Values: "all" (publisher + zap), "publish" (publisher only), "log" (zap only), "off" (disabled)
	Mode string
}

// Logger provides convenience methods for logging audit events.
// It logs to structured logs (via zap) and, when configured, a Publisher.
type Logger struct {
	pub    Publisher
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger. pub may be nil.
func New(pub Publisher, zapLog *zap.Logger, config Config) *Logger {
	if config.Mode == "" {
		config.Mode = "all"
	}
	return &Logger{
		pub:    pub,
		zapLog: zapLog,
		config: config,
	}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

func (l *Logger) logToZap(event Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("event_id", event.ID),
		zap.String("event_type", event.Type),
		zap.Int64("user_id", event.UserID),
		zap.String("ip", event.IP),
	}
	if event.Username != "" {
		fields = append(fields, zap.String("username", event.Username))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}
	l.zapLog.Info("audit event", fields...)
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
func (l *Logger) Log(ctx context.Context, event Event) {
	if l == nil || l.config.Mode == "off" {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	if l.config.Mode == "all" || l.config.Mode == "log" {
		l.logToZap(event)
	}

	if (l.config.Mode == "all" || l.config.Mode == "publish") && l.pub != nil {
		if err := l.pub.Publish(ctx, event); err != nil {
			l.zapLog.Error("failed to publish audit event",
				zap.Error(err),
				zap.String("event_type", event.Type),
			)
		}
	}
}

func (l *Logger) userEvent(ctx context.Context, r *http.Request, typ string, u models.User, details map[string]string) {
	l.Log(ctx, Event{
		Type:      typ,
		UserID:    u.ID,
		Username:  u.Username,
		RequestID: r.Header.Get("X-Request-ID"),
		IP:        getClientIP(r),
		Details:   details,
	})
}

// UserCreated logs the creation of a user.
func (l *Logger) UserCreated(ctx context.Context, r *http.Request, u models.User) {
	l.userEvent(ctx, r, EventUserCreated, u, nil)
}

// UserUpdated logs an edit of a user's username and/or password.
func (l *Logger) UserUpdated(ctx context.Context, r *http.Request, u models.User, passwordChanged bool) {
	l.userEvent(ctx, r, EventUserUpdated, u, map[string]string{
		"password_changed": strconv.FormatBool(passwordChanged),
	})
}

// UserStatusChanged logs a status change.
func (l *Logger) UserStatusChanged(ctx context.Context, r *http.Request, u models.User) {
	l.userEvent(ctx, r, EventUserStatusChanged, u, map[string]string{
		"status": u.Status,
	})
}

// UserDeleted logs the deletion of a user.
func (l *Logger) UserDeleted(ctx context.Context, r *http.Request, id int64) {
	l.userEvent(ctx, r, EventUserDeleted, models.User{ID: id}, nil)
}
