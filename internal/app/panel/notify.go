package panel

import "context"

// Severity classifies a notification.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// Notifier shows one-shot messages to the user.
type Notifier interface {
	Notify(message string, severity Severity)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string, severity Severity)

// Notify calls f.
func (f NotifierFunc) Notify(message string, severity Severity) { f(message, severity) }

// Confirmer asks the user to approve a destructive action. A false result
// with a nil error means the user declined.
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// ConfirmerFunc adapts a function to Confirmer.
type ConfirmerFunc func(ctx context.Context, message string) (bool, error)

// Confirm calls f.
func (f ConfirmerFunc) Confirm(ctx context.Context, message string) (bool, error) {
	return f(ctx, message)
}

// Messages shown by the controllers.
const (
	MsgCreated       = "Usuario creado"
	MsgEdited        = "Usuario editado"
	MsgDeleted       = "Usuario eliminado"
	MsgStatusChanged = "Usuario modificado"

	ConfirmDelete       = "¿Estas seguro de eliminar?"
	ConfirmStatusChange = "¿Estas seguro de que quieres cambiar el estado?"
)
