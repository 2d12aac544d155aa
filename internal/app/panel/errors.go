package panel

import "errors"

var (
	// ErrCancelled is returned when the user declines a confirmation.
	// Callers treat it as a silent no-op.
	ErrCancelled = errors.New("cancelled by user")

	// ErrSubmitInFlight is returned by Submit while an earlier submission
	// of the same session has not completed.
	ErrSubmitInFlight = errors.New("a submission is already in progress")

	// ErrSessionClosed is returned by Submit on a session that was
	// cancelled or already submitted successfully.
	ErrSessionClosed = errors.New("form session is closed")

	// ErrInvalid is returned by Submit when local validation fails. The
	// accompanying FormState carries the field errors.
	ErrInvalid = errors.New("form input is invalid")
)
