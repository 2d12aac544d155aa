package panel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dalemusser/usersadmin/internal/app/client/userapi"
	"github.com/dalemusser/usersadmin/internal/app/system/inputval"
	"github.com/dalemusser/usersadmin/internal/domain/models"
	"go.uber.org/zap"
)

// Form field names, shared with the API payload.
const (
	FieldUsername        = "username"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
)

// FormInput is what the user typed into the dialog.
type FormInput struct {
	Username        string `json:"username" validate:"required" label:"Username"`
	Password        string `json:"password" validate:"required" label:"Password"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password" label:"Confirm password"`
}

// FormInputFromMap extracts the three fields from raw form values.
func FormInputFromMap(raw map[string]string) FormInput {
	return FormInput{
		Username:        raw[FieldUsername],
		Password:        raw[FieldPassword],
		ConfirmPassword: raw[FieldConfirmPassword],
	}
}

func (in FormInput) values() map[string]string {
	return map[string]string{
		FieldUsername:        in.Username,
		FieldPassword:        in.Password,
		FieldConfirmPassword: in.ConfirmPassword,
	}
}

// FormState is the outcome of the last failed submission. The zero value
// means nothing has been submitted in this session yet.
type FormState struct {
	SubmittedValues map[string]string
	FieldErrors     map[string]string
	TopLevelError   string
}

// Submitted reports whether the state holds a failed attempt.
func (s FormState) Submitted() bool { return s.SubmittedValues != nil }

func (s FormState) clone() FormState {
	out := FormState{TopLevelError: s.TopLevelError}
	if s.SubmittedValues != nil {
		out.SubmittedValues = make(map[string]string, len(s.SubmittedValues))
		for k, v := range s.SubmittedValues {
			out.SubmittedValues[k] = v
		}
	}
	if s.FieldErrors != nil {
		out.FieldErrors = make(map[string]string, len(s.FieldErrors))
		for k, v := range s.FieldErrors {
			out.FieldErrors[k] = v
		}
	}
	return out
}

// FormSession is one open/close cycle of the dialog. A new session is
// created by every OpenForCreate or OpenForEdit call and is never reused.
type FormSession struct {
	target *models.User

	mu      sync.Mutex
	state   FormState
	pending bool
	closed  bool
}

// Target returns the record being edited; ok is false in create mode.
func (s *FormSession) Target() (u models.User, ok bool) {
	if s.target == nil {
		return models.User{}, false
	}
	return *s.target, true
}

// IsCreate reports whether the session creates a new user.
func (s *FormSession) IsCreate() bool { return s.target == nil }

// Title is the dialog heading.
func (s *FormSession) Title() string {
	if s.IsCreate() {
		return "Nuevo usuario"
	}
	return "Editar usuario"
}

// SubmitLabel is the caption of the submit action.
func (s *FormSession) SubmitLabel() string {
	if s.IsCreate() {
		return "Crear"
	}
	return "Actualizar"
}

// State returns a copy of the current form state.
func (s *FormSession) State() FormState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Pending reports whether a submission is in flight. Inputs should be
// disabled while it is true.
func (s *FormSession) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Closed reports whether the session was cancelled or completed.
func (s *FormSession) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// FieldValue is the value to prefill for field: what the user typed in the
// last failed attempt, otherwise the target's username (never a password).
func (s *FormSession) FieldValue(field string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Submitted() {
		return s.state.SubmittedValues[field]
	}
	if field == FieldUsername && s.target != nil {
		return s.target.Username
	}
	return ""
}

// FieldError returns the message attached to field, if any.
func (s *FormSession) FieldError(field string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.FieldErrors[field]
}

// RecordFormController drives the create/edit dialog and the row actions
// (delete and status toggle).
type RecordFormController struct {
	api     API
	list    Refresher
	notify  Notifier
	confirm Confirmer
	log     *zap.Logger
	timeout time.Duration

	mu      sync.Mutex
	session *FormSession
}

// FormOption configures a RecordFormController.
type FormOption func(*RecordFormController)

// WithFormLogger sets the logger.
func WithFormLogger(log *zap.Logger) FormOption {
	return func(c *RecordFormController) { c.log = log }
}

// WithMutationTimeout bounds each create, update, delete or status call.
// Zero means the caller's context alone applies.
func WithMutationTimeout(d time.Duration) FormOption {
	return func(c *RecordFormController) { c.timeout = d }
}

// NewRecordFormController wires the controller to the API, the list it
// refreshes after each successful mutation, and the user-facing capabilities.
func NewRecordFormController(api API, list Refresher, notifier Notifier, confirmer Confirmer, opts ...FormOption) *RecordFormController {
	c := &RecordFormController{
		api:     api,
		list:    list,
		notify:  notifier,
		confirm: confirmer,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OpenForCreate opens a fresh session in create mode, closing any open one.
func (c *RecordFormController) OpenForCreate() *FormSession {
	return c.open(nil)
}

// OpenForEdit opens a fresh session editing rec, closing any open one.
func (c *RecordFormController) OpenForEdit(rec models.User) *FormSession {
	return c.open(&rec)
}

func (c *RecordFormController) open(target *models.User) *FormSession {
	s := &FormSession{target: target}
	c.mu.Lock()
	prev := c.session
	c.session = s
	c.mu.Unlock()
	if prev != nil {
		prev.close()
	}
	return s
}

// Session returns the open session, or nil when the dialog is closed.
func (c *RecordFormController) Session() *FormSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Cancel closes the open session and discards its state. A submission
// still in flight completes but no longer affects the session.
func (c *RecordFormController) Cancel() {
	c.mu.Lock()
	s := c.session
	c.session = nil
	c.mu.Unlock()
	if s != nil {
		s.close()
	}
}

func (s *FormSession) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// finish closes s and detaches it from the controller if it is still the
// open session.
func (c *RecordFormController) finish(s *FormSession) {
	c.mu.Lock()
	if c.session == s {
		c.session = nil
	}
	c.mu.Unlock()
	s.close()
}

func (c *RecordFormController) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}

// Submit validates in and, if it passes, creates or updates the user.
//
// On success the list is refreshed, the session closes, a success
// notification is shown and the returned state is empty. On a validation
// failure nothing is sent; the returned state and the session carry the
// field errors and ErrInvalid is returned. On a server failure the error
// is shown as a notification, the session keeps the typed values, and the
// API error is returned.
func (c *RecordFormController) Submit(ctx context.Context, s *FormSession, in FormInput) (FormState, error) {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return FormState{}, ErrSessionClosed
	case s.pending:
		s.mu.Unlock()
		return s.State(), ErrSubmitInFlight
	}

	if res := inputval.Validate(in); res.HasErrors() {
		s.state = FormState{
			SubmittedValues: in.values(),
			FieldErrors:     res.ByField(),
			TopLevelError:   res.First(),
		}
		st := s.state.clone()
		s.mu.Unlock()
		c.notify.Notify(st.TopLevelError, SeverityError)
		return st, ErrInvalid
	}
	s.pending = true
	s.mu.Unlock()

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	payload := userapi.UserInput{
		Username:        in.Username,
		Password:        in.Password,
		ConfirmPassword: in.ConfirmPassword,
	}
	var (
		saved   models.User
		err     error
		success string
	)
	if target, editing := s.Target(); editing {
		saved, err = c.api.Update(ctx, target.ID, payload)
		success = MsgEdited
	} else {
		saved, err = c.api.Create(ctx, payload)
		success = MsgCreated
	}

	s.mu.Lock()
	s.pending = false
	closed := s.closed
	if err != nil {
		st := FormState{
			SubmittedValues: in.values(),
			TopLevelError:   userapi.ErrorMessage(err),
		}
		var apiErr *userapi.APIError
		if errors.As(err, &apiErr) && len(apiErr.FieldErrors) > 0 {
			st.FieldErrors = make(map[string]string, len(apiErr.FieldErrors))
			for k, v := range apiErr.FieldErrors {
				st.FieldErrors[k] = v
			}
		}
		if !closed {
			s.state = st
		}
		s.mu.Unlock()

		c.log.Warn("user save failed", zap.Bool("create", s.IsCreate()), zap.Error(err))
		c.notify.Notify(st.TopLevelError, SeverityError)
		return st.clone(), err
	}
	s.mu.Unlock()

	c.log.Info("user saved", zap.Int64("user_id", saved.ID), zap.Bool("create", s.IsCreate()))
	c.list.Refresh()
	if !closed {
		c.finish(s)
	}
	c.notify.Notify(success, SeveritySuccess)
	return FormState{}, nil
}

// Delete asks for confirmation and deletes the user. A declined
// confirmation returns ErrCancelled without calling the API or notifying.
func (c *RecordFormController) Delete(ctx context.Context, id int64) error {
	return c.confirmed(ctx, ConfirmDelete, func(ctx context.Context) error {
		return c.api.Delete(ctx, id)
	}, MsgDeleted, zap.Int64("user_id", id))
}

// ToggleStatus asks for confirmation and sets the user's status.
func (c *RecordFormController) ToggleStatus(ctx context.Context, id int64, status string) error {
	if !models.IsValidStatus(status) {
		return fmt.Errorf("status must be %q or %q, got %q", models.StatusActive, models.StatusInactive, status)
	}
	return c.confirmed(ctx, ConfirmStatusChange, func(ctx context.Context) error {
		_, err := c.api.SetStatus(ctx, id, status)
		return err
	}, MsgStatusChanged, zap.Int64("user_id", id), zap.String("status", status))
}

// ToggleRecord flips rec between active and inactive.
func (c *RecordFormController) ToggleRecord(ctx context.Context, rec models.User) error {
	return c.ToggleStatus(ctx, rec.ID, models.ToggleStatus(rec.Status))
}

// confirmed runs the confirm, mutate, refresh, notify sequence shared by
// the row actions.
func (c *RecordFormController) confirmed(ctx context.Context, question string, mutate func(context.Context) error, success string, fields ...zap.Field) error {
	ok, err := c.confirm.Confirm(ctx, question)
	if err != nil {
		return fmt.Errorf("confirmation: %w", err)
	}
	if !ok {
		return ErrCancelled
	}

	mctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := mutate(mctx); err != nil {
		c.log.Warn("user action failed", append(fields, zap.Error(err))...)
		c.notify.Notify(userapi.ErrorMessage(err), SeverityError)
		return err
	}

	c.log.Info("user action done", fields...)
	c.list.Refresh()
	c.notify.Notify(success, SeveritySuccess)
	return nil
}
