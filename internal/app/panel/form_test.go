package panel

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/usersadmin/internal/app/client/userapi"
	"github.com/dalemusser/usersadmin/internal/domain/models"
)

type formFixture struct {
	api     *fakeAPI
	list    *countingRefresher
	notes   *recorder
	confirm *answer
	form    *RecordFormController
}

func newFormFixture(confirm bool) *formFixture {
	f := &formFixture{
		api:     &fakeAPI{},
		list:    &countingRefresher{},
		notes:   &recorder{},
		confirm: &answer{yes: confirm},
	}
	f.form = NewRecordFormController(f.api, f.list, f.notes, f.confirm)
	return f
}

var validInput = FormInput{Username: "ann", Password: "pw", ConfirmPassword: "pw"}

func TestOpenForCreate(t *testing.T) {
	f := newFormFixture(true)
	s := f.form.OpenForCreate()

	if !s.IsCreate() || s.Title() != "Nuevo usuario" || s.SubmitLabel() != "Crear" {
		t.Errorf("create session: create=%v title=%q label=%q", s.IsCreate(), s.Title(), s.SubmitLabel())
	}
	if s.State().Submitted() || s.FieldValue(FieldUsername) != "" {
		t.Error("create session should start empty")
	}
	if f.form.Session() != s {
		t.Error("controller should track the open session")
	}
}

func TestOpenForEdit_DefaultsFromTarget(t *testing.T) {
	f := newFormFixture(true)
	s := f.form.OpenForEdit(models.User{ID: 7, Username: "bob", Status: models.StatusActive})

	if s.IsCreate() || s.Title() != "Editar usuario" || s.SubmitLabel() != "Actualizar" {
		t.Errorf("edit session: title=%q label=%q", s.Title(), s.SubmitLabel())
	}
	if got := s.FieldValue(FieldUsername); got != "bob" {
		t.Errorf("username default: got %q, want bob", got)
	}
	if got := s.FieldValue(FieldPassword); got != "" {
		t.Errorf("password default: got %q, want empty", got)
	}
}

func TestOpen_ReplacesPreviousSession(t *testing.T) {
	f := newFormFixture(true)
	first := f.form.OpenForEdit(models.User{ID: 1, Username: "a"})
	second := f.form.OpenForCreate()

	if !first.Closed() {
		t.Error("opening a new session should close the previous one")
	}
	if second.Closed() || f.form.Session() != second {
		t.Error("the new session should be open and current")
	}
}

func TestSubmit_Validation(t *testing.T) {
	tests := []struct {
		name      string
		in        FormInput
		wantField string
		wantMsg   string
	}{
		{"empty username", FormInput{Password: "pw", ConfirmPassword: "pw"}, FieldUsername, "Username is required."},
		{"empty password", FormInput{Username: "ann", ConfirmPassword: "pw"}, FieldPassword, "Password is required."},
		{"empty confirmation", FormInput{Username: "ann", Password: "pw"}, FieldConfirmPassword, "Confirm password is required."},
		{"mismatch", FormInput{Username: "ann", Password: "pw", ConfirmPassword: "wp"}, FieldConfirmPassword, "Confirm password must match Password."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFormFixture(true)
			s := f.form.OpenForCreate()

			st, err := f.form.Submit(context.Background(), s, tt.in)
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
			if got := st.FieldErrors[tt.wantField]; got != tt.wantMsg {
				t.Errorf("FieldErrors[%s]: got %q, want %q", tt.wantField, got, tt.wantMsg)
			}
			if st.TopLevelError == "" {
				t.Error("expected a summary message")
			}
			if n := f.api.networkCalls(); n != 0 {
				t.Errorf("expected zero network calls, got %d", n)
			}
			if f.list.count() != 0 {
				t.Error("validation failure must not refresh")
			}
			if s.Closed() {
				t.Error("session should stay open")
			}
			if got := s.FieldValue(FieldUsername); got != tt.in.Username {
				t.Errorf("typed username not kept: got %q", got)
			}
			if s.FieldError(tt.wantField) == "" {
				t.Error("session should expose the field error")
			}
		})
	}
}

func TestSubmit_CreateSuccess(t *testing.T) {
	f := newFormFixture(true)
	s := f.form.OpenForCreate()

	st, err := f.form.Submit(context.Background(), s, validInput)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if st.Submitted() {
		t.Error("success should return an empty state")
	}

	if len(f.api.createCalls) != 1 || len(f.api.updateCalls) != 0 {
		t.Fatalf("calls: create=%d update=%d", len(f.api.createCalls), len(f.api.updateCalls))
	}
	want := userapi.UserInput{Username: "ann", Password: "pw", ConfirmPassword: "pw"}
	if f.api.createCalls[0] != want {
		t.Errorf("payload: got %+v, want %+v", f.api.createCalls[0], want)
	}
	if f.list.count() != 1 {
		t.Errorf("refreshes: got %d, want 1", f.list.count())
	}
	if !s.Closed() || f.form.Session() != nil {
		t.Error("dialog should close")
	}
	if n, _ := f.notes.last(); n.message != MsgCreated || n.severity != SeveritySuccess {
		t.Errorf("notification: %+v", n)
	}
}

func TestSubmit_EditUsesPUT(t *testing.T) {
	f := newFormFixture(true)
	s := f.form.OpenForEdit(models.User{ID: 7, Username: "bob"})

	if _, err := f.form.Submit(context.Background(), s, validInput); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if len(f.api.createCalls) != 0 {
		t.Error("edit must not POST")
	}
	if len(f.api.updateCalls) != 1 || f.api.updateCalls[0].id != 7 {
		t.Fatalf("expected one update of id 7, got %+v", f.api.updateCalls)
	}
	if n, _ := f.notes.last(); n.message != MsgEdited {
		t.Errorf("notification: %+v", n)
	}
}

func TestSubmit_ServerFailureKeepsInput(t *testing.T) {
	f := newFormFixture(true)
	f.api.mutateErr = &userapi.APIError{
		Status:      409,
		Message:     "Username is already taken.",
		FieldErrors: map[string]string{"username": "Username is already taken."},
	}
	s := f.form.OpenForEdit(models.User{ID: 7, Username: "bob"})
	in := FormInput{Username: "carol", Password: "pw", ConfirmPassword: "pw"}

	st, err := f.form.Submit(context.Background(), s, in)
	var apiErr *userapi.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected the API error, got %v", err)
	}
	if len(f.api.updateCalls) != 1 || f.api.updateCalls[0].id != 7 {
		t.Errorf("expected PUT to id 7, got %+v", f.api.updateCalls)
	}
	if st.TopLevelError != "Username is already taken." {
		t.Errorf("TopLevelError: got %q", st.TopLevelError)
	}
	if st.FieldErrors["username"] == "" {
		t.Error("server field errors should map onto the form")
	}
	if s.Closed() || f.form.Session() != s {
		t.Error("dialog should remain open")
	}
	for field, want := range map[string]string{FieldUsername: "carol", FieldPassword: "pw", FieldConfirmPassword: "pw"} {
		if got := s.FieldValue(field); got != want {
			t.Errorf("FieldValue(%s): got %q, want %q", field, got, want)
		}
	}
	if f.list.count() != 0 {
		t.Error("failure must not refresh")
	}
	if n, _ := f.notes.last(); n.severity != SeverityError || n.message != "Username is already taken." {
		t.Errorf("notification: %+v", n)
	}

	// Retry succeeds from the same session.
	f.api.mutateErr = nil
	if _, err := f.form.Submit(context.Background(), s, in); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if !s.Closed() {
		t.Error("successful retry should close the dialog")
	}
}

func TestSubmit_ClosedSession(t *testing.T) {
	f := newFormFixture(true)
	s := f.form.OpenForCreate()
	f.form.Cancel()

	if _, err := f.form.Submit(context.Background(), s, validInput); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("expected ErrSessionClosed, got %v", err)
	}
	if f.api.networkCalls() != 0 {
		t.Error("closed session must not submit")
	}
}

// blockingAPI holds Create until released so the pending window can be observed.
type blockingAPI struct {
	fakeAPI
	entered chan struct{}
	release chan struct{}
}

func (b *blockingAPI) Create(ctx context.Context, in userapi.UserInput) (models.User, error) {
	close(b.entered)
	<-b.release
	return b.fakeAPI.Create(ctx, in)
}

func TestSubmit_PendingBlocksSecondSubmit(t *testing.T) {
	api := &blockingAPI{entered: make(chan struct{}), release: make(chan struct{})}
	list := &countingRefresher{}
	form := NewRecordFormController(api, list, &recorder{}, &answer{yes: true})
	s := form.OpenForCreate()

	done := make(chan error, 1)
	go func() {
		_, err := form.Submit(context.Background(), s, validInput)
		done <- err
	}()
	<-api.entered

	if !s.Pending() {
		t.Error("session should be pending during the request")
	}
	if _, err := form.Submit(context.Background(), s, validInput); !errors.Is(err, ErrSubmitInFlight) {
		t.Errorf("expected ErrSubmitInFlight, got %v", err)
	}

	close(api.release)
	if err := <-done; err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	if s.Pending() {
		t.Error("pending should clear after completion")
	}
	if len(api.createCalls) != 1 {
		t.Errorf("expected exactly one POST, got %d", len(api.createCalls))
	}
}

func TestSubmit_DanglingCompletionAfterCancel(t *testing.T) {
	api := &blockingAPI{entered: make(chan struct{}), release: make(chan struct{})}
	list := &countingRefresher{}
	form := NewRecordFormController(api, list, &recorder{}, &answer{yes: true})
	s := form.OpenForCreate()

	done := make(chan error, 1)
	go func() {
		_, err := form.Submit(context.Background(), s, validInput)
		done <- err
	}()
	<-api.entered

	form.Cancel()
	next := form.OpenForEdit(models.User{ID: 3, Username: "zed"})

	close(api.release)
	if err := <-done; err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if list.count() != 1 {
		t.Errorf("completion should still refresh the list, got %d", list.count())
	}
	if form.Session() != next || next.Closed() {
		t.Error("a dangling completion must not touch the newer session")
	}
	if s.State().Submitted() {
		t.Error("the closed session must not be mutated")
	}
}

func TestDelete(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		f := newFormFixture(true)
		if err := f.form.Delete(context.Background(), 5); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if len(f.confirm.questions) != 1 || f.confirm.questions[0] != ConfirmDelete {
			t.Errorf("confirmation: %+v", f.confirm.questions)
		}
		if len(f.api.deleteCalls) != 1 || f.api.deleteCalls[0] != 5 {
			t.Errorf("delete calls: %+v", f.api.deleteCalls)
		}
		if f.list.count() != 1 {
			t.Errorf("refreshes: %d", f.list.count())
		}
		if n, _ := f.notes.last(); n.message != MsgDeleted || n.severity != SeveritySuccess {
			t.Errorf("notification: %+v", n)
		}
	})

	t.Run("declined", func(t *testing.T) {
		f := newFormFixture(false)
		if err := f.form.Delete(context.Background(), 5); !errors.Is(err, ErrCancelled) {
			t.Fatalf("expected ErrCancelled, got %v", err)
		}
		if f.api.networkCalls() != 0 || f.list.count() != 0 || len(f.notes.all()) != 0 {
			t.Error("declined delete must have no effect")
		}
	})

	t.Run("server error", func(t *testing.T) {
		f := newFormFixture(true)
		f.api.mutateErr = &userapi.APIError{Status: 404, Message: "User not found."}
		if err := f.form.Delete(context.Background(), 5); err == nil {
			t.Fatal("expected error")
		}
		if f.list.count() != 0 {
			t.Error("failed delete must not refresh")
		}
		if n, _ := f.notes.last(); n.message != "User not found." || n.severity != SeverityError {
			t.Errorf("notification: %+v", n)
		}
	})
}

func TestToggleStatus(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		f := newFormFixture(true)
		if err := f.form.ToggleStatus(context.Background(), 4, models.StatusInactive); err != nil {
			t.Fatalf("ToggleStatus failed: %v", err)
		}
		if f.confirm.questions[0] != ConfirmStatusChange {
			t.Errorf("confirmation: %q", f.confirm.questions[0])
		}
		if len(f.api.statusCalls) != 1 || f.api.statusCalls[0] != (statusCall{4, "inactive"}) {
			t.Errorf("status calls: %+v", f.api.statusCalls)
		}
		if f.list.count() != 1 {
			t.Errorf("refreshes: %d", f.list.count())
		}
		if n, _ := f.notes.last(); n.message != MsgStatusChanged {
			t.Errorf("notification: %+v", n)
		}
	})

	t.Run("declined", func(t *testing.T) {
		f := newFormFixture(false)
		if err := f.form.ToggleStatus(context.Background(), 4, models.StatusInactive); !errors.Is(err, ErrCancelled) {
			t.Fatalf("expected ErrCancelled, got %v", err)
		}
		if f.api.networkCalls() != 0 || len(f.notes.all()) != 0 {
			t.Error("declined toggle must have no effect")
		}
	})

	t.Run("server error", func(t *testing.T) {
		f := newFormFixture(true)
		f.api.mutateErr = &userapi.APIError{Status: 500}
		err := f.form.ToggleStatus(context.Background(), 4, models.StatusInactive)
		var apiErr *userapi.APIError
		if !errors.As(err, &apiErr) || apiErr.Status != 500 {
			t.Fatalf("expected the API error, got %v", err)
		}
		if len(f.api.statusCalls) != 1 {
			t.Errorf("status calls: %+v", f.api.statusCalls)
		}
		if f.list.count() != 0 {
			t.Error("failed toggle must not refresh")
		}
		if n, _ := f.notes.last(); n.message != "Internal Server Error" || n.severity != SeverityError {
			t.Errorf("notification: %+v", n)
		}
	})

	t.Run("invalid status", func(t *testing.T) {
		f := newFormFixture(true)
		if err := f.form.ToggleStatus(context.Background(), 4, "banned"); err == nil {
			t.Fatal("expected error")
		}
		if len(f.confirm.questions) != 0 || f.api.networkCalls() != 0 {
			t.Error("invalid status must not prompt or call the API")
		}
	})

	t.Run("toggle record flips status", func(t *testing.T) {
		f := newFormFixture(true)
		if err := f.form.ToggleRecord(context.Background(), models.User{ID: 9, Status: models.StatusInactive}); err != nil {
			t.Fatalf("ToggleRecord failed: %v", err)
		}
		if f.api.statusCalls[0] != (statusCall{9, "active"}) {
			t.Errorf("status call: %+v", f.api.statusCalls[0])
		}
	})
}

func TestFormController_WithListController(t *testing.T) {
	api := &fakeAPI{}
	api.listFn = func(userapi.ListParams) (userapi.ListResult, error) {
		return userapi.ListResult{Data: usersPage(1, 2), Total: 2}, nil
	}
	notes := &recorder{}
	list := NewListController(api, notes)
	form := NewRecordFormController(api, list, notes, &answer{yes: true})

	s := form.OpenForCreate()
	if _, err := form.Submit(context.Background(), s, validInput); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if got := len(api.lists()); got != 1 {
		t.Errorf("expected exactly one list request after create, got %d", got)
	}
	if list.Total() != 2 {
		t.Errorf("list not refreshed: total=%d", list.Total())
	}
}

func TestFormInputFromMap(t *testing.T) {
	in := FormInputFromMap(map[string]string{"username": "u", "password": "p", "confirmPassword": "c", "extra": "x"})
	if in != (FormInput{Username: "u", Password: "p", ConfirmPassword: "c"}) {
		t.Errorf("got %+v", in)
	}
}
