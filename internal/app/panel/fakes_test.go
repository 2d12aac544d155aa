package panel

import (
	"context"
	"strconv"
	"sync"

	"github.com/dalemusser/usersadmin/internal/app/client/userapi"
	"github.com/dalemusser/usersadmin/internal/domain/models"
)

// fakeAPI records calls and answers from canned results.
type fakeAPI struct {
	mu sync.Mutex

	listCalls   []userapi.ListParams
	createCalls []userapi.UserInput
	updateCalls []updateCall
	statusCalls []statusCall
	deleteCalls []int64

	listFn    func(p userapi.ListParams) (userapi.ListResult, error)
	mutateErr error
}

type updateCall struct {
	id int64
	in userapi.UserInput
}

type statusCall struct {
	id     int64
	status string
}

func (f *fakeAPI) List(_ context.Context, p userapi.ListParams) (userapi.ListResult, error) {
	f.mu.Lock()
	f.listCalls = append(f.listCalls, p)
	fn := f.listFn
	f.mu.Unlock()
	if fn == nil {
		return userapi.ListResult{Data: []models.User{}}, nil
	}
	return fn(p)
}

func (f *fakeAPI) Create(_ context.Context, in userapi.UserInput) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls = append(f.createCalls, in)
	if f.mutateErr != nil {
		return models.User{}, f.mutateErr
	}
	return models.User{ID: 100, Username: in.Username, Status: models.StatusActive}, nil
}

func (f *fakeAPI) Update(_ context.Context, id int64, in userapi.UserInput) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls = append(f.updateCalls, updateCall{id, in})
	if f.mutateErr != nil {
		return models.User{}, f.mutateErr
	}
	return models.User{ID: id, Username: in.Username, Status: models.StatusActive}, nil
}

func (f *fakeAPI) SetStatus(_ context.Context, id int64, status string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls = append(f.statusCalls, statusCall{id, status})
	if f.mutateErr != nil {
		return models.User{}, f.mutateErr
	}
	return models.User{ID: id, Status: status}, nil
}

func (f *fakeAPI) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls = append(f.deleteCalls, id)
	return f.mutateErr
}

func (f *fakeAPI) networkCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listCalls) + len(f.createCalls) + len(f.updateCalls) + len(f.statusCalls) + len(f.deleteCalls)
}

func (f *fakeAPI) lists() []userapi.ListParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]userapi.ListParams(nil), f.listCalls...)
}

type note struct {
	message  string
	severity Severity
}

// recorder is a Notifier that keeps every notification.
type recorder struct {
	mu    sync.Mutex
	notes []note
}

func (r *recorder) Notify(message string, severity Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, note{message, severity})
}

func (r *recorder) all() []note {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]note(nil), r.notes...)
}

func (r *recorder) last() (note, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notes) == 0 {
		return note{}, false
	}
	return r.notes[len(r.notes)-1], true
}

// countingRefresher counts Refresh calls.
type countingRefresher struct {
	mu sync.Mutex
	n  int
}

func (c *countingRefresher) Refresh() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func (c *countingRefresher) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

// answer is a Confirmer with a fixed reply that records the questions asked.
type answer struct {
	yes       bool
	questions []string
}

func (a *answer) Confirm(_ context.Context, message string) (bool, error) {
	a.questions = append(a.questions, message)
	return a.yes, nil
}

// usersPage builds n active users starting at id from.
func usersPage(from, n int) []models.User {
	out := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		id := int64(from + i)
		out = append(out, models.User{ID: id, Username: "user" + strconv.FormatInt(id, 10), Status: models.StatusActive})
	}
	return out
}
