package panel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dalemusser/usersadmin/internal/app/client/userapi"
	"github.com/dalemusser/usersadmin/internal/domain/models"
	"go.uber.org/zap"
)

// Dispatcher runs refresh tasks. workers.Queue satisfies it with a single
// consumer goroutine; Inline runs each task on the caller's goroutine.
type Dispatcher interface {
	Dispatch(task func())
}

// DispatchFunc adapts a function to Dispatcher.
type DispatchFunc func(task func())

// Dispatch calls f.
func (f DispatchFunc) Dispatch(task func()) { f(task) }

// Inline runs tasks synchronously.
var Inline Dispatcher = DispatchFunc(func(task func()) { task() })

// Refresher is what the form controller needs from the list.
type Refresher interface {
	Refresh()
}

// Snapshot is a consistent copy of the list state.
type Snapshot struct {
	Query  QueryState
	Rows   []models.User
	Total  int64
	Loaded bool // at least one refresh has been applied
}

// ListController owns the query state and the row set it produced.
//
// Every setter issues exactly one refresh. Each refresh is tagged with a
// sequence number and its result is applied only if no newer refresh has
// been issued since, so a slow response never overwrites a newer one.
type ListController struct {
	api      API
	notify   Notifier
	dispatch Dispatcher
	log      *zap.Logger
	timeout  time.Duration
	onUpdate func(Snapshot)

	mu     sync.Mutex
	query  QueryState
	rows   []models.User
	total  int64
	loaded bool
	issued uint64
}

// ListOption configures a ListController.
type ListOption func(*ListController)

// WithDispatcher sets where refresh tasks run. The default is Inline.
func WithDispatcher(d Dispatcher) ListOption {
	return func(l *ListController) { l.dispatch = d }
}

// WithQueryState replaces the default starting query.
func WithQueryState(q QueryState) ListOption {
	return func(l *ListController) { l.query = q }
}

// WithListLogger sets the logger.
func WithListLogger(log *zap.Logger) ListOption {
	return func(l *ListController) { l.log = log }
}

// WithRequestTimeout bounds each list request. Zero means no bound.
func WithRequestTimeout(d time.Duration) ListOption {
	return func(l *ListController) { l.timeout = d }
}

// WithOnUpdate registers fn to receive a snapshot after every applied
// refresh. fn runs on the dispatcher's goroutine.
func WithOnUpdate(fn func(Snapshot)) ListOption {
	return func(l *ListController) { l.onUpdate = fn }
}

// NewListController returns a controller with the default query state.
// It does not fetch until the first setter or Refresh call.
func NewListController(api API, notifier Notifier, opts ...ListOption) *ListController {
	l := &ListController{
		api:      api,
		notify:   notifier,
		dispatch: Inline,
		log:      zap.NewNop(),
		query:    DefaultQueryState(),
		rows:     []models.User{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Query returns the current query state.
func (l *ListController) Query() QueryState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.query
}

// Snapshot returns a copy of the query, rows and total.
func (l *ListController) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

func (l *ListController) snapshotLocked() Snapshot {
	rows := make([]models.User, len(l.rows))
	copy(rows, l.rows)
	return Snapshot{Query: l.query, Rows: rows, Total: l.total, Loaded: l.loaded}
}

// Rows returns a copy of the displayed rows.
func (l *ListController) Rows() []models.User { return l.Snapshot().Rows }

// Total returns the total count reported with the displayed rows.
func (l *ListController) Total() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}

// Row finds a displayed row by id.
func (l *ListController) Row(id int64) (models.User, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, u := range l.rows {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

// SetSearch sets the search text.
func (l *ListController) SetSearch(text string) {
	l.update(func(q *QueryState) { q.SearchText = text })
}

// SetStatusFilter sets the status filter.
func (l *ListController) SetStatusFilter(f StatusFilter) error {
	if _, err := ParseStatusFilter(string(f)); err != nil {
		return err
	}
	l.update(func(q *QueryState) { q.StatusFilter = f })
	return nil
}

// SetPage sets the 0-based page index.
func (l *ListController) SetPage(page int) error {
	if page < 0 {
		return fmt.Errorf("page must be >= 0, got %d", page)
	}
	l.update(func(q *QueryState) { q.Page = page })
	return nil
}

// SetPageSize sets the number of rows per page.
func (l *ListController) SetPageSize(size int) error {
	if size < 1 {
		return fmt.Errorf("page size must be > 0, got %d", size)
	}
	l.update(func(q *QueryState) { q.PageSize = size })
	return nil
}

// SetSort sorts by field in dir. An empty field clears the sort.
func (l *ListController) SetSort(field string, dir SortDirection) error {
	if field != "" && dir != SortAsc && dir != SortDesc {
		return fmt.Errorf("sort direction must be asc or desc, got %q", dir)
	}
	l.update(func(q *QueryState) {
		q.SortField = field
		q.SortDirection = dir
		if field == "" {
			q.SortDirection = ""
		}
	})
	return nil
}

// ClearSort removes any active sort.
func (l *ListController) ClearSort() {
	_ = l.SetSort("", "")
}

func (l *ListController) update(fn func(q *QueryState)) {
	l.mu.Lock()
	fn(&l.query)
	l.mu.Unlock()
	l.Refresh()
}

// Refresh schedules a fetch for the current query state.
func (l *ListController) Refresh() {
	l.mu.Lock()
	l.issued++
	seq := l.issued
	params := l.query.Params()
	l.mu.Unlock()

	l.dispatch.Dispatch(func() { l.fetch(seq, params) })
}

func (l *ListController) stale(seq uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return seq != l.issued
}

func (l *ListController) fetch(seq uint64, params userapi.ListParams) {
	// A newer refresh was issued while this one waited in the queue.
	if l.stale(seq) {
		l.log.Debug("list refresh superseded before start", zap.Uint64("seq", seq))
		return
	}

	ctx := context.Background()
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	res, err := l.api.List(ctx, params)

	l.mu.Lock()
	if seq != l.issued {
		l.mu.Unlock()
		l.log.Debug("discarding stale list response", zap.Uint64("seq", seq), zap.Error(err))
		return
	}
	if err != nil {
		l.mu.Unlock()
		l.log.Warn("list refresh failed", zap.Uint64("seq", seq), zap.Error(err))
		l.notify.Notify(userapi.ErrorMessage(err), SeverityError)
		return
	}
	rows := res.Data
	if rows == nil {
		rows = []models.User{}
	}
	l.rows = rows
	l.total = res.Total
	l.loaded = true
	snap := l.snapshotLocked()
	l.mu.Unlock()

	l.log.Debug("list refreshed", zap.Uint64("seq", seq), zap.Int("rows", len(rows)), zap.Int64("total", res.Total))
	if l.onUpdate != nil {
		l.onUpdate(snap)
	}
}
