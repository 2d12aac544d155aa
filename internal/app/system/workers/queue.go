// internal/app/system/workers/queue.go
package workers

import (
	"sync"

	"go.uber.org/zap"
)

// Queue is a background worker that runs submitted tasks one at a time,
// in submission order, on a single goroutine.
type Queue struct {
	log    *zap.Logger
	tasks  chan func()
	stopCh chan struct{}
	wg     sync.WaitGroup
	stop   sync.Once
}

// NewQueue creates a queue with room for size pending tasks.
//
// Parameters:
//   - logger: zap logger for lifecycle and panic logging
//   - size: buffered capacity; Dispatch blocks while the buffer is full
func NewQueue(logger *zap.Logger, size int) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{
		log:    logger,
		tasks:  make(chan func(), size),
		stopCh: make(chan struct{}),
	}
}

// Start begins the consumer loop.
func (q *Queue) Start() {
	q.wg.Add(1)
	go q.run()
	q.log.Debug("task queue started", zap.Int("capacity", cap(q.tasks)))
}

// Stop signals the worker to stop and waits for the running task to finish.
// Tasks still buffered are discarded.
func (q *Queue) Stop() {
	q.stop.Do(func() {
		close(q.stopCh)
	})
	q.wg.Wait()
	q.log.Debug("task queue stopped")
}

// Dispatch enqueues task. After Stop it is a no-op.
func (q *Queue) Dispatch(task func()) {
	select {
	case <-q.stopCh:
		q.log.Debug("task dropped: queue stopped")
		return
	default:
	}
	select {
	case q.tasks <- task:
	case <-q.stopCh:
		q.log.Debug("task dropped: queue stopped")
	}
}

func (q *Queue) run() {
	defer q.wg.Done()

	for {
		select {
		case <-q.stopCh:
			return
		case task := <-q.tasks:
			q.exec(task)
		}
	}
}

func (q *Queue) exec(task func()) {
	defer func() {
		if rec := recover(); rec != nil {
			q.log.Error("task panicked", zap.Any("panic", rec))
		}
	}()
	task()
}
