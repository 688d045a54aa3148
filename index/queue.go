// Package index builds semantic search indexes in the background. Tasks
// run strictly one at a time, in submission order, on a worker goroutine
// that is started lazily on first use.
package index

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fwojciec/refdoc"
)

// DefaultShutdownGrace bounds how long Shutdown waits for an in-flight
// task before giving up.
const DefaultShutdownGrace = 30 * time.Second

var _ refdoc.IndexQueue = (*Queue)(nil)

// Queue serializes index builds through a single background worker.
// The zero value is not usable; construct with NewQueue.
type Queue struct {
	indexer refdoc.Indexer

	// ShutdownGrace overrides DefaultShutdownGrace when positive.
	ShutdownGrace time.Duration

	mu         sync.Mutex
	pending    []*task
	running    bool
	closed     bool
	workerDone chan struct{}
}

type task struct {
	docs     []*refdoc.ChunkDoc
	dest     string
	progress refdoc.IndexProgressFunc
	done     chan error
}

// NewQueue creates a queue that delegates builds to the given indexer.
func NewQueue(indexer refdoc.Indexer) *Queue {
	return &Queue{indexer: indexer}
}

// Submit enqueues a build and blocks until it completes or ctx is
// canceled. Cancellation abandons the wait; the task itself still runs
// to completion on the worker.
func (q *Queue) Submit(ctx context.Context, docs []*refdoc.ChunkDoc, dest string, progress refdoc.IndexProgressFunc) error {
	if dest == "" {
		return refdoc.Errorf(refdoc.EINVALID, "index destination required")
	}
	for _, doc := range docs {
		if err := doc.Validate(); err != nil {
			return err
		}
	}

	t := &task{docs: docs, dest: dest, progress: progress, done: make(chan error, 1)}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return refdoc.Errorf(refdoc.EUNAVAILABLE, "index queue is shut down")
	}
	q.pending = append(q.pending, t)
	if !q.running {
		q.running = true
		q.workerDone = make(chan struct{})
		go q.work(q.workerDone)
	}
	q.mu.Unlock()

	select {
	case err := <-t.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting new tasks and waits for the worker to drain,
// up to the grace period or ctx, whichever ends first.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	q.closed = true
	done := q.workerDone
	q.mu.Unlock()

	if done == nil {
		return nil
	}

	grace := q.ShutdownGrace
	if grace <= 0 {
		grace = DefaultShutdownGrace
	}
	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return refdoc.Errorf(refdoc.ETIMEOUT, "index queue did not drain within %s", grace)
	}
}

// work drains the pending queue one task at a time. It exits when the
// queue is empty; the next Submit starts a fresh worker.
func (q *Queue) work(done chan struct{}) {
	defer close(done)

	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.running = false
			q.mu.Unlock()
			return
		}
		t := q.pending[0]
		q.pending = q.pending[1:]
		q.mu.Unlock()

		err := q.execute(t)
		if isCrash(err) {
			q.failPending(err)
			t.done <- refdoc.Errorf(refdoc.EINTERNAL, "index worker crashed: %s", err)
			return
		}
		t.done <- err
	}
}

// execute runs one build, converting a panic in the indexer into an
// error instead of taking the process down.
func (q *Queue) execute(t *task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &crashError{value: r}
		}
	}()
	return q.indexer.BuildIndex(context.Background(), t.docs, t.dest, t.progress)
}

// failPending fails every queued task after a worker crash and resets
// the worker state so a later Submit starts clean.
func (q *Queue) failPending(cause error) {
	q.mu.Lock()
	pending := q.pending
	q.pending = nil
	q.running = false
	q.mu.Unlock()

	for _, t := range pending {
		t.done <- refdoc.Errorf(refdoc.EINTERNAL, "index worker crashed: %s", cause)
	}
}

// crashError wraps a recovered panic value.
type crashError struct {
	value any
}

func (e *crashError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

func isCrash(err error) bool {
	_, ok := err.(*crashError)
	return ok
}
