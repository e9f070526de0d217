// Package notify runs best-effort side effects (confirmation emails, operator
// alerts) outside of the request that triggered them.
package notify

import (
	"context"
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

var ErrClosed = errors.New("notification queue closed")

var (
	failuresCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "medprep_notification_failures_total",
		Help: "Counts failed or dropped best-effort notifications.",
	}, []string{"task"})
)

func init() {
	prometheus.MustRegister(failuresCounter)
}

type Task func(ctx context.Context) error

type job struct {
	name string
	fn   Task
}

// Queue executes tasks on a single worker goroutine. Enqueue never blocks;
// tasks submitted while the buffer is full are dropped.
type Queue struct {
	log    *zap.SugaredLogger
	jobs   chan job
	done   chan struct{}
	mu     sync.RWMutex
	closed bool
	ctx    context.Context
	cancel context.CancelFunc
}

func NewQueue(log *zap.SugaredLogger, size int) *Queue {
	if size <= 0 {
		size = 100
	}
	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{
		log:    log,
		jobs:   make(chan job, size),
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
	go q.run()
	return q
}

func (q *Queue) run() {
	defer close(q.done)
	for j := range q.jobs {
		q.execute(j)
	}
}

func (q *Queue) execute(j job) {
	defer func() {
		if r := recover(); r != nil {
			failuresCounter.WithLabelValues(j.name).Inc()
			q.log.Errorw("notification panic", "task", j.name, "panic", r)
		}
	}()
	if err := j.fn(q.ctx); err != nil {
		failuresCounter.WithLabelValues(j.name).Inc()
		q.log.Errorw("notification failed", "task", j.name, zap.Error(err))
	}
}

// Enqueue schedules fn. It reports false when the task was not accepted.
func (q *Queue) Enqueue(name string, fn Task) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		q.log.Warnw("notification dropped", "task", name, zap.Error(ErrClosed))
		failuresCounter.WithLabelValues(name).Inc()
		return false
	}
	select {
	case q.jobs <- job{name: name, fn: fn}:
		return true
	default:
		failuresCounter.WithLabelValues(name).Inc()
		q.log.Warnw("notification queue full, task dropped", "task", name)
		return false
	}
}

// Close stops accepting tasks and waits for queued ones to finish. When ctx
// expires first, running tasks see a cancelled context.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()

	select {
	case <-q.done:
		q.cancel()
		return nil
	case <-ctx.Done():
		q.cancel()
		return ctx.Err()
	}
}
