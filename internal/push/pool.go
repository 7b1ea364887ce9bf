package push

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Job is detached work run by the pool on its own context.
type Job func(ctx context.Context)

type queuedJob struct {
	name string
	run  Job
}

// Pool runs detached push batches on a fixed number of workers so they outlive
// the request that produced them. Jobs get one attempt; a full queue drops the
// job.
type Pool struct {
	queue   chan queuedJob
	timeout time.Duration
	log     logrus.FieldLogger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewPool starts workers goroutines consuming a queue of queueSize jobs. Each
// job runs with a context that expires after timeout.
func NewPool(workers, queueSize int, timeout time.Duration, log logrus.FieldLogger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	p := &Pool{
		queue:   make(chan queuedJob, queueSize),
		timeout: timeout,
		log:     log.WithField("component", "push-pool"),
	}
	for range workers {
		p.wg.Go(p.worker)
	}
	return p
}

// Submit enqueues job without blocking. It reports false when the queue is
// full or the pool is shutting down.
func (p *Pool) Submit(name string, job Job) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.log.WithField("job", name).Warn("Push pool is shut down, dropping job")
		return false
	}
	select {
	case p.queue <- queuedJob{name: name, run: job}:
		return true
	default:
		p.log.WithField("job", name).Warn("Push queue full, dropping job")
		return false
	}
}

// Shutdown stops accepting jobs and waits for queued and running jobs to
// finish, or for ctx to expire.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) worker() {
	for j := range p.queue {
		p.run(j)
	}
}

func (p *Pool) run(j queuedJob) {
	start := time.Now()
	ctx := context.Background()
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			p.log.WithFields(logrus.Fields{"job": j.name, "panic": r}).Error("Push job panicked")
		}
	}()

	j.run(ctx)
	p.log.WithFields(logrus.Fields{"job": j.name, "dur": time.Since(start).String()}).Debug("Push job finished")
}
