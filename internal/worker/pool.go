// Package worker runs best-effort side-channel calls off the request path.
package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-tickets/internal/observability"
)

// Job is a single side-channel call. The context carries the per-job timeout.
type Job func(ctx context.Context) error

type task struct {
	channel string
	fn      Job
}

// Pool executes jobs on a fixed number of goroutines. Failures are logged and
// counted, never returned to the submitter.
type Pool struct {
	queue   chan task
	timeout time.Duration
	logger  *zap.Logger
	metrics *observability.Metrics

	wg        sync.WaitGroup
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// NewPool starts workers goroutines reading from a queue of queueSize.
func NewPool(workers, queueSize int, timeout time.Duration, logger *zap.Logger, metrics *observability.Metrics) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Pool{
		queue:   make(chan task, queueSize),
		timeout: timeout,
		logger:  logger,
		metrics: metrics,
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.run()
	}
	return p
}

// Submit enqueues fn without blocking. It reports false when the job was
// dropped because the queue is full or the pool is closed.
func (p *Pool) Submit(channel string, fn Job) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.metrics.SideChannelDropped(channel)
		return false
	}
	select {
	case p.queue <- task{channel: channel, fn: fn}:
		return true
	default:
		p.metrics.SideChannelDropped(channel)
		p.logger.Warn("side channel queue full, dropping call", zap.String("channel", channel))
		return false
	}
}

// Close stops accepting jobs and waits for queued ones to finish.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.queue)
		p.mu.Unlock()
	})
	p.wg.Wait()
}

func (p *Pool) run() {
	defer p.wg.Done()
	for t := range p.queue {
		p.exec(t)
	}
}

func (p *Pool) exec(t task) {
	ctx := context.Background()
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			p.metrics.SideChannelFailed(t.channel)
			p.logger.Error("side channel panic", zap.String("channel", t.channel), zap.Any("panic", r))
		}
	}()
	if err := t.fn(ctx); err != nil {
		p.metrics.SideChannelFailed(t.channel)
		p.logger.Warn("side channel call failed", zap.String("channel", t.channel), zap.Error(err))
	}
}
