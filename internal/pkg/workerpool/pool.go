package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

var ErrPoolClosed = errors.New("worker pool is closed")

// TaskResult carries the outcome of a submitted task
type TaskResult struct {
	Data  interface{}
	Error error
}

// Config holds worker pool settings
type Config struct {
	Workers int // number of concurrent workers
}

// DefaultConfig returns the default pool configuration
func DefaultConfig() *Config {
	return &Config{Workers: 8}
}

// Pool is a bounded worker pool backed by ants.
// It is used to fan out independent blocking calls, such as per-URL
// crawl fetches, without spawning an unbounded number of goroutines.
type Pool struct {
	pool   *ants.Pool
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger

	mu        sync.Mutex
	submitted int64
	completed int64
	failed    int64
}

// New creates a worker pool
func New(cfg *Config, logger *zap.Logger) (*Pool, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Workers <= 0 {
		return nil, fmt.Errorf("workers must be positive, got %d", cfg.Workers)
	}

	antsPool, err := ants.NewPool(cfg.Workers,
		ants.WithPanicHandler(func(v interface{}) {
			logger.Error("worker panic", zap.Any("error", v))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ants pool: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		pool:   antsPool,
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}, nil
}

// Submit enqueues a task for execution
func (p *Pool) Submit(task func()) error {
	select {
	case <-p.ctx.Done():
		return ErrPoolClosed
	default:
	}

	p.mu.Lock()
	p.submitted++
	p.mu.Unlock()

	return p.pool.Submit(func() {
		task()
		p.mu.Lock()
		p.completed++
		p.mu.Unlock()
	})
}

// SubmitWithResult enqueues a task and returns a channel that receives its result.
// The channel is buffered and closed after the single result is delivered.
func (p *Pool) SubmitWithResult(task func() (interface{}, error)) <-chan TaskResult {
	resultCh := make(chan TaskResult, 1)

	err := p.Submit(func() {
		data, err := task()
		if err != nil {
			p.mu.Lock()
			p.failed++
			p.mu.Unlock()
		}
		resultCh <- TaskResult{Data: data, Error: err}
		close(resultCh)
	})
	if err != nil {
		resultCh <- TaskResult{Error: err}
		close(resultCh)
	}

	return resultCh
}

// Running returns the number of workers currently executing tasks
func (p *Pool) Running() int {
	return p.pool.Running()
}

// Stats returns submitted/completed/failed counters
func (p *Pool) Stats() (submitted, completed, failed int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.submitted, p.completed, p.failed
}

// Shutdown stops the pool and releases its workers
func (p *Pool) Shutdown() {
	p.cancel()
	p.pool.Release()
}
