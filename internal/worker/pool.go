package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// PoolConfig holds configuration options for the worker pool.
type PoolConfig struct {
	// WorkerCount determines how many concurrent workers to start.
	// If zero or negative, defaults to 1.
	WorkerCount int
	// QueueSize is the job buffer size. If zero or negative, defaults to 100.
	QueueSize int
}

// DefaultPoolConfig returns a PoolConfig with reasonable defaults.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{WorkerCount: 2, QueueSize: 100}
}

// Pool manages the worker goroutines consuming a Queue.
type Pool struct {
	queue       *Queue
	workerCount int
	wg          sync.WaitGroup

	// ctx is passed to running jobs and is cancelled when Stop gives up waiting.
	ctx    context.Context
	cancel context.CancelFunc

	logger       *slog.Logger
	errorHandler func(job Job, err error)
	startOnce    sync.Once
}

// NewPool creates a pool and its queue.
func NewPool(config PoolConfig, logger *slog.Logger) *Pool {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "worker_pool")

	workerCount := config.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
		logger.Warn("invalid worker count specified, using default",
			"specified_count", config.WorkerCount,
			"default_count", 1)
	}
	queueSize := config.QueueSize
	if queueSize <= 0 {
		queueSize = DefaultPoolConfig().QueueSize
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		queue:       NewQueue(queueSize, logger),
		workerCount: workerCount,
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger,
	}
}

var _ Enqueuer = (*Pool)(nil)

// SetErrorHandler sets a callback for failed jobs. Must be called before Start.
func (p *Pool) SetErrorHandler(handler func(job Job, err error)) {
	p.errorHandler = handler
}

// Enqueue submits a job to the pool's queue.
func (p *Pool) Enqueue(job Job) error {
	return p.queue.Enqueue(job)
}

// Start launches the workers. Calling it more than once has no effect.
func (p *Pool) Start() {
	p.startOnce.Do(func() {
		for i := 0; i < p.workerCount; i++ {
			p.wg.Add(1)
			go p.work(i)
		}
		p.logger.Info("worker pool started", "workers", p.workerCount)
	})
}

// Stop closes the queue and waits for queued jobs to finish. If ctx expires
// first, running jobs are cancelled and Stop returns ctx's error once the
// workers exit.
func (p *Pool) Stop(ctx context.Context) error {
	p.queue.Close()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		p.logger.Info("worker pool stopped")
		return nil
	case <-ctx.Done():
		p.cancel()
		<-done
		return fmt.Errorf("worker pool stopped before draining: %w", ctx.Err())
	}
}

func (p *Pool) work(id int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.queue.Jobs():
			if !ok {
				return
			}
			p.run(job, id)
		}
	}
}

func (p *Pool) run(job Job, workerID int) {
	log := p.logger.With(
		"job_id", job.ID(),
		"job_type", job.Type(),
		"worker_id", workerID,
	)

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("job panicked: %v", r)
			log.Error("job execution failed", "error", err)
			if p.errorHandler != nil {
				p.errorHandler(job, err)
			}
		}
	}()

	if err := job.Execute(p.ctx); err != nil {
		log.Error("job execution failed", "error", err)
		if p.errorHandler != nil {
			p.errorHandler(job, err)
		}
		return
	}
	log.Debug("job completed")
}
