// Package worker scores queued heats and writes the results to the store.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/wildcat/internal/adapters/mq/queue"
	"github.com/okian/wildcat/internal/adapters/repository"
	"github.com/okian/wildcat/internal/domain/heat"
	"github.com/okian/wildcat/internal/domain/model"
	"github.com/okian/wildcat/internal/domain/roster"
	"github.com/okian/wildcat/pkg/logger"
	"github.com/okian/wildcat/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// Scorer scores one heat.
type Scorer interface {
	Score(mode heat.Mode, finishes []model.Finish) (heat.Heat, error)
}

// Store receives scored records.
type Store interface {
	Put(ctx context.Context, r repository.Record) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes jobs until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue closes.
	Run(ctx context.Context)

	// Shutdown stops the worker and waits for its current job.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue  Queue
	scorer Scorer
	store  Store
	name   string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a worker.
func NewInMemoryWorker(q Queue, scorer Scorer, store Store, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		scorer:   scorer,
		store:    store,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.Process(ctx, job); err != nil {
				w.logger.Error(ctx, "error processing heat", logger.String("heat", job.HeatID), logger.Error(err))
			}
		}
	}
}

// Shutdown stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Process scores one job and stores the outcome. A scoring failure is
// stored on the record and also returned; only a store failure leaves the
// record untouched.
func (w *InMemoryWorker) Process(ctx context.Context, job queue.Job) error { //nolint:gocritic // hugeParam: jobs travel by value
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	rec, scoreErr := Score(w.scorer, job)
	if err := w.store.Put(ctx, rec); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "store_error")
		return fmt.Errorf("store heat %s: %w", job.HeatID, err)
	}
	if scoreErr != nil {
		metrics.RecordWorkerError()
		return fmt.Errorf("score heat %s: %w", job.HeatID, scoreErr)
	}

	w.logger.Debug(ctx, "heat scored",
		logger.String("heat", job.HeatID),
		logger.String("mode", string(job.Mode)),
		logger.Int("finishers", len(job.Finishes)),
	)
	return nil
}

// Score runs scorer over job and returns the finished record. Metrics are
// recorded for both outcomes.
func Score(scorer Scorer, job queue.Job) (repository.Record, error) { //nolint:gocritic // hugeParam: jobs travel by value
	rec := repository.Record{
		ID:           job.HeatID,
		SubmissionID: job.SubmissionID,
		Mode:         job.Mode,
		Finishers:    len(job.Finishes),
		ReceivedAt:   job.ReceivedAt,
	}

	start := time.Now()
	h, err := scorer.Score(job.Mode, job.Finishes)
	metrics.RecordScoringLatency(float64(time.Since(start).Microseconds()) / 1000)
	rec.ScoredAt = time.Now()

	if err != nil {
		kind := ErrorKind(err)
		metrics.RecordScoringError(kind)
		metrics.RecordErrorByComponent("scoring", kind)
		rec.Status = repository.StatusFailed
		rec.Error = err.Error()
		return rec, err
	}

	metrics.RecordHeatScored(string(job.Mode), len(job.Finishes))
	rec.Status = repository.StatusScored
	rec.Heat = h
	return rec, nil
}

// ErrorKind names a scoring error for metrics labels.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, roster.ErrUnknownRunner):
		return "unknown_runner"
	case errors.Is(err, heat.ErrUnknownMode):
		return "unknown_mode"
	default:
		return "internal"
	}
}

// Pool manages multiple workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers. A count below one uses
// the number of CPUs.
func NewPool(workerCount int, q Queue, scorer Scorer, store Store) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range workerCount {
		pool.workers[i] = NewInMemoryWorker(q, scorer, store, WithName("worker-"+strconv.Itoa(i)))
	}
	metrics.UpdateWorkerCount(workerCount)
	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start starts all workers.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown closes the queue so workers drain it, then waits for them.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut bool
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			timedOut = true
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	metrics.UpdateWorkerCount(0)
	if timedOut {
		return fmt.Errorf("worker pool shutdown: %w", shutdownCtx.Err())
	}
	return nil
}
