// Package service wires the scoring engine, queue, worker pool, heat store
// and submission deduper into the service behind the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/segmentio/ksuid"

	jobqueue "github.com/okian/wildcat/internal/adapters/mq/queue"
	workerpool "github.com/okian/wildcat/internal/adapters/mq/worker"
	"github.com/okian/wildcat/internal/adapters/repository"
	"github.com/okian/wildcat/internal/domain/dedupe"
	"github.com/okian/wildcat/internal/domain/heat"
	"github.com/okian/wildcat/internal/domain/meet"
	"github.com/okian/wildcat/internal/domain/scoring"
	"github.com/okian/wildcat/internal/domain/types"
	"github.com/okian/wildcat/pkg/logger"
	"github.com/okian/wildcat/pkg/metrics"
)

// Service scores heats for one meet.
type Service struct {
	mu sync.RWMutex

	meet    *meet.Meet
	engine  *scoring.Engine
	store   repository.Store
	deduper dedupe.Deduper
	queue   *jobqueue.InMemoryQueue
	pool    *workerpool.Pool

	workerCount int
	queueSize   int
	dedupeSize  int
	maxHeats    int
	defaultMode heat.Mode

	started bool
	cancel  context.CancelFunc
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithMeet sets the meet whose roster every heat is scored against.
func WithMeet(m *meet.Meet) Option {
	return func(s *Service) { s.meet = m }
}

// WithWorkerCount sets the number of scoring workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the scoring queue capacity.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many submission IDs are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxHeats bounds the heat store.
func WithMaxHeats(n int) Option {
	return func(s *Service) { s.maxHeats = n }
}

// WithDefaultMode sets the mode used when a submission names none.
func WithDefaultMode(m heat.Mode) Option {
	return func(s *Service) {
		if m != "" {
			s.defaultMode = m
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. It does nothing until Start.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   1024,
		dedupeSize:  10_000,
		defaultMode: heat.ModeSingle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the pipeline and starts the workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.meet == nil || s.meet.Roster == nil {
		return ErrNoMeet
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}

	s.engine = scoring.NewEngine(s.meet.Roster)
	s.store = repository.NewMemoryStore(repository.WithMaxHeats(s.maxHeats))
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = jobqueue.NewInMemoryQueue(jobqueue.WithCapacity(s.queueSize))
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.engine, s.store)

	// Workers outlive the caller's start context; Stop cancels them.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.pool.Start(runCtx)

	metrics.UpdateRoster(len(s.meet.Teams), s.meet.Roster.Len())
	s.started = true
	s.logger.Info(ctx, "scoring service started",
		logger.String("meet", s.meet.Name),
		logger.Int("teams", len(s.meet.Teams)),
		logger.Int("runners", s.meet.Roster.Len()),
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
	)
	return nil
}

// Stop drains the queue and stops the workers.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping scoring service...")

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool did not stop cleanly", logger.Error(err))
	}
	s.cancel()
	if err := s.store.Close(); err != nil {
		s.logger.Warn(ctx, "heat store did not close cleanly", logger.Error(err))
	}
	s.started = false
	s.logger.Info(ctx, "scoring service stopped")
}

func (s *Service) running() error {
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

func (s *Service) job(sub heat.Submission, id string) jobqueue.Job {
	mode := sub.Mode
	if mode == "" {
		mode = s.defaultMode
	}
	return jobqueue.Job{
		HeatID:       id,
		SubmissionID: sub.ID,
		Mode:         mode,
		Finishes:     sub.Finishes,
		ReceivedAt:   time.Now(),
	}
}

// claim returns the heat ID for sub and whether sub was seen before.
func (s *Service) claim(ctx context.Context, sub heat.Submission) (string, bool) {
	id := ksuid.New().String()
	if sub.ID == "" {
		return id, false
	}
	id, dup := s.deduper.Claim(ctx, sub.ID, id)
	if dup {
		metrics.RecordHeatDuplicate()
		s.logger.Debug(ctx, "duplicate submission", logger.String("submission", sub.ID), logger.String("heat", id))
	}
	return id, dup
}

// Submit queues a heat for scoring and returns its heat ID. A repeated
// submission ID returns the heat created by the first submission and
// duplicate=true without queueing anything.
func (s *Service) Submit(ctx context.Context, sub heat.Submission) (id string, duplicate bool, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.running(); err != nil {
		return "", false, err
	}

	id, dup := s.claim(ctx, sub)
	if dup {
		return id, true, nil
	}

	// The job is queued before its pending record exists so that a full
	// queue leaves the store untouched. A worker may store the scored record
	// first; Insert then keeps it.
	job := s.job(sub, id)
	if !s.queue.Enqueue(ctx, job) {
		s.release(ctx, sub)
		return "", false, ErrQueueFull
	}
	pending := repository.Record{
		ID:           id,
		SubmissionID: sub.ID,
		Mode:         job.Mode,
		Status:       repository.StatusPending,
		Finishers:    len(job.Finishes),
		ReceivedAt:   job.ReceivedAt,
	}
	if _, err := s.store.Insert(ctx, pending); err != nil {
		s.logger.Warn(ctx, "pending heat not stored", logger.String("heat", id), logger.Error(err))
	}

	metrics.RecordHeatSubmitted()
	s.logger.Debug(ctx, "heat queued", logger.String("heat", id), logger.String("mode", string(job.Mode)))
	return id, false, nil
}

func (s *Service) release(ctx context.Context, sub heat.Submission) {
	if sub.ID != "" {
		s.deduper.Release(ctx, sub.ID)
	}
}

// ScoreNow scores a heat synchronously and stores the result. A scoring
// failure is stored and returned alongside the failed record. A repeated
// submission ID returns the stored heat of the first submission.
func (s *Service) ScoreNow(ctx context.Context, sub heat.Submission) (repository.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.running(); err != nil {
		return repository.Record{}, err
	}

	id, dup := s.claim(ctx, sub)
	if dup {
		return s.store.Get(ctx, id)
	}

	rec, scoreErr := workerpool.Score(s.engine, s.job(sub, id))
	if err := s.store.Put(ctx, rec); err != nil {
		s.release(ctx, sub)
		return repository.Record{}, fmt.Errorf("store heat: %w", err)
	}
	if scoreErr != nil {
		s.logger.Warn(ctx, "heat failed to score", logger.String("heat", id), logger.Error(scoreErr))
	}
	return rec, scoreErr
}

// Heat returns a stored heat.
func (s *Service) Heat(ctx context.Context, id string) (repository.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.running(); err != nil {
		return repository.Record{}, err
	}
	return s.store.Get(ctx, id)
}

// Heats lists stored heats in submission order. A limit of 0 lists all.
func (s *Service) Heats(ctx context.Context, limit int) ([]repository.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.running(); err != nil {
		return nil, err
	}
	return s.store.List(ctx, limit)
}

// Meet returns the meet being scored.
func (s *Service) Meet() *meet.Meet {
	return s.meet
}

// Teams describes the rostered teams in registration order.
func (s *Service) Teams(ctx context.Context) []types.TeamInfo {
	ids := s.meet.TeamIDs()
	out := make([]types.TeamInfo, 0, len(ids))
	for _, id := range ids {
		t := s.meet.Teams[id]
		out = append(out, types.TeamInfo{
			ID:       int(id),
			Initials: t.Initials,
			Name:     t.Name,
			Location: t.Location,
			Runners:  len(s.meet.Roster.Runners(id)),
		})
	}
	return out
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
		"defaultMode": string(s.defaultMode),
	}
	if s.meet != nil {
		stats["meet"] = s.meet.Name
		stats["teams"] = len(s.meet.Teams)
	}
	if s.started {
		ctx := context.Background()
		stats["queueLength"] = s.queue.Len(ctx)
		stats["heatsStored"] = s.store.Count(ctx)
		stats["submissionsTracked"] = s.deduper.Size()
		stats["runners"] = s.meet.Roster.Len()
	}
	return stats
}
