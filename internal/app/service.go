// Package service wires the style map engine to persistence, caching and
// the asynchronous job pipeline used by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	jobqueue "github.com/okian/stylemap/internal/adapters/mq/queue"
	workerpool "github.com/okian/stylemap/internal/adapters/mq/worker"
	"github.com/okian/stylemap/internal/adapters/repository"
	"github.com/okian/stylemap/internal/domain/champion"
	"github.com/okian/stylemap/internal/domain/model"
	"github.com/okian/stylemap/internal/domain/resultcache"
	"github.com/okian/stylemap/internal/domain/stylemap"
	"github.com/okian/stylemap/pkg/logger"
	"github.com/okian/stylemap/pkg/metrics"
)

// Service implements the API dependencies for the style map system.
type Service struct {
	mu sync.RWMutex

	engine   *stylemap.Engine
	store    repository.Store
	cache    resultcache.Cache
	queue    *jobqueue.InMemoryQueue
	pool     *workerpool.Pool
	jobs     *jobTable
	resolver champion.Resolver

	settings     stylemap.Settings
	workerCount  int
	queueSize    int
	cacheSize    int
	jobRetention int
	dbPath       string
	ownsStore    bool

	started bool
	logger  logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		settings:     stylemap.DefaultSettings(),
		resolver:     champion.Builtin(),
		workerCount:  runtime.NumCPU(),
		queueSize:    1000,
		cacheSize:    1024,
		jobRetention: 10_000,
		dbPath:       repository.MemoryPath,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens the store and starts the worker pool. Workers stop when ctx is done.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger.Info(ctx, "starting style map service...")

	s.engine = stylemap.NewEngine(stylemap.WithSettings(s.settings), stylemap.WithResolver(s.resolver))

	if s.store == nil {
		store, err := repository.NewSQLiteStore(ctx, s.dbPath)
		if err != nil {
			return fmt.Errorf("open match store: %w", err)
		}
		s.store = store
		s.ownsStore = true
	}

	cache, err := resultcache.New(resultcache.WithMaxSize(s.cacheSize))
	if err != nil {
		s.closeStore()
		return fmt.Errorf("create result cache: %w", err)
	}
	s.cache = cache

	s.jobs = newJobTable(s.jobRetention)
	s.queue = jobqueue.NewInMemoryQueue(jobqueue.WithCapacity(s.queueSize))
	s.pool = workerpool.NewPool(s.workerCount, s.queue, workerpool.ProcessorFunc(s.runJob))
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "style map service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("cacheSize", s.cacheSize),
		logger.String("db", s.dbPath),
	)
	return nil
}

// Stop drains the worker pool and closes the store if the service opened it.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	// Mark stopped first: in-flight jobs check running() under the read lock.
	s.started = false
	pool := s.pool
	s.mu.Unlock()

	ctx := context.Background()
	s.logger.Info(ctx, "stopping style map service...")
	if err := pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool shutdown", logger.Error(err))
	}

	s.mu.Lock()
	s.closeStore()
	s.mu.Unlock()
	s.logger.Info(ctx, "style map service stopped")
}

func (s *Service) closeStore() {
	if !s.ownsStore || s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil && s.logger != nil {
		s.logger.Warn(context.Background(), "closing match store", logger.Error(err))
	}
	s.store = nil
	s.ownsStore = false
}

func (s *Service) running() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// Settings returns the base engine configuration.
func (s *Service) Settings() stylemap.Settings {
	return s.settings
}

// BuildMap builds a map from ad-hoc records. Options override the base engine
// settings for this call only.
func (s *Service) BuildMap(ctx context.Context, records []model.PerformanceRecord, opts ...stylemap.Option) (*stylemap.MapResult, error) {
	if err := s.running(); err != nil {
		return nil, err
	}

	engine := s.engine
	if len(opts) > 0 {
		all := append([]stylemap.Option{stylemap.WithSettings(s.settings), stylemap.WithResolver(s.resolver)}, opts...)
		engine = stylemap.NewEngine(all...)
	}

	key, err := resultcache.Fingerprint(records, engine.Settings())
	if err != nil {
		return nil, err
	}
	if res, ok := s.cache.Get(key); ok {
		return res, nil
	}

	start := time.Now()
	res, err := engine.Build(ctx, records)
	took := time.Since(start)
	ms := float64(took.Microseconds()) / 1000.0
	if err != nil {
		metrics.RecordMapBuild("error", ms)
		metrics.RecordErrorByComponent("engine", "cancelled")
		return nil, fmt.Errorf("build style map: %w", err)
	}

	outcome := "ok"
	if len(res.Nodes) == 0 {
		outcome = "empty"
	}
	metrics.RecordMapBuild(outcome, ms)
	metrics.RecordMapShape(len(res.Nodes), len(res.Edges), len(res.Clusters))
	s.logger.Debug(ctx, "style map built",
		logger.Int("records", len(records)),
		logger.Int("nodes", len(res.Nodes)),
		logger.Int("edges", len(res.Edges)),
		logger.Int("clusters", len(res.Clusters)),
		logger.Duration("took", took),
	)

	s.cache.Add(key, res)
	return res, nil
}

// PlayerMap builds the map for a player's stored history in one queue.
func (s *Service) PlayerMap(ctx context.Context, playerID, queue string) (*stylemap.MapResult, error) {
	if err := s.running(); err != nil {
		return nil, err
	}
	records, err := s.store.PerformanceRecords(ctx, playerID, queue)
	if err != nil {
		return nil, storeErr(err)
	}
	return s.BuildMap(ctx, records)
}

// BuildAllQueues builds one map per queue the player has history in, concurrently.
func (s *Service) BuildAllQueues(ctx context.Context, playerID string) (map[string]*stylemap.MapResult, error) {
	if err := s.running(); err != nil {
		return nil, err
	}
	queues, err := s.store.Queues(ctx, playerID)
	if err != nil {
		return nil, storeErr(err)
	}

	results := make([]*stylemap.MapResult, len(queues))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workerCount)
	for i, q := range queues {
		g.Go(func() error {
			res, err := s.PlayerMap(gctx, playerID, q)
			if err != nil {
				return fmt.Errorf("queue %s: %w", q, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]*stylemap.MapResult, len(queues))
	for i, q := range queues {
		out[q] = results[i]
	}
	return out, nil
}

// IngestMatches stores a player's matches and returns how many were new.
func (s *Service) IngestMatches(ctx context.Context, playerID string, matches []model.Match) (int, error) {
	if err := s.running(); err != nil {
		return 0, err
	}
	if playerID == "" {
		return 0, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	for i := range matches {
		matches[i].PlayerID = playerID
	}
	n, err := s.store.SaveMatches(ctx, matches)
	if err != nil {
		return 0, storeErr(err)
	}
	s.logger.Debug(ctx, "matches ingested",
		logger.String("player", playerID),
		logger.Int("received", len(matches)),
		logger.Int("inserted", n),
	)
	return n, nil
}

// SubmitJob queues an asynchronous PlayerMap build.
func (s *Service) SubmitJob(ctx context.Context, playerID, queue string) (JobStatus, error) {
	if err := s.running(); err != nil {
		return JobStatus{}, err
	}
	if playerID == "" || queue == "" {
		return JobStatus{}, fmt.Errorf("%w: player id and queue are required", ErrInvalidInput)
	}

	job := jobqueue.NewJob(playerID, queue)
	st := JobStatus{ID: job.ID, PlayerID: playerID, Queue: queue, State: JobQueued}
	// Registered before enqueue so a fast worker always finds it.
	s.jobs.put(st)
	if !s.queue.Enqueue(ctx, job) {
		s.jobs.remove(job.ID)
		return JobStatus{}, ErrBackpressure
	}
	return st, nil
}

// Job returns the status of a submitted job.
func (s *Service) Job(_ context.Context, id string) (JobStatus, error) {
	if err := s.running(); err != nil {
		return JobStatus{}, err
	}
	st, ok := s.jobs.get(id)
	if !ok {
		return JobStatus{}, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	return st, nil
}

func (s *Service) runJob(ctx context.Context, job model.BuildJob) error {
	s.jobs.update(job.ID, func(st *JobStatus) { st.State = JobRunning })

	res, err := s.PlayerMap(ctx, job.PlayerID, job.Queue)
	s.jobs.update(job.ID, func(st *JobStatus) {
		if err != nil {
			st.State = JobFailed
			st.Error = err.Error()
			return
		}
		st.State = JobDone
		st.Result = res
	})
	return err
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"cacheSize":   s.cacheSize,
		"settings":    s.settings,
	}
	if s.started {
		stats["queueLength"] = s.queue.Len(ctx)
		stats["activeWorkers"] = s.pool.Active()
		stats["cacheEntries"] = s.cache.Len()
		stats["storedMatches"] = s.store.Count(ctx)
		stats["jobs"] = s.jobs.counts()
	}
	return stats
}

// storeErr maps repository errors onto service sentinels.
func storeErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNoHistory, err)
	case errors.Is(err, repository.ErrInvalidMatch):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
