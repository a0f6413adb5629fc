// Package worker contains the background pipeline that turns classified
// signals into stored risk assessments. It is intentionally decoupled from
// the HTTP layer: the api package holds a worker.Enqueuer interface and calls
// Enqueue — it never imports the concrete Runner or Job types.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/meridianhq/meridian-backend/internal/db"
	"github.com/meridianhq/meridian-backend/internal/engine"
	"github.com/meridianhq/meridian-backend/internal/store"
)

// ─── ENQUEUER INTERFACE ───────────────────────────────────────────────────────

// Enqueuer is the narrow interface the api package uses to request an
// assessment rebuild (e.g. after a recalculate call). Keeping it here (not in
// api/) means api/ does not need to import worker/.
//
// The concrete implementation is *Runner. In tests, any struct with an Enqueue
// method satisfies the interface.
type Enqueuer interface {
	Enqueue(ctx context.Context, signalID uuid.UUID) error
}

// ─── RUNNER ───────────────────────────────────────────────────────────────────

// RunnerConfig holds tuning parameters for the Runner. All fields have
// sensible defaults if zero-valued; call DefaultRunnerConfig() to get them.
type RunnerConfig struct {
	// Workers is the number of concurrent job goroutines. Default: 3.
	Workers int

	// PollInterval is how often the fallback poller checks for signals with
	// no stored assessment (e.g. rows seeded while the service was down).
	// Default: 30s.
	PollInterval time.Duration

	// JobTimeout is the per-job context deadline. Default: 30 seconds.
	// The pipeline is a handful of queries plus pure computation.
	JobTimeout time.Duration

	// MaxRetries is the number of times a job is retried before an
	// error-status assessment is written for the signal. Default: 3.
	MaxRetries int

	// PollBatch is how many unassessed signals one poll cycle picks up.
	// Default: 50.
	PollBatch int32
}

// DefaultRunnerConfig returns safe production defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Workers:      3,
		PollInterval: 30 * time.Second,
		JobTimeout:   30 * time.Second,
		MaxRetries:   3,
		PollBatch:    50,
	}
}

// Runner manages a pool of worker goroutines. It accepts jobs via an
// in-process channel (fast path, used for recalculate requests) and also
// polls the database periodically for signals that have no assessment yet
// (recovery path — new seeds, or rows that were in-flight at last restart).
type Runner struct {
	job    *Job
	store  *store.Store
	q      db.Querier
	cfg    RunnerConfig
	logger *slog.Logger

	queue chan uuid.UUID
	wg    sync.WaitGroup
}

// NewRunner constructs a Runner. Call Start() to begin processing.
func NewRunner(
	job *Job,
	st *store.Store,
	q db.Querier,
	cfg RunnerConfig,
	logger *slog.Logger,
) *Runner {
	def := DefaultRunnerConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = def.JobTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = def.MaxRetries
	}
	if cfg.PollBatch <= 0 {
		cfg.PollBatch = def.PollBatch
	}

	return &Runner{
		job:    job,
		store:  st,
		q:      q,
		cfg:    cfg,
		logger: logger,
		// Buffer = PollBatch so one poll cycle fits without blocking.
		queue: make(chan uuid.UUID, cfg.PollBatch),
	}
}

// Enqueue pushes a signalID onto the in-process channel. It satisfies the
// Enqueuer interface. If the channel is full it returns an error rather than
// blocking the HTTP response; the poller will pick the signal up anyway.
func (r *Runner) Enqueue(_ context.Context, signalID uuid.UUID) error {
	select {
	case r.queue <- signalID:
		r.logger.Info("worker: enqueued signal", "signal_id", signalID)
		return nil
	default:
		return errors.New("worker: queue is full, signal will be picked up by poller")
	}
}

// Start launches the worker pool and the fallback poller. It blocks until ctx
// is cancelled. Call it in a goroutine from main:
//
//	go runner.Start(ctx)
func (r *Runner) Start(ctx context.Context) {
	r.logger.Info("worker: starting", "workers", r.cfg.Workers, "poll_interval", r.cfg.PollInterval)

	// Launch worker goroutines.
	for i := range r.cfg.Workers {
		r.wg.Add(1)
		go r.work(ctx, i)
	}

	// Launch fallback poller.
	r.wg.Add(1)
	go r.poll(ctx)

	r.wg.Wait()
	r.logger.Info("worker: stopped")
}

// work is the inner loop for each worker goroutine.
func (r *Runner) work(ctx context.Context, id int) {
	defer r.wg.Done()
	log := r.logger.With("worker_id", id)
	log.Info("worker: goroutine started")

	for {
		select {
		case <-ctx.Done():
			log.Info("worker: goroutine stopping")
			return
		case signalID := <-r.queue:
			r.runWithRetry(ctx, signalID, log)
		}
	}
}

// poll queries the database on PollInterval for signals missing an assessment
// (e.g. seeded while the process was down, or dropped by a restart).
func (r *Runner) poll(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	// Run once immediately on startup to pick up anything from before restart.
	r.pollOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.pollOnce(ctx)
		}
	}
}

func (r *Runner) pollOnce(ctx context.Context) {
	signals, err := r.q.ListSignalsMissingAssessment(ctx, r.cfg.PollBatch)
	if err != nil {
		r.logger.Error("worker: poll failed", "error", err)
		return
	}
	for _, sig := range signals {
		select {
		case r.queue <- sig.ID:
			r.logger.Debug("worker: poller enqueued signal", "signal_id", sig.ID)
		default:
			// Queue full — will be picked up next poll cycle.
		}
	}
}

// runWithRetry executes the job up to MaxRetries times. After exhausting
// retries it writes an error-status assessment so the signal stops showing
// up in the missing-assessment poll and the UI sees a diagnosable state
// instead of a spinner.
func (r *Runner) runWithRetry(ctx context.Context, signalID uuid.UUID, log *slog.Logger) {
	var lastErr error

	for attempt := 1; attempt <= r.cfg.MaxRetries; attempt++ {
		jobCtx, cancel := context.WithTimeout(ctx, r.cfg.JobTimeout)
		lastErr = r.job.Run(jobCtx, signalID)
		cancel()

		if lastErr == nil {
			log.Info("worker: job completed", "signal_id", signalID, "attempt", attempt)
			return
		}

		log.Warn("worker: job attempt failed",
			"signal_id", signalID,
			"attempt", attempt,
			"max", r.cfg.MaxRetries,
			"error", lastErr,
		)

		if attempt < r.cfg.MaxRetries {
			// Exponential back-off: 2s, 4s, 8s …
			backoff := time.Duration(1<<attempt) * time.Second
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
		}
	}

	log.Error("worker: job permanently failed", "signal_id", signalID, "error", lastErr)
	failCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	_, err := r.store.SaveAssessment(failCtx, store.SaveAssessmentParams{
		SignalID: signalID,
		Assessment: engine.Assessment{
			Status:  engine.StatusError,
			Message: "assessment pipeline failed: " + lastErr.Error(),
		},
	})
	if err != nil && !errors.Is(err, store.ErrStaleAssessment) {
		log.Error("worker: failed to record error assessment", "signal_id", signalID, "error", err)
	}
}
