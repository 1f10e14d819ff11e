package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgallion1/docsite/internal/config"
	"github.com/dgallion1/docsite/internal/site"
)

// ErrStopped is returned when submitting to a stopped pipeline.
var ErrStopped = errors.New("pipeline stopped")

// Orchestrator manages site rebuilds and holds the live snapshot.
type Orchestrator struct {
	jobs    *JobStore
	queue   chan *Job
	worker  *Worker
	log     *slog.Logger
	cfg     config.Config
	current atomic.Pointer[site.Snapshot]

	// buildMu serializes builds so each one sees its predecessor's output.
	buildMu sync.Mutex

	mu      sync.Mutex
	stopped bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, log *slog.Logger) *Orchestrator {
	sources := site.Sources{
		CatalogPath:   cfg.CatalogPath,
		ContentDir:    cfg.ContentDir,
		BlogDir:       cfg.BlogDir,
		ChangelogPath: cfg.ChangelogPath,
	}
	return &Orchestrator{
		jobs:   NewJobStore(cfg.JobTTL),
		queue:  make(chan *Job, cfg.MaxQueueSize),
		worker: NewWorker(sources, log, cfg.SearchSnippetTokens),
		log:    log,
		cfg:    cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					o.run(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	close(o.queue)
	o.mu.Unlock()

	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
}

// Submit queues a job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		job.SetStatus(StatusFailed, "stopped")
		return ErrStopped
	}
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// Rebuild queues a new rebuild job.
func (o *Orchestrator) Rebuild(reason string) (*Job, error) {
	job := NewJob(reason)
	if err := o.Submit(job); err != nil {
		return job, err
	}
	o.log.Info("rebuild queued", "job_id", job.ID, "reason", reason)
	return job, nil
}

// BuildNow runs a rebuild on the calling goroutine.
func (o *Orchestrator) BuildNow(ctx context.Context, reason string) (*Job, error) {
	job := NewJob(reason)
	o.jobs.Put(job)
	if snap := o.run(ctx, job); snap == nil {
		errs := job.Snapshot().Progress.Errors
		if len(errs) > 0 {
			return job, fmt.Errorf("rebuild failed: %s", errs[len(errs)-1])
		}
		return job, fmt.Errorf("rebuild failed")
	}
	return job, nil
}

func (o *Orchestrator) run(ctx context.Context, job *Job) *site.Snapshot {
	o.buildMu.Lock()
	defer o.buildMu.Unlock()
	snap := o.worker.Process(ctx, job, o.current.Load())
	if snap != nil {
		o.current.Store(snap)
	}
	return snap
}

// Snapshot returns the live site, or nil before the first successful build.
func (o *Orchestrator) Snapshot() *site.Snapshot {
	return o.current.Load()
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}
