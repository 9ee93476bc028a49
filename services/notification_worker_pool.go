// Package services holds the background and health plumbing around the
// intake pipeline.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/NomadCrew/contact-intake/config"
	"github.com/NomadCrew/contact-intake/logger"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// DefaultJobTimeout bounds a single job when the pool is not told otherwise.
const DefaultJobTimeout = 30 * time.Second

// Job represents a unit of work for the worker pool.
type Job struct {
	// Name is a descriptive name for logging purposes
	Name string
	// Execute is the function that performs the work
	Execute func(ctx context.Context) error
}

// WorkerPool runs post-create side effects on a bounded set of workers.
// Jobs already queued when Shutdown is called are drained before it returns.
type WorkerPool struct {
	jobQueue   chan Job
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	logger     *zap.SugaredLogger
	metrics    *workerPoolMetrics
	config     config.WorkerPoolConfig
	jobTimeout time.Duration

	mu      sync.RWMutex
	running bool
	closed  bool
}

type workerPoolMetrics struct {
	queueDepth    prometheus.Gauge
	activeWorkers prometheus.Gauge
	completedJobs prometheus.Counter
	droppedJobs   prometheus.Counter
	errorCount    prometheus.Counter
	jobDuration   prometheus.Histogram
}

func newWorkerPoolMetrics(reg prometheus.Registerer) *workerPoolMetrics {
	m := &workerPoolMetrics{
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "contact_worker_pool_queue_depth",
			Help: "Current number of jobs waiting in queue",
		}),
		activeWorkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "contact_worker_pool_active_workers",
			Help: "Current number of workers processing jobs",
		}),
		completedJobs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "contact_worker_pool_completed_jobs_total",
			Help: "Total number of finished jobs",
		}),
		droppedJobs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "contact_worker_pool_dropped_jobs_total",
			Help: "Total number of jobs dropped due to full queue or shutdown",
		}),
		errorCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "contact_worker_pool_errors_total",
			Help: "Total number of job execution errors",
		}),
		jobDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "contact_worker_pool_job_duration_seconds",
			Help:    "Time taken to execute jobs",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
	}
	if reg != nil {
		reg.MustRegister(m.queueDepth, m.activeWorkers, m.completedJobs, m.droppedJobs, m.errorCount, m.jobDuration)
	}
	return m
}

// NewWorkerPool creates a new worker pool with the given configuration.
// Metrics are registered on reg when it is non-nil. The pool must be started
// with Start() before submitting jobs.
func NewWorkerPool(cfg config.WorkerPoolConfig, reg prometheus.Registerer) *WorkerPool {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 1
	}
	if cfg.QueueSize < 0 {
		cfg.QueueSize = 0
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		jobQueue:   make(chan Job, cfg.QueueSize),
		ctx:        ctx,
		cancel:     cancel,
		logger:     logger.GetLogger().Named("worker-pool"),
		metrics:    newWorkerPoolMetrics(reg),
		config:     cfg,
		jobTimeout: DefaultJobTimeout,
	}
}

// SetJobTimeout overrides the per-job deadline. Non-positive values are ignored.
func (wp *WorkerPool) SetJobTimeout(d time.Duration) {
	if d > 0 {
		wp.jobTimeout = d
	}
}

// Start launches the worker goroutines. Calling Start() multiple times is safe
// and will only start workers once. A pool cannot be restarted after Shutdown.
func (wp *WorkerPool) Start() {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.running || wp.closed {
		wp.logger.Warnw("Worker pool not started", "running", wp.running, "closed", wp.closed)
		return
	}
	wp.running = true

	wp.logger.Infow("Starting worker pool",
		"maxWorkers", wp.config.MaxWorkers,
		"queueSize", wp.config.QueueSize)

	for i := 0; i < wp.config.MaxWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// worker drains the queue until it is closed.
func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()
	wp.logger.Debugw("Worker started", "workerId", id)

	for job := range wp.jobQueue {
		wp.executeJob(id, job)
	}
	wp.logger.Debugw("Worker stopping (queue closed)", "workerId", id)
}

func (wp *WorkerPool) executeJob(workerID int, job Job) {
	wp.metrics.activeWorkers.Inc()
	wp.metrics.queueDepth.Dec()
	defer wp.metrics.activeWorkers.Dec()

	start := time.Now()

	jobCtx, cancel := context.WithTimeout(wp.ctx, wp.jobTimeout)
	defer cancel()

	if err := wp.run(jobCtx, job); err != nil {
		wp.logger.Errorw("Job execution failed",
			"job", job.Name,
			"workerId", workerID,
			"error", err,
			"duration", time.Since(start))
		wp.metrics.errorCount.Inc()
	} else {
		wp.logger.Debugw("Job completed",
			"job", job.Name,
			"workerId", workerID,
			"duration", time.Since(start))
	}

	wp.metrics.jobDuration.Observe(time.Since(start).Seconds())
	wp.metrics.completedJobs.Inc()
}

// run executes job and turns a panic into an error so one bad job cannot take
// a worker down.
func (wp *WorkerPool) run(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return job.Execute(ctx)
}

// Submit adds a job to the queue. Returns true if the job was queued,
// false if the queue is full or the pool is shut down.
// This method is non-blocking and safe to call from multiple goroutines.
func (wp *WorkerPool) Submit(job Job) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		wp.metrics.droppedJobs.Inc()
		wp.logger.Warnw("Job dropped - pool shut down", "job", job.Name)
		return false
	}

	select {
	case wp.jobQueue <- job:
		wp.metrics.queueDepth.Inc()
		wp.logger.Debugw("Job submitted", "job", job.Name)
		return true
	default:
		wp.metrics.droppedJobs.Inc()
		wp.logger.Warnw("Job dropped - queue full",
			"job", job.Name,
			"queueSize", wp.config.QueueSize)
		return false
	}
}

// Shutdown stops accepting jobs and waits for queued and in-flight jobs to
// finish. If ctx expires first, running jobs have their contexts cancelled
// and ctx.Err() is returned.
func (wp *WorkerPool) Shutdown(ctx context.Context) error {
	wp.mu.Lock()
	if wp.closed {
		wp.mu.Unlock()
		return nil
	}
	wp.closed = true
	wasRunning := wp.running
	wp.running = false
	close(wp.jobQueue)
	wp.mu.Unlock()

	if !wasRunning {
		wp.cancel()
		return nil
	}

	wp.logger.Info("Initiating worker pool shutdown...")

	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		wp.cancel()
		wp.logger.Info("Worker pool shutdown complete - all workers finished")
		return nil
	case <-ctx.Done():
		wp.cancel()
		wp.logger.Warn("Worker pool shutdown timed out - cancelling in-flight jobs")
		return ctx.Err()
	}
}

// QueueDepth returns the current number of jobs waiting in the queue.
func (wp *WorkerPool) QueueDepth() int {
	return len(wp.jobQueue)
}

// IsRunning returns whether the worker pool is currently running.
func (wp *WorkerPool) IsRunning() bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	return wp.running
}
