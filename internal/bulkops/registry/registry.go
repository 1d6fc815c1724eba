// Package registry implements the bulk-operation job registry: job identity,
// lifecycle transitions and result retention. Jobs are advanced by a
// pluggable Runner so the same registry serves both the timer-driven
// simulator and the directory-backed executor.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brightclass/admin-api/internal/bulkops/model"
	"github.com/brightclass/admin-api/internal/config"
)

// Tracker lets a runner report progress for the job it is driving. Progress
// is clamped and kept monotone by the registry; runners only propose values.
type Tracker interface {
	// Advance raises the job's progress percentage.
	Advance(progress float64)
}

// Runner drives one submitted operation to completion. Implementations must
// return promptly with ctx.Err() once the context is cancelled, and report
// per-target outcomes covering every target exactly once.
type Runner interface {
	Run(ctx context.Context, op *model.Operation, tracker Tracker) (*model.RunOutcome, error)
}

// Registry owns bulk-operation jobs and their results.
type Registry interface {
	// Submit validates the operation and, on success, creates a processing
	// job whose runner starts asynchronously. Validation failures return a
	// *model.ValidationError and create nothing.
	Submit(ctx context.Context, op *model.Operation) (model.Job, error)

	// Cancel requests best-effort cancellation. Cancelling a job that has
	// already reached a terminal state is a no-op, not an error; unknown
	// IDs return ErrJobNotFound.
	Cancel(jobID string) error

	// Job returns a snapshot of the job with the given ID.
	Job(jobID string) (model.Job, error)

	// ActiveJobs returns snapshots of pending and processing jobs for the
	// tenant, in submission order.
	ActiveJobs(tenantID string) []model.Job

	// CompletedResults returns the tenant's results in completion order.
	CompletedResults(tenantID string) []model.Result

	// ClearCompleted drops the tenant's completed results and their export
	// files. Active jobs are unaffected.
	ClearCompleted(tenantID string)

	// Result returns the completed result for the job, ErrResultNotReady
	// while the job is still running and ErrJobNotFound for unknown IDs.
	Result(jobID string) (model.Result, error)

	// Download returns the export file produced by an export job.
	Download(jobID string) (model.ExportFile, error)

	// Close cancels all active jobs and waits for their runners to exit.
	Close()
}

// InMemory is the in-process Registry implementation. State lives for the
// lifetime of the instance; construct one per server (or per test) rather
// than sharing globals.
type InMemory struct {
	mu           sync.Mutex
	jobs         map[string]*model.Job
	order        []string
	results      []string
	resultsByJob map[string]*model.Result
	exports      map[string]*model.ExportFile
	cancels      map[string]context.CancelFunc

	runner Runner
	cfg    config.BulkOpsConfig
	logger *zap.SugaredLogger

	wg     sync.WaitGroup
	closed bool
}

var _ Registry = (*InMemory)(nil)

// New creates an in-memory registry driven by the given runner.
func New(runner Runner, cfg config.BulkOpsConfig, logger *zap.SugaredLogger) *InMemory {
	return &InMemory{
		jobs:         make(map[string]*model.Job),
		resultsByJob: make(map[string]*model.Result),
		exports:      make(map[string]*model.ExportFile),
		cancels:      make(map[string]context.CancelFunc),
		runner:       runner,
		cfg:          cfg,
		logger:       logger,
	}
}

// Submit validates the operation and starts its job.
func (r *InMemory) Submit(ctx context.Context, op *model.Operation) (model.Job, error) {
	if violations := model.Validate(op.Kind, op.TargetUserIDs, op.Payload); len(violations) > 0 {
		r.logger.Debugw("Submit rejected", "kind", op.Kind, "violations", violations)
		return model.Job{}, model.NewValidationError(violations)
	}

	job := &model.Job{
		ID:           uuid.NewString(),
		TenantID:     op.TenantID,
		Kind:         op.Kind,
		Status:       model.StatusProcessing,
		Progress:     0,
		TotalTargets: len(op.TargetRefs()),
		StartedAt:    time.Now(),
		ETASeconds:   100 * r.cfg.SecondsPerPercent,
		Cancelable:   true,
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return model.Job{}, errors.New("registry is closed")
	}
	jobCtx, cancel := context.WithCancel(context.Background())
	r.jobs[job.ID] = job
	r.order = append(r.order, job.ID)
	r.cancels[job.ID] = cancel
	r.wg.Add(1)
	snapshot := *job
	r.mu.Unlock()

	r.logger.Infow("bulk operation submitted",
		"job_id", job.ID, "tenant_id", op.TenantID, "kind", op.Kind, "targets", job.TotalTargets)

	go r.run(jobCtx, job.ID, op)

	return snapshot, nil
}

// run executes the operation's runner and finalizes the job.
func (r *InMemory) run(ctx context.Context, jobID string, op *model.Operation) {
	defer r.wg.Done()

	// Simulated network latency before the job starts making progress,
	// mirroring the submit round-trip against a real job backend. The live
	// executor starts immediately.
	if r.cfg.Mode == "simulate" && r.cfg.SubmitDelay > 0 {
		select {
		case <-ctx.Done():
			return
		case <-time.After(r.cfg.SubmitDelay):
		}
	}

	outcome, err := r.runner.Run(ctx, op, &jobTracker{registry: r, jobID: jobID})
	r.finalize(jobID, outcome, err)
}

// finalize moves the job to its terminal state and records the result.
// Jobs cancelled before the runner returned stay cancelled and produce no
// result.
func (r *InMemory) finalize(jobID string, outcome *model.RunOutcome, runErr error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[jobID]
	if !ok || job.Status.Terminal() {
		return
	}
	delete(r.cancels, jobID)

	if runErr != nil {
		job.Status = model.StatusFailed
		job.Cancelable = false
		r.logger.Errorw("bulk operation failed", "job_id", jobID, "error", runErr)
		return
	}

	job.Advance(100, r.cfg.SecondsPerPercent)
	job.Status = model.StatusCompleted
	job.Cancelable = false
	job.ETASeconds = 0

	result := &model.Result{
		ID:                uuid.NewString(),
		JobID:             jobID,
		TenantID:          job.TenantID,
		Kind:              job.Kind,
		TotalTargets:      job.TotalTargets,
		PerTargetOutcomes: outcome.PerTargetOutcomes,
		Errors:            outcome.Errors,
		CompletedAt:       time.Now(),
	}
	result.Tally()

	if outcome.Export != nil {
		export := *outcome.Export
		r.exports[jobID] = &export
		result.DownloadURL = fmt.Sprintf("/bulk-operations/%s/download", jobID)
	}

	job.Result = result
	r.resultsByJob[jobID] = result
	r.results = append(r.results, jobID)

	r.logger.Infow("bulk operation completed",
		"job_id", jobID, "kind", job.Kind,
		"success", result.SuccessCount, "failed", result.FailureCount, "skipped", result.SkippedCount)
}

// Cancel requests best-effort cancellation of a processing job.
func (r *InMemory) Cancel(jobID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[jobID]
	if !ok {
		return model.ErrJobNotFound
	}
	if job.Status.Terminal() || !job.Cancelable {
		// Racy by design: the job may have completed before the cancel
		// request was observed.
		return nil
	}

	job.Status = model.StatusCancelled
	job.Cancelable = false
	if cancel, ok := r.cancels[jobID]; ok {
		cancel()
		delete(r.cancels, jobID)
	}

	r.logger.Infow("bulk operation cancelled", "job_id", jobID, "kind", job.Kind)
	return nil
}

// Job returns a snapshot of the job with the given ID.
func (r *InMemory) Job(jobID string) (model.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[jobID]
	if !ok {
		return model.Job{}, model.ErrJobNotFound
	}
	return *job, nil
}

// ActiveJobs returns pending and processing jobs in submission order.
func (r *InMemory) ActiveJobs(tenantID string) []model.Job {
	r.mu.Lock()
	defer r.mu.Unlock()

	active := make([]model.Job, 0)
	for _, id := range r.order {
		job, ok := r.jobs[id]
		if !ok || job.TenantID != tenantID || job.Status.Terminal() {
			continue
		}
		active = append(active, *job)
	}
	return active
}

// CompletedResults returns the tenant's results in completion order.
func (r *InMemory) CompletedResults(tenantID string) []model.Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	results := make([]model.Result, 0)
	for _, jobID := range r.results {
		result := r.resultsByJob[jobID]
		if result == nil || result.TenantID != tenantID {
			continue
		}
		results = append(results, *result)
	}
	return results
}

// ClearCompleted drops the tenant's completed results and export files.
func (r *InMemory) ClearCompleted(tenantID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.results[:0]
	for _, jobID := range r.results {
		result := r.resultsByJob[jobID]
		if result == nil {
			continue
		}
		if result.TenantID != tenantID {
			kept = append(kept, jobID)
			continue
		}
		delete(r.resultsByJob, jobID)
		delete(r.exports, jobID)
		if job, ok := r.jobs[jobID]; ok && job.Status.Terminal() {
			delete(r.jobs, jobID)
		}
	}
	r.results = kept

	order := r.order[:0]
	for _, jobID := range r.order {
		if _, ok := r.jobs[jobID]; ok {
			order = append(order, jobID)
		}
	}
	r.order = order
}

// Result returns the completed result for the job.
func (r *InMemory) Result(jobID string) (model.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if result, ok := r.resultsByJob[jobID]; ok {
		return *result, nil
	}
	if _, ok := r.jobs[jobID]; !ok {
		return model.Result{}, model.ErrJobNotFound
	}
	return model.Result{}, model.ErrResultNotReady
}

// Download returns the export file produced by an export job.
func (r *InMemory) Download(jobID string) (model.ExportFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if export, ok := r.exports[jobID]; ok {
		return *export, nil
	}
	if _, ok := r.jobs[jobID]; !ok {
		return model.ExportFile{}, model.ErrJobNotFound
	}
	return model.ExportFile{}, model.ErrNoExport
}

// Close cancels all active jobs and waits for their runners to exit.
func (r *InMemory) Close() {
	r.mu.Lock()
	r.closed = true
	for jobID, cancel := range r.cancels {
		if job, ok := r.jobs[jobID]; ok && !job.Status.Terminal() {
			job.Status = model.StatusCancelled
			job.Cancelable = false
		}
		cancel()
	}
	r.cancels = make(map[string]context.CancelFunc)
	r.mu.Unlock()

	r.wg.Wait()
}

// jobTracker relays runner progress into the registry under its lock.
type jobTracker struct {
	registry *InMemory
	jobID    string
}

// Advance raises the job's progress. Updates after the job reached a
// terminal state are dropped.
func (t *jobTracker) Advance(progress float64) {
	r := t.registry
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[t.jobID]
	if !ok || job.Status != model.StatusProcessing {
		return
	}
	job.Advance(progress, r.cfg.SecondsPerPercent)
}
