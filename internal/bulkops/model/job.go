package model

import (
	"math"
	"strings"
	"time"
)

// JobStatus represents the lifecycle state of a bulk-operation job.
type JobStatus string

// Job lifecycle states. A job starts in pending, moves to processing and
// ends in exactly one of completed, failed or cancelled.
const (
	StatusPending    JobStatus = "pending"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusCancelled  JobStatus = "cancelled"
)

// Terminal reports whether the status is final.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Job tracks one in-flight bulk operation.
type Job struct {
	ID       string        `json:"id"`
	TenantID string        `json:"tenant_id"`
	Kind     OperationKind `json:"kind"`
	Status   JobStatus     `json:"status"`
	// Progress is a percentage in [0, 100], monotonically non-decreasing
	// while the job is processing and exactly 100 on completion.
	Progress       float64   `json:"progress"`
	TotalTargets   int       `json:"total_targets"`
	ProcessedCount int       `json:"processed_count"`
	StartedAt      time.Time `json:"started_at"`
	// ETASeconds is the estimated time to completion, recomputed on every
	// progress update.
	ETASeconds float64 `json:"eta_seconds"`
	// Cancelable is true only while the job is processing.
	Cancelable bool `json:"cancelable"`
	// Result is set once the job completes.
	Result *Result `json:"result,omitempty"`
}

// Advance raises the job's progress, clamping to 100, and recomputes the
// processed count and ETA. Progress never decreases.
func (j *Job) Advance(progress, secondsPerPercent float64) {
	if progress > 100 {
		progress = 100
	}
	if progress < j.Progress {
		return
	}
	j.Progress = progress
	j.ProcessedCount = int(math.Round(progress / 100 * float64(j.TotalTargets)))
	j.ETASeconds = (100 - progress) * secondsPerPercent
}

// Operation is a validated bulk-operation request handed to the registry.
type Operation struct {
	TenantID      string
	Kind          OperationKind
	TargetUserIDs []string
	Payload       Payload
}

// TargetRef identifies one target of the operation.
type TargetRef struct {
	ID    string
	Label string
}

// TargetRefs returns the operation's targets in submission order. For invite
// operations the targets are the parsed recipients, keyed by email; for all
// other kinds they are the selected user IDs.
func (op *Operation) TargetRefs() []TargetRef {
	if op.Kind == KindInvite {
		payload, ok := op.Payload.(InvitePayload)
		if !ok {
			return nil
		}
		recipients := payload.AllRecipients()
		refs := make([]TargetRef, 0, len(recipients))
		for _, rec := range recipients {
			label := strings.TrimSpace(rec.FirstName + " " + rec.LastName)
			if label == "" {
				label = rec.Email
			}
			refs = append(refs, TargetRef{ID: rec.Email, Label: label})
		}
		return refs
	}

	refs := make([]TargetRef, 0, len(op.TargetUserIDs))
	for _, id := range op.TargetUserIDs {
		refs = append(refs, TargetRef{ID: id, Label: id})
	}
	return refs
}
