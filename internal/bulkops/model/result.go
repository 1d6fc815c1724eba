package model

import "time"

// Outcome classifies how a bulk operation affected one target.
type Outcome string

// Per-target outcomes.
const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
)

// TargetOutcome records the effect of the operation on a single target.
type TargetOutcome struct {
	TargetID    string  `json:"target_id"`
	TargetLabel string  `json:"target_label"`
	Outcome     Outcome `json:"outcome"`
	Message     string  `json:"message,omitempty"`
}

// Result is the immutable record produced when a job completes.
// SuccessCount + FailureCount + SkippedCount always equals TotalTargets.
type Result struct {
	ID           string        `json:"id"`
	JobID        string        `json:"job_id"`
	TenantID     string        `json:"tenant_id"`
	Kind         OperationKind `json:"kind"`
	TotalTargets int           `json:"total_targets"`
	SuccessCount int           `json:"success_count"`
	FailureCount int           `json:"failure_count"`
	SkippedCount int           `json:"skipped_count"`
	// PerTargetOutcomes preserves the submission order of the targets.
	PerTargetOutcomes []TargetOutcome `json:"per_target_outcomes"`
	// Errors lists operation-level business-rule violations that applied to
	// the whole batch.
	Errors      []string  `json:"errors,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
	// DownloadURL is set for export results only.
	DownloadURL string `json:"download_url,omitempty"`
}

// Tally recomputes the outcome counters from the per-target outcomes.
func (r *Result) Tally() {
	r.SuccessCount, r.FailureCount, r.SkippedCount = 0, 0, 0
	for _, outcome := range r.PerTargetOutcomes {
		switch outcome.Outcome {
		case OutcomeSuccess:
			r.SuccessCount++
		case OutcomeFailed:
			r.FailureCount++
		case OutcomeSkipped:
			r.SkippedCount++
		}
	}
}

// ExportFile holds the generated export content for an export-kind result.
type ExportFile struct {
	FileName    string
	ContentType string
	Content     []byte
}

// RunOutcome is what a runner reports back when a job finishes.
type RunOutcome struct {
	PerTargetOutcomes []TargetOutcome
	Errors            []string
	// Export carries the generated file for export-kind operations.
	Export *ExportFile
}
