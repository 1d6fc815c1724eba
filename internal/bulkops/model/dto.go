package model

import "encoding/json"

// SubmitRequest is the wire-level bulk-operation submission.
// Payload is decoded into the kind-specific type by DecodePayload.
type SubmitRequest struct {
	Kind          string          `json:"kind" binding:"required"`
	TargetUserIDs []string        `json:"target_user_ids"`
	Payload       json.RawMessage `json:"payload,omitempty"`
}

// SubmitResponse acknowledges an accepted bulk operation.
type SubmitResponse struct {
	Job Job `json:"job"`
	// Warnings carries advisory elevated-risk notices; they never block
	// submission.
	Warnings []string `json:"warnings,omitempty"`
}

// JobResponse wraps a single job.
type JobResponse struct {
	Job Job `json:"job"`
}

// ActiveJobsResponse lists jobs that are pending or processing.
type ActiveJobsResponse struct {
	Jobs []Job `json:"jobs"`
}

// ResultsResponse lists completed results in insertion order.
type ResultsResponse struct {
	Results []Result `json:"results"`
}

// ResultResponse wraps a single result.
type ResultResponse struct {
	Result Result `json:"result"`
}

// ValidationFailureResponse is the 400 body for rejected submissions.
type ValidationFailureResponse struct {
	Error struct {
		Code       string   `json:"code"`
		Message    string   `json:"message"`
		Violations []string `json:"violations"`
	} `json:"error"`
}
