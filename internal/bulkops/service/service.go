// Package service provides business logic layer for bulk operations.
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/brightclass/admin-api/internal/bulkops/model"
	"github.com/brightclass/admin-api/internal/bulkops/registry"
)

// Service defines the interface for bulk-operation business logic.
type Service interface {
	// Submit decodes and submits a bulk operation for the tenant.
	Submit(ctx context.Context, tenantID string, req *model.SubmitRequest) (*model.SubmitResponse, error)

	// Cancel requests best-effort cancellation of a job.
	Cancel(jobID string) error

	// GetJob returns the current state of a job.
	GetJob(jobID string) (*model.JobResponse, error)

	// ActiveJobs returns the tenant's pending and processing jobs.
	ActiveJobs(tenantID string) *model.ActiveJobsResponse

	// CompletedResults returns the tenant's completed results.
	CompletedResults(tenantID string) *model.ResultsResponse

	// ClearCompleted drops the tenant's completed results.
	ClearCompleted(tenantID string)

	// GetResult returns the completed result for a job.
	GetResult(jobID string) (*model.ResultResponse, error)

	// Download returns the export file for an export job.
	Download(jobID string) (model.ExportFile, error)
}

type service struct {
	registry registry.Registry
	logger   *zap.SugaredLogger
}

// New creates a new bulk-operation service instance.
func New(reg registry.Registry, logger *zap.SugaredLogger) Service {
	return &service{registry: reg, logger: logger}
}

// Submit decodes and submits a bulk operation for the tenant.
func (s *service) Submit(
	ctx context.Context,
	tenantID string,
	req *model.SubmitRequest,
) (*model.SubmitResponse, error) {
	s.logger.Debugw("Submit called", "tenant_id", tenantID, "kind", req.Kind, "targets", len(req.TargetUserIDs))

	kind, err := model.ParseKind(req.Kind)
	if err != nil {
		return nil, model.NewValidationError([]string{err.Error()})
	}

	payload, err := model.DecodePayload(kind, req.Payload)
	if err != nil {
		return nil, model.NewValidationError([]string{err.Error()})
	}

	op := &model.Operation{
		TenantID:      tenantID,
		Kind:          kind,
		TargetUserIDs: req.TargetUserIDs,
		Payload:       payload,
	}

	job, err := s.registry.Submit(ctx, op)
	if err != nil {
		return nil, err
	}

	return &model.SubmitResponse{
		Job:      job,
		Warnings: model.RiskWarnings(kind, req.TargetUserIDs, payload),
	}, nil
}

// Cancel requests best-effort cancellation of a job.
func (s *service) Cancel(jobID string) error {
	if jobID == "" {
		return model.ErrJobNotFound
	}
	return s.registry.Cancel(jobID)
}

// GetJob returns the current state of a job.
func (s *service) GetJob(jobID string) (*model.JobResponse, error) {
	job, err := s.registry.Job(jobID)
	if err != nil {
		return nil, err
	}
	return &model.JobResponse{Job: job}, nil
}

// ActiveJobs returns the tenant's pending and processing jobs.
func (s *service) ActiveJobs(tenantID string) *model.ActiveJobsResponse {
	return &model.ActiveJobsResponse{Jobs: s.registry.ActiveJobs(tenantID)}
}

// CompletedResults returns the tenant's completed results.
func (s *service) CompletedResults(tenantID string) *model.ResultsResponse {
	return &model.ResultsResponse{Results: s.registry.CompletedResults(tenantID)}
}

// ClearCompleted drops the tenant's completed results.
func (s *service) ClearCompleted(tenantID string) {
	s.registry.ClearCompleted(tenantID)
}

// GetResult returns the completed result for a job.
func (s *service) GetResult(jobID string) (*model.ResultResponse, error) {
	result, err := s.registry.Result(jobID)
	if err != nil {
		return nil, err
	}
	return &model.ResultResponse{Result: result}, nil
}

// Download returns the export file for an export job.
func (s *service) Download(jobID string) (model.ExportFile, error) {
	return s.registry.Download(jobID)
}
