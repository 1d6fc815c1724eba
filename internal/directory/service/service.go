// Package service provides business logic layer for the user directory.
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/brightclass/admin-api/internal/directory/model"
	"github.com/brightclass/admin-api/internal/directory/repository"
)

// Service defines the interface for directory business logic operations.
type Service interface {
	// ListUsers returns directory users matching the filter.
	ListUsers(ctx context.Context, tenantID string, req *model.ListUsersRequest) (*model.ListUsersResponse, error)

	// GetUser returns a single directory user.
	GetUser(ctx context.Context, tenantID, userID string) (*model.GetUserResponse, error)
}

type service struct {
	repo   repository.Repository
	logger *zap.SugaredLogger
}

// New creates a new directory service instance.
func New(repo repository.Repository, logger *zap.SugaredLogger) Service {
	return &service{repo: repo, logger: logger}
}

// ListUsers returns directory users matching the filter.
func (s *service) ListUsers(
	ctx context.Context,
	tenantID string,
	req *model.ListUsersRequest,
) (*model.ListUsersResponse, error) {
	s.logger.Debugw("ListUsers called", "tenant_id", tenantID, "role", req.Role, "status", req.Status)

	if req.Role != "" && !model.AllowedRoles[req.Role] {
		return nil, model.ErrInvalidFilter
	}
	if req.Status != "" && !validStatus(req.Status) {
		return nil, model.ErrInvalidFilter
	}
	if req.Grade != "" && !model.AllowedGrades[req.Grade] {
		return nil, model.ErrInvalidFilter
	}

	users, total, err := s.repo.List(ctx, tenantID, req)
	if err != nil {
		s.logger.Errorw("ListUsers failed", "tenant_id", tenantID, "error", err)
		return nil, err
	}

	return &model.ListUsersResponse{Users: users, Total: total}, nil
}

// GetUser returns a single directory user.
func (s *service) GetUser(ctx context.Context, tenantID, userID string) (*model.GetUserResponse, error) {
	s.logger.Debugw("GetUser called", "tenant_id", tenantID, "user_id", userID)

	if userID == "" {
		return nil, model.ErrUserNotFound
	}

	user, err := s.repo.GetByID(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}

	return &model.GetUserResponse{User: *user}, nil
}

func validStatus(status string) bool {
	switch status {
	case model.StatusInvited, model.StatusActive, model.StatusSuspended, model.StatusDeleted:
		return true
	}
	return false
}
