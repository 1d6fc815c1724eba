// Package repository provides data access layer for the user directory.
package repository

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/brightclass/admin-api/internal/directory/model"
)

// Repository defines the interface for directory data access operations.
type Repository interface {
	// GetByID finds a user by user_id within a tenant.
	GetByID(ctx context.Context, tenantID, userID string) (*model.User, error)

	// GetByIDs returns the users matching the given IDs within a tenant.
	// Missing IDs are simply absent from the returned slice.
	GetByIDs(ctx context.Context, tenantID string, userIDs []string) ([]model.User, error)

	// List returns users matching the filter plus the unpaginated total.
	List(ctx context.Context, tenantID string, req *model.ListUsersRequest) ([]model.User, int64, error)

	// Create inserts a new user. Returns ErrEmailTaken when the email is
	// already used within the tenant.
	Create(ctx context.Context, user *model.User) error

	// EmailExists reports whether a non-deleted user with the email exists
	// in the tenant.
	EmailExists(ctx context.Context, tenantID, email string) (bool, error)

	// UpdateStatus sets the account status of a user.
	UpdateStatus(ctx context.Context, tenantID, userID, status string) (*model.User, error)

	// UpdateRole sets the role of a user.
	UpdateRole(ctx context.Context, tenantID, userID, role string) (*model.User, error)

	// UpdateGrade sets the grade level of a user.
	UpdateGrade(ctx context.Context, tenantID, userID, grade string) (*model.User, error)

	// UpdateSubject sets the subject of a user.
	UpdateSubject(ctx context.Context, tenantID, userID, subject string) (*model.User, error)

	// RequirePasswordReset flags the user for a forced password reset.
	RequirePasswordReset(ctx context.Context, tenantID, userID string) (*model.User, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new directory repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

// GetByID finds a user by user_id within a tenant.
func (r *repository) GetByID(ctx context.Context, tenantID, userID string) (*model.User, error) {
	r.logger.Debugw("GetByID called", "tenant_id", tenantID, "user_id", userID)

	var user model.User
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrUserNotFound
		}
		r.logger.Errorw("GetByID database error", "user_id", userID, "error", err)
		return nil, err
	}

	return &user, nil
}

// GetByIDs returns the users matching the given IDs within a tenant.
func (r *repository) GetByIDs(ctx context.Context, tenantID string, userIDs []string) ([]model.User, error) {
	r.logger.Debugw("GetByIDs called", "tenant_id", tenantID, "count", len(userIDs))

	if len(userIDs) == 0 {
		return []model.User{}, nil
	}

	var users []model.User
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND user_id IN ?", tenantID, userIDs).
		Find(&users).Error

	if err != nil {
		r.logger.Errorw("GetByIDs database error", "tenant_id", tenantID, "error", err)
		return nil, err
	}

	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

// List returns users matching the filter plus the unpaginated total.
func (r *repository) List(
	ctx context.Context,
	tenantID string,
	req *model.ListUsersRequest,
) ([]model.User, int64, error) {
	r.logger.Debugw("List called", "tenant_id", tenantID, "role", req.Role, "status", req.Status)

	query := r.db.WithContext(ctx).Model(&model.User{}).Where("tenant_id = ?", tenantID)
	if req.Role != "" {
		query = query.Where("role = ?", req.Role)
	}
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.Grade != "" {
		query = query.Where("grade = ?", req.Grade)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("List count error", "tenant_id", tenantID, "error", err)
		return nil, 0, err
	}

	limit := req.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var users []model.User
	err := query.
		Order("created_at ASC, user_id ASC").
		Limit(limit).
		Offset(req.Offset).
		Find(&users).Error

	if err != nil {
		r.logger.Errorw("List database error", "tenant_id", tenantID, "error", err)
		return nil, 0, err
	}

	if users == nil {
		users = []model.User{}
	}
	return users, total, nil
}

// Create inserts a new user.
func (r *repository) Create(ctx context.Context, user *model.User) error {
	r.logger.Infow("Create called", "tenant_id", user.TenantID, "user_id", user.UserID, "email", user.Email)

	taken, err := r.EmailExists(ctx, user.TenantID, user.Email)
	if err != nil {
		return err
	}
	if taken {
		return model.ErrEmailTaken
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		r.logger.Errorw("Create database error", "user_id", user.UserID, "error", err)
		return err
	}
	return nil
}

// EmailExists reports whether a non-deleted user with the email exists.
func (r *repository) EmailExists(ctx context.Context, tenantID, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("tenant_id = ? AND email = ? AND status <> ?", tenantID, email, model.StatusDeleted).
		Count(&count).Error

	if err != nil {
		r.logger.Errorw("EmailExists database error", "tenant_id", tenantID, "error", err)
		return false, err
	}
	return count > 0, nil
}

// UpdateStatus sets the account status of a user.
func (r *repository) UpdateStatus(ctx context.Context, tenantID, userID, status string) (*model.User, error) {
	return r.updateField(ctx, tenantID, userID, "status", status)
}

// UpdateRole sets the role of a user.
func (r *repository) UpdateRole(ctx context.Context, tenantID, userID, role string) (*model.User, error) {
	return r.updateField(ctx, tenantID, userID, "role", role)
}

// UpdateGrade sets the grade level of a user.
func (r *repository) UpdateGrade(ctx context.Context, tenantID, userID, grade string) (*model.User, error) {
	return r.updateField(ctx, tenantID, userID, "grade", grade)
}

// UpdateSubject sets the subject of a user.
func (r *repository) UpdateSubject(ctx context.Context, tenantID, userID, subject string) (*model.User, error) {
	return r.updateField(ctx, tenantID, userID, "subject", subject)
}

// RequirePasswordReset flags the user for a forced password reset.
func (r *repository) RequirePasswordReset(ctx context.Context, tenantID, userID string) (*model.User, error) {
	return r.updateField(ctx, tenantID, userID, "password_reset_required", true)
}

// updateField updates a single column and returns the refreshed user.
func (r *repository) updateField(
	ctx context.Context,
	tenantID, userID, column string,
	value interface{},
) (*model.User, error) {
	r.logger.Infow("updateField called", "tenant_id", tenantID, "user_id", userID, "column", column)

	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		Update(column, value)

	if result.Error != nil {
		r.logger.Errorw("updateField database error", "user_id", userID, "column", column, "error", result.Error)
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, model.ErrUserNotFound
	}

	return r.GetByID(ctx, tenantID, userID)
}
