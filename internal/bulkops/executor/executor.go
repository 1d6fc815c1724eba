// Package executor runs bulk operations against the user directory,
// producing authoritative per-target outcomes.
package executor

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brightclass/admin-api/internal/bulkops/model"
	"github.com/brightclass/admin-api/internal/bulkops/registry"
	directory "github.com/brightclass/admin-api/internal/directory/model"
	"github.com/brightclass/admin-api/internal/directory/repository"
)

// Executor is the directory-backed Runner. Unlike the simulator it performs
// the requested mutation per target and reports what actually happened.
type Executor struct {
	repo   repository.Repository
	logger *zap.SugaredLogger
}

var _ registry.Runner = (*Executor)(nil)

// New creates an executor backed by the directory repository.
func New(repo repository.Repository, logger *zap.SugaredLogger) *Executor {
	return &Executor{repo: repo, logger: logger}
}

// Run executes the operation target by target, advancing progress after each
// one. Per-target problems become failed/skipped outcomes; only systemic
// errors (target resolution, cancellation) abort the run.
func (e *Executor) Run(
	ctx context.Context,
	op *model.Operation,
	tracker registry.Tracker,
) (*model.RunOutcome, error) {
	switch op.Kind {
	case model.KindInvite:
		return e.runInvite(ctx, op, tracker)
	case model.KindExport:
		return e.runExport(ctx, op, tracker)
	default:
		return e.runPerTarget(ctx, op, tracker)
	}
}

// runPerTarget handles the kinds that mutate existing directory users.
func (e *Executor) runPerTarget(
	ctx context.Context,
	op *model.Operation,
	tracker registry.Tracker,
) (*model.RunOutcome, error) {
	users, err := e.repo.GetByIDs(ctx, op.TenantID, op.TargetUserIDs)
	if err != nil {
		return nil, fmt.Errorf("resolving targets: %w", err)
	}

	byID := make(map[string]*directory.User, len(users))
	for i := range users {
		byID[users[i].UserID] = &users[i]
	}

	outcome := &model.RunOutcome{
		PerTargetOutcomes: make([]model.TargetOutcome, 0, len(op.TargetUserIDs)),
	}

	// Operation-level errors are deduplicated and kept in first-seen order.
	seenErrors := make(map[string]bool)
	recordError := func(message string) {
		if seenErrors[message] {
			return
		}
		seenErrors[message] = true
		outcome.Errors = append(outcome.Errors, message)
	}

	for i, targetID := range op.TargetUserIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		user, found := byID[targetID]
		var target model.TargetOutcome
		if !found {
			target = model.TargetOutcome{
				TargetID:    targetID,
				TargetLabel: targetID,
				Outcome:     model.OutcomeFailed,
				Message:     "user not found",
			}
		} else {
			target = e.applyToUser(ctx, op, user, recordError)
		}

		outcome.PerTargetOutcomes = append(outcome.PerTargetOutcomes, target)
		tracker.Advance(float64(i+1) / float64(len(op.TargetUserIDs)) * 100)
	}

	return outcome, nil
}

// applyToUser performs the kind-specific mutation for one resolved target.
func (e *Executor) applyToUser(
	ctx context.Context,
	op *model.Operation,
	user *directory.User,
	recordError func(message string),
) model.TargetOutcome {
	target := model.TargetOutcome{
		TargetID:    user.UserID,
		TargetLabel: user.DisplayName(),
	}

	fail := func(message string) model.TargetOutcome {
		target.Outcome = model.OutcomeFailed
		target.Message = message
		return target
	}
	skip := func(message string) model.TargetOutcome {
		target.Outcome = model.OutcomeSkipped
		target.Message = message
		return target
	}
	success := func(message string) model.TargetOutcome {
		target.Outcome = model.OutcomeSuccess
		target.Message = message
		return target
	}

	switch op.Kind {
	case model.KindSuspend:
		if user.Status == directory.StatusDeleted {
			return skip("user is deleted")
		}
		if user.Status == directory.StatusSuspended {
			return skip("user is already suspended")
		}
		if _, err := e.repo.UpdateStatus(ctx, op.TenantID, user.UserID, directory.StatusSuspended); err != nil {
			return fail(err.Error())
		}
		return success("user suspended")

	case model.KindActivate:
		if user.Status == directory.StatusDeleted {
			return skip("user is deleted")
		}
		if user.Status == directory.StatusActive {
			return skip("user is already active")
		}
		if _, err := e.repo.UpdateStatus(ctx, op.TenantID, user.UserID, directory.StatusActive); err != nil {
			return fail(err.Error())
		}
		return success("user activated")

	case model.KindDelete:
		if user.Role == directory.RoleAdmin {
			recordError("cannot delete admin users")
			return fail("admin accounts cannot be deleted")
		}
		if user.Status == directory.StatusDeleted {
			return skip("user is already deleted")
		}
		if _, err := e.repo.UpdateStatus(ctx, op.TenantID, user.UserID, directory.StatusDeleted); err != nil {
			return fail(err.Error())
		}
		return success("user deleted")

	case model.KindChangeRole:
		payload := op.Payload.(model.ChangeRolePayload)
		if user.Role == payload.NewRole {
			return skip(fmt.Sprintf("user already has role %q", payload.NewRole))
		}
		if _, err := e.repo.UpdateRole(ctx, op.TenantID, user.UserID, payload.NewRole); err != nil {
			return fail(err.Error())
		}
		return success(fmt.Sprintf("role changed to %q", payload.NewRole))

	case model.KindAssignGrade:
		payload := op.Payload.(model.AssignGradePayload)
		if user.Role != directory.RoleStudent {
			return skip("grades apply to students only")
		}
		if _, err := e.repo.UpdateGrade(ctx, op.TenantID, user.UserID, payload.Grade); err != nil {
			return fail(err.Error())
		}
		return success(fmt.Sprintf("grade set to %q", payload.Grade))

	case model.KindAssignSubject:
		payload := op.Payload.(model.AssignSubjectPayload)
		if user.Role != directory.RoleTeacher {
			return skip("subjects apply to teachers only")
		}
		if _, err := e.repo.UpdateSubject(ctx, op.TenantID, user.UserID, payload.Subject); err != nil {
			return fail(err.Error())
		}
		return success(fmt.Sprintf("subject set to %q", payload.Subject))

	case model.KindSendMessage:
		payload := op.Payload.(model.SendMessagePayload)
		if user.Status == directory.StatusDeleted {
			return skip("user is deleted")
		}
		e.logger.Infow("message queued",
			"tenant_id", op.TenantID, "user_id", user.UserID,
			"subject", payload.Subject, "urgency", payload.Urgency)
		return success("message queued")

	case model.KindResetPassword:
		if user.Status == directory.StatusDeleted {
			return skip("user is deleted")
		}
		if _, err := e.repo.RequirePasswordReset(ctx, op.TenantID, user.UserID); err != nil {
			return fail(err.Error())
		}
		return success("password reset required on next sign-in")
	}

	return fail(fmt.Sprintf("unsupported operation kind: %q", op.Kind))
}

// runInvite creates directory users for each recipient.
func (e *Executor) runInvite(
	ctx context.Context,
	op *model.Operation,
	tracker registry.Tracker,
) (*model.RunOutcome, error) {
	payload := op.Payload.(model.InvitePayload)
	recipients := payload.AllRecipients()

	outcome := &model.RunOutcome{
		PerTargetOutcomes: make([]model.TargetOutcome, 0, len(recipients)),
	}

	for i, rec := range recipients {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		target := model.TargetOutcome{TargetID: rec.Email}
		user := &directory.User{
			UserID:                uuid.NewString(),
			TenantID:              op.TenantID,
			Email:                 rec.Email,
			FirstName:             rec.FirstName,
			LastName:              rec.LastName,
			Role:                  rec.Role,
			Grade:                 rec.Grade,
			Subject:               rec.Subject,
			Status:                directory.StatusInvited,
			PasswordResetRequired: payload.RequirePasswordChange,
		}
		target.TargetLabel = user.DisplayName()

		switch err := e.repo.Create(ctx, user); {
		case err == nil:
			target.Outcome = model.OutcomeSuccess
			target.Message = "invitation created"
		case errors.Is(err, directory.ErrEmailTaken):
			target.Outcome = model.OutcomeSkipped
			target.Message = "a user with this email already exists"
		default:
			target.Outcome = model.OutcomeFailed
			target.Message = err.Error()
		}

		outcome.PerTargetOutcomes = append(outcome.PerTargetOutcomes, target)
		tracker.Advance(float64(i+1) / float64(len(recipients)) * 100)
	}

	return outcome, nil
}

// runExport collects the targets' records and renders the export file.
func (e *Executor) runExport(
	ctx context.Context,
	op *model.Operation,
	tracker registry.Tracker,
) (*model.RunOutcome, error) {
	payload := op.Payload.(model.ExportPayload)

	users, err := e.repo.GetByIDs(ctx, op.TenantID, op.TargetUserIDs)
	if err != nil {
		return nil, fmt.Errorf("resolving targets: %w", err)
	}

	byID := make(map[string]*directory.User, len(users))
	for i := range users {
		byID[users[i].UserID] = &users[i]
	}

	outcome := &model.RunOutcome{
		PerTargetOutcomes: make([]model.TargetOutcome, 0, len(op.TargetUserIDs)),
	}
	var exported []directory.User

	for i, targetID := range op.TargetUserIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		target := model.TargetOutcome{TargetID: targetID, TargetLabel: targetID}
		switch user, found := byID[targetID]; {
		case !found:
			target.Outcome = model.OutcomeFailed
			target.Message = "user not found"
		case user.Status == directory.StatusDeleted && !payload.IncludeDeleted:
			target.TargetLabel = user.DisplayName()
			target.Outcome = model.OutcomeSkipped
			target.Message = "deleted users excluded"
		case user.Status == directory.StatusSuspended && !payload.IncludeInactive:
			target.TargetLabel = user.DisplayName()
			target.Outcome = model.OutcomeSkipped
			target.Message = "inactive users excluded"
		default:
			target.TargetLabel = user.DisplayName()
			target.Outcome = model.OutcomeSuccess
			target.Message = "exported"
			exported = append(exported, *user)
		}

		outcome.PerTargetOutcomes = append(outcome.PerTargetOutcomes, target)
		tracker.Advance(float64(i+1) / float64(len(op.TargetUserIDs)) * 100)
	}

	outcome.Export = BuildExport(exported, payload)
	return outcome, nil
}
