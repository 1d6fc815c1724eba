package model

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	directory "github.com/brightclass/admin-api/internal/directory/model"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// getValidator returns the shared struct validator instance.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// DeleteRiskThreshold is the target count above which a delete surfaces an
// elevated-risk warning.
const DeleteRiskThreshold = 10

// Validate performs the pre-flight checks for a bulk operation and returns
// the list of human-readable violations. An empty slice means the request is
// valid. Pure function: no side effects, no I/O.
func Validate(kind OperationKind, targetUserIDs []string, payload Payload) []string {
	var violations []string

	if !kind.Valid() {
		return []string{fmt.Sprintf("unknown operation kind: %q", kind)}
	}

	if kind.RequiresTargets() && len(targetUserIDs) == 0 {
		violations = append(violations, "at least one target user is required")
	}

	violations = append(violations, structViolations(payload)...)

	switch kind {
	case KindInvite:
		violations = append(violations, validateInvite(payload)...)
	case KindChangeRole:
		violations = append(violations, validateChangeRole(payload)...)
	case KindAssignGrade:
		violations = append(violations, validateAssignGrade(payload)...)
	case KindAssignSubject:
		violations = append(violations, validateAssignSubject(payload)...)
	case KindSendMessage:
		violations = append(violations, validateSendMessage(payload)...)
	case KindExport:
		violations = append(violations, validateExport(payload)...)
	case KindSuspend, KindActivate, KindDelete, KindResetPassword:
		// No payload beyond target IDs.
	}

	return violations
}

// RiskWarnings returns advisory elevated-risk notices for the operation.
// Warnings never block submission.
func RiskWarnings(kind OperationKind, targetUserIDs []string, payload Payload) []string {
	var warnings []string

	switch kind {
	case KindDelete:
		if len(targetUserIDs) > DeleteRiskThreshold {
			warnings = append(warnings, fmt.Sprintf(
				"deleting %d users at once is irreversible; consider suspending instead",
				len(targetUserIDs)))
		}
	case KindChangeRole:
		p, ok := payload.(ChangeRolePayload)
		if ok && p.NewRole == directory.RoleAdmin {
			warnings = append(warnings, fmt.Sprintf(
				"granting admin access to %d users; admins can manage all tenant data",
				len(targetUserIDs)))
		}
	}

	return warnings
}

// structViolations runs struct-tag validation and converts field errors into
// readable violation strings.
func structViolations(payload Payload) []string {
	if payload == nil {
		return nil
	}

	err := getValidator().Struct(payload)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}

	violations := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		switch fieldErr.Tag() {
		case "required":
			violations = append(violations, fmt.Sprintf("%s is required", fieldErr.Field()))
		case "email":
			violations = append(violations, fmt.Sprintf("%s must be a valid email address", fieldErr.Field()))
		case "oneof":
			violations = append(violations, fmt.Sprintf("%s must be one of: %s", fieldErr.Field(), fieldErr.Param()))
		default:
			violations = append(violations, fmt.Sprintf("%s failed %s validation", fieldErr.Field(), fieldErr.Tag()))
		}
	}
	return violations
}

func validateInvite(payload Payload) []string {
	p, ok := payload.(InvitePayload)
	if !ok {
		return []string{"invite payload is required"}
	}

	recipients := p.AllRecipients()
	if len(recipients) == 0 {
		return []string{"at least one recipient is required"}
	}

	var violations []string
	for i, rec := range recipients {
		if !strings.Contains(rec.Email, "@") {
			violations = append(violations, fmt.Sprintf("recipient %d: invalid email %q", i+1, rec.Email))
		}
		if rec.Role == "" {
			violations = append(violations, fmt.Sprintf("recipient %d (%s): role is required", i+1, rec.Email))
			continue
		}
		if !directory.AllowedRoles[rec.Role] {
			violations = append(violations, fmt.Sprintf("recipient %d (%s): unknown role %q", i+1, rec.Email, rec.Role))
		}
	}
	return violations
}

func validateChangeRole(payload Payload) []string {
	p, ok := payload.(ChangeRolePayload)
	if !ok {
		return []string{"change_role payload is required"}
	}
	if p.NewRole != "" && !directory.AllowedRoles[p.NewRole] {
		return []string{fmt.Sprintf("unknown role: %q", p.NewRole)}
	}
	return nil
}

func validateAssignGrade(payload Payload) []string {
	p, ok := payload.(AssignGradePayload)
	if !ok {
		return []string{"assign_grade payload is required"}
	}
	if p.Grade != "" && !directory.AllowedGrades[p.Grade] {
		return []string{fmt.Sprintf("unknown grade: %q", p.Grade)}
	}
	return nil
}

func validateAssignSubject(payload Payload) []string {
	p, ok := payload.(AssignSubjectPayload)
	if !ok {
		return []string{"assign_subject payload is required"}
	}
	if p.Subject != "" && !directory.AllowedSubjects[p.Subject] {
		return []string{fmt.Sprintf("unknown subject: %q", p.Subject)}
	}
	return nil
}

func validateSendMessage(payload Payload) []string {
	if _, ok := payload.(SendMessagePayload); !ok {
		return []string{"send_message payload is required"}
	}
	// Subject/message presence is covered by struct tags.
	return nil
}

func validateExport(payload Payload) []string {
	p, ok := payload.(ExportPayload)
	if !ok {
		return []string{"export payload is required"}
	}

	var violations []string
	if p.Format != "" && !AllowedExportFormats[p.Format] {
		violations = append(violations, fmt.Sprintf("unknown export format: %q", p.Format))
	}
	if p.FieldGroup != "" && !AllowedFieldGroups[p.FieldGroup] {
		violations = append(violations, fmt.Sprintf("unknown field group: %q", p.FieldGroup))
	}
	return violations
}
