package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Payload is the kind-specific part of a bulk-operation request. Each
// operation kind maps to exactly one concrete payload type; kinds without
// extra parameters (suspend, activate, delete, reset_password) have a nil
// payload.
type Payload interface {
	isPayload()
}

// Recipient is a single invitee in an invite payload.
type Recipient struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Role      string `json:"role"`
	Grade     string `json:"grade,omitempty"`
	Subject   string `json:"subject,omitempty"`
}

// InvitePayload invites new users to the platform. Recipients may be given
// as structured entries, as free-form text (one address per line or
// comma-separated, optionally "Name <email>"), or both.
type InvitePayload struct {
	Recipients            []Recipient `json:"recipients"`
	RecipientsText        string      `json:"recipients_text,omitempty"`
	Message               string      `json:"message,omitempty"`
	DefaultRole           string      `json:"default_role,omitempty"`
	SendWelcomeEmail      bool        `json:"send_welcome_email"`
	RequirePasswordChange bool        `json:"require_password_change"`
}

// ChangeRolePayload moves the targets to a new role.
type ChangeRolePayload struct {
	NewRole     string `json:"new_role" validate:"required"`
	Reason      string `json:"reason,omitempty"`
	NotifyUsers bool   `json:"notify_users"`
}

// AssignGradePayload assigns a grade level to the targets.
type AssignGradePayload struct {
	Grade       string `json:"grade" validate:"required"`
	NotifyUsers bool   `json:"notify_users"`
}

// AssignSubjectPayload assigns a subject to the targets.
type AssignSubjectPayload struct {
	Subject     string `json:"subject" validate:"required"`
	Department  string `json:"department,omitempty"`
	NotifyUsers bool   `json:"notify_users"`
}

// SendMessagePayload delivers a message to the targets.
type SendMessagePayload struct {
	Subject   string `json:"subject" validate:"required"`
	Message   string `json:"message" validate:"required"`
	Urgency   string `json:"urgency" validate:"omitempty,oneof=low normal high"`
	SendEmail bool   `json:"send_email"`
	SendInApp bool   `json:"send_in_app"`
}

// ExportPayload exports the targets' directory records to a file.
type ExportPayload struct {
	Format          string `json:"format"      validate:"required"`
	FieldGroup      string `json:"field_group" validate:"required"`
	IncludeInactive bool   `json:"include_inactive"`
	IncludeDeleted  bool   `json:"include_deleted"`
}

func (InvitePayload) isPayload()        {}
func (ChangeRolePayload) isPayload()    {}
func (AssignGradePayload) isPayload()   {}
func (AssignSubjectPayload) isPayload() {}
func (SendMessagePayload) isPayload()   {}
func (ExportPayload) isPayload()        {}

// DecodePayload unmarshals the raw payload into the concrete type for the
// kind. Kinds without parameters return nil and accept an absent or empty
// payload.
func DecodePayload(kind OperationKind, raw json.RawMessage) (Payload, error) {
	switch kind {
	case KindInvite:
		return decodeInto[InvitePayload](kind, raw)
	case KindChangeRole:
		return decodeInto[ChangeRolePayload](kind, raw)
	case KindAssignGrade:
		return decodeInto[AssignGradePayload](kind, raw)
	case KindAssignSubject:
		return decodeInto[AssignSubjectPayload](kind, raw)
	case KindSendMessage:
		return decodeInto[SendMessagePayload](kind, raw)
	case KindExport:
		return decodeInto[ExportPayload](kind, raw)
	case KindSuspend, KindActivate, KindDelete, KindResetPassword:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown operation kind: %q", kind)
	}
}

func decodeInto[T Payload](kind OperationKind, raw json.RawMessage) (Payload, error) {
	var payload T
	if len(raw) == 0 {
		return nil, fmt.Errorf("payload is required for kind %q", kind)
	}
	decoder := json.NewDecoder(strings.NewReader(string(raw)))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("invalid payload for kind %q: %w", kind, err)
	}
	return payload, nil
}

// AllRecipients merges the structured recipient entries with entries parsed
// from the free-form text, preserving order and dropping duplicate emails.
func (p InvitePayload) AllRecipients() []Recipient {
	merged := make([]Recipient, 0, len(p.Recipients))
	seen := make(map[string]bool)

	appendRecipient := func(rec Recipient) {
		email := strings.ToLower(strings.TrimSpace(rec.Email))
		if email == "" || seen[email] {
			return
		}
		seen[email] = true
		rec.Email = email
		if rec.Role == "" {
			rec.Role = p.DefaultRole
		}
		merged = append(merged, rec)
	}

	for _, rec := range p.Recipients {
		appendRecipient(rec)
	}
	for _, rec := range ParseRecipients(p.RecipientsText) {
		appendRecipient(rec)
	}
	return merged
}

// ParseRecipients extracts recipients from free-form text. Entries are
// separated by newlines, commas or semicolons; "Name <email>" entries keep
// the name as the first name.
func ParseRecipients(text string) []Recipient {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == ',' || r == ';'
	})

	var recipients []Recipient
	for _, field := range fields {
		entry := strings.TrimSpace(field)
		if entry == "" {
			continue
		}

		var rec Recipient
		if open := strings.Index(entry, "<"); open >= 0 && strings.HasSuffix(entry, ">") {
			rec.FirstName = strings.TrimSpace(entry[:open])
			rec.Email = strings.TrimSpace(entry[open+1 : len(entry)-1])
		} else {
			rec.Email = entry
		}

		if !strings.Contains(rec.Email, "@") {
			continue
		}
		recipients = append(recipients, rec)
	}
	return recipients
}
