// Package model defines the bulk-operation domain: operation kinds, payload
// shapes, jobs, results and their validation rules.
package model

import "fmt"

// OperationKind identifies one of the supported bulk operations. The set is
// closed: the validator and the runners switch exhaustively over it.
type OperationKind string

// Supported operation kinds.
const (
	KindInvite        OperationKind = "invite"
	KindSuspend       OperationKind = "suspend"
	KindActivate      OperationKind = "activate"
	KindDelete        OperationKind = "delete"
	KindExport        OperationKind = "export"
	KindChangeRole    OperationKind = "change_role"
	KindAssignGrade   OperationKind = "assign_grade"
	KindAssignSubject OperationKind = "assign_subject"
	KindSendMessage   OperationKind = "send_message"
	KindResetPassword OperationKind = "reset_password"
)

var allKinds = map[OperationKind]bool{
	KindInvite:        true,
	KindSuspend:       true,
	KindActivate:      true,
	KindDelete:        true,
	KindExport:        true,
	KindChangeRole:    true,
	KindAssignGrade:   true,
	KindAssignSubject: true,
	KindSendMessage:   true,
	KindResetPassword: true,
}

// ParseKind validates a wire-level kind string.
func ParseKind(s string) (OperationKind, error) {
	kind := OperationKind(s)
	if !allKinds[kind] {
		return "", fmt.Errorf("unknown operation kind: %q", s)
	}
	return kind, nil
}

// Valid reports whether the kind belongs to the supported set.
func (k OperationKind) Valid() bool {
	return allKinds[k]
}

// RequiresTargets reports whether the kind operates on selected user IDs.
// Invite is the exception: its targets are the parsed recipients.
func (k OperationKind) RequiresTargets() bool {
	return k != KindInvite
}

// Export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatJSON = "json"
	FormatPDF  = "pdf"
)

// Export field groups.
const (
	FieldGroupBasic    = "basic"
	FieldGroupContact  = "contact"
	FieldGroupAcademic = "academic"
	FieldGroupFull     = "full"
)

// AllowedExportFormats defines the closed set of export formats.
var AllowedExportFormats = map[string]bool{
	FormatCSV:  true,
	FormatXLSX: true,
	FormatJSON: true,
	FormatPDF:  true,
}

// AllowedFieldGroups defines the closed set of export field groups.
var AllowedFieldGroups = map[string]bool{
	FieldGroupBasic:    true,
	FieldGroupContact:  true,
	FieldGroupAcademic: true,
	FieldGroupFull:     true,
}

// Message urgency levels.
const (
	UrgencyLow    = "low"
	UrgencyNormal = "normal"
	UrgencyHigh   = "high"
)
