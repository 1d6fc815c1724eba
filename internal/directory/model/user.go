// Package model defines the user directory entities.
package model

import (
	"time"

	"gorm.io/gorm"
)

// Roles assignable to directory users.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
	RoleStaff   = "staff"
)

// Account statuses.
const (
	StatusInvited   = "invited"
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusDeleted   = "deleted"
)

// AllowedRoles defines the closed set of assignable roles.
var AllowedRoles = map[string]bool{
	RoleAdmin:   true,
	RoleTeacher: true,
	RoleStudent: true,
	RoleStaff:   true,
}

// AllowedGrades defines the closed set of grade levels.
var AllowedGrades = map[string]bool{
	"K": true, "1": true, "2": true, "3": true, "4": true, "5": true,
	"6": true, "7": true, "8": true, "9": true, "10": true, "11": true, "12": true,
}

// AllowedSubjects defines the closed set of teachable subjects.
var AllowedSubjects = map[string]bool{
	"math":               true,
	"science":            true,
	"english":            true,
	"history":            true,
	"art":                true,
	"music":              true,
	"physical_education": true,
	"computer_science":   true,
}

// User represents a directory user entity.
// Matches the users table schema.
type User struct {
	UserID    string `gorm:"primaryKey;column:user_id;type:varchar(255)"                                       json:"user_id"`
	TenantID  string `gorm:"column:tenant_id;type:varchar(255);not null;index:idx_users_tenant"                json:"tenant_id"`
	Email     string `gorm:"column:email;type:varchar(255);not null;index:idx_users_tenant_email,composite:tenant_id" json:"email"`
	FirstName string `gorm:"column:first_name;type:varchar(255);not null"                                      json:"first_name"`
	LastName  string `gorm:"column:last_name;type:varchar(255);not null"                                       json:"last_name"`
	// Role is one of admin, teacher, student, staff.
	Role string `gorm:"column:role;type:varchar(32);not null;index:idx_users_tenant_role,composite:tenant_id" json:"role"`
	// Grade is set for students only (K-12).
	Grade string `gorm:"column:grade;type:varchar(8)" json:"grade,omitempty"`
	// Subject is set for teachers only.
	Subject string `gorm:"column:subject;type:varchar(64)" json:"subject,omitempty"`
	// Status is one of invited, active, suspended, deleted.
	Status                string    `gorm:"column:status;type:varchar(32);not null;default:active"    json:"status"`
	PasswordResetRequired bool      `gorm:"column:password_reset_required;not null;default:false"     json:"password_reset_required"`
	CreatedAt             time.Time `gorm:"column:created_at;autoCreateTime"                          json:"-"`
	UpdatedAt             time.Time `gorm:"column:updated_at;autoUpdateTime"                          json:"-"`
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "users"
}

// BeforeUpdate updates the UpdatedAt timestamp before saving.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}

// DisplayName returns the human-readable label used in per-target reports.
func (u *User) DisplayName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Email
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
