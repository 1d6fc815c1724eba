package model

import "errors"

var (
	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken indicates that a user with the same email already exists
	// in the tenant.
	ErrEmailTaken = errors.New("email already in use")
	// ErrInvalidFilter indicates that a list filter value is outside the
	// allowed sets.
	ErrInvalidFilter = errors.New("invalid filter value")
)
