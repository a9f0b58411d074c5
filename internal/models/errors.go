package models

import "errors"

// Domain errors shared by repositories, services and handlers.
//
// ErrNotFound covers both a missing record and a record owned by another
// user, so callers cannot tell the two apart.
var (
	ErrNotFound           = errors.New("record not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
)
