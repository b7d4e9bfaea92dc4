package service

import "errors"

var (
	// ErrNotFound is also returned when the caller may not see the record,
	// so existence does not leak.
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrAccessDenied = errors.New("access denied")
	ErrValidation   = errors.New("validation failed")
	// ErrUnknownPrincipal means the authenticated caller has no stored
	// account any more.
	ErrUnknownPrincipal = errors.New("authenticated user does not exist")
)
