package apperr

import "errors"

// Package-level sentinel errors shared across service and transport layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrAlreadyExists = errors.New("already exists")
)
