package domain

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")
	ErrRoleViolation    = errors.New("role violation")
	ErrLimitExceeded    = errors.New("subscription limit exceeded")
	ErrStoreUnavailable = errors.New("document store unavailable")
	ErrPartialFailure   = errors.New("partial failure")
)
