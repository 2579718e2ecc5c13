package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound        = errors.New("user not found")
	ErrInvalidArgument = errors.New("invalid store argument")
	ErrUnknownBackend  = errors.New("unknown store backend")
)
