package service

import "errors"

// Errors surfaced by the recommendation service. A request that matches no
// destination is not an error; it yields a Result with a message.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNoCatalogData     = errors.New("no catalog data")
	ErrUserNotFound      = errors.New("user not found")
	ErrIncompleteProfile = errors.New("incomplete profile")
	ErrUpstreamLookup    = errors.New("upstream lookup failed")
	ErrTimeout           = errors.New("recommendation timed out")
	ErrBackpressure      = errors.New("visit queue is full")
	ErrNotStarted        = errors.New("service not started")
)
