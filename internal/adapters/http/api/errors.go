package api

import (
	"context"
	"errors"
	"net/http"

	service "github.com/okian/jelajah/internal/app"
	"github.com/okian/jelajah/pkg/logger"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// statusFor maps a service error to an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrIncompleteProfile):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrNoCatalogData):
		return http.StatusServiceUnavailable, "no_catalog_data"
	case errors.Is(err, service.ErrTimeout):
		return http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, service.ErrUpstreamLookup):
		return http.StatusBadGateway, "upstream_error"
	case errors.Is(err, service.ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// fail writes err with its mapped status; server-side failures are logged.
func fail(ctx context.Context, w http.ResponseWriter, log logger.Logger, op string, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error(ctx, "request failed",
			logger.String("op", op),
			logger.Int("status", status),
			logger.Error(err))
	}
	writeError(w, status, code, err)
}
