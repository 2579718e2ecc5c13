package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/okian/jelajah/internal/domain/model"
	"github.com/okian/jelajah/pkg/logger"
)

// UsersHandler serves profile and visit routes.
type UsersHandler struct {
	deps Users
	log  logger.Logger
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(deps Users, log logger.Logger) *UsersHandler {
	return &UsersHandler{deps: deps, log: log}
}

// HandleGetProfile handles GET /api/users/{userId}/profile.
func (h *UsersHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.deps.GetProfile(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		fail(r.Context(), w, h.log, "api.get_profile", err)
		return
	}
	writeData(w, http.StatusOK, p)
}

// HandlePutProfile handles PUT /api/users/{userId}/profile.
func (h *UsersHandler) HandlePutProfile(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_profile"
	var req profileRequest
	if err := decodeBody(w, r, &req); err != nil {
		fail(r.Context(), w, h.log, op, err)
		return
	}
	if err := validateRequest(&req); err != nil {
		fail(r.Context(), w, h.log, op, err)
		return
	}
	p, err := h.deps.PutProfile(r.Context(), model.Profile{
		UserID:   chi.URLParam(r, "userId"),
		Interest: req.Interest,
		Address:  req.Address,
	})
	if err != nil {
		fail(r.Context(), w, h.log, op, err)
		return
	}
	writeData(w, http.StatusOK, p)
}

// HandlePostVisit handles POST /api/users/{userId}/visits. A new visit is
// accepted with 202, a repeated visitId is acknowledged with 200.
func (h *UsersHandler) HandlePostVisit(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_visit"
	var req visitRequest
	if err := decodeBody(w, r, &req); err != nil {
		fail(r.Context(), w, h.log, op, err)
		return
	}
	if err := validateRequest(&req); err != nil {
		fail(r.Context(), w, h.log, op, err)
		return
	}

	v := model.Visit{
		VisitID:       req.VisitID,
		UserID:        chi.URLParam(r, "userId"),
		DestinationID: req.DestinationID,
	}
	if req.VisitedAt != "" {
		// already validated as RFC3339
		v.VisitedAt, _ = time.Parse(time.RFC3339, req.VisitedAt)
	}

	receipt, err := h.deps.SubmitVisit(r.Context(), v)
	if err != nil {
		fail(r.Context(), w, h.log, op, err)
		return
	}
	status := http.StatusAccepted
	if receipt.Duplicate {
		status = http.StatusOK
	}
	writeData(w, status, receipt)
}
