// Package api exposes the recommendation service over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/jelajah/internal/domain/model"
	"github.com/okian/jelajah/internal/domain/types"
	"github.com/okian/jelajah/pkg/logger"
	"github.com/okian/jelajah/pkg/metrics"
)

// Recommender serves the recommendation operations.
type Recommender interface {
	Recommend(ctx context.Context, category, rawAddress, userID string) (model.Result, error)
	RecommendByCategory(ctx context.Context, rawAddress, category string) (model.Result, error)
	RecommendFiltered(ctx context.Context, category, rawAddress string, overrides *model.Filters) (model.Result, error)
	RecommendPersonalized(ctx context.Context, userID string) (model.Result, error)
	Categories(ctx context.Context) []string
	Regions(ctx context.Context) []string
	Destinations(ctx context.Context, category, region string) []model.Destination
}

// Users serves profile and visit operations.
type Users interface {
	GetProfile(ctx context.Context, userID string) (model.Profile, error)
	PutProfile(ctx context.Context, p model.Profile) (model.Profile, error)
	SubmitVisit(ctx context.Context, v model.Visit) (types.VisitReceipt, error)
}

// StatsProvider reports service statistics.
type StatsProvider interface {
	GetStats(ctx context.Context) types.Stats
	CatalogSize() int
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Recommender
	Users
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	recommendHandler *RecommendHandler
	usersHandler     *UsersHandler
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler

	rateLimit int
	log       logger.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithRateLimit caps requests per client IP per minute. Zero disables it.
func WithRateLimit(perMinute int) Option {
	return func(s *Server) {
		if perMinute >= 0 {
			s.rateLimit = perMinute
		}
	}
}

// WithLogger sets the logger used for failed requests.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{log: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("http")
	s.recommendHandler = NewRecommendHandler(deps, s.log)
	s.usersHandler = NewUsersHandler(deps, s.log)
	s.healthHandler = NewHealthHandler(deps)
	s.statsHandler = NewStatsHandler(deps)
	return s
}

// Router builds the chi router. Extra registrations, such as the API docs,
// can be attached through mount.
func (s *Server) Router(mount ...func(chi.Router)) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(MetricsMiddleware)

	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Get("/stats", s.statsHandler.HandleStats)
	r.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		if s.rateLimit > 0 {
			r.Use(httprate.Limit(s.rateLimit, time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
					writeError(w, http.StatusTooManyRequests, "rate_limited", nil)
				}),
			))
		}

		r.Get("/recommendations", s.recommendHandler.HandleRecommend)
		r.Get("/recommendations/filtered", s.recommendHandler.HandleFiltered)
		r.Get("/recommendations/category/{category}", s.recommendHandler.HandleByCategory)
		r.Get("/recommend/{userId}", s.recommendHandler.HandlePersonalized)
		r.Get("/categories", s.recommendHandler.HandleCategories)
		r.Get("/regions", s.recommendHandler.HandleRegions)
		r.Get("/destinations", s.recommendHandler.HandleDestinations)

		r.Get("/users/{userId}/profile", s.usersHandler.HandleGetProfile)
		r.Put("/users/{userId}/profile", s.usersHandler.HandlePutProfile)
		r.Post("/users/{userId}/visits", s.usersHandler.HandlePostVisit)
	})

	for _, m := range mount {
		m(r)
	}
	return r
}

// envelope wraps every successful body.
type envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
