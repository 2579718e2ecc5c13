// Package site serves the landing document at the server root.
package site

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

// Index is the document served at GET /.
type Index struct {
	Service     string            `json:"service"`
	Description string            `json:"description"`
	Categories  []string          `json:"categories"`
	Links       map[string]string `json:"links"`
}

// DefaultLinks are the entry points advertised on the landing document.
func DefaultLinks() map[string]string {
	return map[string]string{
		"docs":            "/api-docs",
		"openapi":         "/openapi.yaml",
		"health":          "/healthz",
		"stats":           "/stats",
		"metrics":         "/metrics",
		"recommendations": "/api/recommendations?interest={category}&address={address}",
		"personalized":    "/api/recommend/{userId}",
	}
}

// RootHandler serves the landing document.
type RootHandler struct {
	categories func() []string
}

// NewRootHandler creates a root handler. categories may be nil.
func NewRootHandler(categories func() []string) *RootHandler {
	return &RootHandler{categories: categories}
}

// HandleRoot handles GET /.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, _ *http.Request) {
	idx := Index{
		Service:     "jelajah",
		Description: "Tourist destination recommendations filtered by category and region",
		Categories:  []string{},
		Links:       DefaultLinks(),
	}
	if h.categories != nil {
		if c := h.categories(); c != nil {
			idx.Categories = c
		}
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(idx)
}

// Register attaches GET / to r.
func Register(r chi.Router, categories func() []string) {
	if r == nil {
		panic("router is nil")
	}
	r.Get("/", NewRootHandler(categories).HandleRoot)
}
