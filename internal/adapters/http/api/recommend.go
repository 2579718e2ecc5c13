package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/okian/jelajah/internal/domain/model"
	"github.com/okian/jelajah/pkg/logger"
)

// RecommendHandler serves the recommendation and listing routes.
type RecommendHandler struct {
	deps Recommender
	log  logger.Logger
}

// NewRecommendHandler creates a new recommendation handler.
func NewRecommendHandler(deps Recommender, log logger.Logger) *RecommendHandler {
	return &RecommendHandler{deps: deps, log: log}
}

// HandleRecommend handles GET /api/recommendations?interest=&address=[&userId=].
func (h *RecommendHandler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	const op = "api.recommend"
	q := readRecommendQuery(r)
	if err := validateRequest(&q); err != nil {
		fail(r.Context(), w, h.log, op, err)
		return
	}
	res, err := h.deps.Recommend(r.Context(), q.Interest, q.Address, q.UserID)
	if err != nil {
		fail(r.Context(), w, h.log, op, err)
		return
	}
	writeData(w, http.StatusOK, res)
}

// HandleByCategory handles GET /api/recommendations/category/{category}?address=.
func (h *RecommendHandler) HandleByCategory(w http.ResponseWriter, r *http.Request) {
	const op = "api.recommend_category"
	q := recommendQuery{
		Interest: strings.TrimSpace(chi.URLParam(r, "category")),
		Address:  strings.TrimSpace(r.URL.Query().Get("address")),
	}
	if err := validateRequest(&q); err != nil {
		fail(r.Context(), w, h.log, op, err)
		return
	}
	res, err := h.deps.RecommendByCategory(r.Context(), q.Address, q.Interest)
	if err != nil {
		fail(r.Context(), w, h.log, op, err)
		return
	}
	writeData(w, http.StatusOK, res)
}

// HandleFiltered handles GET /api/recommendations/filtered. The overrides
// also accept the kategori, provinsi and kota_kabupaten spellings.
func (h *RecommendHandler) HandleFiltered(w http.ResponseWriter, r *http.Request) {
	const op = "api.recommend_filtered"
	q := readRecommendQuery(r)
	params := r.URL.Query()
	f := filtersQuery{
		Category:  firstParam(params.Get("category"), params.Get("kategori")),
		Region:    firstParam(params.Get("region"), params.Get("provinsi")),
		Subregion: firstParam(params.Get("subregion"), params.Get("kota_kabupaten")),
	}
	if err := validateRequest(&q); err != nil {
		fail(r.Context(), w, h.log, op, err)
		return
	}
	if err := validateRequest(&f); err != nil {
		fail(r.Context(), w, h.log, op, err)
		return
	}
	res, err := h.deps.RecommendFiltered(r.Context(), q.Interest, q.Address, &model.Filters{
		Category:  f.Category,
		Region:    f.Region,
		Subregion: f.Subregion,
	})
	if err != nil {
		fail(r.Context(), w, h.log, op, err)
		return
	}
	writeData(w, http.StatusOK, res)
}

// HandlePersonalized handles GET /api/recommend/{userId}.
func (h *RecommendHandler) HandlePersonalized(w http.ResponseWriter, r *http.Request) {
	res, err := h.deps.RecommendPersonalized(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		fail(r.Context(), w, h.log, "api.recommend_personalized", err)
		return
	}
	writeData(w, http.StatusOK, res)
}

// HandleCategories handles GET /api/categories.
func (h *RecommendHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, nonNil(h.deps.Categories(r.Context())))
}

// HandleRegions handles GET /api/regions.
func (h *RecommendHandler) HandleRegions(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, nonNil(h.deps.Regions(r.Context())))
}

// destinationView is a catalog entry with the id visits refer to.
type destinationView struct {
	model.Destination
	ID string `json:"id"`
}

// HandleDestinations handles GET /api/destinations?category=&region=.
func (h *RecommendHandler) HandleDestinations(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	f := filtersQuery{
		Category: firstParam(params.Get("category"), params.Get("kategori")),
		Region:   firstParam(params.Get("region"), params.Get("provinsi")),
	}
	if err := validateRequest(&f); err != nil {
		fail(r.Context(), w, h.log, "api.destinations", err)
		return
	}
	dests := h.deps.Destinations(r.Context(), f.Category, f.Region)
	out := make([]destinationView, len(dests))
	for i := range dests {
		out[i] = destinationView{Destination: dests[i], ID: dests[i].ID()}
	}
	writeData(w, http.StatusOK, out)
}

func readRecommendQuery(r *http.Request) recommendQuery {
	params := r.URL.Query()
	return recommendQuery{
		Interest: strings.TrimSpace(params.Get("interest")),
		Address:  strings.TrimSpace(params.Get("address")),
		UserID:   strings.TrimSpace(params.Get("userId")),
	}
}

func firstParam(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
