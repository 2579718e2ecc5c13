package service_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	repository "github.com/okian/jelajah/internal/adapters/repository"
	service "github.com/okian/jelajah/internal/app"
	"github.com/okian/jelajah/internal/domain/catalog"
	"github.com/okian/jelajah/internal/domain/model"
	"github.com/okian/jelajah/internal/domain/region"
	"github.com/okian/jelajah/internal/domain/types"
)

// stubProvider returns score for every call except the ones listed in fail.
type stubProvider struct {
	score float64
	fail  map[int64]bool
	delay time.Duration
	calls atomic.Int64
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Predict(ctx context.Context, _, _ string) (float64, error) {
	n := p.calls.Add(1)
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	if p.fail[n] {
		return 0, errors.New("model exploded")
	}
	return p.score, nil
}

// failingVisits wraps a store and fails visit-history lookups.
type failingVisits struct {
	repository.Store
}

func (failingVisits) VisitedIDs(context.Context, string) (map[string]struct{}, error) {
	return nil, errors.New("visits offline")
}

func dest(name, region, category, subregion string, full bool) model.Destination {
	d := model.Destination{Name: name, Region: region, Category: category, Subregion: subregion}
	if full {
		d.Description = "Destinasi dengan deskripsi yang panjang"
		d.ImagePath = name + ".jpg"
		d.Latitude = -8.5
		d.Longitude = 115.2
	}
	return d
}

func fixtureCatalog() *catalog.Catalog {
	return catalog.New([]model.Destination{
		dest("Pantai Kuta", "Bali", "Bahari", "Badung", true),
		dest("Pantai Sanur", "Bali", "Bahari", "Denpasar", false),
		dest("Candi Borobudur", "Jawa Tengah", "Budaya", "Magelang", true),
		dest("Taman Nasional Bali Barat", "Bali", "Cagar Alam", "Buleleng", true),
		dest("Kebun Raya Bedugul", "Bali", "Cagar Alam", "Tabanan", false),
		dest("Taman Nasional Komodo", "Nusa Tenggara Timur", "Cagar Alam", "Flores", true),
		dest("Kawah Putih", "Jawa Barat", "Cagar Alam", "Bandung", true),
	})
}

func newService(opts ...service.Option) *service.Service {
	base := []service.Option{
		service.WithCatalog(fixtureCatalog()),
		service.WithScoringProvider(&stubProvider{score: 0.5}),
	}
	return service.New(append(base, opts...)...)
}

func TestService_Recommend(t *testing.T) {
	ctx := context.Background()

	Convey("Given a catalog with a single Bahari destination in Bali (scenario A)", t, func() {
		svc := service.New(
			service.WithCatalog(catalog.New([]model.Destination{
				dest("Pantai Kuta", "Bali", "Bahari", "Badung", true),
				dest("Candi Borobudur", "Jawa Tengah", "Budaya", "Magelang", true),
			})),
			service.WithScoringProvider(&stubProvider{score: 0.3}),
		)

		res, err := svc.Recommend(ctx, "Bahari", "Kuta, Badung, Bali", "u-1")

		Convey("Then exactly one match is returned with floored and boosted score", func() {
			So(err, ShouldBeNil)
			So(res.Region, ShouldEqual, "bali")
			So(res.Category, ShouldEqual, "Bahari")
			So(res.Strategy, ShouldEqual, types.StrategyStrict)
			So(res.UserID, ShouldEqual, "u-1")
			So(res.RequestID, ShouldNotBeBlank)
			So(res.TotalMatched, ShouldEqual, 1)
			So(res.Matches, ShouldHaveLength, 1)

			m := res.Matches[0]
			So(m.ID, ShouldEqual, "pantai_kuta_bali_bahari")
			So(m.PredictiveScore, ShouldEqual, 0.3)
			So(m.CompatibilityScore, ShouldAlmostEqual, 0.95)
			So(m.MatchReason, ShouldEqual, "Perfect match: Bahari destination in bali")
		})
	})

	Convey("Given a region without Budaya destinations (scenario B)", t, func() {
		svc := newService()
		res, err := svc.Recommend(ctx, "Budaya", "Denpasar, Bali", "")

		Convey("Then an empty result with an explanatory message is returned", func() {
			So(err, ShouldBeNil)
			So(res.Matches, ShouldNotBeNil)
			So(res.Matches, ShouldBeEmpty)
			So(res.TotalMatched, ShouldEqual, 0)
			So(res.Message, ShouldContainSubstring, "Budaya")
			So(res.Message, ShouldContainSubstring, "bali")
		})
	})

	Convey("Given an address that matches no pattern", t, func() {
		svc := newService()
		res, err := svc.Recommend(ctx, "Cagar Alam", "Jl. Mawar 3, Atlantis", "")

		Convey("Then the last comma part is used as region and nothing matches", func() {
			So(err, ShouldBeNil)
			So(res.Region, ShouldEqual, "Atlantis")
			So(res.Matches, ShouldBeEmpty)
		})
	})

	Convey("Given a category in different case and an aliased address", t, func() {
		svc := newService()
		res, err := svc.Recommend(ctx, " cagar alam ", "Kota Bandung, Jabar", "")

		Convey("Then matching is case-insensitive on both fields", func() {
			So(err, ShouldBeNil)
			So(res.Matches, ShouldHaveLength, 1)
			So(res.Matches[0].Name, ShouldEqual, "Kawah Putih")
		})
	})

	Convey("Given missing inputs", t, func() {
		svc := newService()

		_, err := svc.Recommend(ctx, "", "Bali", "")
		So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)

		_, err = svc.Recommend(ctx, "Bahari", "   ", "")
		So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
	})

	Convey("Given an empty catalog", t, func() {
		svc := service.New()
		_, err := svc.Recommend(ctx, "Bahari", "Bali", "")

		Convey("Then every request fails with no catalog data", func() {
			So(errors.Is(err, service.ErrNoCatalogData), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "Bahari")
		})
	})
}

func TestService_ScoringFallback(t *testing.T) {
	Convey("Given three matching destinations and a provider failing on the second call (scenario D)", t, func() {
		provider := &stubProvider{score: 0.9, fail: map[int64]bool{2: true}}
		svc := service.New(
			service.WithCatalog(catalog.New([]model.Destination{
				dest("Pantai Kuta", "Bali", "Bahari", "", false),
				dest("Pantai Sanur", "Bali", "Bahari", "", false),
				dest("Pantai Pandawa", "Bali", "Bahari", "", false),
			})),
			service.WithScoringProvider(provider),
			service.WithScoringConcurrency(1),
		)

		res, err := svc.Recommend(context.Background(), "Bahari", "Bali", "")

		Convey("Then the failed destination is kept with the fixed predictive score", func() {
			So(err, ShouldBeNil)
			So(res.Matches, ShouldHaveLength, 3)
			So(res.Matches[0].Name, ShouldEqual, "Pantai Kuta")
			So(res.Matches[0].PredictiveScore, ShouldEqual, 0.9)
			So(res.Matches[1].Name, ShouldEqual, "Pantai Pandawa")
			So(res.Matches[1].PredictiveScore, ShouldEqual, 0.9)

			fallback := res.Matches[2]
			So(fallback.Name, ShouldEqual, "Pantai Sanur")
			So(fallback.ScoringFallback, ShouldBeTrue)
			So(fallback.PredictiveScore, ShouldEqual, 0.7)
			So(fallback.CompatibilityScore, ShouldEqual, 0.8)
		})
	})
}

func TestService_RecommendFiltered(t *testing.T) {
	ctx := context.Background()

	Convey("Given overrides pointing somewhere else than the raw inputs (scenario C)", t, func() {
		svc := newService()
		res, err := svc.RecommendFiltered(ctx, "Budaya", "Magelang, Jawa Tengah",
			&model.Filters{Region: "Bali", Category: "Cagar Alam"})

		Convey("Then the overrides decide the filtering", func() {
			So(err, ShouldBeNil)
			So(res.Category, ShouldEqual, "Cagar Alam")
			So(res.Region, ShouldEqual, "Bali")
			So(res.Matches, ShouldHaveLength, 2)
			for _, m := range res.Matches {
				So(m.Category, ShouldEqual, "Cagar Alam")
				So(m.Region, ShouldEqual, "Bali")
			}
			So(res.Filters, ShouldNotBeNil)
			So(res.Filters.EffectiveCategory, ShouldEqual, "Cagar Alam")
			So(res.Filters.EffectiveRegion, ShouldEqual, "Bali")
			So(res.Filters.Requested.Region, ShouldEqual, "Bali")
		})
	})

	Convey("Given a subregion override", t, func() {
		svc := newService()
		res, err := svc.RecommendFiltered(ctx, "Cagar Alam", "Bali", &model.Filters{Subregion: "tabanan"})

		Convey("Then strict matches are narrowed further", func() {
			So(err, ShouldBeNil)
			So(res.Matches, ShouldHaveLength, 1)
			So(res.Matches[0].Name, ShouldEqual, "Kebun Raya Bedugul")
			So(res.Filters.EffectiveSubregion, ShouldEqual, "tabanan")
		})
	})

	Convey("Given no overrides", t, func() {
		svc := newService()
		res, err := svc.RecommendFiltered(ctx, "Bahari", "Kuta, Bali", nil)

		Convey("Then the declared category and resolved region are used", func() {
			So(err, ShouldBeNil)
			So(res.Region, ShouldEqual, "bali")
			So(res.Filters.EffectiveCategory, ShouldEqual, "Bahari")
			So(res.TotalMatched, ShouldEqual, 2)
		})
	})

	Convey("Given the category-scoped variant", t, func() {
		svc := newService()
		res, err := svc.RecommendByCategory(ctx, "Flores, NTT", "Cagar Alam")

		Convey("Then the category from the path filters the result", func() {
			So(err, ShouldBeNil)
			So(res.Region, ShouldEqual, "nusa tenggara timur")
			So(res.Matches, ShouldHaveLength, 1)
			So(res.Matches[0].Name, ShouldEqual, "Taman Nasional Komodo")
		})
	})
}

func TestService_RecommendPersonalized(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store with a complete profile and a visit", t, func() {
		store := repository.NewMemoryStore()
		So(store.PutProfile(ctx, model.Profile{UserID: "u-1", Interest: "Bahari", Address: "Kuta, Bali"}), ShouldBeNil)
		So(store.PutProfile(ctx, model.Profile{UserID: "u-2", Interest: "Bahari"}), ShouldBeNil)
		So(store.RecordVisit(ctx, model.Visit{VisitID: "v-1", UserID: "u-1", DestinationID: "pantai_kuta_bali_bahari"}), ShouldBeNil)

		svc := newService(service.WithStore(store))

		Convey("When recommending for the user", func() {
			res, err := svc.RecommendPersonalized(ctx, "u-1")

			Convey("Then visited destinations are excluded", func() {
				So(err, ShouldBeNil)
				So(res.UserID, ShouldEqual, "u-1")
				So(res.ExcludedVisited, ShouldEqual, 1)
				So(res.Matches, ShouldHaveLength, 1)
				So(res.Matches[0].Name, ShouldEqual, "Pantai Sanur")
				So(res.TotalMatched, ShouldBeGreaterThanOrEqualTo, len(res.Matches))
			})
		})

		Convey("When the user is unknown", func() {
			_, err := svc.RecommendPersonalized(ctx, "ghost")
			So(errors.Is(err, service.ErrUserNotFound), ShouldBeTrue)
		})

		Convey("When the profile lacks an address", func() {
			_, err := svc.RecommendPersonalized(ctx, "u-2")
			So(errors.Is(err, service.ErrIncompleteProfile), ShouldBeTrue)
		})

		Convey("When the visit history cannot be read", func() {
			svc := newService(service.WithStore(failingVisits{store}))
			res, err := svc.RecommendPersonalized(ctx, "u-1")

			Convey("Then the request still succeeds without exclusions", func() {
				So(err, ShouldBeNil)
				So(res.ExcludedVisited, ShouldEqual, 0)
				So(res.Matches, ShouldHaveLength, 2)
			})
		})
	})
}

func TestService_Timeout(t *testing.T) {
	Convey("Given a provider slower than the request timeout", t, func() {
		svc := newService(
			service.WithScoringProvider(&stubProvider{score: 0.5, delay: time.Second}),
			service.WithTimeout(20*time.Millisecond),
		)

		start := time.Now()
		res, err := svc.Recommend(context.Background(), "Bahari", "Bali", "")

		Convey("Then the whole call fails with a timeout and no partial result", func() {
			So(errors.Is(err, service.ErrTimeout), ShouldBeTrue)
			So(errors.Is(err, context.DeadlineExceeded), ShouldBeTrue)
			So(res.Matches, ShouldBeNil)
			So(time.Since(start), ShouldBeLessThan, 500*time.Millisecond)
		})
	})

	Convey("Given a caller context that is already cancelled", t, func() {
		svc := newService()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := svc.Recommend(ctx, "Bahari", "Bali", "")
		So(errors.Is(err, service.ErrTimeout), ShouldBeTrue)
		So(service.Outcome(err), ShouldEqual, "timeout")
	})
}

func TestService_RankingInvariants(t *testing.T) {
	Convey("Given many destinations with mixed completeness", t, func() {
		var items []model.Destination
		for i := range 37 {
			d := dest(fmt.Sprintf("Pantai %02d", i), "Bali", "Bahari", "", i%3 == 0)
			if i%2 == 0 {
				d.ImagePath = ""
			}
			items = append(items, d)
		}
		items = append(items, dest("Candi Prambanan", "DI Yogyakarta", "Budaya", "", true))

		svc := service.New(
			service.WithCatalog(catalog.New(items)),
			service.WithScoringProvider(&stubProvider{score: 0.85}),
			service.WithScoringConcurrency(8),
		)
		table := region.Default()

		res, err := svc.Recommend(context.Background(), "bahari", "Ubud, Gianyar", "")

		Convey("Then results are capped, bounded, sorted and stable", func() {
			So(err, ShouldBeNil)
			So(res.TotalMatched, ShouldEqual, 37)
			So(res.Matches, ShouldHaveLength, 10)

			for i, m := range res.Matches {
				So(table.Normalize(m.Category), ShouldEqual, table.Normalize("bahari"))
				So(table.Normalize(m.Region), ShouldEqual, table.Normalize(res.Region))
				So(m.CompatibilityScore, ShouldBeBetweenOrEqual, 0.0, 1.0)
				if i > 0 {
					prev := res.Matches[i-1]
					So(prev.CompatibilityScore, ShouldBeGreaterThanOrEqualTo, m.CompatibilityScore)
					if prev.CompatibilityScore == m.CompatibilityScore {
						So(prev.Name < m.Name, ShouldBeTrue)
					}
				}
			}
		})
	})

	Convey("Given concurrent requests against one service", t, func() {
		svc := newService(service.WithScoringConcurrency(2))
		var wg sync.WaitGroup
		errs := make(chan error, 32)
		for range 32 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				res, err := svc.Recommend(context.Background(), "Cagar Alam", "Tabanan, Bali", "")
				if err == nil && len(res.Matches) != 2 {
					err = fmt.Errorf("got %d matches", len(res.Matches))
				}
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			So(err, ShouldBeNil)
		}
	})
}

func TestService_Listings(t *testing.T) {
	Convey("Given the fixture catalog", t, func() {
		svc := newService()
		ctx := context.Background()

		So(svc.Categories(ctx), ShouldResemble, []string{"Bahari", "Budaya", "Cagar Alam"})
		regions := svc.Regions(ctx)
		So(sort.StringsAreSorted(regions), ShouldBeTrue)
		So(regions, ShouldContain, "Nusa Tenggara Timur")
		So(svc.CatalogSize(), ShouldEqual, 7)
	})

	Convey("Given a catalog lookup", t, func() {
		svc := newService()
		ctx := context.Background()
		names := func(ds []model.Destination) []string {
			out := make([]string, 0, len(ds))
			for _, d := range ds {
				out = append(out, d.Name)
			}
			return out
		}

		Convey("When filtering by category and a region alias", func() {
			got := svc.Destinations(ctx, "cagar alam", "NTT")
			So(names(got), ShouldResemble, []string{"Taman Nasional Komodo"})
		})

		Convey("When filtering by category only", func() {
			got := svc.Destinations(ctx, "Bahari", "")
			So(names(got), ShouldResemble, []string{"Pantai Kuta", "Pantai Sanur"})
		})

		Convey("When no filter is given", func() {
			So(len(svc.Destinations(ctx, "", " ")), ShouldEqual, 7)
		})
	})
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := newService(service.WithWorkerCount(2), service.WithQueueSize(16))
		ctx := context.Background()

		Convey("Then stats are available before start", func() {
			st := svc.GetStats(ctx)
			So(st.CatalogSize, ShouldEqual, 7)
			So(st.ScoringProvider, ShouldEqual, "stub")
			So(st.StoreBackend, ShouldEqual, "memory")
			So(st.VisitQueueCap, ShouldEqual, 16)
			So(st.VisitWorkers, ShouldEqual, 0)
		})

		Convey("When started twice and stopped twice", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.GetStats(ctx).VisitWorkers, ShouldEqual, 2)
			So(svc.Stop(ctx), ShouldBeNil)
			So(svc.Stop(ctx), ShouldBeNil)

			Convey("Then it can be started again", func() {
				So(svc.Start(ctx), ShouldBeNil)
				_, err := svc.SubmitVisit(ctx, model.Visit{UserID: "u", DestinationID: "d"})
				So(err, ShouldBeNil)
				So(svc.Stop(ctx), ShouldBeNil)
			})
		})
	})
}
