package scoring_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/okian/jelajah/internal/domain/model"
	"github.com/okian/jelajah/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

type stubProvider struct {
	mu     sync.Mutex
	scores map[string]float64
	fail   map[string]bool
	calls  int
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Predict(_ context.Context, category, region string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	key := category + "|" + region
	if s.fail[key] || s.fail["*"] {
		return 0, errors.New("model exploded")
	}
	return s.scores[key], nil
}

func fullDestination() model.Destination {
	return model.Destination{
		Name:        "Pantai Kuta",
		Category:    "Bahari",
		Region:      "Bali",
		Latitude:    -8.7184,
		Longitude:   115.1686,
		Description: "Pantai terkenal di Bali dengan sunset yang indah",
		ImagePath:   "images/kuta.jpg",
	}
}

func TestCompatibility(t *testing.T) {
	Convey("Given a destination without optional metadata", t, func() {
		d := model.Destination{Name: "Bare", Category: "Bahari", Region: "Bali"}

		Convey("Then the score is floored at the exact-match floor", func() {
			So(scoring.Compatibility(0.1, &d), ShouldEqual, scoring.ExactMatchFloor)
			So(scoring.Compatibility(0.9, &d), ShouldEqual, 0.9)
		})

		Convey("When the description is exactly ten characters", func() {
			d.Description = strings.Repeat("x", 10)
			So(scoring.Compatibility(0, &d), ShouldEqual, scoring.ExactMatchFloor)
		})

		Convey("When the description is eleven characters", func() {
			d.Description = strings.Repeat("x", 11)
			So(scoring.Compatibility(0, &d), ShouldAlmostEqual, 0.85, 1e-9)
		})

		Convey("When only one coordinate is present", func() {
			d.Latitude = -8.1
			So(scoring.Compatibility(0, &d), ShouldEqual, scoring.ExactMatchFloor)
		})
	})

	Convey("Given a destination with full metadata", t, func() {
		d := fullDestination()

		Convey("Then all three boosts apply", func() {
			So(scoring.Compatibility(0.2, &d), ShouldAlmostEqual, 0.95, 1e-9)
		})

		Convey("Then the sum is capped", func() {
			So(scoring.Compatibility(0.99, &d), ShouldEqual, scoring.MaxCompatibility)
		})

		Convey("Then the score always stays in [0,1]", func() {
			for _, p := range []float64{-5, 0, 0.5, 0.8, 1, 7} {
				v := scoring.Compatibility(p, &d)
				So(v, ShouldBeBetweenOrEqual, 0, 1)
			}
		})
	})
}

func TestEngine(t *testing.T) {
	Convey("Given three matching destinations and a provider that fails for one", t, func() {
		a := fullDestination()
		b := model.Destination{Name: "Candi Tebing", Category: "Bahari", Region: "Gianyar"}
		c := model.Destination{Name: "Tanah Lot", Category: "Bahari", Region: "Tabanan", ImagePath: "x.jpg"}
		p := &stubProvider{
			scores: map[string]float64{"Bahari|Bali": 0.6, "Bahari|Tabanan": 0.9},
			fail:   map[string]bool{"Bahari|Gianyar": true},
		}
		e := scoring.NewEngine(p)
		ctx := context.Background()

		Convey("When scoring each one", func() {
			sa := e.Score(ctx, "Bahari", &a)
			sb := e.Score(ctx, "Bahari", &b)
			sc := e.Score(ctx, "Bahari", &c)

			Convey("Then the failing one uses the fixed fallback", func() {
				So(sb.Fallback, ShouldBeTrue)
				So(sb.Predictive, ShouldEqual, scoring.FallbackPredictive)
				So(sb.Compatibility, ShouldEqual, scoring.Compatibility(scoring.FallbackPredictive, &b))
			})

			Convey("And the others keep their real predictions", func() {
				So(sa.Fallback, ShouldBeFalse)
				So(sa.Predictive, ShouldEqual, 0.6)
				So(sa.Compatibility, ShouldAlmostEqual, 0.95, 1e-9)
				So(sc.Predictive, ShouldEqual, 0.9)
				So(sc.Compatibility, ShouldAlmostEqual, 0.95, 1e-9)
			})
		})

		Convey("When the provider returns out-of-range values", func() {
			p.scores["Bahari|Bali"] = 3
			s := e.Score(ctx, "Bahari", &a)
			So(s.Predictive, ShouldEqual, 1)
			So(s.Compatibility, ShouldEqual, 1)
		})

		Convey("When the provider returns NaN", func() {
			p.scores["Bahari|Bali"] = math.NaN()
			s := e.Score(ctx, "Bahari", &a)
			So(s.Fallback, ShouldBeTrue)
			So(s.Predictive, ShouldEqual, scoring.FallbackPredictive)
		})
	})
}

func TestHeuristicProvider(t *testing.T) {
	Convey("Given the heuristic provider", t, func() {
		h := scoring.NewHeuristicProvider()
		ctx := context.Background()

		Convey("Then it is deterministic and ignores case", func() {
			v1, err := h.Predict(ctx, "Bahari", "Bali")
			So(err, ShouldBeNil)
			v2, _ := h.Predict(ctx, " bahari ", "BALI")
			So(v1, ShouldEqual, v2)
		})

		Convey("Then it folds hashes into [0,1)", func() {
			// "a" -> 97 -> 0.097, "ab" -> 3105 -> 0.105
			v, _ := h.Predict(ctx, "a", "ab")
			So(v, ShouldAlmostEqual, (0.097+0.105)/2, 1e-9)
			for _, s := range []string{"", "Cagar Alam", "Nusa Tenggara Timur", strings.Repeat("z", 500)} {
				v, _ := h.Predict(ctx, s, s)
				So(v, ShouldBeGreaterThanOrEqualTo, 0)
				So(v, ShouldBeLessThan, 1)
			}
		})

		Convey("Then long names wrap to 32 bits at every step", func() {
			// "bahari" -> 0.841, "sumatera utara" -> 0.009
			v, _ := h.Predict(ctx, "Bahari", "Sumatera Utara")
			So(v, ShouldAlmostEqual, (0.841+0.009)/2, 1e-9)
		})

		Convey("Then a cancelled context fails", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := h.Predict(cctx, "Bahari", "Bali")
			So(err, ShouldNotBeNil)
		})
	})
}
