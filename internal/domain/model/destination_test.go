package model_test

import (
	"math/rand"
	"testing"

	"github.com/okian/jelajah/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDestinationID(t *testing.T) {
	Convey("Given a destination", t, func() {
		d := model.Destination{Name: "Pantai Kuta", Region: "Bali", Category: "Bahari"}

		Convey("Then the id is lowercased with non-alphanumerics replaced", func() {
			So(d.ID(), ShouldEqual, "pantai_kuta_bali_bahari")
		})

		Convey("Then the id is stable", func() {
			copyOf := d
			So(copyOf.ID(), ShouldEqual, d.ID())
		})

		Convey("When a field is empty", func() {
			d.Region = ""
			So(d.ID(), ShouldEqual, "pantai_kuta_unknown_bahari")
		})

		Convey("When the name has punctuation and non-ascii letters", func() {
			d.Name = "Candi Prambanan (Roro-Jonggrang) é"
			So(d.ID(), ShouldEqual, "candi_prambanan__roro_jonggrang____bali_bahari")
		})
	})

	Convey("Given random destinations and single-field mutations", t, func() {
		rng := rand.New(rand.NewSource(7))
		const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
		word := func() string {
			n := 1 + rng.Intn(12)
			b := make([]byte, n)
			for i := range b {
				b[i] = alphabet[rng.Intn(len(alphabet))]
			}
			return string(b)
		}

		Convey("Then changing any one field changes the id", func() {
			for i := 0; i < 500; i++ {
				base := model.Destination{Name: word(), Region: word(), Category: word()}
				mutated := base
				suffix := string(alphabet[rng.Intn(len(alphabet))])
				switch rng.Intn(3) {
				case 0:
					mutated.Name += suffix
				case 1:
					mutated.Region += suffix
				default:
					mutated.Category += suffix
				}
				So(mutated.ID(), ShouldNotEqual, base.ID())

				same := model.Destination{Name: base.Name, Region: base.Region, Category: base.Category, Description: word()}
				So(same.ID(), ShouldEqual, base.ID())
			}
		})
	})
}

func TestDestinationCompleteness(t *testing.T) {
	Convey("Given destinations with partial metadata", t, func() {
		Convey("Then coordinates require both values", func() {
			So((&model.Destination{Latitude: -8.7, Longitude: 115.1}).HasCoordinates(), ShouldBeTrue)
			So((&model.Destination{Latitude: -8.7}).HasCoordinates(), ShouldBeFalse)
		})

		Convey("Then a blank image path is not an image", func() {
			So((&model.Destination{ImagePath: "  "}).HasImage(), ShouldBeFalse)
			So((&model.Destination{ImagePath: "img/kuta.jpg"}).HasImage(), ShouldBeTrue)
		})

		Convey("Then description length counts characters", func() {
			So((&model.Destination{Description: "ékstra"}).DescriptionLength(), ShouldEqual, 6)
			So((&model.Destination{Description: "   "}).DescriptionLength(), ShouldEqual, 0)
		})
	})
}

func TestProfileComplete(t *testing.T) {
	Convey("Given profiles", t, func() {
		So((&model.Profile{Interest: "Bahari", Address: "Kuta, Bali"}).Complete(), ShouldBeTrue)
		So((&model.Profile{Interest: "Bahari"}).Complete(), ShouldBeFalse)
		So((&model.Profile{Address: " "}).Complete(), ShouldBeFalse)
	})
}
