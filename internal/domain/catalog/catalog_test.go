package catalog_test

import (
	"testing"

	"github.com/okian/jelajah/internal/domain/catalog"
	"github.com/okian/jelajah/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func fixture() []model.Destination {
	return []model.Destination{
		{Name: "Pantai Kuta", Category: "Bahari", Region: "Bali"},
		{Name: "Candi Borobudur", Category: "Budaya", Region: "Jawa Tengah"},
		{Name: "Pantai Sanur", Category: "Bahari", Region: "Bali"},
		{Name: "Taman Nasional Komodo", Category: "Cagar Alam", Region: "Nusa Tenggara Timur"},
		{Name: "Tanpa Wilayah", Category: "Bahari", Region: " "},
	}
}

func TestCatalog(t *testing.T) {
	Convey("Given a catalog built from fixture rows", t, func() {
		rows := fixture()
		c := catalog.New(rows)

		Convey("Then it keeps order and size", func() {
			So(c.Len(), ShouldEqual, 5)
			So(c.Empty(), ShouldBeFalse)
			So(c.All()[1].Name, ShouldEqual, "Candi Borobudur")
		})

		Convey("Then mutating the source or a returned slice does not change it", func() {
			rows[0].Name = "changed"
			all := c.All()
			all[1].Name = "changed"
			So(c.All()[0].Name, ShouldEqual, "Pantai Kuta")
			So(c.All()[1].Name, ShouldEqual, "Candi Borobudur")
		})

		Convey("When filtering by category and region", func() {
			got := c.Filter("bahari", "BALI")

			Convey("Then matches come back in catalog order", func() {
				So(len(got), ShouldEqual, 2)
				So(got[0].Name, ShouldEqual, "Pantai Kuta")
				So(got[1].Name, ShouldEqual, "Pantai Sanur")
			})
		})

		Convey("When filtering with a region substring only", func() {
			got := c.Filter("", "tenggara")
			So(len(got), ShouldEqual, 1)
			So(got[0].Category, ShouldEqual, "Cagar Alam")
		})

		Convey("When filtering with nothing", func() {
			So(len(c.Filter("", "")), ShouldEqual, 5)
		})

		Convey("Then listings are sorted and distinct", func() {
			So(c.Categories(), ShouldResemble, []string{"Bahari", "Budaya", "Cagar Alam"})
			So(c.Regions(), ShouldResemble, []string{"Bali", "Jawa Tengah", "Nusa Tenggara Timur"})
		})
	})

	Convey("Given an empty catalog", t, func() {
		c := catalog.New(nil)

		Convey("Then it reports empty", func() {
			So(c.Empty(), ShouldBeTrue)
			So(c.All(), ShouldBeEmpty)
			So(c.Categories(), ShouldBeEmpty)
		})

		Convey("And a nil catalog behaves the same", func() {
			var nilCat *catalog.Catalog
			So(nilCat.Empty(), ShouldBeTrue)
			So(nilCat.Regions(), ShouldBeEmpty)
		})
	})
}
