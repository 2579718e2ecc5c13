package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const header = "kategori,nama_wisata,latitude,longitude,alamat,provinsi,kota_kabupaten,nama_lengkap,deskripsi_bersih,Image_Path\n"

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "destinations.csv")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestParse(t *testing.T) {
	ctx := context.Background()

	Convey("Given a well formed catalog", t, func() {
		body := header +
			"Bahari,Pantai Kuta,-8.7184,115.1686,\"Kuta, Badung, Bali\",Bali,Badung,Pantai Kuta Bali,Pantai terkenal di Bali,kuta.jpg\n" +
			"budaya , Candi Borobudur ,abc,110.2038,Magelang,Jawa Tengah,Magelang,,Candi Buddha,\n"

		dests, rep, err := Parse(ctx, strings.NewReader(body))

		Convey("Then every row is loaded in file order", func() {
			So(err, ShouldBeNil)
			So(rep.Rows, ShouldEqual, 2)
			So(rep.Loaded, ShouldEqual, 2)
			So(rep.Rejected, ShouldEqual, 0)
			So(dests[0].Name, ShouldEqual, "Pantai Kuta")
			So(dests[0].Address, ShouldEqual, "Kuta, Badung, Bali")
			So(dests[0].ImagePath, ShouldEqual, "kuta.jpg")
			So(dests[0].Latitude, ShouldAlmostEqual, -8.7184)
		})

		Convey("Then cells are trimmed and categories canonicalized", func() {
			So(dests[1].Name, ShouldEqual, "Candi Borobudur")
			So(dests[1].Category, ShouldEqual, "Budaya")
		})

		Convey("Then an unparsable coordinate becomes zero", func() {
			So(dests[1].Latitude, ShouldEqual, 0)
			So(dests[1].Longitude, ShouldAlmostEqual, 110.2038)
			So(dests[1].HasCoordinates(), ShouldBeFalse)
		})
	})

	Convey("Given rows that fail validation", t, func() {
		body := header +
			"Bahari,,1,1,,Bali,,,,\n" +
			"Kuliner,Warung,1,1,,Bali,,,,\n" +
			"Bahari,Pantai Sanur,95,1,,Bali,,,,\n" +
			"Bahari,Pantai Sanur,-8.7,115.2,,,,,,\n" +
			",,,,,,,,,\n" +
			"Bahari,Pantai Sanur,-8.7,115.2,,Bali,,,,\n"

		dests, rep, err := Parse(ctx, strings.NewReader(body))

		Convey("Then they are skipped and counted", func() {
			So(err, ShouldBeNil)
			So(rep.Rows, ShouldEqual, 5)
			So(rep.Rejected, ShouldEqual, 4)
			So(rep.Loaded, ShouldEqual, 1)
			So(dests, ShouldHaveLength, 1)
			So(dests[0].Name, ShouldEqual, "Pantai Sanur")
		})
	})

	Convey("Given a header with a BOM, odd casing and reordered columns", t, func() {
		body := "\ufeff PROVINSI ,Nama_Wisata,KATEGORI\nBali,Pantai Kuta,Bahari\n"
		dests, _, err := Parse(ctx, strings.NewReader(body))

		Convey("Then columns are matched by name", func() {
			So(err, ShouldBeNil)
			So(dests, ShouldHaveLength, 1)
			So(dests[0].Region, ShouldEqual, "Bali")
			So(dests[0].Category, ShouldEqual, "Bahari")
		})
	})

	Convey("Given a header without a required column", t, func() {
		_, _, err := Parse(ctx, strings.NewReader("kategori,nama_wisata\nBahari,Pantai Kuta\n"))
		So(errors.Is(err, ErrMissingColumn), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, "provinsi")
	})

	Convey("Given an empty input", t, func() {
		dests, rep, err := Parse(ctx, strings.NewReader(""))
		So(err, ShouldBeNil)
		So(dests, ShouldBeEmpty)
		So(rep.Rows, ShouldEqual, 0)
	})

	Convey("Given a cancelled context", t, func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, _, err := Parse(cctx, strings.NewReader(header+"Bahari,Pantai Kuta,1,1,,Bali,,,,\n"))
		So(errors.Is(err, context.Canceled), ShouldBeTrue)
	})
}

func TestLoadCatalog(t *testing.T) {
	ctx := context.Background()

	Convey("Given a catalog file on disk", t, func() {
		path := writeCSV(t, header+"Bahari,Pantai Kuta,-8.7184,115.1686,,Bali,Badung,,,\n")
		cat, rep, err := LoadCatalog(ctx, path)

		So(err, ShouldBeNil)
		So(cat.Len(), ShouldEqual, 1)
		So(rep.Sample, ShouldBeFalse)
	})

	Convey("Given a missing file", t, func() {
		path := filepath.Join(t.TempDir(), "missing.csv")

		Convey("When the sample fallback is disabled", func() {
			cat, _, err := LoadCatalog(ctx, path)

			Convey("Then an empty catalog and the error are returned", func() {
				So(errors.Is(err, ErrReadCatalog), ShouldBeTrue)
				So(cat, ShouldNotBeNil)
				So(cat.Empty(), ShouldBeTrue)
			})
		})

		Convey("When the sample fallback is enabled", func() {
			cat, rep, err := LoadCatalog(ctx, path, WithSampleFallback(true))

			Convey("Then the three sample destinations are served", func() {
				So(err, ShouldBeNil)
				So(rep.Sample, ShouldBeTrue)
				So(cat.Len(), ShouldEqual, 3)
				So(cat.Categories(), ShouldResemble, []string{"Bahari", "Budaya", "Cagar Alam"})
			})
		})
	})

	Convey("Given a file with a broken header and the sample fallback enabled", t, func() {
		path := writeCSV(t, "name\nPantai Kuta\n")
		cat, _, err := LoadCatalog(ctx, path, WithSampleFallback(true))

		Convey("Then the sample is not substituted for a malformed file", func() {
			So(errors.Is(err, ErrMissingColumn), ShouldBeTrue)
			So(cat.Empty(), ShouldBeTrue)
		})
	})
}

func TestSample(t *testing.T) {
	Convey("Given the sample catalog", t, func() {
		s := Sample()
		So(s, ShouldHaveLength, 3)
		So(s[0].ID(), ShouldEqual, "pantai_kuta_bali_bahari")
		So(s[2].Region, ShouldEqual, "Nusa Tenggara Timur")
	})
}
