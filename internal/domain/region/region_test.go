package region_test

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/jelajah/internal/domain/region"
	. "github.com/smartystreets/goconvey/convey"
)

func TestResolve(t *testing.T) {
	Convey("Given the built-in table", t, func() {
		tbl := region.Default()

		Convey("When the address names a city", func() {
			So(tbl.Resolve("Kuta, Badung, Bali"), ShouldEqual, "bali")
			So(tbl.Resolve("Jl. Asia Afrika, Bandung"), ShouldEqual, "jawa barat")
			So(tbl.Resolve("  SLEMAN  "), ShouldEqual, "di yogyakarta")
		})

		Convey("When two regions match, the one declared first wins", func() {
			// "papua barat" also contains "papua", declared earlier.
			So(tbl.Resolve("Manokwari, Papua Barat"), ShouldEqual, "papua")
			So(tbl.Resolve("Bogor ke Bali"), ShouldEqual, "jawa barat")
		})

		Convey("When nothing matches and the address has commas", func() {
			So(tbl.Resolve("Jalan Raya 1, Kota X, Atlantis "), ShouldEqual, "Atlantis")
		})

		Convey("When nothing matches and there is no comma", func() {
			So(tbl.Resolve("  Atlantis Utara "), ShouldEqual, "Atlantis Utara")
			So(tbl.Resolve(""), ShouldEqual, "")
		})
	})
}

func TestNormalize(t *testing.T) {
	Convey("Given the built-in table", t, func() {
		tbl := region.Default()

		Convey("Then aliases map to canonical names ignoring case and whitespace", func() {
			So(tbl.Normalize(" Jabar "), ShouldEqual, tbl.Normalize("jawa barat"))
			So(tbl.Normalize("DIY"), ShouldEqual, "di yogyakarta")
			So(tbl.Normalize("Bali"), ShouldEqual, "bali")
		})

		Convey("Then normalize is idempotent", func() {
			inputs := []string{"Jabar", " NTT", "jakarta", "DKI Jakarta", "Nusa Tenggara Timur", ""}
			for _, name := range tbl.Names() {
				inputs = append(inputs, name)
			}
			rng := rand.New(rand.NewSource(11))
			const alphabet = "abcdeijklmnrstuyz ABJNT"
			for i := 0; i < 200; i++ {
				b := make([]byte, rng.Intn(10))
				for j := range b {
					b[j] = alphabet[rng.Intn(len(alphabet))]
				}
				inputs = append(inputs, string(b))
			}
			for _, in := range inputs {
				once := tbl.Normalize(in)
				So(tbl.Normalize(once), ShouldEqual, once)
			}
		})

		Convey("Then every resolved canonical name is a fixed point", func() {
			for _, name := range tbl.Names() {
				So(tbl.Normalize(name), ShouldEqual, name)
			}
			So(tbl.Len(), ShouldEqual, 37)
		})
	})
}

func TestNewTable(t *testing.T) {
	Convey("Given custom tables", t, func() {
		Convey("When an alias target is itself remapped", func() {
			_, err := region.NewTable(
				[]region.Entry{{Name: "a", Patterns: []string{"a"}}},
				map[string]string{"x": "y", "y": "z"},
			)

			Convey("Then the table is rejected", func() {
				So(errors.Is(err, region.ErrInvalidTable), ShouldBeTrue)
			})
		})

		Convey("When an entry has no name", func() {
			_, err := region.NewTable([]region.Entry{{Patterns: []string{"a"}}}, nil)
			So(errors.Is(err, region.ErrInvalidTable), ShouldBeTrue)
		})

		Convey("When blank patterns are given", func() {
			tbl, err := region.NewTable([]region.Entry{{Name: "A", Patterns: []string{" ", "alpha"}}}, nil)

			Convey("Then they never match", func() {
				So(err, ShouldBeNil)
				So(tbl.Resolve("nothing here"), ShouldEqual, "nothing here")
				So(tbl.Resolve("ALPHA town"), ShouldEqual, "a")
			})
		})
	})
}

func TestLoadTable(t *testing.T) {
	Convey("Given a YAML region table on disk", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "regions.yaml")
		content := `regions:
  - name: Lunar Highlands
    patterns: [crater, "tranquility base"]
  - name: bali
    patterns: [bali]
aliases:
  "l.h.": lunar highlands
  dps: bali
`
		So(os.WriteFile(path, []byte(content), 0o600), ShouldBeNil)

		Convey("When loading it", func() {
			tbl, err := region.LoadTable(path)

			Convey("Then resolution follows the file instead of the built-in data", func() {
				So(err, ShouldBeNil)
				So(tbl.Resolve("Tranquility Base, Moon"), ShouldEqual, "lunar highlands")
				So(tbl.Resolve("Kuta, Badung"), ShouldEqual, "Badung")
				So(tbl.Normalize("L.H."), ShouldEqual, "lunar highlands")
				So(tbl.Normalize("DPS"), ShouldEqual, "bali")
			})
		})

		Convey("When the file does not exist", func() {
			_, err := region.LoadTable(filepath.Join(dir, "missing.yaml"))
			So(errors.Is(err, region.ErrLoadTable), ShouldBeTrue)
		})

		Convey("When the file has no regions", func() {
			empty := filepath.Join(dir, "empty.yaml")
			So(os.WriteFile(empty, []byte("aliases:\n  a: b\n"), 0o600), ShouldBeNil)
			_, err := region.LoadTable(empty)
			So(errors.Is(err, region.ErrInvalidTable), ShouldBeTrue)
		})
	})
}
