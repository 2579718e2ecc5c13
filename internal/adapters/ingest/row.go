package ingest

import (
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/okian/jelajah/internal/domain/model"
	"github.com/okian/jelajah/internal/domain/types"
)

// CSV header names.
const (
	colCategory    = "kategori"
	colName        = "nama_wisata"
	colLatitude    = "latitude"
	colLongitude   = "longitude"
	colAddress     = "alamat"
	colRegion      = "provinsi"
	colSubregion   = "kota_kabupaten"
	colFullName    = "nama_lengkap"
	colDescription = "deskripsi_bersih"
	colImagePath   = "image_path"
)

var requiredColumns = []string{colCategory, colName, colRegion} //nolint:gochecknoglobals // fixed header contract

// row is the validation boundary between loosely typed CSV cells and
// model.Destination.
type row struct {
	Category    string  `validate:"required,category"`
	Name        string  `validate:"required,max=255"`
	Latitude    float64 `validate:"latitude"`
	Longitude   float64 `validate:"longitude"`
	Address     string  `validate:"max=1024"`
	Region      string  `validate:"required,max=128"`
	Subregion   string  `validate:"max=128"`
	FullName    string  `validate:"max=512"`
	Description string
	ImagePath   string `validate:"max=1024"`
}

var (
	validateOnce sync.Once          //nolint:gochecknoglobals // lazily built validator
	validate     *validator.Validate //nolint:gochecknoglobals // validator caches struct metadata
)

func rowValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			return types.IsCategory(fl.Field().String())
		})
	})
	return validate
}

// newRow trims every cell and parses coordinates; unparsable coordinates
// become 0.
func newRow(cells map[string]string) row {
	return row{
		Category:    cells[colCategory],
		Name:        cells[colName],
		Latitude:    parseCoordinate(cells[colLatitude]),
		Longitude:   parseCoordinate(cells[colLongitude]),
		Address:     cells[colAddress],
		Region:      cells[colRegion],
		Subregion:   cells[colSubregion],
		FullName:    cells[colFullName],
		Description: cells[colDescription],
		ImagePath:   cells[colImagePath],
	}
}

func (r *row) destination() model.Destination {
	category := r.Category
	if c, ok := types.ParseCategory(category); ok {
		category = string(c)
	}
	return model.Destination{
		Category:    category,
		Name:        r.Name,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		Address:     r.Address,
		Region:      r.Region,
		Subregion:   r.Subregion,
		FullName:    r.FullName,
		Description: r.Description,
		ImagePath:   r.ImagePath,
	}
}

func parseCoordinate(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(s, ",", ".")), 64)
	if err != nil {
		return 0
	}
	return v
}
