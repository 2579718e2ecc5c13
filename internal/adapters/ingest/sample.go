package ingest

import (
	"github.com/okian/jelajah/internal/domain/model"
	"github.com/okian/jelajah/internal/domain/types"
)

// Sample returns the built-in three-entry catalog served when the CSV is
// missing and the sample fallback is enabled.
func Sample() []model.Destination {
	return []model.Destination{
		{
			Category:    string(types.Bahari),
			Name:        "Pantai Kuta",
			Latitude:    -8.7184,
			Longitude:   115.1686,
			Address:     "Kuta, Badung, Bali",
			Region:      "Bali",
			Subregion:   "Badung",
			FullName:    "Pantai Kuta Bali",
			Description: "Pantai terkenal di Bali dengan sunset yang indah",
		},
		{
			Category:    string(types.Budaya),
			Name:        "Candi Borobudur",
			Latitude:    -7.6079,
			Longitude:   110.2038,
			Address:     "Magelang, Jawa Tengah",
			Region:      "Jawa Tengah",
			Subregion:   "Magelang",
			FullName:    "Candi Borobudur Magelang",
			Description: "Candi Buddha terbesar di dunia",
		},
		{
			Category:    string(types.CagarAlam),
			Name:        "Taman Nasional Komodo",
			Latitude:    -8.5479,
			Longitude:   119.4853,
			Address:     "Flores, NTT",
			Region:      "Nusa Tenggara Timur",
			Subregion:   "Flores",
			FullName:    "Taman Nasional Komodo Flores",
			Description: "Habitat asli komodo dan keindahan alam",
		},
	}
}
