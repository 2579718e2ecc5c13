package probe

import (
	"fmt"

	"github.com/okian/jelajah/internal/domain/model"
)

// Query is one recommendation request the probe sends.
type Query struct {
	Label    string
	Interest string
	Address  string
	// Filters is non-nil for the filtered route.
	Filters *model.Filters
}

// GenerateQueries crosses every category with every region, once on the
// plain route and once on the filtered route with a region override.
// A query for an unknown region is added so the empty-result path is hit.
func GenerateQueries(categories, regions []string) []Query {
	out := make([]Query, 0, len(categories)*(2*len(regions)+1))
	for _, c := range categories {
		for _, r := range regions {
			out = append(out,
				Query{
					Label:    fmt.Sprintf("recommend %s @ %s", c, r),
					Interest: c,
					Address:  "Pusat Kota, " + r,
				},
				Query{
					Label:    fmt.Sprintf("filtered %s @ %s", c, r),
					Interest: c,
					Address:  "Nowhere",
					Filters:  &model.Filters{Region: r},
				},
			)
		}
		out = append(out, Query{
			Label:    fmt.Sprintf("recommend %s @ unknown", c),
			Interest: c,
			Address:  "Jl. Tanpa Nama, Atlantis",
		})
	}
	return out
}
