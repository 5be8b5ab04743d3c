package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/WessleyAI/showroom/engine/domain"
)

// SortKey selects a catalog ordering.
type SortKey string

const (
	SortFeatured       SortKey = "featured"
	SortPriceLow       SortKey = "price-low"
	SortPriceHigh      SortKey = "price-high"
	SortNewest         SortKey = "newest"
	SortMileageLow     SortKey = "mileage-low"
	SortRatingHigh     SortKey = "rating-high"
	SortFuelEfficiency SortKey = "fuel-efficiency"
	SortNameAsc        SortKey = "name-asc"
)

// SortKeys lists the canonical keys in menu order.
var SortKeys = []SortKey{
	SortFeatured, SortPriceLow, SortPriceHigh, SortNewest,
	SortMileageLow, SortRatingHigh, SortFuelEfficiency, SortNameAsc,
}

// aliases maps the spellings used by the different catalog pages.
var aliases = map[string]SortKey{
	"":           SortFeatured,
	"popular":    SortFeatured,
	"popularity": SortFeatured,
	"year-new":   SortNewest,
	"rating":     SortRatingHigh,
}

// ParseSortKey normalizes s. ok is false for unrecognized keys, which sort
// as SortFeatured.
func ParseSortKey(s string) (SortKey, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if k, ok := aliases[s]; ok {
		return k, true
	}
	k := SortKey(s)
	if slices.Contains(SortKeys, k) {
		return k, true
	}
	return SortFeatured, false
}

// Sort returns a newly ordered copy of vehicles. The sort is stable, so
// equal keys keep their dataset order, and featured (or any unknown key)
// returns the original order.
func Sort(vehicles []domain.Vehicle, key SortKey) []domain.Vehicle {
	out := slices.Clone(vehicles)
	if out == nil {
		out = []domain.Vehicle{}
	}
	if less := comparator(key); less != nil {
		slices.SortStableFunc(out, less)
	}
	return out
}

func comparator(key SortKey) func(a, b domain.Vehicle) int {
	if k, ok := aliases[string(key)]; ok {
		key = k
	}
	switch key {
	case SortPriceLow:
		return func(a, b domain.Vehicle) int { return cmp.Compare(a.Price, b.Price) }
	case SortPriceHigh:
		return func(a, b domain.Vehicle) int { return cmp.Compare(b.Price, a.Price) }
	case SortNewest:
		return func(a, b domain.Vehicle) int { return cmp.Compare(b.Year, a.Year) }
	case SortMileageLow:
		return func(a, b domain.Vehicle) int { return cmp.Compare(a.Mileage, b.Mileage) }
	case SortRatingHigh:
		return func(a, b domain.Vehicle) int {
			return cmp.Compare(b.RatingOr(domain.DefaultRating), a.RatingOr(domain.DefaultRating))
		}
	case SortFuelEfficiency:
		return func(a, b domain.Vehicle) int { return cmp.Compare(b.Efficiency(), a.Efficiency()) }
	case SortNameAsc:
		return func(a, b domain.Vehicle) int { return strings.Compare(a.Name(), b.Name()) }
	default:
		return nil
	}
}
