package catalog

import (
	"context"
	"slices"

	"github.com/WessleyAI/showroom/engine/domain"
	"github.com/WessleyAI/showroom/pkg/fn"
	"github.com/WessleyAI/showroom/pkg/repo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Query filters then sorts.
func Query(vehicles []domain.Vehicle, s FilterState, key SortKey) []domain.Vehicle {
	return Sort(Filter(vehicles, s), key)
}

// Request is one catalog page request.
type Request struct {
	Filter FilterState
	Sort   SortKey
	Page   repo.ListOpts
}

// Result is one page of matching vehicles. Total counts all matches.
type Result struct {
	Total    int              `json:"total"`
	Offset   int              `json:"offset"`
	Limit    int              `json:"limit"`
	Active   int              `json:"active_filters"`
	Vehicles []domain.Vehicle `json:"vehicles"`
}

// Search runs Query and slices out the requested page inside a trace span.
func Search(ctx context.Context, vehicles []domain.Vehicle, req Request) Result {
	_, span := otel.Tracer("engine/catalog").Start(ctx, "catalog.search")
	defer span.End()

	matched := Query(vehicles, req.Filter, req.Sort)
	page := repo.Paginate(matched, req.Page)
	span.SetAttributes(
		attribute.Int("catalog.size", len(vehicles)),
		attribute.Int("catalog.matched", len(matched)),
		attribute.String("catalog.sort", string(req.Sort)),
	)
	return Result{
		Total:    len(matched),
		Offset:   req.Page.Offset,
		Limit:    req.Page.Limit,
		Active:   ActiveFilterCount(req.Filter),
		Vehicles: page,
	}
}

// Facets summarizes the values present in a collection, for building the
// filter sidebar.
type Facets struct {
	Count         int                `json:"count"`
	Makes         []string           `json:"makes"`
	MakeCounts    map[string]int     `json:"make_counts"`
	Categories    []string           `json:"categories"`
	FuelTypes     []string           `json:"fuel_types"`
	Transmissions []string           `json:"transmissions"`
	Seating       []int              `json:"seating"`
	Price         PriceRange         `json:"price"`
	PriceBands    []domain.PriceBand `json:"price_bands"`
	SortKeys      []SortKey          `json:"sort_keys"`
}

// BuildFacets computes facets over vehicles. Makes and seat counts are
// sorted; categories, fuels and transmissions keep first-seen order.
func BuildFacets(vehicles []domain.Vehicle) Facets {
	f := Facets{
		Count:         len(vehicles),
		Makes:         nonEmpty(fn.Unique(fn.Map(vehicles, func(v domain.Vehicle) string { return v.Make }))),
		Categories:    nonEmpty(fn.Unique(fn.Map(vehicles, func(v domain.Vehicle) string { return v.Category }))),
		FuelTypes:     nonEmpty(fn.Unique(fn.Map(vehicles, domain.Vehicle.FuelType))),
		Transmissions: nonEmpty(fn.Unique(fn.Map(vehicles, func(v domain.Vehicle) string { return v.Transmission }))),
		Seating:       fn.Unique(fn.Map(vehicles, domain.Vehicle.SeatCount)),
		PriceBands:    domain.PriceBands,
		SortKeys:      SortKeys,
	}
	slices.Sort(f.Makes)
	f.MakeCounts = make(map[string]int, len(f.Makes))
	for mk, vs := range fn.GroupBy(vehicles, func(v domain.Vehicle) string { return v.Make }) {
		if mk != "" {
			f.MakeCounts[mk] = len(vs)
		}
	}
	slices.Sort(f.Seating)
	for i, v := range vehicles {
		if i == 0 || v.Price < f.Price.Min {
			f.Price.Min = v.Price
		}
		if v.Price > f.Price.Max {
			f.Price.Max = v.Price
		}
	}
	return f
}

func nonEmpty(in []string) []string {
	return fn.Filter(in, func(s string) bool { return s != "" })
}
