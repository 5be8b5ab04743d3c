// Package catalog implements the catalog browser's filter and sort engines.
// Every function here is pure: inputs are never mutated and degenerate input
// yields an empty result rather than an error.
package catalog

import (
	"strconv"
	"strings"

	"github.com/WessleyAI/showroom/engine/domain"
	"github.com/WessleyAI/showroom/pkg/fn"
)

// Availability restricts listings by stock status.
type Availability string

const (
	AvailabilityAll       Availability = "all"
	AvailabilityAvailable Availability = "available"
	AvailabilitySoldOut   Availability = "sold-out"
)

// ParseAvailability maps user input to an Availability. Unknown values mean
// no restriction.
func ParseAvailability(s string) Availability {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "available", "in-stock", "in_stock", "true":
		return AvailabilityAvailable
	case "sold-out", "sold_out", "unavailable", "false":
		return AvailabilitySoldOut
	default:
		return AvailabilityAll
	}
}

// PriceRange is an inclusive price bound.
type PriceRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports min <= price <= max.
func (r PriceRange) Contains(price int) bool {
	return price >= r.Min && price <= r.Max
}

// FilterState is the full set of catalog restrictions. The zero value
// restricts nothing.
type FilterState struct {
	Search        string       `json:"search,omitempty"`
	Brands        []string     `json:"brands,omitempty"`
	FuelTypes     []string     `json:"fuel_types,omitempty"`
	Transmissions []string     `json:"transmissions,omitempty"`
	BodyTypes     []string     `json:"body_types,omitempty"`
	Seating       []int        `json:"seating,omitempty"`
	Price         *PriceRange  `json:"price,omitempty"`
	Features      []string     `json:"features,omitempty"`
	Availability  Availability `json:"availability,omitempty"`
}

// DefaultFilterState returns a state with every restriction cleared.
func DefaultFilterState() FilterState {
	return FilterState{}
}

// ActiveFilterCount is the number of active selections, as shown on the
// filter badge. The search box is not counted.
func ActiveFilterCount(s FilterState) int {
	n := len(lowerAll(s.Brands)) + len(lowerAll(s.FuelTypes)) + len(lowerAll(s.Transmissions)) +
		len(lowerAll(s.BodyTypes)) + len(s.Seating) + len(lowerAll(s.Features))
	if s.Price != nil {
		n++
	}
	if s.Availability != "" && s.Availability != AvailabilityAll {
		n++
	}
	return n
}

// Filter returns the vehicles matching every active restriction in s, in
// their original order.
//
// Categorical selections (brand, fuel, transmission, body type, seating) match
// when the vehicle's value contains any selected value, ignoring case. This
// loose containment is what the catalog has always done; "Hybrid" matches
// "Mild Hybrid" and "Automatic" matches "8-Speed Automatic".
func Filter(vehicles []domain.Vehicle, s FilterState) []domain.Vehicle {
	preds := s.predicates()
	out := make([]domain.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if matchAll(v, preds) {
			out = append(out, v)
		}
	}
	return out
}

// Matches reports whether a single vehicle passes s.
func Matches(v domain.Vehicle, s FilterState) bool {
	return matchAll(v, s.predicates())
}

type predicate func(domain.Vehicle) bool

func matchAll(v domain.Vehicle, preds []predicate) bool {
	for _, p := range preds {
		if !p(v) {
			return false
		}
	}
	return true
}

// predicates builds one check per active restriction, so inactive fields
// cost nothing per vehicle.
func (s FilterState) predicates() []predicate {
	var preds []predicate

	if q := strings.ToLower(strings.TrimSpace(s.Search)); q != "" {
		preds = append(preds, func(v domain.Vehicle) bool {
			return containsFold(v.Make, q) ||
				containsFold(v.Model, q) ||
				containsFold(v.Category, q) ||
				strings.Contains(strconv.Itoa(v.Year), q)
		})
	}
	if sel := lowerAll(s.Brands); len(sel) > 0 {
		preds = append(preds, func(v domain.Vehicle) bool { return containsAny(v.Make, sel) })
	}
	if s.Price != nil {
		r := *s.Price
		preds = append(preds, func(v domain.Vehicle) bool { return r.Contains(v.Price) })
	}
	if sel := lowerAll(s.FuelTypes); len(sel) > 0 {
		preds = append(preds, func(v domain.Vehicle) bool { return containsAny(v.FuelType(), sel) })
	}
	if sel := lowerAll(s.Transmissions); len(sel) > 0 {
		preds = append(preds, func(v domain.Vehicle) bool { return containsAny(v.Transmission, sel) })
	}
	if sel := lowerAll(s.BodyTypes); len(sel) > 0 {
		preds = append(preds, func(v domain.Vehicle) bool { return containsAny(v.Category, sel) })
	}
	if len(s.Seating) > 0 {
		sel := fn.Map(s.Seating, strconv.Itoa)
		preds = append(preds, func(v domain.Vehicle) bool {
			return containsAny(strconv.Itoa(v.SeatCount()), sel)
		})
	}
	if want := lowerAll(s.Features); len(want) > 0 {
		preds = append(preds, func(v domain.Vehicle) bool {
			return fn.All(want, v.Features.Has)
		})
	}
	switch s.Availability {
	case AvailabilityAvailable:
		preds = append(preds, func(v domain.Vehicle) bool { return v.Available })
	case AvailabilitySoldOut:
		preds = append(preds, func(v domain.Vehicle) bool { return !v.Available })
	}
	return preds
}

// containsAny reports whether value contains any of the lowercase needles.
// An empty value never matches.
func containsAny(value string, needles []string) bool {
	if value == "" {
		return false
	}
	value = strings.ToLower(value)
	return fn.Any(needles, func(n string) bool { return strings.Contains(value, n) })
}

func containsFold(value, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(value), lowerNeedle)
}

// lowerAll lowercases and trims selections, dropping blanks.
func lowerAll(in []string) []string {
	return fn.FilterMap(in, func(s string) (string, bool) {
		s = strings.ToLower(strings.TrimSpace(s))
		return s, s != ""
	})
}
