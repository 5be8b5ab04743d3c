package pricing

import "github.com/WessleyAI/showroom/engine/domain"

// Stock option catalogs offered for listings that carry none of their own.
var (
	DefaultColors = []domain.Color{
		{Name: "Arctic White", Hex: "#FFFFFF"},
		{Name: "Jet Black", Hex: "#000000"},
		{Name: "Space Gray", Hex: "#52527A", Price: 500},
		{Name: "Deep Blue", Hex: "#002B5C", Price: 500},
		{Name: "Crimson Red", Hex: "#DC143C", Price: 750},
		{Name: "British Racing Green", Hex: "#004225", Price: 500},
		{Name: "Champagne Gold", Hex: "#D4AF37", Price: 1000},
		{Name: "Matte Gray", Hex: "#808080", Price: 2000},
	}
	DefaultInteriors = []domain.Option{
		{Name: "Black Premium Leather"},
		{Name: "Tan Nappa Leather", Price: 1500},
		{Name: "Red Sport Leather", Price: 1200},
		{Name: "White Premium Leather", Price: 1800},
	}
	DefaultWheels = []domain.Option{
		{Name: `19" Alloy Wheels`},
		{Name: `20" Performance Wheels`, Price: 1200},
		{Name: `21" Luxury Wheels`, Price: 2500},
	}
)

// Options is the effective configurator menu for one vehicle.
type Options struct {
	Colors    []domain.Color   `json:"colors"`
	Interiors []domain.Option  `json:"interiors"`
	Wheels    []domain.Option  `json:"wheels"`
	Packages  []domain.Package `json:"packages"`
	Terms     []int            `json:"terms"`
}

// OptionsFor returns v's own options, falling back to the stock catalogs.
func OptionsFor(v domain.Vehicle) Options {
	return Options{
		Colors:    orDefault(v.Colors, DefaultColors),
		Interiors: orDefault(v.Interiors, DefaultInteriors),
		Wheels:    orDefault(v.Wheels, DefaultWheels),
		Packages:  v.Packages,
		Terms:     domain.FinancingTerms,
	}
}

func orDefault[T any](own, def []T) []T {
	if len(own) > 0 {
		return own
	}
	return def
}
