package domain

import "math"

// Filter option lists offered by the catalog. They mirror the values the
// dataset uses, but a listing is free to use any string.
var (
	FuelTypes         = []string{"Gasoline", "Diesel", "Hybrid", "Mild Hybrid", "Plug-in Hybrid", "Electric"}
	Transmissions     = []string{"Automatic", "Manual", "Dual-Clutch", "Single-Speed", "CVT", "PDK"}
	Drivetrains       = []string{"FWD", "RWD", "AWD", "4WD"}
	BodyTypes         = []string{"Sedan", "SUV", "Coupe", "Convertible", "Sports Car", "Supercar", "Grand Tourer", "Wagon", "Pickup"}
	SeatingCapacities = []int{2, 4, 5, 7, 8}
)

// FinancingTerms are the loan lengths, in months, a quote may use.
var FinancingTerms = []int{24, 36, 48, 60, 72, 84}

// DefaultFinancingTerm is used when a quote does not name a term.
const DefaultFinancingTerm = 60

// PriceBand is a labelled price range for quick filtering.
type PriceBand struct {
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
}

// PriceBands are the quick-pick price ranges. Max is inclusive.
var PriceBands = []PriceBand{
	{Label: "All Prices", Min: 0, Max: math.MaxInt},
	{Label: "Under $100k", Min: 0, Max: 100000},
	{Label: "$100k - $200k", Min: 100000, Max: 200000},
	{Label: "$200k - $300k", Min: 200000, Max: 300000},
	{Label: "$300k - $400k", Min: 300000, Max: 400000},
	{Label: "$400k+", Min: 400000, Max: math.MaxInt},
}

// ValidFinancingTerm reports whether months is an offered loan length.
func ValidFinancingTerm(months int) bool {
	for _, t := range FinancingTerms {
		if t == months {
			return true
		}
	}
	return false
}
