// Package domain defines the vehicle catalog records shared by the showroom
// engines, along with the option lists and validation applied when the static
// dataset is loaded.
package domain

import (
	"strconv"
	"strings"
)

// DefaultSeats is assumed when a vehicle record carries no seat count.
const DefaultSeats = 5

// DefaultRating is the placeholder rating used for vehicles without reviews.
const DefaultRating = 4.5

// Vehicle is a single catalog listing. Records are read-only once loaded.
type Vehicle struct {
	ID            int           `json:"id" yaml:"id"`
	Make          string        `json:"make" yaml:"make"`
	Model         string        `json:"model" yaml:"model"`
	Year          int           `json:"year" yaml:"year"`
	Price         int           `json:"price" yaml:"price"`
	Category      string        `json:"category,omitempty" yaml:"category"`
	Mileage       int           `json:"mileage" yaml:"mileage"`
	Transmission  string        `json:"transmission,omitempty" yaml:"transmission"`
	Fuel          string        `json:"fuel,omitempty" yaml:"fuel"`
	Drivetrain    string        `json:"drivetrain,omitempty" yaml:"drivetrain"`
	Engine        string        `json:"engine,omitempty" yaml:"engine"`
	Horsepower    int           `json:"horsepower,omitempty" yaml:"horsepower"`
	Torque        int           `json:"torque,omitempty" yaml:"torque"`
	Acceleration  string        `json:"acceleration,omitempty" yaml:"acceleration"`
	TopSpeed      string        `json:"top_speed,omitempty" yaml:"topSpeed"`
	MPG           *FuelEconomy  `json:"mpg,omitempty" yaml:"mpg"`
	ElectricRange int           `json:"electric_range,omitempty" yaml:"electricRange"`
	ChargingTime  string        `json:"charging_time,omitempty" yaml:"chargingTime"`
	Seats         int           `json:"seats,omitempty" yaml:"seats"`
	Colors        []Color       `json:"colors,omitempty" yaml:"colors"`
	Interiors     []Option      `json:"interiors,omitempty" yaml:"interiors"`
	Wheels        []Option      `json:"wheels,omitempty" yaml:"wheels"`
	Packages      []Package     `json:"packages,omitempty" yaml:"packages"`
	Images        Images        `json:"images" yaml:"images"`
	Features      Features      `json:"features" yaml:"features"`
	Description   string        `json:"description,omitempty" yaml:"description"`
	Rating        *float64      `json:"rating,omitempty" yaml:"rating"`
	Reviews       int           `json:"reviews,omitempty" yaml:"reviews"`
	Available     bool          `json:"available" yaml:"available"`
	Dealership    DealerRef     `json:"dealership" yaml:"dealership"`
	VIN           string        `json:"vin,omitempty" yaml:"vin"`
	Warranty      string        `json:"warranty,omitempty" yaml:"warranty"`
	Financing     *FinanceTerms `json:"financing,omitempty" yaml:"financing"`
}

// FuelEconomy holds EPA-style miles-per-gallon figures.
type FuelEconomy struct {
	City     int `json:"city" yaml:"city"`
	Highway  int `json:"highway" yaml:"highway"`
	Combined int `json:"combined" yaml:"combined"`
}

// Color is a paint option. Price is the surcharge over the base price.
type Color struct {
	Name  string `json:"name" yaml:"name"`
	Hex   string `json:"hex" yaml:"hex"`
	Price int    `json:"price,omitempty" yaml:"price"`
}

// Option is a priced configurator choice such as an interior or wheel set.
type Option struct {
	Name  string `json:"name" yaml:"name"`
	Price int    `json:"price,omitempty" yaml:"price"`
}

// Package is a bundle of features sold as one option.
type Package struct {
	Name        string   `json:"name" yaml:"name"`
	Price       int      `json:"price" yaml:"price"`
	Features    []string `json:"features,omitempty" yaml:"features"`
	Description string   `json:"description,omitempty" yaml:"description"`
}

// Images groups the gallery URLs of a listing.
type Images struct {
	Exterior []string `json:"exterior" yaml:"exterior"`
	Interior []string `json:"interior" yaml:"interior"`
}

// DealerRef is the selling dealership as embedded in a listing.
type DealerRef struct {
	Name     string `json:"name" yaml:"name"`
	Location string `json:"location,omitempty" yaml:"location"`
	Phone    string `json:"phone,omitempty" yaml:"phone"`
	Email    string `json:"email,omitempty" yaml:"email"`
}

// FinanceTerms are the dealer's advertised default financing terms.
type FinanceTerms struct {
	APR            float64 `json:"apr" yaml:"apr"`
	MonthlyPayment int     `json:"monthly_payment,omitempty" yaml:"monthlyPayment"`
	DownPayment    int     `json:"down_payment" yaml:"downPayment"`
	Term           int     `json:"term" yaml:"term"`
}

// Dealership is a full dealership record.
type Dealership struct {
	ID       int               `json:"id" yaml:"id"`
	Name     string            `json:"name" yaml:"name"`
	Location string            `json:"location" yaml:"location"`
	Address  string            `json:"address,omitempty" yaml:"address"`
	Rating   float64           `json:"rating" yaml:"rating"`
	Reviews  int               `json:"reviews" yaml:"reviews"`
	Phone    string            `json:"phone,omitempty" yaml:"phone"`
	Email    string            `json:"email,omitempty" yaml:"email"`
	Hours    map[string]string `json:"hours,omitempty" yaml:"hours"`
	Services []string          `json:"services,omitempty" yaml:"services"`
	Brands   []string          `json:"brands,omitempty" yaml:"brands"`
}

// Name returns "Make Model".
func (v Vehicle) Name() string {
	return v.Make + " " + v.Model
}

// Title returns "Year Make Model".
func (v Vehicle) Title() string {
	return strconv.Itoa(v.Year) + " " + v.Name()
}

// PrimaryImage returns the first exterior image, or "" when the listing has none.
func (v Vehicle) PrimaryImage() string {
	if len(v.Images.Exterior) == 0 {
		return ""
	}
	return v.Images.Exterior[0]
}

// FuelType returns the declared fuel, inferring "Electric" from an electric
// range and "Petrol" otherwise.
func (v Vehicle) FuelType() string {
	if v.Fuel != "" {
		return v.Fuel
	}
	if v.ElectricRange > 0 {
		return "Electric"
	}
	return "Petrol"
}

// SeatCount returns the seat count, defaulting to DefaultSeats.
func (v Vehicle) SeatCount() int {
	if v.Seats > 0 {
		return v.Seats
	}
	return DefaultSeats
}

// RatingOr returns the rating or def when the listing is unrated.
func (v Vehicle) RatingOr(def float64) float64 {
	if v.Rating == nil {
		return def
	}
	return *v.Rating
}

// Efficiency is combined MPG, else electric range, else 0.
func (v Vehicle) Efficiency() int {
	if v.MPG != nil && v.MPG.Combined > 0 {
		return v.MPG.Combined
	}
	return v.ElectricRange
}

// Color looks up a paint option by name (case-insensitive).
func (v Vehicle) Color(name string) (Color, bool) {
	for _, c := range v.Colors {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Color{}, false
}

// Rating returns a pointer to r, for building records in code.
func Rating(r float64) *float64 { return &r }
