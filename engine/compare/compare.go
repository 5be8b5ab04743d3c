// Package compare builds the side-by-side specification table for two to
// four vehicles and marks the best value on the highlighted rows.
package compare

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/WessleyAI/showroom/engine/domain"
	"github.com/WessleyAI/showroom/pkg/fn"
	"github.com/dustin/go-humanize"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	// MinVehicles is the smallest comparable set.
	MinVehicles = 2
	// MaxVehicles caps the comparison tray.
	MaxVehicles = 4
)

// NotAvailable is shown for missing attributes.
const NotAvailable = "N/A"

// Row is one line of the comparison table. Values are aligned with the input
// vehicles. WinnerID is set only on highlighted rows that have a winner.
type Row struct {
	Key       string   `json:"key"`
	Label     string   `json:"label"`
	Values    []string `json:"values"`
	Highlight bool     `json:"highlight"`
	WinnerID  *int     `json:"winner_id,omitempty"`
}

// Row keys.
const (
	RowPrice        = "price"
	RowType         = "type"
	RowYear         = "year"
	RowEngine       = "engine"
	RowAcceleration = "acceleration"
	RowTopSpeed     = "top_speed"
	RowHorsepower   = "horsepower"
	RowTorque       = "torque"
	RowFuelEconomy  = "fuel_economy"
	RowTransmission = "transmission"
	RowDrivetrain   = "drivetrain"
	RowSeating      = "seating"
	RowRating       = "rating"
)

type spec struct {
	key, label string
	format     func(domain.Vehicle) string
	// winner returns the index of the best vehicle, or -1.
	winner func([]domain.Vehicle) int
}

var specs = []spec{
	{RowPrice, "Price", formatPrice, lowestPrice},
	{RowType, "Type", func(v domain.Vehicle) string { return orNA(v.Category) }, nil},
	{RowYear, "Year", func(v domain.Vehicle) string { return strconv.Itoa(v.Year) }, nil},
	{RowEngine, "Engine", func(v domain.Vehicle) string { return orNA(v.Engine) }, nil},
	{RowAcceleration, "0-60 mph", func(v domain.Vehicle) string { return orNA(v.Acceleration) }, quickest},
	{RowTopSpeed, "Top Speed", func(v domain.Vehicle) string { return orNA(v.TopSpeed) }, nil},
	{RowHorsepower, "Horsepower", formatHorsepower, mostPowerful},
	{RowTorque, "Torque", formatTorque, nil},
	{RowFuelEconomy, "Fuel Economy", formatEconomy, nil},
	{RowTransmission, "Transmission", formatTransmission, nil},
	{RowDrivetrain, "Drivetrain", func(v domain.Vehicle) string { return orNA(v.Drivetrain) }, nil},
	{RowSeating, "Seating", func(v domain.Vehicle) string { return strconv.Itoa(v.SeatCount()) + " passengers" }, nil},
	{RowRating, "Dealer Rating", formatRating, nil},
}

// Compare returns the comparison rows for vehicles, in display order. Fewer
// than MinVehicles yields nil; past MaxVehicles only the first four are used.
func Compare(vehicles []domain.Vehicle) []Row {
	if len(vehicles) < MinVehicles {
		return nil
	}
	if len(vehicles) > MaxVehicles {
		vehicles = vehicles[:MaxVehicles]
	}
	rows := make([]Row, 0, len(specs))
	for _, s := range specs {
		row := Row{
			Key:       s.key,
			Label:     s.label,
			Values:    fn.Map(vehicles, s.format),
			Highlight: s.winner != nil,
		}
		if s.winner != nil {
			if i := s.winner(vehicles); i >= 0 {
				id := vehicles[i].ID
				row.WinnerID = &id
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// CompareContext is Compare inside a trace span.
func CompareContext(ctx context.Context, vehicles []domain.Vehicle) []Row {
	_, span := otel.Tracer("engine/compare").Start(ctx, "compare.table")
	defer span.End()
	span.SetAttributes(attribute.Int("compare.vehicles", len(vehicles)))
	return Compare(vehicles)
}

// Winner returns the winning vehicle ID of the row with key, if any.
func Winner(rows []Row, key string) (int, bool) {
	r, ok := fn.Find(rows, func(r Row) bool { return r.Key == key })
	if !ok || r.WinnerID == nil {
		return 0, false
	}
	return *r.WinnerID, true
}

func lowestPrice(vs []domain.Vehicle) int {
	return fn.BestIndex(vs, func(v domain.Vehicle) (int, bool) { return v.Price, true }, less[int])
}

func mostPowerful(vs []domain.Vehicle) int {
	return fn.BestIndex(vs, func(v domain.Vehicle) (int, bool) { return v.Horsepower, v.Horsepower > 0 }, greater[int])
}

func quickest(vs []domain.Vehicle) int {
	return fn.BestIndex(vs, func(v domain.Vehicle) (float64, bool) {
		s := ParseAcceleration(v.Acceleration)
		return s, !math.IsInf(s, 1)
	}, less[float64])
}

func less[T int | float64](a, b T) bool    { return a < b }
func greater[T int | float64](a, b T) bool { return a > b }

// leadingFloat matches the numeric prefix of strings such as "3.2s" or
// "2.8 sec".
var leadingFloat = regexp.MustCompile(`^\s*[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`)

// ParseAcceleration reads the leading number of a 0-60 time. Missing or
// unparseable values return +Inf so they never win.
func ParseAcceleration(s string) float64 {
	m := leadingFloat.FindString(s)
	if m == "" {
		return math.Inf(1)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
	if err != nil || math.IsNaN(f) {
		return math.Inf(1)
	}
	return f
}

// FormatPrice renders whole dollars with thousands separators.
func FormatPrice(price int) string {
	return "$" + humanize.Comma(int64(price))
}

func formatPrice(v domain.Vehicle) string { return FormatPrice(v.Price) }

func formatHorsepower(v domain.Vehicle) string {
	if v.Horsepower <= 0 {
		return NotAvailable
	}
	return strconv.Itoa(v.Horsepower) + " hp"
}

func formatTorque(v domain.Vehicle) string {
	if v.Torque <= 0 {
		return NotAvailable
	}
	return strconv.Itoa(v.Torque) + " lb-ft"
}

func formatEconomy(v domain.Vehicle) string {
	switch {
	case v.MPG != nil && v.MPG.Combined > 0:
		return strconv.Itoa(v.MPG.Combined) + " mpg"
	case v.ElectricRange > 0:
		return strconv.Itoa(v.ElectricRange) + " mi range"
	default:
		return NotAvailable
	}
}

func formatTransmission(v domain.Vehicle) string {
	if v.Transmission == "" {
		return "Automatic"
	}
	return v.Transmission
}

func formatRating(v domain.Vehicle) string {
	return strconv.FormatFloat(v.RatingOr(domain.DefaultRating), 'f', -1, 64) + "/5"
}

func orNA(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}
