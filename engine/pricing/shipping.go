package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/WessleyAI/showroom/pkg/fn"
)

var (
	ErrUnknownPort   = errors.New("unknown port")
	ErrUnknownMethod = errors.New("unknown shipping method")
)

// Port is a destination port. Distance is in km from the origin port.
type Port struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Country  string `json:"country"`
	Region   string `json:"region"`
	Distance int    `json:"distance_km"`
}

// Ports lists the supported destinations.
var Ports = []Port{
	{ID: "nyc", Name: "New York", Country: "USA", Region: "North America", Distance: 0},
	{ID: "la", Name: "Los Angeles", Country: "USA", Region: "North America", Distance: 4500},
	{ID: "london", Name: "London", Country: "UK", Region: "Europe", Distance: 5500},
	{ID: "dubai", Name: "Dubai", Country: "UAE", Region: "Middle East", Distance: 11000},
	{ID: "tokyo", Name: "Tokyo", Country: "Japan", Region: "Asia", Distance: 11000},
	{ID: "sydney", Name: "Sydney", Country: "Australia", Region: "Oceania", Distance: 16000},
	{ID: "mumbai", Name: "Mumbai", Country: "India", Region: "Asia", Distance: 12000},
	{ID: "singapore", Name: "Singapore", Country: "Singapore", Region: "Asia", Distance: 15000},
}

// ShippingMethod is a freight option.
type ShippingMethod struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	RateKm  float64 `json:"rate_per_km"`
	Transit string  `json:"transit_weeks"`
}

// ShippingMethods lists the freight options, cheapest first.
var ShippingMethods = []ShippingMethod{
	{ID: "standard", Name: "Standard Shipping", RateKm: 0.5, Transit: "6-8"},
	{ID: "express", Name: "Express Shipping", RateKm: 0.8, Transit: "3-4"},
	{ID: "premium", Name: "Premium Air Freight", RateKm: 1.2, Transit: "1-2"},
}

const (
	insuranceRate    = 0.02
	doorDeliveryBase = 500
	doorDeliveryKm   = 0.1
	defaultDutyRate  = 0.10
	defaultVATRate   = 0.15
)

// Import duty and VAT (or sales tax) rates by destination country.
var (
	dutyRates = map[string]float64{
		"USA": 0.025, "UK": 0.10, "UAE": 0.05, "Japan": 0,
		"Australia": 0.05, "India": 0.125, "Singapore": 0,
	}
	vatRates = map[string]float64{
		"USA": 0.0875, "UK": 0.20, "UAE": 0.05, "Japan": 0.10,
		"Australia": 0.10, "India": 0.28, "Singapore": 0.08,
	}
)

// DutyRate returns the import duty rate for country.
func DutyRate(country string) float64 { return rateOr(dutyRates, country, defaultDutyRate) }

// VATRate returns the VAT or sales tax rate for country.
func VATRate(country string) float64 { return rateOr(vatRates, country, defaultVATRate) }

func rateOr(rates map[string]float64, country string, def float64) float64 {
	if r, ok := rates[country]; ok {
		return r
	}
	return def
}

// ShippingRequest selects a destination and the optional services.
type ShippingRequest struct {
	Port         string `json:"port"`
	Method       string `json:"method"`
	Insurance    bool   `json:"insurance"`
	DoorDelivery bool   `json:"door_delivery"`
}

// ShippingQuote is the landed cost of a vehicle. All amounts are dollars
// rounded to cents.
type ShippingQuote struct {
	Port         Port           `json:"port"`
	Method       ShippingMethod `json:"method"`
	Freight      float64        `json:"freight"`
	Insurance    float64        `json:"insurance"`
	DoorDelivery float64        `json:"door_delivery"`
	Shipping     float64        `json:"shipping"`
	ImportDuty   float64        `json:"import_duty"`
	VAT          float64        `json:"vat"`
	Taxes        float64        `json:"taxes"`
	Total        float64        `json:"total"`
}

// FindPort looks up a port by ID, ignoring case.
func FindPort(id string) (Port, bool) {
	return fn.Find(Ports, func(p Port) bool { return strings.EqualFold(p.ID, strings.TrimSpace(id)) })
}

// FindShippingMethod looks up a method by ID. Empty means standard.
func FindShippingMethod(id string) (ShippingMethod, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return ShippingMethods[0], true
	}
	return fn.Find(ShippingMethods, func(m ShippingMethod) bool { return strings.EqualFold(m.ID, id) })
}

// QuoteShipping prices delivery of a vehicle worth price. Shipping is freight
// plus insurance and door delivery; duty is charged on the price and VAT on
// price plus shipping.
func QuoteShipping(price int, req ShippingRequest) (ShippingQuote, error) {
	if price < 0 {
		return ShippingQuote{}, fmt.Errorf("pricing: shipping: %w", ErrInvalidAmount)
	}
	port, ok := FindPort(req.Port)
	if !ok {
		return ShippingQuote{}, fmt.Errorf("pricing: shipping: %q: %w", req.Port, ErrUnknownPort)
	}
	method, ok := FindShippingMethod(req.Method)
	if !ok {
		return ShippingQuote{}, fmt.Errorf("pricing: shipping: %q: %w", req.Method, ErrUnknownMethod)
	}

	p := float64(price)
	dist := float64(port.Distance)
	q := ShippingQuote{Port: port, Method: method, Freight: dist * method.RateKm}
	if req.Insurance {
		q.Insurance = p * insuranceRate
	}
	if req.DoorDelivery {
		q.DoorDelivery = doorDeliveryBase + dist*doorDeliveryKm
	}
	q.Shipping = q.Freight + q.Insurance + q.DoorDelivery
	q.ImportDuty = p * DutyRate(port.Country)
	q.VAT = (p + q.Shipping) * VATRate(port.Country)
	q.Taxes = q.ImportDuty + q.VAT
	q.Total = p + q.Shipping + q.Taxes

	for _, f := range []*float64{&q.Freight, &q.Insurance, &q.DoorDelivery, &q.Shipping, &q.ImportDuty, &q.VAT, &q.Taxes, &q.Total} {
		*f = roundCents(*f)
	}
	return q, nil
}
