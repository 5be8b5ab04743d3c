// Package pricing prices a configured vehicle, its financing and its
// delivery.
package pricing

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/WessleyAI/showroom/engine/domain"
	"github.com/WessleyAI/showroom/pkg/fn"
	"github.com/google/uuid"
)

// PaymentMethod is how the buyer pays.
type PaymentMethod string

const (
	PaymentCash    PaymentMethod = "cash"
	PaymentFinance PaymentMethod = "finance"
	PaymentLease   PaymentMethod = "lease"
)

var (
	ErrUnknownPayment = errors.New("unknown payment method")
	ErrInvalidTerm    = errors.New("invalid financing term")
	ErrInvalidAmount  = errors.New("invalid amount")
)

// Configuration is a buyer's selection for one vehicle. Empty option names
// pick the first (base) choice.
type Configuration struct {
	VehicleID   int           `json:"vehicle_id"`
	Color       string        `json:"color,omitempty"`
	Interior    string        `json:"interior,omitempty"`
	Wheels      string        `json:"wheels,omitempty"`
	Packages    []string      `json:"packages,omitempty"`
	Payment     PaymentMethod `json:"payment,omitempty"`
	DownPayment int           `json:"down_payment,omitempty"`
	TermMonths  int           `json:"term_months,omitempty"`
	TradeIn     int           `json:"trade_in,omitempty"`
}

// LineItem is one priced entry of a quote.
type LineItem struct {
	Kind   string `json:"kind"`
	Name   string `json:"name"`
	Amount int    `json:"amount"`
}

// FinancePlan describes the monthly obligation of a financed or leased
// quote.
type FinancePlan struct {
	Method      PaymentMethod `json:"method"`
	APR         float64       `json:"apr"`
	DownPayment int           `json:"down_payment"`
	Principal   int           `json:"principal"`
	TermMonths  int           `json:"term_months"`
	Residual    int           `json:"residual,omitempty"`
	Monthly     float64       `json:"monthly"`
	TotalPaid   float64       `json:"total_paid"`
}

// Quote is a priced configuration.
type Quote struct {
	ID        string        `json:"id"`
	VehicleID int           `json:"vehicle_id"`
	Vehicle   string        `json:"vehicle"`
	Items     []LineItem    `json:"items"`
	Subtotal  int           `json:"subtotal"`
	TradeIn   int           `json:"trade_in"`
	Total     int           `json:"total"`
	Payment   PaymentMethod `json:"payment"`
	Finance   *FinancePlan  `json:"finance,omitempty"`
	Teaser    int           `json:"teaser_monthly"`
	CreatedAt time.Time     `json:"created_at"`
}

// Configure prices cfg against v: the base price plus the color, interior,
// wheel and package surcharges, less any trade-in.
func Configure(v domain.Vehicle, cfg Configuration) (Quote, error) {
	if cfg.TradeIn < 0 || cfg.DownPayment < 0 {
		return Quote{}, fmt.Errorf("pricing: configure: %w", ErrInvalidAmount)
	}
	opts := OptionsFor(v)

	color, err := pick(opts.Colors, cfg.Color, func(c domain.Color) string { return c.Name })
	if err != nil {
		return Quote{}, fmt.Errorf("pricing: color: %w", err)
	}
	interior, err := pick(opts.Interiors, cfg.Interior, optionName)
	if err != nil {
		return Quote{}, fmt.Errorf("pricing: interior: %w", err)
	}
	wheels, err := pick(opts.Wheels, cfg.Wheels, optionName)
	if err != nil {
		return Quote{}, fmt.Errorf("pricing: wheels: %w", err)
	}

	items := []LineItem{
		{Kind: "base", Name: v.Title(), Amount: v.Price},
		{Kind: "color", Name: color.Name, Amount: color.Price},
		{Kind: "interior", Name: interior.Name, Amount: interior.Price},
		{Kind: "wheels", Name: wheels.Name, Amount: wheels.Price},
	}
	picked := make([]domain.Package, 0, len(cfg.Packages))
	for _, name := range cfg.Packages {
		if strings.TrimSpace(name) == "" {
			return Quote{}, fmt.Errorf("pricing: package: empty name: %w", domain.ErrUnknownOption)
		}
		p, err := pick(opts.Packages, name, func(p domain.Package) string { return p.Name })
		if err != nil {
			return Quote{}, fmt.Errorf("pricing: package: %w", err)
		}
		picked = append(picked, p)
	}
	for _, p := range fn.UniqueBy(picked, func(p domain.Package) string { return p.Name }) {
		items = append(items, LineItem{Kind: "package", Name: p.Name, Amount: p.Price})
	}

	q := Quote{
		ID:        uuid.NewString(),
		VehicleID: v.ID,
		Vehicle:   v.Title(),
		Items:     items,
		TradeIn:   cfg.TradeIn,
		Payment:   cfg.Payment,
		CreatedAt: time.Now().UTC(),
	}
	for _, it := range items {
		q.Subtotal += it.Amount
	}
	q.Total = max(q.Subtotal-cfg.TradeIn, 0)
	q.Teaser = SimpleMonthly(q.Total)

	if q.Payment == "" {
		q.Payment = PaymentCash
	}
	switch q.Payment {
	case PaymentCash:
	case PaymentFinance, PaymentLease:
		plan, err := planFor(v, q.Payment, q.Total, cfg)
		if err != nil {
			return Quote{}, err
		}
		q.Finance = &plan
	default:
		return Quote{}, fmt.Errorf("pricing: payment %q: %w", cfg.Payment, ErrUnknownPayment)
	}
	return q, nil
}

func planFor(v domain.Vehicle, method PaymentMethod, total int, cfg Configuration) (FinancePlan, error) {
	term := cfg.TermMonths
	if term == 0 {
		term = domain.DefaultFinancingTerm
		if v.Financing != nil && domain.ValidFinancingTerm(v.Financing.Term) {
			term = v.Financing.Term
		}
	}
	if !domain.ValidFinancingTerm(term) {
		return FinancePlan{}, fmt.Errorf("pricing: term %d: %w", term, ErrInvalidTerm)
	}
	if cfg.DownPayment > total {
		return FinancePlan{}, fmt.Errorf("pricing: down payment exceeds total: %w", ErrInvalidAmount)
	}
	apr := DefaultAPR
	if v.Financing != nil && v.Financing.APR > 0 {
		apr = v.Financing.APR
	}

	plan := FinancePlan{
		Method:      method,
		APR:         apr,
		DownPayment: cfg.DownPayment,
		Principal:   total - cfg.DownPayment,
		TermMonths:  term,
	}
	if method == PaymentLease {
		plan.Residual = int(float64(total) * LeaseResidual)
		plan.Monthly = LeasePayment(float64(plan.Principal), float64(plan.Residual), apr, term)
	} else {
		plan.Monthly = MonthlyPayment(float64(plan.Principal), apr, term)
	}
	plan.TotalPaid = roundCents(float64(plan.DownPayment) + plan.Monthly*float64(term))
	return plan, nil
}

func optionName(o domain.Option) string { return o.Name }

// pick finds name in opts, ignoring case. An empty name picks the first
// option, or the zero value when there are none.
func pick[T any](opts []T, name string, nameOf func(T) string) (T, error) {
	var zero T
	name = strings.TrimSpace(name)
	if name == "" {
		if len(opts) == 0 {
			return zero, nil
		}
		return opts[0], nil
	}
	i := slices.IndexFunc(opts, func(o T) bool { return strings.EqualFold(nameOf(o), name) })
	if i < 0 {
		return zero, fmt.Errorf("%q: %w", name, domain.ErrUnknownOption)
	}
	return opts[i], nil
}
