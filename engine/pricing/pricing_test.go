package pricing

import (
	"errors"
	"testing"

	"github.com/WessleyAI/showroom/engine/domain"
	"github.com/google/uuid"
)

func testVehicle() domain.Vehicle {
	return domain.Vehicle{
		ID: 2, Make: "BMW", Model: "M5", Year: 2024, Price: 100000,
		Colors: []domain.Color{{Name: "Frozen Black"}, {Name: "Marina Bay Blue", Price: 750}},
		Packages: []domain.Package{
			{Name: "Executive Package", Price: 4500},
			{Name: "Driver Assistance Plus", Price: 3200},
		},
		Financing: &domain.FinanceTerms{APR: 3.9, DownPayment: 22000, Term: 60},
	}
}

func TestConfigure_Totals(t *testing.T) {
	q, err := Configure(testVehicle(), Configuration{
		Color:    "marina bay blue",
		Interior: "Tan Nappa Leather",
		Wheels:   `21" Luxury Wheels`,
		Packages: []string{"Executive Package", "executive package"},
		TradeIn:  9250,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Subtotal != 109250 {
		t.Fatalf("expected subtotal 109250, got %d", q.Subtotal)
	}
	if q.Total != 100000 {
		t.Fatalf("expected total 100000, got %d", q.Total)
	}
	if q.Teaser != 1666 {
		t.Fatalf("expected teaser 1666, got %d", q.Teaser)
	}
	if len(q.Items) != 5 {
		t.Fatalf("expected 5 line items, got %d", len(q.Items))
	}
	if q.Payment != PaymentCash || q.Finance != nil {
		t.Fatalf("expected cash quote, got %s %+v", q.Payment, q.Finance)
	}
	if _, err := uuid.Parse(q.ID); err != nil {
		t.Fatalf("expected uuid id, got %q", q.ID)
	}
}

func TestConfigure_DefaultsToBaseOptions(t *testing.T) {
	q, err := Configure(testVehicle(), Configuration{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Total != 100000 {
		t.Fatalf("expected base price, got %d", q.Total)
	}
	if q.Items[1].Name != "Frozen Black" || q.Items[2].Name != "Black Premium Leather" {
		t.Fatalf("expected first options, got %+v", q.Items)
	}
}

func TestConfigure_UnknownOption(t *testing.T) {
	cases := []Configuration{
		{Color: "Hot Pink"},
		{Interior: "Burlap"},
		{Wheels: "Square"},
		{Packages: []string{"Track Pack"}},
		{Packages: []string{""}},
	}
	for _, cfg := range cases {
		if _, err := Configure(testVehicle(), cfg); !errors.Is(err, domain.ErrUnknownOption) {
			t.Errorf("%+v: expected ErrUnknownOption, got %v", cfg, err)
		}
	}
}

func TestConfigure_TradeInFloorsAtZero(t *testing.T) {
	q, err := Configure(testVehicle(), Configuration{TradeIn: 500000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Total != 0 {
		t.Fatalf("expected 0, got %d", q.Total)
	}
}

func TestConfigure_Finance(t *testing.T) {
	q, err := Configure(testVehicle(), Configuration{Payment: PaymentFinance, DownPayment: 20000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f := q.Finance
	if f == nil {
		t.Fatal("expected a finance plan")
	}
	if f.APR != 3.9 || f.TermMonths != 60 || f.Principal != 80000 {
		t.Fatalf("unexpected plan %+v", f)
	}
	if want := MonthlyPayment(80000, 3.9, 60); f.Monthly != want {
		t.Fatalf("expected monthly %v, got %v", want, f.Monthly)
	}
	if f.TotalPaid <= float64(q.Total) {
		t.Fatalf("financed total %v should exceed price %d", f.TotalPaid, q.Total)
	}
}

func TestConfigure_Lease(t *testing.T) {
	v := testVehicle()
	v.Financing = nil
	q, err := Configure(v, Configuration{Payment: PaymentLease, TermMonths: 36})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Finance.APR != DefaultAPR {
		t.Fatalf("expected default APR, got %v", q.Finance.APR)
	}
	if q.Finance.Residual != 55000 {
		t.Fatalf("expected residual 55000, got %d", q.Finance.Residual)
	}
}

func TestConfigure_FinanceErrors(t *testing.T) {
	if _, err := Configure(testVehicle(), Configuration{Payment: PaymentFinance, TermMonths: 61}); !errors.Is(err, ErrInvalidTerm) {
		t.Fatalf("expected ErrInvalidTerm, got %v", err)
	}
	if _, err := Configure(testVehicle(), Configuration{Payment: PaymentFinance, DownPayment: 200000}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := Configure(testVehicle(), Configuration{Payment: "barter"}); !errors.Is(err, ErrUnknownPayment) {
		t.Fatalf("expected ErrUnknownPayment, got %v", err)
	}
	if _, err := Configure(testVehicle(), Configuration{TradeIn: -1}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestMonthlyPayment(t *testing.T) {
	cases := []struct {
		principal, apr float64
		months         int
		want           float64
	}{
		{100000, 6, 60, 1933.28},
		{100000, 0, 60, 1666.67},
		{0, 5, 60, 0},
		{1000, 5, 0, 0},
	}
	for _, tc := range cases {
		if got := MonthlyPayment(tc.principal, tc.apr, tc.months); got != tc.want {
			t.Errorf("MonthlyPayment(%v, %v, %d) = %v, want %v", tc.principal, tc.apr, tc.months, got, tc.want)
		}
	}
}

func TestLeasePayment(t *testing.T) {
	if got := LeasePayment(50000, 27500, 4.8, 36); got != 780 {
		t.Fatalf("expected 780, got %v", got)
	}
}

func TestSimpleMonthly(t *testing.T) {
	for price, want := range map[int]int{125000: 2083, 59: 0, 0: 0, -10: 0} {
		if got := SimpleMonthly(price); got != want {
			t.Errorf("SimpleMonthly(%d) = %d, want %d", price, got, want)
		}
	}
}

func TestOptionsFor(t *testing.T) {
	o := OptionsFor(testVehicle())
	if len(o.Colors) != 2 || len(o.Interiors) != len(DefaultInteriors) || len(o.Wheels) != len(DefaultWheels) {
		t.Fatalf("unexpected options %+v", o)
	}
	if len(o.Terms) != 6 {
		t.Fatalf("expected 6 terms, got %d", len(o.Terms))
	}
}
