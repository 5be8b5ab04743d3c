package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/WessleyAI/showroom/engine/domain"
	"github.com/WessleyAI/showroom/pkg/repo"
)

func TestDefault(t *testing.T) {
	ds, err := Default()
	if err != nil {
		t.Fatalf("embedded dataset invalid: %v", err)
	}
	vs := ds.Vehicles()
	if len(vs) != 15 {
		t.Fatalf("expected 15 vehicles, got %d", len(vs))
	}
	if len(ds.Dealerships()) != 3 {
		t.Fatalf("expected 3 dealerships, got %d", len(ds.Dealerships()))
	}
	for i, v := range vs {
		if v.ID != i+1 {
			t.Fatalf("expected id %d at %d, got %d", i+1, i, v.ID)
		}
		if v.PrimaryImage() == "" {
			t.Errorf("vehicle %d has no exterior image", v.ID)
		}
		if v.Features.Len() == 0 {
			t.Errorf("vehicle %d has no features", v.ID)
		}
	}
	again, _ := Default()
	if again != ds {
		t.Fatal("Default should parse once")
	}
}

func TestDefault_Records(t *testing.T) {
	ds, _ := Default()
	ctx := context.Background()

	tesla, err := ds.Vehicle(ctx, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tesla.ElectricRange != 405 || tesla.FuelType() != "Electric" {
		t.Fatalf("unexpected tesla %d %s", tesla.ElectricRange, tesla.FuelType())
	}
	if got := tesla.Features.Get(domain.FeatureSafety); len(got) == 0 {
		t.Fatal("expected categorized features")
	}

	ferrari, _ := ds.Vehicle(ctx, 9)
	if ferrari.Available {
		t.Fatal("expected the Ferrari to be sold")
	}
	if ferrari.Financing == nil || ferrari.Financing.Term != 60 {
		t.Fatalf("expected financing terms, got %+v", ferrari.Financing)
	}

	dealer, ok := ds.DealershipFor(tesla)
	if ok {
		t.Fatalf("tesla showroom has no full record, got %+v", dealer)
	}
	s, _ := ds.Vehicle(ctx, 1)
	dealer, ok = ds.DealershipFor(s)
	if !ok || dealer.Reviews != 567 {
		t.Fatalf("expected Beverly Hills Mercedes, got %+v", dealer)
	}
}

func TestVehicle_Unknown(t *testing.T) {
	ds, _ := Default()
	_, err := ds.Vehicle(context.Background(), 999)
	if !errors.Is(err, domain.ErrUnknownVehicle) || !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected unknown vehicle, got %v", err)
	}
}

func TestVehicles_ReturnsCopy(t *testing.T) {
	ds, _ := Default()
	vs := ds.Vehicles()
	vs[0].Price = -1
	if ds.Vehicles()[0].Price == -1 {
		t.Fatal("Vehicles exposed internal slice")
	}
}

func TestParse_FeatureShapes(t *testing.T) {
	doc := []byte(`
vehicles:
  - id: 1
    make: A
    model: Listed
    price: 10
    features: [Sunroof, Heated Seats]
  - id: 2
    make: B
    model: Grouped
    price: 20
    features:
      comfort: [Heated Seats]
      safety: [Airbags]
`)
	ds, err := Parse(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	vs := ds.Vehicles()
	if got := vs[0].Features.Get(domain.FeatureGeneral); len(got) != 2 {
		t.Fatalf("expected 2 general features, got %v", got)
	}
	if cats := vs[1].Features.Categories(); len(cats) != 2 || cats[0] != domain.FeatureSafety {
		t.Fatalf("expected safety first, got %v", cats)
	}
	if vs[0].PrimaryImage() != "" {
		t.Fatal("expected no primary image")
	}
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]struct {
		doc  string
		want error
	}{
		"empty":       {"", ErrEmpty},
		"no vehicles": {"vehicles: []\n", ErrEmpty},
		"duplicate":   {"vehicles:\n  - {id: 1, make: A, model: B}\n  - {id: 1, make: C, model: D}\n", domain.ErrDuplicateID},
		"negative":    {"vehicles:\n  - {id: 1, make: A, model: B, price: -5}\n", domain.ErrNegativePrice},
		"rating":      {"vehicles:\n  - {id: 1, make: A, model: B, rating: 7}\n", domain.ErrRatingOutOfRange},
		"no make":     {"vehicles:\n  - {id: 1, model: B}\n", domain.ErrMissingField},
	}
	for name, tc := range cases {
		if _, err := Parse([]byte(tc.doc)); !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", name, tc.want, err)
		}
	}
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("vehicles:\n  - {id: 1, make: A, model: B, colour: red}\n"))
	if err == nil {
		t.Fatal("expected unknown field error")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cars.yaml")
	doc := "vehicles:\n  - {id: 7, make: Genesis, model: G90, price: 95000}\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	ds, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ds.Vehicles()) != 1 || ds.Vehicles()[0].ID != 7 {
		t.Fatalf("unexpected vehicles %+v", ds.Vehicles())
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
	def, err := Load("")
	if err != nil || len(def.Vehicles()) != 15 {
		t.Fatalf("expected embedded dataset, got %v", err)
	}
}
