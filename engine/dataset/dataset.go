// Package dataset loads the static showroom catalog: the embedded YAML by
// default, or an operator-supplied file with the same layout.
package dataset

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/WessleyAI/showroom/engine/domain"
	"github.com/WessleyAI/showroom/pkg/fn"
	"github.com/WessleyAI/showroom/pkg/repo"
	"gopkg.in/yaml.v3"
)

//go:embed vehicles.yaml
var embedded []byte

// ErrEmpty is returned for a document with no vehicles.
var ErrEmpty = errors.New("dataset: no vehicles")

type file struct {
	Vehicles    []domain.Vehicle    `yaml:"vehicles"`
	Dealerships []domain.Dealership `yaml:"dealerships"`
}

// Dataset is a validated, read-only catalog. It is safe for concurrent use.
type Dataset struct {
	vehicles *repo.Memory[domain.Vehicle, int]
	dealers  *repo.Memory[domain.Dealership, int]
}

var (
	defaultOnce sync.Once
	defaultSet  *Dataset
	defaultErr  error
)

// Default returns the embedded catalog, parsed on first use.
func Default() (*Dataset, error) {
	defaultOnce.Do(func() {
		defaultSet, defaultErr = Parse(embedded)
	})
	return defaultSet, defaultErr
}

// Load reads the catalog at path, or the embedded one when path is empty.
func Load(path string) (*Dataset, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// LoadFile reads and validates a catalog file.
func LoadFile(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a catalog document. Unknown keys are rejected
// so typos in hand-edited files surface at startup.
func Parse(data []byte) (*Dataset, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f file
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("dataset: parse yaml: %w", err)
	}
	return New(f.Vehicles, f.Dealerships)
}

// New validates records built in code.
func New(vehicles []domain.Vehicle, dealers []domain.Dealership) (*Dataset, error) {
	if len(vehicles) == 0 {
		return nil, ErrEmpty
	}
	if err := domain.ValidateDataset(vehicles); err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	if err := domain.ValidateDealerships(dealers); err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	return &Dataset{
		vehicles: repo.NewMemory("vehicle", vehicles, func(v domain.Vehicle) int { return v.ID }),
		dealers:  repo.NewMemory("dealership", dealers, func(d domain.Dealership) int { return d.ID }),
	}, nil
}

// Vehicles returns a copy of every listing in dataset order.
func (d *Dataset) Vehicles() []domain.Vehicle { return d.vehicles.All() }

// Repo exposes the listings as a repository.
func (d *Dataset) Repo() repo.Reader[domain.Vehicle, int] { return d.vehicles }

// Vehicle returns one listing. Unknown IDs match both domain.ErrUnknownVehicle
// and repo.ErrNotFound.
func (d *Dataset) Vehicle(ctx context.Context, id int) (domain.Vehicle, error) {
	v, err := d.vehicles.Get(ctx, id)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("dataset: %w: %w", domain.ErrUnknownVehicle, err)
	}
	return v, nil
}

// Dealerships returns a copy of every dealership.
func (d *Dataset) Dealerships() []domain.Dealership { return d.dealers.All() }

// Dealership returns one dealership by ID.
func (d *Dataset) Dealership(ctx context.Context, id int) (domain.Dealership, error) {
	return d.dealers.Get(ctx, id)
}

// DealershipFor finds the full record of the dealership selling v.
func (d *Dataset) DealershipFor(v domain.Vehicle) (domain.Dealership, bool) {
	return fn.Find(d.dealers.All(), func(x domain.Dealership) bool {
		return strings.EqualFold(x.Name, v.Dealership.Name)
	})
}
